package engine

import (
	"testing"

	"storemy/pkg/config"
	"storemy/pkg/execution"
	"storemy/pkg/tuple"
	"storemy/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.DataDir = t.TempDir()
	return cfg
}

func usersTupleDesc(t *testing.T) *tuple.TupleDescription {
	t.Helper()
	td, err := tuple.NewTupleDesc(
		[]types.Type{types.IntType, types.StringType},
		[]string{"id", "name"},
	)
	require.NoError(t, err)
	return td
}

func TestNew_CreatesDataDir(t *testing.T) {
	db, err := New(testConfig(t))
	require.NoError(t, err)
	assert.NotNil(t, db.Catalog())
	assert.NotNil(t, db.BufferPool())
}

func TestCreateTable_RegistersInCatalog(t *testing.T) {
	db, err := New(testConfig(t))
	require.NoError(t, err)

	tid, err := db.CreateTable("users", usersTupleDesc(t))
	require.NoError(t, err)

	name, err := db.Catalog().TableName(tid)
	require.NoError(t, err)
	assert.Equal(t, "users", name)
}

func TestInsertAndScan_RoundTrips(t *testing.T) {
	db, err := New(testConfig(t))
	require.NoError(t, err)

	tableID, err := db.CreateTable("users", usersTupleDesc(t))
	require.NoError(t, err)

	txn, err := db.Begin()
	require.NoError(t, err)

	tup := tuple.NewTuple(usersTupleDesc(t))
	require.NoError(t, tup.SetField(0, types.NewIntField(1)))
	require.NoError(t, tup.SetField(1, types.NewStringField("alice", 32)))

	require.NoError(t, db.BufferPool().InsertTuple(txn.ID, tableID, tup))
	require.NoError(t, db.Commit(txn.ID))

	readTxn, err := db.Begin()
	require.NoError(t, err)

	scan, err := execution.NewSeqScan(readTxn.ID, tableID, db.Catalog(), db.BufferPool())
	require.NoError(t, err)
	require.NoError(t, scan.Open())
	defer scan.Close()

	has, err := scan.HasNext()
	require.NoError(t, err)
	require.True(t, has)

	result, err := scan.Next()
	require.NoError(t, err)

	name, err := result.GetField(1)
	require.NoError(t, err)
	assert.Equal(t, "alice", name.(*types.StringField).Value)

	require.NoError(t, db.Commit(readTxn.ID))
}

func TestAbort_DiscardsUncommittedWrites(t *testing.T) {
	db, err := New(testConfig(t))
	require.NoError(t, err)

	tableID, err := db.CreateTable("users", usersTupleDesc(t))
	require.NoError(t, err)

	txn, err := db.Begin()
	require.NoError(t, err)

	tup := tuple.NewTuple(usersTupleDesc(t))
	require.NoError(t, tup.SetField(0, types.NewIntField(1)))
	require.NoError(t, tup.SetField(1, types.NewStringField("alice", 32)))

	require.NoError(t, db.BufferPool().InsertTuple(txn.ID, tableID, tup))
	require.NoError(t, db.Abort(txn.ID))

	readTxn, err := db.Begin()
	require.NoError(t, err)

	scan, err := execution.NewSeqScan(readTxn.ID, tableID, db.Catalog(), db.BufferPool())
	require.NoError(t, err)
	require.NoError(t, scan.Open())
	defer scan.Close()

	has, err := scan.HasNext()
	require.NoError(t, err)
	assert.False(t, has)

	require.NoError(t, db.Commit(readTxn.ID))
}

func TestBegin_AssignsDistinctTransactionIDs(t *testing.T) {
	db, err := New(testConfig(t))
	require.NoError(t, err)

	a, err := db.Begin()
	require.NoError(t, err)
	b, err := db.Begin()
	require.NoError(t, err)

	assert.False(t, a.ID.Equals(b.ID))

	require.NoError(t, db.Commit(a.ID))
	require.NoError(t, db.Commit(b.ID))
}
