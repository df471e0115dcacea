package transaction

import (
	"storemy/pkg/primitives"
	"storemy/pkg/storage/page"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactionStatus_String(t *testing.T) {
	tests := []struct {
		status   TransactionStatus
		expected string
	}{
		{TxActive, "ACTIVE"},
		{TxCommitting, "COMMITTING"},
		{TxAborting, "ABORTING"},
		{TxCommitted, "COMMITTED"},
		{TxAborted, "ABORTED"},
		{TransactionStatus(999), "UNKNOWN"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, tt.status.String())
	}
}

func TestNewTransactionContext(t *testing.T) {
	tid := primitives.NewTransactionID()
	ctx := NewTransactionContext(tid)

	require.NotNil(t, ctx)
	assert.Equal(t, tid, ctx.ID)
	assert.True(t, ctx.IsActive())
	assert.Equal(t, TxActive, ctx.GetStatus())
}

func TestTransactionContext_SetStatus(t *testing.T) {
	ctx := NewTransactionContext(primitives.NewTransactionID())

	ctx.SetStatus(TxCommitting)
	assert.Equal(t, TxCommitting, ctx.GetStatus())
	assert.True(t, ctx.Duration() >= 0)

	ctx.SetStatus(TxCommitted)
	assert.Equal(t, TxCommitted, ctx.GetStatus())
	assert.False(t, ctx.IsActive())
}

func TestTransactionContext_RecordPageAccess(t *testing.T) {
	ctx := NewTransactionContext(primitives.NewTransactionID())
	pid := page.NewPageDescriptor(1, 0)

	ctx.RecordPageAccess(pid, primitives.ReadOnly)
	perm, exists := ctx.GetPagePermission(pid)
	require.True(t, exists)
	assert.Equal(t, primitives.ReadOnly, perm)
	assert.Equal(t, 1, ctx.GetStatistics().PagesRead)

	ctx.RecordPageAccess(pid, primitives.ReadWrite)
	perm, _ = ctx.GetPagePermission(pid)
	assert.Equal(t, primitives.ReadWrite, perm)

	// A later read-only access must not downgrade an existing read-write.
	ctx.RecordPageAccess(pid, primitives.ReadOnly)
	perm, _ = ctx.GetPagePermission(pid)
	assert.Equal(t, primitives.ReadWrite, perm)
}

func TestTransactionContext_MarkPageDirty(t *testing.T) {
	ctx := NewTransactionContext(primitives.NewTransactionID())
	pid := page.NewPageDescriptor(1, 0)

	ctx.MarkPageDirty(pid)
	ctx.MarkPageDirty(pid)

	assert.Equal(t, []primitives.PageID{pid}, ctx.GetDirtyPages())
	assert.Equal(t, 1, ctx.GetStatistics().PagesWritten)
}

func TestTransactionContext_TupleCounters(t *testing.T) {
	ctx := NewTransactionContext(primitives.NewTransactionID())

	ctx.RecordTupleRead()
	ctx.RecordTupleRead()
	ctx.RecordTupleWrite()
	ctx.RecordTupleDelete()

	stats := ctx.GetStatistics()
	assert.Equal(t, 2, stats.TuplesRead)
	assert.Equal(t, 1, stats.TuplesWritten)
	assert.Equal(t, 1, stats.TuplesDeleted)
}

func TestTransactionRegistry_BeginAndGet(t *testing.T) {
	reg := NewTransactionRegistry()

	ctx, err := reg.Begin()
	require.NoError(t, err)
	require.NotNil(t, ctx)

	fetched, err := reg.Get(ctx.ID)
	require.NoError(t, err)
	assert.Same(t, ctx, fetched)
	assert.Equal(t, 1, reg.Count())
}

func TestTransactionRegistry_GetMissingFails(t *testing.T) {
	reg := NewTransactionRegistry()
	_, err := reg.Get(primitives.NewTransactionID())
	assert.Error(t, err)
}

func TestTransactionRegistry_GetOrCreate(t *testing.T) {
	reg := NewTransactionRegistry()
	tid := primitives.NewTransactionID()

	first := reg.GetOrCreate(tid)
	second := reg.GetOrCreate(tid)
	assert.Same(t, first, second)
}

func TestTransactionRegistry_Remove(t *testing.T) {
	reg := NewTransactionRegistry()
	ctx, err := reg.Begin()
	require.NoError(t, err)

	reg.Remove(ctx.ID)
	assert.Equal(t, 0, reg.Count())
}

func TestTransactionRegistry_GetActive(t *testing.T) {
	reg := NewTransactionRegistry()
	active, err := reg.Begin()
	require.NoError(t, err)
	done, err := reg.Begin()
	require.NoError(t, err)
	done.SetStatus(TxCommitted)

	activeList := reg.GetActive()
	require.Len(t, activeList, 1)
	assert.Same(t, active, activeList[0])
}
