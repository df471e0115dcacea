package heap

import (
	"storemy/pkg/dberr"
	"storemy/pkg/primitives"
	"storemy/pkg/storage/page"
	"storemy/pkg/tuple"
	"storemy/pkg/types"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTupleDesc(t *testing.T) *tuple.TupleDescription {
	t.Helper()
	td, err := tuple.NewTupleDesc([]types.Type{types.IntType, types.StringType}, []string{"id", "name"})
	require.NoError(t, err)
	return td
}

func fillTuple(t *testing.T, td *tuple.TupleDescription, id int32, name string) *tuple.Tuple {
	t.Helper()
	tup := tuple.NewTuple(td)
	require.NoError(t, tup.SetField(0, types.NewIntField(id)))
	require.NoError(t, tup.SetField(1, types.NewStringField(name, types.StringMaxSize)))
	return tup
}

func TestNewEmptyHeapPage(t *testing.T) {
	td := testTupleDesc(t)
	pid := page.NewPageDescriptor(1, 0)

	hp, err := NewEmptyHeapPage(pid, td)
	require.NoError(t, err)
	assert.Equal(t, numSlots(int(td.GetSize())), hp.GetNumEmptySlots())
	assert.Empty(t, hp.GetTuples())
}

func TestNewHeapPage_RejectsWrongSize(t *testing.T) {
	td := testTupleDesc(t)
	pid := page.NewPageDescriptor(1, 0)

	_, err := NewHeapPage(pid, make([]byte, page.PageSize-1), td)
	require.Error(t, err)
	assert.True(t, dberr.Is(err, dberr.KindStorage))
}

func TestHeapPage_InsertAndGetTuples(t *testing.T) {
	td := testTupleDesc(t)
	pid := page.NewPageDescriptor(1, 0)
	hp, err := NewEmptyHeapPage(pid, td)
	require.NoError(t, err)

	before := hp.GetNumEmptySlots()
	tup := fillTuple(t, td, 1, "alice")
	require.NoError(t, hp.InsertTuple(tup))

	assert.Equal(t, before-1, hp.GetNumEmptySlots())
	require.NotNil(t, tup.RecordID)
	assert.True(t, tup.RecordID.PageID.Equals(pid))
	assert.Equal(t, primitives.SlotID(0), tup.RecordID.SlotNumber)
	assert.Len(t, hp.GetTuples(), 1)
}

func TestHeapPage_InsertRejectsSchemaMismatch(t *testing.T) {
	td := testTupleDesc(t)
	other, err := tuple.NewTupleDesc([]types.Type{types.IntType}, []string{"id"})
	require.NoError(t, err)
	pid := page.NewPageDescriptor(1, 0)
	hp, err := NewEmptyHeapPage(pid, td)
	require.NoError(t, err)

	badTuple := tuple.NewTuple(other)
	err = hp.InsertTuple(badTuple)
	require.Error(t, err)
	assert.True(t, dberr.Is(err, dberr.KindSchema))
}

func TestHeapPage_InsertFailsWhenFull(t *testing.T) {
	td := testTupleDesc(t)
	pid := page.NewPageDescriptor(1, 0)
	hp, err := NewEmptyHeapPage(pid, td)
	require.NoError(t, err)

	n := numSlots(int(td.GetSize()))
	for i := 0; i < n; i++ {
		require.NoError(t, hp.InsertTuple(fillTuple(t, td, int32(i), "x")))
	}

	err = hp.InsertTuple(fillTuple(t, td, 999, "overflow"))
	require.Error(t, err)
	assert.True(t, dberr.Is(err, dberr.KindCapacity))
}

func TestHeapPage_DeleteTuple(t *testing.T) {
	td := testTupleDesc(t)
	pid := page.NewPageDescriptor(1, 0)
	hp, err := NewEmptyHeapPage(pid, td)
	require.NoError(t, err)

	tup := fillTuple(t, td, 1, "alice")
	require.NoError(t, hp.InsertTuple(tup))
	full := hp.GetNumEmptySlots()

	require.NoError(t, hp.DeleteTuple(tup))
	assert.Equal(t, full+1, hp.GetNumEmptySlots())
	assert.Nil(t, tup.RecordID)
}

func TestHeapPage_DeleteRejectsForeignRecordID(t *testing.T) {
	td := testTupleDesc(t)
	pid := page.NewPageDescriptor(1, 0)
	hp, err := NewEmptyHeapPage(pid, td)
	require.NoError(t, err)

	other := page.NewPageDescriptor(1, 1)
	tup := fillTuple(t, td, 1, "alice")
	tup.RecordID = tuple.NewRecordID(other, 0)

	err = hp.DeleteTuple(tup)
	require.Error(t, err)
	assert.True(t, dberr.Is(err, dberr.KindSchema))
}

func TestHeapPage_SerializeDeserializeRoundTrip(t *testing.T) {
	td := testTupleDesc(t)
	pid := page.NewPageDescriptor(7, 3)
	hp, err := NewEmptyHeapPage(pid, td)
	require.NoError(t, err)

	require.NoError(t, hp.InsertTuple(fillTuple(t, td, 1, "alice")))
	require.NoError(t, hp.InsertTuple(fillTuple(t, td, 2, "bob")))

	data := hp.GetPageData()
	assert.Len(t, data, page.PageSize)

	restored, err := NewHeapPage(pid, data, td)
	require.NoError(t, err)
	assert.Equal(t, hp.GetNumEmptySlots(), restored.GetNumEmptySlots())
	assert.Len(t, restored.GetTuples(), 2)
}

func TestHeapPage_MarkDirty(t *testing.T) {
	td := testTupleDesc(t)
	pid := page.NewPageDescriptor(1, 0)
	hp, err := NewEmptyHeapPage(pid, td)
	require.NoError(t, err)

	assert.Nil(t, hp.IsDirty())

	tid := primitives.NewTransactionID()
	hp.MarkDirty(true, tid)
	assert.Equal(t, tid, hp.IsDirty())

	hp.MarkDirty(false, nil)
	assert.Nil(t, hp.IsDirty())
}

func TestHeapPage_BeforeImage(t *testing.T) {
	td := testTupleDesc(t)
	pid := page.NewPageDescriptor(1, 0)
	hp, err := NewEmptyHeapPage(pid, td)
	require.NoError(t, err)

	hp.SetBeforeImage()
	require.NoError(t, hp.InsertTuple(fillTuple(t, td, 1, "alice")))

	before := hp.GetBeforeImage()
	beforeHeap := before.(*HeapPage)
	assert.Empty(t, beforeHeap.GetTuples())
	assert.Len(t, hp.GetTuples(), 1)
}
