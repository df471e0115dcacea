package heap

import (
	"storemy/pkg/storage/page"
	"storemy/pkg/types"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeapPageIterator_EmptyPage(t *testing.T) {
	td := testTupleDesc(t)
	pid := page.NewPageDescriptor(1, 0)
	hp, err := NewEmptyHeapPage(pid, td)
	require.NoError(t, err)

	it := NewHeapPageIterator(hp)
	require.NoError(t, it.Open())

	hasNext, err := it.HasNext()
	require.NoError(t, err)
	assert.False(t, hasNext)

	_, err = it.Next()
	assert.Error(t, err)
}

func TestHeapPageIterator_YieldsInSlotOrder(t *testing.T) {
	td := testTupleDesc(t)
	pid := page.NewPageDescriptor(1, 0)
	hp, err := NewEmptyHeapPage(pid, td)
	require.NoError(t, err)

	require.NoError(t, hp.InsertTuple(fillTuple(t, td, 1, "alice")))
	require.NoError(t, hp.InsertTuple(fillTuple(t, td, 2, "bob")))
	require.NoError(t, hp.InsertTuple(fillTuple(t, td, 3, "carol")))

	it := NewHeapPageIterator(hp)
	require.NoError(t, it.Open())

	var seen []int32
	for {
		hasNext, err := it.HasNext()
		require.NoError(t, err)
		if !hasNext {
			break
		}
		tup, err := it.Next()
		require.NoError(t, err)
		field, err := tup.GetField(0)
		require.NoError(t, err)
		seen = append(seen, field.(*types.IntField).Value)
	}

	assert.Equal(t, []int32{1, 2, 3}, seen)
}

func TestHeapPageIterator_RewindMatchesFreshOpen(t *testing.T) {
	td := testTupleDesc(t)
	pid := page.NewPageDescriptor(1, 0)
	hp, err := NewEmptyHeapPage(pid, td)
	require.NoError(t, err)
	require.NoError(t, hp.InsertTuple(fillTuple(t, td, 1, "alice")))

	it := NewHeapPageIterator(hp)
	require.NoError(t, it.Open())
	first, err := it.Next()
	require.NoError(t, err)

	require.NoError(t, it.Rewind())
	second, err := it.Next()
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestHeapPageIterator_CloseResetsState(t *testing.T) {
	td := testTupleDesc(t)
	pid := page.NewPageDescriptor(1, 0)
	hp, err := NewEmptyHeapPage(pid, td)
	require.NoError(t, err)
	require.NoError(t, hp.InsertTuple(fillTuple(t, td, 1, "alice")))

	it := NewHeapPageIterator(hp)
	require.NoError(t, it.Open())
	require.NoError(t, it.Close())

	hasNext, err := it.HasNext()
	require.NoError(t, err)
	assert.False(t, hasNext)
}
