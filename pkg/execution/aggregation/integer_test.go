package aggregation

import (
	"testing"

	"storemy/pkg/tuple"
	"storemy/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intTuple(t *testing.T, td *tuple.TupleDescription, group string, value int32) *tuple.Tuple {
	t.Helper()
	tup := tuple.NewTuple(td)
	require.NoError(t, tup.SetField(0, types.NewStringField(group, 32)))
	require.NoError(t, tup.SetField(1, types.NewIntField(value)))
	return tup
}

func TestIntegerAggregator_NoGrouping(t *testing.T) {
	tests := []struct {
		op       AggregateOp
		values   []int32
		expected int32
	}{
		{Min, []int32{5, 2, 8, 1, 9}, 1},
		{Max, []int32{5, 2, 8, 1, 9}, 9},
		{Sum, []int32{5, 2, 8, 1, 9}, 25},
		{Count, []int32{5, 2, 8, 1, 9}, 5},
		{Avg, []int32{4, 6, 8}, 6},
	}

	td, err := tuple.NewTupleDesc([]types.Type{types.StringType, types.IntType}, []string{"g", "v"})
	require.NoError(t, err)

	for _, tt := range tests {
		agg, err := NewIntAggregator(NoGrouping, types.StringType, 1, tt.op)
		require.NoError(t, err)

		for _, v := range tt.values {
			require.NoError(t, agg.Merge(intTuple(t, td, "x", v)))
		}

		it := agg.Iterator()
		require.NoError(t, it.Open())
		has, err := it.HasNext()
		require.NoError(t, err)
		require.True(t, has)

		result, err := it.Next()
		require.NoError(t, err)
		field, err := result.GetField(0)
		require.NoError(t, err)
		assert.Equal(t, tt.expected, field.(*types.IntField).Value, "op=%s", tt.op)

		has, err = it.HasNext()
		require.NoError(t, err)
		assert.False(t, has)
		require.NoError(t, it.Close())
	}
}

func TestIntegerAggregator_Grouped(t *testing.T) {
	td, err := tuple.NewTupleDesc([]types.Type{types.StringType, types.IntType}, []string{"g", "v"})
	require.NoError(t, err)

	agg, err := NewIntAggregator(0, types.StringType, 1, Sum)
	require.NoError(t, err)

	require.NoError(t, agg.Merge(intTuple(t, td, "a", 1)))
	require.NoError(t, agg.Merge(intTuple(t, td, "a", 2)))
	require.NoError(t, agg.Merge(intTuple(t, td, "b", 10)))

	it := agg.Iterator()
	require.NoError(t, it.Open())
	defer it.Close()

	results := map[string]int32{}
	for {
		has, err := it.HasNext()
		require.NoError(t, err)
		if !has {
			break
		}
		tup, err := it.Next()
		require.NoError(t, err)
		group, err := tup.GetField(0)
		require.NoError(t, err)
		value, err := tup.GetField(1)
		require.NoError(t, err)
		results[group.(*types.StringField).Value] = value.(*types.IntField).Value
	}

	assert.Equal(t, map[string]int32{"a": 3, "b": 10}, results)
}

func TestIntegerAggregator_GroupFieldPreservesType(t *testing.T) {
	td, err := tuple.NewTupleDesc([]types.Type{types.IntType, types.IntType}, []string{"g", "v"})
	require.NoError(t, err)

	agg, err := NewIntAggregator(0, types.IntType, 1, Count)
	require.NoError(t, err)

	tup := tuple.NewTuple(td)
	require.NoError(t, tup.SetField(0, types.NewIntField(7)))
	require.NoError(t, tup.SetField(1, types.NewIntField(100)))
	require.NoError(t, agg.Merge(tup))

	it := agg.Iterator()
	require.NoError(t, it.Open())
	defer it.Close()

	has, err := it.HasNext()
	require.NoError(t, err)
	require.True(t, has)

	result, err := it.Next()
	require.NoError(t, err)
	group, err := result.GetField(0)
	require.NoError(t, err)
	assert.Equal(t, int32(7), group.(*types.IntField).Value)
}

func TestNewIntAggregator_RejectsNonIntegerField(t *testing.T) {
	td, err := tuple.NewTupleDesc([]types.Type{types.StringType}, []string{"s"})
	require.NoError(t, err)

	agg, err := NewIntAggregator(NoGrouping, types.StringType, 0, Sum)
	require.NoError(t, err)

	tup := tuple.NewTuple(td)
	require.NoError(t, tup.SetField(0, types.NewStringField("oops", 32)))
	assert.Error(t, agg.Merge(tup))
}
