package types

import (
	"bytes"
	"testing"

	"storemy/pkg/primitives"

	"github.com/stretchr/testify/require"
)

func TestNewStringField(t *testing.T) {
	field := NewStringField("hello", 10)
	require.Equal(t, "hello", field.Value)
	require.Equal(t, 10, field.MaxSize)
}

func TestNewStringField_Truncation(t *testing.T) {
	value := "this is a very long string"
	field := NewStringField(value, 10)
	require.Equal(t, value[:10], field.Value)
}

func TestStringField_Type(t *testing.T) {
	require.Equal(t, StringType, NewStringField("test", 10).Type())
}

func TestStringField_String(t *testing.T) {
	require.Equal(t, "hello", NewStringField("hello", 10).String())
}

func TestStringField_Length(t *testing.T) {
	field := NewStringField("test", 10)
	require.Equal(t, uint32(14), field.Length())
}

func TestStringField_Equals(t *testing.T) {
	field1 := NewStringField("hello", 10)
	field2 := NewStringField("hello", 10)
	field3 := NewStringField("world", 10)
	field4 := NewStringField("hello", 20)
	intField := NewIntField(42)

	require.True(t, field1.Equals(field2))
	require.False(t, field1.Equals(field3))
	require.False(t, field1.Equals(field4))
	require.False(t, field1.Equals(intField))
}

func TestStringField_HashConsistency(t *testing.T) {
	h1, err := NewStringField("test", 10).Hash()
	require.NoError(t, err)
	h2, err := NewStringField("test", 10).Hash()
	require.NoError(t, err)
	h3, err := NewStringField("other", 10).Hash()
	require.NoError(t, err)

	require.Equal(t, h1, h2)
	require.NotEqual(t, h1, h3)
}

func TestStringField_SerializeDeserializeRoundTrip(t *testing.T) {
	field := NewStringField("test", 10)

	var buf bytes.Buffer
	require.NoError(t, field.Serialize(&buf))
	require.Equal(t, 14, buf.Len())

	got, err := DeserializeStringField(&buf, 10)
	require.NoError(t, err)
	require.True(t, field.Equals(got))
}

func TestStringField_Compare(t *testing.T) {
	field1 := NewStringField("apple", 10)
	field2 := NewStringField("banana", 10)
	field3 := NewStringField("apple", 10)
	intField := NewIntField(42)

	tests := []struct {
		op       primitives.Predicate
		other    Field
		expected bool
	}{
		{primitives.Equals, field3, true},
		{primitives.Equals, field2, false},
		{primitives.LessThan, field2, true},
		{primitives.LessThan, field3, false},
		{primitives.GreaterThan, field2, false},
		{primitives.GreaterThan, NewStringField("aaa", 10), true},
		{primitives.LessThanOrEqual, field2, true},
		{primitives.LessThanOrEqual, field3, true},
		{primitives.LessThanOrEqual, NewStringField("aaa", 10), false},
		{primitives.GreaterThanOrEqual, field3, true},
		{primitives.GreaterThanOrEqual, NewStringField("aaa", 10), true},
		{primitives.GreaterThanOrEqual, field2, false},
		{primitives.NotEqual, field2, true},
		{primitives.NotEqual, field3, false},
		{primitives.Like, NewStringField("app", 10), true},
		{primitives.Like, field2, false},
	}

	for _, test := range tests {
		result, err := field1.Compare(test.op, test.other)
		require.NoError(t, err)
		require.Equal(t, test.expected, result)
	}

	_, err := field1.Compare(primitives.Equals, intField)
	require.ErrorIs(t, err, ErrTypeMismatch)
}
