package types

import (
	"fmt"
	"strconv"
)

// CreateFieldFromConstant builds a Field of type t from its textual
// representation. Used by test fixtures and any embedder constructing
// tuples from literal values rather than from an on-disk page.
func CreateFieldFromConstant(t Type, constant string) (Field, error) {
	switch t {
	case IntType:
		intVal, err := strconv.ParseInt(constant, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid int constant %q: %w", constant, err)
		}
		return NewIntField(int32(intVal)), nil

	case StringType:
		return NewStringField(constant, StringMaxSize), nil

	default:
		return nil, fmt.Errorf("unsupported field type: %v", t)
	}
}
