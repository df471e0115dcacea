package types

import (
	"cmp"
	"errors"

	"storemy/pkg/primitives"
)

// ErrTypeMismatch is returned by Compare when the other Field is not the
// same concrete type as the receiver.
var ErrTypeMismatch = errors.New("type mismatch")

// compareOrdered performs a comparison between two ordered values using the given predicate.
func compareOrdered[T cmp.Ordered](a, b T, op primitives.Predicate) bool {
	switch op {
	case primitives.Equals:
		return a == b
	case primitives.LessThan:
		return a < b
	case primitives.GreaterThan:
		return a > b
	case primitives.LessThanOrEqual:
		return a <= b
	case primitives.GreaterThanOrEqual:
		return a >= b
	case primitives.NotEqual, primitives.NotEqualsBracket:
		return a != b
	default:
		return false
	}
}
