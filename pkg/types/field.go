package types

import (
	"io"

	"storemy/pkg/primitives"
)

// Field is a single typed value belonging to a Tuple. The two concrete
// implementations, IntField and StringField, are the closed set of types the
// engine supports.
type Field interface {
	// Serialize writes this field's fixed-size on-page representation.
	Serialize(w io.Writer) error

	// Compare evaluates op between this field and other, which must be of
	// the same concrete type.
	Compare(op primitives.Predicate, other Field) (bool, error)

	// Type reports which concrete field type this is.
	Type() Type

	String() string

	Equals(other Field) bool

	Hash() (primitives.HashCode, error)
}
