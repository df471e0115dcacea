package types

import (
	"encoding/binary"
	"io"
	"strconv"

	"storemy/pkg/primitives"

	"github.com/spaolacci/murmur3"
)

// IntField is the engine's sole integer field type: a 4-byte signed integer,
// serialized big-endian.
type IntField struct {
	Value int32
}

// NewIntField wraps value in an IntField.
func NewIntField(value int32) *IntField {
	return &IntField{Value: value}
}

func (f *IntField) Serialize(w io.Writer) error {
	bytes := make([]byte, 4)
	binary.BigEndian.PutUint32(bytes, uint32(f.Value)) // #nosec G115
	_, err := w.Write(bytes)
	return err
}

func (f *IntField) Compare(op primitives.Predicate, other Field) (bool, error) {
	otherField, ok := other.(*IntField)
	if !ok {
		return false, ErrTypeMismatch
	}
	return compareOrdered(f.Value, otherField.Value, op), nil
}

func (f *IntField) Type() Type {
	return IntType
}

func (f *IntField) String() string {
	return strconv.FormatInt(int64(f.Value), 10)
}

func (f *IntField) Equals(other Field) bool {
	otherField, ok := other.(*IntField)
	if !ok {
		return false
	}
	return f.Value == otherField.Value
}

func (f *IntField) Hash() (primitives.HashCode, error) {
	bytes := make([]byte, 4)
	binary.BigEndian.PutUint32(bytes, uint32(f.Value)) // #nosec G115
	return primitives.HashCode(murmur3.Sum64(bytes)), nil
}

// DeserializeIntField reads one 4-byte big-endian integer from r.
func DeserializeIntField(r io.Reader) (*IntField, error) {
	bytes := make([]byte, 4)
	if _, err := io.ReadFull(r, bytes); err != nil {
		return nil, err
	}
	return &IntField{Value: int32(binary.BigEndian.Uint32(bytes))}, nil // #nosec G115
}
