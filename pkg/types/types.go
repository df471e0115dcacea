package types

type Type int

const (
	IntType Type = iota
	StringType
)

// String returns a string representation of the type
func (t Type) String() string {
	switch t {
	case IntType:
		return "INT_TYPE"
	case StringType:
		return "STRING_TYPE"
	default:
		return "UNKNOWN_TYPE"
	}
}

// Size returns the fixed on-page size in bytes of a field of this type.
// IntType is always 4 bytes; StringType is a 4-byte length prefix plus
// StringMaxSize payload bytes, the layout heap pages use. A StringField built
// with a different MaxSize reports its own size through Length.
func (t Type) Size() uint32 {
	switch t {
	case IntType:
		return 4
	case StringType:
		return 4 + StringMaxSize
	default:
		return 0
	}
}
