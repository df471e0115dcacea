package primitives

// PageID uniquely identifies a page within the whole engine: which table's
// file it lives in, and at what offset within that file. Implementations
// must be comparable with == in addition to Equals, since they are used as
// map keys throughout the buffer pool and lock manager.
type PageID interface {
	// TableID returns the table this page belongs to.
	TableID() TableID

	// PageNo returns the zero-based page number within the table's file.
	PageNo() PageNumber

	// Serialize returns the on-the-wire byte representation of this page ID.
	Serialize() []byte

	// Equals reports whether other identifies the same page.
	Equals(other PageID) bool

	// String returns a human-readable representation, used in logs and
	// error messages only.
	String() string

	// HashCode returns a hash of this page ID suitable for hash-based
	// indexing (map keys already work via ==; HashCode additionally backs
	// any hand-rolled bucketing).
	HashCode() HashCode
}
