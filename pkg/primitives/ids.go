// Package primitives holds the small, dependency-free identity and
// predicate types shared across the engine: page and table identity,
// transaction identity, access permissions, and comparison predicates.
package primitives

// TableID identifies a table's backing heap file. It is derived once, at
// HeapFile construction, from a stable hash of the file's absolute path and
// never changes for the lifetime of that file.
type TableID uint64

// PageNumber is the zero-based offset of a page within its table's file.
type PageNumber uint64

// HashCode is the result of hashing a PageID for use as a map key or for
// cheap equality pre-checks.
type HashCode uint64

// SlotID is a zero-based slot index within a HeapPage.
type SlotID uint32
