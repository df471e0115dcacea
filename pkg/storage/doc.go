// Package storage is the root of StoreMy's disk-based storage engine.
//
// Data is organised into fixed-size pages that are read and written as
// atomic units. Sub-packages build on this foundation to provide heap file
// storage and page-level management.
//
// # Sub-packages
//
//   - [storemy/pkg/storage/page] – the generic page/file abstraction: the
//     Page and DbFile interfaces, and BaseFile's page-granular I/O over a
//     single open file handle.
//   - [storemy/pkg/storage/heap] – heap file: an unordered, bitmap-slotted
//     collection of pages storing fixed-size tuples. Supports
//     sequential scans and free-slot allocation on insert.
//
// # Page layout
//
// A heap page's bytes are laid out as a header bitmap (one bit per slot,
// marking occupancy) followed by N fixed-size slot payloads in schema order.
// Pages are read and written whole; there is no in-place partial write.
package storage
