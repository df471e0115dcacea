// Package lock implements page-granularity two-phase locking: one LockItem
// per currently-locked page, held by the LockManager's page table.
package lock

import (
	"storemy/pkg/primitives"

	mapset "github.com/deckarep/golang-set/v2"
)

// Mode is the granted lock mode on a page.
type Mode int

const (
	Shared Mode = iota
	Exclusive
)

func (m Mode) String() string {
	if m == Exclusive {
		return "EXCLUSIVE"
	}
	return "SHARED"
}

// LockItem is the holder-set bookkeeping for a single locked page: its
// granted mode and the transactions currently holding it in that mode. A
// LockItem with zero holders is removed from the LockManager's page table,
// never left behind empty.
type LockItem struct {
	mode    Mode
	holders mapset.Set[*primitives.TransactionID]
}

func newLockItem(mode Mode, tid *primitives.TransactionID) *LockItem {
	return &LockItem{
		mode:    mode,
		holders: mapset.NewSet(tid),
	}
}

// sharable reports whether a SHARED request can join this item without
// upgrading it: either it is already SHARED, or the sole holder is tid
// itself (which already holds it more strongly).
func (li *LockItem) sharable(tid *primitives.TransactionID) bool {
	if li.mode == Shared {
		return true
	}
	return li.holders.Cardinality() == 1 && li.holders.Contains(tid)
}

// exclusivable reports whether an EXCLUSIVE request can be granted: the
// item has no holders, or tid is the sole SHARED holder (an upgrade).
func (li *LockItem) exclusivable(tid *primitives.TransactionID) bool {
	if li.holders.Cardinality() == 0 {
		return true
	}
	return li.holders.Cardinality() == 1 && li.holders.Contains(tid) && li.mode == Shared
}

func (li *LockItem) holds(tid *primitives.TransactionID, mode Mode) bool {
	if !li.holders.Contains(tid) {
		return false
	}
	return li.mode == Exclusive || mode == Shared
}
