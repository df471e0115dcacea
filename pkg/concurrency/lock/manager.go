package lock

import (
	"math/rand"
	"time"

	"storemy/pkg/dberr"
	"storemy/pkg/primitives"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/sasha-s/go-deadlock"
)

// pollInterval is how often a blocked Acquire rechecks whether its request
// can now be granted. It is a cooperative wait, not a condition variable:
// Release signals no one, and a waiter notices a freed lock or its own
// expired randomized deadline on its next poll, so pollInterval bounds how
// promptly it does either.
const pollInterval = 5 * time.Millisecond

// minWait and maxWait bound the randomized per-acquire timeout: no
// wait-for graph, no victim selection, just "give up and abort" once the
// randomly chosen deadline elapses. This is the engine's entire deadlock
// policy.
const (
	minWait = 100 * time.Millisecond
	maxWait = 1000 * time.Millisecond
)

// LockManager is the single global two-phase lock table: one monitor
// guarding a map of PageId to LockItem, plus a reverse index of each
// transaction's held pages. All public methods are mutually exclusive.
type LockManager struct {
	mu        deadlock.Mutex
	table     map[primitives.PageID]*LockItem
	heldPages map[*primitives.TransactionID]mapset.Set[primitives.PageID]
}

func NewLockManager() *LockManager {
	return &LockManager{
		table:     make(map[primitives.PageID]*LockItem),
		heldPages: make(map[*primitives.TransactionID]mapset.Set[primitives.PageID]),
	}
}

// Acquire blocks the caller until tid holds pid in at least mode, or fails
// with a KindConcurrency error once a randomized timeout in [100ms,1000ms]
// elapses. A second acquire at the same or lower mode is a no-op.
func (lm *LockManager) Acquire(tid *primitives.TransactionID, pid primitives.PageID, mode Mode) error {
	if tid == nil {
		return dberr.New(dberr.KindProgrammer, "lock", "Acquire", "transaction id cannot be nil")
	}

	deadline := time.Now().Add(minWait + time.Duration(rand.Int63n(int64(maxWait-minWait))))

	lm.mu.Lock()
	defer lm.mu.Unlock()

	for {
		if lm.holdsLocked(tid, pid, mode) {
			return nil
		}

		item, exists := lm.table[pid]
		switch mode {
		case Shared:
			if !exists || item.sharable(tid) {
				lm.grant(tid, pid, mode)
				return nil
			}
		case Exclusive:
			if !exists || item.exclusivable(tid) {
				lm.grant(tid, pid, mode)
				return nil
			}
		}

		if time.Now().After(deadline) {
			return dberr.New(dberr.KindConcurrency, "lock", "Acquire", "transaction aborted: timed out waiting for lock")
		}

		lm.mu.Unlock()
		time.Sleep(pollInterval)
		lm.mu.Lock()
	}
}

// grant installs or upgrades a LockItem for pid in tid's favor, and records
// pid in tid's held-set. Caller must hold mu.
func (lm *LockManager) grant(tid *primitives.TransactionID, pid primitives.PageID, mode Mode) {
	item, exists := lm.table[pid]
	switch {
	case !exists:
		lm.table[pid] = newLockItem(mode, tid)
	case mode == Exclusive:
		item.mode = Exclusive
		item.holders.Add(tid)
	default:
		item.holders.Add(tid)
	}

	pages, ok := lm.heldPages[tid]
	if !ok {
		pages = mapset.NewSet[primitives.PageID]()
		lm.heldPages[tid] = pages
	}
	pages.Add(pid)
}

func (lm *LockManager) holdsLocked(tid *primitives.TransactionID, pid primitives.PageID, mode Mode) bool {
	item, exists := lm.table[pid]
	return exists && item.holds(tid, mode)
}

// HoldsLock reports whether tid currently holds pid in at least mode.
func (lm *LockManager) HoldsLock(tid *primitives.TransactionID, pid primitives.PageID, mode Mode) bool {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	return lm.holdsLocked(tid, pid, mode)
}

// Release removes tid from pid's holder set. If the item's holders become
// empty, the LockItem entry is removed from the table. Blocked Acquire calls
// are not signalled; they see the change on their next poll.
func (lm *LockManager) Release(tid *primitives.TransactionID, pid primitives.PageID) {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	lm.releaseLocked(tid, pid)
}

func (lm *LockManager) releaseLocked(tid *primitives.TransactionID, pid primitives.PageID) {
	item, exists := lm.table[pid]
	if !exists {
		return
	}

	item.holders.Remove(tid)
	if item.holders.Cardinality() == 0 {
		delete(lm.table, pid)
	}

	if pages, ok := lm.heldPages[tid]; ok {
		pages.Remove(pid)
		if pages.Cardinality() == 0 {
			delete(lm.heldPages, tid)
		}
	}
}

// EndTransaction releases every page in tid's held-set, as on commit or
// abort.
func (lm *LockManager) EndTransaction(tid *primitives.TransactionID) {
	lm.mu.Lock()
	defer lm.mu.Unlock()

	pages, ok := lm.heldPages[tid]
	if !ok {
		return
	}

	for _, pid := range pages.ToSlice() {
		lm.releaseLocked(tid, pid)
	}
}

// HeldPages returns the set of pages tid currently holds a lock on.
func (lm *LockManager) HeldPages(tid *primitives.TransactionID) []primitives.PageID {
	lm.mu.Lock()
	defer lm.mu.Unlock()

	pages, ok := lm.heldPages[tid]
	if !ok {
		return nil
	}
	return pages.ToSlice()
}
