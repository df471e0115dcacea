// Package memory implements the buffer pool: a bounded, transaction-aware
// page cache sitting between the execution layer and the heap files on
// disk. Every page access in the engine goes through BufferPool.
package memory

import (
	"storemy/pkg/catalog"
	"storemy/pkg/concurrency/lock"
	"storemy/pkg/concurrency/transaction"
	"storemy/pkg/dberr"
	"storemy/pkg/logging"
	"storemy/pkg/primitives"
	"storemy/pkg/storage/heap"
	"storemy/pkg/storage/page"
	"storemy/pkg/tuple"

	"golang.org/x/sync/errgroup"
)

// BufferPool is the bounded, capacity-C cache of pages keyed by PageID. It
// is the only path by which execution code touches a page: every getPage
// acquires the matching lock first, then serves from cache or faults the
// page in from its owning HeapFile via the catalog.
//
// Eviction policy is NO-STEAL/FORCE: a dirty page is never evicted, and a
// committed transaction's dirty pages are all forced to disk before commit
// returns. This makes abort trivial — since no uncommitted write ever
// reaches disk, abort only has to discard the in-memory copy.
type BufferPool struct {
	cache    *lruPageCache
	catalog  *catalog.Catalog
	locks    *lock.LockManager
	registry *transaction.TransactionRegistry
}

// NewBufferPool constructs a pool with room for capacity pages, backed by
// cat for table lookups and coordinating through locks and registry —
// normally the same instances the owning engine context hands to every
// other component.
func NewBufferPool(capacity int, cat *catalog.Catalog, locks *lock.LockManager, registry *transaction.TransactionRegistry) *BufferPool {
	return &BufferPool{
		cache:    newLRUPageCache(capacity),
		catalog:  cat,
		locks:    locks,
		registry: registry,
	}
}

// GetPage is the main entry point for all page access. It blocks (up to the
// LockManager's randomized timeout) acquiring perm on pid, then serves from
// cache or faults the page in from disk, evicting a clean victim first if
// the pool is full.
func (bp *BufferPool) GetPage(tid *primitives.TransactionID, pid primitives.PageID, perm primitives.Permissions) (page.Page, error) {
	mode := lock.Shared
	if perm == primitives.ReadWrite {
		mode = lock.Exclusive
	}
	if err := bp.locks.Acquire(tid, pid, mode); err != nil {
		return nil, err
	}

	ctx := bp.registry.GetOrCreate(tid)
	ctx.RecordPageAccess(pid, perm)

	if p, found := bp.cache.get(pid); found {
		return p, nil
	}

	if bp.cache.size() >= bp.cacheCapacity() {
		if err := bp.evictCleanPage(); err != nil {
			return nil, err
		}
	}

	p, err := bp.readThrough(pid)
	if err != nil {
		return nil, err
	}

	if err := bp.cache.put(pid, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (bp *BufferPool) cacheCapacity() int {
	return bp.cache.maxSize
}

func (bp *BufferPool) readThrough(pid primitives.PageID) (page.Page, error) {
	file, err := bp.catalog.File(pid.TableID())
	if err != nil {
		return nil, err
	}
	p, err := file.ReadPage(pid)
	if err != nil {
		return nil, dberr.Wrap(err, dberr.KindStorage, "memory", "readThrough", "failed to read page from disk")
	}
	return p, nil
}

// evictCleanPage scans the cache in LRU order for a page with no dirtying
// transaction and evicts it without writing it, since a clean page has
// nothing to flush. If every resident page is dirty, the pool is exhausted and
// nothing can be reclaimed — NO-STEAL forbids evicting an uncommitted write.
func (bp *BufferPool) evictCleanPage() error {
	for _, pid := range bp.cache.all() {
		p, found := bp.cache.get(pid)
		if !found {
			continue
		}
		if p.IsDirty() != nil {
			continue
		}
		bp.cache.remove(pid)
		return nil
	}
	return dberr.New(dberr.KindCapacity, "memory", "evictCleanPage", "pool exhausted: every resident page is dirty")
}

// InsertTuple delegates to the owning HeapFile, which faults candidate
// pages in through this pool under ReadWrite. The page the tuple lands on
// is marked dirty-by tid and stays resident in the pool.
func (bp *BufferPool) InsertTuple(tid *primitives.TransactionID, tableID primitives.TableID, t *tuple.Tuple) error {
	file, err := bp.catalog.File(tableID)
	if err != nil {
		return err
	}

	hp, err := file.InsertTuple(tid, bp, t)
	if err != nil {
		return err
	}

	ctx := bp.registry.GetOrCreate(tid)
	ctx.MarkPageDirty(hp.GetID())
	ctx.RecordTupleWrite()
	return nil
}

// DeleteTuple delegates to the HeapFile owning t's recorded page.
func (bp *BufferPool) DeleteTuple(tid *primitives.TransactionID, t *tuple.Tuple) error {
	if t.RecordID == nil {
		return dberr.New(dberr.KindSchema, "memory", "DeleteTuple", "tuple has no record id")
	}

	file, err := bp.catalog.File(t.RecordID.PageID.TableID())
	if err != nil {
		return err
	}

	hp, err := file.DeleteTuple(tid, bp, t)
	if err != nil {
		return err
	}

	ctx := bp.registry.GetOrCreate(tid)
	ctx.MarkPageDirty(hp.GetID())
	ctx.RecordTupleDelete()
	return nil
}

// TransactionComplete ends tid: on commit every page it dirtied is forced
// to disk before this returns and its locks are released; on abort every
// page it dirtied is discarded from the cache and reloaded from disk
// instead, which NO-STEAL makes sound since no uncommitted write of tid
// ever reached the file.
func (bp *BufferPool) TransactionComplete(tid *primitives.TransactionID, commit bool) error {
	ctx, err := bp.registry.Get(tid)
	if err != nil {
		bp.locks.EndTransaction(tid)
		return nil
	}

	dirty := ctx.GetDirtyPages()
	if commit {
		if err := bp.flushPages(dirty); err != nil {
			return err
		}
	} else {
		bp.discardAndReload(dirty)
	}

	if commit {
		ctx.SetStatus(transaction.TxCommitted)
	} else {
		ctx.SetStatus(transaction.TxAborted)
	}

	bp.locks.EndTransaction(tid)
	bp.registry.Remove(tid)
	return nil
}

func (bp *BufferPool) discardAndReload(pids []primitives.PageID) {
	for _, pid := range pids {
		bp.cache.remove(pid)
		if p, err := bp.readThrough(pid); err == nil {
			_ = bp.cache.put(pid, p)
		}
	}
}

// flushPages forces the given pages to disk concurrently, clearing dirty
// state on each as it lands.
func (bp *BufferPool) flushPages(pids []primitives.PageID) error {
	var g errgroup.Group
	for _, pid := range pids {
		pid := pid
		g.Go(func() error {
			return bp.FlushPage(pid)
		})
	}
	return g.Wait()
}

// FlushPage unconditionally writes pid to its HeapFile if resident and
// dirty, then clears its dirty bit.
func (bp *BufferPool) FlushPage(pid primitives.PageID) error {
	p, found := bp.cache.get(pid)
	if !found {
		return nil
	}
	if p.IsDirty() == nil {
		return nil
	}

	file, err := bp.catalog.File(pid.TableID())
	if err != nil {
		return err
	}
	if err := file.WritePage(p); err != nil {
		return dberr.Wrap(err, dberr.KindStorage, "memory", "FlushPage", "failed to flush page")
	}

	logging.WithPage(pid).Debug("flushed dirty page")
	p.MarkDirty(false, nil)
	return nil
}

// FlushAllPages forces every resident dirty page to disk, concurrently.
func (bp *BufferPool) FlushAllPages() error {
	return bp.flushPages(bp.cache.all())
}

// ReleasePage is an explicit early release of tid's lock on pid. Strict 2PL
// makes this a footgun in general — releasing before commit breaks
// serializability — but HeapFile.InsertTuple's admission scan relies on it
// to avoid holding locks on full pages it only peeked at.
func (bp *BufferPool) ReleasePage(tid *primitives.TransactionID, pid primitives.PageID) {
	bp.locks.Release(tid, pid)
}

var _ heap.PageSource = (*BufferPool)(nil)
