package memory

import (
	"storemy/pkg/dberr"
	"storemy/pkg/primitives"
	"storemy/pkg/storage/page"
	"sync"
)

// pageCache is the purely in-memory slice of BufferPool: storing and
// retrieving pages by PageID. It knows nothing about transactions, locks,
// or dirtiness — BufferPool layers all of that on top.
type pageCache interface {
	get(pid primitives.PageID) (page.Page, bool)
	put(pid primitives.PageID, p page.Page) error
	remove(pid primitives.PageID)
	size() int
	all() []primitives.PageID
}

// node is one entry in lruPageCache's doubly linked list.
type node struct {
	pid  primitives.PageID
	page page.Page
	prev *node
	next *node
}

// lruPageCache is a fixed-capacity cache keyed by PageID, ordered least- to
// most-recently-used by a doubly linked list alongside the lookup map, so
// every operation is O(1). Reaching capacity does not evict on its own —
// BufferPool.getPage owns eviction policy (NO-STEAL: only a clean page may
// be chosen), so Put on a full, unknown PageID simply fails.
type lruPageCache struct {
	maxSize int
	entries map[primitives.PageID]*node
	head    *node
	tail    *node
	mutex   sync.RWMutex
}

func newLRUPageCache(maxSize int) *lruPageCache {
	head := &node{}
	tail := &node{}
	head.next = tail
	tail.prev = head

	return &lruPageCache{
		maxSize: maxSize,
		entries: make(map[primitives.PageID]*node),
		head:    head,
		tail:    tail,
	}
}

func (c *lruPageCache) addToFront(n *node) {
	n.prev = c.head
	n.next = c.head.next
	c.head.next.prev = n
	c.head.next = n
}

func (c *lruPageCache) removeNode(n *node) {
	n.prev.next = n.next
	n.next.prev = n.prev
}

func (c *lruPageCache) moveToFront(n *node) {
	c.removeNode(n)
	c.addToFront(n)
}

func (c *lruPageCache) get(pid primitives.PageID) (page.Page, bool) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if n, exists := c.entries[pid]; exists {
		c.moveToFront(n)
		return n.page, true
	}
	return nil, false
}

func (c *lruPageCache) put(pid primitives.PageID, p page.Page) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if n, exists := c.entries[pid]; exists {
		n.page = p
		c.moveToFront(n)
		return nil
	}

	if len(c.entries) >= c.maxSize {
		return dberr.New(dberr.KindCapacity, "memory", "put", "pool exhausted")
	}

	n := &node{pid: pid, page: p}
	c.entries[pid] = n
	c.addToFront(n)
	return nil
}

func (c *lruPageCache) remove(pid primitives.PageID) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if n, exists := c.entries[pid]; exists {
		delete(c.entries, pid)
		c.removeNode(n)
	}
}

func (c *lruPageCache) size() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.entries)
}

// all returns every cached PageID, ordered least- to most-recently-used.
// BufferPool's NO-STEAL eviction scans this order looking for a clean page.
func (c *lruPageCache) all() []primitives.PageID {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	pids := make([]primitives.PageID, 0, len(c.entries))
	for current := c.tail.prev; current != c.head; current = current.prev {
		pids = append(pids, current.pid)
	}
	return pids
}
