// Package catalog is the minimal table registry BufferPool and HeapFile
// consult to turn a TableID into its backing HeapFile and schema. There is
// no parser or DDL surface here, only the bidirectional mapping a running
// engine needs between a table's name, its ID, and its file.
package catalog

import (
	"fmt"
	"storemy/pkg/dberr"
	"storemy/pkg/primitives"
	"storemy/pkg/storage/heap"
	"storemy/pkg/tuple"
	"sync"
)

// tableEntry pairs a table's name with its backing heap file; the tuple
// descriptor its rows conform to is read from the file.
type tableEntry struct {
	name string
	file *heap.HeapFile
}

// Catalog maps table names and IDs to the HeapFile and TupleDescription that
// back them. A single instance is shared by every transaction through the
// engine context.
type Catalog struct {
	mutex    sync.RWMutex
	byID     map[primitives.TableID]*tableEntry
	nameToID map[string]primitives.TableID
}

func NewCatalog() *Catalog {
	return &Catalog{
		byID:     make(map[primitives.TableID]*tableEntry),
		nameToID: make(map[string]primitives.TableID),
	}
}

// AddTable registers f under name, replacing any existing table of the same
// name or ID.
func (c *Catalog) AddTable(name string, f *heap.HeapFile) error {
	if f == nil {
		return dberr.New(dberr.KindSchema, "catalog", "AddTable", "file cannot be nil")
	}
	if name == "" {
		return dberr.New(dberr.KindSchema, "catalog", "AddTable", "table name cannot be empty")
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	tid := f.GetID()
	c.removeLocked(name, tid)
	c.byID[tid] = &tableEntry{name: name, file: f}
	c.nameToID[name] = tid
	return nil
}

func (c *Catalog) removeLocked(name string, tid primitives.TableID) {
	if existing, ok := c.nameToID[name]; ok {
		delete(c.byID, existing)
	}
	if existing, ok := c.byID[tid]; ok {
		delete(c.nameToID, existing.name)
	}
}

// TableID resolves a table's name to its ID.
func (c *Catalog) TableID(name string) (primitives.TableID, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	tid, exists := c.nameToID[name]
	if !exists {
		return 0, dberr.New(dberr.KindSchema, "catalog", "TableID", fmt.Sprintf("table %q not found", name))
	}
	return tid, nil
}

// TableName resolves a table's ID to its name.
func (c *Catalog) TableName(tid primitives.TableID) (string, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	entry, exists := c.byID[tid]
	if !exists {
		return "", dberr.New(dberr.KindSchema, "catalog", "TableName", fmt.Sprintf("table id %d not found", tid))
	}
	return entry.name, nil
}

// File returns the HeapFile backing tid, the lookup BufferPool uses on
// every cache miss to fault a page in from disk.
func (c *Catalog) File(tid primitives.TableID) (*heap.HeapFile, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	entry, exists := c.byID[tid]
	if !exists {
		return nil, dberr.New(dberr.KindSchema, "catalog", "File", fmt.Sprintf("table id %d not found", tid))
	}
	return entry.file, nil
}

// TupleDesc returns the schema rows of tid conform to.
func (c *Catalog) TupleDesc(tid primitives.TableID) (*tuple.TupleDescription, error) {
	file, err := c.File(tid)
	if err != nil {
		return nil, err
	}
	return file.GetTupleDesc(), nil
}

// RemoveTable drops a table from the catalog and closes its file.
func (c *Catalog) RemoveTable(name string) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	tid, exists := c.nameToID[name]
	if !exists {
		return dberr.New(dberr.KindSchema, "catalog", "RemoveTable", fmt.Sprintf("table %q not found", name))
	}

	entry := c.byID[tid]
	if err := entry.file.Close(); err != nil {
		return dberr.Wrap(err, dberr.KindStorage, "catalog", "RemoveTable", "failed to close table file")
	}

	delete(c.byID, tid)
	delete(c.nameToID, name)
	return nil
}

// TableNames returns every registered table name, in no particular order.
func (c *Catalog) TableNames() []string {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	names := make([]string, 0, len(c.nameToID))
	for name := range c.nameToID {
		names = append(names, name)
	}
	return names
}
