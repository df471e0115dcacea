// Package engine wires the storage engine's components into one context
// object an embedder constructs once and passes around, rather than
// reaching for package-level singletons. See config.Config for the knobs
// this wiring is parameterised on.
package engine

import (
	"os"

	"storemy/pkg/catalog"
	"storemy/pkg/concurrency/lock"
	"storemy/pkg/concurrency/transaction"
	"storemy/pkg/config"
	"storemy/pkg/dberr"
	"storemy/pkg/logging"
	"storemy/pkg/memory"
	"storemy/pkg/primitives"
	"storemy/pkg/storage/heap"
	"storemy/pkg/tuple"
)

// Database is the engine context object: the Catalog, BufferPool,
// LockManager, and TransactionRegistry a running embedder needs, built once
// from a config.Config and handed down rather than recreated per call.
type Database struct {
	cfg      config.Config
	catalog  *catalog.Catalog
	locks    *lock.LockManager
	registry *transaction.TransactionRegistry
	pool     *memory.BufferPool
}

// New constructs a Database from cfg. It does not touch the filesystem
// itself beyond ensuring DataDir exists; tables are created explicitly
// through CreateTable.
func New(cfg config.Config) (*Database, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, dberr.Wrap(err, dberr.KindStorage, "engine", "New", "failed to create data directory")
	}

	cat := catalog.NewCatalog()
	locks := lock.NewLockManager()
	registry := transaction.NewTransactionRegistry()
	pool := memory.NewBufferPool(cfg.BufferPoolCapacity, cat, locks, registry)

	logging.Info("engine initialized", "dataDir", cfg.DataDir, "bufferPoolCapacity", cfg.BufferPoolCapacity)

	return &Database{
		cfg:      cfg,
		catalog:  cat,
		locks:    locks,
		registry: registry,
		pool:     pool,
	}, nil
}

// Catalog returns the table registry, for components (SequentialScan,
// tests) that resolve a table name or id directly.
func (db *Database) Catalog() *catalog.Catalog {
	return db.catalog
}

// BufferPool returns the page cache every SequentialScan and tuple mutation
// reads and writes through.
func (db *Database) BufferPool() *memory.BufferPool {
	return db.pool
}

// CreateTable creates a new heap file under the engine's data directory and
// registers it in the catalog under name, backed by schema td.
func (db *Database) CreateTable(name string, td *tuple.TupleDescription) (primitives.TableID, error) {
	path := primitives.Filepath(db.cfg.DataDir).Join(name + ".dat")

	file, err := heap.NewHeapFile(path, td)
	if err != nil {
		return 0, dberr.Wrap(err, dberr.KindStorage, "engine", "CreateTable", "failed to create heap file")
	}

	if err := db.catalog.AddTable(name, file); err != nil {
		return 0, err
	}

	return file.GetID(), nil
}

// Begin starts a new transaction and returns the context tracking its
// lifecycle. The returned context's ID is what every BufferPool and
// SequentialScan call on this transaction's behalf must be given.
func (db *Database) Begin() (*transaction.TransactionContext, error) {
	return db.registry.Begin()
}

// Commit forces every page tid dirtied to disk and releases its locks. A
// failure leaves tid's locks held; the caller should Abort instead.
func (db *Database) Commit(tid *primitives.TransactionID) error {
	return db.pool.TransactionComplete(tid, true)
}

// Abort discards every page tid dirtied (safe under NO-STEAL, since none of
// them ever reached disk) and releases its locks.
func (db *Database) Abort(tid *primitives.TransactionID) error {
	return db.pool.TransactionComplete(tid, false)
}

// Close flushes every dirty resident page to disk. It does not close
// individual table files; callers that need that should go through
// Catalog().RemoveTable for each table.
func (db *Database) Close() error {
	return db.pool.FlushAllPages()
}
