package execution

import (
	"fmt"

	"storemy/pkg/catalog"
	"storemy/pkg/iterator"
	"storemy/pkg/primitives"
	"storemy/pkg/storage/heap"
	"storemy/pkg/tuple"
)

// SequentialScan reads every tuple in a table, faulting pages through src
// (normally the engine's BufferPool) under the scanning transaction tid.
type SequentialScan struct {
	base      *iterator.BaseIterator
	tid       *primitives.TransactionID
	tableID   primitives.TableID
	file      *heap.HeapFile
	src       heap.PageSource
	fileIter  *heap.FileIterator
	tupleDesc *tuple.TupleDescription
}

// NewSeqScan creates a scan of tableID as catalog resolves it, reading pages
// through src.
func NewSeqScan(tid *primitives.TransactionID, tableID primitives.TableID, cat *catalog.Catalog, src heap.PageSource) (*SequentialScan, error) {
	if cat == nil {
		return nil, fmt.Errorf("catalog cannot be nil")
	}

	file, err := cat.File(tableID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve table %d: %v", tableID, err)
	}

	ss := &SequentialScan{
		tid:       tid,
		tableID:   tableID,
		file:      file,
		src:       src,
		tupleDesc: file.GetTupleDesc(),
	}

	ss.base = iterator.NewBaseIterator(ss.readNext)
	return ss, nil
}

func (ss *SequentialScan) Open() error {
	ss.fileIter = ss.file.Iterator(ss.tid, ss.src)
	if err := ss.fileIter.Open(); err != nil {
		return fmt.Errorf("failed to open file iterator: %v", err)
	}

	ss.base.MarkOpened()
	return nil
}

func (ss *SequentialScan) readNext() (*tuple.Tuple, error) {
	if ss.fileIter == nil {
		return nil, fmt.Errorf("file iterator not initialized")
	}

	hasNext, err := ss.fileIter.HasNext()
	if err != nil {
		return nil, err
	}
	if !hasNext {
		return nil, nil
	}

	return ss.fileIter.Next()
}

func (ss *SequentialScan) GetTupleDesc() *tuple.TupleDescription {
	return ss.tupleDesc
}

func (ss *SequentialScan) Close() error {
	if ss.fileIter != nil {
		ss.fileIter.Close()
		ss.fileIter = nil
	}
	return ss.base.Close()
}

func (ss *SequentialScan) Rewind() error {
	if err := ss.fileIter.Rewind(); err != nil {
		return err
	}
	return ss.base.Rewind()
}

func (ss *SequentialScan) HasNext() (bool, error) { return ss.base.HasNext() }
func (ss *SequentialScan) Next() (*tuple.Tuple, error) { return ss.base.Next() }

var _ iterator.DbIterator = (*SequentialScan)(nil)
