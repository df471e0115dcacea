package heap

import (
	"storemy/pkg/dberr"
	"storemy/pkg/primitives"
	"storemy/pkg/storage/page"
	"storemy/pkg/tuple"
)

// FileIterator yields every used tuple across a HeapFile's pages in
// ascending (pageNumber, slotNumber) order. Pages are faulted in through a
// PageSource (normally the BufferPool) under READ_ONLY. Close releases the
// iterator's own page references but not the transaction's locks, which are
// held to end-of-transaction.
type FileIterator struct {
	file        *HeapFile
	tid         *primitives.TransactionID
	src         PageSource
	currentPage primitives.PageNumber
	pageIter    *HeapPageIterator
	opened      bool
}

func NewFileIterator(file *HeapFile, tid *primitives.TransactionID, src PageSource) *FileIterator {
	return &FileIterator{file: file, tid: tid, src: src}
}

func (it *FileIterator) Open() error {
	it.currentPage = 0
	it.pageIter = nil
	it.opened = true
	return it.moveToNextPage()
}

func (it *FileIterator) HasNext() (bool, error) {
	if !it.opened {
		return false, dberr.New(dberr.KindProgrammer, "heap", "FileIterator.HasNext", "iterator not opened")
	}
	if it.pageIter == nil {
		return false, nil
	}
	return it.pageIter.HasNext()
}

func (it *FileIterator) Next() (*tuple.Tuple, error) {
	hasNext, err := it.HasNext()
	if err != nil {
		return nil, err
	}
	if !hasNext {
		return nil, dberr.New(dberr.KindProgrammer, "heap", "FileIterator.Next", "no more tuples")
	}

	t, err := it.pageIter.Next()
	if err != nil {
		return nil, err
	}

	if more, _ := it.pageIter.HasNext(); !more {
		it.currentPage++
		if err := it.moveToNextPage(); err != nil {
			return nil, err
		}
	}

	return t, nil
}

func (it *FileIterator) Rewind() error {
	return it.Open()
}

func (it *FileIterator) Close() error {
	if it.pageIter != nil {
		it.pageIter.Close()
		it.pageIter = nil
	}
	it.opened = false
	return nil
}

func (it *FileIterator) GetTupleDesc() *tuple.TupleDescription {
	return it.file.GetTupleDesc()
}

// moveToNextPage advances currentPage until it finds one with tuples, or
// runs off the end of the file (pageIter left nil).
func (it *FileIterator) moveToNextPage() error {
	numPages, err := it.file.NumPages()
	if err != nil {
		return dberr.Wrap(err, dberr.KindStorage, "heap", "moveToNextPage", "failed to get page count")
	}

	for ; it.currentPage < numPages; it.currentPage++ {
		pid := page.NewPageDescriptor(it.file.GetID(), it.currentPage)
		p, err := it.src.GetPage(it.tid, pid, primitives.ReadOnly)
		if err != nil {
			return err
		}

		heapPage, ok := p.(*HeapPage)
		if !ok {
			continue
		}

		pageIter := NewHeapPageIterator(heapPage)
		if err := pageIter.Open(); err != nil {
			return err
		}

		hasNext, err := pageIter.HasNext()
		if err != nil {
			return err
		}
		if hasNext {
			it.pageIter = pageIter
			return nil
		}
	}

	it.pageIter = nil
	return nil
}
