package heap

import (
	"io"

	"storemy/pkg/dberr"
	"storemy/pkg/primitives"
	"storemy/pkg/storage/page"
	"storemy/pkg/tuple"
)

// PageSource is the narrow slice of BufferPool that HeapFile needs to fault
// pages in during insert/delete/scan. HeapFile never holds a reference to
// the concrete buffer pool, only this lookup seam.
type PageSource interface {
	GetPage(tid *primitives.TransactionID, pid primitives.PageID, perm primitives.Permissions) (page.Page, error)
	ReleasePage(tid *primitives.TransactionID, pid primitives.PageID)
}

// HeapFile is a table's backing file: a sequence of fixed-size pages
// addressed by page number, holding tuples of one schema.
type HeapFile struct {
	*page.BaseFile
	tupleDesc *tuple.TupleDescription
}

func NewHeapFile(filename primitives.Filepath, td *tuple.TupleDescription) (*HeapFile, error) {
	baseFile, err := page.NewBaseFile(filename)
	if err != nil {
		return nil, err
	}

	return &HeapFile{
		BaseFile:  baseFile,
		tupleDesc: td,
	}, nil
}

func (hf *HeapFile) GetTupleDesc() *tuple.TupleDescription {
	return hf.tupleDesc
}

// ReadPage performs the physical read of one page, decoding it into a
// HeapPage. Callers should normally go through a PageSource/BufferPool
// rather than calling this directly, since it bypasses locking.
func (hf *HeapFile) ReadPage(pid primitives.PageID) (page.Page, error) {
	heapPageID, err := hf.validateAndConvertPageID(pid)
	if err != nil {
		return nil, err
	}

	pageData, err := hf.ReadPageData(heapPageID.PageNo())
	if err != nil {
		if err == io.EOF {
			return NewHeapPage(heapPageID, make([]byte, page.PageSize), hf.tupleDesc)
		}
		return nil, dberr.Wrap(err, dberr.KindStorage, "heap", "ReadPage", "failed to read page data")
	}

	return NewHeapPage(heapPageID, pageData, hf.tupleDesc)
}

func (hf *HeapFile) validateAndConvertPageID(pid primitives.PageID) (page.PageDescriptor, error) {
	if pid == nil {
		return page.PageDescriptor{}, dberr.New(dberr.KindSchema, "heap", "validateAndConvertPageID", "page id cannot be nil")
	}

	heapPageID, ok := pid.(page.PageDescriptor)
	if !ok {
		return page.PageDescriptor{}, dberr.New(dberr.KindSchema, "heap", "validateAndConvertPageID", "invalid page id type for HeapFile")
	}

	if heapPageID.TableID() != hf.GetID() {
		return page.PageDescriptor{}, dberr.New(dberr.KindSchema, "heap", "validateAndConvertPageID", "page id table mismatch")
	}

	return heapPageID, nil
}

// WritePage performs the physical write of one page.
func (hf *HeapFile) WritePage(p page.Page) error {
	if p == nil {
		return dberr.New(dberr.KindSchema, "heap", "WritePage", "page cannot be nil")
	}
	return hf.WritePageData(p.GetID().PageNo(), p.GetPageData())
}

// InsertTuple scans existing pages in order through src for one with a free
// slot. Pages examined but not chosen are released immediately so 2PL
// doesn't hold the whole file. If none has room, an empty page is appended
// to the file on disk, so NumPages already counts it, and the tuple is
// inserted into that page as faulted in through src; like every other
// insert, the tuple reaches disk only when the page is flushed.
func (hf *HeapFile) InsertTuple(tid *primitives.TransactionID, src PageSource, t *tuple.Tuple) (*HeapPage, error) {
	numPages, err := hf.NumPages()
	if err != nil {
		return nil, dberr.Wrap(err, dberr.KindStorage, "heap", "InsertTuple", "failed to get page count")
	}

	for pageNo := primitives.PageNumber(0); pageNo < numPages; pageNo++ {
		pid := page.NewPageDescriptor(hf.GetID(), pageNo)
		p, err := src.GetPage(tid, pid, primitives.ReadWrite)
		if err != nil {
			return nil, err
		}
		hp := p.(*HeapPage)
		if hp.GetNumEmptySlots() == 0 {
			src.ReleasePage(tid, pid)
			continue
		}
		if err := hp.InsertTuple(t); err != nil {
			src.ReleasePage(tid, pid)
			continue
		}
		hp.MarkDirty(true, tid)
		return hp, nil
	}

	newPid := page.NewPageDescriptor(hf.GetID(), numPages)
	emptyPage, err := NewEmptyHeapPage(newPid, hf.tupleDesc)
	if err != nil {
		return nil, err
	}
	if err := hf.WritePage(emptyPage); err != nil {
		return nil, err
	}

	p, err := src.GetPage(tid, newPid, primitives.ReadWrite)
	if err != nil {
		return nil, err
	}
	hp := p.(*HeapPage)
	if err := hp.InsertTuple(t); err != nil {
		return nil, err
	}
	hp.MarkDirty(true, tid)
	return hp, nil
}

// DeleteTuple acquires the page t was recorded on and deletes it there.
func (hf *HeapFile) DeleteTuple(tid *primitives.TransactionID, src PageSource, t *tuple.Tuple) (*HeapPage, error) {
	if t.RecordID == nil {
		return nil, dberr.New(dberr.KindSchema, "heap", "DeleteTuple", "tuple has no record id")
	}

	p, err := src.GetPage(tid, t.RecordID.PageID, primitives.ReadWrite)
	if err != nil {
		return nil, err
	}
	hp := p.(*HeapPage)
	if err := hp.DeleteTuple(t); err != nil {
		return nil, err
	}
	hp.MarkDirty(true, tid)
	return hp, nil
}

// Iterator yields every used tuple across the file's pages, in increasing
// (pageNumber, slotNumber) order, faulting pages in through src under
// READ_ONLY.
func (hf *HeapFile) Iterator(tid *primitives.TransactionID, src PageSource) *FileIterator {
	return NewFileIterator(hf, tid, src)
}
