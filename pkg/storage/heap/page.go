package heap

import (
	"bytes"

	"storemy/pkg/dberr"
	"storemy/pkg/primitives"
	"storemy/pkg/storage/page"
	"storemy/pkg/tuple"
	"storemy/pkg/types"
)

// HeapPage is a slotted page with a header bitmap of fixed-size slots. The
// header is ⌈N/8⌉ bytes, one bit per slot, LSB-first within each byte; the
// body holds N consecutive tuple-sized slots; any remainder up to
// page.PageSize is zero-filled. N is the largest slot count satisfying
// ⌈N/8⌉ + N·T ≤ page.PageSize, for T the schema's byte size.
//
// HeapPage is not safe for concurrent use; callers serialize access through
// the lock held on its PageId.
type HeapPage struct {
	pid       page.PageDescriptor
	tupleDesc *tuple.TupleDescription
	slotSize  int
	header    []byte
	tuples    []*tuple.Tuple

	dirty   bool
	dirtyBy *primitives.TransactionID
	oldData []byte
}

// numSlots computes N for a tuple of byte size slotSize within page.PageSize.
func numSlots(slotSize int) int {
	if slotSize <= 0 {
		return 0
	}
	return (8 * page.PageSize) / (8*slotSize + 1)
}

func headerSize(n int) int {
	return (n + 7) / 8
}

// NewEmptyHeapPage builds a blank, all-zero page for the given schema.
func NewEmptyHeapPage(pid page.PageDescriptor, td *tuple.TupleDescription) (*HeapPage, error) {
	return NewHeapPage(pid, make([]byte, page.PageSize), td)
}

// NewHeapPage decodes a HeapPage from exactly page.PageSize bytes of raw
// page data, per the bitmap layout above.
func NewHeapPage(pid page.PageDescriptor, data []byte, td *tuple.TupleDescription) (*HeapPage, error) {
	if len(data) != page.PageSize {
		return nil, dberr.New(dberr.KindStorage, "heap", "NewHeapPage",
			"page data must be exactly page.PageSize bytes")
	}

	slotSize := int(td.GetSize())
	n := numSlots(slotSize)
	hSize := headerSize(n)

	hp := &HeapPage{
		pid:       pid,
		tupleDesc: td,
		slotSize:  slotSize,
		header:    make([]byte, hSize),
		tuples:    make([]*tuple.Tuple, n),
	}
	copy(hp.header, data[:hSize])

	offset := hSize
	for i := 0; i < n; i++ {
		body := data[offset : offset+slotSize]
		offset += slotSize
		if !hp.slotUsed(i) {
			continue
		}
		t, err := decodeTuple(td, body)
		if err != nil {
			return nil, err
		}
		t.RecordID = tuple.NewRecordID(pid, primitives.SlotID(i)) // #nosec G115
		hp.tuples[i] = t
	}

	return hp, nil
}

func decodeTuple(td *tuple.TupleDescription, body []byte) (*tuple.Tuple, error) {
	t := tuple.NewTuple(td)
	r := bytes.NewReader(body)
	for i, ft := range td.Types {
		var field types.Field
		var err error
		switch ft {
		case types.IntType:
			field, err = types.DeserializeIntField(r)
		case types.StringType:
			field, err = types.DeserializeStringField(r, types.StringMaxSize)
		default:
			err = dberr.New(dberr.KindSchema, "heap", "decodeTuple", "unsupported field type")
		}
		if err != nil {
			return nil, dberr.Wrap(err, dberr.KindStorage, "heap", "decodeTuple", "failed to decode field")
		}
		if err := t.SetField(i, field); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func (hp *HeapPage) slotUsed(i int) bool {
	byteIdx, bit := i/8, uint(i%8)
	return hp.header[byteIdx]&(1<<bit) != 0
}

func (hp *HeapPage) setSlot(i int, used bool) {
	byteIdx, bit := i/8, uint(i%8)
	if used {
		hp.header[byteIdx] |= 1 << bit
	} else {
		hp.header[byteIdx] &^= 1 << bit
	}
}

// GetID returns this page's identity.
func (hp *HeapPage) GetID() page.PageDescriptor {
	return hp.pid
}

// GetNumEmptySlots returns the count of zero bits in the header.
func (hp *HeapPage) GetNumEmptySlots() int {
	empty := 0
	for i := range hp.tuples {
		if !hp.slotUsed(i) {
			empty++
		}
	}
	return empty
}

// InsertTuple stores t in the lowest free slot, or fails if the page is full
// or t's schema does not match the page's.
func (hp *HeapPage) InsertTuple(t *tuple.Tuple) error {
	if !t.TupleDesc.Equals(hp.tupleDesc) {
		return dberr.New(dberr.KindSchema, "heap", "InsertTuple", "schema mismatch")
	}

	for i := range hp.tuples {
		if hp.slotUsed(i) {
			continue
		}
		hp.tuples[i] = t
		hp.setSlot(i, true)
		t.RecordID = tuple.NewRecordID(hp.pid, primitives.SlotID(i)) // #nosec G115
		hp.dirty = true
		return nil
	}

	return dberr.New(dberr.KindCapacity, "heap", "InsertTuple", "no empty slot")
}

// DeleteTuple clears t's slot, provided t's RecordId refers to this page and
// the slot is currently in use.
func (hp *HeapPage) DeleteTuple(t *tuple.Tuple) error {
	if t.RecordID == nil || !t.RecordID.PageID.Equals(hp.pid) {
		return dberr.New(dberr.KindSchema, "heap", "DeleteTuple", "record id does not refer to this page")
	}

	slot := int(t.RecordID.SlotNumber)
	if slot < 0 || slot >= len(hp.tuples) || !hp.slotUsed(slot) {
		return dberr.New(dberr.KindSchema, "heap", "DeleteTuple", "slot is not in use")
	}

	hp.tuples[slot] = nil
	hp.setSlot(slot, false)
	t.RecordID = nil
	hp.dirty = true
	return nil
}

// GetTuples returns the used tuples in ascending slot order.
func (hp *HeapPage) GetTuples() []*tuple.Tuple {
	used := make([]*tuple.Tuple, 0, len(hp.tuples)-hp.GetNumEmptySlots())
	for i, t := range hp.tuples {
		if hp.slotUsed(i) {
			used = append(used, t)
		}
	}
	return used
}

// GetTupleDesc returns the schema of tuples on this page.
func (hp *HeapPage) GetTupleDesc() *tuple.TupleDescription {
	return hp.tupleDesc
}

// IsDirty returns the transaction that last dirtied this page, or nil.
func (hp *HeapPage) IsDirty() *primitives.TransactionID {
	if !hp.dirty {
		return nil
	}
	return hp.dirtyBy
}

// MarkDirty sets or clears the dirty flag and records the dirtying txn.
func (hp *HeapPage) MarkDirty(dirty bool, tid *primitives.TransactionID) {
	hp.dirty = dirty
	if dirty {
		hp.dirtyBy = tid
	} else {
		hp.dirtyBy = nil
	}
}

// GetPageData serializes the page back to exactly page.PageSize bytes.
func (hp *HeapPage) GetPageData() []byte {
	buf := make([]byte, page.PageSize)
	copy(buf, hp.header)

	offset := len(hp.header)
	for i, t := range hp.tuples {
		if hp.slotUsed(i) && t != nil {
			encodeTuple(t, buf[offset:offset+hp.slotSize])
		}
		offset += hp.slotSize
	}
	return buf
}

func encodeTuple(t *tuple.Tuple, dst []byte) {
	w := bytes.NewBuffer(dst[:0])
	for i := 0; i < t.TupleDesc.NumFields(); i++ {
		field, err := t.GetField(i)
		if err != nil || field == nil {
			continue
		}
		_ = field.Serialize(w)
	}
	copy(dst, w.Bytes())
}

// GetBeforeImage returns the page as it was before the transaction's first
// modification, for use on abort.
func (hp *HeapPage) GetBeforeImage() page.Page {
	data := hp.oldData
	if data == nil {
		data = hp.GetPageData()
	}
	before, err := NewHeapPage(hp.pid, data, hp.tupleDesc)
	if err != nil {
		return hp
	}
	return before
}

// SetBeforeImage snapshots the page's current bytes as its before-image.
func (hp *HeapPage) SetBeforeImage() {
	data := hp.GetPageData()
	hp.oldData = make([]byte, len(data))
	copy(hp.oldData, data)
}
