package tuple

import (
	"fmt"

	"storemy/pkg/primitives"
)

// RecordID identifies the storage location of a tuple: the page it lives on
// and its slot within that page's bitmap-header layout.
type RecordID struct {
	PageID     primitives.PageID
	SlotNumber primitives.SlotID
}

func NewRecordID(pageID primitives.PageID, slotNumber primitives.SlotID) *RecordID {
	return &RecordID{
		PageID:     pageID,
		SlotNumber: slotNumber,
	}
}

func (rid *RecordID) Equals(other *RecordID) bool {
	if other == nil {
		return false
	}
	return rid.PageID.Equals(other.PageID) && rid.SlotNumber == other.SlotNumber
}

func (rid *RecordID) String() string {
	return fmt.Sprintf("RecordID(page=%s, slot=%d)", rid.PageID.String(), rid.SlotNumber)
}
