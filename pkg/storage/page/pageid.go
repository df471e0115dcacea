package page

import (
	"encoding/binary"
	"fmt"

	"storemy/pkg/primitives"

	"github.com/spaolacci/murmur3"
)

// PageDescriptor is the engine's sole implementation of primitives.PageID:
// a (table, page number) pair identifying one heap page. It is a plain
// value type, not a pointer, so two descriptors naming the same page
// compare equal with == and are interchangeable as map keys in the lock
// manager and buffer pool.
type PageDescriptor struct {
	tableID primitives.TableID
	pageNum primitives.PageNumber
}

func NewPageDescriptor(tableID primitives.TableID, pageNum primitives.PageNumber) PageDescriptor {
	return PageDescriptor{
		tableID: tableID,
		pageNum: pageNum,
	}
}

func (hpid PageDescriptor) TableID() primitives.TableID {
	return hpid.tableID
}

func (hpid PageDescriptor) PageNo() primitives.PageNumber {
	return hpid.pageNum
}

func (hpid PageDescriptor) Serialize() []byte {
	buf := make([]byte, 16)
	binary.LittleEndian.PutUint64(buf[0:8], uint64(hpid.tableID))
	binary.LittleEndian.PutUint64(buf[8:16], uint64(hpid.pageNum))
	return buf
}

func (hpid PageDescriptor) Equals(other primitives.PageID) bool {
	if other == nil {
		return false
	}
	return hpid.tableID == other.TableID() && hpid.pageNum == other.PageNo()
}

func (hpid PageDescriptor) String() string {
	return fmt.Sprintf("PageDescriptor(table=%d, page=%d)", hpid.tableID, hpid.pageNum)
}

func (hpid PageDescriptor) HashCode() primitives.HashCode {
	return primitives.HashCode(murmur3.Sum64(hpid.Serialize()))
}
