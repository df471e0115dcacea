package logging

import (
	"github.com/sirupsen/logrus"
)

// WithTx creates a logger with transaction context.
// Use this to automatically include transaction ID in all logs.
func WithTx(txID int64) *logrus.Entry {
	return GetLogger().WithField("tx_id", txID)
}

// WithTable creates a logger with table context.
func WithTable(tableID int) *logrus.Entry {
	return GetLogger().WithField("table_id", tableID)
}

// WithTableTx creates a logger with both transaction and table context.
func WithTableTx(txID int64, tableID int) *logrus.Entry {
	return GetLogger().WithFields(logrus.Fields{"tx_id": txID, "table_id": tableID})
}

// WithPage creates a logger with page context. Useful for buffer pool and
// storage operations.
func WithPage(pageID fmtStringer) *logrus.Entry {
	return GetLogger().WithField("page_id", pageID.String())
}

// WithLock creates a logger with lock context. Useful for concurrency and
// lock manager operations.
func WithLock(txID int64, pageID fmtStringer) *logrus.Entry {
	return GetLogger().WithFields(logrus.Fields{"tx_id": txID, "page_id": pageID.String()})
}

// WithComponent creates a logger with component/subsystem context.
func WithComponent(component string) *logrus.Entry {
	return GetLogger().WithField("component", component)
}

// WithError creates a logger with error context.
func WithError(err error) *logrus.Entry {
	return GetLogger().WithField("error", err.Error())
}

// fmtStringer is satisfied by primitives.PageID without importing it here,
// keeping pkg/logging free of a dependency on pkg/primitives.
type fmtStringer interface {
	String() string
}
