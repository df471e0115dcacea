// Package dberr defines the structured error type shared by every exported
// operation in the engine.
package dberr

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind classifies a DBError into one of the five failure categories the
// engine distinguishes. Callers branch on Kind, never on Message text.
type Kind int

const (
	// KindSchema covers malformed schemas, out-of-range field/column
	// indices, and type mismatches between a Field and its TupleDescription.
	KindSchema Kind = iota
	// KindStorage covers page file I/O failures: short reads, failed
	// writes, a closed file handle.
	KindStorage
	// KindCapacity covers resource exhaustion that is not a bug: a full
	// heap page, a full buffer pool.
	KindCapacity
	// KindConcurrency covers lock timeouts and other contention failures
	// that a caller is expected to retry.
	KindConcurrency
	// KindProgrammer covers API misuse: Next() without HasNext(), Close()
	// on an unopened iterator. These indicate a caller bug.
	KindProgrammer
)

func (k Kind) String() string {
	switch k {
	case KindSchema:
		return "schema"
	case KindStorage:
		return "storage"
	case KindCapacity:
		return "capacity"
	case KindConcurrency:
		return "concurrency"
	case KindProgrammer:
		return "programmer"
	default:
		return "unknown"
	}
}

// DBError is the single structured error type returned by exported engine
// operations. It carries enough context to log and to branch on without
// parsing Message.
type DBError struct {
	Kind      Kind
	Operation string
	Component string
	Message   string
	Cause     error
}

// New creates a DBError with a captured stack trace attached to Cause when
// there is no underlying error to wrap.
func New(kind Kind, component, operation, message string) *DBError {
	return &DBError{
		Kind:      kind,
		Operation: operation,
		Component: component,
		Message:   message,
		Cause:     errors.New(message),
	}
}

// Wrap attaches engine context to an existing error, preserving it as Cause
// so errors.Is/errors.As and FormatStack keep working against it.
func Wrap(cause error, kind Kind, component, operation, message string) *DBError {
	if cause == nil {
		return New(kind, component, operation, message)
	}
	return &DBError{
		Kind:      kind,
		Operation: operation,
		Component: component,
		Message:   message,
		Cause:     errors.Wrap(cause, message),
	}
}

func (e *DBError) Error() string {
	if e.Operation == "" && e.Component == "" {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s (operation: %s, component: %s): %v",
		e.Kind, e.Message, e.Operation, e.Component, e.Cause)
}

func (e *DBError) Unwrap() error {
	return e.Cause
}

// FormatStack renders the stack trace captured by errors.WithStack/errors.Wrap
// at the point this error (or its innermost wrapped cause) was created.
func (e *DBError) FormatStack() string {
	return fmt.Sprintf("%+v", e.Cause)
}

// Is reports whether err is a DBError of the given kind, unwrapping through
// any number of wrapping layers.
func Is(err error, kind Kind) bool {
	var de *DBError
	if errors.As(err, &de) {
		return de.Kind == kind
	}
	return false
}
