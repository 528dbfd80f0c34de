package pagebook

import (
	"database/sql"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// ErrorKind categorizes a pagination failure.
type ErrorKind int

const (
	// KindInvalidValue means a Page field broke one of the consistency rules.
	KindInvalidValue ErrorKind = iota + 1
	// KindDatabase means the counting query or the windowed fetch failed to execute.
	KindDatabase
	// KindDecode means a fetched row could not be converted into the record type.
	KindDecode
)

// String returns the kind name used as the error message prefix.
func (k ErrorKind) String() string {
	switch k {
	case KindInvalidValue:
		return "invalid value error"
	case KindDatabase:
		return "database error"
	case KindDecode:
		return "decode error"
	default:
		return "unknown error"
	}
}

// PaginationError is the error type returned by every fallible operation in
// this package. It carries an ErrorKind plus either a formatted detail
// (invalid values) or an underlying cause (database and decode failures).
type PaginationError struct {
	kind   ErrorKind
	detail string
	cause  error
}

// NewInvalidValueError returns a KindInvalidValue error with a formatted detail.
func NewInvalidValueError(format string, args ...any) *PaginationError {
	return &PaginationError{kind: KindInvalidValue, detail: fmt.Sprintf(format, args...)}
}

// NewDatabaseError wraps a driver failure as a KindDatabase error.
func NewDatabaseError(err error) *PaginationError {
	return &PaginationError{kind: KindDatabase, detail: err.Error(), cause: err}
}

// NewDecodeError wraps a row conversion failure as a KindDecode error.
func NewDecodeError(err error) *PaginationError {
	return &PaginationError{kind: KindDecode, detail: err.Error(), cause: err}
}

// Kind returns the error category.
func (err *PaginationError) Kind() ErrorKind {
	return err.kind
}

func (err *PaginationError) Error() string {
	return fmt.Sprintf("%s: %s", err.kind, err.detail)
}

// Unwrap returns the underlying driver or conversion error, if any.
func (err *PaginationError) Unwrap() error {
	return err.cause
}

// IsInvalidValue reports whether err is a PaginationError of KindInvalidValue.
func IsInvalidValue(err error) bool {
	return hasKind(err, KindInvalidValue)
}

// IsDatabaseError reports whether err is a PaginationError of KindDatabase.
func IsDatabaseError(err error) bool {
	return hasKind(err, KindDatabase)
}

// IsDecodeError reports whether err is a PaginationError of KindDecode.
func IsDecodeError(err error) bool {
	return hasKind(err, KindDecode)
}

func hasKind(err error, kind ErrorKind) bool {
	var perr *PaginationError
	return errors.As(err, &perr) && perr.kind == kind
}

// IsNotFound reports whether err originates from a "no such row" driver
// result. Callers translating errors into HTTP statuses usually map it to a
// not-found response instead of a server error.
func IsNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows) || errors.Is(err, gorm.ErrRecordNotFound)
}
