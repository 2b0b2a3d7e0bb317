package model

import (
	"errors"
	"fmt"
)

// ErrorKind is the error taxonomy shared by the catalog, the bill repository,
// the lifecycle engine and snapshot import. Every kind is recoverable: the
// caller reports it and the stored state is left unchanged.
type ErrorKind string

const (
	// KindValidation covers blank or invalid user input.
	KindValidation ErrorKind = "ValidationError"

	// KindNotFound covers unknown bill ids, category keys and item indexes.
	KindNotFound ErrorKind = "NotFoundError"

	// KindIllegalState covers mutation of a COMPLETED bill.
	KindIllegalState ErrorKind = "IllegalStateTransition"

	// KindDuplicate covers categories and tables that already exist.
	KindDuplicate ErrorKind = "DuplicateEntity"

	// KindInvalidSnapshot covers malformed import payloads and corrupt
	// persisted records.
	KindInvalidSnapshot ErrorKind = "InvalidSnapshot"
)

// ErrorCode names the specific failure within a kind.
type ErrorCode string

const (
	CodeEmptyName           ErrorCode = "EmptyName"
	CodeInvalidPrice        ErrorCode = "InvalidPrice"
	CodeInvalidQuantity     ErrorCode = "InvalidQuantity"
	CodeInvalidNumber       ErrorCode = "InvalidNumber"
	CodeNoTableSelected     ErrorCode = "NoTableSelected"
	CodeEmptyBill           ErrorCode = "EmptyBill"
	CodeBillNotFound        ErrorCode = "BillNotFound"
	CodeUnknownCategory     ErrorCode = "UnknownCategory"
	CodeItemIndexOutOfRange ErrorCode = "ItemIndexOutOfRange"
	CodeBillNotPending      ErrorCode = "BillNotPending"
	CodeDuplicateCategory   ErrorCode = "DuplicateCategory"
	CodeDuplicateTable      ErrorCode = "DuplicateTable"
	CodeInvalidSnapshot     ErrorCode = "InvalidSnapshot"
)

// Error is a typed domain failure.
type Error struct {
	// Kind is the taxonomy bucket.
	Kind ErrorKind

	// Code identifies the specific failure.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Details carries structured context (bill id, field path, ...).
	Details map[string]string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Code)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Is matches on Code so that errors.Is(err, ErrBillNotFound) holds for any
// BillNotFound error regardless of message or details.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// Sentinels for errors.Is comparisons.
var (
	ErrEmptyName           = &Error{Kind: KindValidation, Code: CodeEmptyName}
	ErrInvalidPrice        = &Error{Kind: KindValidation, Code: CodeInvalidPrice}
	ErrInvalidQuantity     = &Error{Kind: KindValidation, Code: CodeInvalidQuantity}
	ErrInvalidNumber       = &Error{Kind: KindValidation, Code: CodeInvalidNumber}
	ErrNoTableSelected     = &Error{Kind: KindValidation, Code: CodeNoTableSelected}
	ErrEmptyBill           = &Error{Kind: KindValidation, Code: CodeEmptyBill}
	ErrBillNotFound        = &Error{Kind: KindNotFound, Code: CodeBillNotFound}
	ErrUnknownCategory     = &Error{Kind: KindNotFound, Code: CodeUnknownCategory}
	ErrItemIndexOutOfRange = &Error{Kind: KindNotFound, Code: CodeItemIndexOutOfRange}
	ErrBillNotPending      = &Error{Kind: KindIllegalState, Code: CodeBillNotPending}
	ErrDuplicateCategory   = &Error{Kind: KindDuplicate, Code: CodeDuplicateCategory}
	ErrDuplicateTable      = &Error{Kind: KindDuplicate, Code: CodeDuplicateTable}
	ErrInvalidSnapshot     = &Error{Kind: KindInvalidSnapshot, Code: CodeInvalidSnapshot}
)

// Errorf returns a new error with the kind and code of sentinel and a
// formatted message.
func Errorf(sentinel *Error, format string, args ...any) *Error {
	return &Error{
		Kind:    sentinel.Kind,
		Code:    sentinel.Code,
		Message: fmt.Sprintf(format, args...),
	}
}

// WithDetail attaches a key/value pair and returns e for chaining.
func (e *Error) WithDetail(key, value string) *Error {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// KindOf returns the kind of a domain error, or "" for any other error.
// Uses errors.As to handle wrapped errors.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}

// IsKind returns true if err is a domain error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	return err != nil && KindOf(err) == kind
}

// InvalidSnapshotf wraps a decode failure as InvalidSnapshot.
func InvalidSnapshotf(cause error, format string, args ...any) *Error {
	e := Errorf(ErrInvalidSnapshot, format, args...)
	if cause != nil {
		e.Message = fmt.Sprintf("%s: %v", e.Message, cause)
	}
	return e
}
