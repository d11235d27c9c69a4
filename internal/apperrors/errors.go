// Package apperrors defines the error taxonomy shared by all public
// operations. Every service method returns either nil or an *Error so
// handlers can map the kind to an HTTP status without string matching.
package apperrors

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindNotFound
	KindAlreadyExists
	KindUnitMismatch
	KindEmptyRecipe
	KindInsufficientStock
	KindStorage
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindAlreadyExists:
		return "already_exists"
	case KindUnitMismatch:
		return "unit_mismatch"
	case KindEmptyRecipe:
		return "empty_recipe"
	case KindInsufficientStock:
		return "insufficient_stock"
	case KindStorage:
		return "storage"
	}
	return "unknown"
}

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil && e.Message != "" {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func newf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Validationf(format string, args ...interface{}) *Error {
	return newf(KindValidation, format, args...)
}

func NotFoundf(format string, args ...interface{}) *Error {
	return newf(KindNotFound, format, args...)
}

func AlreadyExistsf(format string, args ...interface{}) *Error {
	return newf(KindAlreadyExists, format, args...)
}

func UnitMismatchf(format string, args ...interface{}) *Error {
	return newf(KindUnitMismatch, format, args...)
}

func EmptyRecipef(format string, args ...interface{}) *Error {
	return newf(KindEmptyRecipe, format, args...)
}

func InsufficientStockf(format string, args ...interface{}) *Error {
	return newf(KindInsufficientStock, format, args...)
}

// Storage wraps an underlying persistence error not otherwise categorized.
func Storage(msg string, err error) *Error {
	return &Error{Kind: KindStorage, Message: msg, Err: err}
}

// KindOf extracts the kind from err, unwrapping as needed. Errors that do
// not carry a kind report KindUnknown.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindUnknown
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool { return KindOf(err) == kind }
