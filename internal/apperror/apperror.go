// Package apperror defines the domain error taxonomy shared by all services.
// Every error that crosses a service boundary carries a Kind so that handlers
// can map it to an HTTP status without string matching, and so that internal
// failures are never shown to clients verbatim.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindConflict
	KindInsufficientStock
	KindCustomerRequired
)

// Error is the canonical domain error. Message is safe to expose to clients;
// Err (optional) holds the underlying cause for logging only.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func Validation(format string, args ...interface{}) error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...interface{}) error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func Conflict(format string, args ...interface{}) error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

func CustomerRequired(msg string) error {
	return &Error{Kind: KindCustomerRequired, Message: msg}
}

func Internal(msg string, err error) error {
	return &Error{Kind: KindInternal, Message: msg, Err: err}
}

// InsufficientStockError aborts an entire bill or stock-out transaction.
// Available and Requested are carried for client display.
type InsufficientStockError struct {
	ProductCode string
	Available   int
	Requested   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s. Available: %d, Requested: %d",
		e.ProductCode, e.Available, e.Requested)
}

// KindOf classifies any error; unrecognized errors are KindInternal.
func KindOf(err error) Kind {
	var insuf *InsufficientStockError
	if errors.As(err, &insuf) {
		return KindInsufficientStock
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// HTTPStatus maps an error kind to its HTTP-equivalent status code.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation, KindInsufficientStock, KindCustomerRequired:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
