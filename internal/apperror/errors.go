// Package apperror defines the error taxonomy shared by the store and
// catalog layers. Handlers translate these into HTTP responses; anything
// that is not an AppError is reported generically.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError is implemented by every typed error in the taxonomy.
type AppError interface {
	error
	Category() string
	HTTPStatus() int
}

// ValidationError rejects client-correctable input before any persistence.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string    { return e.Msg }
func (e *ValidationError) Category() string { return "VALIDATION_ERROR" }
func (e *ValidationError) HTTPStatus() int  { return http.StatusBadRequest }

func NewValidation(msg string) *ValidationError {
	return &ValidationError{Msg: msg}
}

// NotFoundError signals that an id never resolved to a record or the record
// was already removed. Distinct from validation failure.
type NotFoundError struct {
	Msg string
}

func (e *NotFoundError) Error() string    { return e.Msg }
func (e *NotFoundError) Category() string { return "NOT_FOUND" }
func (e *NotFoundError) HTTPStatus() int  { return http.StatusNotFound }

func NewNotFound(msg string) *NotFoundError {
	return &NotFoundError{Msg: msg}
}

// TransientError wraps a connectivity or timeout fault from the backing
// store. Safe for the caller to retry.
type TransientError struct {
	Msg string
	Err error
}

func (e *TransientError) Error() string    { return fmt.Sprintf("%s: %v", e.Msg, e.Err) }
func (e *TransientError) Category() string { return "TRANSIENT_STORE_ERROR" }
func (e *TransientError) HTTPStatus() int  { return http.StatusServiceUnavailable }
func (e *TransientError) Unwrap() error    { return e.Err }

func NewTransient(msg string, err error) *TransientError {
	return &TransientError{Msg: msg, Err: err}
}

// InternalError covers unexpected faults caught at the boundary.
type InternalError struct {
	Msg string
	Err error
}

func (e *InternalError) Error() string    { return fmt.Sprintf("%s: %v", e.Msg, e.Err) }
func (e *InternalError) Category() string { return "INTERNAL_ERROR" }
func (e *InternalError) HTTPStatus() int  { return http.StatusInternalServerError }
func (e *InternalError) Unwrap() error    { return e.Err }

func NewInternal(msg string, err error) *InternalError {
	return &InternalError{Msg: msg, Err: err}
}

// IsNotFound reports whether err is a NotFoundError anywhere in its chain.
func IsNotFound(err error) bool {
	var notFound *NotFoundError
	return errors.As(err, &notFound)
}

// MapToHTTPStatus translates an error into a status code, a category and a
// client-safe message. Untyped errors never leak their text.
func MapToHTTPStatus(err error) (int, string, string) {
	var appErr AppError
	if errors.As(err, &appErr) {
		return appErr.HTTPStatus(), appErr.Category(), appErr.Error()
	}
	return http.StatusInternalServerError, "INTERNAL_ERROR", "unexpected error"
}
