// Package apperror is the error taxonomy shared by the booking services and the
// HTTP layer.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

type Code string

const (
	CodeInvalidInput      Code = "InvalidInput"
	CodeNotFound          Code = "NotFound"
	CodeConflict          Code = "Conflict"
	CodeForbidden         Code = "Forbidden"
	CodeInvalidTransition Code = "InvalidTransition"
	CodeStaleBooking      Code = "StaleBooking"
	CodeTransientStore    Code = "TransientStoreFailure"
	CodeInternal          Code = "Internal"
)

// Error is a classified failure. Two errors match under errors.Is when their
// codes are equal, so callers compare against the sentinels below.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

var (
	ErrInvalidInput      = &Error{Code: CodeInvalidInput, Message: "invalid input"}
	ErrNotFound          = &Error{Code: CodeNotFound, Message: "not found"}
	ErrConflict          = &Error{Code: CodeConflict, Message: "conflict"}
	ErrForbidden         = &Error{Code: CodeForbidden, Message: "forbidden"}
	ErrInvalidTransition = &Error{Code: CodeInvalidTransition, Message: "invalid status transition"}
	ErrStaleBooking      = &Error{Code: CodeStaleBooking, Message: "stale booking"}
	ErrTransientStore    = &Error{Code: CodeTransientStore, Message: "store temporarily unavailable"}
)

func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

func Wrap(code Code, err error, message string) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

func InvalidInput(format string, args ...any) *Error {
	return New(CodeInvalidInput, format, args...)
}

func NotFound(format string, args ...any) *Error {
	return New(CodeNotFound, format, args...)
}

func Conflict(format string, args ...any) *Error {
	return New(CodeConflict, format, args...)
}

func Forbidden(format string, args ...any) *Error {
	return New(CodeForbidden, format, args...)
}

func InvalidTransition(format string, args ...any) *Error {
	return New(CodeInvalidTransition, format, args...)
}

func StaleBooking(format string, args ...any) *Error {
	return New(CodeStaleBooking, format, args...)
}

func Transient(err error) *Error {
	return Wrap(CodeTransientStore, err, "store temporarily unavailable, retry the request")
}

// CodeOf returns the taxonomy code carried by err, or CodeInternal.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}

// HTTPStatus maps a code to the response status used by the API.
func HTTPStatus(code Code) int {
	switch code {
	case CodeInvalidInput:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict, CodeInvalidTransition, CodeStaleBooking:
		return http.StatusConflict
	case CodeForbidden:
		return http.StatusForbidden
	case CodeTransientStore:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
