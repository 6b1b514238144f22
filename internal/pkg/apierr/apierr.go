package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	CodeNotFound            = "not_found"
	CodeConflict            = "conflict"
	CodeForbidden           = "forbidden"
	CodeUnresolved          = "unresolved"
	CodeUpstreamUnavailable = "upstream_unavailable"
	CodeValidation          = "validation_failed"
)

// Error carries an HTTP status and a stable machine code alongside the cause.
// Services return these; the handler layer maps them straight onto responses.
type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

func NotFound(err error) *Error {
	return New(http.StatusNotFound, CodeNotFound, err)
}

func Conflict(err error) *Error {
	return New(http.StatusConflict, CodeConflict, err)
}

func Forbidden(err error) *Error {
	return New(http.StatusForbidden, CodeForbidden, err)
}

// Unresolved marks a generation output that matched no candidate. Recoverable:
// nothing was persisted, the caller may retry or fall back.
func Unresolved(err error) *Error {
	return New(http.StatusUnprocessableEntity, CodeUnresolved, err)
}

func UpstreamUnavailable(err error) *Error {
	return New(http.StatusServiceUnavailable, CodeUpstreamUnavailable, err)
}

func Validation(err error) *Error {
	return New(http.StatusBadRequest, CodeValidation, err)
}

// StatusAndCode resolves any error to an HTTP status and code, defaulting to
// a 500 for errors that did not come through this package.
func StatusAndCode(err error) (int, string) {
	var ae *Error
	if errors.As(err, &ae) {
		status := ae.Status
		if status == 0 {
			status = http.StatusInternalServerError
		}
		return status, ae.Code
	}
	return http.StatusInternalServerError, "internal"
}

func Is(err error, code string) bool {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Code == code
	}
	return false
}
