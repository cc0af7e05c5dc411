package apierr

import (
	"errors"
	"fmt"
	"strings"
)

// Codes used across the backend. Handlers map Status to HTTP; everything
// else matches on Code.
const (
	CodeValidation          = "validation_failed"
	CodeNotFound            = "not_found"
	CodeReferentialMismatch = "referential_mismatch"
	CodeConstraint          = "constraint_violation"
	CodePoolExhausted       = "pool_exhausted"
	CodeConnection          = "connection_failed"
	CodeSerialization       = "serialization_failed"
	CodeWorkflowNotFound    = "workflow_not_found"
	CodeStepNotFound        = "step_not_found"
)

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

func Validation(format string, args ...interface{}) *Error {
	return &Error{Status: 400, Code: CodeValidation, Err: fmt.Errorf(format, args...)}
}

func NotFound(format string, args ...interface{}) *Error {
	return &Error{Status: 404, Code: CodeNotFound, Err: fmt.Errorf(format, args...)}
}

func ReferentialMismatch(format string, args ...interface{}) *Error {
	return &Error{Status: 422, Code: CodeReferentialMismatch, Err: fmt.Errorf(format, args...)}
}

func Constraint(err error) *Error {
	return &Error{Status: 409, Code: CodeConstraint, Err: err}
}

// FromStorage classifies a failed database write. Unique and foreign key
// violations become constraint_violation; lock contention past the busy
// timeout becomes pool_exhausted, which callers may retry. Errors already
// carrying a code pass through unchanged.
func FromStorage(err error) error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return err
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "constraint failed"):
		return &Error{Status: 409, Code: CodeConstraint, Err: err}
	case strings.Contains(msg, "database is locked"), strings.Contains(msg, "database table is locked"):
		return &Error{Status: 503, Code: CodePoolExhausted, Err: err}
	}
	return err
}

// IsCode reports whether err or anything it wraps carries the given code.
func IsCode(err error, code string) bool {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Code == code
	}
	return false
}

// StatusOf returns the HTTP status carried by err, or 500 when err is not
// an *Error.
func StatusOf(err error) int {
	var ae *Error
	if errors.As(err, &ae) && ae.Status != 0 {
		return ae.Status
	}
	return 500
}

// CodeOf returns the code carried by err, or "internal_error" when err is
// not an *Error.
func CodeOf(err error) string {
	var ae *Error
	if errors.As(err, &ae) && ae.Code != "" {
		return ae.Code
	}
	return "internal_error"
}
