package linkpreview

import (
	"errors"
	"fmt"
)

// Application error codes.
//
// The set is closed: every error returned by a Provider carries one of these
// codes, and ErrorCode reports EUNKNOWN for anything unclassified.
const (
	EINVALIDURL  = "invalid_url"
	EFETCHFAILED = "fetch_failed"
	ETIMEDOUT    = "timed_out"
	ECANCELLED   = "cancelled"
	EUNKNOWN     = "unknown"
)

// ErrAlreadyCalled is returned when a single-use provider is invoked again.
var ErrAlreadyCalled = &Error{Code: EFETCHFAILED, Message: "provider already called"}

// Error represents an application-specific error.
type Error struct {
	// Machine-readable error code.
	Code string

	// Human-readable error message.
	Message string

	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("linkpreview error: code=%s message=%s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Errorf is a helper function to return an Error with a given code and formatted message.
func Errorf(code string, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// WrapError returns an Error with the given code that wraps cause.
func WrapError(code string, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Err:     cause,
	}
}

// ErrorCode unwraps an application error and returns its code.
// Non-application errors always return EUNKNOWN.
func ErrorCode(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Code
	}
	return EUNKNOWN
}

// ErrorMessage unwraps an application error and returns its message.
// Non-application errors return the error text.
func ErrorMessage(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
