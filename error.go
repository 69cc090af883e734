package docbase

import (
	"errors"
	"fmt"
)

// Application error codes.
//
// These are meant to be generic codes that describe the class of error.
// Machine-readable, mapped to user-facing messages at the CLI boundary.
const (
	ECONFLICT    = "conflict"    // identifier collision
	ECORRUPT     = "corrupt"     // index file structurally unreadable
	EGONE        = "gone"        // upstream permanently absent (404-class)
	EINTERNAL    = "internal"    // internal error
	EINVALID     = "invalid"     // validation failed
	ELOCKED      = "locked"      // index write lock unavailable
	ENOTFOUND    = "not_found"   // entity does not exist
	ESECTION     = "no_section"  // no heading matched
	ESTALE       = "stale"       // index references missing or mismatched storage
	EUNAVAILABLE = "unavailable" // transient fetch failure, retryable
)

// Error represents an application-specific error. Application errors can be
// unwrapped by the caller to extract out the code & message.
//
// Any non-application error (such as a disk error) should be reported as an
// EINTERNAL error; the end user should only see "internal error" for those.
type Error struct {
	// Machine-readable error code.
	Code string

	// Human-readable message.
	Message string
}

// Error implements the error interface. Not used by the application otherwise.
func (e *Error) Error() string {
	return fmt.Sprintf("docbase error: code=%s message=%s", e.Code, e.Message)
}

// ErrorCode unwraps an application error and returns its code.
// Non-application errors always return EINTERNAL.
func ErrorCode(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Code
	}
	return EINTERNAL
}

// ErrorMessage unwraps an application error and returns its message.
// Non-application errors always return "Internal error.".
func ErrorMessage(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Message
	}
	return "Internal error."
}

// Errorf is a helper function to return an Error with a given code and
// formatted message.
func Errorf(code string, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// IsTransient reports whether the error is a retryable condition
// (EUNAVAILABLE or ELOCKED).
func IsTransient(err error) bool {
	code := ErrorCode(err)
	return code == EUNAVAILABLE || code == ELOCKED
}
