package fvupgrader

import (
	"errors"
	"fmt"
)

// ErrorCode classifies a failure so callers can tell the kinds apart.
type ErrorCode string

const (
	// ErrCodeConfigNotFound means the version file is absent or unreadable.
	ErrCodeConfigNotFound ErrorCode = "CONFIG_NOT_FOUND"
	// ErrCodeVersionNotFound means the version file has no matching version line.
	ErrCodeVersionNotFound ErrorCode = "VERSION_PATTERN_NOT_FOUND"
	// ErrCodeInvalidSelection means a candidate index was unparseable or outside 1..3.
	ErrCodeInvalidSelection ErrorCode = "INVALID_SELECTION"
	// ErrCodeFlagConflict means the requested options contradict each other.
	ErrCodeFlagConflict ErrorCode = "FLAG_CONFLICT"
	// ErrCodeExternalCommand means the git client exited with a non-zero status.
	ErrCodeExternalCommand ErrorCode = "EXTERNAL_COMMAND_FAILURE"
	// ErrCodeInvalidSettings means the settings file could not be decoded.
	ErrCodeInvalidSettings ErrorCode = "INVALID_SETTINGS"
	// ErrCodeIO means a file could not be written.
	ErrCodeIO ErrorCode = "IO"
)

// Error is the error type returned by every operation in this package.
type Error struct {
	Code    ErrorCode
	Message string
	Cause   error
	Context map[string]any
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is and errors.As support.
func (e *Error) Unwrap() error {
	return e.Cause
}

func newError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

func wrapError(code ErrorCode, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

func wrapWithContext(code ErrorCode, message string, cause error, context map[string]any) *Error {
	return &Error{Code: code, Message: message, Cause: cause, Context: context}
}

// CodeOf returns the code of the first *Error in err's chain, or "" if there is none.
func CodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// IsCode reports whether err carries the given code.
func IsCode(err error, code ErrorCode) bool {
	return err != nil && CodeOf(err) == code
}
