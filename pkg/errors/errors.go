// Package errors provides structured error types for licensetower.
//
// Errors carry a machine-readable [Code] so the CLI can tell fatal
// configuration problems (an unsupported linker, a corrupt install-state
// index) apart from plain I/O failures.
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: malformed input (lockfile, index, manifest, config)
//   - *_NOT_FOUND: missing resources
//   - UNSUPPORTED_*: configuration that names something we cannot handle
//   - IO_ERROR: file system failures unrelated to a missing file
//
// # Usage
//
//	err := errors.New(errors.ErrCodeUnsupportedLinker, "unsupported linker %q", id)
//	if errors.Is(err, errors.ErrCodeUnsupportedLinker) {
//	    // Handle configuration error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInvalidIndex, origErr, "parse %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidLockfile Code = "INVALID_LOCKFILE"
	ErrCodeInvalidIndex    Code = "INVALID_INDEX"
	ErrCodeInvalidManifest Code = "INVALID_MANIFEST"
	ErrCodeInvalidConfig   Code = "INVALID_CONFIG"

	// Resource not found errors
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Configuration errors
	ErrCodeUnsupportedLinker Code = "UNSUPPORTED_LINKER"

	// File system errors
	ErrCodeIO Code = "IO_ERROR"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code,
// including errors that expose their code through a Code() method.
func Is(err error, code Code) bool {
	return GetCode(err) == code && code != ""
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if nothing in the chain carries a code.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	var c coder
	if errors.As(err, &c) {
		return c.Code()
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message and cause without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Cause != nil {
			return fmt.Sprintf("%s: %v", e.Message, e.Cause)
		}
		return e.Message
	}
	return err.Error()
}

type coder interface {
	error
	Code() Code
}
