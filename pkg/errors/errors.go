// Package errors provides structured error types for tilescramble.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the library and the CLI
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input validation failures
//   - NO_IMAGE / PARTITION_DEGENERATE: operations on a session that has nothing to act on
//   - SEED_DERIVATION: the passphrase could not be turned into a seed
//   - INTERNAL_*: Unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidVariant, "unknown variant: %s", name)
//	if errors.Is(err, errors.ErrCodeInvalidVariant) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeSeedDerivation, ctx.Err(), "derive seed")
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
	ErrCodeInvalidInput    Code = "INVALID_INPUT"
	ErrCodeInvalidVariant  Code = "INVALID_VARIANT"
	ErrCodeInvalidSize     Code = "INVALID_SIZE"
	ErrCodeInvalidFormat   Code = "INVALID_FORMAT"
	ErrCodeInvalidStrength Code = "INVALID_STRENGTH"
	ErrCodeInvalidPath     Code = "INVALID_PATH"

	// Session state errors
	ErrCodeNoImage             Code = "NO_IMAGE"
	ErrCodePartitionDegenerate Code = "PARTITION_DEGENERATE"
	ErrCodeSeedDerivation      Code = "SEED_DERIVATION"

	// Resource errors
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"
	ErrCodeDecode       Code = "DECODE_FAILED"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
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
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message and its cause without code prefixes.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return err.Error()
	}
	if e.Cause != nil {
		return e.Message + ": " + UserMessage(e.Cause)
	}
	return e.Message
}
