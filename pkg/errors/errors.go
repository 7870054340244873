// Package errors provides structured error types for the line planner.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across CLI and HTTP API
//   - Machine-readable error codes for programmatic handling
//   - A single human-readable message per failure
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Parse-fatal codes are raised only by the bulletin normalizer and are
// terminal: the caller must not attempt partial recovery.
//   - HEADER_NOT_FOUND: no header row in the first rows of the sheet
//   - REQUIRED_COLUMN_MISSING: operation number or machine type column absent
//   - NO_OPERATIONS_FOUND: no data row survived classification
//
// The remaining codes cover input validation, persistence lookups and
// internal failures.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeHeaderNotFound, "could not find header row")
//	if errors.Is(err, errors.ErrCodeHeaderNotFound) {
//	    // Handle missing header
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInvalidWorkbook, origErr, "open %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Parse-fatal errors
	ErrCodeHeaderNotFound        Code = "HEADER_NOT_FOUND"
	ErrCodeRequiredColumnMissing Code = "REQUIRED_COLUMN_MISSING"
	ErrCodeNoOperations          Code = "NO_OPERATIONS_FOUND"

	// Input validation errors
	ErrCodeInvalidInput      Code = "INVALID_INPUT"
	ErrCodeInvalidWorkbook   Code = "INVALID_WORKBOOK"
	ErrCodeInvalidParameters Code = "INVALID_PARAMETERS"
	ErrCodeInvalidFormat     Code = "INVALID_FORMAT"
	ErrCodeInvalidConfig     Code = "INVALID_CONFIG"

	// Resource not found errors
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeLineNotFound Code = "LINE_NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
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
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// IsParseFatal reports whether err is one of the terminal normalizer errors.
func IsParseFatal(err error) bool {
	switch GetCode(err) {
	case ErrCodeHeaderNotFound, ErrCodeRequiredColumnMissing, ErrCodeNoOperations:
		return true
	}
	return false
}
