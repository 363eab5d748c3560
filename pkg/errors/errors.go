// Package errors provides structured error types for mvntree.
//
// Every failure that crosses a package boundary carries a machine-readable
// [Code] so the CLI can map it to an exit status and a short user message,
// while the wrapped cause keeps the full detail for verbose logging.
//
// # Error Codes
//
// Codes follow a hierarchical naming convention:
//   - INVALID_*: input validation failures (coordinates, ranges, config)
//   - *_NOT_FOUND: a requested artifact or file does not exist
//   - NETWORK_*: repository transport failures
//   - METADATA_*: a metadata source could not describe an artifact
//   - INTERNAL_*: unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidArtifact, "missing version: %s", key)
//	if errors.Is(err, errors.ErrCodeInvalidArtifact) {
//	    // Handle validation error
//	}
//
//	err := errors.Wrap(errors.ErrCodeMetadataResolution, cause, "resolve %s", id)
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
	ErrCodeInvalidArtifact Code = "INVALID_ARTIFACT"
	ErrCodeInvalidScope    Code = "INVALID_SCOPE"
	ErrCodeInvalidRange    Code = "INVALID_VERSION_RANGE"
	ErrCodeInvalidPattern  Code = "INVALID_PATTERN"
	ErrCodeInvalidFormat   Code = "INVALID_FORMAT"
	ErrCodeInvalidConfig   Code = "INVALID_CONFIG"
	ErrCodeInvalidManifest Code = "INVALID_MANIFEST"
	ErrCodeInvalidPath     Code = "INVALID_PATH"

	// Resource not found errors
	ErrCodeArtifactNotFound Code = "ARTIFACT_NOT_FOUND"
	ErrCodeFileNotFound     Code = "FILE_NOT_FOUND"

	// Network errors
	ErrCodeNetwork Code = "NETWORK_ERROR"
	ErrCodeTimeout Code = "TIMEOUT"

	// Resolution errors
	ErrCodeMetadataResolution Code = "METADATA_RESOLUTION"
	ErrCodeNoMatchingVersion  Code = "NO_MATCHING_VERSION"

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
	for errors.As(err, &e) {
		if e.Code == code {
			return true
		}
		err = e.Cause
	}
	return false
}

// GetCode extracts the outermost error code from an error, if available.
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

// ExitCode maps an error to a process exit status.
// Validation problems exit with 2, everything else with 1.
func ExitCode(err error) int {
	switch GetCode(err) {
	case "":
		return 1
	case ErrCodeInvalidInput, ErrCodeInvalidArtifact, ErrCodeInvalidScope,
		ErrCodeInvalidRange, ErrCodeInvalidPattern, ErrCodeInvalidFormat,
		ErrCodeInvalidConfig, ErrCodeInvalidManifest, ErrCodeInvalidPath:
		return 2
	default:
		return 1
	}
}
