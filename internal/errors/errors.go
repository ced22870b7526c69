package errors

import (
	"fmt"
)

// DepotError is the structured error type for filedepot.
// It provides rich context for error handling, logging, and user presentation.
type DepotError struct {
	// Code is the unique error code (e.g., "ERR_201_ROOT_NOT_FOUND").
	Code string

	// Message is the human-readable error message.
	Message string

	// Category is the error category (Config, IO, etc.).
	Category Category

	// Severity is the error severity level.
	Severity Severity

	// Details contains additional context as key-value pairs.
	Details map[string]string

	// Cause is the underlying error that caused this error.
	Cause error
}

// Error implements the error interface.
func (e *DepotError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for error chain support.
func (e *DepotError) Unwrap() error {
	return e.Cause
}

// Is checks if this error matches the target error by code.
// This enables errors.Is() to work with DepotError.
func (e *DepotError) Is(target error) bool {
	if t, ok := target.(*DepotError); ok {
		return e.Code == t.Code
	}
	return false
}

// WithDetail adds a key-value detail to the error.
// Returns the error for method chaining.
func (e *DepotError) WithDetail(key, value string) *DepotError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// New creates a new DepotError with the given code and message.
// Category and severity are derived from the code.
func New(code string, message string, cause error) *DepotError {
	return &DepotError{
		Code:     code,
		Message:  message,
		Category: categoryFromCode(code),
		Severity: severityFromCode(code),
		Cause:    cause,
	}
}

// Wrap creates a DepotError from an existing error.
// The error's message becomes the DepotError message.
func Wrap(code string, err error) *DepotError {
	if err == nil {
		return nil
	}
	return New(code, err.Error(), err)
}

// ConfigError creates a configuration-related error.
func ConfigError(message string, cause error) *DepotError {
	return New(ErrCodeConfigInvalid, message, cause)
}

// IOError creates an I/O-related error.
func IOError(message string, cause error) *DepotError {
	return New(ErrCodeFileStat, message, cause)
}

// ValidationError creates a validation-related error.
func ValidationError(message string, cause error) *DepotError {
	return New(ErrCodeInvalidInput, message, cause)
}

// InternalError creates an internal error.
func InternalError(message string, cause error) *DepotError {
	return New(ErrCodeInternal, message, cause)
}

// IsFatal checks if an error has fatal severity.
// Fatal errors should abort the current operation.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	if de, ok := err.(*DepotError); ok {
		return de.Severity == SeverityFatal
	}
	return false
}

// GetCode extracts the error code from a DepotError.
// Returns empty string if not a DepotError.
func GetCode(err error) string {
	if de, ok := err.(*DepotError); ok {
		return de.Code
	}
	return ""
}
