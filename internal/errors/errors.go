// Package errors provides a lightweight structured error type (HuntError)
// for category-based classification in the HTTP API and CLI surfaces.
package errors

import (
	"fmt"
)

// ErrorCategory represents the category of a Huntboard error for classification
type ErrorCategory string

const (
	// User-facing configuration and input errors
	CategoryConfig     ErrorCategory = "config"
	CategoryValidation ErrorCategory = "validation"

	// External system integration errors
	CategoryNetwork ErrorCategory = "network"
	CategoryStorage ErrorCategory = "storage"

	// Runtime and infrastructure errors
	CategoryRuntime  ErrorCategory = "runtime"
	CategoryInternal ErrorCategory = "internal"
)

// ErrorSeverity indicates how critical an error is
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"   // Stops execution
	SeverityError   ErrorSeverity = "error"   // Error, but not fatal
	SeverityWarning ErrorSeverity = "warning" // Continues with degraded functionality
	SeverityInfo    ErrorSeverity = "info"    // Informational, no impact
)

// HuntError is a structured error with category, severity, and context
type HuntError struct {
	Category ErrorCategory `json:"category"`
	Severity ErrorSeverity `json:"severity"`
	Message  string        `json:"message"`
	Cause    error         `json:"cause,omitempty"`
	Context  ContextFields `json:"context,omitempty"`
}

// ContextFields carries structured context for HuntError
type ContextFields map[string]any

// Error implements the error interface
func (e *HuntError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %s: %v", e.Category, e.Severity, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s (%s): %s", e.Category, e.Severity, e.Message)
}

// Unwrap implements error unwrapping for Go 1.13+ error handling
func (e *HuntError) Unwrap() error {
	return e.Cause
}

// WithContext adds context information to the error
func (e *HuntError) WithContext(key string, value any) *HuntError {
	if e.Context == nil {
		e.Context = make(ContextFields)
	}
	e.Context[key] = value
	return e
}

// New creates a new HuntError
func New(category ErrorCategory, severity ErrorSeverity, message string) *HuntError {
	return &HuntError{
		Category: category,
		Severity: severity,
		Message:  message,
	}
}

// Wrap creates a new HuntError that wraps an existing error
func Wrap(err error, category ErrorCategory, severity ErrorSeverity, message string) *HuntError {
	return &HuntError{
		Category: category,
		Severity: severity,
		Message:  message,
		Cause:    err,
	}
}
