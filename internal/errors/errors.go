package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorType represents different categories of errors
type ErrorType string

const (
	ErrorTypeInvalidConfig ErrorType = "invalid_config"
	ErrorTypeFetch         ErrorType = "fetch"
	ErrorTypeRender        ErrorType = "render"
	ErrorTypePageOCR       ErrorType = "page_ocr"
	ErrorTypeWrite         ErrorType = "write"
	ErrorTypeInternal      ErrorType = "internal"
)

// AppError represents a structured application error
type AppError struct {
	Type     ErrorType `json:"type"`
	Message  string    `json:"message"`
	Details  string    `json:"details,omitempty"`
	ExitCode int       `json:"exit_code"`
	Cause    error     `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// NewInvalidConfigError creates a configuration error. Configuration errors
// fail fast, before any rendering or OCR work starts.
func NewInvalidConfigError(message string, cause error) *AppError {
	return &AppError{
		Type:     ErrorTypeInvalidConfig,
		Message:  message,
		ExitCode: 2,
		Cause:    cause,
	}
}

// NewFetchError creates an input-source error. Like render errors these are
// fatal to the whole job.
func NewFetchError(message string, cause error) *AppError {
	return &AppError{
		Type:     ErrorTypeFetch,
		Message:  message,
		ExitCode: 1,
		Cause:    cause,
	}
}

// NewRenderError creates a render error. The document could not be converted
// to page images at all; no partial results exist.
func NewRenderError(message string, cause error) *AppError {
	return &AppError{
		Type:     ErrorTypeRender,
		Message:  message,
		ExitCode: 1,
		Cause:    cause,
	}
}

// NewPageOCRError creates a per-page OCR error. These are recovered locally
// into the page's result and never surface to the caller as an error value.
func NewPageOCRError(message string, cause error) *AppError {
	return &AppError{
		Type:     ErrorTypePageOCR,
		Message:  message,
		ExitCode: 1,
		Cause:    cause,
	}
}

// NewWriteError creates a persistence error. The computed text is still held
// in memory and remains available to the caller.
func NewWriteError(message string, cause error) *AppError {
	return &AppError{
		Type:     ErrorTypeWrite,
		Message:  message,
		ExitCode: 1,
		Cause:    cause,
	}
}

// NewInternalError creates an unexpected internal error
func NewInternalError(message string, cause error) *AppError {
	return &AppError{
		Type:     ErrorTypeInternal,
		Message:  message,
		ExitCode: 1,
		Cause:    cause,
	}
}

// IsType checks if the error, or any error it wraps, is of a specific type
func IsType(err error, errorType ErrorType) bool {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Type == errorType
	}
	return false
}

// ExitCode extracts the process exit code from an error
func ExitCode(err error) int {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.ExitCode
	}
	return 1
}
