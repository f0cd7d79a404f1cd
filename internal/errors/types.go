// Package errors defines the structured error type used across the pattern
// compiler and helpers to classify and collect errors.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorType represents different categories of errors.
type ErrorType string

const (
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeIO         ErrorType = "io"
	ErrorTypeConfig     ErrorType = "config"
	ErrorTypeRender     ErrorType = "render"
	ErrorTypeInternal   ErrorType = "internal"
)

// PatternLabError is a structured error type with context.
type PatternLabError struct {
	Type        ErrorType
	Code        string
	Message     string
	Cause       error
	Context     map[string]interface{}
	Pattern     string
	FilePath    string
	Recoverable bool
}

// Error implements the error interface.
func (e *PatternLabError) Error() string {
	var parts []string

	if e.Code != "" {
		parts = append(parts, fmt.Sprintf("[%s]", e.Code))
	}
	if e.Pattern != "" {
		parts = append(parts, "pattern:"+e.Pattern)
	}
	if e.FilePath != "" {
		parts = append(parts, e.FilePath)
	}

	parts = append(parts, e.Message)
	result := strings.Join(parts, " ")

	if e.Cause != nil {
		result += fmt.Sprintf(": %v", e.Cause)
	}

	return result
}

// Unwrap returns the underlying cause error.
func (e *PatternLabError) Unwrap() error {
	return e.Cause
}

// Is matches errors of the same type and code.
func (e *PatternLabError) Is(target error) bool {
	var t *PatternLabError
	if errors.As(target, &t) {
		return e.Type == t.Type && e.Code == t.Code
	}
	return false
}

// WithContext adds context information to the error.
func (e *PatternLabError) WithContext(key string, value interface{}) *PatternLabError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// WithPattern records the partial of the pattern involved.
func (e *PatternLabError) WithPattern(partial string) *PatternLabError {
	e.Pattern = partial
	return e
}

// WithFile records the file involved.
func (e *PatternLabError) WithFile(path string) *PatternLabError {
	e.FilePath = path
	return e
}

// Common error codes.
const (
	ErrCodeConfigUnreadable = "ERR_CONFIG_UNREADABLE"
	ErrCodeConfigInvalid    = "ERR_CONFIG_INVALID"
	ErrCodePatternNotFound  = "ERR_PATTERN_NOT_FOUND"
	ErrCodeDataNotFound     = "ERR_DATA_NOT_FOUND"
	ErrCodeRenderFailed     = "ERR_RENDER_FAILED"
	ErrCodeWriteFailed      = "ERR_WRITE_FAILED"
	ErrCodeInternalError    = "ERR_INTERNAL"
)

// NewValidationError creates a validation error.
func NewValidationError(code, message string) *PatternLabError {
	return &PatternLabError{
		Type:        ErrorTypeValidation,
		Code:        code,
		Message:     message,
		Recoverable: true,
	}
}

// NewIOError creates an I/O error.
func NewIOError(code, message string, cause error) *PatternLabError {
	return &PatternLabError{
		Type:        ErrorTypeIO,
		Code:        code,
		Message:     message,
		Cause:       cause,
		Recoverable: false,
	}
}

// NewConfigError creates a configuration error.
func NewConfigError(code, message string, cause error) *PatternLabError {
	return &PatternLabError{
		Type:        ErrorTypeConfig,
		Code:        code,
		Message:     message,
		Cause:       cause,
		Recoverable: false,
	}
}

// NewRenderError creates a render error. Render errors are recoverable: an
// export continues with the remaining patterns.
func NewRenderError(code, message string, cause error) *PatternLabError {
	return &PatternLabError{
		Type:        ErrorTypeRender,
		Code:        code,
		Message:     message,
		Cause:       cause,
		Recoverable: true,
	}
}

// NewInternalError creates an internal error.
func NewInternalError(code, message string, cause error) *PatternLabError {
	return &PatternLabError{
		Type:        ErrorTypeInternal,
		Code:        code,
		Message:     message,
		Cause:       cause,
		Recoverable: false,
	}
}

// IsRecoverable checks if an error is recoverable.
func IsRecoverable(err error) bool {
	var pe *PatternLabError
	if errors.As(err, &pe) {
		return pe.Recoverable
	}
	return false
}

// IsConfigError checks if an error is configuration related.
func IsConfigError(err error) bool {
	var pe *PatternLabError
	if errors.As(err, &pe) {
		return pe.Type == ErrorTypeConfig
	}
	return false
}

// ErrConfigUnreadable reports a settings file that could not be read.
func ErrConfigUnreadable(path string, cause error) *PatternLabError {
	return NewConfigError(ErrCodeConfigUnreadable, "cannot read config", cause).WithFile(path)
}

// ErrPatternNotFound reports a lookup that matched nothing.
func ErrPatternNotFound(term string) *PatternLabError {
	return NewValidationError(ErrCodePatternNotFound, "pattern not found: "+term)
}

// ErrRenderFailed reports a pattern that could not be rendered.
func ErrRenderFailed(partial string, cause error) *PatternLabError {
	return NewRenderError(ErrCodeRenderFailed, "render failed", cause).WithPattern(partial)
}
