package errors

import (
	"errors"
)

// Wrap wraps an error with additional context, creating a PatternLabError if
// the input is not already one.
func Wrap(err error, errType ErrorType, code, message string) *PatternLabError {
	if err == nil {
		return nil
	}

	// If it's already a PatternLabError, preserve its location
	var pe *PatternLabError
	if errors.As(err, &pe) {
		return &PatternLabError{
			Type:        errType,
			Code:        code,
			Message:     message,
			Cause:       pe,
			Context:     pe.Context,
			Pattern:     pe.Pattern,
			FilePath:    pe.FilePath,
			Recoverable: pe.Recoverable,
		}
	}

	return &PatternLabError{
		Type:        errType,
		Code:        code,
		Message:     message,
		Cause:       err,
		Recoverable: errType == ErrorTypeValidation || errType == ErrorTypeRender,
	}
}

// WrapIO wraps an error as an I/O error
func WrapIO(err error, code, message string) *PatternLabError {
	pe := Wrap(err, ErrorTypeIO, code, message)
	if pe != nil {
		pe.Recoverable = false
	}
	return pe
}

// WrapConfig wraps an error as a configuration error
func WrapConfig(err error, code, message string) *PatternLabError {
	pe := Wrap(err, ErrorTypeConfig, code, message)
	if pe != nil {
		pe.Recoverable = false
	}
	return pe
}

// FormatError formats an error for user display. Pattern lookups that
// carry suggestions list them below the message.
func FormatError(err error) string {
	if err == nil {
		return ""
	}

	var se *SuggestedError
	if errors.As(err, &se) {
		return se.Error()
	}

	return err.Error()
}
