// Package errors provides error handling utilities.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Type identifies the category of error
type Type string

const (
	// TypeOutOfRange indicates a nominal size outside (0, 500] mm
	TypeOutOfRange Type = "OUT_OF_RANGE"

	// TypeInvalidFormat indicates a grade string that is not letters followed by digits
	TypeInvalidFormat Type = "INVALID_FORMAT"

	// TypeUnsupportedGrade indicates an IT grade number outside the supported set
	TypeUnsupportedGrade Type = "UNSUPPORTED_GRADE"

	// TypeUnsupportedLetter indicates a deviation letter outside the supported set
	TypeUnsupportedLetter Type = "UNSUPPORTED_LETTER"

	// TypeMissingGrade indicates fit mode was requested without a shaft grade
	TypeMissingGrade Type = "MISSING_GRADE"

	// TypeInput indicates an input validation error
	TypeInput Type = "INPUT_ERROR"

	// TypeParsing indicates a parsing error
	TypeParsing Type = "PARSING_ERROR"

	// TypeConfig indicates a configuration error
	TypeConfig Type = "CONFIG_ERROR"

	// TypeInternal indicates an internal error
	TypeInternal Type = "INTERNAL_ERROR"
)

// Error represents a domain error with context
type Error struct {
	Type    Type                   `json:"type"`
	Message string                 `json:"message"`
	Cause   error                  `json:"-"`
	Context map[string]interface{} `json:"context,omitempty"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is checks if the error is of a specific type
func (e *Error) Is(t Type) bool {
	return e.Type == t
}

// Field returns the input field recorded in the error context, if any
func (e *Error) Field() string {
	if e.Context == nil {
		return ""
	}
	field, _ := e.Context["field"].(string)
	return field
}

// WithContext adds context to the error
func (e *Error) WithContext(key string, value interface{}) *Error {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// WithField records which input field and value failed
func (e *Error) WithField(field string, value interface{}) *Error {
	return e.WithContext("field", field).WithContext("value", value)
}

// New creates a new error
func New(errType Type, message string) *Error {
	return &Error{
		Type:    errType,
		Message: message,
	}
}

// Newf creates a new formatted error
func Newf(errType Type, format string, args ...interface{}) *Error {
	return &Error{
		Type:    errType,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap wraps an error with context
func Wrap(errType Type, message string, cause error) *Error {
	return &Error{
		Type:    errType,
		Message: message,
		Cause:   cause,
	}
}

// Wrapf wraps an error with formatted context
func Wrapf(errType Type, cause error, format string, args ...interface{}) *Error {
	return &Error{
		Type:    errType,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// As finds the first *Error in err's chain
func As(err error) (*Error, bool) {
	var e *Error
	if stderrors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// IsType checks if an error, or any error it wraps, is of a specific type
func IsType(err error, t Type) bool {
	if e, ok := As(err); ok {
		return e.Type == t
	}
	return false
}

// TypeOf returns the type of the first *Error in err's chain, or TypeInternal
func TypeOf(err error) Type {
	if e, ok := As(err); ok {
		return e.Type
	}
	return TypeInternal
}

// OutOfRange creates an out-of-range error for a nominal size
func OutOfRange(nominal string) *Error {
	return Newf(TypeOutOfRange, "nominal size %s mm is outside supported range (0-500 mm)", nominal).
		WithField("nominal", nominal)
}

// InvalidFormat creates an invalid grade format error
func InvalidFormat(code string) *Error {
	return Newf(TypeInvalidFormat, "invalid grade format %q, expected letters followed by a number (e.g. H7, g6)", code).
		WithContext("value", code)
}

// UnsupportedGrade creates an unsupported IT grade error
func UnsupportedGrade(number string) *Error {
	return Newf(TypeUnsupportedGrade, "unsupported IT grade %s, supported: 5-11", number).
		WithContext("value", number)
}

// UnsupportedLetter creates an unsupported deviation letter error
func UnsupportedLetter(role, letter string) *Error {
	return Newf(TypeUnsupportedLetter, "unsupported %s deviation %q", role, letter).
		WithContext("value", letter).
		WithContext("role", role)
}

// MissingGrade creates a missing grade error for the named field
func MissingGrade(field string) *Error {
	return Newf(TypeMissingGrade, "%s is required in fit mode", field).
		WithContext("field", field)
}

// Input creates an input error
func Input(message string) *Error {
	return New(TypeInput, message)
}

// Parsing creates a parsing error
func Parsing(message string, cause error) *Error {
	return Wrap(TypeParsing, message, cause)
}

// Config creates a configuration error
func Config(message string, cause error) *Error {
	return Wrap(TypeConfig, message, cause)
}

// Internal creates an internal error
func Internal(message string, cause error) *Error {
	return Wrap(TypeInternal, message, cause)
}
