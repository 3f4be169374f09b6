package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorType represents different categories of errors.
type ErrorType string

const (
	ErrorTypeDeclaration  ErrorType = "declaration"
	ErrorTypeInference    ErrorType = "inference"
	ErrorTypeRegistration ErrorType = "registration"
	ErrorTypeUsage        ErrorType = "usage"
	ErrorTypeConversion   ErrorType = "conversion"
	ErrorTypeConfig       ErrorType = "config"
	ErrorTypeInternal     ErrorType = "internal"
)

// Common error codes.
const (
	ErrCodeNotStruct        = "ERR_NOT_STRUCT"
	ErrCodeInvalidTag       = "ERR_INVALID_TAG"
	ErrCodeTypeInference    = "ERR_TYPE_INFERENCE"
	ErrCodeUnknownType      = "ERR_UNKNOWN_TYPE"
	ErrCodeInvalidDefault   = "ERR_INVALID_DEFAULT"
	ErrCodeDuplicateParam   = "ERR_DUPLICATE_PARAM"
	ErrCodeMissingParameter = "ERR_MISSING_PARAMETER"
	ErrCodeConversion       = "ERR_CONVERSION"
	ErrCodeArgs             = "ERR_ARGS"
	ErrCodeInternalError    = "ERR_INTERNAL"
)

// Error is a structured error carrying the record field and CLI parameter
// it is about.
type Error struct {
	Type        ErrorType
	Code        string
	Message     string
	Cause       error
	Context     map[string]interface{}
	Record      string
	Field       string
	Param       string
	Suggestions []string
}

// Error implements the error interface.
func (e *Error) Error() string {
	var parts []string

	switch {
	case e.Record != "" && e.Field != "":
		parts = append(parts, e.Record+"."+e.Field+":")
	case e.Field != "":
		parts = append(parts, e.Field+":")
	}

	parts = append(parts, e.Message)

	result := strings.Join(parts, " ")

	if e.Cause != nil {
		result += fmt.Sprintf(": %v", e.Cause)
	}

	if len(e.Suggestions) > 0 {
		result += fmt.Sprintf(" (did you mean %s?)", strings.Join(quoteAll(e.Suggestions), " or "))
	}

	return result
}

// Unwrap returns the underlying cause error.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is implements error comparison.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Type == t.Type && e.Code == t.Code
	}

	return false
}

// WithContext adds context information to the error.
func (e *Error) WithContext(key string, value interface{}) *Error {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value

	return e
}

// WithField records which struct field the error is about.
func (e *Error) WithField(record, field string) *Error {
	e.Record = record
	e.Field = field

	return e
}

// WithParam records the CLI parameter the error is about.
func (e *Error) WithParam(param string) *Error {
	e.Param = param

	return e
}

// WithSuggestions attaches "did you mean" candidates.
func (e *Error) WithSuggestions(suggestions ...string) *Error {
	e.Suggestions = suggestions

	return e
}

// Error creation functions

// NewDeclarationError creates an error for a malformed struct declaration.
func NewDeclarationError(code, message string) *Error {
	return &Error{
		Type:    ErrorTypeDeclaration,
		Code:    code,
		Message: message,
	}
}

// NewInferenceError creates a type inference error.
func NewInferenceError(code, message string) *Error {
	return &Error{
		Type:    ErrorTypeInference,
		Code:    code,
		Message: message,
	}
}

// NewRegistrationError creates an error raised while registering
// parameters with a command.
func NewRegistrationError(code, message string, cause error) *Error {
	return &Error{
		Type:    ErrorTypeRegistration,
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// NewUsageError creates an error caused by the command line itself.
func NewUsageError(code, message string) *Error {
	return &Error{
		Type:    ErrorTypeUsage,
		Code:    code,
		Message: message,
	}
}

// NewConversionError creates a value conversion error.
func NewConversionError(code, message string, cause error) *Error {
	return &Error{
		Type:    ErrorTypeConversion,
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// NewInternalError creates an internal error.
func NewInternalError(code, message string, cause error) *Error {
	return &Error{
		Type:    ErrorTypeInternal,
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// IsUsageError checks if an error was caused by the command line input
// rather than by the struct declaration.
func IsUsageError(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Type == ErrorTypeUsage || e.Type == ErrorTypeConversion
	}

	return false
}

// IsDeclarationError checks if an error points at a programming mistake in
// a struct declaration.
func IsDeclarationError(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		switch e.Type {
		case ErrorTypeDeclaration, ErrorTypeInference, ErrorTypeRegistration:
			return true
		}
	}

	return false
}

func quoteAll(values []string) []string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = fmt.Sprintf("%q", v)
	}
	return quoted
}
