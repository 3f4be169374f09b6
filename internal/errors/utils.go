package errors

import (
	"errors"
	"maps"
)

// Wrap wraps an error with additional context, creating an *Error if the
// input is not already one.
func Wrap(err error, errType ErrorType, code, message string) *Error {
	if err == nil {
		return nil
	}

	// Preserve the location of an existing *Error so the outer message
	// still points at the same field.
	var se *Error
	if errors.As(err, &se) {
		return &Error{
			Type:    errType,
			Code:    code,
			Message: message,
			Cause:   se,
			Context: maps.Clone(se.Context),
			Record:  se.Record,
			Field:   se.Field,
			Param:   se.Param,
		}
	}

	return &Error{
		Type:    errType,
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// WrapWithContext wraps an error and adds context entries to those carried
// over from err.
func WrapWithContext(err error, errType ErrorType, code, message string, context map[string]interface{}) *Error {
	wrapped := Wrap(err, errType, code, message)
	if wrapped == nil {
		return nil
	}
	for key, value := range context {
		wrapped.WithContext(key, value)
	}
	return wrapped
}

// WrapConversion wraps an error as a conversion error for a parameter.
func WrapConversion(err error, param, message string) *Error {
	wrapped := Wrap(err, ErrorTypeConversion, ErrCodeConversion, message)
	if wrapped != nil {
		wrapped.Param = param
	}
	return wrapped
}

// WrapInternal wraps an error as an internal error.
func WrapInternal(err error, message string) *Error {
	return Wrap(err, ErrorTypeInternal, ErrCodeInternalError, message)
}
