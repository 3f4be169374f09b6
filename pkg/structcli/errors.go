package structcli

import (
	clierrors "github.com/conneroisu/structcli/internal/errors"
)

// Error is the error type returned by every structcli operation.
type Error = clierrors.Error

// Sentinel errors for errors.Is. Matching compares the error type and code.
var (
	ErrNotStruct        = &Error{Type: clierrors.ErrorTypeDeclaration, Code: clierrors.ErrCodeNotStruct}
	ErrInvalidTag       = &Error{Type: clierrors.ErrorTypeDeclaration, Code: clierrors.ErrCodeInvalidTag}
	ErrUnknownType      = &Error{Type: clierrors.ErrorTypeDeclaration, Code: clierrors.ErrCodeUnknownType}
	ErrTypeInference    = &Error{Type: clierrors.ErrorTypeInference, Code: clierrors.ErrCodeTypeInference}
	ErrInvalidDefault   = &Error{Type: clierrors.ErrorTypeDeclaration, Code: clierrors.ErrCodeInvalidDefault}
	ErrDuplicateParam   = &Error{Type: clierrors.ErrorTypeRegistration, Code: clierrors.ErrCodeDuplicateParam}
	ErrMissingParameter = &Error{Type: clierrors.ErrorTypeUsage, Code: clierrors.ErrCodeMissingParameter}
	ErrConversion       = &Error{Type: clierrors.ErrorTypeConversion, Code: clierrors.ErrCodeConversion}
	ErrArgs             = &Error{Type: clierrors.ErrorTypeUsage, Code: clierrors.ErrCodeArgs}
)

// IsUsageError reports whether err was caused by the command line rather
// than by the struct declaration.
func IsUsageError(err error) bool {
	return clierrors.IsUsageError(err)
}

// IsDeclarationError reports whether err points at a mistake in a struct
// declaration or its registration, rather than at user input.
func IsDeclarationError(err error) bool {
	return clierrors.IsDeclarationError(err)
}
