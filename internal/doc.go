// Package internal contains the supporting packages for structcli.
//
// This package follows Go's internal package convention, making these
// packages unavailable for import by external modules while providing
// the ambient infrastructure shared by the library and the CLI.
//
// # Package Organization
//
//   - errors: Typed errors with categories, codes and "did you mean" hints
//   - logging: Structured logging on log/slog with context-aware fields
//   - version: Build information from ldflags and the embedded build info
//
// # Inter-Package Communication
//
// The public structcli package reports every failure as an *errors.Error,
// so callers can branch on the category (declaration, inference,
// registration, usage, conversion) with errors.Is. Bindings log through
// the logging.Logger they are given, and discard everything by default.
//
// # Testing Strategy
//
//   - Unit tests with testify for individual functions and methods
//   - Property tests with gopter behind the "property" build tag
//
// For detailed documentation, see the individual package documentation.
package internal
