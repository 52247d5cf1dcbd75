// Package errors provides the typed, wrapped error values used across the
// zone-file parsing pipeline and its CLI/config/MCP collaborators.
package errors

import (
	"fmt"
	"time"
)

// Error types for the zone-file parsing system.
type ErrorType string

const (
	// Lexical/semantic parse errors.
	ErrorTypeSyntax    ErrorType = "syntax"
	ErrorTypeSemantic  ErrorType = "semantic"
	ErrorTypeDirective ErrorType = "directive"

	// File errors.
	ErrorTypeFileNotFound ErrorType = "file_not_found"
	ErrorTypePermission   ErrorType = "permission"

	// Configuration errors.
	ErrorTypeConfig ErrorType = "config"

	// Internal errors.
	ErrorTypeInternal ErrorType = "internal"
)

// ParseError represents a lexical or semantic error at a specific
// file/line/column. Recoverable marks whether the parser may skip the
// offending record and resynchronize rather than unwind (spec §7).
type ParseError struct {
	Type        ErrorType
	File        string
	Line        int
	Column      int
	Token       string
	Underlying  error
	Timestamp   time.Time
	Recoverable bool
}

// NewParseError creates a new parse error with context.
func NewParseError(typ ErrorType, file string, line, column int, token string, err error) *ParseError {
	return &ParseError{
		Type:       typ,
		File:       file,
		Line:       line,
		Column:     column,
		Token:      token,
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

// WithRecoverable marks the error as recoverable.
func (e *ParseError) WithRecoverable(recoverable bool) *ParseError {
	e.Recoverable = recoverable
	return e
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("%s: %s error at %d:%d (near %q): %v", e.File, e.Type, e.Line, e.Column, e.Token, e.Underlying)
	}
	return fmt.Sprintf("%s error at %d:%d (near %q): %v", e.Type, e.Line, e.Column, e.Token, e.Underlying)
}

// Unwrap returns the underlying error for errors.Is/As.
func (e *ParseError) Unwrap() error {
	return e.Underlying
}

// IsRecoverable reports whether the parser may skip this record and continue.
func (e *ParseError) IsRecoverable() bool {
	return e.Recoverable
}

// DirectiveError represents a failure processing $ORIGIN/$TTL/$INCLUDE/$GENERATE.
type DirectiveError struct {
	Directive  string
	File       string
	Line       int
	Underlying error
	Timestamp  time.Time
}

// NewDirectiveError creates a new directive error.
func NewDirectiveError(directive, file string, line int, err error) *DirectiveError {
	return &DirectiveError{
		Directive:  directive,
		File:       file,
		Line:       line,
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

// Error implements the error interface.
func (e *DirectiveError) Error() string {
	return fmt.Sprintf("%s: %s directive failed at line %d: %v", e.File, e.Directive, e.Line, e.Underlying)
}

// Unwrap returns the underlying error.
func (e *DirectiveError) Unwrap() error {
	return e.Underlying
}

// FileError represents a failure opening or reading an input file,
// including a file in the $INCLUDE chain.
type FileError struct {
	Type       ErrorType
	Path       string
	Operation  string
	Underlying error
	Timestamp  time.Time
}

// NewFileError creates a new file error, classifying permission failures.
func NewFileError(op, path string, err error) *FileError {
	errorType := ErrorTypeFileNotFound
	if isPermissionError(err) {
		errorType = ErrorTypePermission
	}
	return &FileError{
		Type:       errorType,
		Path:       path,
		Operation:  op,
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

// isPermissionError checks if the error is a permission error.
func isPermissionError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return errStr == "permission denied" || errStr == "access denied"
}

// Error implements the error interface.
func (e *FileError) Error() string {
	return fmt.Sprintf("file %s failed for %s: %v", e.Operation, e.Path, e.Underlying)
}

// Unwrap returns the underlying error.
func (e *FileError) Unwrap() error {
	return e.Underlying
}

// ConfigError represents an invalid Options/config value (BAD_PARAMETER).
type ConfigError struct {
	Field      string
	Value      string
	Underlying error
	Timestamp  time.Time
}

// NewConfigError creates a new config error.
func NewConfigError(field, value string, err error) *ConfigError {
	return &ConfigError{
		Field:      field,
		Value:      value,
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error for field %s (value %s): %v", e.Field, e.Value, e.Underlying)
}

// Unwrap returns the underlying error.
func (e *ConfigError) Unwrap() error {
	return e.Underlying
}

// MultiError aggregates multiple independent errors, e.g. from a
// multi-file CLI run where each file fails independently.
type MultiError struct {
	Errors []error
}

// NewMultiError creates a new multi-error, filtering out nils.
func NewMultiError(errs []error) *MultiError {
	filtered := make([]error, 0, len(errs))
	for _, err := range errs {
		if err != nil {
			filtered = append(filtered, err)
		}
	}
	return &MultiError{Errors: filtered}
}

// Error implements the error interface.
func (e *MultiError) Error() string {
	switch len(e.Errors) {
	case 0:
		return "no errors"
	case 1:
		return e.Errors[0].Error()
	default:
		return fmt.Sprintf("%d errors: %v", len(e.Errors), e.Errors)
	}
}

// Unwrap returns all aggregated errors (Go 1.20+ multi-unwrap).
func (e *MultiError) Unwrap() []error {
	return e.Errors
}
