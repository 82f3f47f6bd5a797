package config

import (
	"errors"
	"fmt"
)

// Errors returned by configuration operations.
var (
	// ErrFileNotFound indicates an explicitly named config file doesn't exist.
	ErrFileNotFound = errors.New("config file not found")

	// ErrValidationFailed indicates a setting holds an unusable value.
	ErrValidationFailed = errors.New("validation failed")
)

// ParseError represents an error while reading a configuration file.
type ParseError struct {
	Path string
	Err  error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error in %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// ValidationError describes a validation failure for a setting.
type ValidationError struct {
	// Path is the setting key, e.g. "log.level".
	Path    string
	Message string
	Value   any
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (value: %v)", e.Path, e.Message, e.Value)
}

// Is reports whether target is ErrValidationFailed.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidationFailed
}
