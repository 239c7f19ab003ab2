// Package errors provides custom error types for the envinject system.
// These errors let callers tell fatal I/O and manifest failures apart
// programmatically while keeping descriptive messages for the CLI.
package errors

import (
	"errors"
	"fmt"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Is and As are aliases for the standard library functions so callers
// need only one errors import.
var (
	Is = errors.Is
	As = errors.As
)

// Common sentinel errors for the envinject system
var (
	// ErrNotFound indicates that a requested file or resource was not found
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates that provided input was invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotAFile indicates that a path exists but is not a regular file
	ErrNotAFile = errors.New("path is not a file")

	// ErrAccessDenied indicates that the current user cannot read a path
	ErrAccessDenied = errors.New("access denied")

	// ErrContainersMissing indicates a manifest without a containers field
	ErrContainersMissing = errors.New("containers field is missing")

	// ErrContainerNotFound indicates that no container uses the requested image
	ErrContainerNotFound = errors.New("container image not found")
)

// NotFoundError represents an error when a resource is not found
type NotFoundError struct {
	Resource string
	ID       string
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// Is implements errors.Is support
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// ValidationError represents a validation failure
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// Is implements errors.Is support
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field string, value any, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// ConfigError represents a configuration error
type ConfigError struct {
	Component string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	if e.Component != "" {
		return fmt.Sprintf("configuration error in %s: %s", e.Component, e.Message)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new ConfigError
func NewConfigError(component, message string, err error) *ConfigError {
	return &ConfigError{
		Component: component,
		Message:   message,
		Err:       err,
	}
}

// ParseError represents an error when parsing data formats
type ParseError struct {
	Format  string // "yaml", "env", "properties"
	File    string
	Line    int
	Message string
	Err     error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	if e.File != "" && e.Line > 0 {
		return fmt.Sprintf("parse error in %s at %s:%d: %s", e.Format, e.File, e.Line, e.Message)
	}
	if e.File != "" {
		return fmt.Sprintf("parse error in %s file %s: %s", e.Format, e.File, e.Message)
	}
	return fmt.Sprintf("%s parse error: %s", e.Format, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ParseError) Unwrap() error {
	return e.Err
}

// NewParseError creates a new ParseError
func NewParseError(format, file string, message string, err error) *ParseError {
	return &ParseError{
		Format:  format,
		File:    file,
		Message: message,
		Err:     err,
	}
}

// IOError represents an error during I/O operations
type IOError struct {
	Operation string // "read", "write", "rename", "stat"
	Path      string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("IO error during %s of %s: %s", e.Operation, e.Path, e.Message)
	}
	return fmt.Sprintf("IO error during %s: %s", e.Operation, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *IOError) Unwrap() error {
	return e.Err
}

// NewIOError creates a new IOError
func NewIOError(operation, path string, err error) *IOError {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &IOError{
		Operation: operation,
		Path:      path,
		Message:   message,
		Err:       err,
	}
}

// ManifestError represents a structural problem with a deployment manifest.
// Err is one of the manifest sentinels (ErrNotFound, ErrNotAFile,
// ErrAccessDenied, ErrContainersMissing, ErrContainerNotFound) or a
// wrapped decode failure.
type ManifestError struct {
	Path    string
	Image   string
	Message string
	Err     error
}

// Error implements the error interface
func (e *ManifestError) Error() string {
	if e.Image != "" {
		return fmt.Sprintf("manifest %s (image %s): %s", e.Path, e.Image, e.Message)
	}
	return fmt.Sprintf("manifest %s: %s", e.Path, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ManifestError) Unwrap() error {
	return e.Err
}

// NewManifestError creates a new ManifestError
func NewManifestError(path, image, message string, err error) *ManifestError {
	return &ManifestError{
		Path:    path,
		Image:   image,
		Message: message,
		Err:     err,
	}
}

// Helper functions for error checking

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsNotAFile checks if an error reports a path that is not a regular file
func IsNotAFile(err error) bool {
	return errors.Is(err, ErrNotAFile)
}

// IsAccessDenied checks if an error is a permission failure
func IsAccessDenied(err error) bool {
	return errors.Is(err, ErrAccessDenied)
}

// IsManifestError checks if an error came from manifest loading
func IsManifestError(err error) bool {
	var me *ManifestError
	return errors.As(err, &me)
}

// Helper wrapping functions for common patterns

// WrapValidation wraps an error as a ValidationError
func WrapValidation(field string, err error) error {
	if err == nil {
		return nil
	}
	return &ValidationError{Field: field, Message: err.Error()}
}

// WrapIO wraps an error as an IOError
func WrapIO(operation, path string, err error) error {
	if err == nil {
		return nil
	}
	return NewIOError(operation, path, err)
}

// WrapParse wraps an error as a ParseError
func WrapParse(format, file string, err error) error {
	if err == nil {
		return nil
	}
	return NewParseError(format, file, err.Error(), err)
}
