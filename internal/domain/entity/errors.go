// Package entity defines the domain types of the report flow: languages,
// chunks, summaries, messages and history records, plus the domain errors.
package entity

import (
	"errors"
	"fmt"
)

// Sentinel errors for domain layer operations.
var (
	// ErrNotFound indicates that a requested entity was not found
	ErrNotFound = errors.New("entity not found")

	// ErrInvalidInput indicates that the provided input is invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrNoModelsAvailable indicates that capability discovery returned no model
	// able to generate content.
	ErrNoModelsAvailable = errors.New("no generation models available")

	// ErrInvalidChunkConfig indicates a chunk size/overlap pair that can never
	// advance (overlap >= max chars, or a non-positive max).
	ErrInvalidChunkConfig = errors.New("invalid chunk configuration")

	// ErrEmptyResponse indicates that a backend answered successfully but
	// carried no text.
	ErrEmptyResponse = errors.New("backend returned empty response")

	// ErrChannelDisabled indicates that a delivery channel was selected but is
	// not configured.
	ErrChannelDisabled = errors.New("channel is disabled")

	// ErrUnsupportedSource indicates an input source whose type cannot be read.
	ErrUnsupportedSource = errors.New("unsupported source")

	// ErrExtractionFailed wraps failures while reading text out of a source.
	ErrExtractionFailed = errors.New("text extraction failed")
)

// ValidationError represents a validation error with detailed field information.
// It implements the error interface and provides context about which field failed validation.
type ValidationError struct {
	Field   string
	Message string
}

// Error returns a formatted error message for the validation error.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}

// Unwrap lets callers match any ValidationError with errors.Is(err, ErrInvalidInput).
func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

// ConfigurationError reports a missing or unusable setting. It is raised
// before any network call is made.
type ConfigurationError struct {
	Key     string
	Message string
	Err     error
}

func (e *ConfigurationError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("configuration error: missing %s", e.Key)
	}
	return fmt.Sprintf("configuration error on %s: %s", e.Key, e.Message)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// BackendError is a non-success answer from a generation, discovery or
// delivery API. StatusCode is the HTTP status (or the API's own error code).
type BackendError struct {
	Backend    string
	StatusCode int
	Message    string
	Err        error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("%s error %d: %s", e.Backend, e.StatusCode, e.Message)
}

func (e *BackendError) Unwrap() error {
	return e.Err
}

// IsConfigurationError reports whether err carries a ConfigurationError.
func IsConfigurationError(err error) bool {
	var cfgErr *ConfigurationError
	return errors.As(err, &cfgErr)
}

// IsBackendError reports whether err carries a BackendError.
func IsBackendError(err error) bool {
	var backendErr *BackendError
	return errors.As(err, &backendErr)
}

// IsClientError reports whether err is a BackendError with a 4xx status other
// than 429. Such errors are caused by the request itself (bad key, unknown
// model, bad recipient), not by the backend's health.
func IsClientError(err error) bool {
	var backendErr *BackendError
	if !errors.As(err, &backendErr) {
		return false
	}
	return backendErr.StatusCode >= 400 && backendErr.StatusCode < 500 && backendErr.StatusCode != 429
}
