// Package errors provides structured error types for the roaster.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure modes. Structured errors below
// unwrap to these so callers can classify with errors.Is.
var (
	ErrConfig   = errors.New("invalid configuration")
	ErrNotFound = errors.New("entity not found")
	ErrUpstream = errors.New("upstream failure")
	ErrProvider = errors.New("provider failure")
)

// ConfigError reports a missing or invalid credential or argument.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("configuration error: %s: %s", e.Field, e.Reason)
}

func (e *ConfigError) Unwrap() error { return ErrConfig }

// NewConfigError creates a new configuration error.
func NewConfigError(field, reason string) *ConfigError {
	return &ConfigError{Field: field, Reason: reason}
}

// NotFoundError reports that a named user or repository does not exist
// or is inaccessible.
type NotFoundError struct {
	Kind string // "user" or "repository"
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.Name)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// NewNotFoundError creates a new not-found error.
func NewNotFoundError(kind, name string) *NotFoundError {
	return &NotFoundError{Kind: kind, Name: name}
}

// UpstreamError represents a non-404 GitHub-side failure: auth,
// rate limit, or network fault. Never raised for a missing resource.
type UpstreamError struct {
	Operation  string
	StatusCode int
	Message    string
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("github %s failed (status %d): %s: %v", e.Operation, e.StatusCode, e.Message, e.Err)
	}
	return fmt.Sprintf("github %s failed (status %d): %s", e.Operation, e.StatusCode, e.Message)
}

func (e *UpstreamError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrUpstream
}

// Is lets errors.Is(err, ErrUpstream) match even when Err is set.
func (e *UpstreamError) Is(target error) bool { return target == ErrUpstream }

// NewUpstreamError creates a new upstream error.
func NewUpstreamError(operation string, statusCode int, message string, err error) *UpstreamError {
	return &UpstreamError{Operation: operation, StatusCode: statusCode, Message: message, Err: err}
}

// ProviderError represents a failed LLM call: timeout, connection
// failure, non-200 status, or malformed response body.
type ProviderError struct {
	Provider   string
	StatusCode int
	Detail     string
	Err        error
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s provider error (status %d): %s: %v", e.Provider, e.StatusCode, e.Detail, e.Err)
	}
	return fmt.Sprintf("%s provider error (status %d): %s", e.Provider, e.StatusCode, e.Detail)
}

func (e *ProviderError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrProvider
}

// Is lets errors.Is(err, ErrProvider) match even when Err is set.
func (e *ProviderError) Is(target error) bool { return target == ErrProvider }

// NewProviderError creates a new provider error.
func NewProviderError(provider string, statusCode int, detail string) *ProviderError {
	return &ProviderError{Provider: provider, StatusCode: statusCode, Detail: detail}
}
