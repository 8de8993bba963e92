// Package errors provides the error kinds surfaced by the dremio client.
// Every failure the catalog tree, the REST gateway or the job runner
// reports can be classified with errors.Is against one of the sentinels
// below, so callers can tell a missing remote entity apart from a missing
// local child, or a bad token from a permission problem.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Is, As and Join are re-exported so callers only need one errors import.
var (
	Is   = errors.Is
	As   = errors.As
	Join = errors.Join
)

// Sentinel error kinds.
var (
	// ErrUnauthorized indicates a missing, bad or expired token.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrPermissionDenied indicates a valid token without sufficient rights.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrNotFound indicates the remote entity or path does not exist.
	ErrNotFound = errors.New("not found")

	// ErrBadRequest indicates a malformed operation, e.g. tagging an entity
	// kind that does not support tags.
	ErrBadRequest = errors.New("bad request")

	// ErrUnsupported indicates an item the entity factory could not classify.
	ErrUnsupported = errors.New("unsupported entity kind")

	// ErrUnknown is the catch-all for any other transport or protocol failure.
	ErrUnknown = errors.New("unknown error")

	// ErrNoSuchChild indicates a local catalog lookup that did not resolve,
	// even after the node was expanded.
	ErrNoSuchChild = errors.New("no such child")

	// ErrPathNotFound indicates an intermediate path component is missing
	// while inserting a node by path.
	ErrPathNotFound = errors.New("path not found")

	// ErrJobFailed indicates a SQL job reached the FAILED or CANCELED state.
	ErrJobFailed = errors.New("job failed")

	// ErrInvalidInput indicates that provided input was invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrTimeout indicates that an operation timed out
	ErrTimeout = errors.New("operation timed out")

	// ErrCanceled indicates that an operation was canceled
	ErrCanceled = errors.New("operation canceled")

	// ErrNotImplemented indicates a transport that is not configured or available
	ErrNotImplemented = errors.New("not implemented")
)

// APIError is a non-2xx response from the coordinator.
type APIError struct {
	StatusCode int
	Method     string
	Endpoint   string
	Message    string
	Err        error
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Endpoint, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s %s: %s", e.Method, e.Endpoint, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *APIError) Unwrap() error {
	return e.Err
}

// Is maps the status code onto the sentinel kinds.
func (e *APIError) Is(target error) bool {
	return target == kindForStatus(e.StatusCode)
}

func kindForStatus(code int) error {
	switch code {
	case http.StatusBadRequest:
		return ErrBadRequest
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusForbidden:
		return ErrPermissionDenied
	case http.StatusNotFound:
		return ErrNotFound
	default:
		return ErrUnknown
	}
}

// NewAPIError creates a new APIError
func NewAPIError(method, endpoint string, statusCode int, message string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		Method:     method,
		Endpoint:   endpoint,
		Message:    message,
	}
}

// UnsupportedEntityError is returned by the entity factory for items that
// carry none of the recognised classification fields.
type UnsupportedEntityError struct {
	Type          string
	ContainerType string
	EntityType    string
}

// Error implements the error interface
func (e *UnsupportedEntityError) Error() string {
	return fmt.Sprintf("unsupported entity kind (type=%q containerType=%q entityType=%q)",
		e.Type, e.ContainerType, e.EntityType)
}

// Is implements errors.Is support
func (e *UnsupportedEntityError) Is(target error) bool {
	return target == ErrUnsupported
}

// LookupError is a local child lookup miss.
type LookupError struct {
	Parent string
	Name   string
}

// Error implements the error interface
func (e *LookupError) Error() string {
	if e.Parent != "" {
		return fmt.Sprintf("no child %q under %s", e.Name, e.Parent)
	}
	return fmt.Sprintf("no child %q", e.Name)
}

// Is implements errors.Is support
func (e *LookupError) Is(target error) bool {
	return target == ErrNoSuchChild
}

// NewLookupError creates a new LookupError
func NewLookupError(parent, name string) *LookupError {
	return &LookupError{Parent: parent, Name: name}
}

// PathNotFoundError reports the first missing component of a path.
type PathNotFoundError struct {
	Path    []string
	Missing string
}

// Error implements the error interface
func (e *PathNotFoundError) Error() string {
	return fmt.Sprintf("path %v: component %q not found", e.Path, e.Missing)
}

// Is implements errors.Is support
func (e *PathNotFoundError) Is(target error) bool {
	return target == ErrPathNotFound
}

// JobError describes a job that ended in a failed terminal state.
type JobError struct {
	JobID   string
	State   string
	Message string
}

// Error implements the error interface
func (e *JobError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("job %s ended in state %s: %s", e.JobID, e.State, e.Message)
	}
	return fmt.Sprintf("job %s ended in state %s", e.JobID, e.State)
}

// Is implements errors.Is support
func (e *JobError) Is(target error) bool {
	return target == ErrJobFailed
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

// AuthenticationError represents a failed login.
type AuthenticationError struct {
	Method  string // "basic", "token", "pat"
	Message string
	Err     error
}

// Error implements the error interface
func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("authentication error (%s): %s", e.Method, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *AuthenticationError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *AuthenticationError) Is(target error) bool {
	return target == ErrUnauthorized
}

// ParseError represents an error when decoding a response body
type ParseError struct {
	Format  string
	Source  string
	Message string
	Err     error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("%s parse error in %s: %s", e.Format, e.Source, e.Message)
	}
	return fmt.Sprintf("%s parse error: %s", e.Format, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ParseError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *ParseError) Is(target error) bool {
	return target == ErrUnknown
}

// ResourceError represents an error during a catalog or job operation
type ResourceError struct {
	Operation string // "fetch", "create", "update", "delete", "expand", "commit"
	Resource  string // "catalog item", "job", "reflection", ...
	ID        string
	Err       error
}

// Error implements the error interface
func (e *ResourceError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("failed to %s %s %s: %v", e.Operation, e.Resource, e.ID, e.Err)
	}
	return fmt.Sprintf("failed to %s %s: %v", e.Operation, e.Resource, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *ResourceError) Unwrap() error {
	return e.Err
}

// Helper functions for error checking

// IsNotFound reports a missing remote entity.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsNoSuchChild reports a local lookup miss.
func IsNoSuchChild(err error) bool {
	return errors.Is(err, ErrNoSuchChild)
}

// IsUnauthorized checks for an authentication failure.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

// IsPermissionDenied checks for an authorization failure.
func IsPermissionDenied(err error) bool {
	return errors.Is(err, ErrPermissionDenied)
}

// IsUnsupported checks for an unclassifiable catalog item.
func IsUnsupported(err error) bool {
	return errors.Is(err, ErrUnsupported)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// Helper wrapping functions for common patterns

// WrapResource wraps an error as a ResourceError
func WrapResource(operation, resource, id string, err error) error {
	if err == nil {
		return nil
	}
	return &ResourceError{Operation: operation, Resource: resource, ID: id, Err: err}
}

// WrapParse wraps an error as a ParseError
func WrapParse(format, source string, err error) error {
	if err == nil {
		return nil
	}
	return &ParseError{Format: format, Source: source, Message: err.Error(), Err: err}
}

// WrapTransport wraps a failure below the HTTP status layer (dial, TLS,
// read) so it classifies as ErrUnknown.
func WrapTransport(method, endpoint string, err error) error {
	if err == nil {
		return nil
	}
	return &APIError{Method: method, Endpoint: endpoint, Message: err.Error(), Err: err}
}
