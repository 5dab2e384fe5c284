package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error types for the bridge error taxonomy
type ErrorType string

const (
	// ErrorTypeConnection marks a backend that was unreachable at connect time.
	// Fatal to that backend's operations; never retried automatically.
	ErrorTypeConnection ErrorType = "CONNECTION_ERROR"
	// ErrorTypeMapping marks a structurally malformed legacy row. Surfaced
	// per record, never aborts a batch.
	ErrorTypeMapping ErrorType = "MAPPING_ERROR"
	// ErrorTypeStore marks a query execution failure, carrying the offending
	// collection and operation.
	ErrorTypeStore ErrorType = "STORE_ERROR"
	// ErrorTypeMigrationRecord is capture-only: appended to a migration job's
	// error list, never returned to the caller as a failure.
	ErrorTypeMigrationRecord ErrorType = "MIGRATION_RECORD_ERROR"

	ErrorTypeValidation ErrorType = "VALIDATION_ERROR"
	ErrorTypeNotFound   ErrorType = "NOT_FOUND_ERROR"
	ErrorTypeConflict   ErrorType = "CONFLICT_ERROR"
	ErrorTypeInternal   ErrorType = "INTERNAL_ERROR"
)

// Common application errors
var (
	ErrNotFound          = errors.New("resource not found")
	ErrDocumentNotFound  = errors.New("document not found")
	ErrEntityNotFound    = errors.New("legacy entity not found")
	ErrInvalidCollection = errors.New("invalid collection name")
	ErrInvalidDocumentID = errors.New("invalid document ID")
	ErrInvalidQuery      = errors.New("invalid query")
	ErrInvalidInput      = errors.New("invalid input")
	ErrConflict          = errors.New("resource conflict")
	ErrMigrationRunning  = errors.New("a migration job is already running")
	ErrInternalServer    = errors.New("internal server error")
)

// AppError represents a custom application error with context
type AppError struct {
	Type       ErrorType              `json:"type"`
	Message    string                 `json:"message"`
	Code       string                 `json:"code,omitempty"`
	HTTPCode   int                    `json:"-"`
	Details    map[string]interface{} `json:"details,omitempty"`
	Cause      error                  `json:"-"`
	Component  string                 `json:"component,omitempty"`
	Collection string                 `json:"collection,omitempty"`
	Operation  string                 `json:"operation,omitempty"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// NewAppError creates a new application error
func NewAppError(errorType ErrorType, message string, httpCode int) *AppError {
	return &AppError{
		Type:     errorType,
		Message:  message,
		HTTPCode: httpCode,
		Details:  make(map[string]interface{}),
	}
}

// WithCode adds an error code
func (e *AppError) WithCode(code string) *AppError {
	e.Code = code
	return e
}

// WithCause adds the underlying cause
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithComponent adds the component name
func (e *AppError) WithComponent(component string) *AppError {
	e.Component = component
	return e
}

// WithDetail adds a detail field
func (e *AppError) WithDetail(key string, value interface{}) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// Taxonomy constructors

// NewConnectionError reports a backend that could not be reached at connect time.
func NewConnectionError(backend string, cause error) *AppError {
	e := NewAppError(ErrorTypeConnection, fmt.Sprintf("backend %q unreachable", backend), http.StatusServiceUnavailable)
	e.Cause = cause
	e.Details["backend"] = backend
	return e
}

// NewMappingError reports a legacy row whose shape does not match the
// expected schema.
func NewMappingError(message string) *AppError {
	return NewAppError(ErrorTypeMapping, message, http.StatusUnprocessableEntity)
}

// NewStoreError reports a query execution failure with collection and
// operation context.
func NewStoreError(collection, operation string, cause error) *AppError {
	e := NewAppError(ErrorTypeStore, fmt.Sprintf("%s failed for collection %q", operation, collection), http.StatusInternalServerError)
	e.Cause = cause
	e.Collection = collection
	e.Operation = operation
	return e
}

// NewMigrationRecordError wraps a per-record copy failure for a migration
// job's error list. It is recorded, not thrown.
func NewMigrationRecordError(collection string, cause error) *AppError {
	e := NewAppError(ErrorTypeMigrationRecord, fmt.Sprintf("record copy failed for collection %q", collection), http.StatusInternalServerError)
	e.Cause = cause
	e.Collection = collection
	return e
}

// NewValidationError creates a validation error
func NewValidationError(message string) *AppError {
	return NewAppError(ErrorTypeValidation, message, http.StatusBadRequest)
}

// NewNotFoundError creates a not found error
func NewNotFoundError(resource string) *AppError {
	return NewAppError(ErrorTypeNotFound, fmt.Sprintf("%s not found", resource), http.StatusNotFound)
}

// NewConflictError creates a conflict error
func NewConflictError(message string) *AppError {
	return NewAppError(ErrorTypeConflict, message, http.StatusConflict)
}

// NewInternalError creates an internal server error
func NewInternalError(message string) *AppError {
	return NewAppError(ErrorTypeInternal, message, http.StatusInternalServerError)
}

// Helper functions for common error scenarios

// WrapError wraps an error with context
func WrapError(err error, message string) *AppError {
	if appErr, ok := err.(*AppError); ok {
		return appErr
	}
	return NewInternalError(message).WithCause(err)
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == ErrorTypeNotFound
	}
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrDocumentNotFound) || errors.Is(err, ErrEntityNotFound)
}

// IsConnection checks if an error is a connection error
func IsConnection(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == ErrorTypeConnection
	}
	return false
}

// IsMapping checks if an error is a mapping error
func IsMapping(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == ErrorTypeMapping
	}
	return false
}

// IsStore checks if an error is a store error
func IsStore(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == ErrorTypeStore
	}
	return false
}

// IsValidation checks if an error is a validation error
func IsValidation(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == ErrorTypeValidation
	}
	return false
}

// IsConflict checks if an error is a conflict error
func IsConflict(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == ErrorTypeConflict
	}
	return errors.Is(err, ErrConflict)
}
