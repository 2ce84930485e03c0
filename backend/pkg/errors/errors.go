package errors

import (
	"fmt"
	"time"
)

// ErrorType represents the category of error
type ErrorType string

const (
	// ErrorTypeConflict represents uniqueness constraint violations
	ErrorTypeConflict ErrorType = "conflict"
	// ErrorTypeNotFound represents references to entities that do not exist
	ErrorTypeNotFound ErrorType = "not_found"
	// ErrorTypeInvalidArgument represents input rejected before any store call
	ErrorTypeInvalidArgument ErrorType = "invalid_argument"
	// ErrorTypeStore represents graph store connectivity or query failures
	ErrorTypeStore ErrorType = "store"
)

// BaseError is the base error type with common fields
type BaseError struct {
	Type      ErrorType
	Message   string
	Timestamp time.Time
	Err       error // Wrapped error
}

// Error implements the error interface
func (e *BaseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the wrapped error for error unwrapping
func (e *BaseError) Unwrap() error {
	return e.Err
}

// NewBaseError creates a new base error
func NewBaseError(errType ErrorType, message string, err error) *BaseError {
	return &BaseError{
		Type:      errType,
		Message:   message,
		Timestamp: time.Now(),
		Err:       err,
	}
}

// Conflict Errors

// ErrUsernameTaken is returned when a username is already held by a live user
type ErrUsernameTaken struct {
	*BaseError
	Username string
}

func NewUsernameTaken(username string, err error) *ErrUsernameTaken {
	return &ErrUsernameTaken{
		BaseError: NewBaseError(ErrorTypeConflict, fmt.Sprintf("username already taken: %s", username), err),
		Username:  username,
	}
}

// NotFound Errors

// ErrUserNotFound is returned when a user id does not reference a live user
type ErrUserNotFound struct {
	*BaseError
	UserID string
}

func NewUserNotFound(userID string) *ErrUserNotFound {
	return &ErrUserNotFound{
		BaseError: NewBaseError(ErrorTypeNotFound, fmt.Sprintf("user not found: %s", userID), nil),
		UserID:    userID,
	}
}

// InvalidArgument Errors

// ErrInvalidArgument is returned when input is rejected before any store call
type ErrInvalidArgument struct {
	*BaseError
	Field  string
	Reason string
}

func NewInvalidArgument(field, reason string) *ErrInvalidArgument {
	return &ErrInvalidArgument{
		BaseError: NewBaseError(ErrorTypeInvalidArgument, fmt.Sprintf("invalid %s: %s", field, reason), nil),
		Field:     field,
		Reason:    reason,
	}
}

// Store Errors

// ErrStoreConnectionFailed is returned when the Neo4j connection fails
type ErrStoreConnectionFailed struct {
	*BaseError
	URI string
}

func NewStoreConnectionFailed(uri string, err error) *ErrStoreConnectionFailed {
	return &ErrStoreConnectionFailed{
		BaseError: NewBaseError(ErrorTypeStore, fmt.Sprintf("failed to connect to Neo4j: %s", uri), err),
		URI:       uri,
	}
}

// ErrStoreQueryFailed is returned when a graph query fails
type ErrStoreQueryFailed struct {
	*BaseError
	Operation string
}

func NewStoreQueryFailed(operation string, err error) *ErrStoreQueryFailed {
	return &ErrStoreQueryFailed{
		BaseError: NewBaseError(ErrorTypeStore, fmt.Sprintf("query failed: %s", operation), err),
		Operation: operation,
	}
}

// Helper functions

// IsErrorType checks if an error is of a specific type
func IsErrorType(err error, errType ErrorType) bool {
	if baseErr, ok := err.(*BaseError); ok {
		return baseErr.Type == errType
	}
	if typed, ok := err.(interface{ Kind() ErrorType }); ok {
		return typed.Kind() == errType
	}
	// Check wrapped errors
	if wrapped, ok := err.(interface{ Unwrap() error }); ok && wrapped.Unwrap() != nil {
		return IsErrorType(wrapped.Unwrap(), errType)
	}
	return false
}

// Kind exposes the category for IsErrorType checks through embedding
func (e *BaseError) Kind() ErrorType {
	return e.Type
}

// IsConflict reports whether err is a uniqueness violation
func IsConflict(err error) bool {
	return IsErrorType(err, ErrorTypeConflict)
}

// IsNotFound reports whether err references a missing entity
func IsNotFound(err error) bool {
	return IsErrorType(err, ErrorTypeNotFound)
}

// IsInvalidArgument reports whether err is a rejected input
func IsInvalidArgument(err error) bool {
	return IsErrorType(err, ErrorTypeInvalidArgument)
}

// IsStore reports whether err is a store connectivity or query failure
func IsStore(err error) bool {
	return IsErrorType(err, ErrorTypeStore)
}
