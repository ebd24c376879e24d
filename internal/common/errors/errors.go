package errors

import (
	"fmt"
)

// ErrorCode classifies an application error so the HTTP layer can map it
// to a status code without inspecting messages.
type ErrorCode string

const (
	ErrCodeInternal   ErrorCode = "INTERNAL_ERROR"
	ErrCodeValidation ErrorCode = "VALIDATION_ERROR"

	ErrCodeProfileNotFound ErrorCode = "PROFILE_NOT_FOUND"
	ErrCodeAlreadyExists   ErrorCode = "ALREADY_EXISTS"

	ErrCodeDatastore  ErrorCode = "DATASTORE_ERROR"
	ErrCodeEncryption ErrorCode = "ENCRYPTION_ERROR"
	ErrCodeCache      ErrorCode = "CACHE_ERROR"
)

// AppError is the typed error carried from the component that detected a
// failure up to the HTTP boundary. Message is safe to return to clients;
// Cause is only ever logged.
type AppError struct {
	Code    ErrorCode
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// IsNotFound reports whether the error is a "not found" condition.
func (e *AppError) IsNotFound() bool {
	return e.Code == ErrCodeProfileNotFound
}

// IsAlreadyExists reports whether the error is a uniqueness violation.
func (e *AppError) IsAlreadyExists() bool {
	return e.Code == ErrCodeAlreadyExists
}

// IsInternal reports whether the error belongs to the internal class
// (datastore, encryption, cache or unclassified failures).
func (e *AppError) IsInternal() bool {
	return e.Code == ErrCodeInternal ||
		e.Code == ErrCodeDatastore ||
		e.Code == ErrCodeEncryption ||
		e.Code == ErrCodeCache
}

// New creates a new application error.
func New(code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// Wrap attaches a cause to a new application error.
func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message, Cause: err}
}

// Wrapf is Wrap with a formatted message.
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *AppError {
	return Wrap(err, code, fmt.Sprintf(format, args...))
}

// NewProfileNotFoundError creates a "profile not found" error for an id
// lookup.
func NewProfileNotFoundError(id string) *AppError {
	return New(ErrCodeProfileNotFound, fmt.Sprintf("User with id %s not found.", id))
}

// NewAlreadyExistsError creates the uniqueness violation error. The
// message deliberately names neither the username nor the email value.
func NewAlreadyExistsError() *AppError {
	return New(ErrCodeAlreadyExists, "User with username or email already exists")
}

// NewDatastoreError creates a datastore failure for an operation.
func NewDatastoreError(operation string, err error) *AppError {
	return Wrapf(err, ErrCodeDatastore, "Datastore operation failed: %s", operation)
}

// NewEncryptionError creates an encryption layer failure.
func NewEncryptionError(operation string, err error) *AppError {
	return Wrapf(err, ErrCodeEncryption, "Encryption operation failed: %s", operation)
}

// AsAppError casts err to *AppError when possible.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if err != nil {
		appErr, _ = err.(*AppError)
	}
	return appErr, appErr != nil
}
