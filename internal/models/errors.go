package models

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Application error codes.
const (
	ErrCodeValidation      = "VALIDATION_ERROR"
	ErrCodeNotFound        = "NOT_FOUND"
	ErrCodeForbidden       = "FORBIDDEN"
	ErrCodeUnauthenticated = "UNAUTHENTICATED"
	ErrCodeConflict        = "CONFLICT"
	ErrCodeInternal        = "INTERNAL_ERROR"
)

// AppError is a typed application error carrying a machine-readable code.
type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the wrapped cause, if any.
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewValidationError creates a validation error.
func NewValidationError(message string) *AppError {
	return &AppError{Code: ErrCodeValidation, Message: message}
}

// NewNotFoundError creates a not-found error.
func NewNotFoundError(message string) *AppError {
	return &AppError{Code: ErrCodeNotFound, Message: message}
}

// NewForbiddenError creates a forbidden error.
func NewForbiddenError(message string) *AppError {
	return &AppError{Code: ErrCodeForbidden, Message: message}
}

// NewUnauthenticatedError creates an authentication error.
func NewUnauthenticatedError(message string) *AppError {
	return &AppError{Code: ErrCodeUnauthenticated, Message: message}
}

// NewConflictError creates a conflict error.
func NewConflictError(message string) *AppError {
	return &AppError{Code: ErrCodeConflict, Message: message}
}

// NewInternalError wraps an unexpected error.
func NewInternalError(err error) *AppError {
	return &AppError{Code: ErrCodeInternal, Message: "Internal server error", Err: err}
}

// StatusForError maps an error to an HTTP status code.
func StatusForError(err error) int {
	appErr, ok := err.(*AppError)
	if !ok {
		return fiber.StatusInternalServerError
	}
	switch appErr.Code {
	case ErrCodeValidation:
		return fiber.StatusBadRequest
	case ErrCodeNotFound:
		return fiber.StatusNotFound
	case ErrCodeForbidden:
		return fiber.StatusForbidden
	case ErrCodeUnauthenticated:
		return fiber.StatusUnauthorized
	case ErrCodeConflict:
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}
