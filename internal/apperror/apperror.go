// Package apperror defines the error taxonomy shared by the service and HTTP layers.
//
// Services return *AppError values wrapping one of the sentinels below. Handlers
// use errors.Is against the sentinel to pick a status code, and AppError.Message
// as the client-facing text. Anything that is not an *AppError is an internal
// error and is never shown to the client.
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation error")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
)

type AppError struct {
	Err     error  // sentinel
	Message string // human-readable, safe to return to the client
	Field   string // optional: request field that caused the error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %s", resource, id),
	}
}

// Missing reports a required field that was absent. It wraps ErrNotFound rather
// than ErrValidation for the routes whose contract answers 404 to a missing key.
func Missing(field, message string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: message,
		Field:   field,
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

// Conflict reports a uniqueness violation. The message is returned verbatim.
func Conflict(message string) *AppError {
	return &AppError{
		Err:     ErrConflict,
		Message: message,
	}
}

// Unauthorized returns an AppError for missing or rejected credentials.
// HTTP handlers map this to 401 Unauthorized.
func Unauthorized(message string) *AppError {
	return &AppError{
		Err:     ErrUnauthorized,
		Message: message,
	}
}

// Forbidden returns an AppError indicating the caller lacks permission.
// HTTP handlers map this to 403 Forbidden.
func Forbidden(message string) *AppError {
	return &AppError{
		Err:     ErrForbidden,
		Message: message,
	}
}
