package apperror

import (
	"errors"
	"net/http"
)

// HTTPError is implemented by errors that know their response status.
type HTTPError interface {
	error
	StatusCode() int
}

var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
	ErrConflict     = errors.New("already exists")
)

// NotFoundError is returned both for missing rows and for rows owned by
// someone else. Callers must not be able to tell the two apart.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string        { return e.Message }
func (e *NotFoundError) StatusCode() int      { return http.StatusNotFound }
func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// ValidationError carries one message per offending form field.
type ValidationError struct {
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string        { return e.Message }
func (e *ValidationError) StatusCode() int      { return http.StatusUnprocessableEntity }
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

type UnauthorizedError struct {
	Message string
}

func (e *UnauthorizedError) Error() string        { return e.Message }
func (e *UnauthorizedError) StatusCode() int      { return http.StatusUnauthorized }
func (e *UnauthorizedError) Is(target error) bool { return target == ErrUnauthorized }

type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string        { return e.Message }
func (e *ConflictError) StatusCode() int      { return http.StatusConflict }
func (e *ConflictError) Is(target error) bool { return target == ErrConflict }

func NotFound(message string) error {
	return &NotFoundError{Message: message}
}

func Validation(message string, fields map[string]string) error {
	return &ValidationError{Message: message, Fields: fields}
}

// FieldError is a ValidationError for a single field.
func FieldError(field, message string) error {
	return &ValidationError{Message: "validation failed", Fields: map[string]string{field: message}}
}

func Unauthorized(message string) error {
	return &UnauthorizedError{Message: message}
}

func Conflict(message string) error {
	return &ConflictError{Message: message}
}

// AsValidation returns the ValidationError inside err, if any.
func AsValidation(err error) (*ValidationError, bool) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr, true
	}
	return nil, false
}

// StatusOf maps err to an HTTP status, 500 when it carries none.
func StatusOf(err error) int {
	var httpErr HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode()
	}
	return http.StatusInternalServerError
}
