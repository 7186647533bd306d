package errors

import (
	"context"
	"errors"
	"net/http"

	"payportal.backend/pkg/validator"
)

// Domain errors
var (
	ErrNotFound           = errors.New("resource not found")
	ErrAlreadyExists      = errors.New("resource already exists")
	ErrInvalidInput       = errors.New("invalid input")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrConflict           = errors.New("conflict")
	ErrAlreadyResolved    = errors.New("payment already resolved")
	ErrUnavailable        = errors.New("store unavailable")
	ErrNoRowsAffected     = errors.New("no rows affected")
)

// Error codes
const (
	CodeValidation         = "validation_error"
	CodeInvalidInput       = "invalid_input"
	CodeUnauthorized       = "unauthorized"
	CodeInvalidCredentials = "invalid_credentials"
	CodeForbidden          = "forbidden"
	CodeNotFound           = "not_found"
	CodeAlreadyExists      = "already_exists"
	CodeConflict           = "conflict"
	CodeInternalError      = "internal_error"
	CodeUnavailable        = "service_unavailable"
	CodeTimeout            = "timeout"
	CodeTooManyRequests    = "too_many_requests"
)

// FieldGeneral attributes an error to the request as a whole
const FieldGeneral = "general"

// MsgInvalidCredentials is shown for both unknown accounts and wrong passwords
const MsgInvalidCredentials = "Username or password could be incorrect"

// FieldError attributes a failure to one input field
type FieldError = validator.FieldError

// AppError represents application error with HTTP status
type AppError struct {
	Status  int          `json:"-"`
	Code    string       `json:"code"`
	Message string       `json:"message"`
	Fields  []FieldError `json:"errors,omitempty"`
	Err     error        `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new app error
func NewAppError(status int, code, message string, err error) *AppError {
	return &AppError{
		Status:  status,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// WithFields attaches field attributed errors
func (e *AppError) WithFields(fields ...FieldError) *AppError {
	e.Fields = append(e.Fields, fields...)
	return e
}

// Validation reports one or more invalid fields
func Validation(fields ...FieldError) *AppError {
	return NewAppError(http.StatusBadRequest, CodeValidation, "Validation failed", ErrInvalidInput).WithFields(fields...)
}

// FieldInvalid is a single field validation failure
func FieldInvalid(field, code, message string) *AppError {
	return Validation(FieldError{Field: field, Code: code, Message: message})
}

// AlreadyExists reports a duplicate value for field. Duplicates are a
// validation outcome, so the status stays 400.
func AlreadyExists(field, message string) *AppError {
	return Duplicates(FieldError{Field: field, Code: CodeAlreadyExists, Message: message})
}

// Duplicates reports several duplicate fields at once. The first field's
// message becomes the summary.
func Duplicates(fields ...FieldError) *AppError {
	message := "Record already exists"
	if len(fields) > 0 {
		message = fields[0].Message
	}
	return NewAppError(http.StatusBadRequest, CodeAlreadyExists, message, ErrAlreadyExists).WithFields(fields...)
}

// InvalidCredentials is the login failure shared by every lookup miss
func InvalidCredentials() *AppError {
	return NewAppError(http.StatusUnauthorized, CodeInvalidCredentials, MsgInvalidCredentials, ErrInvalidCredentials).
		WithFields(FieldError{Field: FieldGeneral, Code: CodeInvalidCredentials, Message: MsgInvalidCredentials})
}

// Common error constructors
func NotFound(message string) *AppError {
	return NewAppError(http.StatusNotFound, CodeNotFound, message, ErrNotFound)
}

func BadRequest(message string) *AppError {
	return NewAppError(http.StatusBadRequest, CodeInvalidInput, message, ErrInvalidInput)
}

func Unauthorized(message string) *AppError {
	return NewAppError(http.StatusUnauthorized, CodeUnauthorized, message, ErrUnauthorized)
}

func Forbidden(message string) *AppError {
	return NewAppError(http.StatusForbidden, CodeForbidden, message, ErrForbidden)
}

func Conflict(message string) *AppError {
	return NewAppError(http.StatusConflict, CodeConflict, message, ErrConflict)
}

func TooManyRequests(message string) *AppError {
	return NewAppError(http.StatusTooManyRequests, CodeTooManyRequests, message, nil)
}

func InternalError(err error) *AppError {
	return NewAppError(http.StatusInternalServerError, CodeInternalError, "Internal server error", err)
}

func Unavailable(err error) *AppError {
	return NewAppError(http.StatusServiceUnavailable, CodeUnavailable, "Service temporarily unavailable", err)
}

func Timeout(err error) *AppError {
	return NewAppError(http.StatusGatewayTimeout, CodeTimeout, "Request timed out", err)
}

// From converts any error into an AppError. Errors that are not already
// AppErrors are classified by their sentinel; the rest become a generic 500.
func From(err error) *AppError {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return Timeout(err)
	case errors.Is(err, ErrUnavailable):
		return Unavailable(err)
	case errors.Is(err, ErrNotFound):
		return NewAppError(http.StatusNotFound, CodeNotFound, "Resource not found", err)
	case errors.Is(err, ErrAlreadyResolved), errors.Is(err, ErrConflict):
		return NewAppError(http.StatusConflict, CodeConflict, "Resource state conflict", err)
	case errors.Is(err, ErrInvalidCredentials):
		return InvalidCredentials()
	default:
		return InternalError(err)
	}
}

// IsDomain reports whether err is an expected business outcome rather than
// an infrastructure failure. Domain errors are never retried.
func IsDomain(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Status < http.StatusInternalServerError
	}
	for _, target := range []error{ErrNotFound, ErrAlreadyExists, ErrInvalidInput, ErrConflict, ErrAlreadyResolved, ErrInvalidCredentials, ErrNoRowsAffected} {
		if errors.Is(err, target) {
			return true
		}
	}
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// DuplicateError reports which unique field rejected a write
type DuplicateError struct {
	Field string
}

func (e *DuplicateError) Error() string {
	return e.Field + " already exists"
}

// Is makes DuplicateError match ErrAlreadyExists
func (e *DuplicateError) Is(target error) bool {
	return target == ErrAlreadyExists
}
