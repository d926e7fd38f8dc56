package errors

import (
	"errors"
	"net/http"
)

// Domain errors
var (
	ErrNotFound              = errors.New("resource not found")
	ErrAlreadyExists         = errors.New("resource already exists")
	ErrInvalidInput          = errors.New("invalid input")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrForbidden             = errors.New("forbidden")
	ErrIllegalTransition     = errors.New("illegal lifecycle transition")
	ErrConcurrentConflict    = errors.New("concurrent modification, re-read and retry")
	ErrDataSourceUnavailable = errors.New("data source unavailable")
	ErrMalformedPayload      = errors.New("malformed payload")
)

// Error codes returned to API callers
const (
	CodeNotFound          = "ERR_NOT_FOUND"
	CodeAlreadyExists     = "ERR_ALREADY_EXISTS"
	CodeInvalidInput      = "ERR_INVALID_INPUT"
	CodeUnauthorized      = "ERR_UNAUTHORIZED"
	CodeForbidden         = "ERR_FORBIDDEN"
	CodeIllegalTransition = "ERR_ILLEGAL_TRANSITION"
	CodeConflict          = "ERR_CONCURRENT_CONFLICT"
	CodeUnavailable       = "ERR_SERVICE_UNAVAILABLE"
	CodeInternalError     = "ERR_INTERNAL"
)

// AppError represents application error with HTTP status
type AppError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
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
	return NewAppError(http.StatusConflict, CodeConflict, message, ErrConcurrentConflict)
}

func IllegalTransition(message string) *AppError {
	return NewAppError(http.StatusUnprocessableEntity, CodeIllegalTransition, message, ErrIllegalTransition)
}

func InternalError(err error) *AppError {
	return NewAppError(http.StatusInternalServerError, CodeInternalError, "internal server error", err)
}

// FromError maps a domain sentinel (possibly wrapped) to its AppError.
// Anything unrecognised is an internal error.
func FromError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	switch {
	case errors.Is(err, ErrNotFound):
		return NewAppError(http.StatusNotFound, CodeNotFound, err.Error(), err)
	case errors.Is(err, ErrInvalidInput):
		return NewAppError(http.StatusBadRequest, CodeInvalidInput, err.Error(), err)
	case errors.Is(err, ErrAlreadyExists):
		return NewAppError(http.StatusConflict, CodeAlreadyExists, err.Error(), err)
	case errors.Is(err, ErrIllegalTransition):
		return NewAppError(http.StatusUnprocessableEntity, CodeIllegalTransition, err.Error(), err)
	case errors.Is(err, ErrConcurrentConflict):
		return NewAppError(http.StatusConflict, CodeConflict, err.Error(), err)
	case errors.Is(err, ErrUnauthorized):
		return NewAppError(http.StatusUnauthorized, CodeUnauthorized, err.Error(), err)
	case errors.Is(err, ErrForbidden):
		return NewAppError(http.StatusForbidden, CodeForbidden, err.Error(), err)
	case errors.Is(err, ErrDataSourceUnavailable):
		return NewAppError(http.StatusServiceUnavailable, CodeUnavailable, "data source unavailable", err)
	default:
		return InternalError(err)
	}
}
