package errors

import (
	"fmt"
	"net/http"
)

// AppError is returned by every account operation that fails. Handlers turn
// it into the error envelope with the status in HTTPStatus.
type AppError struct {
	Code       ErrorCode      `json:"code"`
	Message    string         `json:"message"`
	Retryable  bool           `json:"retryable"`
	HTTPStatus int            `json:"-"`
	Details    map[string]any `json:"details,omitempty"`
	// Cause is logged and never sent to clients.
	Cause error `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
}

func (e *AppError) Unwrap() error { return e.Cause }

// WithCause attaches the underlying error.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetail adds one entry to the envelope's details object.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any, 1)
	}
	e.Details[key] = value
	return e
}

// New builds an error with an explicit status. Retryable follows the code.
func New(code ErrorCode, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Retryable:  IsRetryableCode(code),
	}
}

func newf(code ErrorCode, format string, args ...any) *AppError {
	return New(code, fmt.Sprintf(format, args...), Status(code))
}

// MissingFields names the required fields that were empty or absent.
func MissingFields(fields ...string) *AppError {
	e := newf(ErrCodeMissingFields, "Complete all fields")
	if len(fields) > 0 {
		e.WithDetail("fields", fields)
	}
	return e
}

// InvalidInput is a body that could not be decoded or a value out of range.
func InvalidInput(reason string) *AppError {
	return newf(ErrCodeInvalidInput, "Invalid input: %s", reason)
}

// BodyTooLarge is INVALID_INPUT answered with 413 for a request body over
// limit bytes.
func BodyTooLarge(limit int64) *AppError {
	e := InvalidInput(fmt.Sprintf("request body exceeds %d bytes", limit)).WithDetail("limit_bytes", limit)
	e.HTTPStatus = http.StatusRequestEntityTooLarge
	return e
}

func InvalidID(resource string) *AppError {
	return newf(ErrCodeInvalidID, "Invalid %s ID", resource).WithDetail("resource", resource)
}

func NotFound(resource, id string) *AppError {
	e := newf(ErrCodeNotFound, "%s not found", resource).WithDetail("resource", resource)
	if id != "" {
		e.WithDetail("id", id)
	}
	return e
}

// EmailNotFound is a login for an address with no account.
func EmailNotFound(email string) *AppError {
	return newf(ErrCodeEmailNotFound, "The email %s is not registered", email)
}

func DuplicateEmail(email string) *AppError {
	return newf(ErrCodeDuplicateEmail, "email %s already exists in our database", email)
}

// PersistenceFailure is a write the store did not confirm.
func PersistenceFailure(message string) *AppError {
	return newf(ErrCodePersistenceFailure, "%s", message)
}

func MissingAuthHeader() *AppError {
	return newf(ErrCodeMissingAuthHeader, "The request does not have the authentication header")
}

// InvalidToken covers malformed, forged and wrongly signed tokens.
func InvalidToken() *AppError {
	return newf(ErrCodeInvalidToken, "The token is invalid")
}

func TokenExpired() *AppError {
	return newf(ErrCodeTokenExpired, "The token has expired")
}

func InvalidCredentials() *AppError {
	return newf(ErrCodeInvalidCredentials, "Password is incorrect")
}

func RateLimited() *AppError {
	return newf(ErrCodeRateLimited, "Too many requests. Please wait a moment and try again.")
}

// Timeout is an operation that ran past its deadline.
func Timeout(operation string) *AppError {
	return newf(ErrCodeTimeout, "The request took too long. Please try again.").WithDetail("operation", operation)
}

// ServiceUnavailable is a dependency failing fast, such as the store behind
// an open circuit breaker.
func ServiceUnavailable(dependency string) *AppError {
	return newf(ErrCodeServiceUnavailable, "The service is temporarily unavailable. Please try again later.").
		WithDetail("dependency", dependency)
}

// Internal hides cause behind a generic message.
func Internal(cause error) *AppError {
	return newf(ErrCodeInternal, "An unexpected error occurred. Please try again or contact support.").WithCause(cause)
}
