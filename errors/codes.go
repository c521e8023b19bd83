package errors

import "net/http"

// ErrorCode is the machine-readable code in the error envelope.
type ErrorCode string

const (
	ErrCodeMissingFields ErrorCode = "MISSING_FIELDS"
	ErrCodeInvalidInput  ErrorCode = "INVALID_INPUT"
	// ErrCodeInvalidID is a path id that is not a 24-hex account id.
	ErrCodeInvalidID ErrorCode = "INVALID_ID"

	ErrCodeNotFound       ErrorCode = "NOT_FOUND"
	ErrCodeEmailNotFound  ErrorCode = "EMAIL_NOT_FOUND"
	ErrCodeDuplicateEmail ErrorCode = "DUPLICATE_EMAIL"
	// ErrCodePersistenceFailure is an insert the store did not acknowledge.
	ErrCodePersistenceFailure ErrorCode = "PERSISTENCE_FAILURE"

	ErrCodeMissingAuthHeader  ErrorCode = "MISSING_AUTH_HEADER"
	ErrCodeInvalidToken       ErrorCode = "INVALID_TOKEN"
	ErrCodeTokenExpired       ErrorCode = "TOKEN_EXPIRED"
	ErrCodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"

	ErrCodeRateLimited        ErrorCode = "RATE_LIMITED"
	ErrCodeServiceUnavailable ErrorCode = "SERVICE_UNAVAILABLE"
	ErrCodeTimeout            ErrorCode = "TIMEOUT"
	ErrCodeInternal           ErrorCode = "INTERNAL_ERROR"
)

type codeInfo struct {
	status    int
	retryable bool
}

// catalog fixes the HTTP status of every code. Clients of the account API
// depend on these pairings, including the unusual ones: a bad token is 400
// and an unacknowledged insert is 404.
var catalog = map[ErrorCode]codeInfo{
	ErrCodeMissingFields:      {http.StatusBadRequest, false},
	ErrCodeInvalidInput:       {http.StatusBadRequest, false},
	ErrCodeInvalidID:          {http.StatusBadRequest, false},
	ErrCodeNotFound:           {http.StatusNotFound, false},
	ErrCodeEmailNotFound:      {http.StatusNotFound, false},
	ErrCodeDuplicateEmail:     {http.StatusBadRequest, false},
	ErrCodePersistenceFailure: {http.StatusNotFound, false},
	ErrCodeMissingAuthHeader:  {http.StatusUnauthorized, false},
	ErrCodeInvalidToken:       {http.StatusBadRequest, false},
	ErrCodeTokenExpired:       {http.StatusUnauthorized, false},
	ErrCodeInvalidCredentials: {http.StatusUnauthorized, false},
	ErrCodeRateLimited:        {http.StatusTooManyRequests, true},
	ErrCodeServiceUnavailable: {http.StatusServiceUnavailable, true},
	ErrCodeTimeout:            {http.StatusGatewayTimeout, true},
	ErrCodeInternal:           {http.StatusInternalServerError, false},
}

// IsRetryableCode reports whether a client may retry a request that failed
// with code.
func IsRetryableCode(code ErrorCode) bool {
	return catalog[code].retryable
}

// Status returns the HTTP status for code, 500 for unknown codes.
func Status(code ErrorCode) int {
	if info, ok := catalog[code]; ok {
		return info.status
	}
	return http.StatusInternalServerError
}
