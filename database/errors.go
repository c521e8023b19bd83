package database

import (
	"errors"
	"slices"
	"strings"

	"gorm.io/gorm"
)

// Driver messages are matched case-insensitively; the sqlite driver has no
// typed errors for these conditions.
var (
	connectionFailures = []string{
		"connection refused",
		"connection reset",
		"broken pipe",
		"i/o timeout",
		"driver: bad connection",
		"invalid connection",
	}
	contention = []string{
		"database is locked",
		"sqlite_busy",
		"deadlock",
		"too many connections",
	}
)

// IsConnectionError reports a lost or refused connection.
func IsConnectionError(err error) bool {
	return matches(err, connectionFailures)
}

// IsRetryableError reports failures that a later attempt may not hit:
// connection loss and lock contention.
func IsRetryableError(err error) bool {
	return matches(err, connectionFailures) || matches(err, contention)
}

// IsNotFoundError reports gorm.ErrRecordNotFound anywhere in the chain.
func IsNotFoundError(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// IsDuplicateError reports a unique-constraint violation, such as a second
// account with the same email. It relies on TranslateError, which Open sets.
func IsDuplicateError(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

func matches(err error, patterns []string) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return slices.ContainsFunc(patterns, func(p string) bool { return strings.Contains(msg, p) })
}
