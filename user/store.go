package user

import (
	"context"
	"errors"
)

// Store errors. Implementations wrap them with context; callers match with
// errors.Is.
var (
	ErrNotFound       = errors.New("user: not found")
	ErrDuplicateEmail = errors.New("user: email already registered")
	ErrNotInserted    = errors.New("user: insert not acknowledged")
)

// Store persists accounts. Emails are passed already lower-cased.
type Store interface {
	// FindByEmail returns the account registered with email, or ErrNotFound.
	FindByEmail(ctx context.Context, email string) (*Record, error)

	// FindByID returns the account with id, or ErrNotFound.
	FindByID(ctx context.Context, id string) (*Record, error)

	// Insert stores rec and returns its id. A unique email violation is
	// reported as ErrDuplicateEmail; an unacknowledged write as ErrNotInserted.
	Insert(ctx context.Context, rec *Record) (string, error)

	// UpdateProfile applies p to the account with id. It returns ErrNotFound
	// when no account matched.
	UpdateProfile(ctx context.Context, id string, p Profile) error

	// List returns every account.
	List(ctx context.Context) ([]*Record, error)
}
