package user

import (
	"time"

	"github.com/kbukum/userauth/auth/jwt"
)

// RoleUser is the role every registered account receives.
const RoleUser = "ROLE_USER"

// Record is a stored account. PasswordHash never leaves the service: it is
// excluded from JSON and from the Public projection.
type Record struct {
	ID           string    `json:"_id"`
	Name         string    `json:"name"`
	Surname      string    `json:"surname"`
	Nickname     string    `json:"nickname"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Public is the representation of an account returned to callers.
type Public struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	Surname   string    `json:"surname"`
	Nickname  string    `json:"nickname"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Public returns the record without its credential.
func (r *Record) Public() Public {
	return Public{
		ID:        r.ID,
		Name:      r.Name,
		Surname:   r.Surname,
		Nickname:  r.Nickname,
		Email:     r.Email,
		Role:      r.Role,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

// TokenSubject snapshots the identity claims carried by a session token.
func (r *Record) TokenSubject() jwt.Subject {
	return jwt.Subject{
		ID:      r.ID,
		Name:    r.Name,
		Surname: r.Surname,
		Email:   r.Email,
		Role:    r.Role,
	}
}

// Profile is a partial update of the mutable fields. Nil fields are left
// unchanged.
type Profile struct {
	Name      *string
	Surname   *string
	Nickname  *string
	UpdatedAt time.Time
}

// Empty reports whether the update changes no field.
func (p Profile) Empty() bool {
	return p.Name == nil && p.Surname == nil && p.Nickname == nil
}

// Apply copies the set fields onto r.
func (p Profile) Apply(r *Record) {
	if p.Name != nil {
		r.Name = *p.Name
	}
	if p.Surname != nil {
		r.Surname = *p.Surname
	}
	if p.Nickname != nil {
		r.Nickname = *p.Nickname
	}
	if !p.UpdatedAt.IsZero() {
		r.UpdatedAt = p.UpdatedAt
	}
}
