// Package auth authenticates users and manages bearer tokens. Logins and
// logouts are recorded in the audit log alongside data mutations.
package auth

import (
	"errors"
	"time"

	"github.com/lucero-pos/lucero-pos/internal/audit"
)

var (
	// ErrInvalidCredentials covers unknown users, wrong passwords, and
	// disabled accounts alike; callers cannot distinguish them.
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
	// ErrTokenNotFound means the bearer token is missing or expired.
	ErrTokenNotFound = errors.New("auth: token not found")
	// ErrUserNotFound indicates a missing user row.
	ErrUserNotFound = errors.New("auth: user not found")
)

// User is an operator account.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	FullName     string    `json:"full_name"`
	PasswordHash string    `json:"-"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// EntityRef implements audit.Auditable.
func (u User) EntityRef() audit.EntityRef {
	return audit.EntityRef{Type: audit.EntityUser, ID: u.ID}
}

// Snapshot implements audit.Auditable. The password hash never enters the
// audit log.
func (u User) Snapshot() audit.Snapshot {
	return audit.Snapshot{
		"username":  u.Username,
		"full_name": u.FullName,
		"is_active": u.IsActive,
	}
}

// Label is the display name used when audit references resolve this user.
func (u User) Label() string {
	if u.FullName != "" {
		return u.FullName
	}
	return u.Username
}

// Token is an issued bearer credential.
type Token struct {
	Value     string    `json:"token"`
	UserID    int64     `json:"-"`
	Username  string    `json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
}
