package models

import "time"

// User represents a registered account
type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Session represents an authenticated session
type Session struct {
	ID        string
	UserID    int64
	ExpiresAt time.Time
	CreatedAt time.Time
}

// IsExpired checks if the session has expired
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// ResetToken represents a single-use password reset token.
// At most one row exists per email; reissuing replaces the previous token.
type ResetToken struct {
	Email     string
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// IsExpired checks if the reset token has expired
func (t *ResetToken) IsExpired() bool {
	return time.Now().After(t.ExpiresAt)
}
