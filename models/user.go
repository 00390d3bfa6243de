package models

import (
	"time"

	"datalens/domain/core"
)

// User represents a dashboard account
type User struct {
	ID           core.UserID `json:"id" db:"id"`
	Email        string      `json:"email" db:"email"`
	Username     string      `json:"username" db:"username"`
	PasswordHash string      `json:"-" db:"password_hash"`
	PasswordSalt string      `json:"-" db:"password_salt"`
	IsActive     bool        `json:"is_active" db:"is_active"`
	CreatedAt    time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at" db:"updated_at"`
}

// NewUser creates an active user with a freshly salted password hash
func NewUser(email, username, password string) *User {
	salt := core.NewID().String()
	return &User{
		ID:           core.UserID(core.NewID()),
		Email:        email,
		Username:     username,
		PasswordHash: core.HashPassword(password, salt).String(),
		PasswordSalt: salt,
		IsActive:     true,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
}

// SetPassword re-salts and re-hashes the stored credential
func (u *User) SetPassword(password string) {
	salt := core.NewID().String()
	u.PasswordSalt = salt
	u.PasswordHash = core.HashPassword(password, salt).String()
}

// CheckPassword verifies a candidate password against the stored hash
func (u *User) CheckPassword(password string) bool {
	return core.VerifyPassword(password, u.PasswordSalt, core.Hash(u.PasswordHash))
}

// Session is an opaque bearer token bound to a user
type Session struct {
	Token     string      `json:"token" db:"token"`
	UserID    core.UserID `json:"user_id" db:"user_id"`
	ExpiresAt time.Time   `json:"expires_at" db:"expires_at"`
	CreatedAt time.Time   `json:"created_at" db:"created_at"`
}

// NewSession issues a session valid for the given duration
func NewSession(userID core.UserID, ttl time.Duration) *Session {
	now := time.Now()
	return &Session{
		Token:     core.NewSessionToken(),
		UserID:    userID,
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	}
}

// IsExpired reports whether the session is past its expiry
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}
