package domain

import "time"

// User is an account that owns bookmarks and sessions.
type User struct {
	// ID is the canonical unique identifier, assigned at sign-up.
	ID string `json:"id"`

	// Email is the sign-in identity, unique across all users.
	Email string `json:"email"`

	// PasswordHash is the bcrypt hash of the password.
	// Never serialized to clients.
	PasswordHash string `json:"-"`

	// CreatedAt is the sign-up timestamp.
	CreatedAt time.Time `json:"created_at"`
}
