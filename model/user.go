package model

import "time"

// User is the identity record for an account. Password always holds the
// bcrypt hash, never the raw password, and is excluded from JSON responses.
type User struct {
	ID        int       `json:"id"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}
