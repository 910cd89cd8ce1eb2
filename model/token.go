// file: model/token.go

package model

import "time"

// RefreshToken holds the data for a refresh token in the database.
// TokenHash is a one-way digest of the raw token string; the raw string
// itself is never persisted.
type RefreshToken struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user_id"`
	TokenHash string    `json:"-"` // The hash is not exposed in JSON responses.
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// TokenPair is the login/refresh response payload. It is never persisted;
// the raw refresh token leaves the server exactly once, here.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}
