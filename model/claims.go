package model

import "github.com/golang-jwt/jwt/v5"

// Token type claim values. A token minted for one purpose is never
// accepted for the other.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

type AppClaims struct {
	UserID    int    `json:"user_id"`
	TokenType string `json:"typ"`
	jwt.RegisteredClaims
}
