package handler

import (
	"context"
	"go-notes-api/common"
	"go-notes-api/service"
	"net/http"
)

type contextKey string

const UserIDKey contextKey = "userID"

// AuthMiddleware returns a middleware that validates the access token in
// the Authorization header and injects the subject user ID into the
// request context. Verification fails closed; the response never says
// which check rejected the token.
func AuthMiddleware(authService *service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				err := common.NewAppError(http.StatusUnauthorized, "Authorization header is required", nil)
				err.Send(w)
				return
			}

			// The service strips the "Bearer " prefix itself.
			userID, err := authService.VerifyAccessToken(authHeader)
			if err != nil {
				appErr := common.NewAppError(http.StatusUnauthorized, "Invalid or expired token", nil)
				appErr.Send(w)
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
