package middleware

import (
	"net/http"
	"strings"

	"github.com/louper-app/louper/internal/auth"
)

// Authenticate validates the Bearer token on incoming requests and stores
// the account ID in the request context. Requests without a valid access
// token receive 401.
func Authenticate(jwtService *auth.JWTService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				ctx := SetErrorCode(r.Context(), "missing_token")
				r = r.WithContext(ctx)
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			claims, err := jwtService.ValidateToken(token)
			if err != nil || claims.Type != auth.TokenTypeAccess {
				ctx := SetErrorCode(r.Context(), "invalid_token")
				r = r.WithContext(ctx)
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := SetAccountID(r.Context(), claims.Subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuthenticate validates the Bearer token when present but lets
// anonymous requests through. A cold-start feed request is still valid
// without authentication.
func OptionalAuthenticate(jwtService *auth.JWTService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if ok && token != "" {
				if claims, err := jwtService.ValidateToken(token); err == nil && claims.Type == auth.TokenTypeAccess {
					r = r.WithContext(SetAccountID(r.Context(), claims.Subject))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
