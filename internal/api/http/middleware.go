package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	"seva-ledger/internal/logger"
	"seva-ledger/internal/security"
)

type contextKey string

const claimsContextKey contextKey = "claims"

// Authenticate validates the bearer token and stores the owner claims in the
// request context. The token's owner identity is authoritative; clients
// cannot act on another owner's wallet.
func Authenticate(tm security.TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				respondJSON(w, http.StatusUnauthorized, errorResponse{Error: "authorization token is not provided", Code: "UNAUTHENTICATED"})
				return
			}
			token := header
			if len(token) > 7 && strings.EqualFold(token[0:7], "bearer ") {
				token = token[7:]
			}

			claims, err := tm.ValidateToken(token)
			if err != nil {
				respondJSON(w, http.StatusUnauthorized, errorResponse{Error: "invalid token", Code: "UNAUTHENTICATED"})
				return
			}

			ctx := context.WithValue(r.Context(), claimsContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin guards the admin endpoints. Runs after Authenticate.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := claimsFromContext(r.Context())
		if !ok || !claims.IsAdmin() {
			respondJSON(w, http.StatusForbidden, errorResponse{Error: "admin role required", Code: "FORBIDDEN"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequestLogging logs one line per request at debug level.
func RequestLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logger.Debug("http request", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
	})
}

func claimsFromContext(ctx context.Context) (*security.OwnerClaims, bool) {
	claims, ok := ctx.Value(claimsContextKey).(*security.OwnerClaims)
	return claims, ok
}

// ownerIDFromContext extracts the authenticated owner. The auth middleware
// guarantees presence on protected routes.
func ownerIDFromContext(ctx context.Context) (int64, bool) {
	claims, ok := claimsFromContext(ctx)
	if !ok {
		return 0, false
	}
	return claims.OwnerID, true
}
