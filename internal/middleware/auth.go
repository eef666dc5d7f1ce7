package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/converse-app/converse/internal/services/user_services"
)

func writeUnauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", "Bearer")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"error":"Not authenticated"}`))
}

// extractBearerToken pulls the token out of an "Authorization: Bearer x"
// header. Returns an empty string when the header is missing or not a
// bearer scheme.
func extractBearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// RequireAuth resolves the bearer token to a user and stores it in the
// request context. Missing, invalid and expired tokens all produce the
// same 401 response.
func RequireAuth(authService *user_services.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractBearerToken(r)
			if token == "" {
				writeUnauthorized(w)
				return
			}

			account, err := authService.Resolve(r.Context(), token)
			if err != nil {
				writeUnauthorized(w)
				return
			}

			ctx := context.WithValue(r.Context(), currentUserKey, account)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
