package middleware

import (
	"context"

	"github.com/converse-app/converse/internal/domain"
)

type contextKey string

const (
	currentUserKey contextKey = "currentUser"
	requestIDKey   contextKey = "requestID"
)

// CurrentUser extracts the authenticated user placed in the context by
// RequireAuth.
func CurrentUser(ctx context.Context) (*domain.User, bool) {
	account, ok := ctx.Value(currentUserKey).(*domain.User)
	return account, ok
}

// RequestIDFrom returns the request identifier assigned by the RequestID
// middleware, or an empty string outside of it.
func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}
