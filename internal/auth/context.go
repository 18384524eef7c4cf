package auth

import (
	"context"

	"spendwise/internal/storage"
)

type sessionKey struct{}

// WithSession attaches the resolved session to the request context.
func WithSession(ctx context.Context, s storage.Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// SessionFromContext retrieves the session placed by WithSession.
func SessionFromContext(ctx context.Context) (storage.Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(storage.Session)
	return s, ok
}
