package auth

import "context"

type contextKey struct{}

var userIDKey = contextKey{}

// WithUserID attaches the authenticated user's ID to the request context.
func WithUserID(ctx context.Context, userID int) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserIDFromContext returns the caller identity set by the auth middleware.
// Handlers must treat a missing ID as an unauthenticated request, never fall
// back to some implicit default user.
func UserIDFromContext(ctx context.Context) (int, bool) {
	userID, ok := ctx.Value(userIDKey).(int)
	return userID, ok
}
