package middleware

import "context"

// Headers the API reads or writes across several middlewares and handlers.
const (
	TokenHeader = "X-LB-Token"
)

type contextKey string

const ctxUserID contextKey = "user_id"

// UserIDFromContext returns the authenticated user id, or 0 outside Auth.
func UserIDFromContext(ctx context.Context) uint {
	if ctx == nil {
		return 0
	}
	id, _ := ctx.Value(ctxUserID).(uint)
	return id
}

// WithUserID stores the authenticated user id on ctx.
func WithUserID(ctx context.Context, userID uint) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxUserID, userID)
}
