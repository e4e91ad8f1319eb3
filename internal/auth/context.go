package auth

import "context"

type contextKey struct{}

func WithIdentity(ctx context.Context, ident Identity) context.Context {
	return context.WithValue(ctx, contextKey{}, ident)
}

func FromContext(ctx context.Context) (Identity, bool) {
	ident, ok := ctx.Value(contextKey{}).(Identity)
	return ident, ok
}

// UserID returns the authenticated caller's user id, or "" when the
// request never passed the auth middleware.
func UserID(ctx context.Context) string {
	ident, ok := FromContext(ctx)
	if !ok {
		return ""
	}
	return ident.UserID
}
