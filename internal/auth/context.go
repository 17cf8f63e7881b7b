package auth

import "context"

type contextKey string

const identityKey contextKey = "identity"

// Identity is the authenticated caller attached to a request context.
type Identity struct {
	UserID string
	Email  string
	Role   string
}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

func IdentityFrom(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok
}

// UserIDFrom returns nil for anonymous requests.
func UserIDFrom(ctx context.Context) *string {
	id, ok := IdentityFrom(ctx)
	if !ok || id.UserID == "" {
		return nil
	}
	uid := id.UserID
	return &uid
}
