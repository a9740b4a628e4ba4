package auth

import "context"

// Identity is the resolved caller of a request. Handlers receive it from
// the JWT middleware instead of consulting a global session.
type Identity struct {
	UserID  string `json:"user_id"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"is_admin"`
}

// IdentityFromClaims copies the authorization-relevant claims
func IdentityFromClaims(c *Claims) Identity {
	return Identity{UserID: c.UserID, Email: c.Email, IsAdmin: c.IsAdmin}
}

type identityKey struct{}

// WithIdentity returns a context carrying id
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// FromContext returns the identity stored by WithIdentity
func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}
