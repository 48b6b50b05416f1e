// Package identity carries the current authenticated user on a context.
//
// The resolver is supplied by the authentication provider and read by the
// persistence gateway; nothing in between mutates it.
package identity

import "context"

type ctxKey struct{}

// Resolver reports the currently authenticated user, if any.
type Resolver interface {
	CurrentUserID() (string, bool)
}

// WithResolver returns a copy of ctx that resolves the current user through r.
func WithResolver(ctx context.Context, r Resolver) context.Context {
	return context.WithValue(ctx, ctxKey{}, r)
}

// CurrentUserID resolves the user id from ctx. It returns false when no
// resolver is attached or the resolver has no signed-in user.
func CurrentUserID(ctx context.Context) (string, bool) {
	r, ok := ctx.Value(ctxKey{}).(Resolver)
	if !ok || r == nil {
		return "", false
	}
	uid, ok := r.CurrentUserID()
	if !ok || uid == "" {
		return "", false
	}
	return uid, true
}

// Static is a Resolver that always returns the same user. Empty means signed out.
type Static string

// CurrentUserID implements Resolver.
func (s Static) CurrentUserID() (string, bool) {
	return string(s), s != ""
}
