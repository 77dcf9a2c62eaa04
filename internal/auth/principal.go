// Package auth carries the caller's capabilities through a request context.
package auth

import "context"

// Principal describes who is calling and what they may do.
// The zero value is an anonymous caller.
type Principal struct {
	UserID        string
	Username      string
	Authenticated bool
	Admin         bool
}

type principalKey struct{}

// WithPrincipal returns a copy of ctx carrying p.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// FromContext returns the principal stored in ctx, or an anonymous one.
func FromContext(ctx context.Context) Principal {
	p, _ := ctx.Value(principalKey{}).(Principal)
	return p
}
