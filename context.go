package tyx

import "context"

type authContextKey struct{}

// WithContext returns a copy of ctx carrying c. Transport adapters use it to
// hand the authenticated Context to handlers.
func WithContext(ctx context.Context, c Context) context.Context {
	return context.WithValue(ctx, authContextKey{}, c)
}

// FromContext returns the Context stored by WithContext.
func FromContext(ctx context.Context) (Context, bool) {
	if ctx == nil {
		return Context{}, false
	}
	c, ok := ctx.Value(authContextKey{}).(Context)
	return c, ok
}
