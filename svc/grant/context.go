package grant

import "context"

type grantContextKey struct{}

// WithGrant stores g in ctx.
func WithGrant(ctx context.Context, g Grant) context.Context {
	return context.WithValue(ctx, grantContextKey{}, g)
}

// FromContext returns the grant the Bridge attached to the request.
func FromContext(ctx context.Context) (Grant, bool) {
	g, ok := ctx.Value(grantContextKey{}).(Grant)
	return g, ok
}

// RequireAuthorization returns the request grant or ErrUnauthorized.
func RequireAuthorization(ctx context.Context) (Grant, error) {
	g, ok := FromContext(ctx)
	if !ok {
		return Grant{}, ErrUnauthorized
	}
	return g, nil
}

// RequireKind is RequireAuthorization restricted to one grant kind.
func RequireKind(ctx context.Context, kind Kind) (Grant, error) {
	g, err := RequireAuthorization(ctx)
	if err != nil {
		return Grant{}, err
	}
	if g.Kind != kind {
		return Grant{}, ErrWrongKind
	}
	return g, nil
}
