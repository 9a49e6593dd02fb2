package web

import (
	"context"

	"github.com/swiftcart/swiftcart/pkg/auth"
)

type claimsKey struct{}

// WithClaims adds verified token claims to the context.
func WithClaims(ctx context.Context, claims auth.Claims) context.Context {
	return context.WithValue(ctx, claimsKey{}, claims)
}

// GetClaims retrieves the verified token claims from the context.
// Returns the claims and a boolean indicating whether they were found.
func GetClaims(ctx context.Context) (auth.Claims, bool) {
	claims, ok := ctx.Value(claimsKey{}).(auth.Claims)
	return claims, ok
}
