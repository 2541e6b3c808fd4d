package oauth

import (
	"context"
	"slices"
	"strings"
	"time"
)

// TokenClaims holds the claims extracted from a verified bearer token.
type TokenClaims struct {
	Subject   string     `json:"sub,omitempty"`
	Issuer    string     `json:"iss,omitempty"`
	Audience  []string   `json:"aud,omitempty"`
	Expiry    *time.Time `json:"exp,omitempty"`
	IssuedAt  *time.Time `json:"iat,omitempty"`
	NotBefore *time.Time `json:"nbf,omitempty"`
	Scope     string     `json:"scope,omitempty"`
	ClientID  string     `json:"client_id,omitempty"`
	Username  string     `json:"username,omitempty"`
	Email     string     `json:"email,omitempty"`
}

// HasScope reports whether the space-separated scope claim contains the
// given scope.
func (tc *TokenClaims) HasScope(scope string) bool {
	return slices.Contains(strings.Fields(tc.Scope), scope)
}

type claimsContextKey struct{}

// ClaimsFromContext returns the claims previously stored with
// ContextWithClaims, or nil when the request was not authenticated.
func ClaimsFromContext(ctx context.Context) *TokenClaims {
	claims, _ := ctx.Value(claimsContextKey{}).(*TokenClaims)
	return claims
}

// ContextWithClaims returns a new context carrying the given claims.
func ContextWithClaims(ctx context.Context, claims *TokenClaims) context.Context {
	return context.WithValue(ctx, claimsContextKey{}, claims)
}
