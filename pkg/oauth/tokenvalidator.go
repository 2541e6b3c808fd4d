package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/lestrrat-go/jwx/v3/jwt"
)

const (
	defaultHTTPTimeout = 5 * time.Second
	defaultKeySetTTL   = 15 * time.Minute
)

// discoveryDocument is the subset of the OIDC / RFC 8414 authorization
// server metadata the validator cares about.
type discoveryDocument struct {
	JWKSURI string `json:"jwks_uri"`
}

// TokenValidatorConfig holds configuration for token validation
type TokenValidatorConfig struct {
	// JWKSURI is the endpoint serving the signing keys. When empty, the
	// validator discovers it from the authorization servers' metadata.
	JWKSURI string
	// AuthorizationServers lists the issuers whose tokens are accepted.
	AuthorizationServers []string
	// HTTPTimeout bounds metadata and key set fetches (default: 5s).
	HTTPTimeout time.Duration
	// KeySetTTL controls how long a fetched key set is reused before it
	// is refreshed (default: 15m).
	KeySetTTL time.Duration
}

// TokenValidator verifies bearer tokens against the configured
// authorization servers' signing keys.
type TokenValidator struct {
	config TokenValidatorConfig
	client *http.Client

	mu        sync.Mutex
	keySet    jwk.Set
	fetchedAt time.Time
}

// NewTokenValidator creates a new token validator with the given configuration
func NewTokenValidator(config TokenValidatorConfig) *TokenValidator {
	if config.HTTPTimeout <= 0 {
		config.HTTPTimeout = defaultHTTPTimeout
	}
	if config.KeySetTTL <= 0 {
		config.KeySetTTL = defaultKeySetTTL
	}
	return &TokenValidator{
		config: config,
		client: &http.Client{Timeout: config.HTTPTimeout},
	}
}

// ValidateToken verifies the token's signature against the (cached) key set
// and returns its claims. The issuer must be one of the configured
// authorization servers when any are set.
func (tv *TokenValidator) ValidateToken(ctx context.Context, tokenString string) (*TokenClaims, error) {
	keySet, err := tv.currentKeySet(ctx)
	if err != nil {
		return nil, err
	}

	token, err := jwt.Parse([]byte(tokenString), jwt.WithKeySet(keySet))
	if err != nil {
		return nil, fmt.Errorf("failed to parse/validate JWT token: %w", err)
	}

	claims := claimsFromToken(token)

	if len(tv.config.AuthorizationServers) > 0 && !slices.Contains(tv.config.AuthorizationServers, claims.Issuer) {
		return nil, fmt.Errorf("invalid token claims: %q is not a trusted issuer", claims.Issuer)
	}

	return claims, nil
}

// currentKeySet returns the cached key set, refreshing it when the TTL has
// elapsed or nothing has been fetched yet.
func (tv *TokenValidator) currentKeySet(ctx context.Context) (jwk.Set, error) {
	tv.mu.Lock()
	defer tv.mu.Unlock()

	if tv.keySet != nil && time.Since(tv.fetchedAt) < tv.config.KeySetTTL {
		return tv.keySet, nil
	}

	jwksURI := tv.config.JWKSURI
	if jwksURI == "" {
		uri, err := tv.discoverJWKSURI(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to discover JWKS URI: %w", err)
		}
		jwksURI = uri
	}

	keySet, err := jwk.Fetch(ctx, jwksURI, jwk.WithHTTPClient(tv.client))
	if err != nil {
		// Keep serving a stale key set rather than failing outright
		if tv.keySet != nil {
			return tv.keySet, nil
		}
		return nil, fmt.Errorf("failed to fetch JWKS from %s: %w", jwksURI, err)
	}

	tv.keySet = keySet
	tv.fetchedAt = time.Now()
	return keySet, nil
}

// discoverJWKSURI resolves the jwks_uri from the authorization servers'
// metadata, preferring OIDC discovery and falling back to RFC 8414.
func (tv *TokenValidator) discoverJWKSURI(ctx context.Context) (string, error) {
	if len(tv.config.AuthorizationServers) == 0 {
		return "", fmt.Errorf("no JWKS URI configured and no authorization servers to discover one from")
	}

	wellKnownPaths := []string{
		"/.well-known/openid-configuration",
		"/.well-known/oauth-authorization-server",
	}

	var lastErr error
	for _, issuer := range tv.config.AuthorizationServers {
		base := strings.TrimSuffix(issuer, "/")
		for _, path := range wellKnownPaths {
			uri, err := tv.fetchMetadata(ctx, base+path)
			if err != nil {
				lastErr = err
				continue
			}
			return uri, nil
		}
	}

	return "", fmt.Errorf("no authorization server published a jwks_uri, last error: %w", lastErr)
}

func (tv *TokenValidator) fetchMetadata(ctx context.Context, metadataURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, metadataURL, nil)
	if err != nil {
		return "", err
	}

	resp, err := tv.client.Do(req)
	if err != nil {
		return "", err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("metadata endpoint %s returned status %d", metadataURL, resp.StatusCode)
	}

	var doc discoveryDocument
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return "", fmt.Errorf("failed to parse authorization server metadata: %w", err)
	}
	if doc.JWKSURI == "" {
		return "", fmt.Errorf("metadata from %s does not contain jwks_uri", metadataURL)
	}

	return doc.JWKSURI, nil
}

// claimsFromToken copies the standard and OAuth claims out of a verified token.
func claimsFromToken(token jwt.Token) *TokenClaims {
	claims := &TokenClaims{}

	if sub, ok := token.Subject(); ok {
		claims.Subject = sub
	}
	if iss, ok := token.Issuer(); ok {
		claims.Issuer = iss
	}
	if aud, ok := token.Audience(); ok {
		claims.Audience = aud
	}
	if exp, ok := token.Expiration(); ok && !exp.IsZero() {
		claims.Expiry = &exp
	}
	if iat, ok := token.IssuedAt(); ok && !iat.IsZero() {
		claims.IssuedAt = &iat
	}
	if nbf, ok := token.NotBefore(); ok && !nbf.IsZero() {
		claims.NotBefore = &nbf
	}

	for name, dst := range map[string]*string{
		"scope":     &claims.Scope,
		"client_id": &claims.ClientID,
		"username":  &claims.Username,
		"email":     &claims.Email,
	} {
		var v string
		if err := token.Get(name, &v); err == nil {
			*dst = v
		}
	}

	return claims
}
