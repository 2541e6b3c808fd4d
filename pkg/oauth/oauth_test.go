package oauth

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/lestrrat-go/jwx/v3/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mcplaunch/mcp-launch/pkg/config/host"
)

// authServer is a fake authorization server: it signs tokens and serves the
// matching JWKS over httptest.
type authServer struct {
	key    jwk.Key
	server *httptest.Server
}

func newAuthServer(t *testing.T) *authServer {
	t.Helper()

	raw, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	key, err := jwk.Import(raw)
	require.NoError(t, err)
	require.NoError(t, key.Set(jwk.KeyIDKey, "test-key"))
	require.NoError(t, key.Set(jwk.AlgorithmKey, jwa.RS256()))

	pub, err := jwk.PublicKeyOf(key)
	require.NoError(t, err)

	set := jwk.NewSet()
	require.NoError(t, set.AddKey(pub))

	jwks, err := json.Marshal(set)
	require.NoError(t, err)

	mux := http.NewServeMux()
	mux.HandleFunc("/jwks", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(jwks)
	})
	mux.HandleFunc("/.well-known/openid-configuration", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = fmt.Fprintf(w, `{"jwks_uri": %q}`, "http://"+r.Host+"/jwks")
	})

	as := &authServer{key: key, server: httptest.NewServer(mux)}
	t.Cleanup(as.server.Close)
	return as
}

func (as *authServer) issuer() string {
	return as.server.URL
}

func (as *authServer) jwksURI() string {
	return as.server.URL + "/jwks"
}

// signToken mints a token for the given subject and scope, signed by the
// fake server's key.
func (as *authServer) signToken(t *testing.T, subject, scope string) string {
	t.Helper()

	token, err := jwt.NewBuilder().
		Issuer(as.issuer()).
		Subject(subject).
		IssuedAt(time.Now()).
		Expiration(time.Now().Add(time.Hour)).
		Claim("scope", scope).
		Build()
	require.NoError(t, err)

	signed, err := jwt.Sign(token, jwt.WithKey(jwa.RS256(), as.key))
	require.NoError(t, err)
	return string(signed)
}

func TestValidateToken(t *testing.T) {
	t.Parallel()

	as := newAuthServer(t)

	tv := NewTokenValidator(TokenValidatorConfig{
		JWKSURI:              as.jwksURI(),
		AuthorizationServers: []string{as.issuer()},
	})

	claims, err := tv.ValidateToken(context.Background(), as.signToken(t, "user-1", "sheets.read sheets.write"))
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, as.issuer(), claims.Issuer)
	assert.Equal(t, "sheets.read sheets.write", claims.Scope)
	assert.True(t, claims.HasScope("sheets.write"))
	assert.False(t, claims.HasScope("admin"))
}

func TestValidateTokenUntrustedIssuer(t *testing.T) {
	t.Parallel()

	as := newAuthServer(t)

	tv := NewTokenValidator(TokenValidatorConfig{
		JWKSURI:              as.jwksURI(),
		AuthorizationServers: []string{"https://other-issuer.example.com"},
	})

	_, err := tv.ValidateToken(context.Background(), as.signToken(t, "user-1", ""))
	assert.ErrorContains(t, err, "not a trusted issuer")
}

func TestValidateTokenGarbage(t *testing.T) {
	t.Parallel()

	as := newAuthServer(t)

	tv := NewTokenValidator(TokenValidatorConfig{JWKSURI: as.jwksURI()})

	_, err := tv.ValidateToken(context.Background(), "not-a-jwt")
	assert.Error(t, err)
}

func TestDiscoverJWKSURI(t *testing.T) {
	t.Parallel()

	as := newAuthServer(t)

	// no explicit JWKS URI: must be discovered from the issuer's metadata
	tv := NewTokenValidator(TokenValidatorConfig{
		AuthorizationServers: []string{as.issuer()},
	})

	claims, err := tv.ValidateToken(context.Background(), as.signToken(t, "user-2", ""))
	require.NoError(t, err)
	assert.Equal(t, "user-2", claims.Subject)
}

func TestHasScope(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		scope    string
		check    string
		expected bool
	}{
		"single scope match":     {scope: "read", check: "read", expected: true},
		"multi scope match":      {scope: "read write admin", check: "write", expected: true},
		"no match":               {scope: "read write", check: "admin", expected: false},
		"empty scope claim":      {scope: "", check: "read", expected: false},
		"prefix is not a match":  {scope: "readonly", check: "read", expected: false},
		"empty check never true": {scope: "read", check: "", expected: false},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			claims := &TokenClaims{Scope: tc.scope}
			assert.Equal(t, tc.expected, claims.HasScope(tc.check))
		})
	}
}

func TestClaimsContextRoundTrip(t *testing.T) {
	t.Parallel()

	assert.Nil(t, ClaimsFromContext(context.Background()))

	claims := &TokenClaims{Subject: "user-1"}
	ctx := ContextWithClaims(context.Background(), claims)
	assert.Same(t, claims, ClaimsFromContext(ctx))
}

func TestProtectedResourceMetadataHandler(t *testing.T) {
	t.Parallel()

	handler := NewProtectedResourceMetadataHandler(MetadataConfig{
		ResourceName:         "google-sheets",
		BasePath:             "/mcp",
		AuthorizationServers: []string{"https://auth.example.com"},
		ScopesSupported:      []string{"sheets.read"},
		JWKSURI:              "https://auth.example.com/jwks",
	})

	t.Run("GET returns metadata", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, ProtectedResourceMetadataEndpoint, nil)
		req.Host = "gateway.example.com"
		rec := httptest.NewRecorder()
		handler(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var metadata ProtectedResourceMetadata
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &metadata))
		assert.Equal(t, "http://gateway.example.com/mcp", metadata.Resource)
		assert.Equal(t, "google-sheets", metadata.ResourceName)
		assert.Equal(t, []string{"https://auth.example.com"}, metadata.AuthorizationServers)
		assert.Equal(t, []string{"sheets.read"}, metadata.ScopesSupported)
		assert.Equal(t, []string{"header"}, metadata.BearerMethodsSupported)
	})

	t.Run("honors X-Forwarded-Proto", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, ProtectedResourceMetadataEndpoint, nil)
		req.Host = "gateway.example.com"
		req.Header.Set("X-Forwarded-Proto", "https")
		rec := httptest.NewRecorder()
		handler(rec, req)

		var metadata ProtectedResourceMetadata
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &metadata))
		assert.Equal(t, "https://gateway.example.com/mcp", metadata.Resource)
	})

	t.Run("OPTIONS preflight", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodOptions, ProtectedResourceMetadataEndpoint, nil)
		rec := httptest.NewRecorder()
		handler(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("POST not allowed", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodPost, ProtectedResourceMetadataEndpoint, nil)
		rec := httptest.NewRecorder()
		handler(rec, req)

		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}

func TestMiddleware(t *testing.T) {
	t.Parallel()

	as := newAuthServer(t)

	httpConfig := &host.StreamableHTTPConfig{
		BasePath: "/mcp",
		Auth: &host.AuthConfig{
			AuthorizationServers: []string{as.issuer()},
			JWKSURI:              as.jwksURI(),
			RequiredScopes:       []string{"sheets.read"},
		},
	}

	var gotClaims *TokenClaims
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotClaims = ClaimsFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	handler := Middleware("google-sheets", httpConfig, zap.NewNop())(inner)

	t.Run("no token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/mcp", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Header().Get("WWW-Authenticate"), "resource_metadata=")
		assert.Contains(t, rec.Header().Get("WWW-Authenticate"), ProtectedResourceMetadataEndpoint)
	})

	t.Run("invalid token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/mcp", nil)
		req.Header.Set("Authorization", "Bearer bogus")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("missing required scope", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/mcp", nil)
		req.Header.Set("Authorization", "Bearer "+as.signToken(t, "user-1", "other.scope"))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Contains(t, rec.Header().Get("WWW-Authenticate"), "insufficient_scope")
	})

	t.Run("valid token reaches handler with claims", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/mcp", nil)
		req.Header.Set("Authorization", "Bearer "+as.signToken(t, "user-1", "sheets.read"))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, gotClaims)
		assert.Equal(t, "user-1", gotClaims.Subject)
	})

	t.Run("metadata endpoint needs no token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, ProtectedResourceMetadataEndpoint, nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestBearerToken(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		header   string
		expected string
		ok       bool
	}{
		"valid":            {header: "Bearer abc123", expected: "abc123", ok: true},
		"case insensitive": {header: "bearer abc123", expected: "abc123", ok: true},
		"missing":          {header: "", ok: false},
		"wrong scheme":     {header: "Basic dXNlcjpwYXNz", ok: false},
		"no token":         {header: "Bearer ", ok: false},
		"scheme only":      {header: "Bearer", ok: false},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodGet, "/mcp", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}

			token, ok := bearerToken(req)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.expected, token)
		})
	}
}
