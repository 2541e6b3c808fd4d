package oauth

import (
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/mcplaunch/mcp-launch/pkg/config/host"
)

// Middleware wraps the gateway handler with OAuth 2.0 protection: it serves
// the protected resource metadata, requires a valid bearer token on every
// other request, and stores the verified claims on the request context.
// When auth is nil the handler is returned unchanged.
func Middleware(resourceName string, httpConfig *host.StreamableHTTPConfig, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		auth := httpConfig.Auth
		if auth == nil {
			return next
		}

		metadataHandler := NewProtectedResourceMetadataHandler(MetadataConfig{
			ResourceName:         resourceName,
			BasePath:             httpConfig.BasePath,
			AuthorizationServers: auth.AuthorizationServers,
			ScopesSupported:      auth.ScopesSupported,
			JWKSURI:              auth.JWKSURI,
		})

		validator := NewTokenValidator(TokenValidatorConfig{
			JWKSURI:              auth.JWKSURI,
			AuthorizationServers: auth.AuthorizationServers,
		})

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == ProtectedResourceMetadataEndpoint {
				metadataHandler(w, r)
				return
			}

			token, ok := bearerToken(r)
			if !ok {
				unauthorized(w, r, "missing bearer token")
				return
			}

			claims, err := validator.ValidateToken(r.Context(), token)
			if err != nil {
				logger.Warn("Rejected request with invalid bearer token",
					zap.String("path", r.URL.Path),
					zap.Error(err))
				unauthorized(w, r, "invalid bearer token")
				return
			}

			for _, scope := range auth.RequiredScopes {
				if !claims.HasScope(scope) {
					logger.Warn("Rejected request missing required scope",
						zap.String("path", r.URL.Path),
						zap.String("subject", claims.Subject),
						zap.String("missing_scope", scope))
					forbidden(w, scope)
					return
				}
			}

			next.ServeHTTP(w, r.WithContext(ContextWithClaims(r.Context(), claims)))
		})
	}
}

// bearerToken extracts the token from the Authorization header.
func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", false
	}
	return token, true
}

func unauthorized(w http.ResponseWriter, r *http.Request, description string) {
	metadataURL := resourceURL(r, ProtectedResourceMetadataEndpoint)
	w.Header().Set("WWW-Authenticate",
		fmt.Sprintf(`Bearer error="invalid_token", error_description=%q, resource_metadata=%q`, description, metadataURL))
	http.Error(w, "Unauthorized", http.StatusUnauthorized)
}

func forbidden(w http.ResponseWriter, scope string) {
	w.Header().Set("WWW-Authenticate",
		fmt.Sprintf(`Bearer error="insufficient_scope", scope=%q`, scope))
	http.Error(w, "Forbidden", http.StatusForbidden)
}
