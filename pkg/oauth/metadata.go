package oauth

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// ProtectedResourceMetadataEndpoint is where clients discover the resource
// metadata, per RFC 9728.
const ProtectedResourceMetadataEndpoint = "/.well-known/oauth-protected-resource"

// ProtectedResourceMetadata is the OAuth 2.0 Protected Resource Metadata
// document defined in RFC 9728.
type ProtectedResourceMetadata struct {
	Resource               string   `json:"resource"`
	ResourceName           string   `json:"resource_name,omitempty"`
	AuthorizationServers   []string `json:"authorization_servers,omitempty"`
	ScopesSupported        []string `json:"scopes_supported,omitempty"`
	BearerMethodsSupported []string `json:"bearer_methods_supported,omitempty"`
	JWKSURI                string   `json:"jwks_uri,omitempty"`
}

// MetadataConfig holds what the gateway advertises about itself.
type MetadataConfig struct {
	ResourceName         string
	BasePath             string
	AuthorizationServers []string
	ScopesSupported      []string
	JWKSURI              string
}

// NewProtectedResourceMetadataHandler builds the handler for
// ProtectedResourceMetadataEndpoint. The resource identifier is derived from
// the incoming request so the advertised URL matches whatever host the
// gateway is reached through.
func NewProtectedResourceMetadataHandler(config MetadataConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodOptions:
			writeCORSHeaders(w)
			w.WriteHeader(http.StatusNoContent)
			return
		case http.MethodGet:
			// handled below
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		metadata := ProtectedResourceMetadata{
			Resource:               resourceURL(r, config.BasePath),
			ResourceName:           config.ResourceName,
			AuthorizationServers:   config.AuthorizationServers,
			ScopesSupported:        config.ScopesSupported,
			JWKSURI:                config.JWKSURI,
			BearerMethodsSupported: []string{"header"}, // Authorization header only
		}

		writeCORSHeaders(w)
		w.WriteHeader(http.StatusOK)
		if err := json.NewEncoder(w).Encode(metadata); err != nil {
			http.Error(w, "Failed to encode OAuth metadata", http.StatusInternalServerError)
		}
	}
}

// resourceURL reconstructs the externally visible URL of the MCP endpoint,
// honoring X-Forwarded-Proto for gateways behind a proxy.
func resourceURL(r *http.Request, basePath string) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}

	return fmt.Sprintf("%s://%s%s", scheme, r.Host, basePath)
}

func writeCORSHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, mcp-protocol-version")
}
