package host

import (
	"fmt"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mcplaunch/mcp-launch/pkg/observability/logging"
)

const (
	TransportProtocolStreamableHttp = "streamablehttp"
	TransportProtocolStdio          = "stdio"
	KindHostConfig                  = "HostConfig"
)

// StreamableHTTPConfig defines configuration for the HTTP gateway.
type StreamableHTTPConfig struct {
	// Port number to listen on.
	Port int `json:"port,omitempty" jsonschema:"optional"`

	// Base path for the MCP endpoint (default: /mcp).
	BasePath string `json:"basePath,omitempty" jsonschema:"optional"`

	// Indicates whether the gateway is stateless (default: true when unset).
	Stateless *bool `json:"stateless,omitempty" jsonschema:"optional"`

	// OAuth 2.0 configuration for protected resources.
	Auth *AuthConfig `json:"auth,omitempty" jsonschema:"optional"`

	// TLS configuration for HTTPS.
	TLS *TLSConfig `json:"tls,omitempty" jsonschema:"optional"`

	// Health check configuration for k8s probes.
	Health *HealthConfig `json:"health,omitempty" jsonschema:"optional"`
}

// TLSConfig defines paths to TLS certificate and private key files.
type TLSConfig struct {
	// Absolute path to the gateway's public certificate.
	CertFile string `json:"certFile,omitempty" jsonschema:"optional"`

	// Absolute path to the gateway's private key.
	KeyFile string `json:"keyFile,omitempty" jsonschema:"optional"`
}

type HealthConfig struct {
	// Enable health endpoints (default: true when running HTTP)
	Enabled *bool `json:"enabled,omitempty" jsonschema:"optional"`

	// Path for liveness probe (default: /healthz)
	LivenessPath string `json:"livenessPath,omitempty" jsonschema:"optional"`

	// Path for readiness probe (default: /readyz)
	ReadinessPath string `json:"readinessPath,omitempty" jsonschema:"optional"`
}

// AuthConfig defines OAuth 2.0 authorization settings.
type AuthConfig struct {
	// List of authorization server URLs for token validation.
	AuthorizationServers []string `json:"authorizationServers,omitempty" jsonschema:"optional"`

	// URI for the JSON Web Key Set (JWKS) used for token verification.
	JWKSURI string `json:"jwksUri,omitempty" jsonschema:"optional"`

	// Scopes advertised in the protected resource metadata.
	ScopesSupported []string `json:"scopesSupported,omitempty" jsonschema:"optional"`

	// Scopes a token must carry to reach the gateway at all.
	RequiredScopes []string `json:"requiredScopes,omitempty" jsonschema:"optional"`
}

// StdioConfig defines configuration for stdio transport protocol.
type StdioConfig struct{}

// HostRuntime defines transport protocol and associated configuration for
// the host side of a launched server.
type HostRuntime struct {
	// Transport protocol the host exposes (streamablehttp or stdio).
	TransportProtocol string `json:"transportProtocol,omitempty" jsonschema:"optional"`

	// Configuration for streamable HTTP transport protocol.
	StreamableHTTPConfig *StreamableHTTPConfig `json:"streamableHttpConfig,omitempty" jsonschema:"optional"`

	// Configuration for stdio transport protocol.
	StdioConfig *StdioConfig `json:"stdioConfig,omitempty" jsonschema:"optional"`

	// Configuration for the host logging.
	LoggingConfig *logging.LoggingConfig `json:"loggingConfig,omitempty" jsonschema:"optional"`

	// ShutdownGracePeriod is how long the host waits after sending SIGTERM
	// to the child process before killing it, e.g. "10s".
	ShutdownGracePeriod string `json:"shutdownGracePeriod,omitempty" jsonschema:"optional"`

	baseLogger     *zap.Logger
	initLoggerOnce sync.Once
}

// GetBaseLogger returns the base logger for the host.
// If LoggingConfig is nil, it defaults to a console logger with info level.
// If LoggingConfig is provided but fails to build, it falls back to a
// console logger. If the runtime is nil, it returns a no-op logger.
func (hr *HostRuntime) GetBaseLogger() *zap.Logger {
	if hr == nil {
		return zap.NewNop()
	}

	hr.initLoggerOnce.Do(func() {
		lc := hr.LoggingConfig
		if lc == nil {
			lc = &logging.LoggingConfig{Encoding: "console", Level: "info"}
		}

		logger, err := lc.BuildBase()
		if err != nil || logger == nil {
			if err != nil {
				fmt.Fprintf(os.Stderr, "ERROR: Failed to build base logger, using default console logger: %v\n", err)
			}
			fallback := &logging.LoggingConfig{Encoding: "console", Level: "info"}
			logger, _ = fallback.BuildBase()
			if logger == nil {
				logger = zap.NewNop()
			}
		}
		hr.baseLogger = logger
	})

	return hr.baseLogger
}

// GracePeriod returns the parsed shutdown grace period, falling back to the
// default when unset or unparseable.
func (hr *HostRuntime) GracePeriod() time.Duration {
	if hr == nil || hr.ShutdownGracePeriod == "" {
		return DefaultShutdownGracePeriod
	}

	d, err := time.ParseDuration(hr.ShutdownGracePeriod)
	if err != nil || d <= 0 {
		return DefaultShutdownGracePeriod
	}
	return d
}

// HostConfig defines the runtime configuration of the host.
type HostConfig struct {
	// Runtime configuration for the host.
	Runtime *HostRuntime `json:"runtime,omitempty" jsonschema:"optional"`
}

// HostConfigFile is the root structure of a host config file (host.yaml).
type HostConfigFile struct {
	// Kind identifies the type of mcp-launch config file.
	Kind string `json:"kind" jsonschema:"required"`

	// Version of the mcp-launch config file format.
	SchemaVersion string `json:"schemaVersion" jsonschema:"required"`

	// Host configuration.
	HostConfig `json:",inline"`
}
