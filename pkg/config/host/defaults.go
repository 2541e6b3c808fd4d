package host

import "time"

// Default values for host configuration.
const (
	// DefaultBasePath is the default base path for the MCP endpoint.
	DefaultBasePath = "/mcp"

	// DefaultPort is the default port for the streamable HTTP gateway.
	DefaultPort = 8080

	// DefaultLivenessPath is the default path for the liveness probe endpoint.
	DefaultLivenessPath = "/healthz"

	// DefaultReadinessPath is the default path for the readiness probe endpoint.
	DefaultReadinessPath = "/readyz"

	// DefaultShutdownGracePeriod is how long the child process gets between
	// SIGTERM and SIGKILL when the host shuts down.
	DefaultShutdownGracePeriod = 10 * time.Second
)

// DefaultConfig returns the host configuration used when no host config file
// is provided: a stdio host with default logging.
func DefaultConfig() *HostConfig {
	cfg := &HostConfig{
		Runtime: &HostRuntime{
			TransportProtocol: TransportProtocolStdio,
		},
	}
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults applies default values to the HostConfig after parsing.
func (h *HostConfig) ApplyDefaults() {
	if h.Runtime == nil {
		h.Runtime = &HostRuntime{}
	}
	h.Runtime.ApplyDefaults()
}

// ApplyDefaults applies default values to the HostConfigFile after parsing.
func (h *HostConfigFile) ApplyDefaults() {
	h.HostConfig.ApplyDefaults()
}

// ApplyDefaults applies default values to HostRuntime.
func (hr *HostRuntime) ApplyDefaults() {
	if hr.TransportProtocol == "" {
		hr.TransportProtocol = TransportProtocolStdio
	}

	if hr.TransportProtocol == TransportProtocolStreamableHttp {
		if hr.StreamableHTTPConfig == nil {
			hr.StreamableHTTPConfig = &StreamableHTTPConfig{}
		}
		hr.StreamableHTTPConfig.ApplyDefaults()
	}
}

// ApplyDefaults applies default values to StreamableHTTPConfig.
func (s *StreamableHTTPConfig) ApplyDefaults() {
	if s.Port <= 0 {
		s.Port = DefaultPort
	}
	if s.BasePath == "" {
		s.BasePath = DefaultBasePath
	}
	// Stateless defaults to true when nil
	if s.Stateless == nil {
		stateless := true
		s.Stateless = &stateless
	}

	if s.Health == nil {
		s.Health = &HealthConfig{}
	}
	s.Health.ApplyDefaults()
}

// ApplyDefaults applies default values to HealthConfig.
func (h *HealthConfig) ApplyDefaults() {
	// Enabled defaults to true when nil
	if h.Enabled == nil {
		enabled := true
		h.Enabled = &enabled
	}
	if h.LivenessPath == "" {
		h.LivenessPath = DefaultLivenessPath
	}
	if h.ReadinessPath == "" {
		h.ReadinessPath = DefaultReadinessPath
	}
}
