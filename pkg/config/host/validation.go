package host

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

func (h *HostConfigFile) Validate() error {
	return h.HostConfig.Validate()
}

func (h *HostConfig) Validate() error {
	if h.Runtime == nil {
		return nil
	}
	return h.Runtime.Validate()
}

func (hr *HostRuntime) Validate() error {
	var err error = nil

	switch strings.ToLower(hr.TransportProtocol) {
	case TransportProtocolStdio:
		// nothing to check
	case TransportProtocolStreamableHttp:
		if hr.StreamableHTTPConfig == nil {
			err = errors.Join(err, fmt.Errorf("invalid host runtime: streamableHttpConfig is required for %s transport", TransportProtocolStreamableHttp))
		} else if httpErr := hr.StreamableHTTPConfig.Validate(); httpErr != nil {
			err = errors.Join(err, fmt.Errorf("invalid host runtime: streamableHttpConfig is invalid: %w", httpErr))
		}
	default:
		err = errors.Join(err, fmt.Errorf("invalid host runtime: transport protocol %q is not supported", hr.TransportProtocol))
	}

	if hr.ShutdownGracePeriod != "" {
		if _, parseErr := time.ParseDuration(hr.ShutdownGracePeriod); parseErr != nil {
			err = errors.Join(err, fmt.Errorf("invalid host runtime: shutdownGracePeriod is not a valid duration: %w", parseErr))
		}
	}

	return err
}

func (s *StreamableHTTPConfig) Validate() error {
	var err error = nil

	if s.Port < 0 || s.Port > 65535 {
		err = errors.Join(err, fmt.Errorf("invalid streamable http config: port %d is out of range", s.Port))
	}

	if s.BasePath != "" && !strings.HasPrefix(s.BasePath, "/") {
		err = errors.Join(err, fmt.Errorf("invalid streamable http config: basePath must start with /"))
	}

	if s.TLS != nil {
		if (s.TLS.CertFile == "") != (s.TLS.KeyFile == "") {
			err = errors.Join(err, fmt.Errorf("invalid streamable http config: tls requires both certFile and keyFile"))
		}
	}

	return err
}
