package proxy

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"
	"k8s.io/utils/ptr"

	"github.com/mcplaunch/mcp-launch/pkg/config/host"
	"github.com/mcplaunch/mcp-launch/pkg/health"
	"github.com/mcplaunch/mcp-launch/pkg/oauth"
)

// Gateway serves a mirrored MCP server over the transport the host config
// selects.
type Gateway struct {
	Name    string
	Runtime *host.HostRuntime
	Server  *mcp.Server
	Checker *health.Checker
}

// Run serves until the context is cancelled or the transport fails.
func (g *Gateway) Run(ctx context.Context) error {
	switch g.Runtime.TransportProtocol {
	case host.TransportProtocolStreamableHttp:
		return g.runStreamableHTTP(ctx)
	case host.TransportProtocolStdio:
		return g.runStdio(ctx)
	default:
		return fmt.Errorf("unsupported transport protocol: %s", g.Runtime.TransportProtocol)
	}
}

func (g *Gateway) runStdio(ctx context.Context) error {
	logger := g.Runtime.GetBaseLogger()
	logger.Info("Starting stdio gateway", zap.String("server_name", g.Name))

	if err := g.Server.Run(ctx, &mcp.StdioTransport{}); err != nil {
		logger.Error("Stdio gateway failed", zap.Error(err))
		return err
	}

	logger.Info("Stdio gateway completed")
	return nil
}

func (g *Gateway) runStreamableHTTP(ctx context.Context) error {
	logger := g.Runtime.GetBaseLogger()
	httpConfig := g.Runtime.StreamableHTTPConfig
	stateless := ptr.Deref(httpConfig.Stateless, true)

	logger.Info("Setting up streamable HTTP gateway",
		zap.Int("port", httpConfig.Port),
		zap.String("base_path", httpConfig.BasePath),
		zap.Bool("stateless", stateless))

	mux := http.NewServeMux()

	handler := mcp.NewStreamableHTTPHandler(func(r *http.Request) *mcp.Server {
		return g.Server
	}, &mcp.StreamableHTTPOptions{
		Stateless: stateless,
	})

	mux.Handle(httpConfig.BasePath, oauth.Middleware(g.Name, httpConfig, logger)(handler))

	if httpConfig.Auth != nil {
		mux.HandleFunc(oauth.ProtectedResourceMetadataEndpoint, oauth.NewProtectedResourceMetadataHandler(oauth.MetadataConfig{
			ResourceName:         g.Name,
			BasePath:             httpConfig.BasePath,
			AuthorizationServers: httpConfig.Auth.AuthorizationServers,
			ScopesSupported:      httpConfig.Auth.ScopesSupported,
			JWKSURI:              httpConfig.Auth.JWKSURI,
		}))
		logger.Debug("Registered OAuth metadata handler",
			zap.String("path", oauth.ProtectedResourceMetadataEndpoint))
	}

	if hc := httpConfig.Health; hc != nil && ptr.Deref(hc.Enabled, false) {
		checker := g.Checker
		if checker == nil {
			checker = health.NewChecker()
			checker.SetReady(true)
		}
		mux.HandleFunc(hc.LivenessPath, checker.LivenessHandler)
		mux.HandleFunc(hc.ReadinessPath, checker.ReadinessHandler)
		logger.Debug("Registered health handlers",
			zap.String("liveness_path", hc.LivenessPath),
			zap.String("readiness_path", hc.ReadinessPath))
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", httpConfig.Port),
		Handler: mux,
	}

	errCh := make(chan error, 1)
	go func() {
		var err error
		if httpConfig.TLS != nil {
			logger.Info("Starting HTTPS gateway",
				zap.String("cert_file", httpConfig.TLS.CertFile),
				zap.String("key_file", httpConfig.TLS.KeyFile))
			err = srv.ListenAndServeTLS(httpConfig.TLS.CertFile, httpConfig.TLS.KeyFile)
		} else {
			logger.Info("Starting HTTP gateway", zap.Int("port", httpConfig.Port))
			err = srv.ListenAndServe()
		}

		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("Received shutdown signal, shutting down HTTP gateway gracefully")
		if err := srv.Shutdown(context.Background()); err != nil {
			logger.Error("Error during gateway shutdown", zap.Error(err))
			return err
		}
		logger.Info("HTTP gateway shutdown completed")
		return nil
	case err := <-errCh:
		logger.Error("HTTP gateway failed", zap.Error(err))
		return err
	}
}
