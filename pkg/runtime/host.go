// Package runtime wires the pieces of a launch together: it loads the
// descriptor and host config, derives the child's launch parameters from the
// user config, starts the child, and serves it through the gateway.
package runtime

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/mcplaunch/mcp-launch/pkg/config/host"
	"github.com/mcplaunch/mcp-launch/pkg/descriptor"
	"github.com/mcplaunch/mcp-launch/pkg/health"
	"github.com/mcplaunch/mcp-launch/pkg/launcher"
	"github.com/mcplaunch/mcp-launch/pkg/proxy"
)

// LoadDescriptor parses, defaults, and validates a launch descriptor file.
func LoadDescriptor(path string) (*descriptor.LaunchDescriptorFile, error) {
	file, err := descriptor.ParseFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to parse launch descriptor: %w", err)
	}

	file.ApplyDefaults()

	if err := file.Validate(); err != nil {
		return nil, fmt.Errorf("launch descriptor is invalid: %w", err)
	}

	return file, nil
}

// LoadHostConfig parses, defaults, and validates a host config file. An
// empty path yields the default stdio host.
func LoadHostConfig(path string) (*host.HostConfig, error) {
	if path == "" {
		cfg := host.DefaultConfig()
		cfg.ApplyDefaults()
		return cfg, nil
	}

	file, err := host.ParseFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to parse host config: %w", err)
	}

	file.ApplyDefaults()

	if err := file.Validate(); err != nil {
		return nil, fmt.Errorf("host config is invalid: %w", err)
	}

	return &file.HostConfig, nil
}

// PrepareLaunch checks the user config against the descriptor's schema and
// derives the launch spec. This is the gate the host applies before any
// process is started: config that does not satisfy the schema never reaches
// the child.
func PrepareLaunch(d *descriptor.LaunchDescriptor, cfg map[string]any) (*descriptor.LaunchSpec, error) {
	if err := d.StartCommand.ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("config does not satisfy the descriptor's schema: %w", err)
	}

	return d.StartCommand.Transform(cfg), nil
}

// RunHost runs the full host lifecycle for the given descriptor and host
// config paths: launch the child, mirror its capabilities, and serve them
// until ctx is cancelled.
func RunHost(ctx context.Context, descriptorPath, hostConfigPath string, cfg map[string]any) error {
	file, err := LoadDescriptor(descriptorPath)
	if err != nil {
		return err
	}

	hostConfig, err := LoadHostConfig(hostConfigPath)
	if err != nil {
		return err
	}

	logger := hostConfig.Runtime.GetBaseLogger()
	defer func() {
		_ = logger.Sync()
	}()

	d := &file.LaunchDescriptor
	logger.Info("Starting launch host",
		zap.String("descriptor_name", d.Name),
		zap.String("descriptor_version", d.Version),
		zap.String("transport_protocol", hostConfig.Runtime.TransportProtocol))

	spec, err := PrepareLaunch(d, cfg)
	if err != nil {
		logger.Error("Config validation failed", zap.Error(err))
		return err
	}

	return runHost(ctx, d, hostConfig, spec)
}

func runHost(ctx context.Context, d *descriptor.LaunchDescriptor, hostConfig *host.HostConfig, spec *descriptor.LaunchSpec) error {
	logger := hostConfig.Runtime.GetBaseLogger()

	l := launcher.New(spec,
		launcher.WithLogger(logger),
		launcher.WithGracePeriod(hostConfig.Runtime.GracePeriod()),
	)

	// The command must not share ctx: cancellation would SIGKILL the child
	// before it gets the chance to shut down on SIGTERM.
	cmd := l.Cmd(context.WithoutCancel(ctx))

	session, err := proxy.Dial(ctx, cmd, d.Version, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := session.Close(); err != nil {
			logger.Warn("Error closing child session", zap.Error(err))
		}
		if err := l.Stop(context.Background(), cmd); err != nil {
			logger.Warn("Error stopping child process", zap.Error(err))
		}
	}()

	checker := health.NewChecker()

	server, err := proxy.MirrorServer(ctx, session, d.Name, d.Version, logger)
	if err != nil {
		logger.Error("Failed to mirror child server", zap.Error(err))
		return err
	}
	checker.SetReady(true)

	gateway := &proxy.Gateway{
		Name:    d.Name,
		Runtime: hostConfig.Runtime,
		Server:  server,
		Checker: checker,
	}

	return gateway.Run(ctx)
}
