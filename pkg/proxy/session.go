// Package proxy connects to a launched MCP server over stdio and re-exposes
// it through the host's transport. The child owns the tool semantics; the
// proxy owns the transport, auth, and observability around them.
package proxy

import (
	"context"
	"fmt"
	"os/exec"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"
)

const (
	clientName = "mcplaunch"
)

// Dial starts the child command and performs the MCP initialize handshake
// over its stdin/stdout. The returned session owns the child process: closing
// the session shuts the child down.
func Dial(ctx context.Context, cmd *exec.Cmd, version string, logger *zap.Logger) (*mcp.ClientSession, error) {
	logger.Info("Connecting to child MCP server",
		zap.String("command", cmd.Path),
		zap.Strings("args", cmd.Args[1:]))

	client := mcp.NewClient(&mcp.Implementation{
		Name:    clientName,
		Version: version,
	}, nil)

	session, err := client.Connect(ctx, &mcp.CommandTransport{Command: cmd}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to child MCP server: %w", err)
	}

	init := session.InitializeResult()
	if init != nil && init.ServerInfo != nil {
		logger.Info("Child MCP server initialized",
			zap.String("server_name", init.ServerInfo.Name),
			zap.String("server_version", init.ServerInfo.Version))
	}

	return session, nil
}
