package proxy

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/mcplaunch/mcp-launch/pkg/observability/logging"
)

// MirrorServer builds an MCP server that advertises the child session's
// tools, prompts, resources, and resource templates, forwarding every
// invocation to the child. The advertised server identity comes from the
// descriptor, not the child, so clients see the name the descriptor declares.
func MirrorServer(ctx context.Context, session *mcp.ClientSession, name, version string, logger *zap.Logger) (*mcp.Server, error) {
	init := session.InitializeResult()
	if init == nil {
		return nil, fmt.Errorf("child session is not initialized")
	}

	opts := &mcp.ServerOptions{
		Instructions: init.Instructions,
	}

	s := mcp.NewServer(&mcp.Implementation{
		Name:    name,
		Version: version,
	}, opts)

	s.AddReceivingMiddleware(logging.WithLoggingMiddleware(logger))

	caps := init.Capabilities
	if caps == nil {
		logger.Warn("Child server reported no capabilities, nothing to mirror")
		return s, nil
	}

	if caps.Tools != nil {
		if err := mirrorTools(ctx, session, s, logger); err != nil {
			return nil, err
		}
	}

	if caps.Prompts != nil {
		if err := mirrorPrompts(ctx, session, s, logger); err != nil {
			return nil, err
		}
	}

	if caps.Resources != nil {
		if err := mirrorResources(ctx, session, s, logger); err != nil {
			return nil, err
		}
	}

	return s, nil
}

func mirrorTools(ctx context.Context, session *mcp.ClientSession, s *mcp.Server, logger *zap.Logger) error {
	var cursor string
	count := 0
	for {
		res, err := session.ListTools(ctx, &mcp.ListToolsParams{Cursor: cursor})
		if err != nil {
			return fmt.Errorf("failed to list child tools: %w", err)
		}

		for _, tool := range res.Tools {
			s.AddTool(tool, forwardToolHandler(session, tool.Name))
			logger.Debug("Mirrored tool", zap.String("tool_name", tool.Name))
			count++
		}

		if res.NextCursor == "" {
			break
		}
		cursor = res.NextCursor
	}

	logger.Info("Mirrored child tools", zap.Int("count", count))
	return nil
}

func mirrorPrompts(ctx context.Context, session *mcp.ClientSession, s *mcp.Server, logger *zap.Logger) error {
	var cursor string
	count := 0
	for {
		res, err := session.ListPrompts(ctx, &mcp.ListPromptsParams{Cursor: cursor})
		if err != nil {
			return fmt.Errorf("failed to list child prompts: %w", err)
		}

		for _, prompt := range res.Prompts {
			s.AddPrompt(prompt, forwardPromptHandler(session, prompt.Name))
			logger.Debug("Mirrored prompt", zap.String("prompt_name", prompt.Name))
			count++
		}

		if res.NextCursor == "" {
			break
		}
		cursor = res.NextCursor
	}

	logger.Info("Mirrored child prompts", zap.Int("count", count))
	return nil
}

func mirrorResources(ctx context.Context, session *mcp.ClientSession, s *mcp.Server, logger *zap.Logger) error {
	var cursor string
	count := 0
	for {
		res, err := session.ListResources(ctx, &mcp.ListResourcesParams{Cursor: cursor})
		if err != nil {
			return fmt.Errorf("failed to list child resources: %w", err)
		}

		for _, resource := range res.Resources {
			s.AddResource(resource, forwardResourceHandler(session))
			logger.Debug("Mirrored resource", zap.String("resource_uri", resource.URI))
			count++
		}

		if res.NextCursor == "" {
			break
		}
		cursor = res.NextCursor
	}

	cursor = ""
	for {
		res, err := session.ListResourceTemplates(ctx, &mcp.ListResourceTemplatesParams{Cursor: cursor})
		if err != nil {
			return fmt.Errorf("failed to list child resource templates: %w", err)
		}

		for _, template := range res.ResourceTemplates {
			s.AddResourceTemplate(template, forwardResourceHandler(session))
			logger.Debug("Mirrored resource template", zap.String("uri_template", template.URITemplate))
			count++
		}

		if res.NextCursor == "" {
			break
		}
		cursor = res.NextCursor
	}

	logger.Info("Mirrored child resources", zap.Int("count", count))
	return nil
}

func forwardToolHandler(session *mcp.ClientSession, toolName string) mcp.ToolHandler {
	return func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		clientLogger := logging.FromContext(ctx)
		clientLogger.Info("Tool invocation started", zap.String("tool_name", toolName))

		// The raw argument bytes pass through to the child unchanged.
		result, err := session.CallTool(ctx, &mcp.CallToolParams{
			Name:      toolName,
			Arguments: req.Params.Arguments,
		})
		if err != nil {
			clientLogger.Error("Tool invocation failed",
				zap.String("tool_name", toolName),
				zap.String("error", "invocation error"))
			return mcpTextError("tool invocation failed"), nil
		}

		clientLogger.Info("Tool invocation completed", zap.String("tool_name", toolName))
		return result, nil
	}
}

func forwardPromptHandler(session *mcp.ClientSession, promptName string) mcp.PromptHandler {
	return func(ctx context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
		clientLogger := logging.FromContext(ctx)
		clientLogger.Info("Prompt requested", zap.String("prompt_name", promptName))

		result, err := session.GetPrompt(ctx, req.Params)
		if err != nil {
			return nil, fmt.Errorf("prompt request failed: %w", err)
		}
		return result, nil
	}
}

func forwardResourceHandler(session *mcp.ClientSession) mcp.ResourceHandler {
	return func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		clientLogger := logging.FromContext(ctx)
		clientLogger.Info("Resource read requested", zap.String("uri", req.Params.URI))

		result, err := session.ReadResource(ctx, req.Params)
		if err != nil {
			return nil, fmt.Errorf("resource read failed: %w", err)
		}
		return result, nil
	}
}

func mcpTextError(format string, args ...any) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: fmt.Sprintf(format, args...)},
		},
		IsError: true,
	}
}
