package proxy

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeChild builds an in-process MCP server standing in for a launched child,
// connected to the proxy over in-memory transports.
func fakeChild(t *testing.T, ctx context.Context) *mcp.ClientSession {
	t.Helper()

	child := mcp.NewServer(&mcp.Implementation{
		Name:    "fake-sheets",
		Version: "1.0.0",
	}, &mcp.ServerOptions{
		Instructions: "use the echo tool",
	})

	child.AddTool(&mcp.Tool{
		Name:        "echo",
		Description: "Echo back the input text",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"text": {Type: "string"},
			},
		},
	}, func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		raw, err := json.Marshal(req.Params.Arguments)
		if err != nil {
			return nil, err
		}
		var args map[string]any
		if err := json.Unmarshal(raw, &args); err != nil {
			return nil, err
		}
		text, _ := args["text"].(string)
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: text}},
		}, nil
	})

	child.AddPrompt(&mcp.Prompt{
		Name:        "greeting",
		Description: "A canned greeting",
	}, func(ctx context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
		return &mcp.GetPromptResult{
			Messages: []*mcp.PromptMessage{
				{Role: "user", Content: &mcp.TextContent{Text: "hello"}},
			},
		}, nil
	})

	clientTransport, serverTransport := mcp.NewInMemoryTransports()

	serverSession, err := child.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = serverSession.Close() })

	client := mcp.NewClient(&mcp.Implementation{Name: "mcplaunch", Version: "test"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = session.Close() })

	return session
}

// connectTo spins up a test client against the given server over in-memory
// transports, as the gateway transport would.
func connectTo(t *testing.T, ctx context.Context, server *mcp.Server) *mcp.ClientSession {
	t.Helper()

	clientTransport, serverTransport := mcp.NewInMemoryTransports()

	serverSession, err := server.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = serverSession.Close() })

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "test"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = session.Close() })

	return session
}

func TestMirrorServer(t *testing.T) {
	ctx := context.Background()
	childSession := fakeChild(t, ctx)

	mirror, err := MirrorServer(ctx, childSession, "google-sheets", "0.1.0", zap.NewNop())
	require.NoError(t, err)

	session := connectTo(t, ctx, mirror)

	t.Run("advertises descriptor identity", func(t *testing.T) {
		init := session.InitializeResult()
		require.NotNil(t, init)
		require.NotNil(t, init.ServerInfo)
		assert.Equal(t, "google-sheets", init.ServerInfo.Name)
		assert.Equal(t, "0.1.0", init.ServerInfo.Version)
		assert.Equal(t, "use the echo tool", init.Instructions)
	})

	t.Run("mirrors tools", func(t *testing.T) {
		res, err := session.ListTools(ctx, &mcp.ListToolsParams{})
		require.NoError(t, err)
		require.Len(t, res.Tools, 1)
		assert.Equal(t, "echo", res.Tools[0].Name)
		assert.Equal(t, "Echo back the input text", res.Tools[0].Description)
	})

	t.Run("forwards tool calls", func(t *testing.T) {
		res, err := session.CallTool(ctx, &mcp.CallToolParams{
			Name:      "echo",
			Arguments: map[string]any{"text": "roundtrip"},
		})
		require.NoError(t, err)
		require.Len(t, res.Content, 1)

		text, ok := res.Content[0].(*mcp.TextContent)
		require.True(t, ok)
		assert.Equal(t, "roundtrip", text.Text)
	})

	t.Run("mirrors prompts", func(t *testing.T) {
		res, err := session.ListPrompts(ctx, &mcp.ListPromptsParams{})
		require.NoError(t, err)
		require.Len(t, res.Prompts, 1)
		assert.Equal(t, "greeting", res.Prompts[0].Name)
	})

	t.Run("forwards prompt requests", func(t *testing.T) {
		res, err := session.GetPrompt(ctx, &mcp.GetPromptParams{Name: "greeting"})
		require.NoError(t, err)
		require.Len(t, res.Messages, 1)

		text, ok := res.Messages[0].Content.(*mcp.TextContent)
		require.True(t, ok)
		assert.Equal(t, "hello", text.Text)
	})

	t.Run("unknown tool returns error result", func(t *testing.T) {
		res, err := session.CallTool(ctx, &mcp.CallToolParams{Name: "missing"})
		if err == nil {
			assert.True(t, res.IsError)
		}
	})
}
