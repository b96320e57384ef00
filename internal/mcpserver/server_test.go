package mcpserver

import (
	"context"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"genbridge/internal/adapter"
	"genbridge/internal/model"
)

func demoAdapter() *adapter.Adapter {
	return adapter.NewWithConfig(adapter.Config{
		Loader:        model.NewLoader(model.OpenOptions{Backend: model.BackendDemo, DemoLoadDelay: -1, DemoInferDelay: -1}, nil),
		FallbackDelay: -1,
		Selector:      func(int) int { return 0 },
	})
}

func connect(t *testing.T, ctx context.Context, a *adapter.Adapter) *mcp.ClientSession {
	t.Helper()
	serverTransport, clientTransport := mcp.NewInMemoryTransports()
	go func() {
		_ = Run(ctx, a, "v1.0.0-test", serverTransport)
	}()
	client := mcp.NewClient(&mcp.Implementation{
		Name:    "test-client",
		Version: "v1.0.0",
	}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	return session
}

func callText(t *testing.T, ctx context.Context, s *mcp.ClientSession, name string, args map[string]any) (string, bool) {
	t.Helper()
	res, err := s.CallTool(ctx, &mcp.CallToolParams{Name: name, Arguments: args})
	require.NoError(t, err)
	require.NotEmpty(t, res.Content)
	return res.Content[0].(*mcp.TextContent).Text, res.IsError
}

func TestNew_ReturnsServer(t *testing.T) {
	assert.NotNil(t, New(demoAdapter(), "v1.0.0-test"))
}

func TestServer_ListsTools(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	session := connect(t, ctx, demoAdapter())
	defer session.Close() //nolint:errcheck // best-effort close in test

	result, err := session.ListTools(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, result.Tools, 4)

	names := make(map[string]bool)
	for _, tool := range result.Tools {
		names[tool.Name] = true
	}
	for _, n := range []string{"load_model", "generate_text", "is_model_loaded", "model_info"} {
		assert.True(t, names[n], "should have %s tool", n)
	}
}

func TestServer_LoadAndGenerateFlow(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	session := connect(t, ctx, demoAdapter())
	defer session.Close() //nolint:errcheck // best-effort close in test

	text, _ := callText(t, ctx, session, "is_model_loaded", map[string]any{})
	assert.Equal(t, "false", text)

	text, _ = callText(t, ctx, session, "model_info", map[string]any{})
	assert.Equal(t, "null", text)

	text, _ = callText(t, ctx, session, "generate_text", map[string]any{"prompt": "hello"})
	assert.Equal(t, adapter.DefaultCatalog[0]+" (model not loaded - using fallback responses)", text)

	text, isErr := callText(t, ctx, session, "load_model", map[string]any{})
	assert.Equal(t, "loaded", text)
	assert.False(t, isErr)

	text, _ = callText(t, ctx, session, "is_model_loaded", map[string]any{})
	assert.Equal(t, "true", text)

	text, _ = callText(t, ctx, session, "generate_text", map[string]any{"prompt": "hello", "max_tokens": 8})
	assert.Equal(t, "Response to: 'hello'", text)

	text, _ = callText(t, ctx, session, "model_info", map[string]any{})
	assert.Contains(t, text, `"backend": "demo"`)
	assert.Contains(t, text, `"kind": "integer_tensor"`)
}

func TestHandleLoad_FailureIsToolError(t *testing.T) {
	a := adapter.NewWithConfig(adapter.Config{
		Loader: model.NewLoader(model.OpenOptions{Backend: model.BackendONNX, Path: "/definitely/missing.onnx"}, nil),
	})
	res, _, err := (&tools{svc: a}).handleLoad(context.Background(), nil, EmptyInput{})
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestHandleGenerate_RejectsNegativeMaxTokens(t *testing.T) {
	_, _, err := (&tools{svc: demoAdapter()}).handleGenerate(context.Background(), nil, GenerateInput{Prompt: "p", MaxTokens: -1})
	assert.Error(t, err)
}
