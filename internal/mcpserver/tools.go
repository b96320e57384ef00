package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"genbridge/internal/adapter"
	"genbridge/internal/bridge"
)

// defaultMaxTokens is passed when generate_text omits max_tokens.
const defaultMaxTokens = 100

// GenerateInput is the input schema for the generate_text tool.
type GenerateInput struct {
	Prompt    string `json:"prompt" jsonschema:"Prompt text; may be empty"`
	MaxTokens int    `json:"max_tokens,omitempty" jsonschema:"Requested reply length; accepted for compatibility, not a hard cap (default 100)"`
}

// EmptyInput is the input schema for tools without arguments.
type EmptyInput struct{}

// boolPtr returns a pointer to a bool.
func boolPtr(b bool) *bool { return &b }

type tools struct {
	svc bridge.Service
}

// registerTools adds all generation tools to the MCP server.
func registerTools(server *mcp.Server, t *tools) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "load_model",
		Description: "Load (or reload) the on-device text model. Returns whether the load succeeded.",
		Annotations: &mcp.ToolAnnotations{
			DestructiveHint: boolPtr(false),
			OpenWorldHint:   boolPtr(false),
		},
	}, t.handleLoad)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "generate_text",
		Description: "Generate a reply for a prompt. Always returns text; when the model is unavailable or incompatible the reply is a fallback annotated with the reason.",
		Annotations: &mcp.ToolAnnotations{
			ReadOnlyHint:    true,
			DestructiveHint: boolPtr(false),
			OpenWorldHint:   boolPtr(false),
		},
	}, t.handleGenerate)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "is_model_loaded",
		Description: "Report whether a model is currently loaded.",
		Annotations: &mcp.ToolAnnotations{
			ReadOnlyHint:    true,
			DestructiveHint: boolPtr(false),
			OpenWorldHint:   boolPtr(false),
		},
	}, t.handleIsLoaded)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "model_info",
		Description: "Describe the loaded model: backend, artifact path and declared input/output schema.",
		Annotations: &mcp.ToolAnnotations{
			ReadOnlyHint:    true,
			DestructiveHint: boolPtr(false),
			OpenWorldHint:   boolPtr(false),
		},
	}, t.handleModelInfo)
}

func textResult(s string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: s},
		},
	}
}

func (t *tools) dispatch(ctx context.Context, m bridge.Method, args map[string]any) (any, error) {
	return bridge.Dispatch(ctx, t.svc, bridge.Call{Method: string(m), Arguments: args})
}

func (t *tools) handleLoad(ctx context.Context, _ *mcp.CallToolRequest, _ EmptyInput) (*mcp.CallToolResult, any, error) {
	res, err := t.dispatch(ctx, bridge.MethodLoadModel, nil)
	if err != nil {
		return nil, nil, err
	}
	if ok, _ := res.(bool); ok {
		return textResult("loaded"), nil, nil
	}
	r := textResult("load failed; generate_text will return fallback replies")
	r.IsError = true
	return r, nil, nil
}

func (t *tools) handleGenerate(ctx context.Context, _ *mcp.CallToolRequest, input GenerateInput) (*mcp.CallToolResult, any, error) {
	if input.MaxTokens < 0 {
		return nil, nil, fmt.Errorf("max_tokens must be >= 0")
	}
	maxTokens := input.MaxTokens
	if maxTokens == 0 {
		maxTokens = defaultMaxTokens
	}
	res, err := t.dispatch(ctx, bridge.MethodGenerateText, map[string]any{
		bridge.ArgPrompt:    input.Prompt,
		bridge.ArgMaxTokens: maxTokens,
	})
	if err != nil {
		return nil, nil, err
	}
	text, _ := res.(string)
	return textResult(text), nil, nil
}

func (t *tools) handleIsLoaded(ctx context.Context, _ *mcp.CallToolRequest, _ EmptyInput) (*mcp.CallToolResult, any, error) {
	res, err := t.dispatch(ctx, bridge.MethodIsModelLoaded, nil)
	if err != nil {
		return nil, nil, err
	}
	ok, _ := res.(bool)
	return textResult(strconv.FormatBool(ok)), nil, nil
}

func (t *tools) handleModelInfo(ctx context.Context, _ *mcp.CallToolRequest, _ EmptyInput) (*mcp.CallToolResult, any, error) {
	res, err := t.dispatch(ctx, bridge.MethodGetModelInfo, nil)
	if err != nil {
		return nil, nil, err
	}
	d, _ := res.(*adapter.Details)
	if d == nil {
		return textResult("null"), nil, nil
	}
	b, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return nil, nil, fmt.Errorf("encode model info: %w", err)
	}
	return textResult(string(b)), nil, nil
}
