// Package mcpserver exposes the adapter as Model Context Protocol tools so
// agents can load the model and generate text over stdio.
package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"genbridge/internal/bridge"
)

// New creates a new MCP server with the generation tools registered.
func New(svc bridge.Service, version string) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "genbridge",
		Title:   "genbridge - on-device text generation",
		Version: version,
	}, nil)

	registerTools(server, &tools{svc: svc})
	return server
}

// Run creates an MCP server and runs it on the given transport.
// It blocks until the client disconnects or the context is cancelled.
func Run(ctx context.Context, svc bridge.Service, version string, transport mcp.Transport) error {
	return New(svc, version).Run(ctx, transport)
}
