package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"genbridge/internal/mcpserver"
)

func newMCPCmd(a *app) *cobra.Command {
	mcpCmd := &cobra.Command{
		Use:   "mcp",
		Short: "Model Context Protocol server",
	}
	var loadOnStart bool
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the generation tools over stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			if loadOnStart || a.cfg.LoadOnStart {
				go a.loadNow(ctx)
			}
			a.log.Info().Str("version", version).Msg("mcp server on stdio")
			return mcpserver.Run(ctx, a.adapter, version, &mcp.StdioTransport{})
		},
	}
	serveCmd.Flags().BoolVar(&loadOnStart, "load-on-start", false, "Load the model in the background at startup")
	mcpCmd.AddCommand(serveCmd)
	return mcpCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		// Skip config resolution.
		PersistentPreRunE:  func(*cobra.Command, []string) error { return nil },
		PersistentPostRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "genbridge", version)
		},
	}
}
