package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/aretw0/advisor/pkg/adapters/mcp"
	"github.com/spf13/cobra"
)

func newMCPCmd(opts *rootOptions) *cobra.Command {
	var (
		transport string
		addr      string
	)
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Run the Model Context Protocol (MCP) server",
		Long: `Exposes the quiz as MCP tools so AI agents can take it on a user's behalf.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Logs must not corrupt JSON-RPC on stdout.
			app, err := opts.newApp(cmd.Context(), os.Stderr)
			if err != nil {
				return err
			}
			defer app.Close()

			srv := mcp.NewServer(app.Engine, app.Sessions, mcp.WithLogger(app.Logger))
			switch transport {
			case "stdio":
				app.Logger.Info("starting MCP server (stdio)")
				return srv.ServeStdio()
			case "sse":
				ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
				defer stop()
				return srv.ServeSSE(ctx, addr)
			default:
				return fmt.Errorf("unknown transport: %s. Supported: stdio, sse", transport)
			}
		},
	}
	cmd.Flags().StringVar(&transport, "transport", "stdio", "Transport protocol to use: 'stdio' or 'sse'")
	cmd.Flags().StringVar(&addr, "addr", ":8081", "Address to listen on (only for SSE)")
	return cmd
}
