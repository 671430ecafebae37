package main

import (
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Long: `Serves the quiz as a JSON API with server-side sessions, SSE state diffs
and Prometheus metrics on /metrics.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			app, err := opts.newApp(ctx, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer app.Close()

			if addr != "" {
				app.Config.HTTP.Addr = addr
			}
			ln, err := net.Listen("tcp", app.Config.HTTP.Addr)
			if err != nil {
				return fmt.Errorf("failed to listen on %s: %w", app.Config.HTTP.Addr, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Advisor API listening on %s\n", ln.Addr())
			return app.Serve(ctx, ln)
		},
	}
	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Address to listen on (overrides http.addr)")
	return cmd
}
