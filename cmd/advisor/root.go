package main

import (
	"context"
	"io"

	"github.com/aretw0/advisor/internal/cli"
	"github.com/aretw0/advisor/internal/config"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	configPath string
	debug      bool
	dataDir    string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "advisor",
		Short: "Advisor is a pet-food recommendation quiz engine",
		Long: `Advisor walks a brand's questionnaire of pages and buttons and recommends
products on the result pages. Run it in the terminal, as an HTTP API or as
an MCP server for AI agents.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "Path to the config file (default ./"+config.DefaultFile+" when present)")
	flags.BoolVar(&opts.debug, "debug", false, "Enable debug logging")
	flags.StringVar(&opts.dataDir, "data", "", "Directory with <brand>_navigation and <brand>_products datasets (default embedded)")

	cmd.AddCommand(
		newPlayCmd(opts),
		newServeCmd(opts),
		newValidateCmd(opts),
		newGraphCmd(opts),
		newBrandsCmd(),
		newMCPCmd(opts),
		newVersionCmd(),
	)
	return cmd
}

// loadConfig merges the config sources and applies the global flags on top.
func (o *rootOptions) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}
	if o.debug {
		cfg.Log.Level = "debug"
	}
	if o.dataDir != "" {
		cfg.Data.Dir = o.dataDir
	}
	return cfg, nil
}

// newApp builds the App with logs written to logOut.
func (o *rootOptions) newApp(ctx context.Context, logOut io.Writer) (*cli.App, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, err
	}
	return cli.NewApp(ctx, cfg, logOut)
}
