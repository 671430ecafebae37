package main

import (
	"os"

	"github.com/aretw0/advisor"
	"github.com/aretw0/advisor/internal/presentation/tui"
	"github.com/aretw0/advisor/pkg/domain"
	"github.com/spf13/cobra"
)

func newPlayCmd(opts *rootOptions) *cobra.Command {
	var brand string
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Take the quiz in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := opts.newApp(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer app.Close()

			runner := advisor.NewRunner(cmd.InOrStdin(), cmd.OutOrStdout())
			if brand != "" {
				b, err := domain.ParseBrand(brand)
				if err != nil {
					return err
				}
				runner.Brand = b
			}

			if out, ok := cmd.OutOrStdout().(*os.File); ok && tui.IsInteractive(out) {
				tui.PrintBanner(out, advisor.Version)
				runner.Renderer = advisor.ContentRenderer(tui.NewRenderer())
			} else {
				runner.Headless = true
			}

			if app.Config.Data.Watch {
				app.WatchDatasets(cmd.Context())
			}
			return runner.Run(cmd.Context(), app.Engine)
		},
	}
	cmd.Flags().StringVarP(&brand, "brand", "b", "", "Skip the brand selector")
	return cmd
}
