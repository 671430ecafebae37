package main

import (
	"encoding/json"
	"fmt"

	"github.com/aretw0/advisor/pkg/domain"
	"github.com/spf13/cobra"
)

func newGraphCmd(opts *rootOptions) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "graph <brand>",
		Short: "Export a brand's navigation graph",
		Long:  `Outputs a Mermaid diagram (graph TD) of the brand's pages, or the pages as JSON.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := opts.newApp(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer app.Close()

			brand := domain.Brand(args[0])
			out := cmd.OutOrStdout()
			switch format {
			case "mermaid":
				chart, err := app.Engine.Mermaid(brand, nil)
				if err != nil {
					return err
				}
				fmt.Fprint(out, chart)
			case "json":
				g, err := app.Engine.Graph(brand)
				if err != nil {
					return err
				}
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(g.Pages)
			default:
				return fmt.Errorf("unknown format %q (mermaid, json)", format)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "mermaid", "Output format: mermaid or json")
	return cmd
}
