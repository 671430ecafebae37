package main

import (
	"fmt"

	"github.com/aretw0/advisor/pkg/domain"
	"github.com/spf13/cobra"
)

func newValidateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [brand...]",
		Short: "Check the datasets for consistency",
		Long: `Reports buttons pointing at missing pages and duplicate page numbers as
errors, and result codes missing from the catalog and pages unreachable
from page 1 as warnings. Validates every brand when none is given.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			brands, err := brandArgs(args)
			if err != nil {
				return err
			}
			app, err := opts.newApp(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer app.Close()

			out := cmd.OutOrStdout()
			failed := 0
			for _, b := range brands {
				report, err := app.Engine.Validate(b)
				if err != nil {
					fmt.Fprintf(out, "❌ %s: %v\n", b, err)
					failed++
					continue
				}
				for _, w := range report.Warnings() {
					fmt.Fprintf(out, "⚠️  %s: %s\n", b, w)
				}
				if !report.Valid() {
					fmt.Fprintf(out, "❌ %s: %v\n", b, report.Err())
					failed++
					continue
				}
				fmt.Fprintf(out, "✅ %s: %d pages\n", b, report.Pages)
			}
			if failed > 0 {
				return fmt.Errorf("validation failed for %d of %d brands", failed, len(brands))
			}
			return nil
		},
	}
}

func brandArgs(args []string) ([]domain.Brand, error) {
	if len(args) == 0 {
		var all []domain.Brand
		for _, info := range domain.Brands() {
			all = append(all, info.ID)
		}
		return all, nil
	}
	brands := make([]domain.Brand, 0, len(args))
	for _, a := range args {
		b, err := domain.ParseBrand(a)
		if err != nil {
			return nil, err
		}
		brands = append(brands, b)
	}
	return brands, nil
}
