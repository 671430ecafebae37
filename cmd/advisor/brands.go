package main

import (
	"fmt"

	"github.com/aretw0/advisor/pkg/domain"
	"github.com/spf13/cobra"
)

func newBrandsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "brands",
		Short: "List the supported brands",
		Run: func(cmd *cobra.Command, args []string) {
			for _, b := range domain.Brands() {
				status := "available"
				if !b.Available {
					status = "coming soon"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-10s %-10s %s\n", b.ID, b.Name, status)
			}
		},
	}
}
