package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/advisor"
	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of advisor",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "advisor version %s\n", strings.TrimSpace(advisor.Version))
		},
	}
}
