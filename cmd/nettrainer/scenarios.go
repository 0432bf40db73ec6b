package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tturner/nettrainer/internal/scenario"
)

func newScenariosCmd() *cobra.Command {
	var showHints bool
	cmd := &cobra.Command{
		Use:   "scenarios",
		Short: "List the fault scenarios",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Available scenarios:")
			for _, sc := range scenario.All() {
				fmt.Fprintf(out, "  %-22s %-32s first step: %s\n", sc.Key(), sc.DisplayName(), sc.FirstStep())
				if showHints {
					fmt.Fprintf(out, "  %-22s hint: %s\n", "", sc.Hint())
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&showHints, "hints", false, "Show the hint of each scenario")
	return cmd
}
