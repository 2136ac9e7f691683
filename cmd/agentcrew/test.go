package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newTestCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "test",
		Short: "Run the configured test command (syntax-only when it is missing)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			crew, err := newCrew(flags)
			if err != nil {
				return err
			}
			passed, output := crew.Tester().Run(cmd.Context())
			fmt.Fprintln(cmd.OutOrStdout(), output)
			if !passed {
				return errFailed
			}
			return nil
		},
	}
}
