package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newWriteCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "write [instruction...]",
		Short: "Write, cite, save and commit a single Markdown document",
		RunE: func(cmd *cobra.Command, args []string) error {
			instruction := readInput(cmd, args, "Instruction > ")

			crew, err := newCrew(flags)
			if err != nil {
				return err
			}
			md, err := crew.Writer().GenerateDocument(cmd.Context(), instruction)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), md)
			return nil
		},
	}
}
