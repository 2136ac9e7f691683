package main

import (
	"fmt"

	"github.com/hupe1980/agentcrew/core"
	"github.com/spf13/cobra"
)

func newPlanCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "plan [goal...]",
		Short: "Print the task checklist for a goal without executing it",
		RunE: func(cmd *cobra.Command, args []string) error {
			goal := readInput(cmd, args, "Goal > ")

			crew, err := newCrew(flags)
			if err != nil {
				return err
			}
			tasks, err := crew.Planner().Plan(cmd.Context(), goal)
			if err != nil {
				return err
			}
			if len(tasks) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Could not parse any tasks from your goal.")
				return errFailed
			}
			fmt.Fprintln(cmd.OutOrStdout(), core.RenderTasks(tasks))
			return nil
		},
	}
}
