package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hupe1980/agentcrew"
	"github.com/hupe1980/agentcrew/core"
	"github.com/hupe1980/agentcrew/runner"
	"github.com/spf13/cobra"
)

func newRunCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "run [goal...]",
		Short: "Plan a goal and implement or document each task",
		Long: `Plan a goal into [Code] and [Doc] tasks, then implement code tasks with
test-gated commits and write documentation for doc tasks.

Examples:
  # Goal from arguments
  agentcrew run add a fibonacci module with docs

  # Goal from stdin
  agentcrew run`,
		RunE: func(cmd *cobra.Command, args []string) error {
			goal := readInput(cmd, args, "Goal > ")
			out := cmd.OutOrStdout()

			crew, err := newCrew(flags, func(o *agentcrew.Options) {
				o.Observer = linearPrinter(cmd)
			})
			if err != nil {
				return err
			}
			linear, err := crew.Linear()
			if err != nil {
				return err
			}

			res, err := linear.Run(cmd.Context(), goal)
			switch {
			case errors.Is(err, core.ErrImplementationFailure):
				fmt.Fprintln(out, "❌  Code task failed irrecoverably. Stopping.")
				return errFailed
			case err != nil:
				return err
			case res.Status == runner.StatusNothingToDo:
				fmt.Fprintln(out, "Could not parse any tasks from your goal.")
				return errFailed
			}
			return nil
		},
	}
}

// linearPrinter renders pipeline progress.
func linearPrinter(cmd *cobra.Command) runner.Observer {
	out := cmd.OutOrStdout()
	return func(ev runner.Event) {
		switch ev.Type {
		case runner.EventPlanned:
			fmt.Fprintln(out, "Planned tasks:")
			for _, t := range ev.Tasks {
				fmt.Fprintf(out, " • [%s] %s\n", strings.ToUpper(string(t.Kind)), t.Description)
			}
		case runner.EventTaskStarted:
			if ev.Task.Kind == core.TaskCode {
				fmt.Fprintf(out, "\n=== CODE: %s\n", ev.Task.Description)
			} else {
				fmt.Fprintf(out, "\n=== DOC : %s\n", ev.Task.Description)
			}
		case runner.EventTaskSucceeded:
			if ev.Task.Kind == core.TaskDoc {
				fmt.Fprintln(out, "✅  Documentation committed.")
			}
		case runner.EventTaskFailed:
			if ev.Task.Kind == core.TaskDoc {
				fmt.Fprintf(out, "Documentation failed: %v\n", ev.Err)
			}
		}
	}
}
