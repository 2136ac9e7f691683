package main

import (
	"fmt"
	"strings"

	"github.com/hupe1980/agentcrew"
	"github.com/hupe1980/agentcrew/runner"
	"github.com/spf13/cobra"
)

var turnHeadings = []string{"Manager Plan", "DevAgent Output", "Final Manager Response"}

func newLoopCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "loop [request...]",
		Short: "Run the manager → developer → manager review loop",
		Long: `Ask the manager for a plan, let the developer implement it by writing and
executing a snippet, then ask the manager to review the result.

Without arguments the request is "` + runner.DefaultRequest + `"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			request := strings.Join(args, " ")
			if request == "" {
				request = runner.DefaultRequest
			}
			out := cmd.OutOrStdout()

			turn := 0
			crew, err := newCrew(flags, func(o *agentcrew.Options) {
				o.Observer = func(ev runner.Event) {
					if ev.Type != runner.EventTurn {
						return
					}
					heading := ev.Agent
					if turn < len(turnHeadings) {
						heading = turnHeadings[turn]
					}
					turn++
					fmt.Fprintf(out, "\n--- %s ---\n %s\n", heading, ev.Output)
				}
			})
			if err != nil {
				return err
			}

			_, err = crew.Review().Run(cmd.Context(), request)
			return err
		},
	}
}
