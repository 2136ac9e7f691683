package runner

import (
	"context"
	"fmt"

	"github.com/hupe1980/agentcrew/agent"
)

// DefaultRequest is used by callers that have no request of their own.
const DefaultRequest = "Build a simple calculator that adds two numbers."

// Review is the three-turn manager → developer → manager loop.
type Review struct {
	manager   agent.Agent
	developer agent.Agent
	opts      Options
}

// NewReview creates a review loop. Memory's plan update rule applies to the
// manager's name and its developer summary rule to the developer's name.
func NewReview(manager, developer agent.Agent, optFns ...func(o *Options)) *Review {
	opts := buildOptions(append([]func(o *Options){func(o *Options) {
		o.PlannerName = manager.Name()
		o.DeveloperName = developer.Name()
	}}, optFns...))
	return &Review{manager: manager, developer: developer, opts: opts}
}

// Run executes the three turns once. Result.Output holds the manager's final
// response.
func (rv *Review) Run(ctx context.Context, request string) (*Result, error) {
	r := newRun(rv.opts)
	r.logger.Info("review run started", "request", request)

	r.transition(StatePlanning)
	planTask := fmt.Sprintf("The user requests: %s. Provide a step-by-step plan.", request)
	if _, err := rv.turn(ctx, r, rv.manager, planTask); err != nil {
		return r.fail(err)
	}

	r.transition(StateImplementing)
	task := fmt.Sprintf("Follow the plan: %s. Implement the requirement.", r.mem.LastActionResult)
	if _, err := rv.turn(ctx, r, rv.developer, task); err != nil {
		return r.fail(err)
	}

	r.transition(StateReviewing)
	final, err := rv.turn(ctx, r, rv.manager, "Review the development output and provide the final result for the user.")
	if err != nil {
		return r.fail(err)
	}

	r.result.Output = final
	return r.done(StatusSucceeded), nil
}

func (rv *Review) turn(ctx context.Context, r *run, a agent.Agent, task string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	out, err := a.Act(ctx, r.mem, task)
	if err != nil {
		return "", fmt.Errorf("%s turn: %w", a.Name(), err)
	}
	r.record(a.Name(), out)
	r.emit(Event{Type: EventTurn, Agent: a.Name(), Output: out})
	return out, nil
}
