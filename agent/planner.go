package agent

import (
	"context"
	"strings"

	"github.com/hupe1980/agentcrew/core"
	"github.com/hupe1980/agentcrew/logging"
	"github.com/hupe1980/agentcrew/memory"
)

const plannerInstruction = "You are a senior tech-lead assistant.  Break the goal below into " +
	"an ordered checklist of independent tasks.  Prefix every task " +
	"with either [Code] or [Doc].  Only return the list.\n\nGoal:\n"

// PlannerOptions configure a Planner.
type PlannerOptions struct {
	Name   string
	Logger logging.Logger
}

// Planner breaks a goal into ordered [Code] / [Doc] tasks.
type Planner struct {
	BaseAgent
}

// NewPlanner creates a Planner calling modelName through caller.
func NewPlanner(caller Caller, modelName string, optFns ...func(o *PlannerOptions)) *Planner {
	opts := PlannerOptions{Name: PlannerName}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Planner{BaseAgent: NewBaseAgent(opts.Name, StaticRole(""), modelName, caller, opts.Logger)}
}

// Kind implements Agent.
func (p *Planner) Kind() Kind { return KindPlanner }

// Plan asks the backend for a checklist and parses it. A blank goal yields
// no tasks without calling the backend.
func (p *Planner) Plan(ctx context.Context, goal string) ([]core.Task, error) {
	if strings.TrimSpace(goal) == "" {
		return nil, nil
	}
	raw, err := p.call(ctx, plannerInstruction+goal)
	if err != nil {
		return nil, err
	}
	tasks := ParseTasks(raw)
	p.logger.Debug("plan parsed", "tasks", len(tasks))
	return tasks, nil
}

// Act plans task and returns the rendered task list. Memory is not consulted.
func (p *Planner) Act(ctx context.Context, _ *memory.Memory, task string) (string, error) {
	tasks, err := p.Plan(ctx, task)
	if err != nil {
		return "", err
	}
	return core.RenderTasks(tasks), nil
}

// ParseTasks extracts tasks from planner output. Leading bullets ("•", "-",
// "*") and numbering ("1.", "2)"), alone or combined, are stripped; "[Code]"
// and "[Doc]" prefixes are matched case-insensitively and other lines are
// dropped.
func ParseTasks(text string) []core.Task {
	var tasks []core.Task
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		line = stripListMarkers(line)

		lower := strings.ToLower(line)
		switch {
		case strings.HasPrefix(lower, "[code]"):
			tasks = append(tasks, core.Task{Kind: core.TaskCode, Description: strings.TrimSpace(line[len("[code]"):])})
		case strings.HasPrefix(lower, "[doc]"):
			tasks = append(tasks, core.Task{Kind: core.TaskDoc, Description: strings.TrimSpace(line[len("[doc]"):])})
		}
	}
	return tasks
}

var _ Agent = (*Planner)(nil)

// stripListMarkers removes leading bullets and numbering until none remain,
// so nested forms like "1) - [Doc] x" reach the tag.
func stripListMarkers(line string) string {
	for {
		next := strings.TrimSpace(strings.TrimLeft(line, "•-*"))
		next = strings.TrimSpace(strings.TrimLeft(next, "0123456789.)"))
		if next == line {
			return line
		}
		line = next
	}
}
