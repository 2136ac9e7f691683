package runner

import (
	"context"
	"fmt"

	"github.com/hupe1980/agentcrew/agent"
	"github.com/hupe1980/agentcrew/core"
)

// Planner turns a goal into ordered tasks.
type Planner interface {
	Plan(ctx context.Context, goal string) ([]core.Task, error)
}

// TaskImplementer applies a code task, reporting unrecoverable failure as false.
type TaskImplementer interface {
	ImplementWithRetry(ctx context.Context, description string) (bool, error)
}

// Documenter produces and commits a document for an instruction.
type Documenter interface {
	GenerateDocument(ctx context.Context, instruction string) (string, error)
}

// Linear is the plan → implement/document control loop.
type Linear struct {
	planner   Planner
	developer TaskImplementer
	writer    Documenter
	opts      Options
}

// NewLinear creates a linear control loop.
func NewLinear(planner Planner, developer TaskImplementer, writer Documenter, optFns ...func(o *Options)) *Linear {
	return &Linear{
		planner:   planner,
		developer: developer,
		writer:    writer,
		opts:      buildOptions(optFns),
	}
}

// Run plans goal and processes every task in order. It returns a non-nil
// error only when the run failed; an empty plan is StatusNothingToDo.
func (l *Linear) Run(ctx context.Context, goal string) (*Result, error) {
	r := newRun(l.opts)
	r.logger.Info("linear run started", "goal", goal)

	r.transition(StatePlanning)
	tasks, err := l.planner.Plan(ctx, goal)
	if err != nil {
		return r.fail(fmt.Errorf("plan: %w", err))
	}
	r.result.Tasks = tasks
	r.record(agent.PlannerName, core.RenderTasks(tasks))

	if len(tasks) == 0 {
		r.logger.Warn("planner produced no tasks")
		return r.done(StatusNothingToDo), nil
	}
	r.emit(Event{Type: EventPlanned, Tasks: tasks})

	for _, task := range tasks {
		if err := ctx.Err(); err != nil {
			return r.fail(err)
		}
		r.transition(StateDispatching)

		switch task.Kind {
		case core.TaskCode:
			if err := l.implement(ctx, r, task); err != nil {
				return r.fail(err)
			}
		case core.TaskDoc:
			l.document(ctx, r, task)
		default:
			r.logger.Warn("skipping task of unknown kind", "kind", string(task.Kind))
		}
	}

	return r.done(StatusSucceeded), nil
}

func (l *Linear) implement(ctx context.Context, r *run, task core.Task) error {
	r.transition(StateImplementing)
	r.emit(Event{Type: EventTaskStarted, Task: task})

	ok, err := l.developer.ImplementWithRetry(ctx, task.Description)
	if err == nil && !ok {
		err = fmt.Errorf("%w: %s", core.ErrImplementationFailure, task.Description)
	}
	if err != nil {
		r.record(l.opts.DeveloperName, "Error: "+err.Error())
		r.emit(Event{Type: EventTaskFailed, Task: task, Err: err})
		return err
	}

	r.record(l.opts.DeveloperName, "Implemented: "+task.Description)
	r.result.Completed = append(r.result.Completed, task)
	r.emit(Event{Type: EventTaskSucceeded, Task: task})
	return nil
}

func (l *Linear) document(ctx context.Context, r *run, task core.Task) {
	r.transition(StateDocumenting)
	r.emit(Event{Type: EventTaskStarted, Task: task})

	md, err := l.writer.GenerateDocument(ctx, task.Description)
	if err != nil {
		r.logger.Error("document generation failed", "task", task.Description, "error", err)
		r.result.Failures = append(r.result.Failures, TaskFailure{Task: task, Err: err})
		r.record(agent.WriterName, "Error: "+err.Error())
		r.emit(Event{Type: EventTaskFailed, Task: task, Err: err})
		return
	}

	r.record(agent.WriterName, md)
	r.result.Completed = append(r.result.Completed, task)
	r.emit(Event{Type: EventTaskSucceeded, Task: task})
}
