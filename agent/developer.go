package agent

import (
	"context"
	"fmt"

	"github.com/hupe1980/agentcrew/code"
	"github.com/hupe1980/agentcrew/logging"
	"github.com/hupe1980/agentcrew/memory"
)

// DefaultDeveloperRole is the role text of the LLM-only Developer.
const DefaultDeveloperRole = "Write and (optionally) run code. Show reasoning in <think>...</think>. " +
	"If you output code (```python) it will be executed."

// ExecutionResultMarker precedes captured execution output.
const ExecutionResultMarker = "[Execution Result]: "

// DeveloperOptions configure a Developer.
type DeveloperOptions struct {
	Name   string
	Role   Role
	Logger logging.Logger
}

// Developer writes code with the backend and runs the first fenced block it
// produced.
type Developer struct {
	BaseAgent
	executor code.Executor
}

// NewDeveloper creates a Developer. executor runs extracted code blocks.
func NewDeveloper(caller Caller, modelName string, executor code.Executor, optFns ...func(o *DeveloperOptions)) *Developer {
	opts := DeveloperOptions{
		Name: DeveloperName,
		Role: StaticRole(DefaultDeveloperRole),
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Developer{
		BaseAgent: NewBaseAgent(opts.Name, opts.Role, modelName, caller, opts.Logger),
		executor:  executor,
	}
}

// Kind implements Agent.
func (d *Developer) Kind() Kind { return KindDeveloper }

// Act calls the backend and, when the output holds a fenced code block,
// executes it and appends the execution result.
func (d *Developer) Act(ctx context.Context, mem *memory.Memory, task string) (string, error) {
	out, err := d.BaseAgent.Act(ctx, mem, task)
	if err != nil {
		return "", err
	}

	src := code.ExtractCodeBlock(out)
	if src == "" {
		return out, nil
	}

	result, err := d.executor.Execute(ctx, src)
	if err != nil {
		return "", fmt.Errorf("%s: execute code: %w", d.name, err)
	}
	return out + "\n\n" + ExecutionResultMarker + result, nil
}

var _ Agent = (*Developer)(nil)
