package agent

import (
	"context"
	"fmt"

	"github.com/hupe1980/agentcrew/internal/util"
	"github.com/hupe1980/agentcrew/logging"
	"github.com/hupe1980/agentcrew/memory"
)

var promptTemplate = util.MustParseTemplate("prompt", "You are {{.Name}}. {{.Role}}\n\n{{.Context}}User Task: {{.Task}}\n")

// BaseAgent bundles identity (name, role, model) and the prompt/call cycle
// shared by every backend-driven agent. Embed it and override Act to add
// post-processing.
type BaseAgent struct {
	name   string
	role   Role
	model  string
	caller Caller
	logger logging.Logger
}

// NewBaseAgent constructs a BaseAgent. A nil logger is replaced by NoOpLogger.
func NewBaseAgent(name string, role Role, modelName string, caller Caller, logger logging.Logger) BaseAgent {
	return BaseAgent{
		name:   name,
		role:   role,
		model:  modelName,
		caller: caller,
		logger: logging.OrNoOp(logger),
	}
}

// Name returns the agent's name.
func (b *BaseAgent) Name() string { return b.name }

// Model returns the backend model identifier.
func (b *BaseAgent) Model() string { return b.model }

// Prompt renders the prompt for task against mem.
func (b *BaseAgent) Prompt(mem *memory.Memory, task string) (string, error) {
	role, err := b.role.Resolve(mem)
	if err != nil {
		return "", fmt.Errorf("%s: resolve role: %w", b.name, err)
	}
	snapshot := ""
	if mem != nil {
		snapshot = mem.Snapshot()
	}
	return promptTemplate.Render(map[string]any{
		"Name":    b.name,
		"Role":    role,
		"Context": snapshot,
		"Task":    task,
	})
}

// Act renders the prompt and calls the backend, returning the raw output.
func (b *BaseAgent) Act(ctx context.Context, mem *memory.Memory, task string) (string, error) {
	prompt, err := b.Prompt(mem, task)
	if err != nil {
		return "", err
	}
	return b.call(ctx, prompt)
}

func (b *BaseAgent) call(ctx context.Context, prompt string) (string, error) {
	b.logger.Debug("calling backend", "agent", b.name, "model", b.model, "prompt_len", len(prompt))
	out, err := b.caller.Call(ctx, b.model, prompt)
	if err != nil {
		return "", fmt.Errorf("%s: %w", b.name, err)
	}
	return out, nil
}
