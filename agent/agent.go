package agent

import (
	"context"

	"github.com/hupe1980/agentcrew/memory"
)

// Kind tags an agent variant.
type Kind string

const (
	KindManager         Kind = "manager"
	KindDeveloper       Kind = "developer"
	KindLegacyDeveloper Kind = "legacy_developer"
	KindPlanner         Kind = "planner"
	KindWriter          Kind = "writer"
	KindTester          Kind = "tester"
)

// Default agent names. DeveloperName and ManagerName are the names memory
// applies its developer summary and plan update rules to.
const (
	ManagerName   = "ManagerAgent"
	DeveloperName = "DevAgent"
	PlannerName   = "PlannerAgent"
	WriterName    = "WriterAgent"
	TesterName    = "TestAgent"
)

// Agent turns a task plus shared memory into text output.
type Agent interface {
	Name() string
	Kind() Kind
	Act(ctx context.Context, mem *memory.Memory, task string) (string, error)
}

// Caller invokes the generative backend. *model.Gateway implements it.
type Caller interface {
	Call(ctx context.Context, modelName, prompt string) (string, error)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
