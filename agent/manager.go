package agent

import (
	"github.com/hupe1980/agentcrew/logging"
)

// DefaultManagerRole is the role text of the Manager.
const DefaultManagerRole = "Plan tasks and coordinate agents. Use <think>...</think> for reasoning; " +
	"update the plan when needed by writing PLAN UPDATE: followed by the new plan."

// ManagerOptions configure a Manager.
type ManagerOptions struct {
	Name   string
	Role   Role
	Logger logging.Logger
}

// Manager plans and coordinates. Its output is returned unmodified; memory
// picks up plan updates from it.
type Manager struct {
	BaseAgent
}

// NewManager creates a Manager calling modelName through caller.
func NewManager(caller Caller, modelName string, optFns ...func(o *ManagerOptions)) *Manager {
	opts := ManagerOptions{
		Name: ManagerName,
		Role: StaticRole(DefaultManagerRole),
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Manager{BaseAgent: NewBaseAgent(opts.Name, opts.Role, modelName, caller, opts.Logger)}
}

// Kind implements Agent.
func (m *Manager) Kind() Kind { return KindManager }

var _ Agent = (*Manager)(nil)
