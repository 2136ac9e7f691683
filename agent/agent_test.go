package agent

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hupe1980/agentcrew/core"
	"github.com/hupe1980/agentcrew/memory"
	"github.com/hupe1980/agentcrew/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newGateway(m model.Model) *model.Gateway {
	return model.NewGateway(m, func(o *model.GatewayOptions) {
		o.RetryBackoff = 0
		o.Timeout = time.Second
	})
}

// MockExecutor for developer tests
type MockExecutor struct{ mock.Mock }

func (m *MockExecutor) Execute(ctx context.Context, src string) (string, error) {
	args := m.Called(ctx, src)
	return args.String(0), args.Error(1)
}

func TestBaseAgent_Prompt(t *testing.T) {
	mem := memory.New("ship it")
	mem.UpdateFromAgent("Writer", "drafted")

	b := NewBaseAgent("ManagerAgent", StaticRole("Coordinate."), "m", nil, nil)
	prompt, err := b.Prompt(mem, "do <it> & more")
	require.NoError(t, err)

	assert.Equal(t, "You are ManagerAgent. Coordinate.\n\n"+mem.Snapshot()+"User Task: do <it> & more\n", prompt)
}

func TestBaseAgent_DynamicRole(t *testing.T) {
	role := DynamicRole(func(m *memory.Memory) (string, error) {
		return "Follow: " + m.Plan, nil
	})

	b := NewBaseAgent("A", role, "m", nil, nil)
	prompt, err := b.Prompt(memory.New("step 1"), "go")
	require.NoError(t, err)
	assert.Contains(t, prompt, "You are A. Follow: step 1\n")

	failing := NewBaseAgent("B", DynamicRole(func(*memory.Memory) (string, error) {
		return "", errors.New("nope")
	}), "m", nil, nil)
	_, err = failing.Prompt(memory.New(""), "go")
	assert.Error(t, err)
}

func TestManager_Act(t *testing.T) {
	backend := model.NewScriptedModel("scripted")
	backend.Enqueue(model.Reply{Text: "1. design\nPLAN UPDATE: design, build"})

	mgr := NewManager(newGateway(backend), "deepseek-r1:7b")
	assert.Equal(t, ManagerName, mgr.Name())
	assert.Equal(t, KindManager, mgr.Kind())

	out, err := mgr.Act(context.Background(), memory.New(""), "The user requests: x")
	require.NoError(t, err)
	assert.Equal(t, "1. design\nPLAN UPDATE: design, build", out)

	calls := backend.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "deepseek-r1:7b", calls[0].Model)
	assert.Contains(t, calls[0].Prompt, DefaultManagerRole)
	assert.Contains(t, calls[0].Prompt, "User Task: The user requests: x\n")
}

func TestManager_BackendUnavailable(t *testing.T) {
	backend := model.NewScriptedModel("scripted")
	backend.Enqueue(
		model.Reply{Err: core.NewTimeoutError("generate", context.DeadlineExceeded)},
		model.Reply{Err: core.NewTimeoutError("generate", context.DeadlineExceeded)},
	)

	_, err := NewManager(newGateway(backend), "m").Act(context.Background(), memory.New(""), "t")
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrBackendUnavailable)
	assert.Equal(t, 2, backend.CallCount())
}

func TestDeveloper_ExecutesCodeBlock(t *testing.T) {
	backend := model.NewScriptedModel("scripted")
	backend.Enqueue(model.Reply{Text: "Here:\n```python\nprint(1+1)```"})

	exec := new(MockExecutor)
	exec.On("Execute", mock.Anything, "print(1+1)").Return("2\n", nil).Once()

	dev := NewDeveloper(newGateway(backend), "deepseek-coder", exec)
	assert.Equal(t, DeveloperName, dev.Name())
	assert.Equal(t, KindDeveloper, dev.Kind())

	out, err := dev.Act(context.Background(), memory.New(""), "add numbers")
	require.NoError(t, err)
	assert.Equal(t, "Here:\n```python\nprint(1+1)```\n\n[Execution Result]: 2\n", out)
	exec.AssertExpectations(t)
}

func TestDeveloper_NoCodeBlock(t *testing.T) {
	backend := model.NewScriptedModel("scripted")
	backend.Enqueue(model.Reply{Text: "nothing to run"})
	exec := new(MockExecutor)

	out, err := NewDeveloper(newGateway(backend), "m", exec).Act(context.Background(), memory.New(""), "t")
	require.NoError(t, err)
	assert.Equal(t, "nothing to run", out)
	exec.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
}

func TestDeveloper_ExecutorError(t *testing.T) {
	backend := model.NewScriptedModel("scripted")
	backend.Enqueue(model.Reply{Text: "```\nx```"})
	exec := new(MockExecutor)
	exec.On("Execute", mock.Anything, mock.Anything).Return("", context.Canceled)

	_, err := NewDeveloper(newGateway(backend), "m", exec).Act(context.Background(), memory.New(""), "t")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDeveloper_ErrorSummaryInMemory(t *testing.T) {
	backend := model.NewScriptedModel("scripted")
	backend.Enqueue(model.Reply{Text: "```python\nraise Exception('boom')```"})
	exec := new(MockExecutor)
	exec.On("Execute", mock.Anything, mock.Anything).Return("Traceback...\nException: boom\n", nil)

	dev := NewDeveloper(newGateway(backend), "m", exec)
	mem := memory.New("")
	out, err := dev.Act(context.Background(), mem, "t")
	require.NoError(t, err)

	mem.UpdateFromAgent(dev.Name(), out)
	assert.Equal(t, "DevAgent error: ```python", mem.LastActionResult)
}
