package agent

import (
	"context"
	"testing"

	"github.com/hupe1980/agentcrew/core"
	"github.com/hupe1980/agentcrew/memory"
	"github.com/hupe1980/agentcrew/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanner_Plan(t *testing.T) {
	backend := model.NewScriptedModel("scripted")
	backend.Enqueue(model.Reply{Text: "[Code] Add a health endpoint"})

	p := NewPlanner(newGateway(backend), "planner-model")
	tasks, err := p.Plan(context.Background(), "Add a health endpoint")
	require.NoError(t, err)
	assert.Equal(t, []core.Task{{Kind: core.TaskCode, Description: "Add a health endpoint"}}, tasks)

	calls := backend.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "planner-model", calls[0].Model)
	assert.Contains(t, calls[0].Prompt, "Goal:\nAdd a health endpoint")
}

func TestPlanner_EmptyGoal(t *testing.T) {
	backend := model.NewScriptedModel("scripted")
	tasks, err := NewPlanner(newGateway(backend), "m").Plan(context.Background(), "   ")
	require.NoError(t, err)
	assert.Empty(t, tasks)
	assert.Zero(t, backend.CallCount())
}

func TestPlanner_Act(t *testing.T) {
	backend := model.NewScriptedModel("scripted")
	backend.Enqueue(model.Reply{Text: "1. [Doc] Write README\n2. [code] Add tests"})

	out, err := NewPlanner(newGateway(backend), "m").Act(context.Background(), memory.New(""), "goal")
	require.NoError(t, err)
	assert.Equal(t, "[Doc] Write README\n[Code] Add tests", out)
}

func TestParseTasks(t *testing.T) {
	raw := `Here is the plan:

• [Code] Create the HTTP server
- [DOC] Document the API
* 3. [code]   Add health check
1) [Doc] Write changelog
12. [Code] Add metrics
[Test] ignored
just prose
`
	assert.Equal(t, []core.Task{
		{Kind: core.TaskCode, Description: "Create the HTTP server"},
		{Kind: core.TaskDoc, Description: "Document the API"},
		{Kind: core.TaskCode, Description: "Add health check"},
		{Kind: core.TaskDoc, Description: "Write changelog"},
		{Kind: core.TaskCode, Description: "Add metrics"},
	}, ParseTasks(raw))

	assert.Empty(t, ParseTasks(""))
}

func TestParseTasks_CombinedMarkers(t *testing.T) {
	tasks := ParseTasks("• - [Code] a\n1) - [Doc] b\n- 2. * [doc] c\n  3.  [CODE]   d  ")
	assert.Equal(t, []core.Task{
		{Kind: core.TaskCode, Description: "a"},
		{Kind: core.TaskDoc, Description: "b"},
		{Kind: core.TaskDoc, Description: "c"},
		{Kind: core.TaskCode, Description: "d"},
	}, tasks)
}

func TestParseTasks_Idempotent(t *testing.T) {
	tasks := ParseTasks("1. [Code] a\n2. [Doc] b\n- [code] c")
	assert.Equal(t, tasks, ParseTasks(core.RenderTasks(tasks)))
}
