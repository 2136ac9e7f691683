package agent

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hupe1980/agentcrew/core"
	"github.com/hupe1980/agentcrew/internal/testutil"
	"github.com/hupe1980/agentcrew/memory"
	"github.com/hupe1980/agentcrew/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type scriptedTests struct {
	results []bool
	calls   int
}

func (s *scriptedTests) Run(context.Context) (bool, string) {
	ok := s.results[s.calls]
	s.calls++
	if ok {
		return true, "passed"
	}
	return false, "FAILED test_health"
}

func TestLegacyDeveloper_PassFirstAttempt(t *testing.T) {
	vcs := new(testutil.MockVCS)
	vcs.On("EnsureCleanState", mock.Anything).Return(nil).Once()
	vcs.On("CommitAll", mock.Anything, "feat: Add a health endpoint").Return(nil).Once()

	var requests []string
	impl := ImplementerFunc(func(_ context.Context, d string) (bool, error) {
		requests = append(requests, d)
		return true, nil
	})

	dev := NewLegacyDeveloper(impl, vcs, &scriptedTests{results: []bool{true}})
	ok, err := dev.ImplementWithRetry(context.Background(), "Add a health endpoint")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []string{"Add a health endpoint"}, requests)
	vcs.AssertExpectations(t)
	vcs.AssertNotCalled(t, "RevertWorkingCopy", mock.Anything)
}

func TestLegacyDeveloper_RetryWithTestOutput(t *testing.T) {
	vcs := new(testutil.MockVCS)
	vcs.On("EnsureCleanState", mock.Anything).Return(errors.New("no git")).Twice()
	vcs.On("RevertWorkingCopy", mock.Anything).Return(nil).Once()
	vcs.On("CommitAll", mock.Anything, mock.Anything).Return(nil).Once()

	var requests []string
	impl := ImplementerFunc(func(_ context.Context, d string) (bool, error) {
		requests = append(requests, d)
		return true, nil
	})

	dev := NewLegacyDeveloper(impl, vcs, &scriptedTests{results: []bool{false, true}})
	ok, err := dev.ImplementWithRetry(context.Background(), "fix bug")
	require.NoError(t, err)
	assert.True(t, ok)
	require.Len(t, requests, 2)
	assert.Contains(t, requests[1], "FAILED test_health")
	vcs.AssertExpectations(t)
}

func TestLegacyDeveloper_Exhausted(t *testing.T) {
	vcs := new(testutil.MockVCS)
	vcs.On("EnsureCleanState", mock.Anything).Return(nil)
	vcs.On("RevertWorkingCopy", mock.Anything).Return(nil)

	impl := ImplementerFunc(func(context.Context, string) (bool, error) { return false, nil })
	dev := NewLegacyDeveloper(impl, vcs, &scriptedTests{}, func(o *LegacyDeveloperOptions) { o.MaxAttempts = 3 })

	ok, err := dev.ImplementWithRetry(context.Background(), "impossible")
	require.NoError(t, err)
	assert.False(t, ok)
	vcs.AssertNumberOfCalls(t, "RevertWorkingCopy", 3)
	vcs.AssertNotCalled(t, "CommitAll", mock.Anything, mock.Anything)

	out, err := dev.Act(context.Background(), memory.New(""), "impossible")
	assert.ErrorIs(t, err, core.ErrImplementationFailure)
	assert.True(t, strings.HasPrefix(out, "Error:"))
	assert.Equal(t, KindLegacyDeveloper, dev.Kind())
}

func TestLegacyDeveloper_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	dev := NewLegacyDeveloper(ImplementerFunc(func(context.Context, string) (bool, error) {
		return true, nil
	}), new(testutil.MockVCS), &scriptedTests{})
	_, err := dev.ImplementWithRetry(ctx, "x")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLLMImplementer(t *testing.T) {
	root := t.TempDir()
	backend := model.NewScriptedModel("scripted")
	backend.Enqueue(model.Reply{Text: "Sure.\nFILE: app/health.py\n```python\ndef health():\n    return 'ok'\n```\n" +
		"FILE: README.md\n```\n# Service\n```\n"})

	impl := NewLLMImplementer(newGateway(backend), "coder", root)
	ok, err := impl.Implement(context.Background(), "Add a health endpoint")
	require.NoError(t, err)
	assert.True(t, ok)

	data, err := os.ReadFile(filepath.Join(root, "app", "health.py"))
	require.NoError(t, err)
	assert.Equal(t, "def health():\n    return 'ok'\n", string(data))

	data, err = os.ReadFile(filepath.Join(root, "README.md"))
	require.NoError(t, err)
	assert.Equal(t, "# Service\n", string(data))
}

func TestLLMImplementer_RejectsEscapes(t *testing.T) {
	for _, path := range []string{"../evil.py", "/etc/passwd", ".git/config"} {
		backend := model.NewScriptedModel("scripted")
		backend.Enqueue(model.Reply{Text: "FILE: " + path + "\n```\nx\n```"})

		ok, err := NewLLMImplementer(newGateway(backend), "m", t.TempDir()).Implement(context.Background(), "x")
		assert.Error(t, err, path)
		assert.False(t, ok)
	}
}

func TestLLMImplementer_NoBlocks(t *testing.T) {
	backend := model.NewScriptedModel("scripted")
	backend.Enqueue(model.Reply{Text: "I cannot do that."})

	ok, err := NewLLMImplementer(newGateway(backend), "m", t.TempDir()).Implement(context.Background(), "x")
	require.NoError(t, err)
	assert.False(t, ok)
}
