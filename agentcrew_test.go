package agentcrew

import (
	"context"
	"errors"
	"os/exec"
	"testing"
	"time"

	"github.com/hupe1980/agentcrew/agent"
	"github.com/hupe1980/agentcrew/artifact"
	"github.com/hupe1980/agentcrew/config"
	"github.com/hupe1980/agentcrew/core"
	"github.com/hupe1980/agentcrew/internal/testutil"
	"github.com/hupe1980/agentcrew/logging"
	"github.com/hupe1980/agentcrew/memory"
	"github.com/hupe1980/agentcrew/model"
	"github.com/hupe1980/agentcrew/runner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type fixedExecutor struct{ out string }

func (e fixedExecutor) Execute(context.Context, string) (string, error) { return e.out, nil }

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.VCS.Dir = t.TempDir()
	cfg.Backend.RetryBackoff = 0
	cfg.Backend.Timeout = time.Second
	cfg.Memory.Tokenizer = ""
	return cfg
}

func baseOptions(backend model.Model) func(o *Options) {
	return func(o *Options) {
		o.Backend = backend
		o.Tokenizer = memory.CharTokenizer{}
		o.Executor = fixedExecutor{out: "2\n"}
		o.Logger = logging.NoOpLogger{}
	}
}

func TestNew_InvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Backend.Provider = "unknown"

	_, err := New(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
}

func TestNew_BackendPerProvider(t *testing.T) {
	for _, p := range []string{config.ProviderOllama, config.ProviderOpenAI, config.ProviderAnthropic} {
		t.Run(p, func(t *testing.T) {
			cfg := testConfig(t)
			cfg.Backend.Provider = p
			cfg.Backend.APIKey = "test"

			crew, err := New(cfg, func(o *Options) { o.Logger = logging.NoOpLogger{} })
			require.NoError(t, err)
			assert.Equal(t, p, crew.Gateway().Backend().Info().Provider)
		})
	}
}

func TestNew_OllamaUsesConfiguredGenerateURL(t *testing.T) {
	cfg := testConfig(t)
	cfg.Backend.BaseURL = "http://gpu:11434/"
	crew, err := New(cfg, func(o *Options) { o.Logger = logging.NoOpLogger{} })
	require.NoError(t, err)
	assert.Equal(t, "http://gpu:11434/api/generate", crew.Gateway().Backend().Info().Name)

	cfg.Backend.Endpoint = "http://other:1/generate"
	crew, err = New(cfg, func(o *Options) { o.Logger = logging.NoOpLogger{} })
	require.NoError(t, err)
	assert.Equal(t, cfg.GenerateURL(), crew.Gateway().Backend().Info().Name)
	assert.Equal(t, "http://other:1/generate", crew.Gateway().Backend().Info().Name)
}

func TestCrew_LinearNeedsRepository(t *testing.T) {
	crew, err := New(testConfig(t), baseOptions(model.NewScriptedModel("scripted")))
	require.NoError(t, err)

	_, err = crew.Linear()
	assert.ErrorIs(t, err, ErrNoRepository)
}

func TestCrew_Review(t *testing.T) {
	backend := model.NewScriptedModel("scripted")
	backend.Enqueue(
		model.Reply{Text: "PLAN UPDATE: add two numbers"},
		model.Reply{Text: "```python\nprint(1+1)\n```"},
		model.Reply{Text: "Done: 1+1=2"},
	)

	cfg := testConfig(t)
	crew, err := New(cfg, baseOptions(backend))
	require.NoError(t, err)

	res, err := crew.Review().Run(context.Background(), runner.DefaultRequest)
	require.NoError(t, err)
	assert.Equal(t, runner.StatusSucceeded, res.Status)
	assert.Equal(t, "Done: 1+1=2", res.Output)
	assert.Equal(t, 3, crew.Calls())

	calls := backend.Calls()
	require.Len(t, calls, 3)
	assert.Equal(t, cfg.Models.Manager, calls[0].Model)
	assert.Equal(t, cfg.Models.Developer, calls[1].Model)
	assert.Equal(t, cfg.Models.Manager, calls[2].Model)
}

func TestCrew_CallLimit(t *testing.T) {
	cfg := testConfig(t)
	cfg.Backend.MaxCalls = 1

	crew, err := New(cfg, baseOptions(model.NewScriptedModel("scripted")))
	require.NoError(t, err)

	_, err = crew.Review().Run(context.Background(), runner.DefaultRequest)
	assert.ErrorIs(t, err, core.ErrModelCallLimit)
}

func TestCrew_Linear(t *testing.T) {
	if _, err := exec.LookPath("true"); err != nil {
		t.Skip("true not available")
	}

	backend := model.NewScriptedModel("scripted")
	backend.Enqueue(
		model.Reply{Text: "1. [Code] add greet()\n2. [Doc] describe greet"},
		model.Reply{Text: "# Greeting\n\nCall greet()."},
	)

	vcs := &testutil.MockVCS{}
	vcs.On("EnsureCleanState", mock.Anything).Return(nil)
	vcs.On("CommitAll", mock.Anything, "feat: add greet()").Return(nil).Once()
	vcs.On("CommitAll", mock.Anything, "docs: describe greet").Return(nil).Once()

	docs := artifact.NewInMemoryStore()
	var implemented []string

	cfg := testConfig(t)
	cfg.Test.Command = "true"

	crew, err := New(cfg, baseOptions(backend), func(o *Options) {
		o.VCS = vcs
		o.Documents = docs
		o.References = &testutil.MemReferenceStore{}
		o.Implementer = agent.ImplementerFunc(func(_ context.Context, d string) (bool, error) {
			implemented = append(implemented, d)
			return true, nil
		})
	})
	require.NoError(t, err)

	linear, err := crew.Linear()
	require.NoError(t, err)

	res, err := linear.Run(context.Background(), "greeting feature")
	require.NoError(t, err)
	assert.Equal(t, runner.StatusSucceeded, res.Status)
	assert.Len(t, res.Completed, 2)
	assert.Equal(t, []string{"add greet()"}, implemented)

	body, err := docs.Get("greeting.md")
	require.NoError(t, err)
	assert.Equal(t, "# Greeting\n\nCall greet().", string(body))
	vcs.AssertExpectations(t)
}

func TestCrew_LinearEmptyPlan(t *testing.T) {
	backend := model.NewScriptedModel("scripted")
	backend.Enqueue(model.Reply{Text: "nothing actionable"})

	crew, err := New(testConfig(t), baseOptions(backend), func(o *Options) {
		o.VCS = &testutil.MockVCS{}
	})
	require.NoError(t, err)

	linear, err := crew.Linear()
	require.NoError(t, err)

	res, err := linear.Run(context.Background(), "anything")
	require.NoError(t, err)
	assert.Equal(t, runner.StatusNothingToDo, res.Status)
	assert.True(t, errors.Is(res.Err(), core.ErrNoTasks))
}
