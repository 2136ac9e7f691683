// Package agentcrew provides a high-level façade that wires a config.Config
// into a working crew: a generative backend behind the retrying gateway, the
// role agents (manager, developers, planner, writer, tester) and their
// collaborators (git working copy, web search, document and reference
// stores). Most applications interact with this package by:
//  1. Loading a configuration with config.Load
//  2. Creating a Crew via New (optionally overriding collaborators)
//  3. Running the linear pipeline (Linear) or the review loop (Review)
//
// Every collaborator can be replaced through Options, which is how tests and
// examples run a crew against scripted backends.
package agentcrew

import (
	"errors"
	"fmt"

	"github.com/hupe1980/agentcrew/agent"
	"github.com/hupe1980/agentcrew/artifact"
	"github.com/hupe1980/agentcrew/citation"
	"github.com/hupe1980/agentcrew/code"
	"github.com/hupe1980/agentcrew/config"
	"github.com/hupe1980/agentcrew/core"
	"github.com/hupe1980/agentcrew/logging"
	"github.com/hupe1980/agentcrew/memory"
	"github.com/hupe1980/agentcrew/model"
	"github.com/hupe1980/agentcrew/model/anthropic"
	"github.com/hupe1980/agentcrew/model/ollama"
	"github.com/hupe1980/agentcrew/model/openai"
	"github.com/hupe1980/agentcrew/runner"
	"github.com/hupe1980/agentcrew/search/duckduckgo"
	"github.com/hupe1980/agentcrew/vcs"
)

// ErrNoRepository is returned by Linear when no version-control backend is
// available.
var ErrNoRepository = errors.New("no git repository available")

// Options override the collaborators New would otherwise build from config.
type Options struct {
	// Backend replaces the provider selected by backend.provider.
	Backend model.Model
	// Searcher replaces the DuckDuckGo searcher.
	Searcher core.Searcher
	// VCS replaces the git working copy opened at vcs.dir.
	VCS core.VersionControl
	// Documents replaces the file store at docs.dir.
	Documents core.DocumentStore
	// References replaces the JSON reference file at docs.references.
	References core.ReferenceStore
	// Executor replaces the interpreter subprocess of the LLM-only developer.
	Executor code.Executor
	// Implementer replaces the LLM file writer of the legacy developer.
	Implementer agent.Implementer
	// Tokenizer replaces the tokenizer derived from memory.tokenizer.
	Tokenizer memory.Tokenizer
	// Observer receives runner events.
	Observer runner.Observer
	// Logger replaces the logger built from the log section.
	Logger logging.Logger
}

// Crew is a fully wired set of agents and collaborators.
type Crew struct {
	cfg       *config.Config
	opts      Options
	logger    logging.Logger
	limiter   *core.CallLimiter
	gateway   *model.Gateway
	vcs       core.VersionControl
	vcsErr    error
	manager   *agent.Manager
	developer *agent.Developer
	planner   *agent.Planner
	writer    *agent.Writer
	tester    *agent.Tester
	legacy    *agent.LegacyDeveloper
}

// New validates cfg and wires a Crew. A missing git repository is not an
// error here; it only disables Linear.
func New(cfg *config.Config, optFns ...func(o *Options)) (*Crew, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	opts := Options{}
	for _, fn := range optFns {
		fn(&opts)
	}

	logger := opts.Logger
	if logger == nil {
		level, _ := logging.ParseLevel(cfg.Log.Level)
		logger = logging.NewLogger(&logging.LoggerConfig{Level: level, Format: cfg.Log.Format})
	}

	c := &Crew{cfg: cfg, opts: opts, logger: logger}

	backend := opts.Backend
	if backend == nil {
		var err error
		if backend, err = newBackend(cfg); err != nil {
			return nil, err
		}
	}

	c.limiter = core.NewCallLimiter(cfg.Backend.MaxCalls)
	c.gateway = model.NewGateway(backend, func(o *model.GatewayOptions) {
		o.Timeout = cfg.Backend.Timeout
		o.RetryBackoff = cfg.Backend.RetryBackoff
		o.Limiter = c.limiter
		o.Logger = component(logger, "gateway")
	})

	root := cfg.VCS.Dir
	switch {
	case opts.VCS != nil:
		c.vcs = opts.VCS
	default:
		g, err := vcs.Open(cfg.VCS.Dir, func(o *vcs.Options) {
			o.AuthorName = cfg.VCS.AuthorName
			o.AuthorEmail = cfg.VCS.AuthorEmail
			o.Logger = component(logger, "vcs")
		})
		if err != nil {
			c.vcsErr = err
			logger.Debug("version control unavailable", "dir", cfg.VCS.Dir, "error", err)
		} else {
			c.vcs = g
			root = g.Dir()
		}
	}

	executor := opts.Executor
	if executor == nil {
		executor = code.NewSubprocessExecutor(func(o *code.SubprocessOptions) {
			o.Interpreter = cfg.Exec.Interpreter
			o.Suffix = cfg.Exec.Suffix
			o.Timeout = cfg.Exec.Timeout
			o.Logger = component(logger, "exec")
		})
	}

	searcher := opts.Searcher
	if searcher == nil {
		searcher = duckduckgo.New(func(o *duckduckgo.Options) {
			o.Endpoint = cfg.Search.Endpoint
			o.Timeout = cfg.Search.Timeout
			o.Logger = component(logger, "search")
		})
	}

	docs := opts.Documents
	if docs == nil {
		docs = artifact.NewFileStore(cfg.Docs.Dir)
	}

	refs := opts.References
	if refs == nil {
		refs = citation.NewFileReferenceStore(cfg.Docs.References)
	}

	c.manager = agent.NewManager(c.gateway, cfg.Models.Manager, func(o *agent.ManagerOptions) {
		o.Logger = component(logger, agent.ManagerName)
	})
	c.developer = agent.NewDeveloper(c.gateway, cfg.Models.Developer, executor, func(o *agent.DeveloperOptions) {
		o.Logger = component(logger, agent.DeveloperName)
	})
	c.planner = agent.NewPlanner(c.gateway, cfg.Models.Planner, func(o *agent.PlannerOptions) {
		o.Logger = component(logger, agent.PlannerName)
	})
	c.writer = agent.NewWriter(c.gateway, cfg.Models.Writer, searcher, docs, func(o *agent.WriterOptions) {
		o.Results = cfg.Search.Results
		o.References = refs
		o.VCS = c.vcs
		o.Logger = component(logger, agent.WriterName)
	})
	c.tester = agent.NewTester(func(o *agent.TesterOptions) {
		o.Command = cfg.Test.Command
		o.Timeout = cfg.Test.Timeout
		o.Dir = root
		o.Extension = cfg.Test.Extension
		o.VCS = c.vcs
		o.Checker = code.NewSyntaxChecker()
		o.Logger = component(logger, agent.TesterName)
	})

	if c.vcs != nil {
		impl := opts.Implementer
		if impl == nil {
			impl = agent.NewLLMImplementer(c.gateway, cfg.Models.Developer, root, func(o *agent.LLMImplementerOptions) {
				o.Logger = component(logger, "implementer")
			})
		}
		c.legacy = agent.NewLegacyDeveloper(impl, c.vcs, c.tester, func(o *agent.LegacyDeveloperOptions) {
			o.MaxAttempts = cfg.Dev.MaxAttempts
			o.Logger = component(logger, agent.DeveloperName)
		})
	}

	info := c.gateway.Backend().Info()
	logger.Debug("crew ready",
		"provider", info.Provider,
		"backend", info.Name,
		"max_model_calls", cfg.Backend.MaxCalls,
		"linear", c.legacy != nil,
	)
	return c, nil
}

// Config returns the configuration the crew was built from.
func (c *Crew) Config() *config.Config { return c.cfg }

// Gateway returns the retrying call gateway shared by all agents.
func (c *Crew) Gateway() *model.Gateway { return c.gateway }

// Calls returns the number of backend attempts made so far.
func (c *Crew) Calls() int { return c.limiter.Count() }

// Manager returns the manager agent.
func (c *Crew) Manager() *agent.Manager { return c.manager }

// Developer returns the LLM-only developer.
func (c *Crew) Developer() *agent.Developer { return c.developer }

// Planner returns the planner.
func (c *Crew) Planner() *agent.Planner { return c.planner }

// Writer returns the documentation writer.
func (c *Crew) Writer() *agent.Writer { return c.writer }

// Tester returns the tester.
func (c *Crew) Tester() *agent.Tester { return c.tester }

// Linear returns the plan → implement/document pipeline. It requires a
// version-control backend.
func (c *Crew) Linear() (*runner.Linear, error) {
	if c.legacy == nil {
		if c.vcsErr != nil {
			return nil, fmt.Errorf("%w: %v", ErrNoRepository, c.vcsErr)
		}
		return nil, ErrNoRepository
	}
	return runner.NewLinear(c.planner, c.legacy, c.writer, c.runnerOptions), nil
}

// Review returns the manager → developer → manager loop.
func (c *Crew) Review() *runner.Review {
	return runner.NewReview(c.manager, c.developer, c.runnerOptions)
}

func (c *Crew) runnerOptions(o *runner.Options) {
	o.MaxDecisions = c.cfg.Memory.MaxDecisions
	o.MaxTokens = c.cfg.Memory.MaxTokens
	o.Tokenizer = c.opts.Tokenizer
	if o.Tokenizer == nil {
		o.Tokenizer = memory.TokenizerFor(c.cfg.Memory.Tokenizer)
	}
	o.Observer = c.opts.Observer
	o.Logger = component(c.logger, "runner")
}

func newBackend(cfg *config.Config) (model.Model, error) {
	b := cfg.Backend
	switch b.Provider {
	case config.ProviderOllama:
		return ollama.NewModel(func(o *ollama.Options) {
			o.Endpoint = cfg.GenerateURL()
		}), nil
	case config.ProviderOpenAI:
		return openai.NewModel(func(o *openai.Options) {
			o.BaseURL = sdkBaseURL(b.BaseURL)
			o.APIKey = b.APIKey
		}), nil
	case config.ProviderAnthropic:
		return anthropic.NewModel(func(o *anthropic.Options) {
			o.BaseURL = sdkBaseURL(b.BaseURL)
			o.APIKey = b.APIKey
		}), nil
	default:
		return nil, fmt.Errorf("unknown backend provider %q", b.Provider)
	}
}

// sdkBaseURL drops the native backend's default address so SDK backends fall
// back to their public endpoints. Requests always carry the role's model name.
func sdkBaseURL(u string) string {
	if u == config.DefaultBaseURL {
		return ""
	}
	return u
}

func component(l logging.Logger, name string) logging.Logger {
	if cl, ok := l.(*logging.CrewLogger); ok {
		return cl.WithComponent(name)
	}
	return l
}
