// Package config provides configuration loading for agentcrew.
//
// A Config is built once at startup and passed to component constructors;
// components never read the environment themselves.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hupe1980/agentcrew/code"
	"github.com/hupe1980/agentcrew/logging"
)

// Supported backend providers.
const (
	ProviderOllama    = "ollama"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// DefaultBaseURL is the local native backend address.
const DefaultBaseURL = "http://localhost:11434"

// Config holds the complete agentcrew configuration.
type Config struct {
	Backend BackendConfig `koanf:"backend"`
	Models  ModelsConfig  `koanf:"models"`
	Memory  MemoryConfig  `koanf:"memory"`
	Exec    ExecConfig    `koanf:"exec"`
	Test    TestConfig    `koanf:"test"`
	Docs    DocsConfig    `koanf:"docs"`
	Search  SearchConfig  `koanf:"search"`
	VCS     VCSConfig     `koanf:"vcs"`
	Dev     DevConfig     `koanf:"dev"`
	Log     LogConfig     `koanf:"log"`
}

// BackendConfig selects and addresses the generative backend.
type BackendConfig struct {
	Provider     string        `koanf:"provider"`
	BaseURL      string        `koanf:"base_url"`
	GeneratePath string        `koanf:"generate_path"`
	Endpoint     string        `koanf:"endpoint"` // full generate URL, overrides base_url + generate_path
	APIKey       string        `koanf:"api_key"`
	Timeout      time.Duration `koanf:"timeout"`
	RetryBackoff time.Duration `koanf:"retry_backoff"`
	MaxCalls     int           `koanf:"max_model_calls"` // 0 = unlimited
}

// ModelsConfig names the model used by each role.
type ModelsConfig struct {
	Manager   string `koanf:"manager"`
	Developer string `koanf:"developer"`
	Planner   string `koanf:"planner"`
	Writer    string `koanf:"writer"`
}

// MemoryConfig holds compaction bounds.
type MemoryConfig struct {
	MaxDecisions int    `koanf:"max_decisions"`
	MaxTokens    int    `koanf:"max_tokens"`
	Tokenizer    string `koanf:"tokenizer"` // tiktoken model name; empty counts characters
}

// ExecConfig configures code execution for the LLM-only developer.
type ExecConfig struct {
	Interpreter string        `koanf:"interpreter"`
	Suffix      string        `koanf:"suffix"`
	Timeout     time.Duration `koanf:"timeout"`
}

// TestConfig configures the tester.
type TestConfig struct {
	Command   string        `koanf:"command"`
	Timeout   time.Duration `koanf:"timeout"`
	Extension string        `koanf:"extension"`
}

// DocsConfig configures document persistence.
type DocsConfig struct {
	Dir        string `koanf:"dir"`
	References string `koanf:"references"`
}

// SearchConfig configures the web-search backend.
type SearchConfig struct {
	Endpoint string        `koanf:"endpoint"`
	Results  int           `koanf:"results"`
	Timeout  time.Duration `koanf:"timeout"`
}

// VCSConfig configures the git working copy.
type VCSConfig struct {
	Dir         string `koanf:"dir"`
	AuthorName  string `koanf:"author_name"`
	AuthorEmail string `koanf:"author_email"`
}

// DevConfig configures the legacy developer.
type DevConfig struct {
	MaxAttempts int `koanf:"max_attempts"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Backend: BackendConfig{
			Provider:     ProviderOllama,
			BaseURL:      DefaultBaseURL,
			GeneratePath: "/api/generate",
			Timeout:      300 * time.Second,
			RetryBackoff: time.Second,
		},
		Models: ModelsConfig{
			Manager:   "deepseek-r1:7b",
			Developer: "deepseek-coder",
			Planner:   "deepseek-r1:7b",
			Writer:    "deepseek-r1:7b",
		},
		Memory: MemoryConfig{
			MaxDecisions: 5,
			MaxTokens:    1500,
			Tokenizer:    "gpt-3.5-turbo",
		},
		Exec: ExecConfig{
			Interpreter: "python3",
			Suffix:      ".py",
			Timeout:     15 * time.Second,
		},
		Test: TestConfig{
			Command:   "pytest",
			Timeout:   300 * time.Second,
			Extension: ".py",
		},
		Docs: DocsConfig{
			Dir:        "docs",
			References: "docs/_references.json",
		},
		Search: SearchConfig{
			Endpoint: "https://html.duckduckgo.com/html/",
			Results:  5,
			Timeout:  30 * time.Second,
		},
		VCS: VCSConfig{
			Dir:         ".",
			AuthorName:  "agentcrew",
			AuthorEmail: "agentcrew@localhost",
		},
		Dev: DevConfig{MaxAttempts: 2},
		Log: LogConfig{Level: "info", Format: "text"},
	}
}

// GenerateURL returns the full generate endpoint of the native backend.
func (c *Config) GenerateURL() string {
	if c.Backend.Endpoint != "" {
		return c.Backend.Endpoint
	}
	return strings.TrimRight(c.Backend.BaseURL, "/") + "/" + strings.TrimLeft(c.Backend.GeneratePath, "/")
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	switch c.Backend.Provider {
	case ProviderOllama, ProviderOpenAI, ProviderAnthropic:
	default:
		return fmt.Errorf("unknown backend provider %q (want ollama, openai or anthropic)", c.Backend.Provider)
	}
	if c.Backend.Timeout <= 0 {
		return errors.New("backend timeout must be positive")
	}
	if c.Backend.RetryBackoff < 0 {
		return errors.New("backend retry backoff must not be negative")
	}
	if c.Backend.MaxCalls < 0 {
		return errors.New("backend max_model_calls must not be negative")
	}
	if c.Memory.MaxDecisions < 1 {
		return fmt.Errorf("memory max_decisions must be at least 1, got %d", c.Memory.MaxDecisions)
	}
	if c.Memory.MaxTokens < 1 {
		return fmt.Errorf("memory max_tokens must be at least 1, got %d", c.Memory.MaxTokens)
	}
	if c.Exec.Timeout <= 0 {
		return errors.New("exec timeout must be positive")
	}
	if c.Test.Timeout <= 0 {
		return errors.New("test timeout must be positive")
	}
	if !code.NewSyntaxChecker().Supports(c.Test.Extension) {
		return fmt.Errorf("test extension %q has no syntax checker (want .go, .py, .rs or .ts)", c.Test.Extension)
	}
	if c.Search.Timeout <= 0 {
		return errors.New("search timeout must be positive")
	}
	if c.Dev.MaxAttempts < 1 {
		return fmt.Errorf("dev max_attempts must be at least 1, got %d", c.Dev.MaxAttempts)
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return err
	}
	switch c.Log.Format {
	case "json", "text":
	default:
		return fmt.Errorf("unknown log format %q (want json or text)", c.Log.Format)
	}
	return nil
}
