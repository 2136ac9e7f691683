package config

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

const (
	maxConfigFileSize = 1024 * 1024 // 1MB

	// EnvPrefix prefixes structured environment overrides.
	EnvPrefix = "AGENTCREW_"
)

// legacyEnv maps the historical variable names to config keys.
var legacyEnv = map[string]string{
	"OLLAMA_URL":    "backend.base_url",
	"OLLAMA_API":    "backend.endpoint",
	"AGENT_MODEL":   "models.manager",
	"DEV_MODEL":     "models.developer",
	"PLANNER_MODEL": "models.planner",
	"WRITER_MODEL":  "models.writer",
	"TEST_COMMAND":  "test.command",
}

// Load builds a Config from defaults, an optional YAML file and the
// environment, then validates it.
//
// Precedence (highest to lowest):
//  1. AGENTCREW_<SECTION>_<FIELD> variables (AGENTCREW_MEMORY_MAX_TOKENS -> memory.max_tokens)
//  2. Legacy variables (OLLAMA_URL, OLLAMA_API, AGENT_MODEL, DEV_MODEL,
//     PLANNER_MODEL, WRITER_MODEL, TEST_COMMAND)
//  3. YAML file at path (skipped when path is empty)
//  4. Default()
//
// Files larger than 1MB are rejected.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		content, err := readConfigFile(path)
		if err != nil {
			return nil, err
		}
		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", func(s string) string {
		return legacyEnv[s]
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load legacy environment variables: %w", err)
	}

	// AGENTCREW_MEMORY_MAX_TOKENS -> memory.max_tokens
	// Strategy: split on the first underscore only (section.field_name).
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		lower := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		section, field, ok := strings.Cut(lower, "_")
		if !ok {
			return lower
		}
		return section + "." + field
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := Default()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func readConfigFile(path string) ([]byte, error) {
	// Open file once and validate using the descriptor.
	f, err := os.Open(path) //nolint:gosec // path is chosen by the operator
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("config path %s is a directory", path)
	}
	if info.Size() > maxConfigFileSize {
		return nil, fmt.Errorf("config file %s exceeds %d bytes", path, maxConfigFileSize)
	}

	content, err := io.ReadAll(io.LimitReader(f, maxConfigFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return content, nil
}
