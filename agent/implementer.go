package agent

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/hupe1980/agentcrew/logging"
)

// Implementer applies a change described in natural language to the
// working tree. It reports whether it believes the change was applied.
type Implementer interface {
	Implement(ctx context.Context, description string) (bool, error)
}

// ImplementerFunc adapts a function to Implementer.
type ImplementerFunc func(ctx context.Context, description string) (bool, error)

// Implement implements Implementer.
func (f ImplementerFunc) Implement(ctx context.Context, description string) (bool, error) {
	return f(ctx, description)
}

const implementerInstruction = "You are a senior software engineer working in an existing repository.\n" +
	"Implement the change below. For every file you create or modify, reply with a line\n" +
	"FILE: <path relative to the repository root>\n" +
	"followed by the complete new file content in a fenced code block.\n\nChange:\n"

var fileBlockRe = regexp.MustCompile("(?m)^FILE:[ \t]*(\\S+)[ \t]*\\r?\\n```[^\\n]*\\n((?s:.*?))```")

// FileChange is one file emitted by the backend.
type FileChange struct {
	Path    string
	Content string
}

// LLMImplementerOptions configure an LLMImplementer.
type LLMImplementerOptions struct {
	Logger logging.Logger
}

// LLMImplementer asks the backend for whole-file replacements and writes
// them below Root.
type LLMImplementer struct {
	caller Caller
	model  string
	root   string
	logger logging.Logger
}

// NewLLMImplementer creates an implementer writing below root.
func NewLLMImplementer(caller Caller, modelName, root string, optFns ...func(o *LLMImplementerOptions)) *LLMImplementer {
	opts := LLMImplementerOptions{}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &LLMImplementer{caller: caller, model: modelName, root: root, logger: logging.OrNoOp(opts.Logger)}
}

// Implement requests file changes for description and writes them. It
// reports false when the reply contains no usable file block.
func (i *LLMImplementer) Implement(ctx context.Context, description string) (bool, error) {
	out, err := i.caller.Call(ctx, i.model, implementerInstruction+description)
	if err != nil {
		return false, err
	}

	changes := ParseFileChanges(out)
	if len(changes) == 0 {
		i.logger.Warn("implementer reply contained no file blocks")
		return false, nil
	}

	for _, c := range changes {
		path, err := confine(i.root, c.Path)
		if err != nil {
			return false, err
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return false, err
		}
		if err := os.WriteFile(path, []byte(c.Content), 0o644); err != nil { //nolint:gosec // source files
			return false, err
		}
		i.logger.Debug("file written", "path", c.Path, "bytes", len(c.Content))
	}
	return true, nil
}

// ParseFileChanges extracts "FILE: <path>" + fenced block pairs.
func ParseFileChanges(text string) []FileChange {
	var changes []FileChange
	for _, m := range fileBlockRe.FindAllStringSubmatch(text, -1) {
		changes = append(changes, FileChange{Path: m[1], Content: m[2]})
	}
	return changes
}

func confine(root, rel string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(rel))
	if filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("path %q escapes the repository root", rel)
	}
	if clean == ".git" || strings.HasPrefix(clean, ".git"+string(filepath.Separator)) {
		return "", fmt.Errorf("path %q points into .git", rel)
	}
	return filepath.Join(root, clean), nil
}

var _ Implementer = (*LLMImplementer)(nil)
