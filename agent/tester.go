package agent

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/hupe1980/agentcrew/code"
	"github.com/hupe1980/agentcrew/core"
	"github.com/hupe1980/agentcrew/logging"
	"github.com/hupe1980/agentcrew/memory"
)

const (
	// DefaultTestCommand runs the project's tests.
	DefaultTestCommand = "pytest"
	// DefaultTestTimeout bounds a test run.
	DefaultTestTimeout = 300 * time.Second
	// SyntaxOnlyPassed is reported when the fallback check finds no errors.
	SyntaxOnlyPassed = "syntax-only check passed"
)

// TesterOptions configure a Tester.
type TesterOptions struct {
	Name string
	// Command is split on whitespace; the first field is the executable.
	Command string
	Timeout time.Duration
	// Dir is the working directory of the test run and the syntax check root.
	Dir string
	// Extension selects the files checked by the syntax-only fallback.
	Extension string
	// VCS lists changed files for the syntax-only fallback.
	VCS     core.VersionControl
	Checker *code.SyntaxChecker
	Logger  logging.Logger
}

// Tester runs the test command and falls back to a syntax-only check when
// the command is not installed.
type Tester struct {
	opts TesterOptions
}

// NewTester creates a Tester running pytest with a 300 second timeout.
func NewTester(optFns ...func(o *TesterOptions)) *Tester {
	opts := TesterOptions{
		Name:      TesterName,
		Command:   DefaultTestCommand,
		Timeout:   DefaultTestTimeout,
		Extension: ".py",
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTestTimeout
	}
	if opts.Checker == nil {
		opts.Checker = code.NewSyntaxChecker()
	}
	opts.Logger = logging.OrNoOp(opts.Logger)
	return &Tester{opts: opts}
}

// Name implements Agent.
func (t *Tester) Name() string { return t.opts.Name }

// Kind implements Agent.
func (t *Tester) Kind() Kind { return KindTester }

// Act runs the tests and returns their output; a failing run is reported as
// an error wrapping the output.
func (t *Tester) Act(ctx context.Context, _ *memory.Memory, _ string) (string, error) {
	passed, out := t.Run(ctx)
	if !passed {
		return out, fmt.Errorf("%s: tests failed", t.opts.Name)
	}
	return out, nil
}

// Run executes the test command. Success is exit code zero; output is the
// combined stdout and stderr.
func (t *Tester) Run(ctx context.Context) (bool, string) {
	fields := strings.Fields(t.opts.Command)
	if len(fields) == 0 {
		return t.syntaxOnly(ctx)
	}

	if err := t.locate(fields[0]); errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist) {
		t.opts.Logger.Warn("test runner not found, falling back to syntax check", "command", fields[0])
		return t.syntaxOnly(ctx)
	}

	runCtx, cancel := context.WithTimeout(ctx, t.opts.Timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, fields[0], fields[1:]...) //nolint:gosec // configured test command
	cmd.Dir = t.opts.Dir
	cmd.WaitDelay = time.Second
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	start := time.Now()
	err := cmd.Run()
	t.logExecution(start, err)

	switch {
	case err == nil:
		return true, out.String()
	case errors.Is(runCtx.Err(), context.DeadlineExceeded):
		return false, out.String() + fmt.Sprintf("\ntest run timed out after %s", t.opts.Timeout)
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return false, out.String()
	}
	return false, fmt.Sprintf("test run failed: %v\n%s", err, out.String())
}

// locate resolves the runner binary the way exec does: bare names through
// PATH, paths relative to Dir. Only this lookup decides whether the runner is
// missing, so failures of the run itself (a missing Dir included) never
// trigger the syntax-only fallback.
func (t *Tester) locate(name string) error {
	if !strings.Contains(name, "/") && !strings.ContainsRune(name, filepath.Separator) {
		_, err := exec.LookPath(name)
		return err
	}
	path := name
	if !filepath.IsAbs(path) && t.opts.Dir != "" {
		path = filepath.Join(t.opts.Dir, path)
	}
	_, err := exec.LookPath(path)
	return err
}

func (t *Tester) syntaxOnly(ctx context.Context) (bool, string) {
	if !t.opts.Checker.Supports(t.opts.Extension) {
		return false, fmt.Sprintf("syntax-only check cannot parse %q files", t.opts.Extension)
	}
	if t.opts.VCS == nil {
		return true, SyntaxOnlyPassed
	}
	files, err := t.opts.VCS.ChangedFiles(ctx, t.opts.Extension)
	if err != nil {
		return false, fmt.Sprintf("list changed files: %v", err)
	}
	if err := t.opts.Checker.CheckFiles(ctx, t.opts.Dir, files); err != nil {
		return false, err.Error()
	}
	return true, SyntaxOnlyPassed
}

func (t *Tester) logExecution(start time.Time, err error) {
	if l, ok := t.opts.Logger.(interface {
		LogExecution(string, time.Duration, bool, error)
	}); ok {
		l.LogExecution("tests", time.Since(start), err == nil, err)
	}
}

var _ Agent = (*Tester)(nil)
