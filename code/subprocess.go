package code

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/hupe1980/agentcrew/logging"
)

const (
	// DefaultExecTimeout bounds a single snippet execution.
	DefaultExecTimeout = 15 * time.Second
	// NoCodeMessage is returned for empty snippets.
	NoCodeMessage = "No code to execute."
)

// SubprocessOptions configure SubprocessExecutor.
type SubprocessOptions struct {
	Interpreter string
	// Args are passed to the interpreter before the script path.
	Args    []string
	Suffix  string
	Timeout time.Duration
	// Dir is the directory for temporary files; empty uses os.TempDir.
	Dir    string
	Logger logging.Logger
}

// SubprocessExecutor runs snippets with an external interpreter.
type SubprocessExecutor struct {
	opts SubprocessOptions
}

// NewSubprocessExecutor creates an executor that defaults to python3 with a
// 15 second timeout.
func NewSubprocessExecutor(optFns ...func(o *SubprocessOptions)) *SubprocessExecutor {
	opts := SubprocessOptions{
		Interpreter: "python3",
		Suffix:      ".py",
		Timeout:     DefaultExecTimeout,
		Logger:      logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultExecTimeout
	}
	opts.Logger = logging.OrNoOp(opts.Logger)
	return &SubprocessExecutor{opts: opts}
}

// Execute writes code to a temporary file and runs it. It returns stdout,
// or stderr when stdout is empty, or "Execution error: ..." when the process
// could not run to completion.
func (e *SubprocessExecutor) Execute(ctx context.Context, code string) (string, error) {
	if strings.TrimSpace(code) == "" {
		return NoCodeMessage, nil
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	path, err := writeTemp(e.opts.Dir, e.opts.Suffix, code)
	if err != nil {
		return fmt.Sprintf("Execution error: %v", err), nil
	}
	defer os.Remove(path)

	runCtx, cancel := context.WithTimeout(ctx, e.opts.Timeout)
	defer cancel()

	args := append(append([]string{}, e.opts.Args...), path)
	cmd := exec.CommandContext(runCtx, e.opts.Interpreter, args...) //nolint:gosec // running generated code is the purpose

	var stdout, stderr bytes.Buffer
	cmd.WaitDelay = time.Second
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	runErr := cmd.Run()

	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		e.log(start, runErr)
		return fmt.Sprintf("Execution error: timed out after %s", e.opts.Timeout), nil
	}

	var exitErr *exec.ExitError
	if runErr != nil && !errors.As(runErr, &exitErr) {
		e.log(start, runErr)
		return fmt.Sprintf("Execution error: %v", runErr), nil
	}

	e.log(start, runErr)
	if stdout.Len() > 0 {
		return stdout.String(), nil
	}
	return stderr.String(), nil
}

func (e *SubprocessExecutor) log(start time.Time, err error) {
	if l, ok := e.opts.Logger.(interface {
		LogExecution(string, time.Duration, bool, error)
	}); ok {
		l.LogExecution("code", time.Since(start), err == nil, err)
	}
}

func writeTemp(dir, suffix, code string) (string, error) {
	f, err := os.CreateTemp(dir, "agentcrew-*"+suffix)
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	if _, err := f.WriteString(code); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("write temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("close temp file: %w", err)
	}
	return f.Name(), nil
}

var _ Executor = (*SubprocessExecutor)(nil)
