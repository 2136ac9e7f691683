package agent

import (
	"context"
	"fmt"
	"time"

	"github.com/hupe1980/agentcrew/core"
	"github.com/hupe1980/agentcrew/logging"
	"github.com/hupe1980/agentcrew/memory"
)

// TestRunner reports whether the working tree passes its checks.
// *Tester implements it.
type TestRunner interface {
	Run(ctx context.Context) (bool, string)
}

// LegacyDeveloperOptions configure a LegacyDeveloper.
type LegacyDeveloperOptions struct {
	Name        string
	MaxAttempts int
	Logger      logging.Logger
}

// LegacyDeveloper changes the working tree through an Implementer and only
// keeps changes that pass the tests.
type LegacyDeveloper struct {
	impl   Implementer
	vcs    core.VersionControl
	tests  TestRunner
	opts   LegacyDeveloperOptions
	logger logging.Logger
}

// NewLegacyDeveloper creates a LegacyDeveloper making two attempts per task.
func NewLegacyDeveloper(impl Implementer, vcs core.VersionControl, tests TestRunner, optFns ...func(o *LegacyDeveloperOptions)) *LegacyDeveloper {
	opts := LegacyDeveloperOptions{Name: DeveloperName, MaxAttempts: 2}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.MaxAttempts < 1 {
		opts.MaxAttempts = 1
	}
	return &LegacyDeveloper{
		impl:   impl,
		vcs:    vcs,
		tests:  tests,
		opts:   opts,
		logger: logging.OrNoOp(opts.Logger),
	}
}

// Name implements Agent.
func (d *LegacyDeveloper) Name() string { return d.opts.Name }

// Kind implements Agent.
func (d *LegacyDeveloper) Kind() Kind { return KindLegacyDeveloper }

// Act implements task and reports the outcome as text. An unrecoverable
// failure is returned as core.ErrImplementationFailure.
func (d *LegacyDeveloper) Act(ctx context.Context, _ *memory.Memory, task string) (string, error) {
	ok, err := d.ImplementWithRetry(ctx, task)
	if err != nil {
		return "", err
	}
	if !ok {
		return "Error: implementation failed: " + task, fmt.Errorf("%s: %w", d.opts.Name, core.ErrImplementationFailure)
	}
	return "Implemented: " + task, nil
}

// ImplementWithRetry runs up to MaxAttempts attempts. Each attempt stashes
// stray changes, delegates to the Implementer and runs the tests. Passing
// changes are committed as "feat: <description[:60]>"; failing ones are
// reverted and the next attempt sees the test output. Errors are returned
// only for context cancellation; other failures count as a failed attempt.
func (d *LegacyDeveloper) ImplementWithRetry(ctx context.Context, description string) (bool, error) {
	request := description
	for attempt := 1; attempt <= d.opts.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return false, err
		}
		start := time.Now()

		if err := d.vcs.EnsureCleanState(ctx); err != nil {
			d.logger.Warn("could not stash working copy", "error", err)
		}

		applied, err := d.impl.Implement(ctx, request)
		if err != nil {
			d.logger.Warn("implementer failed", "attempt", attempt, "error", err)
			d.revert(ctx)
			if ctx.Err() != nil {
				return false, ctx.Err()
			}
			continue
		}
		if !applied {
			d.logger.Warn("implementer applied no change", "attempt", attempt)
			d.revert(ctx)
			continue
		}

		passed, output := d.tests.Run(ctx)
		if passed {
			if err := d.vcs.CommitAll(ctx, "feat: "+truncate(description, 60)); err != nil {
				d.logger.Error("commit failed", "error", err)
				d.revert(ctx)
				continue
			}
			d.logger.Info("task implemented", "attempt", attempt, "duration", time.Since(start))
			return true, nil
		}

		d.logger.Warn("tests failed", "attempt", attempt)
		d.revert(ctx)
		request = fmt.Sprintf("%s\n\nThe previous attempt failed these checks:\n%s", description, output)
	}
	return false, nil
}

func (d *LegacyDeveloper) revert(ctx context.Context) {
	if err := d.vcs.RevertWorkingCopy(ctx); err != nil {
		d.logger.Error("revert failed", "error", err)
	}
}

var (
	_ Agent      = (*LegacyDeveloper)(nil)
	_ TestRunner = (*Tester)(nil)
)
