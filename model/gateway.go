package model

import (
	"context"
	"errors"
	"time"

	"github.com/hupe1980/agentcrew/core"
	"github.com/hupe1980/agentcrew/logging"
)

const (
	// DefaultTimeout is the per-attempt ceiling for a generative call.
	DefaultTimeout = 300 * time.Second
	// DefaultRetryBackoff is the pause between a timed out attempt and its retry.
	DefaultRetryBackoff = time.Second
	// maxAttempts is one initial attempt plus one retry on timeout.
	maxAttempts = 2
)

// GatewayOptions configures a Gateway.
type GatewayOptions struct {
	// Timeout bounds each individual attempt.
	Timeout time.Duration
	// RetryBackoff is waited before the single timeout retry.
	RetryBackoff time.Duration
	// Limiter optionally bounds the number of attempts per run.
	Limiter *core.CallLimiter
	// Logger receives retry warnings and per-attempt outcomes.
	Logger logging.Logger
}

// Gateway is the retrying call gateway in front of a generative backend.
// It sends one request; on a timeout it logs a warning, waits RetryBackoff
// and retries exactly once with identical parameters. A second timeout, or
// any non-timeout failure, surfaces as core.ErrBackendUnavailable. The
// gateway keeps no state between calls besides the optional limiter.
type Gateway struct {
	backend Model
	opts    GatewayOptions
}

// NewGateway wraps backend with the retry discipline.
func NewGateway(backend Model, optFns ...func(o *GatewayOptions)) *Gateway {
	opts := GatewayOptions{
		Timeout:      DefaultTimeout,
		RetryBackoff: DefaultRetryBackoff,
		Logger:       logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	opts.Logger = logging.OrNoOp(opts.Logger)
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	return &Gateway{backend: backend, opts: opts}
}

// Backend returns the wrapped backend.
func (g *Gateway) Backend() Model { return g.backend }

type llmCallLogger interface {
	LogLLMCall(model string, attempt int, dur time.Duration, success bool, err error)
}

// Call sends prompt to modelName and returns the response text.
func (g *Gateway) Call(ctx context.Context, modelName, prompt string) (string, error) {
	req := Request{Model: modelName, Prompt: prompt, Stream: false}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if g.opts.Limiter != nil {
			if err := g.opts.Limiter.Increment(); err != nil {
				return "", &core.BackendError{Op: "generate", Attempts: attempt - 1, Kind: core.ErrBackendUnavailable, Err: err}
			}
		}

		text, err := g.attempt(ctx, req, attempt)
		if err == nil {
			return text, nil
		}
		lastErr = err

		if ctx.Err() != nil || !isTimeout(err) {
			return "", &core.BackendError{Op: "generate", Attempts: attempt, Kind: core.ErrBackendUnavailable, Err: err}
		}
		if attempt == maxAttempts {
			break
		}

		g.opts.Logger.Warn("generative backend timed out, retrying once",
			"model", modelName,
			"attempt", attempt,
			"backoff", g.opts.RetryBackoff,
		)
		if err := sleep(ctx, g.opts.RetryBackoff); err != nil {
			return "", &core.BackendError{Op: "generate", Attempts: attempt, Kind: core.ErrBackendUnavailable, Err: err}
		}
	}

	return "", &core.BackendError{Op: "generate", Attempts: maxAttempts, Kind: core.ErrBackendUnavailable, Err: lastErr}
}

func (g *Gateway) attempt(ctx context.Context, req Request, attempt int) (string, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, g.opts.Timeout)
	defer cancel()

	start := time.Now()
	text, err := g.backend.Generate(attemptCtx, req)
	if err != nil && errors.Is(err, context.DeadlineExceeded) && !core.IsTimeout(err) {
		err = core.NewTimeoutError("generate", err)
	}
	if l, ok := g.opts.Logger.(llmCallLogger); ok {
		l.LogLLMCall(req.Model, attempt, time.Since(start), err == nil, err)
	}
	return text, err
}

func isTimeout(err error) bool {
	return core.IsTimeout(err)
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
