package core

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBackendError_Is(t *testing.T) {
	err := NewTimeoutError("generate", context.DeadlineExceeded)
	assert.True(t, IsTimeout(err))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.NotErrorIs(t, err, ErrTransport)

	wrapped := fmt.Errorf("planner: %w", err)
	assert.True(t, IsTimeout(wrapped))

	var be *BackendError
	assert.True(t, errors.As(wrapped, &be))
	assert.Equal(t, "generate", be.Op)
}

func TestBackendError_Message(t *testing.T) {
	err := &BackendError{Op: "generate", Attempts: 2, Kind: ErrBackendUnavailable, Err: errors.New("deadline")}
	assert.Equal(t, "generate: backend unavailable after 2 attempt(s): deadline", err.Error())

	err = &BackendError{Op: "generate", Kind: ErrTransport, Err: errors.New("503")}
	assert.Equal(t, "generate: transport error: 503", err.Error())
}
