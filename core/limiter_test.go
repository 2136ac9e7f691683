package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCallLimiter(t *testing.T) {
	l := NewCallLimiter(2)
	assert.NoError(t, l.Increment())
	assert.NoError(t, l.Increment())
	err := l.Increment()
	assert.ErrorIs(t, err, ErrModelCallLimit)
	assert.Equal(t, 3, l.Count())
}

func TestCallLimiter_Unlimited(t *testing.T) {
	l := NewCallLimiter(0)
	for i := 0; i < 100; i++ {
		assert.NoError(t, l.Increment())
	}
	assert.Equal(t, 100, l.Count())
}
