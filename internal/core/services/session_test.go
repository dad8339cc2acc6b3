package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSession_IDsAreUnique(t *testing.T) {
	a := newSession(context.Background())
	b := newSession(context.Background())

	assert.NotEmpty(t, a.id)
	assert.NotEqual(t, a.id, b.id)
}

func TestSession_Stop(t *testing.T) {
	s := newSession(context.Background())
	assert.False(t, s.cancelled())
	assert.NoError(t, s.cause())

	s.stop(errSuperseded)
	s.stop(errCancelled)

	assert.True(t, s.cancelled())
	assert.ErrorIs(t, s.cause(), errSuperseded, "first cause wins")
}

func TestSession_ParentCancellation(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())
	s := newSession(parent)

	cancel()

	assert.True(t, s.cancelled())
	assert.ErrorIs(t, s.cause(), context.Canceled)
}

func TestSession_DeadlineIsNotCancellation(t *testing.T) {
	parent, cancel := context.WithTimeout(context.Background(), time.Millisecond)
	defer cancel()
	s := newSession(parent)

	<-s.ctx.Done()

	assert.False(t, s.cancelled())
	assert.ErrorIs(t, s.cause(), context.DeadlineExceeded)
}
