package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// Cancellation causes recorded on a session's context.
var (
	errSuperseded = errors.New("superseded by a newer operation")
	errCancelled  = errors.New("cancelled by consumer")
	errClosed     = errors.New("orchestrator closed")
)

// session is the cancellation token of a single in-flight operation.
// A session is created when an operation starts and dropped when it
// completes or is superseded.
type session struct {
	id     string
	ctx    context.Context
	cancel context.CancelCauseFunc
}

func newSession(parent context.Context) *session {
	ctx, cancel := context.WithCancelCause(parent)
	return &session{
		id:     uuid.NewString(),
		ctx:    ctx,
		cancel: cancel,
	}
}

// cancelled reports whether the session was cancelled, either directly or
// through its parent context. A deadline on the parent is not a cancellation.
func (s *session) cancelled() bool {
	return errors.Is(s.ctx.Err(), context.Canceled)
}

// cause returns why the session was cancelled, or nil.
func (s *session) cause() error {
	if s.ctx.Err() == nil {
		return nil
	}
	return context.Cause(s.ctx)
}

// stop cancels the session with the given cause. Safe to call repeatedly.
func (s *session) stop(cause error) {
	s.cancel(cause)
}
