// Package operation runs sync operations to completion for adapters that
// present a request/response surface, such as the CLI and the MCP server.
package operation

import (
	"context"
	"errors"

	"github.com/custodia-labs/recipesync/internal/core/domain"
	"github.com/custodia-labs/recipesync/internal/core/ports/driving"
)

// ErrFeedClosed is returned when the orchestrator stops publishing
// before the operation reaches a terminal state.
var ErrFeedClosed = errors.New("state feed closed before the operation finished")

// ErrNotStarted is returned by RunIf when start declines to begin an operation.
var ErrNotStarted = errors.New("operation not started")

// Run starts an operation and blocks until it reaches a terminal state.
//
// If another operation supersedes this one, Run follows the newer session,
// since only its outcome will be published. Cancelling ctx cancels the
// operation; the terminal state that follows is still returned.
// onProgress, if set, is called for each InProgress state.
func Run(
	ctx context.Context,
	syncOrch driving.SyncOrchestrator,
	start func(context.Context),
	onProgress func(domain.OperationState),
) (domain.OperationState, error) {
	return RunIf(ctx, syncOrch, func(ctx context.Context) bool {
		start(ctx)
		return true
	}, onProgress)
}

// RunIf is Run for a start function that may decline, such as
// TryLoadCached. It returns ErrNotStarted when start reports false.
func RunIf(
	ctx context.Context,
	syncOrch driving.SyncOrchestrator,
	start func(context.Context) bool,
	onProgress func(domain.OperationState),
) (domain.OperationState, error) {
	states, unsubscribe := syncOrch.Subscribe()
	defer unsubscribe()

	// Drop the replayed current state.
	if _, ok := <-states; !ok {
		return domain.OperationState{}, ErrFeedClosed
	}

	if !start(ctx) {
		return domain.OperationState{}, ErrNotStarted
	}

	var sessionID string
	done := ctx.Done()
	for {
		select {
		case state, ok := <-states:
			if !ok {
				return domain.OperationState{}, ErrFeedClosed
			}
			if state.Status == domain.StatusInProgress {
				sessionID = state.SessionID
				if onProgress != nil {
					onProgress(state)
				}
				continue
			}
			if state.IsTerminal() && sessionID != "" && state.SessionID == sessionID {
				return state, nil
			}
		case <-done:
			syncOrch.Cancel()
			done = nil
		}
	}
}
