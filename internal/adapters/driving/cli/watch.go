package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/recipesync/internal/adapters/driving/operation"
	"github.com/custodia-labs/recipesync/internal/core/domain"
	"github.com/custodia-labs/recipesync/internal/core/ports/driving"
	"github.com/custodia-labs/recipesync/internal/logger"
)

var errNothingToWatch = errors.New("provider cannot report changes; use --every to refresh periodically")

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Refresh whenever the source changes",
	Long: `Keeps the cache up to date until interrupted.

With the file provider, a refresh starts each time the recipe file changes.
A change that arrives while a refresh is running supersedes it.
With --every, a refresh starts on a fixed interval for any provider.`,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().Duration("every", 0, "refresh on this interval instead of on file changes")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, _ []string) error {
	if err := requireSync(); err != nil {
		return err
	}
	every, err := cmd.Flags().GetDuration("every")
	if err != nil {
		return fmt.Errorf("getting every flag: %w", err)
	}
	if every < 0 {
		return fmt.Errorf("%w: --every must not be negative", domain.ErrInvalidInput)
	}

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt)
	defer stop()

	var triggers <-chan struct{}
	switch {
	case every > 0:
		triggers = tick(ctx, every)
		cmd.Printf("Refreshing every %s. Press Ctrl-C to stop.\n", every)
	case changeWatcher != nil:
		triggers, err = changeWatcher.Watch(ctx)
		if err != nil {
			return fmt.Errorf("watching provider: %w", err)
		}
		cmd.Println("Watching for changes. Press Ctrl-C to stop.")
	default:
		return errNothingToWatch
	}

	return watchLoop(ctx, cmd, syncOrchestrator, triggers)
}

// watchLoop refreshes once at start and again on every trigger.
// Each refresh supersedes the previous one. Returns when ctx is done
// or triggers is closed.
func watchLoop(ctx context.Context, cmd *cobra.Command, syncOrch driving.SyncOrchestrator, triggers <-chan struct{}) error {
	states, unsubscribe := syncOrch.Subscribe()
	defer unsubscribe()
	if _, ok := <-states; !ok {
		return operation.ErrFeedClosed
	}

	syncOrch.Refresh(ctx)
	for {
		select {
		case <-ctx.Done():
			cmd.Println("Stopped.")
			return nil
		case _, ok := <-triggers:
			if !ok {
				return nil
			}
			logger.Debug("watch: change detected, refreshing")
			syncOrch.Refresh(ctx)
		case state, ok := <-states:
			if !ok {
				return operation.ErrFeedClosed
			}
			reportWatchState(cmd, state)
		}
	}
}

func reportWatchState(cmd *cobra.Command, state domain.OperationState) {
	stamp := time.Now().Format(time.TimeOnly)
	switch state.Status {
	case domain.StatusSucceeded:
		cmd.Printf("[%s] %d recipes cached\n", stamp, len(state.Recipes))
	case domain.StatusFailed:
		cmd.Printf("[%s] %s: %s\n", stamp, state.Reason.Description(), state.Reason)
	}
}

// tick emits on every interval until ctx is done.
func tick(ctx context.Context, every time.Duration) <-chan struct{} {
	out := make(chan struct{}, 1)
	go func() {
		defer close(out)
		ticker := time.NewTicker(every)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				select {
				case out <- struct{}{}:
				default:
				}
			}
		}
	}()
	return out
}
