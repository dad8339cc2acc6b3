package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync/atomic"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/recipesync/internal/adapters/driving/operation"
	"github.com/custodia-labs/recipesync/internal/core/domain"
	"github.com/custodia-labs/recipesync/internal/core/ports/driving"
)

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Fetch recipes from the provider and replace the cache",
	Long: `Fetches the full recipe collection from the configured provider and
replaces the local cache with it. The cache is only written once the fetch
succeeds. Press Ctrl-C to cancel; a cancelled refresh leaves the cache as it was.`,
	RunE: runRefresh,
}

func init() {
	refreshCmd.Flags().Duration("timeout", 0, "give up after this long (0 = no limit)")
	rootCmd.AddCommand(refreshCmd)
}

func runRefresh(cmd *cobra.Command, _ []string) error {
	if err := requireSync(); err != nil {
		return err
	}
	timeout, err := cmd.Flags().GetDuration("timeout")
	if err != nil {
		return fmt.Errorf("getting timeout flag: %w", err)
	}

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt)
	defer stop()

	return refreshOnce(ctx, cmd, syncOrchestrator, timeout)
}

// refreshOnce runs one refresh and reports the outcome.
// A timeout cancels the refresh like Ctrl-C does. The deadline is not
// attached to the session context, where it would read as a fetch failure.
func refreshOnce(ctx context.Context, cmd *cobra.Command, syncOrch driving.SyncOrchestrator, timeout time.Duration) error {
	var cancelRequested atomic.Bool
	cancel := func() {
		cancelRequested.Store(true)
		syncOrch.Cancel()
	}

	var timer *time.Timer
	start := func(ctx context.Context) {
		syncOrch.Refresh(ctx)
		if timeout > 0 {
			timer = time.AfterFunc(timeout, cancel)
		}
	}
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()
	started := time.Now()
	state, err := operation.Run(ctx, syncOrch, start, progressPrinter(cmd))
	if err != nil {
		return err
	}
	clearProgress(cmd)

	switch {
	case state.Status == domain.StatusFailed:
		return fmt.Errorf("refresh failed: %w", state.Reason.Err())
	// Ctrl-C arrives through ctx, which operation.Run turns into Cancel.
	case wasCancelled(state, cancelRequested.Load() || ctx.Err() != nil):
		cmd.Println("Refresh cancelled.")
	default:
		cmd.Printf("Refreshed %d recipes in %s.\n", len(state.Recipes), time.Since(started).Round(time.Millisecond))
	}
	return nil
}

// wasCancelled reports whether a terminal state is the empty success of a
// cancelled refresh. A refresh that completed before the cancel landed
// keeps its recipes and is reported as a success.
func wasCancelled(state domain.OperationState, cancelRequested bool) bool {
	return cancelRequested && state.Status == domain.StatusSucceeded && len(state.Recipes) == 0
}

func progressPrinter(cmd *cobra.Command) func(domain.OperationState) {
	if !isTerminal() {
		return nil
	}
	return func(domain.OperationState) {
		cmd.Print("Refreshing recipes...")
	}
}

func clearProgress(cmd *cobra.Command) {
	if isTerminal() {
		cmd.Print("\r\033[K")
	}
}

func isTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// commandContext returns the command's context, or Background when
// the command is executed without one.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
