package operation

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/recipesync/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/recipesync/internal/core/domain"
	"github.com/custodia-labs/recipesync/internal/core/ports/driving"
	"github.com/custodia-labs/recipesync/internal/core/services"
)

// scriptedSync publishes whatever the test script pushes.
type scriptedSync struct {
	mu      sync.Mutex
	states  chan domain.OperationState
	onStart func(s *scriptedSync)
	cancel  func(s *scriptedSync)
	cancels int
}

func newScriptedSync(onStart func(s *scriptedSync)) *scriptedSync {
	s := &scriptedSync{states: make(chan domain.OperationState, 16), onStart: onStart}
	s.states <- domain.IdleState()
	return s
}

func (s *scriptedSync) push(states ...domain.OperationState) {
	for _, st := range states {
		s.states <- st
	}
}

func (s *scriptedSync) LoadCached(_ context.Context) { s.onStart(s) }
func (s *scriptedSync) Refresh(_ context.Context)    { s.onStart(s) }

func (s *scriptedSync) TryLoadCached(ctx context.Context) bool {
	s.LoadCached(ctx)
	return true
}

func (s *scriptedSync) Cancel() {
	s.mu.Lock()
	s.cancels++
	s.mu.Unlock()
	if s.cancel != nil {
		s.cancel(s)
	}
}

func (s *scriptedSync) State() domain.OperationState { return domain.IdleState() }

func (s *scriptedSync) Subscribe() (<-chan domain.OperationState, func()) {
	return s.states, func() {}
}

func (s *scriptedSync) Status(_ context.Context) (*driving.SyncStatus, error) {
	return &driving.SyncStatus{}, nil
}

func recipes(ids ...int64) []domain.Recipe {
	out := make([]domain.Recipe, len(ids))
	for i, id := range ids {
		out[i] = domain.Recipe{ID: id, Name: "Recipe"}
	}
	return out
}

func TestRun_ReturnsTerminalState(t *testing.T) {
	s := newScriptedSync(func(s *scriptedSync) {
		s.push(domain.InProgressState("s1"), domain.SucceededState("s1", recipes(1, 2)))
	})

	state, err := Run(context.Background(), s, s.Refresh, nil)

	require.NoError(t, err)
	assert.Equal(t, domain.StatusSucceeded, state.Status)
	assert.Equal(t, []int64{1, 2}, domain.RecipeIDs(state.Recipes))
}

func TestRun_IgnoresStaleTerminalStates(t *testing.T) {
	s := newScriptedSync(func(s *scriptedSync) {
		s.push(
			domain.SucceededState("s0", recipes(9)),
			domain.InProgressState("s1"),
			domain.FailedState("s1", domain.ReasonCacheUnavailable),
		)
	})

	state, err := Run(context.Background(), s, s.LoadCached, nil)

	require.NoError(t, err)
	assert.Equal(t, domain.FailedState("s1", domain.ReasonCacheUnavailable), state)
}

func TestRun_FollowsSupersedingSession(t *testing.T) {
	var progress []string
	s := newScriptedSync(func(s *scriptedSync) {
		s.push(
			domain.InProgressState("s1"),
			domain.InProgressState("s2"),
			domain.SucceededState("s2", recipes(3)),
		)
	})

	state, err := Run(context.Background(), s, s.Refresh, func(st domain.OperationState) {
		progress = append(progress, st.SessionID)
	})

	require.NoError(t, err)
	assert.Equal(t, "s2", state.SessionID)
	assert.Equal(t, []string{"s1", "s2"}, progress)
}

func TestRun_ContextCancelCancelsOperation(t *testing.T) {
	s := newScriptedSync(func(s *scriptedSync) {
		s.push(domain.InProgressState("s1"))
	})
	s.cancel = func(s *scriptedSync) {
		s.push(domain.SucceededState("s1", nil))
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	state, err := Run(ctx, s, s.Refresh, nil)

	require.NoError(t, err)
	assert.Equal(t, domain.StatusSucceeded, state.Status)
	assert.Empty(t, state.Recipes)
	assert.Equal(t, 1, s.cancels)
}

func TestRun_FeedClosed(t *testing.T) {
	s := newScriptedSync(func(s *scriptedSync) {
		s.push(domain.InProgressState("s1"))
		close(s.states)
	})

	_, err := Run(context.Background(), s, s.Refresh, nil)

	assert.ErrorIs(t, err, ErrFeedClosed)
}

func TestRunIf_NotStarted(t *testing.T) {
	s := newScriptedSync(func(*scriptedSync) { t.Fatal("must not start") })

	_, err := RunIf(context.Background(), s, func(context.Context) bool { return false }, nil)

	assert.ErrorIs(t, err, ErrNotStarted)
}

func TestRunIf_TryLoadCachedWhileRefreshing(t *testing.T) {
	provider := &blockingProvider{release: make(chan struct{})}
	orch := services.NewSyncOrchestrator(provider, memory.NewRecipeCache())
	t.Cleanup(func() {
		close(provider.release)
		orch.Close()
		orch.Wait()
	})

	orch.Refresh(context.Background())
	_, err := RunIf(context.Background(), orch, orch.TryLoadCached, nil)

	assert.ErrorIs(t, err, ErrNotStarted)
	assert.Equal(t, domain.StatusInProgress, orch.State().Status, "the refresh keeps running")
}

// blockingProvider holds every Fetch until release is closed.
type blockingProvider struct {
	release chan struct{}
}

func (p *blockingProvider) Type() string { return "blocking" }

func (p *blockingProvider) Fetch(_ context.Context) ([]domain.Recipe, error) {
	<-p.release
	return nil, nil
}

type staticProvider struct {
	recipes []domain.Recipe
}

func (p *staticProvider) Type() string { return "static" }

func (p *staticProvider) Fetch(_ context.Context) ([]domain.Recipe, error) {
	return p.recipes, nil
}

func TestRun_WithOrchestrator(t *testing.T) {
	orch := services.NewSyncOrchestrator(&staticProvider{recipes: recipes(1, 2, 3)}, memory.NewRecipeCache())
	t.Cleanup(func() {
		orch.Close()
		orch.Wait()
	})

	refreshed, err := Run(context.Background(), orch, orch.Refresh, nil)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3}, domain.RecipeIDs(refreshed.Recipes))

	cached, err := Run(context.Background(), orch, orch.LoadCached, nil)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusSucceeded, cached.Status)
	assert.Equal(t, []int64{1, 2, 3}, domain.RecipeIDs(cached.Recipes))
	assert.NotEqual(t, refreshed.SessionID, cached.SessionID)
}
