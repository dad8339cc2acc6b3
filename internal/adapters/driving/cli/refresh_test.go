package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/recipesync/internal/core/domain"
	"github.com/custodia-labs/recipesync/internal/core/ports/driving"
	"github.com/custodia-labs/recipesync/internal/core/services"
)

func TestRefreshCmd_Use(t *testing.T) {
	assert.Equal(t, "refresh", refreshCmd.Use)
	assert.Contains(t, refreshCmd.Long, "Ctrl-C")
}

func TestRefreshCmd_ServiceNotConfigured(t *testing.T) {
	old := syncOrchestrator
	syncOrchestrator = nil
	defer func() { syncOrchestrator = old }()

	_, err := execute(t, "refresh")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "sync service not configured")
}

func TestRefreshCmd_ReplacesCache(t *testing.T) {
	orch := setupSync(t, &mockProvider{recipes: sampleRecipes()}, domain.Recipe{ID: 99, Name: "Old"})

	out, err := execute(t, "refresh")

	require.NoError(t, err)
	assert.Contains(t, out, "Refreshed 2 recipes")

	status, err := orch.Status(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, status.Cache.Count)
}

func TestRefreshCmd_FetchFailure(t *testing.T) {
	orch := setupSync(t, &mockProvider{err: domain.ErrRemoteFetch}, sampleRecipes()...)

	_, err := execute(t, "refresh")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrRemoteFetch)
	assert.Contains(t, err.Error(), "refresh failed")

	status, err := orch.Status(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, status.Cache.Count, "cache is untouched by a failed refresh")
}

func TestRefreshCmd_CacheWriteFailure(t *testing.T) {
	installSync(t, services.NewSyncOrchestrator(&mockProvider{recipes: sampleRecipes()}, brokenCache{}))

	_, err := execute(t, "refresh")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrCacheUnavailable)
}

func TestRefreshCmd_TimeoutCancels(t *testing.T) {
	orch := setupSync(t, &mockProvider{block: true}, sampleRecipes()...)

	out, err := execute(t, "refresh", "--timeout", "20ms")

	require.NoError(t, err)
	assert.Contains(t, out, "Refresh cancelled.")

	status, err := orch.Status(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, status.Cache.Count)
	assert.Empty(t, status.State.Recipes)
}

func TestRefreshCmd_TimeoutNotReached(t *testing.T) {
	setupSync(t, &mockProvider{recipes: sampleRecipes()})

	out, err := execute(t, "refresh", "--timeout", "1m")

	require.NoError(t, err)
	assert.Contains(t, out, "Refreshed 2 recipes")
}

// finishingSync completes every refresh with fixed recipes and ignores Cancel.
type finishingSync struct {
	recipes []domain.Recipe
	states  chan domain.OperationState
}

func newFinishingSync(recipes []domain.Recipe) *finishingSync {
	f := &finishingSync{recipes: recipes, states: make(chan domain.OperationState, 4)}
	f.states <- domain.IdleState()
	return f
}

func (f *finishingSync) Refresh(_ context.Context) {
	f.states <- domain.InProgressState("s1")
	f.states <- domain.SucceededState("s1", f.recipes)
}

func (f *finishingSync) LoadCached(_ context.Context)         {}
func (f *finishingSync) TryLoadCached(_ context.Context) bool { return false }
func (f *finishingSync) Cancel()                              {}
func (f *finishingSync) State() domain.OperationState         { return domain.IdleState() }

func (f *finishingSync) Subscribe() (<-chan domain.OperationState, func()) {
	return f.states, func() {}
}

func (f *finishingSync) Status(_ context.Context) (*driving.SyncStatus, error) {
	return &driving.SyncStatus{}, nil
}

func TestRefreshOnce_CompletedDespiteInterrupt(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var out bytes.Buffer
	refreshCmd.SetOut(&out)
	defer refreshCmd.SetOut(nil)

	err := refreshOnce(ctx, refreshCmd, newFinishingSync(sampleRecipes()), 0)

	require.NoError(t, err)
	assert.Contains(t, out.String(), "Refreshed 2 recipes")
	assert.NotContains(t, out.String(), "cancelled")
}

func TestWasCancelled(t *testing.T) {
	tests := []struct {
		name      string
		state     domain.OperationState
		requested bool
		want      bool
	}{
		{"empty success after cancel", domain.SucceededState("s1", nil), true, true},
		{"recipes after cancel", domain.SucceededState("s1", sampleRecipes()), true, false},
		{"empty success without cancel", domain.SucceededState("s1", nil), false, false},
		{"failure after cancel", domain.FailedState("s1", domain.ReasonRemoteFetchFailed), true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, wasCancelled(tt.state, tt.requested))
		})
	}
}
