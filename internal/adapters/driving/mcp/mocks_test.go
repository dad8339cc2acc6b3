package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/recipesync/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/recipesync/internal/core/domain"
	"github.com/custodia-labs/recipesync/internal/core/ports/driving"
	"github.com/custodia-labs/recipesync/internal/core/services"
)

// mockProvider returns fixed recipes or an error.
type mockProvider struct {
	recipes []domain.Recipe
	err     error
}

func (p *mockProvider) Type() string { return "mock" }

func (p *mockProvider) Fetch(_ context.Context) ([]domain.Recipe, error) {
	if p.err != nil {
		return nil, p.err
	}
	return p.recipes, nil
}

// mockSync is a driving.SyncOrchestrator that never runs anything.
type mockSync struct {
	state     domain.OperationState
	statusErr error
	cancels   int
}

func (m *mockSync) LoadCached(_ context.Context) {}
func (m *mockSync) Refresh(_ context.Context)    {}
func (m *mockSync) Cancel()                      { m.cancels++ }

// TryLoadCached declines while the scripted state is in progress.
func (m *mockSync) TryLoadCached(_ context.Context) bool {
	return m.state.Status != domain.StatusInProgress
}

func (m *mockSync) State() domain.OperationState { return m.state }

func (m *mockSync) Subscribe() (<-chan domain.OperationState, func()) {
	ch := make(chan domain.OperationState, 1)
	ch <- m.state
	return ch, func() {}
}

func (m *mockSync) Status(_ context.Context) (*driving.SyncStatus, error) {
	if m.statusErr != nil {
		return nil, m.statusErr
	}
	return &driving.SyncStatus{State: m.state, Running: m.state.Status == domain.StatusInProgress}, nil
}

var errUpstream = errors.New("upstream unavailable")

func sampleRecipes() []domain.Recipe {
	return []domain.Recipe{
		{ID: 1, Name: "Classic Margherita Pizza", Cuisine: "Italian", Difficulty: "Easy",
			Tags: []string{"Italian", "Pizza"}, Ingredients: []string{"Dough"}, Instructions: []string{"Bake."},
			PrepTimeMinutes: 20, CookTimeMinutes: 15},
		{ID: 2, Name: "Vegetarian Stir-Fry", Cuisine: "Asian", Difficulty: "Medium",
			Tags: []string{"Asian", "Vegetarian"}},
		{ID: 3, Name: "Chocolate Chip Cookies", Cuisine: "American", Difficulty: "Easy",
			Tags: []string{"Cookies", "Dessert"}},
	}
}

// newTestServer builds a server over a real orchestrator and memory cache.
func newTestServer(t *testing.T, provider *mockProvider, cached ...domain.Recipe) (*Server, *services.SyncOrchestrator) {
	t.Helper()

	cache := memory.NewRecipeCache()
	if len(cached) > 0 {
		require.NoError(t, cache.ReplaceAll(context.Background(), cached))
	}
	orch := services.NewSyncOrchestrator(provider, cache)
	t.Cleanup(func() {
		orch.Close()
		orch.Wait()
	})

	server, err := NewServer(&Ports{Sync: orch})
	require.NoError(t, err)
	return server, orch
}
