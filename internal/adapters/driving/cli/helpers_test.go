package cli

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/recipesync/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/recipesync/internal/core/domain"
	"github.com/custodia-labs/recipesync/internal/core/services"
)

// execute runs the root command with args and returns everything written
// to stdout and stderr. Flags are reset afterwards so tests stay independent.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
		resetFlags(rootCmd)
	}()

	err := rootCmd.Execute()
	return buf.String(), err
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// mockProvider returns fixed recipes, an error, or blocks until ctx ends.
type mockProvider struct {
	recipes []domain.Recipe
	err     error
	block   bool
	calls   atomic.Int32
}

func (p *mockProvider) Type() string { return "mock" }

func (p *mockProvider) Fetch(ctx context.Context) ([]domain.Recipe, error) {
	p.calls.Add(1)
	if p.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if p.err != nil {
		return nil, p.err
	}
	return p.recipes, nil
}

// brokenCache fails every operation.
type brokenCache struct{}

var errDiskGone = errors.New("disk gone")

func (brokenCache) ReplaceAll(_ context.Context, _ []domain.Recipe) error {
	return errDiskGone
}

func (brokenCache) ReadAll(_ context.Context) ([]domain.Recipe, error) {
	return nil, errDiskGone
}

func sampleRecipes() []domain.Recipe {
	return []domain.Recipe{
		{ID: 1, Name: "Classic Margherita Pizza", Cuisine: "Italian", Difficulty: "Easy",
			Tags: []string{"Pizza"}, PrepTimeMinutes: 20, CookTimeMinutes: 15},
		{ID: 2, Name: "Vegetarian Stir-Fry", Cuisine: "Asian", Difficulty: "Medium",
			PrepTimeMinutes: 15, CookTimeMinutes: 20},
	}
}

// setupSync installs a real orchestrator over a memory cache seeded with cached.
func setupSync(t *testing.T, provider *mockProvider, cached ...domain.Recipe) *services.SyncOrchestrator {
	t.Helper()

	cache := memory.NewRecipeCache()
	if len(cached) > 0 {
		require.NoError(t, cache.ReplaceAll(context.Background(), cached))
	}
	return installSync(t, services.NewSyncOrchestrator(provider, cache))
}

func installSync(t *testing.T, orch *services.SyncOrchestrator) *services.SyncOrchestrator {
	t.Helper()

	old := syncOrchestrator
	syncOrchestrator = orch
	t.Cleanup(func() {
		syncOrchestrator = old
		orch.Close()
		orch.Wait()
	})
	return orch
}

// mockSettingsService implements driving.SettingsService for testing.
type mockSettingsService struct {
	mu       sync.Mutex
	settings domain.AppSettings
	getErr   error
	setErr   error
	set      map[string]string
}

func newMockSettingsService() *mockSettingsService {
	return &mockSettingsService{settings: domain.DefaultAppSettings(), set: map[string]string{}}
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	s := m.settings
	return &s, nil
}

func (m *mockSettingsService) Save(s *domain.AppSettings) error {
	m.settings = *s
	return nil
}

func (m *mockSettingsService) Set(key, value string) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.set[key] = value
	return nil
}

func (m *mockSettingsService) Keys() []string { return []string{"provider.type"} }

func (m *mockSettingsService) ConfigPath() string { return "/tmp/recipesync/config.toml" }

func setupSettings(t *testing.T, m *mockSettingsService) {
	t.Helper()
	old := settingsService
	settingsService = m
	t.Cleanup(func() { settingsService = old })
}
