package main

import (
	"fmt"
	"path/filepath"

	"github.com/custodia-labs/recipesync/internal/adapters/driven/config/file"
	"github.com/custodia-labs/recipesync/internal/adapters/driven/provider"
	"github.com/custodia-labs/recipesync/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/recipesync/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/recipesync/internal/adapters/driving/cli"
	"github.com/custodia-labs/recipesync/internal/core/domain"
	"github.com/custodia-labs/recipesync/internal/core/ports/driven"
	"github.com/custodia-labs/recipesync/internal/core/services"
	"github.com/custodia-labs/recipesync/internal/logger"
)

// bootstrap builds the services for one command run.
// Settings are always available. When the provider or cache cannot be
// built, the reason is reported through SyncErr instead of failing, so
// "recipesync settings set" can still repair the configuration.
func bootstrap(opts cli.Options) (*cli.Services, error) {
	configStore, err := file.NewConfigStore(opts.ConfigDir)
	if err != nil {
		return nil, fmt.Errorf("opening config: %w", err)
	}
	settingsService := services.NewSettingsService(configStore)

	out := &cli.Services{Settings: settingsService}

	settings, err := settingsService.Get()
	if err != nil {
		out.SyncErr = err
		return out, nil
	}
	if err := settings.Validate(); err != nil {
		out.SyncErr = err
		return out, nil
	}

	recipeProvider, err := provider.New(settings.Provider)
	if err != nil {
		out.SyncErr = err
		return out, nil
	}

	cache, closeCache, err := openCache(opts, settings.Cache)
	if err != nil {
		out.SyncErr = err
		return out, nil
	}

	orch := services.NewSyncOrchestrator(recipeProvider, cache,
		services.WithRefreshTimeout(settings.Sync.RefreshTimeout))
	logger.Debug("bootstrap: %s provider, %T cache", recipeProvider.Type(), cache)

	out.Sync = orch
	if watcher, ok := recipeProvider.(driven.ChangeWatcher); ok {
		out.Watcher = watcher
	}
	out.Close = func() {
		orch.Close()
		orch.Wait()
		closeCache()
	}
	return out, nil
}

// openCache opens the configured cache. --ephemeral forces the memory backend.
func openCache(opts cli.Options, settings domain.CacheSettings) (driven.RecipeCache, func(), error) {
	if opts.Ephemeral || settings.Backend == domain.CacheMemory {
		return memory.NewRecipeCache(), func() {}, nil
	}

	dir := settings.Dir
	if dir == "" && opts.ConfigDir != "" {
		dir = filepath.Join(opts.ConfigDir, "data")
	}

	store, err := sqlite.NewStore(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", domain.ErrCacheUnavailable, err)
	}
	closeStore := func() {
		if err := store.Close(); err != nil {
			logger.Warn("closing cache: %v", err)
		}
	}
	return store.RecipeCache(), closeStore, nil
}
