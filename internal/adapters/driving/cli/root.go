// Package cli provides the recipesync command line interface.
//
// Commands are package-level cobra commands registered in init functions.
// The entry point supplies a BootstrapFunc that builds the services once
// the global flags are parsed; tests assign the service variables directly.
package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/recipesync/internal/core/ports/driven"
	"github.com/custodia-labs/recipesync/internal/core/ports/driving"
	"github.com/custodia-labs/recipesync/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Services used by commands. Nil until bootstrap runs.
var (
	syncOrchestrator driving.SyncOrchestrator
	settingsService  driving.SettingsService
	changeWatcher    driven.ChangeWatcher

	// syncErr explains why syncOrchestrator is nil, if known.
	syncErr error
)

var errSyncNotConfigured = errors.New("sync service not configured")

// Options are the global flags that influence how services are built.
type Options struct {
	// ConfigDir overrides the configuration directory.
	ConfigDir string

	// Ephemeral selects the in-memory cache regardless of settings.
	Ephemeral bool

	// Verbose enables debug logging.
	Verbose bool
}

// Services are the dependencies commands run against.
type Services struct {
	Sync     driving.SyncOrchestrator
	Settings driving.SettingsService

	// SyncErr is set instead of Sync when the provider or cache could not
	// be built. Settings commands still work so the problem can be fixed.
	SyncErr error

	// Watcher is set when the configured provider can report changes.
	Watcher driven.ChangeWatcher

	// Close releases resources. May be nil.
	Close func()
}

// BootstrapFunc builds services from the global options.
type BootstrapFunc func(opts Options) (*Services, error)

var (
	bootstrap BootstrapFunc
	closeFn   func()
	globalOpts Options
)

var rootCmd = &cobra.Command{
	Use:   "recipesync",
	Short: "Keep a local recipe cache in sync with a remote source",
	Long: `recipesync fetches recipes from a remote provider, keeps them in a local
cache and serves either the cached copy or a fresh one.

Configure the provider with "recipesync settings set", then run
"recipesync refresh" to populate the cache and "recipesync list" to read it.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: teardown,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&globalOpts.ConfigDir, "config-dir", "", "configuration directory (default ~/.recipesync)")
	rootCmd.PersistentFlags().BoolVar(&globalOpts.Ephemeral, "ephemeral", false, "use an in-memory cache for this run")
	rootCmd.PersistentFlags().BoolVarP(&globalOpts.Verbose, "verbose", "v", false, "enable debug logging")
}

// SetBootstrap registers the function that builds services before a command runs.
func SetBootstrap(fn BootstrapFunc) {
	bootstrap = fn
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func setup(_ *cobra.Command, _ []string) error {
	logger.SetVerbose(globalOpts.Verbose)
	if bootstrap == nil {
		return nil
	}

	services, err := bootstrap(globalOpts)
	if err != nil {
		return fmt.Errorf("initialising: %w", err)
	}
	syncOrchestrator = services.Sync
	syncErr = services.SyncErr
	settingsService = services.Settings
	changeWatcher = services.Watcher
	closeFn = services.Close
	return nil
}

// requireSync reports why sync commands cannot run, or nil if they can.
func requireSync() error {
	if syncOrchestrator != nil {
		return nil
	}
	if syncErr != nil {
		return fmt.Errorf("%w: %w", errSyncNotConfigured, syncErr)
	}
	return errSyncNotConfigured
}

func teardown(_ *cobra.Command, _ []string) {
	if closeFn != nil {
		closeFn()
		closeFn = nil
	}
}
