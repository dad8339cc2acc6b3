package driving

import "github.com/custodia-labs/recipesync/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings, with defaults applied.
	Get() (*domain.AppSettings, error)

	// Save validates and persists application settings.
	Save(settings *domain.AppSettings) error

	// Set changes a single setting by key, validating the result.
	Set(key, value string) error

	// Keys returns the recognised setting keys.
	Keys() []string

	// ConfigPath returns where settings are stored.
	ConfigPath() string
}
