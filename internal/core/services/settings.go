package services

import (
	"fmt"
	"strconv"
	"time"

	"github.com/custodia-labs/recipesync/internal/core/domain"
	"github.com/custodia-labs/recipesync/internal/core/ports/driven"
	"github.com/custodia-labs/recipesync/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyProviderType    = "provider.type"
	keyProviderBaseURL = "provider.base_url"
	keyProviderToken   = "provider.token"
	keyProviderPath    = "provider.path"
	keyProviderRepo    = "provider.repo"
	keyProviderRef     = "provider.ref"
	keyProviderRate    = "provider.rate"
	keyProviderTimeout = "provider.timeout"
	keyCacheBackend    = "cache.backend"
	keyCacheDir        = "cache.dir"
	keySyncTimeout     = "sync.timeout"
)

var settingKeys = []string{
	keyProviderType,
	keyProviderBaseURL,
	keyProviderToken,
	keyProviderPath,
	keyProviderRepo,
	keyProviderRef,
	keyProviderRate,
	keyProviderTimeout,
	keyCacheBackend,
	keyCacheDir,
	keySyncTimeout,
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current application settings.
// Missing or unrecognised values fall back to the defaults.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Provider: domain.ProviderSettings{
			Type:              s.getProviderType(defaults.Provider.Type),
			BaseURL:           s.getString(keyProviderBaseURL, defaults.Provider.BaseURL),
			Token:             s.configStore.GetString(keyProviderToken),
			Path:              s.configStore.GetString(keyProviderPath),
			Repo:              s.configStore.GetString(keyProviderRepo),
			Ref:               s.configStore.GetString(keyProviderRef),
			RequestsPerSecond: s.getFloat(keyProviderRate, defaults.Provider.RequestsPerSecond),
			Timeout:           s.getDuration(keyProviderTimeout, defaults.Provider.Timeout),
		},
		Cache: domain.CacheSettings{
			Backend: s.getCacheBackend(defaults.Cache.Backend),
			Dir:     s.configStore.GetString(keyCacheDir),
		},
		Sync: domain.SyncSettings{
			RefreshTimeout: s.getDuration(keySyncTimeout, defaults.Sync.RefreshTimeout),
		},
	}

	return settings, nil
}

// Save validates and persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	if err := settings.Validate(); err != nil {
		return err
	}

	// Save provider settings
	if err := s.configStore.Set(keyProviderType, settings.Provider.Type.String()); err != nil {
		return fmt.Errorf("save provider type: %w", err)
	}
	if err := s.configStore.Set(keyProviderBaseURL, settings.Provider.BaseURL); err != nil {
		return fmt.Errorf("save provider base_url: %w", err)
	}
	if err := s.setOptional(keyProviderToken, settings.Provider.Token); err != nil {
		return fmt.Errorf("save provider token: %w", err)
	}
	if err := s.setOptional(keyProviderPath, settings.Provider.Path); err != nil {
		return fmt.Errorf("save provider path: %w", err)
	}
	if err := s.setOptional(keyProviderRepo, settings.Provider.Repo); err != nil {
		return fmt.Errorf("save provider repo: %w", err)
	}
	if err := s.setOptional(keyProviderRef, settings.Provider.Ref); err != nil {
		return fmt.Errorf("save provider ref: %w", err)
	}
	if err := s.configStore.Set(keyProviderRate, settings.Provider.RequestsPerSecond); err != nil {
		return fmt.Errorf("save provider rate: %w", err)
	}
	if err := s.configStore.Set(keyProviderTimeout, settings.Provider.Timeout.String()); err != nil {
		return fmt.Errorf("save provider timeout: %w", err)
	}

	// Save cache settings
	if err := s.configStore.Set(keyCacheBackend, settings.Cache.Backend.String()); err != nil {
		return fmt.Errorf("save cache backend: %w", err)
	}
	if err := s.setOptional(keyCacheDir, settings.Cache.Dir); err != nil {
		return fmt.Errorf("save cache dir: %w", err)
	}

	// Save sync settings
	if err := s.configStore.Set(keySyncTimeout, settings.Sync.RefreshTimeout.String()); err != nil {
		return fmt.Errorf("save sync timeout: %w", err)
	}

	return nil
}

// Set changes a single setting. The resulting settings are validated
// before anything is written.
func (s *SettingsService) Set(key, value string) error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	switch key {
	case keyProviderType:
		settings.Provider.Type = domain.ProviderType(value)
	case keyProviderBaseURL:
		settings.Provider.BaseURL = value
	case keyProviderToken:
		settings.Provider.Token = value
	case keyProviderPath:
		settings.Provider.Path = value
	case keyProviderRepo:
		settings.Provider.Repo = value
	case keyProviderRef:
		settings.Provider.Ref = value
	case keyProviderRate:
		rate, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("%w: %s must be a number", domain.ErrInvalidInput, key)
		}
		settings.Provider.RequestsPerSecond = rate
	case keyProviderTimeout:
		d, err := parseDuration(value)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", domain.ErrInvalidInput, key, err)
		}
		settings.Provider.Timeout = d
	case keyCacheBackend:
		settings.Cache.Backend = domain.CacheBackend(value)
	case keyCacheDir:
		settings.Cache.Dir = value
	case keySyncTimeout:
		d, err := parseDuration(value)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", domain.ErrInvalidInput, key, err)
		}
		settings.Sync.RefreshTimeout = d
	default:
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}

	return s.Save(settings)
}

// Keys returns the recognised setting keys.
func (s *SettingsService) Keys() []string {
	keys := make([]string, len(settingKeys))
	copy(keys, settingKeys)
	return keys
}

// ConfigPath returns where settings are stored.
func (s *SettingsService) ConfigPath() string {
	return s.configStore.Path()
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetFloat(key)
}

// getDuration reads a duration string such as "30s". A bare integer is
// taken as seconds.
func (s *SettingsService) getDuration(key string, defaultVal time.Duration) time.Duration {
	val, exists := s.configStore.Get(key)
	if !exists {
		return defaultVal
	}
	if str, ok := val.(string); ok {
		d, err := parseDuration(str)
		if err != nil {
			return defaultVal
		}
		return d
	}
	return time.Duration(s.configStore.GetInt(key)) * time.Second
}

func (s *SettingsService) getProviderType(defaultVal domain.ProviderType) domain.ProviderType {
	val := s.configStore.GetString(keyProviderType)
	if val == "" {
		return defaultVal
	}
	pt := domain.ProviderType(val)
	if !pt.IsValid() {
		return defaultVal
	}
	return pt
}

func (s *SettingsService) getCacheBackend(defaultVal domain.CacheBackend) domain.CacheBackend {
	val := s.configStore.GetString(keyCacheBackend)
	if val == "" {
		return defaultVal
	}
	backend := domain.CacheBackend(val)
	if !backend.IsValid() {
		return defaultVal
	}
	return backend
}

// setOptional stores value, or removes the key when value is empty.
func (s *SettingsService) setOptional(key, value string) error {
	if value == "" {
		if _, exists := s.configStore.Get(key); !exists {
			return nil
		}
		return s.configStore.Delete(key)
	}
	return s.configStore.Set(key, value)
}

// parseDuration parses a duration string, accepting bare integers as seconds.
func parseDuration(str string) (time.Duration, error) {
	if secs, err := strconv.Atoi(str); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	return time.ParseDuration(str)
}
