package domain

import (
	"fmt"
	"time"
)

// ProviderType identifies where remote recipes come from.
type ProviderType string

// Available provider types.
const (
	// ProviderHTTP fetches a dummyjson-style recipes endpoint.
	ProviderHTTP ProviderType = "http"

	// ProviderGitHub reads a JSON recipe file from a GitHub repository.
	ProviderGitHub ProviderType = "github"

	// ProviderFile reads a JSON recipe file from the local filesystem.
	ProviderFile ProviderType = "file"
)

// IsValid returns true if the provider type is recognised.
func (p ProviderType) IsValid() bool {
	switch p {
	case ProviderHTTP, ProviderGitHub, ProviderFile:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (p ProviderType) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p ProviderType) Description() string {
	switch p {
	case ProviderHTTP:
		return "HTTP (recipes REST endpoint)"
	case ProviderGitHub:
		return "GitHub (JSON file in a repository)"
	case ProviderFile:
		return "File (local JSON file)"
	default:
		return unknownDescription
	}
}

// CacheBackend identifies the local cache implementation.
type CacheBackend string

// Available cache backends.
const (
	// CacheSQLite persists recipes in an SQLite database.
	CacheSQLite CacheBackend = "sqlite"

	// CacheMemory keeps recipes in memory for the lifetime of the process.
	CacheMemory CacheBackend = "memory"
)

// IsValid returns true if the backend is recognised.
func (b CacheBackend) IsValid() bool {
	return b == CacheSQLite || b == CacheMemory
}

// String returns the string representation.
func (b CacheBackend) String() string {
	return string(b)
}

// ProviderSettings configures the remote provider.
type ProviderSettings struct {
	// Type selects the provider implementation.
	Type ProviderType

	// BaseURL is the HTTP provider endpoint root.
	BaseURL string

	// Token is an optional bearer token (HTTP) or access token (GitHub).
	Token string

	// Path is the file path for the file provider, or the path
	// inside the repository for the GitHub provider.
	Path string

	// Repo is "owner/name" for the GitHub provider.
	Repo string

	// Ref is the branch, tag or commit for the GitHub provider. Empty means default branch.
	Ref string

	// RequestsPerSecond throttles outgoing HTTP requests. 0 disables throttling.
	RequestsPerSecond float64

	// Timeout bounds each HTTP request.
	Timeout time.Duration
}

// CacheSettings configures the local cache.
type CacheSettings struct {
	// Backend selects the cache implementation.
	Backend CacheBackend

	// Dir is the data directory for the SQLite backend. Empty means the default.
	Dir string
}

// SyncSettings configures the orchestrator.
type SyncSettings struct {
	// RefreshTimeout bounds the remote fetch of a refresh. 0 means no bound.
	RefreshTimeout time.Duration
}

// AppSettings holds all application settings.
type AppSettings struct {
	// Provider holds remote provider settings.
	Provider ProviderSettings

	// Cache holds local cache settings.
	Cache CacheSettings

	// Sync holds orchestrator settings.
	Sync SyncSettings
}

// DefaultBaseURL is the public recipes endpoint used when none is configured.
const DefaultBaseURL = "https://dummyjson.com"

// DefaultAppSettings returns settings with sensible defaults.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Provider: ProviderSettings{
			Type:              ProviderHTTP,
			BaseURL:           DefaultBaseURL,
			RequestsPerSecond: 2,
			Timeout:           30 * time.Second,
		},
		Cache: CacheSettings{
			Backend: CacheSQLite,
		},
	}
}

// Validate checks that the settings are usable.
func (s *AppSettings) Validate() error {
	if !s.Provider.Type.IsValid() {
		return fmt.Errorf("%w: provider type %q", ErrUnsupportedType, s.Provider.Type)
	}
	if !s.Cache.Backend.IsValid() {
		return fmt.Errorf("%w: cache backend %q", ErrUnsupportedType, s.Cache.Backend)
	}

	switch s.Provider.Type {
	case ProviderHTTP:
		if s.Provider.BaseURL == "" {
			return fmt.Errorf("%w: http provider requires a base URL", ErrInvalidInput)
		}
	case ProviderGitHub:
		if s.Provider.Repo == "" || s.Provider.Path == "" {
			return fmt.Errorf("%w: github provider requires repo and path", ErrInvalidInput)
		}
	case ProviderFile:
		if s.Provider.Path == "" {
			return fmt.Errorf("%w: file provider requires a path", ErrInvalidInput)
		}
	}

	if s.Provider.RequestsPerSecond < 0 {
		return fmt.Errorf("%w: negative request rate", ErrInvalidInput)
	}
	if s.Provider.Timeout < 0 || s.Sync.RefreshTimeout < 0 {
		return fmt.Errorf("%w: negative timeout", ErrInvalidInput)
	}
	return nil
}

// AllProviderTypes returns all available provider types.
func AllProviderTypes() []ProviderType {
	return []ProviderType{
		ProviderHTTP,
		ProviderGitHub,
		ProviderFile,
	}
}
