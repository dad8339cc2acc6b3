package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestProviderType_IsValid tests all valid and invalid provider types
func TestProviderType_IsValid(t *testing.T) {
	tests := []struct {
		name     string
		provider ProviderType
		expected bool
	}{
		{"http is valid", ProviderHTTP, true},
		{"github is valid", ProviderGitHub, true},
		{"file is valid", ProviderFile, true},
		{"empty string is invalid", ProviderType(""), false},
		{"unknown provider is invalid", ProviderType("ftp"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.provider.IsValid())
		})
	}
}

func TestProviderType_Description(t *testing.T) {
	for _, p := range AllProviderTypes() {
		assert.NotEqual(t, "Unknown", p.Description(), "provider %s", p)
	}
	assert.Equal(t, "Unknown", ProviderType("nope").Description())
}

func TestCacheBackend_IsValid(t *testing.T) {
	assert.True(t, CacheSQLite.IsValid())
	assert.True(t, CacheMemory.IsValid())
	assert.False(t, CacheBackend("redis").IsValid())
}

func TestDefaultAppSettings(t *testing.T) {
	s := DefaultAppSettings()

	assert.Equal(t, ProviderHTTP, s.Provider.Type)
	assert.Equal(t, DefaultBaseURL, s.Provider.BaseURL)
	assert.Equal(t, 30*time.Second, s.Provider.Timeout)
	assert.Equal(t, CacheSQLite, s.Cache.Backend)
	assert.Zero(t, s.Sync.RefreshTimeout)
	require.NoError(t, s.Validate())
}

func TestAppSettings_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(s *AppSettings)
		wantErr error
	}{
		{
			name:    "unknown provider",
			mutate:  func(s *AppSettings) { s.Provider.Type = "ftp" },
			wantErr: ErrUnsupportedType,
		},
		{
			name:    "unknown cache backend",
			mutate:  func(s *AppSettings) { s.Cache.Backend = "redis" },
			wantErr: ErrUnsupportedType,
		},
		{
			name:    "http without base url",
			mutate:  func(s *AppSettings) { s.Provider.BaseURL = "" },
			wantErr: ErrInvalidInput,
		},
		{
			name: "github without repo",
			mutate: func(s *AppSettings) {
				s.Provider.Type = ProviderGitHub
				s.Provider.Path = "recipes.json"
			},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "file without path",
			mutate:  func(s *AppSettings) { s.Provider.Type = ProviderFile },
			wantErr: ErrInvalidInput,
		},
		{
			name:    "negative rate",
			mutate:  func(s *AppSettings) { s.Provider.RequestsPerSecond = -1 },
			wantErr: ErrInvalidInput,
		},
		{
			name:    "negative refresh timeout",
			mutate:  func(s *AppSettings) { s.Sync.RefreshTimeout = -time.Second },
			wantErr: ErrInvalidInput,
		},
		{
			name: "valid github",
			mutate: func(s *AppSettings) {
				s.Provider.Type = ProviderGitHub
				s.Provider.Repo = "acme/recipes"
				s.Provider.Path = "recipes.json"
			},
		},
		{
			name: "valid file",
			mutate: func(s *AppSettings) {
				s.Provider.Type = ProviderFile
				s.Provider.Path = "/tmp/recipes.json"
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultAppSettings()
			tt.mutate(&s)
			err := s.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
