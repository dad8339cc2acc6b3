// Package provider builds the recipe provider selected in settings.
//
// Implementations live in subpackages:
//
//   - http: dummyjson-style REST endpoint
//   - github: JSON file in a GitHub repository
//   - file: JSON file on disk, with change notifications
package provider

import (
	"fmt"

	"github.com/custodia-labs/recipesync/internal/adapters/driven/provider/file"
	"github.com/custodia-labs/recipesync/internal/adapters/driven/provider/github"
	"github.com/custodia-labs/recipesync/internal/adapters/driven/provider/http"
	"github.com/custodia-labs/recipesync/internal/core/domain"
	"github.com/custodia-labs/recipesync/internal/core/ports/driven"
)

// New creates the provider described by settings.
func New(settings domain.ProviderSettings) (driven.RecipeProvider, error) {
	var (
		p   driven.RecipeProvider
		err error
	)

	switch settings.Type {
	case domain.ProviderHTTP:
		p, err = http.New(http.Config{
			BaseURL:           settings.BaseURL,
			Token:             settings.Token,
			RequestsPerSecond: settings.RequestsPerSecond,
			Timeout:           settings.Timeout,
		})
	case domain.ProviderGitHub:
		p, err = github.New(github.Config{
			Repo:    settings.Repo,
			Path:    settings.Path,
			Ref:     settings.Ref,
			Token:   settings.Token,
			Timeout: settings.Timeout,
		})
	case domain.ProviderFile:
		p, err = file.New(settings.Path)
	default:
		return nil, fmt.Errorf("%w: provider %q", domain.ErrUnsupportedType, settings.Type)
	}

	if err != nil {
		return nil, fmt.Errorf("create %s provider: %w", settings.Type, err)
	}
	return p, nil
}
