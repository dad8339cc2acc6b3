package driven

import (
	"context"

	"github.com/custodia-labs/recipesync/internal/core/domain"
)

// RecipeCache durably stores the last fetched collection.
type RecipeCache interface {
	// ReplaceAll atomically replaces the stored collection with recipes.
	// Recipes sharing an ID collapse to the last one. Order is preserved.
	ReplaceAll(ctx context.Context, recipes []domain.Recipe) error

	// ReadAll returns the stored collection in the order it was written.
	// Returns an empty slice, never an error, when nothing is cached yet.
	ReadAll(ctx context.Context) ([]domain.Recipe, error)
}

// CacheInspector describes what a cache holds without reading the recipes.
type CacheInspector interface {
	Info(ctx context.Context) (*domain.CacheInfo, error)
}
