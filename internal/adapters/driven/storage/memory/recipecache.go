package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/custodia-labs/recipesync/internal/core/domain"
	"github.com/custodia-labs/recipesync/internal/core/ports/driven"
)

// Ensure RecipeCache implements the interfaces.
var (
	_ driven.RecipeCache    = (*RecipeCache)(nil)
	_ driven.CacheInspector = (*RecipeCache)(nil)
)

// RecipeCache is an in-memory implementation of driven.RecipeCache.
// Contents live for the lifetime of the process.
type RecipeCache struct {
	mu         sync.RWMutex
	recipes    []domain.Recipe
	replacedAt time.Time
}

// NewRecipeCache creates a new, empty in-memory recipe cache.
func NewRecipeCache() *RecipeCache {
	return &RecipeCache{}
}

// ReplaceAll discards the cached collection and stores recipes in its place.
// Duplicate ids collapse to the last occurrence.
func (c *RecipeCache) ReplaceAll(ctx context.Context, recipes []domain.Recipe) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("replacing recipes: %w", err)
	}

	replacement := domain.CloneRecipes(domain.UniqueByID(recipes))

	c.mu.Lock()
	defer c.mu.Unlock()
	c.recipes = replacement
	c.replacedAt = time.Now()
	return nil
}

// ReadAll returns a copy of the cached collection in stored order.
// An empty cache yields an empty slice.
func (c *RecipeCache) ReadAll(ctx context.Context) ([]domain.Recipe, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("reading recipes: %w", err)
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	return domain.CloneRecipes(c.recipes), nil
}

// Info describes the cached collection.
func (c *RecipeCache) Info(_ context.Context) (*domain.CacheInfo, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return &domain.CacheInfo{
		Count:      len(c.recipes),
		ReplacedAt: c.replacedAt,
		Location:   "memory",
	}, nil
}
