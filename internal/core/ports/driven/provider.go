package driven

import (
	"context"

	"github.com/custodia-labs/recipesync/internal/core/domain"
)

// RecipeProvider fetches recipes from a remote origin.
type RecipeProvider interface {
	// Type returns the provider type (e.g., "http", "github").
	Type() string

	// Fetch returns the full current collection. There is no pagination
	// at this level. Failures are wrapped with domain.ErrRemoteFetch.
	// Implementations must honour ctx cancellation.
	Fetch(ctx context.Context) ([]domain.Recipe, error)
}

// ChangeWatcher is implemented by providers that can report upstream changes.
type ChangeWatcher interface {
	// Watch emits a value each time the upstream collection may have changed.
	// The channel is closed when ctx is done.
	Watch(ctx context.Context) (<-chan struct{}, error)
}
