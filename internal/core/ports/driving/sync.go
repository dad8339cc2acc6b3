package driving

import (
	"context"

	"github.com/custodia-labs/recipesync/internal/core/domain"
)

// SyncOrchestrator serves cached or freshly fetched recipes and exposes
// the lifecycle of each operation as a stream of OperationState values.
//
// LoadCached and Refresh return immediately. Their outcome arrives on the
// subscription channel: InProgress first, then exactly one terminal state.
type SyncOrchestrator interface {
	// LoadCached emits InProgress, then Succeeded with the cached recipes.
	LoadCached(ctx context.Context)

	// TryLoadCached starts a load only if no operation is in flight and
	// reports whether it started one.
	TryLoadCached(ctx context.Context) bool

	// Refresh cancels any in-flight operation, emits InProgress, fetches
	// from the provider, replaces the cache and emits Succeeded. A cancelled
	// refresh resolves to Succeeded with no recipes.
	Refresh(ctx context.Context)

	// Cancel cancels the current operation, if any.
	Cancel()

	// State returns the current state.
	State() domain.OperationState

	// Subscribe returns a channel that first receives the current state and
	// then every subsequent state in order. The returned func unsubscribes
	// and closes the channel.
	Subscribe() (<-chan domain.OperationState, func())

	// Status returns the current state together with cache information.
	Status(ctx context.Context) (*SyncStatus, error)
}

// SyncStatus is a snapshot of the orchestrator and the cache it manages.
type SyncStatus struct {
	// State is the current operation state.
	State domain.OperationState

	// Running indicates if an operation is currently in flight.
	Running bool

	// Cache describes the cached collection.
	Cache domain.CacheInfo
}
