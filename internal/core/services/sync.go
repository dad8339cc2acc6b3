package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/custodia-labs/recipesync/internal/core/domain"
	"github.com/custodia-labs/recipesync/internal/core/ports/driven"
	"github.com/custodia-labs/recipesync/internal/core/ports/driving"
	"github.com/custodia-labs/recipesync/internal/logger"
)

// Ensure SyncOrchestrator implements the interface.
var _ driving.SyncOrchestrator = (*SyncOrchestrator)(nil)

// SyncOrchestrator serves cached or freshly fetched recipes and owns the
// single observable OperationState.
//
// At most one operation is in flight. Starting an operation supersedes the
// current one; results of a superseded session are discarded. State
// emissions happen under one mutex, so every subscriber sees the same
// total order.
type SyncOrchestrator struct {
	provider       driven.RecipeProvider
	cache          driven.RecipeCache
	refreshTimeout time.Duration

	mu      sync.Mutex
	current *session
	state   domain.OperationState
	closed  bool
	feed    *stateFeed

	// writeMu serialises cache writes. A superseded refresh that is already
	// inside ReplaceAll finishes before its successor may write.
	writeMu sync.Mutex

	wg sync.WaitGroup
}

// SyncOption configures a SyncOrchestrator.
type SyncOption func(*SyncOrchestrator)

// WithRefreshTimeout bounds the remote fetch of every refresh.
// A fetch that runs out of time is reported as a fetch failure.
// Zero disables the bound.
func WithRefreshTimeout(d time.Duration) SyncOption {
	return func(o *SyncOrchestrator) {
		o.refreshTimeout = d
	}
}

// NewSyncOrchestrator creates a new sync orchestrator in the Idle state.
func NewSyncOrchestrator(
	provider driven.RecipeProvider,
	cache driven.RecipeCache,
	opts ...SyncOption,
) *SyncOrchestrator {
	o := &SyncOrchestrator{
		provider: provider,
		cache:    cache,
		state:    domain.IdleState(),
		feed:     newStateFeed(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// LoadCached emits InProgress and then Succeeded with the cached recipes,
// or Failed(cache-unavailable) if the cache cannot be read.
// It takes the session slot, so an in-flight refresh is superseded.
func (o *SyncOrchestrator) LoadCached(ctx context.Context) {
	s := o.begin(ctx, "load")
	if s == nil {
		return
	}
	go func() {
		defer o.wg.Done()
		o.runLoad(s)
	}()
}

// TryLoadCached starts a load only when no operation is in flight and
// reports whether it did. The check and the start are atomic, so it never
// supersedes a running refresh.
func (o *SyncOrchestrator) TryLoadCached(ctx context.Context) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.current != nil {
		return false
	}
	s := o.beginLocked(ctx, "load")
	if s == nil {
		return false
	}
	go func() {
		defer o.wg.Done()
		o.runLoad(s)
	}()
	return true
}

// Refresh cancels any in-flight operation, emits InProgress, fetches from
// the provider and replaces the cache with the result.
func (o *SyncOrchestrator) Refresh(ctx context.Context) {
	s := o.begin(ctx, "refresh")
	if s == nil {
		return
	}
	go func() {
		defer o.wg.Done()
		o.runRefresh(s)
	}()
}

// Cancel cancels the current operation. It is a no-op when nothing is in flight.
// The cancelled operation still completes, with Succeeded and no recipes.
func (o *SyncOrchestrator) Cancel() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.current == nil {
		return
	}
	logger.Debug("sync: cancel requested for session %s", o.current.id)
	o.current.stop(errCancelled)
}

// State returns the current state. The recipes it carries must not be modified.
func (o *SyncOrchestrator) State() domain.OperationState {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Subscribe returns a channel that receives the current state and then
// every later state, in order, until unsubscribe is called or the
// orchestrator is closed.
func (o *SyncOrchestrator) Subscribe() (<-chan domain.OperationState, func()) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.feed.subscribe(o.state)
}

// Status returns the current state together with cache information.
func (o *SyncOrchestrator) Status(ctx context.Context) (*driving.SyncStatus, error) {
	o.mu.Lock()
	status := &driving.SyncStatus{
		State:   o.state,
		Running: o.current != nil,
	}
	o.mu.Unlock()

	if inspector, ok := o.cache.(driven.CacheInspector); ok {
		info, err := inspector.Info(ctx)
		if err != nil {
			return nil, fmt.Errorf("get cache info: %w", err)
		}
		status.Cache = *info
		return status, nil
	}

	recipes, err := o.cache.ReadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("read cache: %w", err)
	}
	status.Cache.Count = len(recipes)
	return status, nil
}

// Close cancels the current operation and ends all subscriptions.
// Operations started after Close are ignored.
func (o *SyncOrchestrator) Close() {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return
	}
	o.closed = true
	if o.current != nil {
		o.current.stop(errClosed)
		o.current = nil
	}
	o.mu.Unlock()

	o.feed.close()
}

// Wait blocks until no operation goroutine is running.
func (o *SyncOrchestrator) Wait() {
	o.wg.Wait()
}

// begin supersedes the current session, installs a new one and emits
// InProgress before returning. Returns nil once the orchestrator is closed.
func (o *SyncOrchestrator) begin(ctx context.Context, op string) *session {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.beginLocked(ctx, op)
}

// beginLocked is begin with o.mu held.
func (o *SyncOrchestrator) beginLocked(ctx context.Context, op string) *session {
	if o.closed {
		logger.Warn("sync: %s ignored, orchestrator closed", op)
		return nil
	}

	if o.current != nil {
		logger.Debug("sync: session %s superseded by %s", o.current.id, op)
		o.current.stop(errSuperseded)
	}

	s := newSession(ctx)
	o.current = s
	o.wg.Add(1)
	logger.Debug("sync: %s started (session %s)", op, s.id)
	o.setStateLocked(domain.InProgressState(s.id))
	return s
}

// finish emits the terminal state of s if s is still the current session.
func (o *SyncOrchestrator) finish(s *session, state domain.OperationState) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.current != s {
		logger.Debug("sync: discarding %s from stale session %s", state, s.id)
		s.stop(errSuperseded)
		return
	}

	o.current = nil
	s.stop(nil)
	logger.Debug("sync: session %s finished: %s", s.id, state)
	o.setStateLocked(state)
}

// setStateLocked records and publishes a state. Caller holds o.mu.
func (o *SyncOrchestrator) setStateLocked(state domain.OperationState) {
	o.state = state
	o.feed.publish(state)
}

// resolveCancelled completes a session that observed cancellation.
// A cancelled operation resolves to an empty success.
func (o *SyncOrchestrator) resolveCancelled(s *session, stage string) {
	logger.Debug("sync: session %s cancelled %s: %v", s.id, stage, s.cause())
	o.finish(s, domain.SucceededState(s.id, nil))
}

func (o *SyncOrchestrator) runLoad(s *session) {
	if s.cancelled() {
		o.resolveCancelled(s, "before read")
		return
	}

	recipes, err := o.cache.ReadAll(s.ctx)
	if s.cancelled() {
		o.resolveCancelled(s, "during read")
		return
	}
	if err != nil {
		logger.Warn("sync: reading cache: %v", err)
		o.finish(s, domain.FailedState(s.id, domain.ReasonCacheUnavailable))
		return
	}

	o.finish(s, domain.SucceededState(s.id, recipes))
}

func (o *SyncOrchestrator) runRefresh(s *session) {
	if s.cancelled() {
		o.resolveCancelled(s, "before fetch")
		return
	}

	recipes, err := o.fetch(s)
	if s.cancelled() {
		o.resolveCancelled(s, "during fetch")
		return
	}
	if err != nil {
		logger.Warn("sync: fetching recipes: %v", err)
		o.finish(s, domain.FailedState(s.id, domain.ReasonRemoteFetchFailed))
		return
	}

	recipes = domain.UniqueByID(recipes)
	logger.Debug("sync: session %s fetched %d recipes", s.id, len(recipes))

	// The cache is only written once the fetch has fully succeeded.
	// The cancellation check happens under writeMu so a superseded session
	// never writes after the session that replaced it.
	o.writeMu.Lock()
	if s.cancelled() {
		o.writeMu.Unlock()
		o.resolveCancelled(s, "before write")
		return
	}
	err = o.cache.ReplaceAll(s.ctx, recipes)
	o.writeMu.Unlock()
	if s.cancelled() {
		o.resolveCancelled(s, "during write")
		return
	}
	if err != nil {
		logger.Warn("sync: replacing cache: %v", err)
		o.finish(s, domain.FailedState(s.id, domain.ReasonFor(asCacheError(err))))
		return
	}

	o.finish(s, domain.SucceededState(s.id, recipes))
}

func (o *SyncOrchestrator) fetch(s *session) ([]domain.Recipe, error) {
	ctx := s.ctx
	if o.refreshTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.refreshTimeout)
		defer cancel()
	}

	recipes, err := o.provider.Fetch(ctx)
	if err != nil {
		if o.refreshTimeout > 0 && errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: timed out after %s", domain.ErrRemoteFetch, o.refreshTimeout)
		}
		return nil, err
	}
	return recipes, nil
}

// asCacheError marks err as a cache failure if the cache did not already.
func asCacheError(err error) error {
	if errors.Is(err, domain.ErrCacheUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %w", domain.ErrCacheUnavailable, err)
}
