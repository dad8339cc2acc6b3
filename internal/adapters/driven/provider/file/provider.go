// Package file reads recipes from a JSON file on the local filesystem and
// reports changes to it.
package file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/recipesync/internal/adapters/driven/provider/dto"
	"github.com/custodia-labs/recipesync/internal/core/domain"
	"github.com/custodia-labs/recipesync/internal/core/ports/driven"
	"github.com/custodia-labs/recipesync/internal/logger"
)

// DefaultDebounce collapses bursts of events (editors often write a file
// several times when saving) into one change notification.
const DefaultDebounce = 200 * time.Millisecond

// ErrNoPath indicates the provider was configured without a file path.
var ErrNoPath = errors.New("file provider: path is required")

// Ensure Provider implements the interfaces.
var (
	_ driven.RecipeProvider = (*Provider)(nil)
	_ driven.ChangeWatcher  = (*Provider)(nil)
)

var log = logger.For("file provider")

// Provider reads recipes from a local JSON file.
type Provider struct {
	path     string
	debounce time.Duration
}

// Option configures a Provider.
type Option func(*Provider)

// WithDebounce sets how long Watch waits for events to settle.
func WithDebounce(d time.Duration) Option {
	return func(p *Provider) {
		p.debounce = d
	}
}

// New creates a file provider for path.
func New(path string, opts ...Option) (*Provider, error) {
	if path == "" {
		return nil, ErrNoPath
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", path, err)
	}

	p := &Provider{path: abs, debounce: DefaultDebounce}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Type returns the provider type.
func (p *Provider) Type() string {
	return domain.ProviderFile.String()
}

// Path returns the absolute path of the recipe file.
func (p *Provider) Path() string {
	return p.path
}

// Fetch reads and decodes the recipe file.
// Every failure is wrapped with domain.ErrRemoteFetch.
func (p *Provider) Fetch(ctx context.Context) ([]domain.Recipe, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrRemoteFetch, err)
	}

	f, err := os.Open(p.path)
	if err != nil {
		return nil, fmt.Errorf("%w: opening recipe file: %w", domain.ErrRemoteFetch, err)
	}
	defer f.Close()

	recipes, err := dto.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrRemoteFetch, p.path, err)
	}
	return recipes, nil
}

// Watch reports changes to the recipe file until ctx ends, then closes the
// channel. The parent directory is watched so that editors replacing the
// file by rename are seen too. Notifications are coalesced: a slow reader
// gets one pending signal, not a backlog.
func (p *Provider) Watch(ctx context.Context) (<-chan struct{}, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(p.path)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watching %s: %w", filepath.Dir(p.path), err)
	}

	changes := make(chan struct{}, 1)
	go p.watchLoop(ctx, watcher, changes)
	return changes, nil
}

func (p *Provider) watchLoop(ctx context.Context, watcher *fsnotify.Watcher, changes chan<- struct{}) {
	defer close(changes)
	defer watcher.Close()

	timer := time.NewTimer(p.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if p.handleEvent(event) {
				timer.Reset(p.debounce)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			log.Warn("watch error: %v", err)

		case <-timer.C:
			log.Debug("%s changed", p.path)
			select {
			case changes <- struct{}{}:
			default:
			}
		}
	}
}

// handleEvent reports whether event is a content change of the recipe file.
func (p *Provider) handleEvent(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != p.path {
		return false
	}
	return event.Has(fsnotify.Create) ||
		event.Has(fsnotify.Write) ||
		event.Has(fsnotify.Rename) ||
		event.Has(fsnotify.Remove)
}
