// Package tui provides an interactive terminal recipe browser.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/recipesync/internal/core/ports/driving"
)

// Ports aggregates the driving port interfaces used by the TUI.
type Ports struct {
	// Sync serves cached and refreshed recipes.
	Sync driving.SyncOrchestrator

	// Settings describes where recipes come from. Optional.
	Settings driving.SettingsService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Sync == nil {
		return ErrMissingSyncOrchestrator
	}
	return nil
}
