// Package messages defines Bubbletea message types for the TUI.
package messages

import (
	"github.com/custodia-labs/recipesync/internal/core/domain"
)

// StateChanged carries a state emitted by the sync orchestrator.
type StateChanged struct {
	State domain.OperationState
}

// FeedClosed is sent when the state subscription ends.
type FeedClosed struct{}

// ErrorOccurred reports an error outside the operation lifecycle.
type ErrorOccurred struct {
	Err error
}

// Operation identifies what the user last asked for.
type Operation int

const (
	// OperationNone means nothing has been requested yet.
	OperationNone Operation = iota
	// OperationLoad is a cache read.
	OperationLoad
	// OperationRefresh is a remote fetch.
	OperationRefresh
)

// String returns the progress label for the operation.
func (o Operation) String() string {
	switch o {
	case OperationLoad:
		return "Loading cached recipes"
	case OperationRefresh:
		return "Refreshing recipes"
	default:
		return "Working"
	}
}
