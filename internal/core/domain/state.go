package domain

import "fmt"

// StateStatus identifies which of the four lifecycle states an OperationState is in.
type StateStatus int

const (
	// StatusIdle means no operation has started.
	StatusIdle StateStatus = iota
	// StatusInProgress means a load or refresh is running.
	StatusInProgress
	// StatusSucceeded means the operation finished and carries recipes.
	StatusSucceeded
	// StatusFailed means the operation finished with a classified reason.
	StatusFailed
)

// String returns the string representation of the status.
func (s StateStatus) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusInProgress:
		return "in_progress"
	case StatusSucceeded:
		return "succeeded"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// FailureReason classifies why an operation failed.
type FailureReason string

// Failure reasons surfaced to consumers.
const (
	// ReasonRemoteFetchFailed means the remote provider could not deliver the collection.
	ReasonRemoteFetchFailed FailureReason = "remote-fetch-failed"

	// ReasonCacheUnavailable means the local cache could not be read or written.
	ReasonCacheUnavailable FailureReason = "cache-unavailable"
)

// Description returns a human-readable description of the reason.
func (r FailureReason) Description() string {
	switch r {
	case ReasonRemoteFetchFailed:
		return "Refreshing recipes failed"
	case ReasonCacheUnavailable:
		return "Local recipe cache is unavailable"
	default:
		return unknownDescription
	}
}

// Err returns the sentinel error matching the reason.
func (r FailureReason) Err() error {
	switch r {
	case ReasonCacheUnavailable:
		return ErrCacheUnavailable
	default:
		return ErrRemoteFetch
	}
}

// OperationState is the single observable state of a SyncOrchestrator.
// Recipes is only meaningful for StatusSucceeded, Reason only for StatusFailed.
type OperationState struct {
	Status    StateStatus
	Recipes   []Recipe
	Reason    FailureReason
	SessionID string
}

// IdleState is the state before any operation has started.
func IdleState() OperationState {
	return OperationState{Status: StatusIdle}
}

// InProgressState marks the start of an operation.
func InProgressState(sessionID string) OperationState {
	return OperationState{Status: StatusInProgress, SessionID: sessionID}
}

// SucceededState carries the resulting recipes. A nil slice becomes empty.
func SucceededState(sessionID string, recipes []Recipe) OperationState {
	if recipes == nil {
		recipes = []Recipe{}
	}
	return OperationState{Status: StatusSucceeded, Recipes: recipes, SessionID: sessionID}
}

// FailedState carries a classified failure and no recipes.
func FailedState(sessionID string, reason FailureReason) OperationState {
	return OperationState{Status: StatusFailed, Reason: reason, SessionID: sessionID}
}

// IsTerminal reports whether the state ends an operation.
func (s OperationState) IsTerminal() bool {
	return s.Status == StatusSucceeded || s.Status == StatusFailed
}

// String renders the state for logs.
func (s OperationState) String() string {
	switch s.Status {
	case StatusSucceeded:
		return fmt.Sprintf("succeeded(%d recipes)", len(s.Recipes))
	case StatusFailed:
		return fmt.Sprintf("failed(%s)", s.Reason)
	default:
		return s.Status.String()
	}
}
