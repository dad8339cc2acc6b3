package domain

import "errors"

const unknownDescription = "Unknown"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an unknown provider or cache backend.
	ErrUnsupportedType = errors.New("unsupported type")

	// Synchronisation Errors.

	// ErrRemoteFetch indicates the remote provider failed for any reason
	// (network, decode, server). Providers wrap their errors with it.
	ErrRemoteFetch = errors.New("remote fetch failed")

	// ErrCacheUnavailable indicates the local cache could not be read or written.
	ErrCacheUnavailable = errors.New("cache unavailable")
)

// ReasonFor classifies an error into the failure reason shown to consumers.
// Anything that is not a cache error is reported as a remote fetch failure.
func ReasonFor(err error) FailureReason {
	if errors.Is(err, ErrCacheUnavailable) {
		return ReasonCacheUnavailable
	}
	return ReasonRemoteFetchFailed
}
