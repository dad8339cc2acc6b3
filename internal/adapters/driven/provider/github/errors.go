package github

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/custodia-labs/recipesync/internal/adapters/driven/provider/ratelimit"
)

// GitHub-specific errors.
var (
	// ErrInvalidRepo indicates the repository is not in owner/name form.
	ErrInvalidRepo = errors.New("github: repository must be owner/name")

	// ErrNoPath indicates no file path was configured.
	ErrNoPath = errors.New("github: path is required")

	// ErrNotAFile indicates the configured path is a directory.
	ErrNotAFile = errors.New("github: path is a directory, not a file")
)

// APIError represents a GitHub API error response.
type APIError struct {
	StatusCode int
	Message    string
	URL        string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("github: API error %d: %s (URL: %s)", e.StatusCode, e.Message, e.URL)
}

// IsNotFound checks if the error indicates a resource was not found.
func IsNotFound(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusNotFound
	}
	return false
}

// IsUnauthorized checks if the error indicates an authentication failure.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusUnauthorized
	}
	return false
}

// IsRateLimited checks if the error indicates rate limiting.
func IsRateLimited(err error) bool {
	var rateLimitErr *ratelimit.Error
	return errors.As(err, &rateLimitErr)
}
