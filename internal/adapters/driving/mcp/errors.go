// Package mcp provides an MCP (Model Context Protocol) server adapter for recipesync.
// It lets AI assistants read the cached recipes and trigger refreshes.
package mcp

import "errors"

// ErrMissingSyncOrchestrator is returned when the sync orchestrator is not provided.
var ErrMissingSyncOrchestrator = errors.New("mcp: sync orchestrator is required")

// ErrBusy is returned when reading the cache would supersede a running operation.
var ErrBusy = errors.New("mcp: an operation is in progress, try again when it finishes")
