// Package domain defines the core business entities for recipesync.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Recipe: The synchronised record
//   - OperationState: The observable lifecycle of a load or refresh
//   - AppSettings: Typed application configuration
//   - CacheInfo: Bookkeeping about the local cache
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
