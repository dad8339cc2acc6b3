// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - RecipeProvider: Fetches the full current recipe collection from a remote origin
//   - RecipeCache: Durable local storage of the last fetched collection
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
//   - CacheInspector: Implemented by caches that can describe their contents.
//     Status reporting degrades to counts from ReadAll without it.
//   - ChangeWatcher: Implemented by providers that can announce upstream changes.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
