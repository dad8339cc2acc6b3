// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// SyncOrchestrator is the heart of recipesync: it serves cached or freshly
// fetched recipes and publishes the lifecycle of every operation as a
// stream of OperationState values.
//
// Services are pure Go and only talk to the outside world through ports.
package services
