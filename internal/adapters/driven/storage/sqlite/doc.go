// Package sqlite provides an SQLite-based implementation of the recipe cache.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation.
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
// Recipes keep their collection order in a position column; list fields are
// stored as JSON arrays so they round-trip without loss.
//
// # Data Location
//
// By default, the database is stored at ~/.recipesync/data/recipes.db
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking provided
// by SQLite in WAL mode. ReplaceAll runs in a single transaction, so readers see
// either the old or the new collection, never a mix.
package sqlite
