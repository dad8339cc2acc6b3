package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/recipesync/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/recipesync/internal/core/domain"
	"github.com/custodia-labs/recipesync/internal/core/ports/driven"
)

const metaReplacedAt = "replaced_at"

// Store is an SQLite database holding the recipe cache.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.recipesync/data/recipes.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".recipesync", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "recipes.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// RecipeCache returns a RecipeCache backed by this store.
// The returned value also implements driven.CacheInspector.
func (s *Store) RecipeCache() driven.RecipeCache {
	return &recipeCache{store: s}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_recipes.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Recipe Cache ====================

// recipeCache implements driven.RecipeCache and driven.CacheInspector.
type recipeCache struct {
	store *Store
}

var (
	_ driven.RecipeCache    = (*recipeCache)(nil)
	_ driven.CacheInspector = (*recipeCache)(nil)
)

// ReplaceAll deletes every cached recipe and inserts recipes in order,
// in one transaction. Duplicate ids collapse to the last occurrence.
func (c *recipeCache) ReplaceAll(ctx context.Context, recipes []domain.Recipe) error {
	if err := c.replaceAll(ctx, domain.UniqueByID(recipes)); err != nil {
		return fmt.Errorf("%w: replacing recipes: %w", domain.ErrCacheUnavailable, err)
	}
	return nil
}

func (c *recipeCache) replaceAll(ctx context.Context, recipes []domain.Recipe) error {
	tx, err := c.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // Rollback after commit is a no-op

	if _, err := tx.ExecContext(ctx, "DELETE FROM recipes"); err != nil {
		return fmt.Errorf("clearing recipes: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO recipes (
			id, position, name, ingredients, instructions, tags,
			prep_time_minutes, cook_time_minutes, difficulty, cuisine
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i := range recipes {
		r := &recipes[i]
		ingredients, err := marshalList(r.Ingredients)
		if err != nil {
			return fmt.Errorf("marshalling ingredients of recipe %d: %w", r.ID, err)
		}
		instructions, err := marshalList(r.Instructions)
		if err != nil {
			return fmt.Errorf("marshalling instructions of recipe %d: %w", r.ID, err)
		}
		tags, err := marshalList(r.Tags)
		if err != nil {
			return fmt.Errorf("marshalling tags of recipe %d: %w", r.ID, err)
		}

		_, err = stmt.ExecContext(ctx,
			r.ID, i, r.Name, ingredients, instructions, tags,
			r.PrepTimeMinutes, r.CookTimeMinutes, r.Difficulty, r.Cuisine,
		)
		if err != nil {
			return fmt.Errorf("inserting recipe %d: %w", r.ID, err)
		}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO cache_meta (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, metaReplacedAt, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("recording replace time: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// ReadAll returns every cached recipe in stored order.
func (c *recipeCache) ReadAll(ctx context.Context) ([]domain.Recipe, error) {
	rows, err := c.store.db.QueryContext(ctx, `
		SELECT id, name, ingredients, instructions, tags,
		       prep_time_minutes, cook_time_minutes, difficulty, cuisine
		FROM recipes
		ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("%w: querying recipes: %w", domain.ErrCacheUnavailable, err)
	}
	defer rows.Close()

	recipes := []domain.Recipe{}
	for rows.Next() {
		r, err := scanRecipe(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrCacheUnavailable, err)
		}
		recipes = append(recipes, *r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating recipes: %w", domain.ErrCacheUnavailable, err)
	}

	return recipes, nil
}

// Info reports how many recipes are cached and when they were last replaced.
func (c *recipeCache) Info(ctx context.Context) (*domain.CacheInfo, error) {
	info := &domain.CacheInfo{Location: c.store.path}

	if err := c.store.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM recipes").Scan(&info.Count); err != nil {
		return nil, fmt.Errorf("%w: counting recipes: %w", domain.ErrCacheUnavailable, err)
	}

	var replacedAt string
	err := c.store.db.QueryRowContext(ctx,
		"SELECT value FROM cache_meta WHERE key = ?", metaReplacedAt,
	).Scan(&replacedAt)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return info, nil
	case err != nil:
		return nil, fmt.Errorf("%w: reading cache metadata: %w", domain.ErrCacheUnavailable, err)
	}

	if t, err := time.Parse(time.RFC3339Nano, replacedAt); err == nil {
		info.ReplacedAt = t
	}
	return info, nil
}

// scanRecipe scans a recipe from a row.
func scanRecipe(rows *sql.Rows) (*domain.Recipe, error) {
	var (
		r                               domain.Recipe
		ingredients, instructions, tags string
	)

	err := rows.Scan(
		&r.ID, &r.Name, &ingredients, &instructions, &tags,
		&r.PrepTimeMinutes, &r.CookTimeMinutes, &r.Difficulty, &r.Cuisine,
	)
	if err != nil {
		return nil, fmt.Errorf("scanning recipe: %w", err)
	}

	if r.Ingredients, err = unmarshalList(ingredients); err != nil {
		return nil, fmt.Errorf("decoding ingredients of recipe %d: %w", r.ID, err)
	}
	if r.Instructions, err = unmarshalList(instructions); err != nil {
		return nil, fmt.Errorf("decoding instructions of recipe %d: %w", r.ID, err)
	}
	if r.Tags, err = unmarshalList(tags); err != nil {
		return nil, fmt.Errorf("decoding tags of recipe %d: %w", r.ID, err)
	}

	return &r, nil
}

// marshalList encodes a list as a JSON array. A nil list is stored as [].
func marshalList(list []string) (string, error) {
	if list == nil {
		return "[]", nil
	}
	b, err := json.Marshal(list)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// unmarshalList decodes a JSON array. The result is never nil.
func unmarshalList(s string) ([]string, error) {
	list := []string{}
	if s == "" {
		return list, nil
	}
	if err := json.Unmarshal([]byte(s), &list); err != nil {
		return nil, err
	}
	if list == nil {
		list = []string{}
	}
	return list, nil
}
