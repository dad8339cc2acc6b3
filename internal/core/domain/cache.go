package domain

import "time"

// CacheInfo describes what the local cache currently holds.
type CacheInfo struct {
	// Count is the number of cached recipes.
	Count int

	// ReplacedAt is when the collection was last replaced. Zero if never.
	ReplacedAt time.Time

	// Location describes where the cache lives (a file path, or "memory").
	Location string
}

// IsEmpty reports whether nothing has been cached yet.
func (c *CacheInfo) IsEmpty() bool {
	return c.Count == 0
}
