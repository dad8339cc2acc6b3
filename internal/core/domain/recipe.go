package domain

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Recipe is the record kept in sync between the remote provider and the local cache.
type Recipe struct {
	// ID uniquely identifies the recipe within any collection.
	ID int64

	// Name is the display name.
	Name string

	// Ingredients in the order they are listed.
	Ingredients []string

	// Instructions in the order they are performed.
	Instructions []string

	// Tags is a set: deduplicated and kept sorted.
	Tags []string

	// PrepTimeMinutes is the preparation time.
	PrepTimeMinutes int

	// CookTimeMinutes is the cooking time.
	CookTimeMinutes int

	// Difficulty is a free-form label such as "Easy".
	Difficulty string

	// Cuisine is a free-form label such as "Italian".
	Cuisine string
}

// TotalMinutes returns preparation plus cooking time.
func (r *Recipe) TotalMinutes() int {
	return r.PrepTimeMinutes + r.CookTimeMinutes
}

// TotalTime returns TotalMinutes as a duration.
func (r *Recipe) TotalTime() time.Duration {
	return time.Duration(r.TotalMinutes()) * time.Minute
}

// Validate checks the recipe invariants.
func (r *Recipe) Validate() error {
	if r.PrepTimeMinutes < 0 {
		return fmt.Errorf("%w: recipe %d has negative preparation time", ErrInvalidInput, r.ID)
	}
	if r.CookTimeMinutes < 0 {
		return fmt.Errorf("%w: recipe %d has negative cooking time", ErrInvalidInput, r.ID)
	}
	return nil
}

// HasTag reports whether the recipe carries the given tag.
func (r *Recipe) HasTag(tag string) bool {
	i := sort.SearchStrings(r.Tags, tag)
	return i < len(r.Tags) && r.Tags[i] == tag
}

// Clone returns a deep copy so callers can hand recipes across goroutines.
func (r *Recipe) Clone() Recipe {
	c := *r
	c.Ingredients = cloneStrings(r.Ingredients)
	c.Instructions = cloneStrings(r.Instructions)
	c.Tags = cloneStrings(r.Tags)
	return c
}

// NewTagSet trims, deduplicates and sorts tags. Empty tags are dropped.
// The result is never nil.
func NewTagSet(tags ...string) []string {
	seen := make(map[string]struct{}, len(tags))
	set := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		set = append(set, t)
	}
	sort.Strings(set)
	return set
}

// UniqueByID collapses recipes sharing an ID. The last occurrence wins
// and takes the position of the first one, so order is otherwise kept.
func UniqueByID(recipes []Recipe) []Recipe {
	index := make(map[int64]int, len(recipes))
	result := make([]Recipe, 0, len(recipes))
	for i := range recipes {
		if pos, ok := index[recipes[i].ID]; ok {
			result[pos] = recipes[i]
			continue
		}
		index[recipes[i].ID] = len(result)
		result = append(result, recipes[i])
	}
	return result
}

// CloneRecipes deep-copies a collection. A nil input yields an empty slice.
func CloneRecipes(recipes []Recipe) []Recipe {
	out := make([]Recipe, len(recipes))
	for i := range recipes {
		out[i] = recipes[i].Clone()
	}
	return out
}

// RecipeIDs returns the IDs of a collection in order.
func RecipeIDs(recipes []Recipe) []int64 {
	ids := make([]int64, len(recipes))
	for i := range recipes {
		ids[i] = recipes[i].ID
	}
	return ids
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}
