// Package dto maps the recipes wire format to domain recipes.
//
// The format is the one served by dummyjson.com:
//
//	{"recipes": [{"id": 1, "name": "...", "ingredients": [...], ...}], "total": 50}
//
// A bare JSON array of recipe objects is accepted too, which keeps
// hand-written recipe files short.
package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/custodia-labs/recipesync/internal/core/domain"
)

// Recipe is a single recipe on the wire.
type Recipe struct {
	ID              int64    `json:"id"`
	Name            string   `json:"name"`
	Ingredients     []string `json:"ingredients"`
	Instructions    []string `json:"instructions"`
	Tags            []string `json:"tags"`
	PrepTimeMinutes int      `json:"prepTimeMinutes"`
	CookTimeMinutes int      `json:"cookTimeMinutes"`
	Difficulty      string   `json:"difficulty"`
	Cuisine         string   `json:"cuisine"`
}

// RecipesResponse is the envelope returned by the recipes endpoint.
type RecipesResponse struct {
	Recipes []Recipe `json:"recipes"`
	Total   int      `json:"total"`
	Skip    int      `json:"skip"`
	Limit   int      `json:"limit"`
}

// ToDomain converts a wire recipe to a validated domain recipe.
// Tags become a sorted set; missing lists become empty.
func (r *Recipe) ToDomain() (domain.Recipe, error) {
	recipe := domain.Recipe{
		ID:              r.ID,
		Name:            r.Name,
		Ingredients:     nonNil(r.Ingredients),
		Instructions:    nonNil(r.Instructions),
		Tags:            domain.NewTagSet(r.Tags...),
		PrepTimeMinutes: r.PrepTimeMinutes,
		CookTimeMinutes: r.CookTimeMinutes,
		Difficulty:      r.Difficulty,
		Cuisine:         r.Cuisine,
	}
	if err := recipe.Validate(); err != nil {
		return domain.Recipe{}, err
	}
	return recipe, nil
}

// FromDomain converts a domain recipe to its wire form.
func FromDomain(r *domain.Recipe) Recipe {
	return Recipe{
		ID:              r.ID,
		Name:            r.Name,
		Ingredients:     nonNil(r.Ingredients),
		Instructions:    nonNil(r.Instructions),
		Tags:            nonNil(r.Tags),
		PrepTimeMinutes: r.PrepTimeMinutes,
		CookTimeMinutes: r.CookTimeMinutes,
		Difficulty:      r.Difficulty,
		Cuisine:         r.Cuisine,
	}
}

// Decode reads a recipes document and returns the domain recipes in order.
func Decode(r io.Reader) ([]domain.Recipe, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading recipes: %w", err)
	}
	return Unmarshal(data)
}

// Unmarshal parses a recipes document, either an envelope or a bare array.
func Unmarshal(data []byte) ([]domain.Recipe, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: empty recipes document", domain.ErrInvalidInput)
	}

	var wire []Recipe
	if trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &wire); err != nil {
			return nil, fmt.Errorf("decoding recipes: %w", err)
		}
	} else {
		var resp RecipesResponse
		if err := json.Unmarshal(trimmed, &resp); err != nil {
			return nil, fmt.Errorf("decoding recipes: %w", err)
		}
		wire = resp.Recipes
	}

	recipes := make([]domain.Recipe, 0, len(wire))
	for i := range wire {
		recipe, err := wire[i].ToDomain()
		if err != nil {
			return nil, fmt.Errorf("recipe %d: %w", wire[i].ID, err)
		}
		recipes = append(recipes, recipe)
	}
	return recipes, nil
}

// Encode writes recipes as a recipes envelope.
func Encode(w io.Writer, recipes []domain.Recipe) error {
	resp := RecipesResponse{
		Recipes: make([]Recipe, len(recipes)),
		Total:   len(recipes),
		Limit:   len(recipes),
	}
	for i := range recipes {
		resp.Recipes[i] = FromDomain(&recipes[i])
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(resp); err != nil {
		return fmt.Errorf("encoding recipes: %w", err)
	}
	return nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}
