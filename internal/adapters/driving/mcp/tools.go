package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/recipesync/internal/adapters/driving/operation"
	"github.com/custodia-labs/recipesync/internal/core/domain"
)

// ListInput is the input schema for the list_cached_recipes tool.
type ListInput struct {
	Tag      string `json:"tag,omitempty" jsonschema:"only return recipes carrying this tag"`
	Limit    int    `json:"limit,omitempty" jsonschema:"maximum number of recipes to return (default all)"`
	Detailed bool   `json:"detailed,omitempty" jsonschema:"include ingredients and instructions"`
}

// ListOutput is the output schema for the list_cached_recipes tool.
type ListOutput struct {
	Recipes []RecipeOutput `json:"recipes"`
	Count   int            `json:"count"`
	Total   int            `json:"total"`
}

// RecipeOutput represents a single recipe.
type RecipeOutput struct {
	ID              int64    `json:"id"`
	Name            string   `json:"name"`
	Cuisine         string   `json:"cuisine,omitempty"`
	Difficulty      string   `json:"difficulty,omitempty"`
	Tags            []string `json:"tags,omitempty"`
	PrepTimeMinutes int      `json:"prep_time_minutes"`
	CookTimeMinutes int      `json:"cook_time_minutes"`
	Ingredients     []string `json:"ingredients,omitempty"`
	Instructions    []string `json:"instructions,omitempty"`
}

// RefreshInput is the input schema for the refresh_recipes tool.
type RefreshInput struct{}

// RefreshOutput is the output schema for the refresh_recipes tool.
type RefreshOutput struct {
	Status    string `json:"status"`
	SessionID string `json:"session_id"`
	Count     int    `json:"count"`
	Reason    string `json:"reason,omitempty"`
}

// CancelInput is the input schema for the cancel_refresh tool.
type CancelInput struct{}

// CancelOutput is the output schema for the cancel_refresh tool.
type CancelOutput struct {
	Cancelled bool   `json:"cancelled"`
	SessionID string `json:"session_id,omitempty"`
}

// StateInput is the input schema for the sync_state tool.
type StateInput struct{}

// StateOutput is the output schema for the sync_state tool.
type StateOutput struct {
	Status      string `json:"status"`
	SessionID   string `json:"session_id,omitempty"`
	Reason      string `json:"reason,omitempty"`
	Running     bool   `json:"running"`
	CachedCount int    `json:"cached_count"`
	ReplacedAt  string `json:"replaced_at,omitempty"`
	Location    string `json:"location,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_cached_recipes",
		Description: "List the recipes held in the local cache without contacting the provider",
	}, s.handleListCached)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "refresh_recipes",
		Description: "Fetch recipes from the provider, replace the cache and wait for the outcome",
	}, s.handleRefresh)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "cancel_refresh",
		Description: "Cancel the running refresh, leaving the cache unchanged",
	}, s.handleCancel)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "sync_state",
		Description: "Report the current operation state and what the cache holds",
	}, s.handleState)
}

// handleListCached handles the list_cached_recipes tool invocation.
func (s *Server) handleListCached(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ListInput,
) (*mcp.CallToolResult, ListOutput, error) {
	recipes, err := s.loadCached(ctx)
	if err != nil {
		return nil, ListOutput{}, err
	}

	output := ListOutput{
		Recipes: make([]RecipeOutput, 0, len(recipes)),
		Total:   len(recipes),
	}
	for i := range recipes {
		if input.Tag != "" && !recipes[i].HasTag(input.Tag) {
			continue
		}
		if input.Limit > 0 && len(output.Recipes) >= input.Limit {
			break
		}
		output.Recipes = append(output.Recipes, toRecipeOutput(&recipes[i], input.Detailed))
	}
	output.Count = len(output.Recipes)

	return nil, output, nil
}

// handleRefresh handles the refresh_recipes tool invocation.
// Cancelling the request cancels the refresh.
func (s *Server) handleRefresh(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ RefreshInput,
) (*mcp.CallToolResult, RefreshOutput, error) {
	state, err := operation.Run(ctx, s.ports.Sync, s.ports.Sync.Refresh, nil)
	if err != nil {
		return nil, RefreshOutput{}, fmt.Errorf("refreshing: %w", err)
	}

	return nil, RefreshOutput{
		Status:    state.Status.String(),
		SessionID: state.SessionID,
		Count:     len(state.Recipes),
		Reason:    string(state.Reason),
	}, nil
}

// handleCancel handles the cancel_refresh tool invocation.
func (s *Server) handleCancel(
	_ context.Context,
	_ *mcp.CallToolRequest,
	_ CancelInput,
) (*mcp.CallToolResult, CancelOutput, error) {
	state := s.ports.Sync.State()
	if state.Status != domain.StatusInProgress {
		return nil, CancelOutput{}, nil
	}

	s.ports.Sync.Cancel()
	return nil, CancelOutput{Cancelled: true, SessionID: state.SessionID}, nil
}

// handleState handles the sync_state tool invocation.
func (s *Server) handleState(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ StateInput,
) (*mcp.CallToolResult, StateOutput, error) {
	status, err := s.ports.Sync.Status(ctx)
	if err != nil {
		return nil, StateOutput{}, fmt.Errorf("getting status: %w", err)
	}

	output := StateOutput{
		Status:      status.State.Status.String(),
		SessionID:   status.State.SessionID,
		Reason:      string(status.State.Reason),
		Running:     status.Running,
		CachedCount: status.Cache.Count,
		Location:    status.Cache.Location,
	}
	if !status.Cache.ReplacedAt.IsZero() {
		output.ReplacedAt = status.Cache.ReplacedAt.UTC().Format(time.RFC3339)
	}
	return nil, output, nil
}

func toRecipeOutput(r *domain.Recipe, detailed bool) RecipeOutput {
	out := RecipeOutput{
		ID:              r.ID,
		Name:            r.Name,
		Cuisine:         r.Cuisine,
		Difficulty:      r.Difficulty,
		Tags:            r.Tags,
		PrepTimeMinutes: r.PrepTimeMinutes,
		CookTimeMinutes: r.CookTimeMinutes,
	}
	if detailed {
		out.Ingredients = r.Ingredients
		out.Instructions = r.Instructions
	}
	return out
}
