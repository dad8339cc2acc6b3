package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/recipesync/internal/adapters/driven/provider/dto"
)

const (
	// uriScheme is the custom URI scheme for recipesync resources.
	uriScheme = "recipesync://"

	recipesURI = uriScheme + "recipes"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         recipesURI,
		Name:        "recipes",
		Description: "All cached recipes",
		MIMEType:    "application/json",
	}, s.handleRecipesResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: recipesURI + "/{id}",
		Name:        "recipe",
		Description: "A single cached recipe",
		MIMEType:    "application/json",
	}, s.handleRecipeResource)
}

// handleRecipesResource returns the cached collection in the provider wire format.
func (s *Server) handleRecipesResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	recipes, err := s.loadCached(ctx)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := dto.Encode(&buf, recipes); err != nil {
		return nil, fmt.Errorf("encoding recipes: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     buf.String(),
		}},
	}, nil
}

// handleRecipeResource returns one cached recipe by ID.
func (s *Server) handleRecipeResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	id, ok := extractRecipeID(req.Params.URI)
	if !ok {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	recipes, err := s.loadCached(ctx)
	if err != nil {
		return nil, err
	}

	for i := range recipes {
		if recipes[i].ID != id {
			continue
		}
		data, err := json.MarshalIndent(dto.FromDomain(&recipes[i]), "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshalling recipe: %w", err)
		}
		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     string(data),
			}},
		}, nil
	}
	return nil, mcp.ResourceNotFoundError(req.Params.URI)
}

// extractRecipeID extracts the recipe ID from a URI like recipesync://recipes/{id}.
func extractRecipeID(uri string) (int64, bool) {
	const prefix = recipesURI + "/"

	if !strings.HasPrefix(uri, prefix) {
		return 0, false
	}
	id, err := strconv.ParseInt(strings.TrimPrefix(uri, prefix), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
