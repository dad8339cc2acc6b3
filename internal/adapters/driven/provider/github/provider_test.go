package github

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/recipesync/internal/core/domain"
)

const recipeFile = `[{"id": 5, "name": "Ramen", "tags": ["Soup", "Japanese"], "cuisine": "Japanese", "difficulty": "Hard"}]`

// contentsServer serves a single file through the contents API.
func contentsServer(t *testing.T, wantPath, wantRef, body string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/repos/acme/cookbook/contents/"+wantPath {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"message": "Not Found"}`))
			return
		}
		assert.Equal(t, wantRef, r.URL.Query().Get("ref"))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"type":     "file",
			"encoding": "base64",
			"name":     "recipes.json",
			"path":     wantPath,
			"content":  base64.StdEncoding.EncodeToString([]byte(body)),
		})
	}))
	t.Cleanup(server.Close)
	return server
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr error
	}{
		{"missing repo", Config{Path: "r.json"}, ErrInvalidRepo},
		{"no owner", Config{Repo: "/cookbook", Path: "r.json"}, ErrInvalidRepo},
		{"too many parts", Config{Repo: "a/b/c", Path: "r.json"}, ErrInvalidRepo},
		{"missing path", Config{Repo: "acme/cookbook"}, ErrNoPath},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.cfg)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	p, err := New(Config{Repo: "acme/cookbook", Path: "/data/recipes.json"})
	require.NoError(t, err)
	assert.Equal(t, "github", p.Type())
	assert.Equal(t, "data/recipes.json", p.path)
}

func TestProvider_Fetch_Success(t *testing.T) {
	server := contentsServer(t, "data/recipes.json", "main", recipeFile)

	p, err := New(Config{
		Repo:    "acme/cookbook",
		Path:    "data/recipes.json",
		Ref:     "main",
		BaseURL: server.URL,
	})
	require.NoError(t, err)

	recipes, err := p.Fetch(context.Background())

	require.NoError(t, err)
	require.Len(t, recipes, 1)
	assert.Equal(t, int64(5), recipes[0].ID)
	assert.Equal(t, []string{"Japanese", "Soup"}, recipes[0].Tags)
}

func TestProvider_Fetch_NotFound(t *testing.T) {
	server := contentsServer(t, "data/recipes.json", "", recipeFile)

	p, err := New(Config{Repo: "acme/cookbook", Path: "missing.json", BaseURL: server.URL})
	require.NoError(t, err)

	_, err = p.Fetch(context.Background())

	assert.ErrorIs(t, err, domain.ErrRemoteFetch)
	assert.True(t, IsNotFound(err))
}

func TestProvider_Fetch_InvalidFile(t *testing.T) {
	server := contentsServer(t, "recipes.json", "", `{"recipes": "nope"}`)

	p, err := New(Config{Repo: "acme/cookbook", Path: "recipes.json", BaseURL: server.URL})
	require.NoError(t, err)

	_, err = p.Fetch(context.Background())

	assert.ErrorIs(t, err, domain.ErrRemoteFetch)
	assert.Contains(t, err.Error(), "acme/cookbook/recipes.json")
}
