// Package http fetches recipes from a dummyjson-style REST endpoint.
package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/custodia-labs/recipesync/internal/adapters/driven/provider/dto"
	"github.com/custodia-labs/recipesync/internal/adapters/driven/provider/ratelimit"
	"github.com/custodia-labs/recipesync/internal/core/domain"
	"github.com/custodia-labs/recipesync/internal/core/ports/driven"
	"github.com/custodia-labs/recipesync/internal/logger"
)

const (
	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// RecipesPath is appended to the base URL.
	RecipesPath = "/recipes"

	// maxErrorBody caps how much of an error response is kept as the message.
	maxErrorBody = 512
)

// Ensure Provider implements the interface.
var _ driven.RecipeProvider = (*Provider)(nil)

// Config configures the HTTP provider.
type Config struct {
	// BaseURL is the endpoint root, e.g. https://dummyjson.com.
	BaseURL string

	// Token is sent as a bearer token when set.
	Token string

	// RequestsPerSecond throttles requests. 0 disables throttling.
	RequestsPerSecond float64

	// Timeout bounds each request. 0 means DefaultTimeout.
	Timeout time.Duration
}

// Provider fetches the full recipe collection over HTTP.
type Provider struct {
	endpoint string
	client   *http.Client
	limiter  *ratelimit.Limiter
}

// New creates an HTTP provider.
func New(cfg Config) (*Provider, error) {
	if cfg.BaseURL == "" {
		return nil, ErrNoBaseURL
	}
	endpoint, err := recipesURL(cfg.BaseURL)
	if err != nil {
		return nil, err
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	client := &http.Client{}
	if cfg.Token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token})
		client = oauth2.NewClient(context.Background(), ts)
	}
	client.Timeout = timeout

	return &Provider{
		endpoint: endpoint,
		client:   client,
		limiter:  ratelimit.New(cfg.RequestsPerSecond),
	}, nil
}

// Type returns the provider type.
func (p *Provider) Type() string {
	return domain.ProviderHTTP.String()
}

// Endpoint returns the URL the provider fetches.
func (p *Provider) Endpoint() string {
	return p.endpoint
}

// Fetch downloads the whole recipe collection.
// Every failure is wrapped with domain.ErrRemoteFetch.
func (p *Provider) Fetch(ctx context.Context) ([]domain.Recipe, error) {
	recipes, err := p.fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrRemoteFetch, err)
	}
	return recipes, nil
}

func (p *Provider) fetch(ctx context.Context) ([]domain.Recipe, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	logger.Debug("http provider: GET %s", p.endpoint)
	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get recipes: %w", err)
	}
	defer resp.Body.Close()

	if err := p.limiter.Check(resp); err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(body)),
			URL:        p.endpoint,
		}
	}

	recipes, err := dto.Decode(resp.Body)
	if err != nil {
		return nil, err
	}
	logger.Debug("http provider: received %d recipes", len(recipes))
	return recipes, nil
}

// recipesURL builds {base}/recipes?limit=0. limit=0 asks for every recipe.
func recipesURL(base string) (string, error) {
	u, err := url.Parse(strings.TrimRight(base, "/") + RecipesPath)
	if err != nil {
		return "", fmt.Errorf("%w: base URL: %w", domain.ErrInvalidInput, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("%w: base URL must be http or https", domain.ErrInvalidInput)
	}
	q := u.Query()
	q.Set("limit", "0")
	u.RawQuery = q.Encode()
	return u.String(), nil
}
