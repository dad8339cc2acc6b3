// Package github reads a JSON recipe file from a GitHub repository.
package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	gh "github.com/google/go-github/v80/github"
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

	// ProactiveRate is the proactive throttle rate (~1.2 req/sec = 4320/hr).
	ProactiveRate = 1.2
)

// Ensure Provider implements the interface.
var _ driven.RecipeProvider = (*Provider)(nil)

// Config configures the GitHub provider.
type Config struct {
	// Repo is "owner/name".
	Repo string

	// Path is the recipe file inside the repository.
	Path string

	// Ref is a branch, tag or commit. Empty means the default branch.
	Ref string

	// Token is a personal access token. Public repositories work without one.
	Token string

	// Timeout bounds each request. 0 means DefaultTimeout.
	Timeout time.Duration

	// BaseURL overrides the API root, for GitHub Enterprise.
	BaseURL string
}

// Provider fetches a recipe file through the GitHub contents API.
type Provider struct {
	gh          *gh.Client
	owner, repo string
	path, ref   string
	rateLimiter *ratelimit.Limiter
}

// New creates a GitHub provider.
func New(cfg Config) (*Provider, error) {
	owner, repo, ok := strings.Cut(cfg.Repo, "/")
	if !ok || owner == "" || repo == "" || strings.Contains(repo, "/") {
		return nil, ErrInvalidRepo
	}
	if cfg.Path == "" {
		return nil, ErrNoPath
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	tc := &http.Client{}
	if cfg.Token != "" {
		ts := oauth2.StaticTokenSource(
			&oauth2.Token{AccessToken: cfg.Token},
		)
		tc = oauth2.NewClient(context.Background(), ts)
	}
	tc.Timeout = timeout

	client := gh.NewClient(tc)
	if cfg.BaseURL != "" {
		base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/") + "/")
		if err != nil {
			return nil, fmt.Errorf("%w: base URL: %w", domain.ErrInvalidInput, err)
		}
		client.BaseURL = base
	}

	return &Provider{
		gh:          client,
		owner:       owner,
		repo:        repo,
		path:        strings.TrimPrefix(cfg.Path, "/"),
		ref:         cfg.Ref,
		rateLimiter: ratelimit.New(ProactiveRate),
	}, nil
}

// Type returns the provider type.
func (p *Provider) Type() string {
	return domain.ProviderGitHub.String()
}

// Fetch downloads and decodes the recipe file.
// Every failure is wrapped with domain.ErrRemoteFetch.
func (p *Provider) Fetch(ctx context.Context) ([]domain.Recipe, error) {
	content, err := p.getFileContent(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrRemoteFetch, err)
	}

	recipes, err := dto.Unmarshal([]byte(content))
	if err != nil {
		return nil, fmt.Errorf("%w: %s/%s/%s: %w", domain.ErrRemoteFetch, p.owner, p.repo, p.path, err)
	}
	logger.Debug("github provider: %d recipes from %s/%s/%s", len(recipes), p.owner, p.repo, p.path)
	return recipes, nil
}

// getFileContent fetches the content of the configured file.
func (p *Provider) getFileContent(ctx context.Context) (string, error) {
	if err := p.rateLimiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit wait: %w", err)
	}

	opts := &gh.RepositoryContentGetOptions{Ref: p.ref}
	content, _, resp, err := p.gh.Repositories.GetContents(ctx, p.owner, p.repo, p.path, opts)
	if resp != nil {
		if rlErr := p.rateLimiter.Check(resp.Response); rlErr != nil {
			return "", rlErr
		}
	}
	if err != nil {
		return "", p.wrapError(err, "get contents")
	}

	if content == nil {
		return "", ErrNotAFile
	}

	decoded, err := content.GetContent()
	if err != nil {
		return "", fmt.Errorf("decode content: %w", err)
	}
	return decoded, nil
}

// wrapError converts go-github errors to our error types.
func (p *Provider) wrapError(err error, operation string) error {
	var ghErr *gh.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil {
		apiErr := &APIError{
			StatusCode: ghErr.Response.StatusCode,
			Message:    ghErr.Message,
		}
		if ghErr.Response.Request != nil {
			apiErr.URL = ghErr.Response.Request.URL.String()
		}
		return apiErr
	}

	var rateLimitErr *gh.RateLimitError
	if errors.As(err, &rateLimitErr) {
		return &ratelimit.Error{
			ResetAt:   rateLimitErr.Rate.Reset.Time,
			Remaining: rateLimitErr.Rate.Remaining,
			Limit:     rateLimitErr.Rate.Limit,
		}
	}

	return fmt.Errorf("%s: %w", operation, err)
}
