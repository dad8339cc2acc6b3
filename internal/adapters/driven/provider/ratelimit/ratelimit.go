// Package ratelimit throttles requests to recipe endpoints.
//
// It combines proactive throttling (a token bucket) with reactive limits
// read from X-RateLimit-* response headers, the convention used by GitHub
// and most public JSON APIs.
package ratelimit

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	// MinBuffer is the minimum remaining requests before waiting for reset.
	MinBuffer = 1

	// HeaderRateLimit is the rate limit header.
	HeaderRateLimit = "X-RateLimit-Limit"

	// HeaderRateRemaining is the remaining requests header.
	HeaderRateRemaining = "X-RateLimit-Remaining"

	// HeaderRateReset is the reset timestamp header (Unix seconds).
	HeaderRateReset = "X-RateLimit-Reset"

	// HeaderRetryAfter is the retry-after header (seconds).
	HeaderRetryAfter = "Retry-After"
)

// Error reports that the server refused a request because of rate limiting.
type Error struct {
	ResetAt   time.Time
	Remaining int
	Limit     int
}

func (e *Error) Error() string {
	return fmt.Sprintf("rate limit exceeded, resets at %s", e.ResetAt.Format(time.RFC3339))
}

// Limiter implements dual-strategy rate limiting.
type Limiter struct {
	mu        sync.Mutex
	remaining int           // From API header, -1 until known
	limit     int           // From API header
	resetTime time.Time     // From API header
	bucket    *rate.Limiter // Proactive throttling, nil when disabled
	minBuffer int           // Reserve requests
}

// New creates a limiter allowing perSecond requests per second.
// A non-positive perSecond disables proactive throttling.
func New(perSecond float64) *Limiter {
	l := &Limiter{
		remaining: -1,
		minBuffer: MinBuffer,
	}
	if perSecond > 0 {
		l.bucket = rate.NewLimiter(rate.Limit(perSecond), 1)
	}
	return l
}

// Wait blocks until it's safe to make a request.
func (l *Limiter) Wait(ctx context.Context) error {
	// 1. Check token bucket (proactive throttling)
	if l.bucket != nil {
		if err := l.bucket.Wait(ctx); err != nil {
			return err
		}
	}

	// 2. Check API limit (reactive)
	l.mu.Lock()
	remaining := l.remaining
	resetTime := l.resetTime
	l.mu.Unlock()

	if remaining >= 0 && remaining < l.minBuffer && time.Now().Before(resetTime) {
		timer := time.NewTimer(time.Until(resetTime))
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}

	return nil
}

// UpdateFromResponse updates rate limit state from response headers.
func (l *Limiter) UpdateFromResponse(resp *http.Response) {
	if resp == nil {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if remaining := resp.Header.Get(HeaderRateRemaining); remaining != "" {
		if val, err := strconv.Atoi(remaining); err == nil {
			l.remaining = val
		}
	}

	if limit := resp.Header.Get(HeaderRateLimit); limit != "" {
		if val, err := strconv.Atoi(limit); err == nil {
			l.limit = val
		}
	}

	// Unix timestamp
	if reset := resp.Header.Get(HeaderRateReset); reset != "" {
		if val, err := strconv.ParseInt(reset, 10, 64); err == nil {
			l.resetTime = time.Unix(val, 0)
		}
	}
}

// Check updates state from resp and returns an *Error if resp is a
// rate limit rejection (429, or 403 with no requests remaining).
func (l *Limiter) Check(resp *http.Response) error {
	if resp == nil {
		return nil
	}

	l.UpdateFromResponse(resp)

	l.mu.Lock()
	resetTime := l.resetTime
	remaining := l.remaining
	limit := l.limit
	l.mu.Unlock()

	if resp.StatusCode != http.StatusTooManyRequests &&
		(resp.StatusCode != http.StatusForbidden || remaining != 0) {
		return nil
	}

	if retryAfter := resp.Header.Get(HeaderRetryAfter); retryAfter != "" {
		if seconds, err := strconv.Atoi(retryAfter); err == nil {
			resetTime = time.Now().Add(time.Duration(seconds) * time.Second)
		}
	}

	return &Error{
		ResetAt:   resetTime,
		Remaining: remaining,
		Limit:     limit,
	}
}

// Remaining returns the remaining requests reported by the server, or -1.
func (l *Limiter) Remaining() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.remaining
}

// ResetTime returns the rate limit reset time.
func (l *Limiter) ResetTime() time.Time {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.resetTime
}
