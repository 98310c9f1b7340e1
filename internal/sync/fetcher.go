// Gabinete - Legislative Proposal Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gabinete

/*
fetcher.go - Câmara Open Data HTTP Fetcher

This file provides the leaf HTTP component used by every Câmara API call.

Request Configuration:
  - User-Agent: descriptive identifier sent on every request
  - Accept: application/json
  - Request Budget: token bucket (x/time/rate) shared by all calls
  - Rate Limiting: HTTP 429 retried with exponential backoff
  - Timeouts: enforced by http.Client.Timeout

Retry Policy (HTTP 429 only):
  - Exponential backoff from RetryBaseDelay: 1s, 2s, 4s, 8s, 16s
  - Retry-After header (seconds or HTTP date) overrides the computed delay
  - Waits are cancelled by the request context

Non-2xx responses are returned as *APIError with at most 64 KiB of the body.
*/

//nolint:staticcheck // File documentation, not package doc
package sync

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/tomtom215/gabinete/internal/config"
	"github.com/tomtom215/gabinete/internal/logging"
	"github.com/tomtom215/gabinete/internal/metrics"
)

// maxErrorBodyBytes caps how much of a non-2xx body is kept in APIError.
const maxErrorBodyBytes = 64 << 10

// Fetcher performs a GET against the open data API and decodes the JSON body into out.
type Fetcher interface {
	Fetch(ctx context.Context, path string, query url.Values, out any) error
}

// APIError is returned for non-2xx upstream responses.
type APIError struct {
	StatusCode int
	Path       string
	Body       string
}

func (e *APIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("camara API %s: HTTP %d", e.Path, e.StatusCode)
	}
	return fmt.Sprintf("camara API %s: HTTP %d: %s", e.Path, e.StatusCode, e.Body)
}

// IsStatus reports whether err is an *APIError with the given status code.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == status
}

// HTTPFetcher is the net/http implementation of Fetcher.
type HTTPFetcher struct {
	baseURL        string
	userAgent      string
	httpClient     *http.Client
	limiter        *rate.Limiter
	maxRetries     int
	retryBaseDelay time.Duration
}

// NewHTTPFetcher creates a fetcher from the Câmara configuration.
func NewHTTPFetcher(cfg *config.CamaraConfig) *HTTPFetcher {
	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	burst := cfg.Burst
	if burst < 1 {
		burst = 1
	}

	return &HTTPFetcher{
		baseURL:        strings.TrimRight(cfg.BaseURL, "/"),
		userAgent:      cfg.UserAgent,
		httpClient:     &http.Client{Timeout: cfg.Timeout},
		limiter:        rate.NewLimiter(limit, burst),
		maxRetries:     cfg.MaxRetries,
		retryBaseDelay: cfg.RetryBaseDelay,
	}
}

// Fetch implements Fetcher. A response without a body leaves out untouched.
func (f *HTTPFetcher) Fetch(ctx context.Context, path string, query url.Values, out any) error {
	reqURL := f.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	resp, err := f.doWithRetry(ctx, path, reqURL)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return &APIError{StatusCode: resp.StatusCode, Path: path, Body: strings.TrimSpace(string(body))}
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// doWithRetry executes the GET, retrying HTTP 429 responses with backoff.
// The caller must close the returned body.
func (f *HTTPFetcher) doWithRetry(ctx context.Context, path, reqURL string) (*http.Response, error) {
	for attempt := 0; ; attempt++ {
		if err := f.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("wait for request budget: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("User-Agent", f.userAgent)
		req.Header.Set("Accept", "application/json")

		start := time.Now()
		resp, err := f.httpClient.Do(req)
		if err != nil {
			metrics.RecordCamaraRequest(0, time.Since(start))
			return nil, fmt.Errorf("GET %s: %w", path, err)
		}
		metrics.RecordCamaraRequest(resp.StatusCode, time.Since(start))

		if resp.StatusCode != http.StatusTooManyRequests || attempt >= f.maxRetries {
			return resp, nil
		}

		retryDelay := f.retryDelay(attempt, resp.Header.Get("Retry-After"))
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBodyBytes))
		resp.Body.Close()

		metrics.CamaraRetries.Inc()
		logging.Ctx(ctx).Warn().
			Str("path", path).
			Dur("retry_delay", retryDelay).
			Int("attempt", attempt+1).
			Int("max_retries", f.maxRetries).
			Msg("Camara API rate limited (HTTP 429), retrying")

		timer := time.NewTimer(retryDelay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
}

// retryDelay returns the wait before retry number attempt+1.
func (f *HTTPFetcher) retryDelay(attempt int, retryAfter string) time.Duration {
	delay := f.retryBaseDelay * time.Duration(1<<attempt)

	if retryAfter = strings.TrimSpace(retryAfter); retryAfter == "" {
		return delay
	}
	if seconds, err := strconv.Atoi(retryAfter); err == nil && seconds >= 0 {
		return time.Duration(seconds) * time.Second
	}
	if at, err := http.ParseTime(retryAfter); err == nil {
		if d := time.Until(at); d > 0 {
			return d
		}
		return 0
	}
	return delay
}
