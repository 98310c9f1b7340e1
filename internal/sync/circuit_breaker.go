// Gabinete - Legislative Proposal Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gabinete

package sync

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/gabinete/internal/logging"
	"github.com/tomtom215/gabinete/internal/metrics"
)

// ErrCircuitOpen is returned while the breaker rejects requests.
var ErrCircuitOpen = errors.New("camara API circuit breaker is open")

// CircuitBreakerFetcher wraps a Fetcher with the circuit breaker pattern so a
// run fails fast while the API is unavailable.
//
// Circuit breaker configuration:
//   - Max 3 concurrent requests in half-open state
//   - 1 minute measurement window
//   - 2 minute timeout before attempting recovery
//   - Opens after 5 consecutive failures, or a 60% failure rate over at least 10 requests
type CircuitBreakerFetcher struct {
	next Fetcher
	cb   *gobreaker.CircuitBreaker[any]
	name string
}

// NewCircuitBreakerFetcher wraps next in a breaker named name.
func NewCircuitBreakerFetcher(name string, next Fetcher) *CircuitBreakerFetcher {
	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)

	cb := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.ConsecutiveFailures >= 5 {
				logging.Warn().Uint32("consecutive_failures", counts.ConsecutiveFailures).Msg("[CIRCUIT BREAKER] Opening circuit")
				return true
			}
			if counts.Requests < 10 {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			if failureRatio >= 0.6 {
				logging.Warn().Uint32("failures", counts.TotalFailures).Float64("failure_rate", failureRatio*100).Msg("[CIRCUIT BREAKER] Opening circuit")
				return true
			}
			return false
		},

		// Client errors mean the API answered; only transport errors, 429 and 5xx count.
		IsSuccessful: func(err error) bool {
			if err == nil || errors.Is(err, context.Canceled) {
				return true
			}
			var apiErr *APIError
			if errors.As(err, &apiErr) {
				return apiErr.StatusCode < 500 && apiErr.StatusCode != http.StatusTooManyRequests
			}
			return false
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Info().Str("breaker", name).Str("from", stateToString(from)).Str("to", stateToString(to)).Msg("[CIRCUIT BREAKER] State transition")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, stateToString(from), stateToString(to)).Inc()
		},
	})

	return &CircuitBreakerFetcher{next: next, cb: cb, name: name}
}

// Fetch implements Fetcher.
func (c *CircuitBreakerFetcher) Fetch(ctx context.Context, path string, query url.Values, out any) error {
	_, err := c.cb.Execute(func() (any, error) {
		return nil, c.next.Fetch(ctx, path, query, out)
	})
	if err == nil {
		metrics.CircuitBreakerRequests.WithLabelValues(c.name, "success").Inc()
		return nil
	}

	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		metrics.CircuitBreakerRequests.WithLabelValues(c.name, "rejected").Inc()
		return fmt.Errorf("%w: %s", ErrCircuitOpen, path)
	}
	metrics.CircuitBreakerRequests.WithLabelValues(c.name, "failure").Inc()
	return err
}

// State returns the current breaker state.
func (c *CircuitBreakerFetcher) State() gobreaker.State {
	return c.cb.State()
}

// stateToFloat converts circuit breaker state to numeric value for metrics
func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
