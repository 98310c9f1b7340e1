// Gabinete - Legislative Proposal Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gabinete

package sync

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"sync/atomic"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/gabinete/internal/metrics"
)

// scriptedFetcher returns err on every call and counts calls.
type scriptedFetcher struct {
	err   error
	calls atomic.Int32
}

func (f *scriptedFetcher) Fetch(context.Context, string, url.Values, any) error {
	f.calls.Add(1)
	return f.err
}

func TestCircuitBreaker_OpensAfterConsecutiveFailures(t *testing.T) {
	inner := &scriptedFetcher{err: errors.New("connection refused")}
	cbf := NewCircuitBreakerFetcher("test-consecutive", inner)

	for i := 0; i < 5; i++ {
		_ = cbf.Fetch(context.Background(), "/proposicoes", nil, nil)
	}
	if cbf.State() != gobreaker.StateOpen {
		t.Fatalf("expected Open after 5 consecutive failures, got %v", cbf.State())
	}

	err := cbf.Fetch(context.Background(), "/proposicoes", nil, nil)
	if !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected ErrCircuitOpen, got %v", err)
	}
	checkIntEqual(t, "inner calls", int(inner.calls.Load()), 5)

	if got := testutil.ToFloat64(metrics.CircuitBreakerState.WithLabelValues("test-consecutive")); got != 2 {
		t.Errorf("state gauge = %v, want 2 (open)", got)
	}
	if got := testutil.ToFloat64(metrics.CircuitBreakerRequests.WithLabelValues("test-consecutive", "rejected")); got != 1 {
		t.Errorf("rejected counter = %v, want 1", got)
	}
}

func TestCircuitBreaker_ClientErrorsDoNotTrip(t *testing.T) {
	inner := &scriptedFetcher{err: &APIError{StatusCode: http.StatusNotFound, Path: "/deputados/1"}}
	cbf := NewCircuitBreakerFetcher("test-client-errors", inner)

	for i := 0; i < 20; i++ {
		err := cbf.Fetch(context.Background(), "/deputados/1", nil, nil)
		if !IsStatus(err, http.StatusNotFound) {
			t.Fatalf("expected the 404 to pass through, got %v", err)
		}
	}
	if cbf.State() != gobreaker.StateClosed {
		t.Errorf("404 responses must not open the circuit, state %v", cbf.State())
	}
}

func TestCircuitBreaker_ServerErrorsTrip(t *testing.T) {
	inner := &scriptedFetcher{err: &APIError{StatusCode: http.StatusBadGateway}}
	cbf := NewCircuitBreakerFetcher("test-server-errors", inner)

	for i := 0; i < 5; i++ {
		_ = cbf.Fetch(context.Background(), "/proposicoes", nil, nil)
	}
	if cbf.State() != gobreaker.StateOpen {
		t.Errorf("expected Open after 5 HTTP 502, got %v", cbf.State())
	}
}

func TestCircuitBreaker_PassesSuccess(t *testing.T) {
	inner := &scriptedFetcher{}
	cbf := NewCircuitBreakerFetcher("test-success", inner)

	if err := cbf.Fetch(context.Background(), "/proposicoes", nil, nil); err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if cbf.State() != gobreaker.StateClosed {
		t.Errorf("state = %v", cbf.State())
	}
}

func TestStateToString(t *testing.T) {
	checkStringEqual(t, "closed", stateToString(gobreaker.StateClosed), "closed")
	checkStringEqual(t, "half-open", stateToString(gobreaker.StateHalfOpen), "half-open")
	checkStringEqual(t, "open", stateToString(gobreaker.StateOpen), "open")
}
