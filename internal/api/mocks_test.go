// Gabinete - Legislative Proposal Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gabinete

package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	gosync "sync"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/gabinete/internal/knowledge"
	"github.com/tomtom215/gabinete/internal/logging"
	"github.com/tomtom215/gabinete/internal/models"
)

//nolint:gochecknoinits // init ensures consistent logging for tests
func init() {
	logging.Init(logging.Config{Level: "info", Format: "json", Output: io.Discard})
}

// fakeController records trigger calls and returns canned results.
type fakeController struct {
	mu      gosync.Mutex
	result  models.SyncResult
	err     error
	forces  []bool
	status  models.SyncStatus
	stats   models.SyncStats
	running bool
}

func (f *fakeController) TriggerManualSync(_ context.Context, force bool) (models.SyncResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.forces = append(f.forces, force)
	return f.result, f.err
}

func (f *fakeController) Status() models.SyncStatus { return f.status }
func (f *fakeController) Stats() models.SyncStats   { return f.stats }
func (f *fakeController) IsRunning() bool           { return f.running }

func (f *fakeController) triggerForces() []bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]bool(nil), f.forces...)
}

type failingReader struct{}

var errStoreDown = errors.New("store down")

func (failingReader) GetByID(context.Context, string) (*models.KnowledgeItem, error) {
	return nil, errStoreDown
}

func (failingReader) List(context.Context, knowledge.ListOptions) ([]models.KnowledgeItem, error) {
	return nil, errStoreDown
}

func seededStore(t *testing.T, ids ...string) *knowledge.MemoryStore {
	t.Helper()
	store := knowledge.NewMemoryStore()
	for _, id := range ids {
		_, err := store.Add(context.Background(), &models.KnowledgeItem{
			KBID:      id,
			Title:     id,
			Source:    models.KnowledgeSourceCamara,
			Tags:      []string{"proposicao"},
			CreatedAt: time.Date(2026, 1, 5, 6, 0, 0, 0, time.UTC),
		})
		if err != nil {
			t.Fatalf("seed %s: %v", id, err)
		}
	}
	return store
}

func testMiddlewareConfig() MiddlewareConfig {
	return MiddlewareConfig{
		CORSAllowedOrigins: []string{"*"},
		RateLimitRequests:  1000,
		RateLimitWindow:    time.Minute,
	}
}

// envelope decodes the response with Data left raw.
type envelope struct {
	Status   string           `json:"status"`
	Data     json.RawMessage  `json:"data"`
	Metadata models.Metadata  `json:"metadata"`
	Error    *models.APIError `json:"error"`
}

func do(t *testing.T, h http.Handler, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			t.Fatalf("decode %s %s: %v\n%s", method, path, err, rec.Body.String())
		}
	}
	return rec, env
}

func decodeData(t *testing.T, env envelope, out any) {
	t.Helper()
	if err := json.Unmarshal(env.Data, out); err != nil {
		t.Fatalf("decode data: %v\n%s", err, env.Data)
	}
}

func checkStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("status = %d, want %d\n%s", rec.Code, want, rec.Body.String())
	}
}
