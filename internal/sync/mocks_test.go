// Gabinete - Legislative Proposal Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gabinete

package sync

import (
	"context"
	"errors"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/goccy/go-json"

	"github.com/tomtom215/gabinete/internal/models"
	"github.com/tomtom215/gabinete/internal/models/camara"
)

// fakeFetcher answers Fetch calls from canned JSON bodies keyed by
// path, autor and siglaTipo. Unknown keys answer {"dados":[]}.
type fakeFetcher struct {
	mu        sync.Mutex
	responses map[string]string
	errs      map[string]error
	calls     []string
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{responses: make(map[string]string), errs: make(map[string]error)}
}

func fetchKey(path, author string, t models.ProposalType) string {
	return path + "|" + author + "|" + string(t)
}

func (f *fakeFetcher) Fetch(_ context.Context, path string, query url.Values, out any) error {
	key := fetchKey(path, query.Get("autor"), models.ProposalType(query.Get("siglaTipo")))

	f.mu.Lock()
	f.calls = append(f.calls, key)
	err := f.errs[key]
	body, ok := f.responses[key]
	f.mu.Unlock()

	if err != nil {
		return err
	}
	if !ok {
		body = `{"dados":[]}`
	}
	return json.Unmarshal([]byte(body), out)
}

// setProposals registers the /proposicoes answer for an author filter and type.
func (f *fakeFetcher) setProposals(t *testing.T, author string, pt models.ProposalType, records ...camara.Proposicao) {
	t.Helper()
	data, err := json.Marshal(camara.ListEnvelope[camara.Proposicao]{Dados: records})
	if err != nil {
		t.Fatalf("marshal proposals: %v", err)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[fetchKey("/proposicoes", author, pt)] = string(data)
}

// setAuthors registers the /proposicoes/{id}/autores answer.
func (f *fakeFetcher) setAuthors(t *testing.T, proposalPath string, authors ...camara.Autor) {
	t.Helper()
	data, err := json.Marshal(camara.ListEnvelope[camara.Autor]{Dados: authors})
	if err != nil {
		t.Fatalf("marshal authors: %v", err)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[fetchKey(proposalPath, "", "")] = string(data)
}

func (f *fakeFetcher) setError(key string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs[key] = err
}

func (f *fakeFetcher) set(key, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[key] = body
}

// countCalls returns how many calls had a key starting with prefix.
func (f *fakeFetcher) countCalls(prefix string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if strings.HasPrefix(c, prefix) {
			n++
		}
	}
	return n
}

func (f *fakeFetcher) totalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func proposicao(id int, sigla string, numero, ano int, ementa string) camara.Proposicao {
	return camara.Proposicao{
		ID:               id,
		URI:              "https://dadosabertos.camara.leg.br/api/v2/proposicoes/" + strconv.Itoa(id),
		SiglaTipo:        sigla,
		Numero:           numero,
		Ano:              ano,
		Ementa:           ementa,
		DataApresentacao: "2024-02-01T14:32",
	}
}

func deputyAutor(id int, nome string) camara.Autor {
	return camara.Autor{
		URI:  "https://dadosabertos.camara.leg.br/api/v2/deputados/" + strconv.Itoa(id),
		Nome: nome,
		Tipo: "Deputado(a)",
	}
}

// fakeHub records broadcast message types.
type fakeHub struct {
	mu       sync.Mutex
	messages []string
}

func (h *fakeHub) BroadcastJSON(messageType string, _ interface{}) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.messages = append(h.messages, messageType)
}

func (h *fakeHub) types() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.messages...)
}

// fakeEvents records published events and can be told to fail.
type fakeEvents struct {
	mu        sync.Mutex
	completed []models.SyncRecord
	created   []string
	err       error
}

func (e *fakeEvents) PublishSyncCompleted(_ context.Context, record *models.SyncRecord) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.completed = append(e.completed, *record)
	return e.err
}

func (e *fakeEvents) PublishKnowledgeCreated(_ context.Context, kbID string, _ *models.Proposal) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.created = append(e.created, kbID)
	return e.err
}

// staticSource returns a fixed proposal list.
type staticSource struct {
	mu        sync.Mutex
	proposals []models.Proposal
	err       error
	calls     int
}

func (s *staticSource) FetchProposals(context.Context) ([]models.Proposal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return s.proposals, s.err
}

func (s *staticSource) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// blockingSource blocks until release is closed.
type blockingSource struct {
	entered chan struct{}
	release chan struct{}
	result  []models.Proposal
}

func newBlockingSource(result ...models.Proposal) *blockingSource {
	return &blockingSource{entered: make(chan struct{}, 1), release: make(chan struct{}), result: result}
}

func (s *blockingSource) FetchProposals(context.Context) ([]models.Proposal, error) {
	s.entered <- struct{}{}
	<-s.release
	return s.result, nil
}

type panicSource struct{}

func (panicSource) FetchProposals(context.Context) ([]models.Proposal, error) {
	panic("boom")
}

// failingUpserter fails on the n-th call (1-based).
type failingUpserter struct {
	mu     sync.Mutex
	failAt int
	calls  int
}

var errStoreUnavailable = errors.New("store unavailable")

func (u *failingUpserter) Upsert(context.Context, models.Proposal, UpsertOptions) (UpsertResult, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.calls++
	if u.calls >= u.failAt {
		return UpsertResult{}, errStoreUnavailable
	}
	return UpsertResult{Inserted: true}, nil
}

func testProposal(t models.ProposalType, number, year int) models.Proposal {
	id := year*10000 + number
	return models.Proposal{
		ID:         id,
		Type:       t,
		Number:     number,
		Year:       year,
		Ementa:     "Dispõe sobre o tema " + strconv.Itoa(number),
		AuthorsRef: strconv.Itoa(id),
		URL:        ProposalPageURL + strconv.Itoa(id),
	}
}
