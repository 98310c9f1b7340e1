// Gabinete - Legislative Proposal Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gabinete

/*
camara_client.go - Typed Câmara dos Deputados API Client

Endpoints:
  - GET /proposicoes: proposal search (author filter, type, page size, id DESC)
  - GET /proposicoes/{id}/autores: author list of one proposal
  - GET /deputados/{id}: deputy details
  - GET /deputados/{id}/proposicoes: proposals linked to a deputy

Every response uses the {"dados": ...} envelope. A missing "dados" field
decodes as an empty list. Wire records are converted into models and
validated; invalid proposals are skipped with a warning.
*/

//nolint:staticcheck // File documentation, not package doc
package sync

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/tomtom215/gabinete/internal/config"
	"github.com/tomtom215/gabinete/internal/logging"
	"github.com/tomtom215/gabinete/internal/models"
	"github.com/tomtom215/gabinete/internal/models/camara"
	"github.com/tomtom215/gabinete/internal/validation"
)

// ProposalPageURL is the public tracking page of a proposal.
const ProposalPageURL = "https://www.camara.leg.br/proposicoesWeb/fichadetramitacao?idProposicao="

// Layout of dataApresentacao, e.g. "2024-02-01T14:32".
const presentationDateLayout = "2006-01-02T15:04"

// ProposalQuery filters GET /proposicoes.
type ProposalQuery struct {
	// Author is a name or a numeric id; empty means no author filter.
	Author string
	Type   models.ProposalType
	// Items is the page size (itens).
	Items int
}

// CamaraClient is a typed client over a Fetcher.
type CamaraClient struct {
	fetcher Fetcher
}

// NewCamaraClient creates a client using fetcher for transport.
func NewCamaraClient(fetcher Fetcher) *CamaraClient {
	return &CamaraClient{fetcher: fetcher}
}

// NewFetcher builds the configured transport stack: HTTPFetcher, optionally
// behind a circuit breaker.
func NewFetcher(cfg *config.CamaraConfig) Fetcher {
	var f Fetcher = NewHTTPFetcher(cfg)
	if cfg.CircuitBreaker {
		f = NewCircuitBreakerFetcher("camara-api", f)
	}
	return f
}

// ListProposals queries /proposicoes ordered by id descending.
func (c *CamaraClient) ListProposals(ctx context.Context, q ProposalQuery) ([]models.Proposal, error) {
	query := url.Values{}
	if q.Author != "" {
		query.Set("autor", q.Author)
	}
	if q.Type != "" {
		query.Set("siglaTipo", string(q.Type))
	}
	if q.Items > 0 {
		query.Set("itens", strconv.Itoa(q.Items))
	}
	query.Set("ordem", "DESC")
	query.Set("ordenarPor", "id")

	var env camara.ListEnvelope[camara.Proposicao]
	if err := c.fetcher.Fetch(ctx, "/proposicoes", query, &env); err != nil {
		return nil, err
	}
	return convertProposals(ctx, env.Dados), nil
}

// ListProposalAuthors returns the authors of one proposal.
func (c *CamaraClient) ListProposalAuthors(ctx context.Context, proposalID int) ([]models.Author, error) {
	var env camara.ListEnvelope[camara.Autor]
	if err := c.fetcher.Fetch(ctx, fmt.Sprintf("/proposicoes/%d/autores", proposalID), nil, &env); err != nil {
		return nil, err
	}

	authors := make([]models.Author, 0, len(env.Dados))
	for i := range env.Dados {
		a := &env.Dados[i]
		authors = append(authors, models.Author{
			ID:   a.ID(),
			Name: strings.TrimSpace(a.Nome),
			Type: a.Tipo,
		})
	}
	return authors, nil
}

// GetDeputy returns one deputy.
func (c *CamaraClient) GetDeputy(ctx context.Context, deputyID int) (*models.Deputy, error) {
	var env camara.ObjectEnvelope[camara.Deputado]
	if err := c.fetcher.Fetch(ctx, fmt.Sprintf("/deputados/%d", deputyID), nil, &env); err != nil {
		return nil, err
	}
	if env.Dados == nil {
		return nil, fmt.Errorf("deputy %d: empty response", deputyID)
	}

	d := env.Dados
	id := d.ID
	if id == 0 {
		id = deputyID
	}
	return &models.Deputy{
		ID:        id,
		Name:      d.DisplayName(),
		CivilName: d.NomeCivil,
		Party:     d.UltimoStatus.SiglaPartido,
		State:     d.UltimoStatus.SiglaUf,
		Email:     d.UltimoStatus.Email,
		PhotoURL:  d.UltimoStatus.URLFoto,
	}, nil
}

// ListDeputyProposals returns proposals linked to a deputy, most recent first.
func (c *CamaraClient) ListDeputyProposals(ctx context.Context, deputyID, items int) ([]models.Proposal, error) {
	query := url.Values{}
	if items > 0 {
		query.Set("itens", strconv.Itoa(items))
	}
	query.Set("ordem", "DESC")
	query.Set("ordenarPor", "id")

	var env camara.ListEnvelope[camara.Proposicao]
	if err := c.fetcher.Fetch(ctx, fmt.Sprintf("/deputados/%d/proposicoes", deputyID), query, &env); err != nil {
		return nil, err
	}
	return convertProposals(ctx, env.Dados), nil
}

func convertProposals(ctx context.Context, records []camara.Proposicao) []models.Proposal {
	proposals := make([]models.Proposal, 0, len(records))
	for i := range records {
		p := toProposal(&records[i])
		if err := validation.ValidateStruct(&p); err != nil {
			logging.Ctx(ctx).Warn().Int("proposal_id", records[i].ID).Err(err).Msg("Skipping invalid proposal record")
			continue
		}
		proposals = append(proposals, p)
	}
	return proposals
}

func toProposal(r *camara.Proposicao) models.Proposal {
	p := models.Proposal{
		ID:     r.ID,
		Type:   models.ProposalType(strings.ToUpper(strings.TrimSpace(r.SiglaTipo))),
		Number: r.Numero,
		Year:   r.Ano,
		Ementa: strings.TrimSpace(r.Ementa),
	}
	if r.ID > 0 {
		p.AuthorsRef = strconv.Itoa(r.ID)
		p.URL = ProposalPageURL + strconv.Itoa(r.ID)
	}
	if t, ok := parsePresentationDate(r.DataApresentacao); ok {
		p.PresentationDate = &t
	}
	return p
}

func parsePresentationDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{presentationDateLayout, time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
