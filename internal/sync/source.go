// Gabinete - Legislative Proposal Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gabinete

package sync

import (
	"context"
	"fmt"

	"github.com/tomtom215/gabinete/internal/config"
	"github.com/tomtom215/gabinete/internal/logging"
	"github.com/tomtom215/gabinete/internal/models"
)

// ProposalSource yields the proposals to merge in one run. The resolver is
// the default source; scrapers or fixtures can be swapped in.
type ProposalSource interface {
	FetchProposals(ctx context.Context) ([]models.Proposal, error)
}

// DeputyLookup resolves a deputy's display name.
type DeputyLookup interface {
	GetDeputy(ctx context.Context, deputyID int) (*models.Deputy, error)
}

// AuthorSource resolves the configured author's proposals through a Resolver.
type AuthorSource struct {
	resolver *Resolver
	deputies DeputyLookup
	person   models.PersonIdentifiers
	types    []models.ProposalType
	pageSize int
}

// NewAuthorSource creates a source for person. deputies may be nil, in which
// case a missing name is never looked up.
func NewAuthorSource(resolver *Resolver, deputies DeputyLookup, person models.PersonIdentifiers, types []models.ProposalType, pageSize int) *AuthorSource {
	if len(types) == 0 {
		types = models.AllProposalTypes
	}
	return &AuthorSource{
		resolver: resolver,
		deputies: deputies,
		person:   person,
		types:    types,
		pageSize: pageSize,
	}
}

// NewAuthorSourceFromConfig wires the default cascade over client.
func NewAuthorSourceFromConfig(cfg *config.Config, client *CamaraClient) (*AuthorSource, error) {
	types, err := models.ParseProposalTypes(cfg.Sync.ProposalTypes)
	if err != nil {
		return nil, fmt.Errorf("sync.proposal_types: %w", err)
	}
	verifier := NewVerifier(client, cfg.Sync.VerifyDelay)
	resolver := NewResolver(client, verifier, cfg.Sync.FallbackScanSize, cfg.Sync.FallbackMatchCap)
	person := models.PersonIdentifiers{ID: cfg.Author.ID, Name: cfg.Author.Name}
	return NewAuthorSource(resolver, client, person, types, cfg.Sync.PageSize), nil
}

// Person returns the identifiers the source resolves for.
func (s *AuthorSource) Person() models.PersonIdentifiers {
	return s.person
}

// FetchProposals implements ProposalSource. When only the id is configured,
// the name is looked up once per call; a failed lookup leaves it empty.
func (s *AuthorSource) FetchProposals(ctx context.Context) ([]models.Proposal, error) {
	person := s.person
	if person.Name == "" && person.ID > 0 && s.deputies != nil {
		deputy, err := s.deputies.GetDeputy(ctx, person.ID)
		switch {
		case err != nil:
			logging.Ctx(ctx).Warn().Err(err).Int("deputy_id", person.ID).Msg("Deputy name lookup failed, name strategy will be skipped")
		case deputy != nil:
			person.Name = deputy.Name
			logging.Ctx(ctx).Debug().Int("deputy_id", person.ID).Str("name", person.Name).Msg("Resolved deputy name")
		}
	}
	return s.resolver.Resolve(ctx, person, s.types, s.pageSize)
}
