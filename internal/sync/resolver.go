// Gabinete - Legislative Proposal Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gabinete

/*
resolver.go - Author Resolution Cascade

The open data API offers no dependable "proposals by author" query, so the
resolver tries strategies in order and keeps the first non-empty result:

 1. by-name: GET /proposicoes?autor=<name> per type
 2. by-id: GET /proposicoes?autor=<id> per type
 3. recent-verify: recent proposals per type without an author filter, each
    checked via the Verifier, stopping at the match cap

Within a strategy each type is fault tolerant: a failed query is logged and
skipped. Results keep API order (id DESC) within a type, types are
concatenated in caller order, and duplicates by (type, number, year) are
dropped. The only error returned is context cancellation.
*/

//nolint:staticcheck // File documentation, not package doc
package sync

import (
	"context"
	"strconv"

	"github.com/tomtom215/gabinete/internal/logging"
	"github.com/tomtom215/gabinete/internal/metrics"
	"github.com/tomtom215/gabinete/internal/models"
)

// Cascade strategy names.
const (
	StrategyByName       = "by-name"
	StrategyByID         = "by-id"
	StrategyRecentVerify = "recent-verify"
)

// Default bounds of the recent-verify strategy.
const (
	DefaultFallbackScanSize = 30
	DefaultFallbackMatchCap = 10
)

// ProposalLister is the subset of CamaraClient the strategies query.
type ProposalLister interface {
	ListProposals(ctx context.Context, q ProposalQuery) ([]models.Proposal, error)
}

// AuthorshipVerifier checks whether person authored a proposal.
type AuthorshipVerifier interface {
	IsAuthor(ctx context.Context, proposalID int, person models.PersonIdentifiers) bool
}

// Strategy is one way of finding a person's proposals. Run never fails: per
// type errors are absorbed and an empty result means "try the next one".
type Strategy struct {
	Name string
	Run  func(ctx context.Context, person models.PersonIdentifiers, types []models.ProposalType, pageSize int) []models.Proposal
}

// FirstNonEmpty combines strategies into one that runs them in order and
// returns the first non-empty result.
func FirstNonEmpty(strategies ...Strategy) Strategy {
	return Strategy{
		Name: "cascade",
		Run: func(ctx context.Context, person models.PersonIdentifiers, types []models.ProposalType, pageSize int) []models.Proposal {
			for _, s := range strategies {
				if ctx.Err() != nil {
					return nil
				}
				found := s.Run(ctx, person, types, pageSize)
				metrics.RecordStrategy(s.Name, len(found) > 0)
				if len(found) > 0 {
					logging.Ctx(ctx).Info().Str("strategy", s.Name).Int("proposals", len(found)).Msg("Author resolution strategy matched")
					return found
				}
				logging.Ctx(ctx).Debug().Str("strategy", s.Name).Msg("Author resolution strategy returned nothing")
			}
			return nil
		},
	}
}

// Resolver runs the strategy cascade.
type Resolver struct {
	strategies []Strategy
	cascade    Strategy
}

// NewResolver builds the default cascade over lister and verifier.
func NewResolver(lister ProposalLister, verifier AuthorshipVerifier, scanSize, matchCap int) *Resolver {
	if scanSize <= 0 {
		scanSize = DefaultFallbackScanSize
	}
	if matchCap <= 0 {
		matchCap = DefaultFallbackMatchCap
	}
	return NewResolverWithStrategies(
		ByNameStrategy(lister),
		ByIDStrategy(lister),
		RecentVerifyStrategy(lister, verifier, scanSize, matchCap),
	)
}

// NewResolverWithStrategies builds a resolver over an explicit strategy list.
func NewResolverWithStrategies(strategies ...Strategy) *Resolver {
	return &Resolver{strategies: strategies, cascade: FirstNonEmpty(strategies...)}
}

// Strategies returns the strategy names in cascade order.
func (r *Resolver) Strategies() []string {
	names := make([]string, len(r.strategies))
	for i, s := range r.strategies {
		names[i] = s.Name
	}
	return names
}

// Resolve returns the proposals of person. An empty result is not an error.
func (r *Resolver) Resolve(ctx context.Context, person models.PersonIdentifiers, types []models.ProposalType, pageSize int) ([]models.Proposal, error) {
	found := r.cascade.Run(ctx, person, types, pageSize)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if found == nil {
		found = []models.Proposal{}
	}
	return found, nil
}

// ByNameStrategy queries /proposicoes?autor=<name>. Empty when the name is unknown.
func ByNameStrategy(lister ProposalLister) Strategy {
	return Strategy{
		Name: StrategyByName,
		Run: func(ctx context.Context, person models.PersonIdentifiers, types []models.ProposalType, pageSize int) []models.Proposal {
			if person.Name == "" {
				return nil
			}
			return queryPerType(ctx, lister, StrategyByName, person.Name, types, pageSize)
		},
	}
}

// ByIDStrategy queries /proposicoes?autor=<id>. Empty when the id is unknown.
func ByIDStrategy(lister ProposalLister) Strategy {
	return Strategy{
		Name: StrategyByID,
		Run: func(ctx context.Context, person models.PersonIdentifiers, types []models.ProposalType, pageSize int) []models.Proposal {
			if person.ID <= 0 {
				return nil
			}
			return queryPerType(ctx, lister, StrategyByID, strconv.Itoa(person.ID), types, pageSize)
		},
	}
}

// RecentVerifyStrategy scans the scanSize most recent proposals of each type
// and keeps those the verifier attributes to person, stopping at matchCap.
func RecentVerifyStrategy(lister ProposalLister, verifier AuthorshipVerifier, scanSize, matchCap int) Strategy {
	return Strategy{
		Name: StrategyRecentVerify,
		Run: func(ctx context.Context, person models.PersonIdentifiers, types []models.ProposalType, _ int) []models.Proposal {
			if person.IsZero() {
				return nil
			}
			found := newProposalSet()
			for _, t := range types {
				if ctx.Err() != nil || found.Len() >= matchCap {
					break
				}
				candidates, err := lister.ListProposals(ctx, ProposalQuery{Type: t, Items: scanSize})
				if err != nil {
					recordTypeError(ctx, StrategyRecentVerify, t, err)
					continue
				}
				for i := range candidates {
					if ctx.Err() != nil || found.Len() >= matchCap {
						break
					}
					if found.Has(candidates[i].Key()) {
						continue
					}
					if verifier.IsAuthor(ctx, candidates[i].ID, person) {
						found.Add(candidates[i])
					}
				}
			}
			return found.Items()
		},
	}
}

func queryPerType(ctx context.Context, lister ProposalLister, strategy, author string, types []models.ProposalType, pageSize int) []models.Proposal {
	found := newProposalSet()
	for _, t := range types {
		if ctx.Err() != nil {
			break
		}
		proposals, err := lister.ListProposals(ctx, ProposalQuery{Author: author, Type: t, Items: pageSize})
		if err != nil {
			recordTypeError(ctx, strategy, t, err)
			continue
		}
		for i := range proposals {
			found.Add(proposals[i])
		}
	}
	return found.Items()
}

func recordTypeError(ctx context.Context, strategy string, t models.ProposalType, err error) {
	metrics.ResolverTypeErrors.WithLabelValues(strategy, string(t)).Inc()
	logging.Ctx(ctx).Warn().Err(err).Str("strategy", strategy).Str("type", string(t)).Msg("Proposal query failed, skipping type")
}

// proposalSet keeps insertion order and drops duplicate keys.
type proposalSet struct {
	seen  map[models.ProposalKey]struct{}
	items []models.Proposal
}

func newProposalSet() *proposalSet {
	return &proposalSet{seen: make(map[models.ProposalKey]struct{})}
}

func (s *proposalSet) Add(p models.Proposal) bool {
	key := p.Key()
	if _, dup := s.seen[key]; dup {
		return false
	}
	s.seen[key] = struct{}{}
	s.items = append(s.items, p)
	return true
}

func (s *proposalSet) Has(key models.ProposalKey) bool {
	_, ok := s.seen[key]
	return ok
}

func (s *proposalSet) Len() int { return len(s.items) }

func (s *proposalSet) Items() []models.Proposal { return s.items }
