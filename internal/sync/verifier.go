// Gabinete - Legislative Proposal Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gabinete

package sync

import (
	"context"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/tomtom215/gabinete/internal/logging"
	"github.com/tomtom215/gabinete/internal/metrics"
	"github.com/tomtom215/gabinete/internal/models"
)

// DefaultVerifyDelay separates successive authorship checks.
const DefaultVerifyDelay = 100 * time.Millisecond

// AuthorLister fetches the author list of one proposal.
type AuthorLister interface {
	ListProposalAuthors(ctx context.Context, proposalID int) ([]models.Author, error)
}

// Verifier checks candidate proposals one at a time, pausing after every
// check so K checks take at least K times the delay.
type Verifier struct {
	authors AuthorLister
	delay   time.Duration
}

// NewVerifier creates a verifier pausing delay after each check. The pause
// cannot be disabled: a non-positive delay falls back to DefaultVerifyDelay.
func NewVerifier(authors AuthorLister, delay time.Duration) *Verifier {
	if delay <= 0 {
		delay = DefaultVerifyDelay
	}
	return &Verifier{authors: authors, delay: delay}
}

// IsAuthor reports whether person appears in the author list of the proposal.
// Authors match by numeric id or by a case- and accent-insensitive substring
// of the name. Fetch errors count as "not an author".
func (v *Verifier) IsAuthor(ctx context.Context, proposalID int, person models.PersonIdentifiers) bool {
	defer v.pause(ctx)

	authors, err := v.authors.ListProposalAuthors(ctx, proposalID)
	if err != nil {
		metrics.VerifierChecks.WithLabelValues("error").Inc()
		logging.Ctx(ctx).Warn().Err(err).Int("proposal_id", proposalID).Msg("Authorship verification failed")
		return false
	}

	for i := range authors {
		if matchesPerson(&authors[i], person) {
			metrics.VerifierChecks.WithLabelValues("match").Inc()
			return true
		}
	}
	metrics.VerifierChecks.WithLabelValues("no_match").Inc()
	return false
}

func (v *Verifier) pause(ctx context.Context) {
	timer := time.NewTimer(v.delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

func matchesPerson(a *models.Author, person models.PersonIdentifiers) bool {
	if person.ID > 0 && a.ID == person.ID {
		return true
	}
	want := foldName(person.Name)
	if want == "" {
		return false
	}
	return strings.Contains(foldName(a.Name), want)
}

// foldName lowercases s, strips diacritics and collapses whitespace, so
// "JOÃO  da Silva" and "joao da silva" compare equal.
func foldName(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.Join(strings.Fields(strings.ToLower(folded)), " ")
}
