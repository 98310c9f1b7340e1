// Gabinete - Legislative Proposal Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gabinete

package sync

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/tomtom215/gabinete/internal/knowledge"
	"github.com/tomtom215/gabinete/internal/logging"
	"github.com/tomtom215/gabinete/internal/models"
)

// titleEmentaRunes bounds the ementa excerpt placed in a title.
const titleEmentaRunes = 100

// UpsertOptions controls the merge.
type UpsertOptions struct {
	// Force rewrites an existing item instead of skipping it.
	Force bool
}

// UpsertResult reports what happened to one proposal. Both false means skipped.
type UpsertResult struct {
	Inserted bool
	Updated  bool
}

// UpsertGate merges proposals into the knowledge store under their
// deterministic kb_id. The store has no compare-and-swap, so concurrent use
// by two runs is excluded by the Manager's single-flight guard.
type UpsertGate struct {
	store knowledge.Store
	now   func() time.Time
}

// NewUpsertGate creates a gate writing to store.
func NewUpsertGate(store knowledge.Store) *UpsertGate {
	return &UpsertGate{store: store, now: time.Now}
}

// Upsert inserts p when absent, skips it when present, and rewrites it when
// present and opts.Force is set.
func (g *UpsertGate) Upsert(ctx context.Context, p models.Proposal, opts UpsertOptions) (UpsertResult, error) {
	kbID := p.Key().KnowledgeID()

	_, err := g.store.GetByID(ctx, kbID)
	switch {
	case errors.Is(err, knowledge.ErrNotFound):
		item := BuildKnowledgeItem(&p)
		item.CreatedAt = g.now()
		if _, err := g.store.Add(ctx, item); err != nil {
			if errors.Is(err, knowledge.ErrAlreadyExists) {
				logging.Ctx(ctx).Warn().Str("kb_id", kbID).Msg("Knowledge item appeared between lookup and insert, skipping")
				return UpsertResult{}, nil
			}
			return UpsertResult{}, fmt.Errorf("add %s: %w", kbID, err)
		}
		return UpsertResult{Inserted: true}, nil
	case err != nil:
		return UpsertResult{}, fmt.Errorf("lookup %s: %w", kbID, err)
	}

	if !opts.Force {
		return UpsertResult{}, nil
	}

	item := BuildKnowledgeItem(&p)
	item.UpdatedAt = g.now()
	if _, err := g.store.Update(ctx, kbID, item); err != nil {
		return UpsertResult{}, fmt.Errorf("update %s: %w", kbID, err)
	}
	return UpsertResult{Updated: true}, nil
}

// BuildKnowledgeItem renders the knowledge item for a proposal. Timestamps are left zero.
func BuildKnowledgeItem(p *models.Proposal) *models.KnowledgeItem {
	key := p.Key()
	label := key.String()

	title := label
	if excerpt := truncateRunes(p.Ementa, titleEmentaRunes); excerpt != "" {
		title += " - " + excerpt
	}
	if p.URL != "" {
		title += " (" + p.URL + ")"
	}

	var content strings.Builder
	content.WriteString(label)
	if p.PresentationDate != nil {
		content.WriteString(", apresentado em ")
		content.WriteString(p.PresentationDate.Format("02/01/2006"))
	}
	content.WriteString(".")
	if p.Ementa != "" {
		content.WriteString(" Ementa: ")
		content.WriteString(p.Ementa)
	}
	if p.URL != "" {
		content.WriteString(" Acompanhe a tramitação em ")
		content.WriteString(p.URL)
	}

	response := fmt.Sprintf("O %s é uma proposição de autoria do gabinete.", label)
	if p.Ementa != "" {
		response = fmt.Sprintf("O %s é uma proposição de autoria do gabinete que trata de: %s", label, p.Ementa)
	}
	if p.URL != "" {
		response += " Mais detalhes em " + p.URL
	}

	return &models.KnowledgeItem{
		KBID:     key.KnowledgeID(),
		Title:    title,
		Content:  content.String(),
		Response: response,
		Source:   models.KnowledgeSourceCamara,
		Tags:     []string{"proposicao", string(p.Type), strconv.Itoa(p.Year)},
	}
}

// truncateRunes shortens s to at most n runes, marking the cut with an ellipsis.
func truncateRunes(s string, n int) string {
	s = strings.TrimSpace(s)
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return strings.TrimSpace(string(r[:n])) + "…"
}
