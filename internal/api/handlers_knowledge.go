// Gabinete - Legislative Proposal Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gabinete

package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/gabinete/internal/knowledge"
	"github.com/tomtom215/gabinete/internal/models"
)

// KnowledgeListResponse is the payload of GET /api/v1/knowledge.
type KnowledgeListResponse struct {
	Items  []models.KnowledgeItem `json:"items"`
	Limit  int                    `json:"limit"`
	Offset int                    `json:"offset"`
}

// KnowledgeList lists knowledge items ordered by kb_id.
func (h *Handler) KnowledgeList(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	limit, err := intParam(r, "limit", knowledge.DefaultListLimit)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, CodeValidation, err.Error(), nil)
		return
	}
	offset, err := intParam(r, "offset", 0)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, CodeValidation, err.Error(), nil)
		return
	}

	req := KnowledgeListRequest{
		Prefix: strings.TrimSpace(r.URL.Query().Get("prefix")),
		Source: strings.TrimSpace(r.URL.Query().Get("source")),
		Limit:  limit,
		Offset: offset,
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, r, http.StatusBadRequest, apiErr)
		return
	}

	items, err := h.knowledge.List(r.Context(), knowledge.ListOptions{
		Prefix: req.Prefix,
		Source: req.Source,
		Limit:  req.Limit,
		Offset: req.Offset,
	})
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, CodeStoreError, "failed to list knowledge items", err)
		return
	}
	if items == nil {
		items = []models.KnowledgeItem{}
	}

	respondSuccess(w, r, KnowledgeListResponse{Items: items, Limit: req.Limit, Offset: req.Offset}, start)
}

// KnowledgeGet returns one item by kb_id.
func (h *Handler) KnowledgeGet(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	req := KnowledgeIDRequest{KBID: chi.URLParam(r, "kbID")}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, r, http.StatusBadRequest, apiErr)
		return
	}

	item, err := h.knowledge.GetByID(r.Context(), req.KBID)
	if errors.Is(err, knowledge.ErrNotFound) {
		respondError(w, r, http.StatusNotFound, CodeNotFound, "knowledge item not found", nil)
		return
	}
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, CodeStoreError, "failed to load knowledge item", err)
		return
	}
	respondSuccess(w, r, item, start)
}
