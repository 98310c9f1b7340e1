// Gabinete - Legislative Proposal Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gabinete

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/tomtom215/gabinete/internal/logging"
	"github.com/tomtom215/gabinete/internal/models"
	"github.com/tomtom215/gabinete/internal/sync"
)

// SyncStatus returns the orchestrator status with the recent history.
func (h *Handler) SyncStatus(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	respondSuccess(w, r, h.sync.Status(), start)
}

// SyncStats returns aggregates over the retained history.
func (h *Handler) SyncStats(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	respondSuccess(w, r, h.sync.Stats(), start)
}

// SyncTrigger runs one manual synchronization and waits for it.
func (h *Handler) SyncTrigger(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	req, err := decodeTriggerRequest(r)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, CodeValidation, err.Error(), nil)
		return
	}

	logging.Ctx(r.Context()).Info().Bool("force", req.Force).Msg("Manual sync requested")

	result, err := h.sync.TriggerManualSync(r.Context(), req.Force)
	if errors.Is(err, sync.ErrSyncInProgress) {
		respondJSON(w, r, http.StatusConflict, errorEnvelope(CodeSyncInProgress, sync.ErrSyncInProgress.Error(), result))
		return
	}
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, CodeInternal, "sync could not be started", err)
		return
	}

	// A failed run is still a completed request; the outcome is in the body.
	respondSuccess(w, r, result, start)
}

func errorEnvelope(code, message string, data interface{}) *models.APIResponse {
	return &models.APIResponse{
		Status: "error",
		Data:   data,
		Error:  &models.APIError{Code: code, Message: message},
	}
}
