// Gabinete - Legislative Proposal Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gabinete

package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/goccy/go-json"

	"github.com/tomtom215/gabinete/internal/models"
	"github.com/tomtom215/gabinete/internal/validation"
)

const maxRequestBodyBytes = 4 << 10

// TriggerRequest is the body of POST /api/v1/sync/trigger. An empty body
// means force=false.
type TriggerRequest struct {
	Force bool `json:"force"`
}

// KnowledgeListRequest holds the query parameters of GET /api/v1/knowledge.
type KnowledgeListRequest struct {
	Prefix string `validate:"omitempty,max=64"`
	Source string `validate:"omitempty,max=64"`
	Limit  int    `validate:"min=1,max=500"`
	Offset int    `validate:"min=0"`
}

// KnowledgeIDRequest validates the path parameter of GET /api/v1/knowledge/{kbID}.
type KnowledgeIDRequest struct {
	KBID string `validate:"required,kb_id"`
}

func decodeTriggerRequest(r *http.Request) (TriggerRequest, error) {
	var req TriggerRequest
	if r.Body == nil {
		return req, nil
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBodyBytes+1))
	if err != nil {
		return req, fmt.Errorf("read body: %w", err)
	}
	if len(body) > maxRequestBodyBytes {
		return req, errors.New("request body too large")
	}
	if len(body) == 0 {
		return req, nil
	}
	if err := json.Unmarshal(body, &req); err != nil {
		return req, fmt.Errorf("invalid JSON body: %w", err)
	}
	return req, nil
}

// intParam parses ?key=, returning def when absent and an error when malformed.
func intParam(r *http.Request, key string, def int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", key)
	}
	return v, nil
}

// validateRequest runs the validator and maps failures to a VALIDATION_ERROR.
func validateRequest(v interface{}) *models.APIError {
	err := validation.ValidateStruct(v)
	if err == nil {
		return nil
	}
	var reqErr *validation.RequestValidationError
	if !errors.As(err, &reqErr) {
		return &models.APIError{Code: CodeValidation, Message: err.Error()}
	}
	apiErr := reqErr.ToAPIError()
	return &models.APIError{
		Code:    apiErr.Code,
		Message: apiErr.Message,
		Details: apiErr.Details,
	}
}
