// Gabinete - Legislative Proposal Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gabinete

// Package validation wraps go-playground/validator v10 behind a process-wide
// singleton.
//
// It is used in two places: proposal records decoded from the open-data API
// are validated before they enter the merge pipeline, and admin API request
// bodies are validated before they reach the orchestrator.
//
// Custom tags:
//
//	proposal_type  value is PL, PEC or PLP
//	kb_id          value has the form PROJ-<type>-<number>-<year>
//
// Failures are returned as *RequestValidationError, which converts to the
// VALIDATION_ERROR shape of the admin API with ToAPIError.
package validation
