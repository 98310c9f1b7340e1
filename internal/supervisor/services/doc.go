// Gabinete - Legislative Proposal Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gabinete

// Package services adapts gabinete components to suture.Service.
//
// Each adapter depends on a narrow interface, not the concrete component,
// so it can be tested with a mock.
package services
