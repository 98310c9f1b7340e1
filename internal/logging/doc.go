// Gabinete - Legislative Proposal Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gabinete

// Package logging provides the zerolog-based structured logger used across Gabinete.
//
// A single process-wide logger is configured once from main() with Init and
// accessed through the level helpers (Info, Warn, Error, ...) or through Ctx,
// which attaches correlation, request and sync run identifiers carried in a
// context.Context.
//
// # Quick Start
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//
//	logging.Info().Str("type", "PL").Int("count", 3).Msg("Proposals resolved")
//	logging.Ctx(ctx).Warn().Err(err).Msg("Author lookup failed")
//
// # Configuration
//
// Environment variables (mapped by internal/config):
//
//	GABINETE_LOG_LEVEL   trace, debug, info, warn, error (default: info)
//	GABINETE_LOG_FORMAT  json, console (default: json)
//	GABINETE_LOG_CALLER  include caller file:line (default: false)
//	GABINETE_LOG_FILE    optional path; rotated with lumberjack
//
// When File is set the logger writes to stderr and to the rotated file at
// the same time.
//
// # Component Loggers
//
//	logger := logging.WithComponent("resolver")
//	logger.Debug().Str("strategy", "by-name").Msg("Strategy yielded nothing")
//
// # slog Adapter
//
// Libraries that expect *slog.Logger (sutureslog) receive one backed by
// zerolog through NewSlogLogger.
//
// # Testing
//
//	var buf bytes.Buffer
//	logging.SetLogger(logging.NewTestLogger(&buf))
//
// All exported functions are safe for concurrent use.
package logging
