// Gabinete - Legislative Proposal Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gabinete

// Package config loads and validates Gabinete configuration.
//
// Configuration is layered with Koanf v2 in increasing priority:
//
//  1. Built-in defaults (defaultConfig)
//  2. An optional YAML file: $CONFIG_PATH, ./config.yaml, ./config.yml or
//     /etc/gabinete/config.yaml
//  3. Environment variables, mapped explicitly by envTransformFunc so that
//     unrelated variables never leak into the configuration
//
// # Example YAML
//
//	author:
//	  id: 204554
//	  name: "Maria da Silva"
//	sync:
//	  daily_at: "06:00"
//	  timezone: "America/Sao_Paulo"
//	  proposal_types: [PL, PEC, PLP]
//	store:
//	  driver: badger
//	  path: /data/knowledge
//
// # Environment Variables
//
//	GABINETE_AUTHOR_ID, GABINETE_AUTHOR_NAME   legislator to track
//	GABINETE_SYNC_DAILY_AT                     wall-clock time, HH:MM
//	GABINETE_SYNC_TYPES                        comma separated, e.g. PL,PEC
//	GABINETE_SYNC_VERIFY_DELAY                 pacing between verifications, e.g. 100ms
//	GABINETE_STORE_DRIVER                      memory, badger or duckdb
//	CAMARA_BASE_URL                            open-data API root
//	NATS_URL, NATS_EMBEDDED                    event transport
//	HTTP_PORT, HTTP_HOST                       admin API listener
//
// Slice values given through the environment are comma separated.
package config
