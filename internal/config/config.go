// Gabinete - Legislative Proposal Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gabinete

package config

import (
	"time"
)

// Store drivers.
const (
	StoreDriverMemory = "memory"
	StoreDriverBadger = "badger"
	StoreDriverDuckDB = "duckdb"
)

// Config holds all application configuration.
type Config struct {
	Camara   CamaraConfig   `koanf:"camara"`
	Author   AuthorConfig   `koanf:"author"`
	Sync     SyncConfig     `koanf:"sync"`
	Store    StoreConfig    `koanf:"store"`
	Events   EventsConfig   `koanf:"events"`
	Server   ServerConfig   `koanf:"server"`
	Security SecurityConfig `koanf:"security"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// CamaraConfig configures access to the Câmara dos Deputados open-data API.
type CamaraConfig struct {
	BaseURL   string        `koanf:"base_url"`
	UserAgent string        `koanf:"user_agent"`
	Timeout   time.Duration `koanf:"timeout"`

	// RequestsPerSecond is the client-side request budget shared by all calls.
	RequestsPerSecond float64 `koanf:"requests_per_second"`
	Burst             int     `koanf:"burst"`

	// MaxRetries bounds retries of HTTP 429 responses.
	MaxRetries     int           `koanf:"max_retries"`
	RetryBaseDelay time.Duration `koanf:"retry_base_delay"`

	CircuitBreaker bool `koanf:"circuit_breaker"`
}

// AuthorConfig identifies the legislator whose proposals are tracked.
// Both fields are used because the API author filter is unreliable for either alone.
type AuthorConfig struct {
	ID   int    `koanf:"id"`
	Name string `koanf:"name"`
}

// SyncConfig controls the synchronization engine.
type SyncConfig struct {
	Enabled bool `koanf:"enabled"`

	// DailyAt is the wall-clock time (HH:MM) of the scheduled run.
	DailyAt  string `koanf:"daily_at"`
	Timezone string `koanf:"timezone"`

	RunOnStartup bool `koanf:"run_on_startup"`

	ProposalTypes []string `koanf:"proposal_types"`
	PageSize      int      `koanf:"page_size"`

	// FallbackScanSize is how many recent proposals per type the
	// recent-and-verify strategy inspects; FallbackMatchCap stops it early.
	FallbackScanSize int `koanf:"fallback_scan_size"`
	FallbackMatchCap int `koanf:"fallback_match_cap"`

	// VerifyDelay is the pause enforced after each authorship verification.
	VerifyDelay time.Duration `koanf:"verify_delay"`

	HistorySize   int `koanf:"history_size"`
	StatusHistory int `koanf:"status_history"`
}

// StoreConfig selects the knowledge store backend.
type StoreConfig struct {
	Driver string `koanf:"driver"`
	Path   string `koanf:"path"`
}

// EventsConfig configures publication of sync events for the notifier.
type EventsConfig struct {
	Enabled bool `koanf:"enabled"`

	// URL is the NATS server URL. Empty with EmbeddedServer=false selects
	// the in-process channel transport.
	URL            string `koanf:"url"`
	EmbeddedServer bool   `koanf:"embedded_server"`
	StoreDir       string `koanf:"store_dir"`
	Host           string `koanf:"host"`
	Port           int    `koanf:"port"`
	JetStream      bool   `koanf:"jetstream"`
	TopicPrefix    string `koanf:"topic_prefix"`
}

// ServerConfig configures the admin HTTP listener.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// SecurityConfig holds CORS and rate limiting for the admin API.
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// LoggingConfig mirrors logging.Config.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`

	// File enables an additional rotated log file.
	File       string `koanf:"file"`
	MaxSizeMB  int    `koanf:"max_size_mb"`
	MaxBackups int    `koanf:"max_backups"`
	MaxAgeDays int    `koanf:"max_age_days"`
}

// Location resolves the configured scheduler timezone.
// An empty timezone means the process local time.
func (c *SyncConfig) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}

// ListenAddr returns host:port for the admin HTTP server.
func (c *ServerConfig) ListenAddr() string {
	return joinHostPort(c.Host, c.Port)
}
