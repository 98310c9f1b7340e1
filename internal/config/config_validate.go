// Gabinete - Legislative Proposal Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gabinete

package config

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"

	"github.com/tomtom215/gabinete/internal/logging"
)

// validProposalTypes are the siglaTipo values the engine understands.
var validProposalTypes = map[string]bool{"PL": true, "PEC": true, "PLP": true}

// Validate checks that required configuration is present and valid.
func (c *Config) Validate() error {
	if err := c.validateCamara(); err != nil {
		return err
	}
	if err := c.validateAuthor(); err != nil {
		return err
	}
	if err := c.validateSync(); err != nil {
		return err
	}
	if err := c.validateStore(); err != nil {
		return err
	}
	if err := c.validateEvents(); err != nil {
		return err
	}
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateSecurity(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateCamara() error {
	u, err := url.Parse(c.Camara.BaseURL)
	if err != nil {
		return fmt.Errorf("CAMARA_BASE_URL failed to parse URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("CAMARA_BASE_URL scheme must be http or https, got: %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("CAMARA_BASE_URL host is required")
	}
	if u.RawQuery != "" {
		return fmt.Errorf("CAMARA_BASE_URL should not contain query parameters")
	}
	if c.Camara.UserAgent == "" {
		return fmt.Errorf("CAMARA_USER_AGENT must not be empty")
	}
	if c.Camara.Timeout <= 0 {
		return fmt.Errorf("CAMARA_TIMEOUT must be positive, got %s", c.Camara.Timeout)
	}
	if c.Camara.RequestsPerSecond < 0 {
		return fmt.Errorf("CAMARA_REQUESTS_PER_SECOND must not be negative")
	}
	if c.Camara.MaxRetries < 0 {
		return fmt.Errorf("CAMARA_MAX_RETRIES must not be negative")
	}
	return nil
}

func (c *Config) validateAuthor() error {
	if !c.Sync.Enabled {
		return nil
	}
	if c.Author.ID <= 0 && c.Author.Name == "" {
		return fmt.Errorf("GABINETE_AUTHOR_ID or GABINETE_AUTHOR_NAME is required when sync is enabled")
	}
	if c.Author.ID < 0 {
		return fmt.Errorf("GABINETE_AUTHOR_ID must be positive, got %d", c.Author.ID)
	}
	return nil
}

func (c *Config) validateSync() error {
	if _, _, err := c.Sync.DailyClock(); err != nil {
		return fmt.Errorf("GABINETE_SYNC_DAILY_AT: %w", err)
	}
	if _, err := c.Sync.Location(); err != nil {
		return fmt.Errorf("GABINETE_SYNC_TIMEZONE: unknown timezone %q: %w", c.Sync.Timezone, err)
	}
	if len(c.Sync.ProposalTypes) == 0 {
		return fmt.Errorf("GABINETE_SYNC_TYPES must list at least one proposal type")
	}
	for _, t := range c.Sync.ProposalTypes {
		if !validProposalTypes[t] {
			return fmt.Errorf("GABINETE_SYNC_TYPES: unsupported proposal type %q (want PL, PEC or PLP)", t)
		}
	}
	if c.Sync.PageSize < 1 || c.Sync.PageSize > 100 {
		return fmt.Errorf("GABINETE_SYNC_PAGE_SIZE must be between 1 and 100, got %d", c.Sync.PageSize)
	}
	if c.Sync.FallbackScanSize < 1 || c.Sync.FallbackScanSize > 100 {
		return fmt.Errorf("GABINETE_SYNC_FALLBACK_SCAN_SIZE must be between 1 and 100, got %d", c.Sync.FallbackScanSize)
	}
	if c.Sync.FallbackMatchCap < 1 {
		return fmt.Errorf("GABINETE_SYNC_FALLBACK_MATCH_CAP must be at least 1, got %d", c.Sync.FallbackMatchCap)
	}
	if c.Sync.VerifyDelay <= 0 {
		return fmt.Errorf("GABINETE_SYNC_VERIFY_DELAY must be positive, got %s", c.Sync.VerifyDelay)
	}
	if c.Sync.HistorySize < 1 {
		return fmt.Errorf("GABINETE_SYNC_HISTORY_SIZE must be at least 1, got %d", c.Sync.HistorySize)
	}
	if c.Sync.StatusHistory < 1 || c.Sync.StatusHistory > c.Sync.HistorySize {
		return fmt.Errorf("GABINETE_SYNC_STATUS_HISTORY must be between 1 and the history size (%d), got %d",
			c.Sync.HistorySize, c.Sync.StatusHistory)
	}
	return nil
}

func (c *Config) validateStore() error {
	switch c.Store.Driver {
	case StoreDriverMemory:
		return nil
	case StoreDriverBadger, StoreDriverDuckDB:
		if c.Store.Path == "" {
			return fmt.Errorf("GABINETE_STORE_PATH is required for the %s driver", c.Store.Driver)
		}
		return nil
	default:
		return fmt.Errorf("GABINETE_STORE_DRIVER must be memory, badger or duckdb, got %q", c.Store.Driver)
	}
}

func (c *Config) validateEvents() error {
	if !c.Events.Enabled {
		return nil
	}
	if c.Events.EmbeddedServer {
		if c.Events.Port < 1 || c.Events.Port > 65535 {
			return fmt.Errorf("NATS_PORT must be between 1 and 65535, got %d", c.Events.Port)
		}
		if c.Events.JetStream && c.Events.StoreDir == "" {
			return fmt.Errorf("NATS_STORE_DIR is required for the embedded JetStream server")
		}
		return nil
	}
	if c.Events.URL == "" {
		return nil
	}
	u, err := url.Parse(c.Events.URL)
	if err != nil {
		return fmt.Errorf("NATS_URL failed to parse URL: %w", err)
	}
	switch u.Scheme {
	case "nats", "tls", "ws", "wss":
	default:
		return fmt.Errorf("NATS_URL scheme must be nats, tls, ws, or wss, got: %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("NATS_URL host is required")
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive, got %s", c.Server.Timeout)
	}
	return nil
}

func (c *Config) validateSecurity() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < 1 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be at least 1, got %d", c.Security.RateLimitReqs)
	}
	if c.Security.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be positive, got %s", c.Security.RateLimitWindow)
	}
	return nil
}

func (c *Config) validateLogging() error {
	if !logging.ValidLevel(c.Logging.Level) {
		return fmt.Errorf("GABINETE_LOG_LEVEL: unknown level %q", c.Logging.Level)
	}
	if c.Logging.Format != "json" && c.Logging.Format != "console" {
		return fmt.Errorf("GABINETE_LOG_FORMAT must be json or console, got %q", c.Logging.Format)
	}
	return nil
}

// DailyClock parses DailyAt as a 24-hour HH:MM wall-clock time.
func (c *SyncConfig) DailyClock() (hour, minute int, err error) {
	t, err := time.Parse("15:04", c.DailyAt)
	if err != nil {
		return 0, 0, fmt.Errorf("expected HH:MM, got %q", c.DailyAt)
	}
	return t.Hour(), t.Minute(), nil
}

// LoggingSettings converts the logging section into logging.Config.
func (c *LoggingConfig) LoggingSettings() logging.Config {
	cfg := logging.DefaultConfig()
	cfg.Level = c.Level
	cfg.Format = c.Format
	cfg.Caller = c.Caller
	cfg.File = c.File
	if c.MaxSizeMB > 0 {
		cfg.MaxSizeMB = c.MaxSizeMB
	}
	if c.MaxBackups > 0 {
		cfg.MaxBackups = c.MaxBackups
	}
	if c.MaxAgeDays > 0 {
		cfg.MaxAgeDays = c.MaxAgeDays
	}
	return cfg
}

func joinHostPort(host string, port int) string {
	return net.JoinHostPort(host, strconv.Itoa(port))
}
