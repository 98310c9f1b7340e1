// Gabinete - Legislative Proposal Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gabinete

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths searched for a config file, in priority order.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/gabinete/config.yaml",
	"/etc/gabinete/config.yml",
}

// ConfigPathEnvVar overrides the config file location.
const ConfigPathEnvVar = "CONFIG_PATH"

// DefaultBaseURL is the public Câmara dos Deputados API root.
const DefaultBaseURL = "https://dadosabertos.camara.leg.br/api/v2"

// Default returns the built-in configuration before file and environment
// overrides. The result is not validated: author identifiers are unset.
func Default() *Config {
	return defaultConfig()
}

func defaultConfig() *Config {
	return &Config{
		Camara: CamaraConfig{
			BaseURL:           DefaultBaseURL,
			UserAgent:         "Gabinete/1.0 (+https://github.com/tomtom215/gabinete; legislative sync)",
			Timeout:           30 * time.Second,
			RequestsPerSecond: 5,
			Burst:             1,
			MaxRetries:        5,
			RetryBaseDelay:    time.Second,
			CircuitBreaker:    true,
		},
		Sync: SyncConfig{
			Enabled:          true,
			DailyAt:          "06:00",
			Timezone:         "America/Sao_Paulo",
			RunOnStartup:     false,
			ProposalTypes:    []string{"PL", "PEC", "PLP"},
			PageSize:         100,
			FallbackScanSize: 30,
			FallbackMatchCap: 10,
			VerifyDelay:      100 * time.Millisecond,
			HistorySize:      30,
			StatusHistory:    10,
		},
		Store: StoreConfig{
			Driver: StoreDriverBadger,
			Path:   "/data/knowledge",
		},
		Events: EventsConfig{
			Enabled:        false,
			URL:            "",
			EmbeddedServer: false,
			StoreDir:       "/data/nats",
			Host:           "127.0.0.1",
			Port:           4222,
			JetStream:      true,
			TopicPrefix:    "gabinete",
		},
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8780,
			Timeout:         2 * time.Minute,
			ShutdownTimeout: 15 * time.Second,
		},
		Security: SecurityConfig{
			CORSOrigins:     []string{"*"},
			RateLimitReqs:   60,
			RateLimitWindow: time.Minute,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "json",
			MaxSizeMB:  50,
			MaxBackups: 5,
			MaxAgeDays: 30,
		},
	}
}

// Load loads configuration with the layered sources described in the package
// documentation and validates the result.
func Load() (*Config, error) {
	return LoadFile(findConfigFile())
}

// LoadFile is Load with an explicit config file path. An empty path skips the file layer.
func LoadFile(configPath string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// sliceConfigPaths are parsed from comma-separated strings when set via env.
var sliceConfigPaths = []string{
	"sync.proposal_types",
	"security.cors_origins",
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) == 0 {
			continue
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps lower-cased environment variable names to koanf paths.
// Unmapped variables are ignored.
var envMappings = map[string]string{
	// Câmara API
	"camara_base_url":            "camara.base_url",
	"camara_user_agent":          "camara.user_agent",
	"camara_timeout":             "camara.timeout",
	"camara_requests_per_second": "camara.requests_per_second",
	"camara_burst":               "camara.burst",
	"camara_max_retries":         "camara.max_retries",
	"camara_retry_base_delay":    "camara.retry_base_delay",
	"camara_circuit_breaker":     "camara.circuit_breaker",

	// Tracked legislator
	"gabinete_author_id":   "author.id",
	"gabinete_author_name": "author.name",

	// Sync engine
	"gabinete_sync_enabled":            "sync.enabled",
	"gabinete_sync_daily_at":           "sync.daily_at",
	"gabinete_sync_timezone":           "sync.timezone",
	"gabinete_sync_run_on_startup":     "sync.run_on_startup",
	"gabinete_sync_types":              "sync.proposal_types",
	"gabinete_sync_page_size":          "sync.page_size",
	"gabinete_sync_fallback_scan_size": "sync.fallback_scan_size",
	"gabinete_sync_fallback_match_cap": "sync.fallback_match_cap",
	"gabinete_sync_verify_delay":       "sync.verify_delay",
	"gabinete_sync_history_size":       "sync.history_size",
	"gabinete_sync_status_history":     "sync.status_history",

	// Knowledge store
	"gabinete_store_driver": "store.driver",
	"gabinete_store_path":   "store.path",

	// Events
	"events_enabled":      "events.enabled",
	"nats_url":            "events.url",
	"nats_embedded":       "events.embedded_server",
	"nats_store_dir":      "events.store_dir",
	"nats_host":           "events.host",
	"nats_port":           "events.port",
	"nats_jetstream":      "events.jetstream",
	"events_topic_prefix": "events.topic_prefix",

	// Server
	"http_host":             "server.host",
	"http_port":             "server.port",
	"http_timeout":          "server.timeout",
	"http_shutdown_timeout": "server.shutdown_timeout",

	// Security
	"cors_origins":        "security.cors_origins",
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",

	// Logging
	"gabinete_log_level":        "logging.level",
	"gabinete_log_format":       "logging.format",
	"gabinete_log_caller":       "logging.caller",
	"gabinete_log_file":         "logging.file",
	"gabinete_log_max_size_mb":  "logging.max_size_mb",
	"gabinete_log_max_backups":  "logging.max_backups",
	"gabinete_log_max_age_days": "logging.max_age_days",
}

// envTransformFunc transforms environment variable names to koanf config paths.
//
// Examples:
//   - GABINETE_AUTHOR_ID -> author.id
//   - GABINETE_SYNC_TYPES -> sync.proposal_types
//   - NATS_URL -> events.url
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}

// normalize canonicalizes values that are compared case-sensitively later.
func (c *Config) normalize() {
	for i, t := range c.Sync.ProposalTypes {
		c.Sync.ProposalTypes[i] = strings.ToUpper(strings.TrimSpace(t))
	}
	c.Store.Driver = strings.ToLower(strings.TrimSpace(c.Store.Driver))
	c.Author.Name = strings.TrimSpace(c.Author.Name)
	c.Camara.BaseURL = strings.TrimRight(c.Camara.BaseURL, "/")
}
