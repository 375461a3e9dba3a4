// Copyright (c) 2026 VibeLive
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"

	"github.com/vibelive/adminpanel/internal/model"
)

// knownWeakSecrets contains default/example secrets that must be rejected in production.
var knownWeakSecrets = []string{
	"change-me-to-32-byte-secret-key!",
	"REPLACE_WITH_YOUR_OWN_SECRET_KEY!",
}

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBPath        string `env:"PANEL_DB_PATH" envDefault:"./data/panel.db"`
	SessionSecret string `env:"PANEL_SESSION_SECRET,required"`
	ServerHost    string `env:"PANEL_SERVER_HOST" envDefault:"localhost"`
	ServerPort    int    `env:"PANEL_SERVER_PORT" envDefault:"8080"`
	Env           string `env:"PANEL_ENV" envDefault:"development"`

	LogLevel   string `env:"PANEL_LOG_LEVEL" envDefault:"info"`
	UploadsDir string `env:"PANEL_UPLOADS_DIR" envDefault:"./uploads"`

	// DefaultRole is assigned to self-registered accounts. The legacy
	// backend granted admin unconditionally here; that is now an explicit
	// configuration decision and defaults to the least privileged role.
	DefaultRole string `env:"PANEL_DEFAULT_ROLE" envDefault:"viewer"`

	// Cache configuration
	RedisURL     string `env:"PANEL_REDIS_URL"`                         // Optional Redis URL for distributed caching
	CachePrefix  string `env:"PANEL_CACHE_PREFIX" envDefault:"panel:"`  // Redis key prefix
	CacheTTL     int    `env:"PANEL_CACHE_TTL" envDefault:"300"`        // Default cache TTL in seconds
	CacheMaxSize int    `env:"PANEL_CACHE_MAX_SIZE" envDefault:"10000"` // Max memory cache entries

	// GeoIP configuration
	GeoIPDBPath string `env:"PANEL_GEOIP_DB_PATH"` // Path to GeoLite2-Country.mmdb file

	// Event log retention, in days. Events older than this are pruned daily.
	EventRetentionDays int `env:"PANEL_EVENT_RETENTION_DAYS" envDefault:"90"`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UseRedisCache returns true if Redis caching is configured.
func (c Config) UseRedisCache() bool {
	return c.RedisURL != ""
}

// GeoIPEnabled returns true if GeoIP database is configured.
func (c Config) GeoIPEnabled() bool {
	return c.GeoIPDBPath != ""
}

// MinSessionSecretLength is the minimum required length for the session secret.
const MinSessionSecretLength = 32

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	// Validate session secret length
	if len(cfg.SessionSecret) < MinSessionSecretLength {
		return nil, fmt.Errorf("PANEL_SESSION_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinSessionSecretLength, len(cfg.SessionSecret))
	}

	// Reject known weak/default secrets
	for _, weak := range knownWeakSecrets {
		if cfg.SessionSecret == weak {
			return nil, fmt.Errorf("PANEL_SESSION_SECRET is a known default value and must not be used; " +
				"generate a secure secret with: openssl rand -base64 32")
		}
	}

	// Warn about low-entropy secrets
	if !hasMinimumEntropy(cfg.SessionSecret) {
		slog.Warn("PANEL_SESSION_SECRET has low character diversity; " +
			"consider generating a random secret with: openssl rand -base64 32")
	}

	switch cfg.DefaultRole {
	case model.RoleAdmin, model.RoleEditor, model.RoleViewer:
	default:
		return nil, fmt.Errorf("PANEL_DEFAULT_ROLE must be one of admin, editor, viewer; got %q", cfg.DefaultRole)
	}

	return cfg, nil
}

// hasMinimumEntropy checks that a secret contains at least 3 character classes
// (lowercase, uppercase, digits, special characters).
func hasMinimumEntropy(s string) bool {
	charTypes := 0
	if strings.ContainsAny(s, "abcdefghijklmnopqrstuvwxyz") {
		charTypes++
	}
	if strings.ContainsAny(s, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") {
		charTypes++
	}
	if strings.ContainsAny(s, "0123456789") {
		charTypes++
	}
	if strings.ContainsAny(s, "!@#$%^&*()-_=+[]{}|;:,.<>?/~`'\"\\") {
		charTypes++
	}
	return charTypes >= 3
}
