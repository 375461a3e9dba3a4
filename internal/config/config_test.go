// Copyright (c) 2026 VibeLive
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"os"
	"testing"
)

func setEnv(t *testing.T, key, value string) {
	t.Helper()
	if err := os.Setenv(key, value); err != nil {
		t.Fatalf("failed to set %s: %v", key, err)
	}
}

func TestLoad_Defaults(t *testing.T) {
	os.Clearenv()
	setEnv(t, "PANEL_SESSION_SECRET", "test-secret-key-32-bytes-long!!!")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.DBPath != "./data/panel.db" {
		t.Errorf("DBPath = %q, want %q", cfg.DBPath, "./data/panel.db")
	}
	if cfg.ServerHost != "localhost" {
		t.Errorf("ServerHost = %q, want %q", cfg.ServerHost, "localhost")
	}
	if cfg.ServerPort != 8080 {
		t.Errorf("ServerPort = %d, want %d", cfg.ServerPort, 8080)
	}
	if cfg.Env != "development" {
		t.Errorf("Env = %q, want %q", cfg.Env, "development")
	}
	if cfg.DefaultRole != "viewer" {
		t.Errorf("DefaultRole = %q, want %q", cfg.DefaultRole, "viewer")
	}
	if cfg.EventRetentionDays != 90 {
		t.Errorf("EventRetentionDays = %d, want 90", cfg.EventRetentionDays)
	}
}

func TestLoad_MissingSecret(t *testing.T) {
	os.Clearenv()

	if _, err := Load(); err == nil {
		t.Fatal("Load() should fail without PANEL_SESSION_SECRET")
	}
}

func TestLoad_ShortSecret(t *testing.T) {
	os.Clearenv()
	setEnv(t, "PANEL_SESSION_SECRET", "short")

	if _, err := Load(); err == nil {
		t.Fatal("Load() should reject a short session secret")
	}
}

func TestLoad_WeakSecret(t *testing.T) {
	os.Clearenv()
	setEnv(t, "PANEL_SESSION_SECRET", "change-me-to-32-byte-secret-key!")

	if _, err := Load(); err == nil {
		t.Fatal("Load() should reject a known default secret")
	}
}

func TestLoad_InvalidDefaultRole(t *testing.T) {
	os.Clearenv()
	setEnv(t, "PANEL_SESSION_SECRET", "test-secret-key-32-bytes-long!!!")
	setEnv(t, "PANEL_DEFAULT_ROLE", "superuser")

	if _, err := Load(); err == nil {
		t.Fatal("Load() should reject an unrecognized default role")
	}
}

func TestLoad_CustomValues(t *testing.T) {
	os.Clearenv()
	setEnv(t, "PANEL_SESSION_SECRET", "custom-secret-key-32-bytes-long!")
	setEnv(t, "PANEL_DB_PATH", "/custom/path.db")
	setEnv(t, "PANEL_SERVER_PORT", "3000")
	setEnv(t, "PANEL_ENV", "production")
	setEnv(t, "PANEL_DEFAULT_ROLE", "editor")
	setEnv(t, "PANEL_REDIS_URL", "redis://localhost:6379/0")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.DBPath != "/custom/path.db" {
		t.Errorf("DBPath = %q, want %q", cfg.DBPath, "/custom/path.db")
	}
	if cfg.ServerPort != 3000 {
		t.Errorf("ServerPort = %d, want %d", cfg.ServerPort, 3000)
	}
	if cfg.IsDevelopment() {
		t.Error("IsDevelopment() should be false for production")
	}
	if cfg.DefaultRole != "editor" {
		t.Errorf("DefaultRole = %q, want %q", cfg.DefaultRole, "editor")
	}
	if !cfg.UseRedisCache() {
		t.Error("UseRedisCache() should be true when PANEL_REDIS_URL is set")
	}
	if cfg.ServerAddr() != "localhost:3000" {
		t.Errorf("ServerAddr() = %q, want %q", cfg.ServerAddr(), "localhost:3000")
	}
}
