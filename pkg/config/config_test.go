package config

import (
	"strings"
	"testing"
	"time"
)

func setMinimalEnv(t *testing.T) {
	t.Helper()
	t.Setenv("SHOPDESK_API_BASE_URL", "https://api.example.com")
}

func TestLoadDefaults(t *testing.T) {
	setMinimalEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.App.IsDev() {
		t.Fatalf("default env = %q, want development", cfg.App.Env)
	}
	if cfg.API.Timeout != 30*time.Second {
		t.Fatalf("api timeout = %s, want 30s", cfg.API.Timeout)
	}
	if cfg.TokenStore.Backend != TokenStoreFile {
		t.Fatalf("token store = %q, want file", cfg.TokenStore.Backend)
	}
	if cfg.Polling.PendingInterval != 30*time.Second {
		t.Fatalf("pending interval = %s, want 30s", cfg.Polling.PendingInterval)
	}
	if cfg.Location.SoftTimeout != 15*time.Second || cfg.Location.HardTimeout != 20*time.Second {
		t.Fatalf("location timeouts = %s/%s, want 15s/20s", cfg.Location.SoftTimeout, cfg.Location.HardTimeout)
	}
}

func TestLoadRequiresBaseURL(t *testing.T) {
	if _, err := Load(); err == nil {
		t.Fatal("expected error without SHOPDESK_API_BASE_URL")
	}
}

func TestLoadRejectsNonHTTPBaseURL(t *testing.T) {
	t.Setenv("SHOPDESK_API_BASE_URL", "ftp://api.example.com")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for non-http scheme")
	}
}

func TestLoadOverrides(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv("SHOPDESK_APP_ENV", "production")
	t.Setenv("SHOPDESK_API_TIMEOUT", "10s")
	t.Setenv("SHOPDESK_PENDING_POLL_INTERVAL", "1m")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.App.IsProd() {
		t.Fatalf("env = %q, want production", cfg.App.Env)
	}
	if cfg.API.Timeout != 10*time.Second {
		t.Fatalf("api timeout = %s, want 10s", cfg.API.Timeout)
	}
	if cfg.Polling.PendingInterval != time.Minute {
		t.Fatalf("pending interval = %s, want 1m", cfg.Polling.PendingInterval)
	}
}

func TestRedisTokenStoreNeedsConnectionDetails(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv("SHOPDESK_TOKEN_STORE", "redis")

	if _, err := Load(); err == nil {
		t.Fatal("expected error: redis backend without url or address")
	}

	t.Setenv("SHOPDESK_REDIS_ADDR", "localhost:6379")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.TokenStore.Backend != TokenStoreRedis {
		t.Fatalf("backend = %q", cfg.TokenStore.Backend)
	}
}

func TestUnknownTokenStoreBackend(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv("SHOPDESK_TOKEN_STORE", "keychain")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error for unknown backend")
	}
	if !strings.Contains(err.Error(), "token store backend") {
		t.Fatalf("unexpected error: %v", err)
	}
}
