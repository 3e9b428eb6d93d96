package config

import (
	"testing"
	"time"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("APP_ENV", "test")
	t.Setenv("APP_PORT", "8000")
	t.Setenv("DB_USER", "transactsync")
	t.Setenv("DB_PASS", "")
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_PORT", "3306")
	t.Setenv("DB_NAME", "transactsync")
	t.Setenv("API_KEY", "s3cret")
}

func TestLoadReadsEnvironment(t *testing.T) {
	setRequiredEnv(t)
	cfg := Load()
	if cfg.Env != "test" || cfg.Port != "8000" {
		t.Errorf("Env/Port = %q/%q", cfg.Env, cfg.Port)
	}
	if cfg.DBHost != "localhost" || cfg.DBName != "transactsync" {
		t.Errorf("DBHost/DBName = %q/%q", cfg.DBHost, cfg.DBName)
	}
	if cfg.APIKey != "s3cret" {
		t.Errorf("APIKey = %q, want s3cret", cfg.APIKey)
	}
}

func TestRateLimitDefaultsAndClamps(t *testing.T) {
	cfg := LoadRateLimitConfig()
	if !cfg.Enabled {
		t.Error("rate limiting should default to enabled")
	}
	if cfg.Capacity != 60 || cfg.RefillTokens != 1 {
		t.Errorf("Capacity/RefillTokens = %d/%d", cfg.Capacity, cfg.RefillTokens)
	}
	if cfg.KeyStrategy != "ip_route" {
		t.Errorf("KeyStrategy = %q, want ip_route", cfg.KeyStrategy)
	}

	t.Setenv("RATE_LIMIT_CAPACITY", "0")
	t.Setenv("RATE_LIMIT_TTL", "1ms")
	clamped := LoadRateLimitConfig()
	if clamped.Capacity < 1 {
		t.Errorf("Capacity = %d, want clamped to >= 1", clamped.Capacity)
	}
	if clamped.TTL < 5*clamped.RefillInterval {
		t.Errorf("TTL = %s, want at least 5x the refill interval", clamped.TTL)
	}
}

func TestCacheConfigDefaults(t *testing.T) {
	cfg := LoadCacheConfig()
	if cfg.Enabled {
		t.Error("response caching should default to disabled")
	}
	if !cfg.Methods["GET"] || cfg.Methods["POST"] {
		t.Errorf("Methods = %v, want GET only", cfg.Methods)
	}
	if cfg.TTL != 30*time.Second {
		t.Errorf("TTL = %s, want 30s", cfg.TTL)
	}
}

func TestParseMethodsNormalizes(t *testing.T) {
	m := parseMethods(" get , head ,")
	if !m["GET"] || !m["HEAD"] || len(m) != 2 {
		t.Errorf("parseMethods = %v", m)
	}
}

func TestEnvHelpers(t *testing.T) {
	t.Setenv("X_BOOL", "yes")
	t.Setenv("X_INT", "42")
	t.Setenv("X_DUR", "90s")
	if !envBool("X_BOOL", false) {
		t.Error("envBool(yes) = false")
	}
	if envInt("X_INT", 0) != 42 {
		t.Error("envInt(42) mismatch")
	}
	if envDur("X_DUR", 0) != 90*time.Second {
		t.Error("envDur(90s) mismatch")
	}
	if envInt("X_MISSING", 7) != 7 {
		t.Error("envInt default mismatch")
	}
}
