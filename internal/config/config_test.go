package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "DB_DSN", "CART_STORE", "CAREER_API_URL", "CAREER_API_TIMEOUT", "NAV_PORT"} {
		t.Setenv(k, "")
	}
	cfg := Load()
	if cfg.Port != "8081" || cfg.NavPort != "8082" {
		t.Fatalf("ports: %+v", cfg)
	}
	if cfg.DBDSN != "storefront.db" || cfg.CartStore != "sqlite" {
		t.Fatalf("storage: %+v", cfg)
	}
	if cfg.CareerAPIURL != "http://localhost:8000" || cfg.CareerAPITimeout != 10*time.Second {
		t.Fatalf("career api: %+v", cfg)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("CART_STORE", "BOLT")
	t.Setenv("CAREER_API_URL", "http://api.test:9000/")
	t.Setenv("CAREER_API_TIMEOUT", "250ms")
	cfg := Load()
	if cfg.CartStore != "bolt" {
		t.Fatalf("want bolt, got %q", cfg.CartStore)
	}
	if cfg.CareerAPIURL != "http://api.test:9000" {
		t.Fatalf("trailing slash not trimmed: %q", cfg.CareerAPIURL)
	}
	if cfg.CareerAPITimeout != 250*time.Millisecond {
		t.Fatalf("timeout: %v", cfg.CareerAPITimeout)
	}
}

func TestLoadRejectsUnknownStore(t *testing.T) {
	t.Setenv("CART_STORE", "redis")
	t.Setenv("CAREER_API_TIMEOUT", "-1s")
	cfg := Load()
	if cfg.CartStore != "sqlite" || cfg.CareerAPITimeout != 10*time.Second {
		t.Fatalf("fallbacks not applied: %+v", cfg)
	}
}
