package config

import (
	"os"
	"testing"
)

func TestEnvOr(t *testing.T) {
	// Unset key returns fallback
	os.Unsetenv("TEST_ENVOR_KEY")
	if got := envOr("TEST_ENVOR_KEY", "default"); got != "default" {
		t.Errorf("envOr unset key = %q, want %q", got, "default")
	}

	// Set key returns value
	os.Setenv("TEST_ENVOR_KEY", "custom")
	defer os.Unsetenv("TEST_ENVOR_KEY")
	if got := envOr("TEST_ENVOR_KEY", "default"); got != "custom" {
		t.Errorf("envOr set key = %q, want %q", got, "custom")
	}

	// Empty string returns fallback
	os.Setenv("TEST_ENVOR_KEY", "")
	if got := envOr("TEST_ENVOR_KEY", "fallback"); got != "fallback" {
		t.Errorf("envOr empty key = %q, want %q", got, "fallback")
	}
}

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{
		"PORT", "BASE_URL", "DATABASE_URL", "REDIS_URL", "REDIS_PASSWORD",
		"PAYMENT_ADDRESS", "FACILITATOR_URLS", "FREE_MODE", "FRONTEND_ORIGIN",
		"INFISICAL_CLIENT_ID", "INFISICAL_CLIENT_SECRET",
	} {
		os.Unsetenv(k)
	}

	cfg := Load()

	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want %q", cfg.Port, "8080")
	}
	if cfg.FrontendOrigin != "*" {
		t.Errorf("FrontendOrigin = %q, want %q", cfg.FrontendOrigin, "*")
	}
	if cfg.DatabaseURL != "" {
		t.Errorf("DatabaseURL = %q, want empty", cfg.DatabaseURL)
	}
	if cfg.FreeMode {
		t.Error("FreeMode should default to false")
	}
	if cfg.PaymentAddress == "" {
		t.Error("PaymentAddress should have a default")
	}
	if len(cfg.Facilitators) != 0 {
		t.Errorf("Facilitators = %v, want none configured", cfg.Facilitators)
	}
	if got := cfg.RPCURLs[1]; got != "https://eth.llamarpc.com" {
		t.Errorf("RPCURLs[1] = %q", got)
	}
	if len(cfg.RPCURLs) != 7 {
		t.Errorf("RPCURLs = %d chains, want 7", len(cfg.RPCURLs))
	}
}

func TestLoadFromEnv(t *testing.T) {
	os.Setenv("PORT", "9090")
	os.Setenv("DATABASE_URL", "postgres://test")
	os.Setenv("FREE_MODE", "TRUE")
	os.Setenv("POLYGON_RPC_URL", "https://rpc.internal/polygon")
	os.Setenv("FACILITATOR_URLS", "https://fac-a.example.com, https://fac-b.example.com")
	defer func() {
		for _, k := range []string{"PORT", "DATABASE_URL", "FREE_MODE", "POLYGON_RPC_URL", "FACILITATOR_URLS"} {
			os.Unsetenv(k)
		}
	}()

	cfg := Load()

	if cfg.Port != "9090" {
		t.Errorf("Port = %q, want %q", cfg.Port, "9090")
	}
	if cfg.DatabaseURL != "postgres://test" {
		t.Errorf("DatabaseURL = %q", cfg.DatabaseURL)
	}
	if !cfg.FreeMode {
		t.Error("FREE_MODE=TRUE should enable FreeMode")
	}
	if got := cfg.RPCURLs[137]; got != "https://rpc.internal/polygon" {
		t.Errorf("RPCURLs[137] = %q", got)
	}
	want := []string{"https://fac-a.example.com", "https://fac-b.example.com"}
	if len(cfg.Facilitators) != 2 || cfg.Facilitators[0] != want[0] || cfg.Facilitators[1] != want[1] {
		t.Errorf("Facilitators = %v, want %v", cfg.Facilitators, want)
	}
}
