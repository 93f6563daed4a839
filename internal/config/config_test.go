package config

import (
	"reflect"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	// Clear anything inherited from the environment
	for _, key := range []string{
		"PORT", "GO_ENV", "GEMINI_API_KEY", "HF_API_KEY", "HF_MODEL",
		"HF_ALLOW_FALLBACK", "HF_PLACEHOLDER_ON_FAIL", "MOCK_AI", "ALLOWED_ORIGINS",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()

	if cfg.Port != "8080" {
		t.Errorf("Expected default port 8080, got %s", cfg.Port)
	}
	if cfg.Environment != "development" {
		t.Errorf("Expected development environment, got %s", cfg.Environment)
	}
	if !cfg.HFAllowFallback {
		t.Error("Expected fallback enabled by default")
	}
	if cfg.HFPlaceholderOnFail {
		t.Error("Expected placeholder mode disabled by default")
	}
	if cfg.MockAI {
		t.Error("Expected mock mode disabled by default")
	}
	if !reflect.DeepEqual(cfg.AllowedOrigins, []string{"*"}) {
		t.Errorf("Expected wildcard origins by default, got %v", cfg.AllowedOrigins)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9999")
	t.Setenv("MOCK_AI", "true")
	t.Setenv("HF_ALLOW_FALLBACK", "false")
	t.Setenv("HF_MODEL", "  stabilityai/sdxl-turbo  ")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example,")

	cfg := Load()

	if cfg.Port != "9999" {
		t.Errorf("Expected port 9999, got %s", cfg.Port)
	}
	if !cfg.MockAI {
		t.Error("Expected mock mode enabled")
	}
	if cfg.HFAllowFallback {
		t.Error("Expected fallback disabled")
	}
	if cfg.HFModel != "stabilityai/sdxl-turbo" {
		t.Errorf("Expected trimmed model name, got %q", cfg.HFModel)
	}
	want := []string{"https://a.example", "https://b.example"}
	if !reflect.DeepEqual(cfg.AllowedOrigins, want) {
		t.Errorf("Expected %v, got %v", want, cfg.AllowedOrigins)
	}
}
