package config

import (
	"testing"
	"time"
)

func TestLoad_RequiresGeminiAPIKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when GEMINI_API_KEY is unset")
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Gemini.APIKey != "test-key" {
		t.Fatalf("unexpected api key %q", cfg.Gemini.APIKey)
	}
	if cfg.Gemini.Model != "gemini-2.0-flash-exp" {
		t.Fatalf("unexpected default model %q", cfg.Gemini.Model)
	}
	if cfg.Upload.Dir != "uploads" {
		t.Fatalf("unexpected default upload dir %q", cfg.Upload.Dir)
	}
	if cfg.Geocoder.Timeout != 5*time.Second {
		t.Fatalf("unexpected geocoder timeout %v", cfg.Geocoder.Timeout)
	}
	if cfg.Server.Port != "8080" {
		t.Fatalf("unexpected default port %q", cfg.Server.Port)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("MODEL_NAME", "gemini-1.5-pro")
	t.Setenv("UPLOAD_FOLDER", "/tmp/labels")
	t.Setenv("GEOCODER_TIMEOUT", "2")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Gemini.Model != "gemini-1.5-pro" {
		t.Fatalf("unexpected model %q", cfg.Gemini.Model)
	}
	if cfg.Upload.Dir != "/tmp/labels" {
		t.Fatalf("unexpected upload dir %q", cfg.Upload.Dir)
	}
	if cfg.Geocoder.Timeout != 2*time.Second {
		t.Fatalf("unexpected geocoder timeout %v", cfg.Geocoder.Timeout)
	}
}
