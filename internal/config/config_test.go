package config

import (
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	t.Setenv("DEALHIVE_GCP_PROJECT", "test-project")
	t.Setenv("DEALHIVE_APP_PORT", "9090")
	t.Setenv("DEALHIVE_GEMINI_API_KEY", "test-key")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	if cfg.Firestore.ProjectID != "test-project" {
		t.Errorf("ProjectID = %q, want test-project", cfg.Firestore.ProjectID)
	}
	if cfg.App.Port != "9090" {
		t.Errorf("Port = %q, want 9090", cfg.App.Port)
	}
	if cfg.Gemini.APIKey != "test-key" {
		t.Errorf("APIKey = %q, want test-key", cfg.Gemini.APIKey)
	}
	if cfg.Gemini.Model != "gemini-2.0-flash" {
		t.Errorf("Model = %q, want default gemini-2.0-flash", cfg.Gemini.Model)
	}
	if cfg.Gemini.Timeout != 30*time.Second {
		t.Errorf("Gemini timeout = %s, want default 30s", cfg.Gemini.Timeout)
	}
	if !cfg.Preview.Enabled {
		t.Error("Preview should default to enabled")
	}
	if cfg.Docs.SpecDir != "docs" {
		t.Errorf("SpecDir = %q, want default docs", cfg.Docs.SpecDir)
	}
}

func TestLoad_MissingProjectID(t *testing.T) {
	t.Setenv("DEALHIVE_GCP_PROJECT", "")

	_, err := Load()
	if err == nil {
		t.Error("Load() should fail when DEALHIVE_GCP_PROJECT is not set")
	}
}

func TestLoad_CustomGeminiTimeout(t *testing.T) {
	t.Setenv("DEALHIVE_GCP_PROJECT", "test-project")
	t.Setenv("DEALHIVE_GEMINI_TIMEOUT", "5s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}
	if cfg.Gemini.Timeout != 5*time.Second {
		t.Errorf("Gemini timeout = %s, want 5s", cfg.Gemini.Timeout)
	}
}
