package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all service settings, populated from DEALHIVE_* environment
// variables.
type Config struct {
	App        AppConfig
	Firestore  FirestoreConfig
	Gemini     GeminiConfig
	Moderation ModerationConfig
	Preview    PreviewConfig
	Docs       DocsConfig
}

type AppConfig struct {
	Env  string `envconfig:"DEALHIVE_APP_ENV" default:"dev"`
	Port string `envconfig:"DEALHIVE_APP_PORT" default:"8080"`
}

type FirestoreConfig struct {
	ProjectID string `envconfig:"DEALHIVE_GCP_PROJECT" required:"true"`
}

type GeminiConfig struct {
	// APIKey may be empty: the evaluator then degrades and every submission
	// routes to manual review.
	APIKey  string        `envconfig:"DEALHIVE_GEMINI_API_KEY"`
	Model   string        `envconfig:"DEALHIVE_GEMINI_MODEL" default:"gemini-2.0-flash"`
	Timeout time.Duration `envconfig:"DEALHIVE_GEMINI_TIMEOUT" default:"30s"`
}

type ModerationConfig struct {
	// WebhookURL receives review-queue alerts; empty disables them.
	WebhookURL string `envconfig:"DEALHIVE_MODERATION_WEBHOOK_URL"`
}

type PreviewConfig struct {
	Enabled bool          `envconfig:"DEALHIVE_PREVIEW_ENABLED" default:"true"`
	Timeout time.Duration `envconfig:"DEALHIVE_PREVIEW_TIMEOUT" default:"3s"`
}

type DocsConfig struct {
	SpecDir string `envconfig:"DEALHIVE_DOCS_SPEC_DIR" default:"docs"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}
