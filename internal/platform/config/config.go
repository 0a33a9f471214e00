// Package config loads service settings from the environment and the
// operator-maintained filters file.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv       string `env:"APP_ENV" envDefault:"local"`
	ListenPort   int    `env:"LISTEN_PORT" envDefault:"8080"`
	HealthPort   int    `env:"HEALTH_PORT" envDefault:"8081"`
	FiltersPath  string `env:"FILTERS_PATH" envDefault:"./filters.yaml"`
	HistoryLimit int    `env:"HISTORY_LIMIT" envDefault:"250"`

	// Report store
	ReportEnabled bool   `env:"REPORT_ENABLED" envDefault:"true"`
	ReportDBPath  string `env:"REPORT_DB_PATH" envDefault:"./nosol-report.db"`

	// Classifier
	LLMAPIKey    string `env:"LLM_API_KEY"`
	LLMModel     string `env:"LLM_MODEL" envDefault:"gpt-4o-mini"`
	LLMBaseURL   string `env:"LLM_BASE_URL"`
	RateLimitRPS int    `env:"RATE_LIMIT_RPS" envDefault:"1"`
}

func Load() (*Config, error) {
	_ = godotenv.Load() //nolint:errcheck // .env file is optional, error is expected when not present

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing environment config: %w", err)
	}

	return cfg, nil
}
