// internal/config/config.go
//
// Typed process configuration parsed from environment variables.

package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds every runtime knob of the server.
type Config struct {
	Port         string        `env:"PORT" envDefault:"5175"`
	ClientOrigin string        `env:"CLIENT_ORIGIN" envDefault:"http://localhost:5173"`
	LogLevel     string        `env:"LOG_LEVEL" envDefault:"info"`
	DBPath       string        `env:"DB_PATH" envDefault:"./data/app.db"`
	RoundTTL     time.Duration `env:"ROUND_TTL" envDefault:"10m"`

	OpenAIKey    string `env:"OPENAI_API_KEY"`
	OpenAIModel  string `env:"OPENAI_MODEL" envDefault:"gpt-4o-mini"`
	ResponsesURL string `env:"OPENAI_BASE_URL" envDefault:"https://api.openai.com/v1/responses"`
}

// Load parses the configuration from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
