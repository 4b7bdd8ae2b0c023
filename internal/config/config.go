// Package config loads service configuration from the environment.
// A .env file, when present, is loaded by the CLI layer first.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Port                string `env:"PORT" envDefault:"8888"`
	DataDir             string `env:"DATA_DIR" envDefault:"data"`
	StorageBackend      string `env:"STORAGE_BACKEND" envDefault:"file"`
	SQLitePath          string `env:"SQLITE_PATH" envDefault:"data/canvas.db"`
	ImageEndpoint       string `env:"IMAGE_ENDPOINT" envDefault:"https://image.pollinations.ai/prompt"`
	PlaceholderEndpoint string `env:"PLACEHOLDER_ENDPOINT" envDefault:"https://picsum.photos"`
	EnhanceProvider     string `env:"ENHANCE_PROVIDER"`
	EnhanceModel        string `env:"ENHANCE_MODEL" envDefault:"gemini-2.0-flash"`
	StaticDir           string `env:"STATIC_DIR" envDefault:"static"`
}

// Load parses configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	return &cfg, nil
}
