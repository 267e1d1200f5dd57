package config

import (
	"fmt"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Config holds every environment-driven setting for the server.
type Config struct {
	Port      string `env:"PORT" envDefault:"8080"`
	AWSRegion string `env:"AWS_REGION" envDefault:"us-east-1"`
	S3Bucket  string `env:"S3_BUCKET_NAME"`
}

// Load reads an optional .env file and parses the environment into a Config.
func Load() (Config, error) {
	// A missing .env is fine; real environments set variables directly.
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse environment config: %w", err)
	}
	return cfg, nil
}
