package cli

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds defaults read from the environment. Command-line flags
// override every field.
type Config struct {
	Workers int    `env:"BRINE_WORKERS" envDefault:"4"`
	DB      string `env:"BRINE_DB"`
	Format  string `env:"BRINE_FORMAT" envDefault:"text"`
	Verbose bool   `env:"BRINE_VERBOSE"`
}

// LoadConfig reads Config from the process environment.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// LoadConfigFrom reads Config from the given variables instead of the
// process environment.
func LoadConfigFrom(environ map[string]string) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: environ}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
