package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

// DefaultStateFile is used when neither WAREHOUSE_FILE nor --file is
// given. It is resolved relative to the working directory, so
// cooperating processes started in the same directory share state.
const DefaultStateFile = "warehouse_state.json"

type Config struct {
	// StateFile is the JSON file holding the warehouse state. Its
	// sibling <StateFile>.lock serializes access across processes.
	StateFile string `env:"WAREHOUSE_FILE" envDefault:"warehouse_state.json"`
	// LockTimeout bounds how long one operation waits for the file
	// lock. Zero waits forever.
	LockTimeout time.Duration `env:"WAREHOUSE_LOCK_TIMEOUT" envDefault:"0s"`
	// LogLevel is one of debug/info/warn/error.
	LogLevel string `env:"WAREHOUSE_LOG_LEVEL" envDefault:"info"`
}

// Load reads the configuration from environment variables.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	if cfg.LockTimeout < 0 {
		return Config{}, fmt.Errorf("WAREHOUSE_LOCK_TIMEOUT must not be negative, got %s", cfg.LockTimeout)
	}
	return cfg, nil
}
