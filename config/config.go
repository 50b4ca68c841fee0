// Package config loads server settings from the environment.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Config struct {
	Addr          string `env:"PRNG_ADDR" envDefault:"0.0.0.0:3001"`
	DBPath        string `env:"PRNG_DB" envDefault:"prng.db"`
	JWTSecretFile string `env:"PRNG_JWT_SECRET_FILE"`
	IPFSAddr      string `env:"PRNG_IPFS"`
	MaxLength     uint64 `env:"PRNG_MAX_LENGTH" envDefault:"1048576"`
	LogLevel      string `env:"PRNG_LOG_LEVEL" envDefault:"info"`
}

// Load parses the environment and validates the result.
func Load() (Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("PRNG_ADDR must not be empty")
	}
	if c.DBPath == "" {
		return fmt.Errorf("PRNG_DB must not be empty")
	}
	if c.MaxLength < 2 {
		return fmt.Errorf("PRNG_MAX_LENGTH must be at least 2, got %d", c.MaxLength)
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("PRNG_LOG_LEVEL: %w", err)
	}
	return nil
}

// Logger builds a production zap logger at the configured level.
func (c Config) Logger() (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, err
	}
	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}
