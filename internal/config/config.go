// Package config assembles the runtime configuration from the environment,
// an optional .env secrets file and command-line overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/abhisek/mindcheck/internal/llm"
	"github.com/abhisek/mindcheck/internal/rewrite"
)

// ErrMissingCredential is returned by Validate when an engine is configured
// without its API key. It is the same sentinel llm reports.
var ErrMissingCredential = llm.ErrMissingCredential

// DefaultEnvFile is the secrets file read by Load when present.
const DefaultEnvFile = ".env"

type Config struct {
	LLM     llm.Config
	Rewrite rewrite.Config
	Log     LogConfig

	// Offline runs without any engine; every battery uses the
	// canonical items with the fallback wrapper.
	Offline bool

	// VocabularyPath replaces the embedded rewrite vocabulary.
	VocabularyPath string `validate:"omitempty,file"`
}

type LogConfig struct {
	Level string `validate:"omitempty,oneof=debug info warn warning error DEBUG INFO WARN WARNING ERROR"`

	// File receives log output. Interactive runs log nowhere without it.
	File string
}

// Options are command-line overrides applied on top of the environment.
type Options struct {
	EnvFile        string
	Offline        bool
	VocabularyPath string
	LogLevel       string
}

// Load reads the .env file (if any), the environment and opts, then
// validates the result.
func Load(opts Options) (*Config, error) {
	envFile := opts.EnvFile
	if envFile == "" {
		envFile = DefaultEnvFile
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", envFile, err)
	}

	llmCfg, err := llm.ConfigFromEnv()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		LLM:     llmCfg,
		Rewrite: rewrite.DefaultConfig(),
		Log: LogConfig{
			Level: getEnvOrDefault("MINDCHECK_LOG_LEVEL", "info"),
			File:  os.Getenv("MINDCHECK_LOG_FILE"),
		},
		Offline:        opts.Offline || os.Getenv("MINDCHECK_OFFLINE") == "1",
		VocabularyPath: getEnvOrDefault("MINDCHECK_VOCABULARY", ""),
	}
	cfg.Rewrite.AttemptTimeout = cfg.LLM.Timeout

	if cfg.Rewrite.Backoff, err = getEnvDurationOrDefault("MINDCHECK_BACKOFF", cfg.Rewrite.Backoff); err != nil {
		return nil, err
	}
	if cfg.Rewrite.MaxBackoff, err = getEnvDurationOrDefault("MINDCHECK_MAX_BACKOFF", cfg.Rewrite.MaxBackoff); err != nil {
		return nil, err
	}

	if opts.VocabularyPath != "" {
		cfg.VocabularyPath = opts.VocabularyPath
	}
	if opts.LogLevel != "" {
		cfg.Log.Level = opts.LogLevel
	}
	if cfg.Offline {
		cfg.LLM.Engines = nil
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

var validate = validator.New()

// Validate checks structural fields and, unless offline, that every
// engine has a credential.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if c.Offline {
		return nil
	}
	if len(c.LLM.Engines) == 0 {
		return fmt.Errorf("%w: no engines configured", ErrMissingCredential)
	}
	return c.LLM.Validate()
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}
