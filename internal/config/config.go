// Package config loads runtime configuration from the environment and an
// optional YAML tuning file.
//
// A .env file in the working directory is loaded first if present, then
// process environment variables take precedence. The tuning file overrides
// individual segmentation parameters without touching the environment.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/omr-tools/sheetscan/internal/logger"
	"github.com/omr-tools/sheetscan/internal/segment"
)

// Config holds everything the server and CLI need to run.
type Config struct {
	// Gemini configuration
	GenAIAPIKey string
	GenAIModel  string

	// Server configuration
	ListenAddr string
	// APIKey, when non-empty, is required in the X-API-Key header of every
	// analysis request.
	APIKey string

	// Analysis configuration
	QuestionsPerBlock int

	// Segmentation configuration
	Strategy   string
	TuningFile string

	// Logging configuration
	LogLevel  string
	LogFormat string
	LogOutput string
}

// Load reads configuration from .env and the process environment.
func Load() (*Config, error) {
	// Missing .env is fine; the environment may be set directly.
	_ = godotenv.Load()

	questions, err := getEnvInt("QUESTIONS_PER_BLOCK", 11)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		GenAIAPIKey:       getEnv("GENAI_API_KEY", ""),
		GenAIModel:        getEnv("GENAI_MODEL", "gemini-2.0-flash"),
		ListenAddr:        getEnv("LISTEN_ADDR", ":8080"),
		APIKey:            getEnv("API_KEY", ""),
		QuestionsPerBlock: questions,
		Strategy:          getEnv("SEGMENT_STRATEGY", ""),
		TuningFile:        getEnv("TUNING_FILE", ""),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		LogFormat:         getEnv("LOG_FORMAT", "console"),
		LogOutput:         getEnv("LOG_OUTPUT", "stdout"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.GenAIAPIKey == "" {
		return fmt.Errorf("GENAI_API_KEY is required")
	}
	if c.QuestionsPerBlock <= 0 {
		return fmt.Errorf("QUESTIONS_PER_BLOCK must be positive, got %d", c.QuestionsPerBlock)
	}
	if _, err := segment.ParseStrategy(c.Strategy); err != nil {
		return err
	}
	return nil
}

// LoggerConfig returns the logging section as a logger configuration.
func (c *Config) LoggerConfig() logger.Config {
	return logger.Config{
		Level:  c.LogLevel,
		Format: c.LogFormat,
		Output: c.LogOutput,
	}
}

// SegmentOptions builds the segmentation option set: defaults, then the
// tuning file if configured, then the strategy from the environment.
func (c *Config) SegmentOptions() (segment.Options, error) {
	opts := segment.DefaultOptions()

	if c.TuningFile != "" {
		tuning, err := LoadTuning(c.TuningFile)
		if err != nil {
			return segment.Options{}, err
		}
		tuning.Apply(&opts)
	}

	strategy, err := segment.ParseStrategy(c.Strategy)
	if err != nil {
		return segment.Options{}, err
	}
	opts.Strategy = strategy

	if err := opts.Validate(); err != nil {
		return segment.Options{}, err
	}
	return opts, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", key, value)
	}
	return n, nil
}
