// Package config provides configuration loading and validation for the
// glot application, layered from defaults, config files, environment
// variables and command-line flags.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/glotscan/glot/internal/models"
)

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() Config {
	return Config{
		ModelsDir: models.DefaultModelsDir,
		LogLevel:  "info",
		Verbose:   false,
		Classifier: ClassifierConfig{
			ModelPath: "",
		},
		Output: OutputConfig{
			Format:              "text",
			ConfidencePrecision: 3,
		},
		Server: ServerConfig{
			Host:              "localhost",
			Port:              8080,
			CORSOrigin:        "*",
			MaxSnippetKB:      1024,
			TimeoutSec:        30,
			ShutdownTimeout:   10,
			RateLimitEnabled:  false,
			RequestsPerMinute: 60,
			RequestsPerHour:   1000,
			MaxRequestsPerDay: 5000,
			MaxDataPerDay:     100 * 1024 * 1024,
		},
		Batch: BatchConfig{
			Workers:          4,
			Recursive:        false,
			ContinueOnError:  false,
			MaxFileSizeKB:    1024,
			ProgressInterval: 500 * time.Millisecond,
		},
		Train: TrainConfig{
			CorpusDir:  "testdata/corpus",
			OutputPath: "",
			MinSamples: 1,
		},
	}
}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	validLogLevels := []string{"debug", "info", "warn", "error"}
	if !contains(validLogLevels, c.LogLevel) {
		return fmt.Errorf("invalid log level: %s (must be one of: %s)", c.LogLevel, strings.Join(validLogLevels, ", "))
	}

	validFormats := []string{"text", "json", "csv"}
	if c.Output.Format != "" && !contains(validFormats, c.Output.Format) {
		return fmt.Errorf("invalid output format: %s (must be one of: %s)", c.Output.Format, strings.Join(validFormats, ", "))
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d (must be between 1 and 65535)", c.Server.Port)
	}
	if c.Server.MaxSnippetKB <= 0 {
		return fmt.Errorf("invalid max snippet size: %d (must be positive)", c.Server.MaxSnippetKB)
	}
	if c.Server.TimeoutSec <= 0 {
		return fmt.Errorf("invalid timeout: %d (must be positive)", c.Server.TimeoutSec)
	}
	if err := c.validateRateLimits(); err != nil {
		return err
	}

	if c.Batch.Workers <= 0 {
		return fmt.Errorf("invalid batch workers: %d (must be positive)", c.Batch.Workers)
	}
	if c.Batch.MaxFileSizeKB <= 0 {
		return fmt.Errorf("invalid batch max file size: %d (must be positive)", c.Batch.MaxFileSizeKB)
	}

	if c.Train.MinSamples < 1 {
		return fmt.Errorf("invalid train min samples: %d (must be at least 1)", c.Train.MinSamples)
	}

	return nil
}

// validateRateLimits checks rate limiting settings when enabled.
func (c *Config) validateRateLimits() error {
	if !c.Server.RateLimitEnabled {
		return nil
	}
	if c.Server.RequestsPerMinute < 0 {
		return fmt.Errorf("invalid requests per minute: %d (must not be negative)", c.Server.RequestsPerMinute)
	}
	if c.Server.RequestsPerHour < 0 {
		return fmt.Errorf("invalid requests per hour: %d (must not be negative)", c.Server.RequestsPerHour)
	}
	if c.Server.MaxRequestsPerDay < 0 {
		return fmt.Errorf("invalid max requests per day: %d (must not be negative)", c.Server.MaxRequestsPerDay)
	}
	if c.Server.MaxDataPerDay < 0 {
		return fmt.Errorf("invalid max data per day: %d (must not be negative)", c.Server.MaxDataPerDay)
	}
	return nil
}

// MaxSnippetBytes returns the configured snippet size limit in bytes.
func (c *Config) MaxSnippetBytes() int64 {
	return int64(c.Server.MaxSnippetKB) * 1024
}

// contains checks if a slice contains a string.
func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
