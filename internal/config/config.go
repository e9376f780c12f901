package config

import (
	"fmt"
	"time"
)

// Config holds all application configuration settings.
type Config struct {
	DefaultParts   int    `envconfig:"DEFAULT_PARTS" default:"4"`
	MaxConcurrency int    `envconfig:"MAX_CONCURRENCY" default:"0"`
	Output         string `envconfig:"OUTPUT" default:"output_file.download"`

	HTTPTimeout  time.Duration `envconfig:"HTTP_TIMEOUT" default:"30m"`
	ProbeTimeout time.Duration `envconfig:"PROBE_TIMEOUT" default:"30s"`
	UserAgent    string        `envconfig:"USER_AGENT" default:"range-downloader/1.0"`

	ProgressInterval time.Duration `envconfig:"PROGRESS_INTERVAL" default:"500ms"`
	NoProgress       bool          `envconfig:"NO_PROGRESS" default:"false"`

	AdminAddr       string        `envconfig:"ADMIN_ADDR" default:""`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"5s"`

	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"text"`
}

// Validate checks the configuration for invalid or missing values.
// Returns an error describing the first invalid setting found.
func (c *Config) Validate() error {
	if c.DefaultParts <= 0 {
		return fmt.Errorf("default parts must be positive: %d", c.DefaultParts)
	}

	if c.MaxConcurrency < 0 {
		return fmt.Errorf("max concurrency cannot be negative: %d", c.MaxConcurrency)
	}

	if c.Output == "" {
		return fmt.Errorf("output path cannot be empty")
	}

	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("http timeout must be positive: %s", c.HTTPTimeout)
	}
	if c.ProbeTimeout <= 0 {
		return fmt.Errorf("probe timeout must be positive: %s", c.ProbeTimeout)
	}

	if c.ProgressInterval <= 0 {
		return fmt.Errorf("progress interval must be positive: %s", c.ProgressInterval)
	}

	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("unsupported log format: %q", c.LogFormat)
	}

	return nil
}
