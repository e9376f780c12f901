package config

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	return Config{
		DefaultParts:     4,
		Output:           "out.bin",
		HTTPTimeout:      time.Minute,
		ProbeTimeout:     time.Second,
		ProgressInterval: time.Second,
		LogFormat:        "text",
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 4, cfg.DefaultParts)
	assert.Equal(t, 0, cfg.MaxConcurrency)
	assert.Equal(t, "output_file.download", cfg.Output)
	assert.Equal(t, 30*time.Minute, cfg.HTTPTimeout)
	assert.Equal(t, "", cfg.AdminAddr)
	assert.Equal(t, "text", cfg.LogFormat)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("FD_DEFAULT_PARTS", "8")
	t.Setenv("FD_MAX_CONCURRENCY", "2")
	t.Setenv("FD_OUTPUT", "big.iso")
	t.Setenv("FD_LOG_FORMAT", "json")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8, cfg.DefaultParts)
	assert.Equal(t, 2, cfg.MaxConcurrency)
	assert.Equal(t, "big.iso", cfg.Output)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestLoad_InvalidValue(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("FD_DEFAULT_PARTS", "0")

	_, err := Load()
	assert.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "zero parts", mutate: func(c *Config) { c.DefaultParts = 0 }, wantErr: true},
		{name: "negative concurrency", mutate: func(c *Config) { c.MaxConcurrency = -1 }, wantErr: true},
		{name: "empty output", mutate: func(c *Config) { c.Output = "" }, wantErr: true},
		{name: "zero timeout", mutate: func(c *Config) { c.HTTPTimeout = 0 }, wantErr: true},
		{name: "unknown log format", mutate: func(c *Config) { c.LogFormat = "xml" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSetupLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	cfg := validConfig()
	cfg.LogFormat = "json"
	cfg.LogLevel = "warn"

	logger := setupLogger(&cfg, &buf)
	logger.Info("hidden")
	logger.Warn("shown", "part", 1)

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)
}
