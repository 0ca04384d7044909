/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suparena/crudstore/errors"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, BackendHTTP, cfg.Backend)
	assert.Equal(t, 30*time.Second, cfg.API.Timeout)
	assert.Equal(t, uint64(3), cfg.API.MaxRetries)
	assert.Equal(t, 10, cfg.PerPage)
}

func TestLoadEnvironment(t *testing.T) {
	t.Setenv("PAINEL_API_URL", "https://painel.example.com")
	t.Setenv("PAINEL_TOKEN", "secret")
	t.Setenv("PAINEL_TIMEOUT", "5s")
	t.Setenv("PAINEL_RATE_LIMIT", "2.5")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "https://painel.example.com", cfg.API.BaseURL)
	assert.Equal(t, "secret", cfg.API.Token)
	assert.Equal(t, 5*time.Second, cfg.API.Timeout)
	assert.Equal(t, 2.5, cfg.API.RateLimit)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadFile(t *testing.T) {
	path := writeFile(t, "painel.yaml", `
backend: dynamodb
dynamodb:
  table: painel
  region: sa-east-1
per-page: 25
logger:
  format: json
`)
	t.Setenv("AWS_DDB_ENDPOINT", "http://localhost:8001")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, BackendDynamoDB, cfg.Backend)
	assert.Equal(t, "painel", cfg.DynamoDB.Table)
	assert.Equal(t, "sa-east-1", cfg.DynamoDB.Region)
	assert.Equal(t, "http://localhost:8001", cfg.DynamoDB.Endpoint)
	assert.Equal(t, 25, cfg.PerPage)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"relative base url", func(c *Config) { c.API.BaseURL = "painel/api" }},
		{"zero timeout", func(c *Config) { c.API.Timeout = 0 }},
		{"negative rate", func(c *Config) { c.API.RateLimit = -1 }},
		{"unknown backend", func(c *Config) { c.Backend = "sql" }},
		{"dynamodb without table", func(c *Config) { c.Backend = BackendDynamoDB }},
		{"negative per page", func(c *Config) { c.PerPage = -1 }},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }},
		{"bad log format", func(c *Config) { c.Log.Format = "xml" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, errors.IsConfiguration(err))
		})
	}

	t.Run("backend is normalised", func(t *testing.T) {
		cfg := Default()
		cfg.Backend = " HTTP "
		require.NoError(t, cfg.Validate())
		assert.Equal(t, BackendHTTP, cfg.Backend)
	})
}

func TestLoadDotEnv(t *testing.T) {
	path := writeFile(t, ".env", "PAINEL_DOTENV_PROBE=from-file\n")
	t.Setenv("PAINEL_DOTENV_PROBE", "")
	require.NoError(t, os.Unsetenv("PAINEL_DOTENV_PROBE"))

	require.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), ".env.missing"), path))
	assert.Equal(t, "from-file", os.Getenv("PAINEL_DOTENV_PROBE"))
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	log, err := Log{Level: "warn", Format: "json"}.NewLogger(&buf)
	require.NoError(t, err)
	assert.Equal(t, logrus.WarnLevel, log.GetLevel())

	log.Info("hidden")
	log.WithField("store", "crud/cliente").Warn("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"store":"crud/cliente"`)

	_, err = Log{Level: "loud"}.NewLogger(&buf)
	assert.Error(t, err)
}
