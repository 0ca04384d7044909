/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package config

import (
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	pkgerrors "github.com/pkg/errors"

	"github.com/suparena/crudstore/errors"
)

// Backends
const (
	BackendHTTP     = "http"
	BackendDynamoDB = "dynamodb"
)

type (
	// Config is the configuration of the panel client
	Config struct {
		API       API      `yaml:"api"`
		Backend   string   `yaml:"backend" env:"PAINEL_BACKEND"`
		DynamoDB  DynamoDB `yaml:"dynamodb"`
		Resources string   `yaml:"resources" env:"PAINEL_RESOURCES"`
		PerPage   int      `yaml:"per-page" env:"PAINEL_PER_PAGE"`
		Log       Log      `yaml:"logger"`
	}

	// API configures the HTTP backend
	API struct {
		BaseURL    string        `yaml:"base-url" env:"PAINEL_API_URL"`
		Token      string        `yaml:"token" env:"PAINEL_TOKEN"`
		Public     bool          `yaml:"public" env:"PAINEL_PUBLIC"`
		Timeout    time.Duration `yaml:"timeout" env:"PAINEL_TIMEOUT"`
		RateLimit  float64       `yaml:"rate-limit" env:"PAINEL_RATE_LIMIT"`
		RateBurst  int           `yaml:"rate-burst" env:"PAINEL_RATE_BURST"`
		MaxRetries uint64        `yaml:"max-retries" env:"PAINEL_MAX_RETRIES"`
	}

	// DynamoDB configures the self-hosted backend
	DynamoDB struct {
		Region    string `yaml:"region" env:"AWS_REGION"`
		AccessKey string `yaml:"access-key" env:"AWS_ACCESS_KEY"`
		SecretKey string `yaml:"secret-key" env:"AWS_SECRET_KEY"`
		Table     string `yaml:"table" env:"AWS_DDB_TABLE"`
		Endpoint  string `yaml:"endpoint" env:"AWS_DDB_ENDPOINT"`
	}

	// Log configures the logger
	Log struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	}
)

// Default returns the configuration used when nothing is set
func Default() *Config {
	return &Config{
		API: API{
			BaseURL:    "http://localhost:8000",
			Timeout:    30 * time.Second,
			RateBurst:  1,
			MaxRetries: 3,
		},
		Backend:  BackendHTTP,
		DynamoDB: DynamoDB{Region: "us-east-1"},
		PerPage:  10,
		Log:      Log{Level: "info", Format: "text"},
	}
}

// LoadDotEnv loads the given .env files into the environment, skipping
// missing ones. Variables already set win.
func LoadDotEnv(paths ...string) error {
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return pkgerrors.Wrapf(err, "checking %s", p)
		}
		if err := godotenv.Load(p); err != nil {
			return pkgerrors.Wrapf(err, "loading %s", p)
		}
	}
	return nil
}

// Load builds the configuration from defaults, the optional YAML file at
// path and the environment, then validates it
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := cleanenv.ReadConfig(path, cfg); err != nil {
			return nil, pkgerrors.Wrapf(err, "reading config %s", path)
		}
	} else if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, pkgerrors.Wrap(err, "reading environment")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for the selected backend
func (c *Config) Validate() error {
	c.Backend = strings.ToLower(strings.TrimSpace(c.Backend))
	switch c.Backend {
	case BackendHTTP:
		u, err := url.Parse(c.API.BaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return pkgerrors.Wrapf(errors.ErrInvalidConfig, "api base url %q is not absolute", c.API.BaseURL)
		}
		if c.API.Timeout <= 0 {
			return pkgerrors.Wrap(errors.ErrInvalidConfig, "api timeout must be positive")
		}
		if c.API.RateLimit < 0 || c.API.RateBurst < 0 {
			return pkgerrors.Wrap(errors.ErrInvalidConfig, "rate limit and burst must not be negative")
		}
	case BackendDynamoDB:
		if c.DynamoDB.Table == "" {
			return pkgerrors.Wrap(errors.ErrInvalidConfig, "dynamodb backend needs a table")
		}
		if c.DynamoDB.Region == "" {
			return pkgerrors.Wrap(errors.ErrInvalidConfig, "dynamodb backend needs a region")
		}
	default:
		return pkgerrors.Wrapf(errors.ErrInvalidConfig, "unknown backend %q", c.Backend)
	}

	if c.PerPage < 0 {
		return pkgerrors.Wrap(errors.ErrInvalidConfig, "per-page must not be negative")
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return err
	}
	switch c.Log.Format {
	case "", "text", "json":
	default:
		return pkgerrors.Wrapf(errors.ErrInvalidConfig, "unknown log format %q", c.Log.Format)
	}
	return nil
}
