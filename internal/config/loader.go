package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Environment variables read directly by the loader.
const (
	EnvPrefix  = "FOLIO_"
	EnvConfig  = "FOLIO_CONFIG"
	EnvDotenv  = "FOLIO_ENV_FILE"
	defaultEnv = ".env"
)

// legacyEnv maps the unprefixed variables the service has always honoured.
var legacyEnv = map[string]string{ //nolint:gochecknoglobals // static lookup table
	"PORT":         "port",
	"FRONTEND_URL": "allowed_origin",
}

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if FOLIO_CONFIG is set
//  3. PORT and FRONTEND_URL
//  4. env (prefix FOLIO_)
//
// A dotenv file (FOLIO_ENV_FILE, or ./.env when present) is applied to the
// process environment first; it never overrides variables already set.
func Load(_ context.Context) (*Config, error) {
	if err := loadDotenv(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	base := New()
	k := koanf.New(".")

	if path := os.Getenv(EnvConfig); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
		}
	}

	legacy := env.Provider("", ".", func(s string) string {
		return legacyEnv[s]
	})
	if err := k.Load(legacy, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	// FOLIO_DATA_FILE -> data_file; underscores are kept to match koanf tags.
	prefixed := env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.TrimPrefix(strings.ToLower(s), strings.ToLower(EnvPrefix))
	})
	if err := k.Load(prefixed, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func loadDotenv() error {
	if path := os.Getenv(EnvDotenv); path != "" {
		return godotenv.Load(path)
	}
	err := godotenv.Load(defaultEnv)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// normalize folds Port into Addr and validates the result.
func (c *Config) normalize() error {
	if strings.TrimSpace(c.Addr) == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if c.Port != "" {
		n, err := strconv.Atoi(c.Port)
		if err != nil || n < 1 || n > 65535 {
			return fmt.Errorf("%w: port must be 1-65535, got %q", ErrInvalidConfig, c.Port)
		}
		host, _, err := net.SplitHostPort(c.Addr)
		if err != nil {
			host = ""
		}
		c.Addr = net.JoinHostPort(host, c.Port)
	}
	if strings.TrimSpace(c.DataFile) == "" {
		return fmt.Errorf("%w: data_file must not be empty", ErrInvalidConfig)
	}
	if len(c.AllowedOrigins()) == 0 {
		return fmt.Errorf("%w: allowed_origin must not be empty", ErrInvalidConfig)
	}
	if c.MaxBodyBytes <= 0 {
		return fmt.Errorf("%w: max_body_bytes must be positive", ErrInvalidConfig)
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("%w: log_format must be text or json, got %q", ErrInvalidConfig, c.LogFormat)
	}
	return nil
}
