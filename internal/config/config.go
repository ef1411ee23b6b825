// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults; Load layers overrides on top.
// - Loading functions accept context.Context as the first parameter.
// - Errors are wrapped with this package's sentinel kinds.
package config

import "strings"

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log encoding: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":3001".
	Addr string `koanf:"addr"`

	// Port, when set, replaces the port part of Addr.
	Port string `koanf:"port"`

	// DataFile is the path of the profile JSON document.
	DataFile string `koanf:"data_file"`

	// AllowedOrigin is the CORS origin allowed to call the API. A comma
	// separated list is accepted; "*" allows any origin.
	AllowedOrigin string `koanf:"allowed_origin"`

	// SiteDir optionally points at a built front-end served under "/".
	SiteDir string `koanf:"site_dir"`

	// MaxBodyBytes caps PUT request bodies.
	MaxBodyBytes int64 `koanf:"max_body_bytes"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:      "info",
		LogFormat:     "text",
		Addr:          ":3001",
		DataFile:      "data.json",
		AllowedOrigin: "*",
		MaxBodyBytes:  100 << 10,
	}
}

// AllowedOrigins splits AllowedOrigin into its entries.
func (c *Config) AllowedOrigins() []string {
	var out []string
	for _, o := range strings.Split(c.AllowedOrigin, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
