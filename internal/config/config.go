// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Tracklab Contributors

// Package config loads server configuration from an optional YAML file,
// environment variables, and command-line flags. Flags win over the
// file, the file wins over defaults.
package config

import (
	"os"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"
)

// Config holds the full server configuration.
type Config struct {
	HTTP     HTTPConfig     `koanf:"http"`
	Database DatabaseConfig `koanf:"database"`
	Auth     AuthConfig     `koanf:"auth"`
	Assets   AssetsConfig   `koanf:"assets"`
	Log      LogConfig      `koanf:"log"`
}

// HTTPConfig configures the HTTP listener.
type HTTPConfig struct {
	Addr            string        `koanf:"addr"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// DatabaseConfig configures the PostgreSQL connection.
type DatabaseConfig struct {
	URL     string `koanf:"url"`
	Migrate bool   `koanf:"migrate"`
}

// AuthConfig configures token issuance.
type AuthConfig struct {
	TokenSecret string        `koanf:"token_secret"`
	TokenTTL    time.Duration `koanf:"token_ttl"`
}

// AssetsConfig configures upload storage.
type AssetsConfig struct {
	Dir string `koanf:"dir"`
}

// LogConfig configures logging output.
type LogConfig struct {
	Format string `koanf:"format"`
}

// Defaults returns the configuration used when nothing else is set.
func Defaults() Config {
	return Config{
		HTTP: HTTPConfig{
			Addr:            ":8080",
			ShutdownTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			Migrate: true,
		},
		Auth: AuthConfig{
			TokenTTL: 24 * time.Hour,
		},
		Assets: AssetsConfig{
			Dir: "uploads",
		},
		Log: LogConfig{
			Format: "json",
		},
	}
}

// RegisterFlags declares the configuration flags. Flag names are the
// dotted koanf keys so posflag can merge them without a mapping table.
func RegisterFlags(f *pflag.FlagSet) {
	d := Defaults()
	f.String("http.addr", d.HTTP.Addr, "HTTP listen address")
	f.Duration("http.shutdown_timeout", d.HTTP.ShutdownTimeout, "graceful shutdown timeout")
	f.String("database.url", "", "PostgreSQL connection URL (default: $DATABASE_URL)")
	f.Bool("database.migrate", d.Database.Migrate, "apply pending migrations on startup")
	f.String("auth.token_secret", "", "token signing secret (default: $TRACKLAB_TOKEN_SECRET)")
	f.Duration("auth.token_ttl", d.Auth.TokenTTL, "access token lifetime")
	f.String("assets.dir", d.Assets.Dir, "upload storage directory")
	f.String("log.format", d.Log.Format, "log format (json or text)")
}

// Load builds the configuration from the optional YAML file at path and
// the given flag set. Secrets absent from both fall back to environment
// variables.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, oops.Code("CONFIG_LOAD_FAILED").With("path", path).Wrap(err)
		}
	}
	if flags != nil {
		if err := k.Load(posflag.Provider(flags, ".", k), nil); err != nil {
			return nil, oops.Code("CONFIG_LOAD_FAILED").With("source", "flags").Wrap(err)
		}
	}

	cfg := Defaults()
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, oops.Code("CONFIG_PARSE_FAILED").Wrap(err)
	}

	if cfg.Database.URL == "" {
		cfg.Database.URL = os.Getenv("DATABASE_URL")
	}
	if cfg.Auth.TokenSecret == "" {
		cfg.Auth.TokenSecret = os.Getenv("TRACKLAB_TOKEN_SECRET")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.HTTP.Addr == "" {
		return oops.Code("CONFIG_INVALID").Errorf("http.addr is required")
	}
	if c.Database.URL == "" {
		return oops.Code("CONFIG_INVALID").Errorf("database.url is required (or set DATABASE_URL)")
	}
	if c.Auth.TokenSecret == "" {
		return oops.Code("CONFIG_INVALID").Errorf("auth.token_secret is required (or set TRACKLAB_TOKEN_SECRET)")
	}
	if c.Auth.TokenTTL <= 0 {
		return oops.Code("CONFIG_INVALID").Errorf("auth.token_ttl must be positive, got %s", c.Auth.TokenTTL)
	}
	if c.Assets.Dir == "" {
		return oops.Code("CONFIG_INVALID").Errorf("assets.dir is required")
	}
	if c.Log.Format != "json" && c.Log.Format != "text" {
		return oops.Code("CONFIG_INVALID").Errorf("log.format must be 'json' or 'text', got %q", c.Log.Format)
	}
	return nil
}
