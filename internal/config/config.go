// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ceremo Contributors

// Package config loads service configuration from defaults, an optional
// YAML file, PARTNERAUTH_* environment variables, and command-line flags,
// in ascending order of precedence.
package config

import (
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"
)

// envPrefix namespaces environment variables. A double underscore in a
// variable name separates config levels, so PARTNERAUTH_AUTH__JWT_SECRET
// maps to auth.jwt_secret.
const envPrefix = "PARTNERAUTH_"

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr            string        `koanf:"addr"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// AuthConfig holds token and password policy settings.
type AuthConfig struct {
	JWTSecret            string `koanf:"jwt_secret"`
	TokenExpiryHours     int    `koanf:"token_expiry_hours"`
	RefreshExpiryHours   int    `koanf:"refresh_expiry_hours"`
	MinPasswordLength    int    `koanf:"min_password_length"`
	RememberMeMultiplier int    `koanf:"remember_me_multiplier"`
}

// Config is the root service configuration.
type Config struct {
	Server      ServerConfig `koanf:"server"`
	MetricsAddr string       `koanf:"metrics_addr"`
	DatabaseURL string       `koanf:"database_url"`
	Auth        AuthConfig   `koanf:"auth"`
	LogFormat   string       `koanf:"log_format"`
	CORSOrigin  string       `koanf:"cors_origin"`
}

func defaults() map[string]any {
	return map[string]any{
		"server.addr":                 ":8080",
		"server.read_timeout":         "10s",
		"server.write_timeout":        "10s",
		"server.idle_timeout":         "60s",
		"server.shutdown_timeout":     "15s",
		"metrics_addr":                ":9090",
		"auth.token_expiry_hours":     24,
		"auth.refresh_expiry_hours":   720,
		"auth.min_password_length":    8,
		"auth.remember_me_multiplier": 24,
		"log_format":                  "json",
		"cors_origin":                 "*",
	}
}

// Load builds the configuration. path names an optional YAML file; an
// empty path skips file loading. flags may be nil. Flag names must match
// koanf keys (e.g. "database_url", "server.addr").
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, oops.Code("CONFIG_DEFAULTS_FAILED").Wrap(err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, oops.Code("CONFIG_FILE_FAILED").With("path", path).Wrap(err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", envToKey), nil); err != nil {
		return nil, oops.Code("CONFIG_ENV_FAILED").Wrap(err)
	}

	if flags != nil {
		if err := k.Load(posflag.Provider(flags, ".", k), nil); err != nil {
			return nil, oops.Code("CONFIG_FLAGS_FAILED").Wrap(err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, oops.Code("CONFIG_UNMARSHAL_FAILED").Wrap(err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func envToKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, envPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

// Validate checks that the configuration is complete enough to start the
// service.
func (c *Config) Validate() error {
	errb := oops.Code("CONFIG_INVALID")

	if c.Server.Addr == "" {
		return errb.With("field", "server.addr").Errorf("server address must not be empty")
	}
	if c.DatabaseURL == "" {
		return errb.With("field", "database_url").Errorf("database URL must not be empty")
	}
	if c.Auth.JWTSecret == "" {
		return errb.With("field", "auth.jwt_secret").Errorf("JWT secret must not be empty")
	}
	if c.Auth.TokenExpiryHours <= 0 {
		return errb.With("field", "auth.token_expiry_hours").
			Errorf("token expiry hours must be positive, got %d", c.Auth.TokenExpiryHours)
	}
	if c.Auth.RefreshExpiryHours <= 0 {
		return errb.With("field", "auth.refresh_expiry_hours").
			Errorf("refresh expiry hours must be positive, got %d", c.Auth.RefreshExpiryHours)
	}
	if c.Auth.MinPasswordLength < 1 {
		return errb.With("field", "auth.min_password_length").
			Errorf("minimum password length must be at least 1, got %d", c.Auth.MinPasswordLength)
	}
	if c.Auth.RememberMeMultiplier < 1 {
		return errb.With("field", "auth.remember_me_multiplier").
			Errorf("remember-me multiplier must be at least 1, got %d", c.Auth.RememberMeMultiplier)
	}
	if c.LogFormat != "json" && c.LogFormat != "text" {
		return errb.With("field", "log_format").
			Errorf("log format must be json or text, got %q", c.LogFormat)
	}
	return nil
}
