// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package config loads and validates the YAML configuration file
// which locates the PostgreSQL server, selects the logging verbosity,
// and tunes the scenario delay unit. The configuration is versioned
// together with the repository itself; no multi-version settings
// migration is required for a demonstration harness.
package config

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/momeni/isolation-levels/pkg/adapter/config/settings"
	"github.com/momeni/isolation-levels/pkg/adapter/db/postgres"
	"gopkg.in/yaml.v3"
)

// Config contains all settings which are required by different parts
// of the project, such as adapters or use cases. It is preferred to
// implement Config with primitive fields or other structs which are
// defined locally, not models or structs which are defined in lower
// layers, so other layers can change freely.
type Config struct {
	Database  Database  `yaml:"database"`
	Log       Log       `yaml:"log"`
	Scenarios Scenarios `yaml:"scenarios"`
}

// Database contains the PostgreSQL database connection settings.
type Database struct {
	Host     string `yaml:"host" validate:"required"`
	Port     int    `yaml:"port" validate:"required,min=1,max=65535"`
	Name     string `yaml:"name" validate:"required"`
	User     string `yaml:"user" validate:"required"`
	Password string `yaml:"pass"`

	// SSLMode is passed through as the sslmode connection parameter.
	// The empty value is normalized to disable, as suits a local
	// demonstration server.
	SSLMode string `yaml:"ssl-mode" validate:"omitempty,oneof=disable require verify-ca verify-full"`
}

// Log contains the logging settings.
type Log struct {
	// Level selects the minimum severity of the emitted log records.
	Level string `yaml:"level" validate:"omitempty,oneof=debug info warn error"`
}

// Scenarios contains the anomaly scenario runner settings.
type Scenarios struct {
	// DelayUnit stretches or shrinks all sleep offsets which force
	// the scenario interleavings. A nil value keeps the default unit
	// of the scenario use case (100ms). Slow environments may need a
	// larger unit to keep the documented interleavings reproducible.
	DelayUnit *settings.Duration `yaml:"delay-unit"`
}

// Load reads the YAML file at the path location, decodes it into a
// Config instance, validates it, and normalizes its missing optional
// fields to their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %q: %w", path, err)
	}
	c := &Config{}
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("unmarshalling yaml: %w", err)
	}
	if err := c.ValidateAndNormalize(); err != nil {
		return nil, fmt.Errorf("validating configs: %w", err)
	}
	return c, nil
}

// ValidateAndNormalize validates the configuration settings and
// updates them as needed, replacing the absent optional settings
// with their default values.
func (c *Config) ValidateAndNormalize() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	return nil
}

// URL builds the PostgreSQL connection string out of the database
// connection settings, quoting the user-provided components properly.
func (d Database) URL() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     d.Host + ":" + strconv.Itoa(d.Port),
		Path:     "/" + d.Name,
		RawQuery: "sslmode=" + d.SSLMode,
	}
	return u.String()
}

// SetupLogger installs a text handler writing to the standard error
// stream at the configured level as the default slog logger.
func (l Log) SetupLogger() error {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return fmt.Errorf("parsing log level %q: %w", l.Level, err)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(
		os.Stderr, &slog.HandlerOptions{Level: level},
	)))
	return nil
}

// ConnectionPool creates a database connection pool using the
// connection information which are kept in the `c` settings. The
// concrete pool type is returned, so the caller can close it; use
// cases should observe it through the repo.Pool interface.
func (c *Config) ConnectionPool(ctx context.Context) (*postgres.Pool, error) {
	p, err := postgres.NewPool(ctx, c.Database.URL())
	if err != nil {
		return nil, fmt.Errorf("creating DB pool: %w", err)
	}
	return p, nil
}
