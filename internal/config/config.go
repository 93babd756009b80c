// Anirec - Hybrid Anime Recommendation Engine
// Copyright 2026 Hokuto Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/hokuto-labs/anirec

// Package config loads the application configuration: built-in defaults,
// then an optional YAML file, then ANIREC_* environment variables, each
// layer overriding the previous one.
package config

import (
	"fmt"
	"time"

	"github.com/hokuto-labs/anirec/internal/logging"
	"github.com/hokuto-labs/anirec/internal/recommend"
)

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	// RateLimit is requests per minute per client IP. Zero disables.
	RateLimit int `koanf:"rate_limit"`
	// CORSOrigins lists allowed origins; empty disables CORS handling.
	CORSOrigins []string `koanf:"cors_origins"`
}

// Addr returns host:port.
func (s *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// DataConfig points at the CSV exports.
type DataConfig struct {
	CatalogPath string `koanf:"catalog_path"`
	RatingsPath string `koanf:"ratings_path"`
	// SkipOrphans drops ratings referencing unknown anime instead of
	// failing startup.
	SkipOrphans bool `koanf:"skip_orphans"`
}

// SnapshotConfig controls model snapshot persistence.
type SnapshotConfig struct {
	Enabled bool   `koanf:"enabled"`
	Dir     string `koanf:"dir"`
}

// TrainingConfig controls the rebuild scheduler.
type TrainingConfig struct {
	OnStartup bool          `koanf:"on_startup"`
	Interval  time.Duration `koanf:"interval"`
	Timeout   time.Duration `koanf:"timeout"`
}

// Config is the root configuration.
type Config struct {
	Server    ServerConfig     `koanf:"server"`
	Logging   logging.Config   `koanf:"logging"`
	Data      DataConfig       `koanf:"data"`
	Snapshot  SnapshotConfig   `koanf:"snapshot"`
	Training  TrainingConfig   `koanf:"training"`
	Recommend recommend.Config `koanf:"recommend"`
}

// Default returns the built-in defaults.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			RateLimit:       300,
		},
		Logging: logging.DefaultConfig(),
		Data: DataConfig{
			CatalogPath: "data/anime_with_synopsis.csv",
			RatingsPath: "data/rating_complete.csv",
			SkipOrphans: false,
		},
		Snapshot: SnapshotConfig{
			Enabled: false,
			Dir:     "data/snapshots",
		},
		Training: TrainingConfig{
			OnStartup: true,
			Interval:  6 * time.Hour,
			Timeout:   30 * time.Minute,
		},
		Recommend: recommend.DefaultConfig(),
	}
}

// Validate checks the loaded configuration.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("config: server port %d out of range", c.Server.Port)
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("config: shutdown_timeout must be positive, got %v", c.Server.ShutdownTimeout)
	}
	if c.Server.RateLimit < 0 {
		return fmt.Errorf("config: rate_limit must be >= 0, got %d", c.Server.RateLimit)
	}
	if c.Data.CatalogPath == "" || c.Data.RatingsPath == "" {
		return fmt.Errorf("config: catalog_path and ratings_path are required")
	}
	if c.Snapshot.Enabled && c.Snapshot.Dir == "" {
		return fmt.Errorf("config: snapshot dir required when snapshots are enabled")
	}
	if c.Training.Interval <= 0 {
		return fmt.Errorf("config: training interval must be positive, got %v", c.Training.Interval)
	}
	if c.Training.Timeout <= 0 {
		return fmt.Errorf("config: training timeout must be positive, got %v", c.Training.Timeout)
	}
	if err := c.Recommend.Validate(); err != nil {
		return err
	}
	return nil
}
