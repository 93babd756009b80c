// Anirec - Hybrid Anime Recommendation Engine
// Copyright 2026 Hokuto Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/hokuto-labs/anirec

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultValidates(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() error = %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "defaults ok", mutate: func(c *Config) {}, wantErr: false},
		{name: "bad port", mutate: func(c *Config) { c.Server.Port = 0 }, wantErr: true},
		{name: "negative rate limit", mutate: func(c *Config) { c.Server.RateLimit = -1 }, wantErr: true},
		{name: "missing catalog path", mutate: func(c *Config) { c.Data.CatalogPath = "" }, wantErr: true},
		{name: "snapshot enabled without dir", mutate: func(c *Config) { c.Snapshot.Enabled = true; c.Snapshot.Dir = "" }, wantErr: true},
		{name: "zero training interval", mutate: func(c *Config) { c.Training.Interval = 0 }, wantErr: true},
		{name: "invalid recommend config", mutate: func(c *Config) { c.Recommend.Collaborative.NeighborK = -1 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadLayering(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
server:
  port: 9000
recommend:
  collaborative:
    neighbor_k: 25
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	t.Setenv("CONFIG_PATH", path)
	t.Setenv("ANIREC_SERVER_HOST", "127.0.0.1")
	t.Setenv("ANIREC_RECOMMEND_MIN_RATINGS", "9")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	// File overrides defaults.
	if cfg.Server.Port != 9000 {
		t.Errorf("port = %d, want 9000 from file", cfg.Server.Port)
	}
	if cfg.Recommend.Collaborative.NeighborK != 25 {
		t.Errorf("neighbor_k = %d, want 25 from file", cfg.Recommend.Collaborative.NeighborK)
	}
	// Environment overrides both.
	if cfg.Server.Host != "127.0.0.1" {
		t.Errorf("host = %q, want env override", cfg.Server.Host)
	}
	if cfg.Recommend.MinRatingsForPersonalization != 9 {
		t.Errorf("min ratings = %d, want 9 from env", cfg.Recommend.MinRatingsForPersonalization)
	}
	// Untouched values keep defaults.
	if cfg.Training.Interval != Default().Training.Interval {
		t.Errorf("training interval = %v, want default", cfg.Training.Interval)
	}
}

func TestLoadUnmappedEnvIgnored(t *testing.T) {
	t.Setenv("ANIREC_TOTALLY_UNKNOWN", "boom")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != Default().Server.Port {
		t.Errorf("unmapped env should not alter config")
	}
}
