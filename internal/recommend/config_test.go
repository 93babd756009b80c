// Anirec - Hybrid Anime Recommendation Engine
// Copyright 2026 Hokuto Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/hokuto-labs/anirec

package recommend

import "testing"

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "defaults valid", mutate: func(c *Config) {}, wantErr: false},
		{name: "zero neighbor k", mutate: func(c *Config) { c.Collaborative.NeighborK = 0 }, wantErr: true},
		{name: "negative sample budget", mutate: func(c *Config) { c.Collaborative.UserSampleBudget = -1 }, wantErr: true},
		{name: "zero min common items", mutate: func(c *Config) { c.Collaborative.MinCommonItems = 0 }, wantErr: true},
		{name: "seed threshold above scale", mutate: func(c *Config) { c.Content.SeedThreshold = 11 }, wantErr: true},
		{name: "diversity above one", mutate: func(c *Config) { c.Diversity.Strength = 1.5 }, wantErr: true},
		{name: "default k above max k", mutate: func(c *Config) { c.Limits.DefaultK = 500 }, wantErr: true},
		{name: "zero prediction timeout", mutate: func(c *Config) { c.Limits.PredictionTimeout = 0 }, wantErr: true},
		{name: "bad alpha strategy", mutate: func(c *Config) { c.AlphaStrategy = "psychic" }, wantErr: true},
		{name: "alpha min above max", mutate: func(c *Config) { c.Alpha.Min = 0.9; c.Alpha.Max = 0.5 }, wantErr: true},
		{name: "cache enabled with zero ttl", mutate: func(c *Config) { c.Cache.TTL = 0 }, wantErr: true},
		{name: "cache disabled ignores ttl", mutate: func(c *Config) { c.Cache.Enabled = false; c.Cache.TTL = 0 }, wantErr: false},
		{name: "variance strategy valid", mutate: func(c *Config) { c.AlphaStrategy = AlphaVariance }, wantErr: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfigClone(t *testing.T) {
	cfg := DefaultConfig()
	clone := cfg.Clone()
	clone.Collaborative.NeighborK = 1

	if cfg.Collaborative.NeighborK == 1 {
		t.Error("Clone() shares state with the original")
	}
}
