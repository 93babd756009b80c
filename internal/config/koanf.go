// Anirec - Hybrid Anime Recommendation Engine
// Copyright 2026 Hokuto Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/hokuto-labs/anirec

package config

import (
	"fmt"
	"os"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths are probed in order when CONFIG_PATH is unset.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config/config.yaml",
	"/etc/anirec/config.yaml",
}

// envKeyMap translates ANIREC_* environment variables to config paths.
// Unmapped variables are ignored; this keeps unrelated environment noise
// out of the config tree.
var envKeyMap = map[string]string{
	"ANIREC_SERVER_HOST":              "server.host",
	"ANIREC_SERVER_PORT":              "server.port",
	"ANIREC_SERVER_RATE_LIMIT":        "server.rate_limit",
	"ANIREC_SERVER_CORS_ORIGINS":      "server.cors_origins",
	"ANIREC_LOG_LEVEL":                "logging.level",
	"ANIREC_LOG_FORMAT":               "logging.format",
	"ANIREC_DATA_CATALOG_PATH":        "data.catalog_path",
	"ANIREC_DATA_RATINGS_PATH":        "data.ratings_path",
	"ANIREC_DATA_SKIP_ORPHANS":        "data.skip_orphans",
	"ANIREC_SNAPSHOT_ENABLED":         "snapshot.enabled",
	"ANIREC_SNAPSHOT_DIR":             "snapshot.dir",
	"ANIREC_TRAINING_ON_STARTUP":      "training.on_startup",
	"ANIREC_TRAINING_INTERVAL":        "training.interval",
	"ANIREC_RECOMMEND_NEIGHBOR_K":     "recommend.collaborative.neighbor_k",
	"ANIREC_RECOMMEND_SAMPLE_BUDGET":  "recommend.collaborative.user_sample_budget",
	"ANIREC_RECOMMEND_MIN_RATINGS":    "recommend.min_ratings_for_personalization",
	"ANIREC_RECOMMEND_SEED":           "recommend.seed",
	"ANIREC_RECOMMEND_DIVERSITY":      "recommend.diversity.strength",
	"ANIREC_RECOMMEND_ALPHA_STRATEGY": "recommend.alpha_strategy",
}

// Load builds the configuration from defaults, an optional YAML file and
// the environment.
func Load() (*Config, error) {
	k := koanf.New(".")

	defaults := Default()
	if err := k.Load(structs.Provider(defaults, "koanf"), nil); err != nil {
		return nil, fmt.Errorf("config: load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("config: load %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("ANIREC_", ".", func(key string) string {
		return envKeyMap[key]
	}), nil); err != nil {
		return nil, fmt.Errorf("config: load environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// findConfigFile honors CONFIG_PATH, then probes the default locations.
func findConfigFile() string {
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		return path
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
