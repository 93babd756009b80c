// Anirec - Hybrid Anime Recommendation Engine
// Copyright 2026 Hokuto Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/hokuto-labs/anirec

package recommend

import (
	"fmt"
	"time"
)

// AlphaParams shape the rating-density blend weight:
// alpha = min(Max, Min + Slope*log(1+n)) where n is the user's rating
// count. Users below MinRatingsForPersonalization get alpha 0.
type AlphaParams struct {
	Min   float64 `koanf:"min"`
	Max   float64 `koanf:"max"`
	Slope float64 `koanf:"slope"`
}

// AlphaStrategy selects how the hybrid blend weight is derived.
type AlphaStrategy string

const (
	// AlphaDensity derives alpha from the user's rating count.
	AlphaDensity AlphaStrategy = "density"
	// AlphaVariance derives alpha from the spread of the user's
	// ratings: uniform raters lean on content, opinionated raters on
	// collaborative.
	AlphaVariance AlphaStrategy = "variance"
)

// CollaborativeConfig tunes the user-user CF engine.
type CollaborativeConfig struct {
	// NeighborK is the number of most-similar users consulted per
	// prediction.
	NeighborK int `koanf:"neighbor_k"`
	// UserSampleBudget caps how many users enter the similarity pool.
	// Zero means all users.
	UserSampleBudget int `koanf:"user_sample_budget"`
	// MinCommonItems is the minimum jointly rated titles for a
	// similarity to count.
	MinCommonItems int `koanf:"min_common_items"`
	// Shrinkage regularizes similarities computed on little overlap:
	// sim *= n/(n+shrinkage). Zero disables.
	Shrinkage float64 `koanf:"shrinkage"`
	// NumWorkers bounds similarity precompute parallelism. Zero means
	// GOMAXPROCS.
	NumWorkers int `koanf:"num_workers"`
}

// ContentConfig tunes the TF-IDF content engine.
type ContentConfig struct {
	// SeedThreshold is the minimum rating for a title to contribute to
	// the user's taste profile.
	SeedThreshold float64 `koanf:"seed_threshold"`
	// MaxFeatures caps the TF-IDF vocabulary by document frequency.
	// Zero means unlimited.
	MaxFeatures int `koanf:"max_features"`
}

// DiversityConfig tunes the MMR genre-diversity reranker.
type DiversityConfig struct {
	// Strength in [0,1]; 0 disables reranking, 1 is maximum diversity.
	Strength float64 `koanf:"strength"`
}

// LimitsConfig bounds request shapes.
type LimitsConfig struct {
	DefaultK          int           `koanf:"default_k"`
	MaxK              int           `koanf:"max_k"`
	MaxCandidates     int           `koanf:"max_candidates"`
	PredictionTimeout time.Duration `koanf:"prediction_timeout"`
}

// CacheConfig tunes the response cache.
type CacheConfig struct {
	Enabled           bool          `koanf:"enabled"`
	TTL               time.Duration `koanf:"ttl"`
	MaxEntries        int           `koanf:"max_entries"`
	InvalidateOnTrain bool          `koanf:"invalidate_on_train"`
}

// Config is the central tuning surface for the recommendation service.
type Config struct {
	Collaborative CollaborativeConfig `koanf:"collaborative"`
	Content       ContentConfig       `koanf:"content"`
	Diversity     DiversityConfig     `koanf:"diversity"`
	Limits        LimitsConfig        `koanf:"limits"`
	Cache         CacheConfig         `koanf:"cache"`

	// MinRatingsForPersonalization is the cold-start boundary: users
	// with fewer ratings get the popularity fallback.
	MinRatingsForPersonalization int `koanf:"min_ratings_for_personalization"`

	AlphaStrategy AlphaStrategy `koanf:"alpha_strategy"`
	Alpha         AlphaParams   `koanf:"alpha"`

	// Seed drives user sampling; a fixed seed keeps rebuilds
	// reproducible on identical data.
	Seed int64 `koanf:"seed"`
}

// DefaultConfig returns production defaults.
func DefaultConfig() Config {
	return Config{
		Collaborative: CollaborativeConfig{
			NeighborK:        40,
			UserSampleBudget: 10000,
			MinCommonItems:   3,
			Shrinkage:        10,
			NumWorkers:       0,
		},
		Content: ContentConfig{
			SeedThreshold: 7.0,
			MaxFeatures:   1000,
		},
		Diversity: DiversityConfig{
			Strength: 0,
		},
		Limits: LimitsConfig{
			DefaultK:          10,
			MaxK:              100,
			MaxCandidates:     5000,
			PredictionTimeout: 10 * time.Second,
		},
		Cache: CacheConfig{
			Enabled:           true,
			TTL:               5 * time.Minute,
			MaxEntries:        10000,
			InvalidateOnTrain: true,
		},
		MinRatingsForPersonalization: 5,
		AlphaStrategy:                AlphaDensity,
		Alpha: AlphaParams{
			Min:   0.3,
			Max:   0.8,
			Slope: 0.1,
		},
		Seed: 42,
	}
}

// Validate checks internal consistency.
func (c *Config) Validate() error {
	if c.Collaborative.NeighborK <= 0 {
		return fmt.Errorf("recommend config: neighbor_k must be positive, got %d", c.Collaborative.NeighborK)
	}
	if c.Collaborative.UserSampleBudget < 0 {
		return fmt.Errorf("recommend config: user_sample_budget must be >= 0, got %d", c.Collaborative.UserSampleBudget)
	}
	if c.Collaborative.MinCommonItems < 1 {
		return fmt.Errorf("recommend config: min_common_items must be >= 1, got %d", c.Collaborative.MinCommonItems)
	}
	if c.Collaborative.Shrinkage < 0 {
		return fmt.Errorf("recommend config: shrinkage must be >= 0, got %.2f", c.Collaborative.Shrinkage)
	}
	if c.Content.SeedThreshold < 1 || c.Content.SeedThreshold > 10 {
		return fmt.Errorf("recommend config: seed_threshold must be in [1,10], got %.2f", c.Content.SeedThreshold)
	}
	if c.Content.MaxFeatures < 0 {
		return fmt.Errorf("recommend config: max_features must be >= 0, got %d", c.Content.MaxFeatures)
	}
	if c.Diversity.Strength < 0 || c.Diversity.Strength > 1 {
		return fmt.Errorf("recommend config: diversity strength must be in [0,1], got %.2f", c.Diversity.Strength)
	}
	if c.Limits.DefaultK <= 0 || c.Limits.MaxK <= 0 {
		return fmt.Errorf("recommend config: default_k and max_k must be positive")
	}
	if c.Limits.DefaultK > c.Limits.MaxK {
		return fmt.Errorf("recommend config: default_k %d exceeds max_k %d", c.Limits.DefaultK, c.Limits.MaxK)
	}
	if c.Limits.PredictionTimeout <= 0 {
		return fmt.Errorf("recommend config: prediction_timeout must be positive, got %v", c.Limits.PredictionTimeout)
	}
	if c.MinRatingsForPersonalization < 0 {
		return fmt.Errorf("recommend config: min_ratings_for_personalization must be >= 0, got %d", c.MinRatingsForPersonalization)
	}
	switch c.AlphaStrategy {
	case AlphaDensity, AlphaVariance:
	default:
		return fmt.Errorf("recommend config: unknown alpha strategy %q", c.AlphaStrategy)
	}
	if c.Alpha.Min < 0 || c.Alpha.Max > 1 || c.Alpha.Min > c.Alpha.Max {
		return fmt.Errorf("recommend config: alpha bounds [%.2f,%.2f] invalid", c.Alpha.Min, c.Alpha.Max)
	}
	if c.Alpha.Slope < 0 {
		return fmt.Errorf("recommend config: alpha slope must be >= 0, got %.2f", c.Alpha.Slope)
	}
	if c.Cache.Enabled {
		if c.Cache.TTL <= 0 {
			return fmt.Errorf("recommend config: cache ttl must be positive, got %v", c.Cache.TTL)
		}
		if c.Cache.MaxEntries <= 0 {
			return fmt.Errorf("recommend config: cache max_entries must be positive, got %d", c.Cache.MaxEntries)
		}
	}
	return nil
}

// Clone returns a deep copy.
func (c *Config) Clone() Config {
	return *c
}
