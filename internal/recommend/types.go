// Anirec - Hybrid Anime Recommendation Engine
// Copyright 2026 Hokuto Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/hokuto-labs/anirec

package recommend

import (
	"context"
	"time"

	"github.com/hokuto-labs/anirec/internal/catalog"
	"github.com/hokuto-labs/anirec/internal/ratings"
)

// Mode selects which engine combination serves a request.
type Mode string

const (
	ModeCollaborative Mode = "collaborative"
	ModeContent       Mode = "content"
	ModeHybrid        Mode = "hybrid"
)

// Valid reports whether the mode is one of the supported values.
func (m Mode) Valid() bool {
	switch m {
	case ModeCollaborative, ModeContent, ModeHybrid:
		return true
	}
	return false
}

// Request is a recommendation query.
type Request struct {
	UserID int
	// K is the number of items to return. Zero means the configured
	// default.
	K    int
	Mode Mode
	// Diversity overrides the configured diversity strength when
	// non-nil. Range [0,1]; 0 disables reranking.
	Diversity *float64
}

// ScoredItem is one ranked recommendation.
type ScoredItem struct {
	Anime *catalog.Anime `json:"anime"`
	Score float64        `json:"score"`
	// Scores holds the per-component contributions keyed by engine name.
	Scores map[string]float64 `json:"scores,omitempty"`
	Reason string             `json:"reason,omitempty"`
}

// ResponseMeta describes how a response was produced.
type ResponseMeta struct {
	RequestID       string        `json:"request_id"`
	Mode            Mode          `json:"mode"`
	Alpha           float64       `json:"alpha"`
	ColdStart       bool          `json:"cold_start"`
	SampleTruncated bool          `json:"sample_truncated"`
	CacheHit        bool          `json:"cache_hit"`
	ModelVersion    int64         `json:"model_version"`
	Duration        time.Duration `json:"duration_ms"`
}

// Response is a ranked recommendation list plus provenance metadata.
type Response struct {
	Items []ScoredItem `json:"items"`
	Meta  ResponseMeta `json:"meta"`
}

// Engine produces per-anime scores for a user. Engines are trained once
// per rebuild and are immutable afterwards.
type Engine interface {
	// Name identifies the engine in score breakdowns and logs.
	Name() string

	// Train builds the engine's model from the catalog and matrix.
	Train(ctx context.Context, cat *catalog.Catalog, m *ratings.Matrix) error

	// Score returns raw scores for candidate anime IDs. Missing keys
	// mean the engine has no opinion on that candidate.
	Score(ctx context.Context, userID int, candidates []int) (map[int]float64, error)

	// IsTrained reports whether Train completed.
	IsTrained() bool

	// LastTrainedAt returns when Train last completed.
	LastTrainedAt() time.Time
}

// Reranker reorders a scored list as a post-processing step.
type Reranker interface {
	Name() string
	Rerank(ctx context.Context, items []ScoredItem, k int) []ScoredItem
}

// RerankerFactory builds a reranker for a given diversity strength in
// [0,1]. The service calls it per request so clients can override the
// configured strength.
type RerankerFactory func(strength float64) Reranker

// TrainingStatus is a snapshot of the most recent rebuild.
type TrainingStatus struct {
	InProgress   bool          `json:"in_progress"`
	LastStarted  time.Time     `json:"last_started"`
	LastFinished time.Time     `json:"last_finished"`
	LastDuration time.Duration `json:"last_duration"`
	LastError    string        `json:"last_error,omitempty"`
	ModelVersion int64         `json:"model_version"`
}
