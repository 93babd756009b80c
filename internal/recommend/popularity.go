// Anirec - Hybrid Anime Recommendation Engine
// Copyright 2026 Hokuto Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/hokuto-labs/anirec

package recommend

import (
	"context"

	"github.com/hokuto-labs/anirec/internal/catalog"
	"github.com/hokuto-labs/anirec/internal/ratings"
)

// PopularityEngine scores every title by mean score damped by audience
// size. It is the cold-start fallback and serves the popular listing.
type PopularityEngine struct {
	baseEngine

	scores map[int]float64
	ranked []int
}

// NewPopularityEngine returns an untrained popularity engine.
func NewPopularityEngine() *PopularityEngine {
	return &PopularityEngine{baseEngine: newBaseEngine("popularity")}
}

// Train precomputes popularity scores and a global ranking.
func (p *PopularityEngine) Train(ctx context.Context, cat *catalog.Catalog, _ *ratings.Matrix) error {
	if contextCancelled(ctx) {
		return ctxErr(ctx)
	}
	if cat.Len() == 0 {
		return &catalog.EmptyCatalogError{}
	}

	scores := make(map[int]float64, cat.Len())
	for _, a := range cat.All() {
		scores[a.ID] = a.PopularityScore()
	}

	p.scores = scores
	p.ranked = topKByScore(scores, 0, func(id int) int {
		a, _ := cat.Get(id)
		return a.Members
	})
	p.markTrained()
	return nil
}

// Score returns popularity scores for the candidates. The same for every
// user.
func (p *PopularityEngine) Score(ctx context.Context, _ int, candidates []int) (map[int]float64, error) {
	if !p.IsTrained() {
		return nil, ErrNotTrained
	}
	if contextCancelled(ctx) {
		return nil, ctxErr(ctx)
	}

	out := make(map[int]float64, len(candidates))
	for _, id := range candidates {
		if s, ok := p.scores[id]; ok {
			out[id] = s
		}
	}
	return out, nil
}

// TopK returns the k globally most popular anime IDs.
func (p *PopularityEngine) TopK(k int) []int {
	if !p.IsTrained() {
		return nil
	}
	if k <= 0 || k > len(p.ranked) {
		k = len(p.ranked)
	}
	out := make([]int, k)
	copy(out, p.ranked[:k])
	return out
}
