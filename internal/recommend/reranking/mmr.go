// Anirec - Hybrid Anime Recommendation Engine
// Copyright 2026 Hokuto Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/hokuto-labs/anirec

// Package reranking implements post-processing of ranked
// recommendation lists.
package reranking

import (
	"context"

	"github.com/hokuto-labs/anirec/internal/recommend"
)

// maxRerankSize bounds slice allocations; k is also bounded by
// len(items).
const maxRerankSize = 10000

// MMR implements Maximal Marginal Relevance over genre overlap.
// Selection is greedy:
//
//	mmr(i) = lambda*score(i) - (1-lambda)*max(sim(i,s)) over selected s
//
// where sim is Jaccard over genre sets. lambda 1 is pure relevance,
// lambda 0 pure diversity.
//
// Carbonell & Goldstein, "The Use of MMR, Diversity-Based Reranking for
// Reordering Documents and Producing Summaries", SIGIR 1998.
type MMR struct {
	lambda float64
}

// NewMMR creates an MMR reranker, clamping lambda to [0,1].
func NewMMR(lambda float64) *MMR {
	if lambda < 0 {
		lambda = 0
	}
	if lambda > 1 {
		lambda = 1
	}
	return &MMR{lambda: lambda}
}

// FromStrength maps a diversity strength in [0,1] to an MMR reranker.
// Strength 0 is lambda 1 (no diversification).
func FromStrength(strength float64) recommend.Reranker {
	return NewMMR(1 - strength)
}

// Name returns the reranker identifier.
func (m *MMR) Name() string {
	return "mmr"
}

// Rerank greedily reselects up to k items balancing original score
// against genre similarity to the already selected items. Input items
// must arrive sorted by relevance; the head item is always kept.
func (m *MMR) Rerank(ctx context.Context, items []recommend.ScoredItem, k int) []recommend.ScoredItem {
	if len(items) == 0 {
		return items
	}
	if k <= 0 || k > len(items) {
		k = len(items)
	}
	if k > maxRerankSize {
		k = maxRerankSize
	}
	if m.lambda >= 1 {
		return items[:k]
	}

	genreSets := make([]map[string]struct{}, len(items))
	for i := range items {
		genreSets[i] = items[i].Anime.GenreSet()
	}

	selected := make([]recommend.ScoredItem, 0, k)
	selectedIdx := make([]int, 0, k)
	remaining := make([]int, len(items))
	for i := range items {
		remaining[i] = i
	}

	for len(selected) < k && len(remaining) > 0 {
		if ctx.Err() != nil {
			// Cancelled mid-selection: fall back to the relevance
			// order for the unfilled tail.
			break
		}

		bestPos := 0
		bestScore := mmrScore(items, genreSets, remaining[0], selectedIdx, m.lambda)
		for pos := 1; pos < len(remaining); pos++ {
			s := mmrScore(items, genreSets, remaining[pos], selectedIdx, m.lambda)
			if s > bestScore {
				bestScore = s
				bestPos = pos
			}
		}

		idx := remaining[bestPos]
		selected = append(selected, items[idx])
		selectedIdx = append(selectedIdx, idx)
		remaining = append(remaining[:bestPos], remaining[bestPos+1:]...)
	}

	// Pad from the relevance order when cancelled early.
	for _, idx := range remaining {
		if len(selected) >= k {
			break
		}
		selected = append(selected, items[idx])
	}
	return selected
}

func mmrScore(items []recommend.ScoredItem, genreSets []map[string]struct{}, candidate int, selected []int, lambda float64) float64 {
	relevance := items[candidate].Score

	maxSim := 0.0
	for _, s := range selected {
		if sim := jaccard(genreSets[candidate], genreSets[s]); sim > maxSim {
			maxSim = sim
		}
	}
	return lambda*relevance - (1-lambda)*maxSim
}

func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	if len(b) < len(a) {
		a, b = b, a
	}
	inter := 0
	for k := range a {
		if _, ok := b[k]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	return float64(inter) / float64(union)
}
