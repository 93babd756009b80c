// Anirec - Hybrid Anime Recommendation Engine
// Copyright 2026 Hokuto Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/hokuto-labs/anirec

package recommend

import (
	"context"
	"errors"
	"math"
	"sort"
	"sync"
	"time"
)

// Interface compliance checks.
var (
	_ Engine = (*CollaborativeEngine)(nil)
	_ Engine = (*ContentEngine)(nil)
	_ Engine = (*PopularityEngine)(nil)
)

// baseEngine carries the bookkeeping every engine shares.
type baseEngine struct {
	name string

	mu            sync.RWMutex
	trained       bool
	lastTrainedAt time.Time
}

func newBaseEngine(name string) baseEngine {
	return baseEngine{name: name}
}

func (b *baseEngine) Name() string { return b.name }

func (b *baseEngine) IsTrained() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.trained
}

func (b *baseEngine) LastTrainedAt() time.Time {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lastTrainedAt
}

func (b *baseEngine) markTrained() {
	b.mu.Lock()
	b.trained = true
	b.lastTrainedAt = time.Now()
	b.mu.Unlock()
}

// contextCancelled reports whether ctx is done without blocking.
func contextCancelled(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}

func ctxErr(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return errors.New("recommend: context cancelled")
}

// cosineSimilarity computes cosine over the overlapping keys of two
// sparse vectors. Both self-similarity and symmetry hold: cos(a,a)=1 for
// any non-zero a, and cos(a,b)=cos(b,a).
func cosineSimilarity(a, b map[int]float64) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	// Iterate the smaller map.
	if len(b) < len(a) {
		a, b = b, a
	}

	var dot float64
	for k, av := range a {
		if bv, ok := b[k]; ok {
			dot += av * bv
		}
	}
	if dot == 0 {
		return 0
	}

	var normA, normB float64
	for _, v := range a {
		normA += v * v
	}
	for _, v := range b {
		normB += v * v
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// cosineOverCommon computes cosine using only the jointly rated items,
// returning the overlap size. This is the collaborative similarity: two
// users who agree on the few titles they share are similar regardless of
// how much else each has rated.
func cosineOverCommon(a, b map[int]float64) (sim float64, common int) {
	if len(b) < len(a) {
		a, b = b, a
	}

	var dot, normA, normB float64
	for k, av := range a {
		bv, ok := b[k]
		if !ok {
			continue
		}
		common++
		dot += av * bv
		normA += av * av
		normB += bv * bv
	}
	if common == 0 || normA == 0 || normB == 0 {
		return 0, common
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), common
}

// jaccardSimilarity over two string sets.
func jaccardSimilarity(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
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
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

// normalizeScores min-max scales values into [0,1]. When all values are
// equal every entry maps to 0.5 so the component still contributes a
// neutral signal to the blend.
func normalizeScores(scores map[int]float64) map[int]float64 {
	if len(scores) == 0 {
		return scores
	}

	minV := math.Inf(1)
	maxV := math.Inf(-1)
	for _, v := range scores {
		if v < minV {
			minV = v
		}
		if v > maxV {
			maxV = v
		}
	}

	out := make(map[int]float64, len(scores))
	if maxV == minV {
		for k := range scores {
			out[k] = 0.5
		}
		return out
	}
	span := maxV - minV
	for k, v := range scores {
		out[k] = (v - minV) / span
	}
	return out
}

// topKByScore returns the k highest-scoring IDs. Ties break toward the
// more popular title, then the lower ID, so rankings are stable across
// runs.
func topKByScore(scores map[int]float64, k int, popularity func(id int) int) []int {
	ids := make([]int, 0, len(scores))
	for id := range scores {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		si, sj := scores[ids[i]], scores[ids[j]]
		if si != sj {
			return si > sj
		}
		pi, pj := popularity(ids[i]), popularity(ids[j])
		if pi != pj {
			return pi > pj
		}
		return ids[i] < ids[j]
	})
	if k > 0 && len(ids) > k {
		ids = ids[:k]
	}
	return ids
}
