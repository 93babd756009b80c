// Anirec - Hybrid Anime Recommendation Engine
// Copyright 2026 Hokuto Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/hokuto-labs/anirec

package recommend

import (
	"math"
)

// alphaForUser computes the hybrid blend weight for a user's rating row.
// alpha weights the collaborative component; 1-alpha the content
// component.
func alphaForUser(cfg *Config, row map[int]float64) float64 {
	n := len(row)
	if n < cfg.MinRatingsForPersonalization {
		return 0
	}

	switch cfg.AlphaStrategy {
	case AlphaVariance:
		return alphaFromVariance(row)
	default:
		return alphaFromDensity(cfg.Alpha, n)
	}
}

// alphaFromDensity grows alpha logarithmically with the rating count,
// clamped to [Min,Max]. More ratings mean the neighbor signal is more
// trustworthy.
func alphaFromDensity(p AlphaParams, n int) float64 {
	alpha := p.Min + p.Slope*math.Log(1+float64(n))
	if alpha > p.Max {
		return p.Max
	}
	if alpha < p.Min {
		return p.Min
	}
	return alpha
}

// alphaFromVariance keys alpha off the spread of the user's scores.
// Users who rate everything the same carry little collaborative signal,
// so content dominates; opinionated raters get the opposite.
func alphaFromVariance(row map[int]float64) float64 {
	if len(row) == 0 {
		return 0
	}

	var sum float64
	for _, r := range row {
		sum += r
	}
	mean := sum / float64(len(row))

	var ss float64
	for _, r := range row {
		d := r - mean
		ss += d * d
	}
	std := math.Sqrt(ss / float64(len(row)))

	switch {
	case std < 1.0:
		return 0.3
	case std > 2.0:
		return 0.8
	default:
		return 0.6
	}
}

// blendScores min-max normalizes each component and combines them:
// final = alpha*collab + (1-alpha)*content. A candidate missing from one
// component contributes only through the other.
func blendScores(collab, content map[int]float64, alpha float64) (final map[int]float64, breakdown map[int]map[string]float64) {
	collabNorm := normalizeScores(collab)
	contentNorm := normalizeScores(content)

	final = make(map[int]float64, len(collabNorm)+len(contentNorm))
	breakdown = make(map[int]map[string]float64, len(final))

	add := func(id int) map[string]float64 {
		parts, ok := breakdown[id]
		if !ok {
			parts = make(map[string]float64, 2)
			breakdown[id] = parts
		}
		return parts
	}

	for id, v := range collabNorm {
		final[id] += alpha * v
		add(id)["collaborative"] = v
	}
	for id, v := range contentNorm {
		final[id] += (1 - alpha) * v
		add(id)["content"] = v
	}
	return final, breakdown
}
