// Anirec - Hybrid Anime Recommendation Engine
// Copyright 2026 Hokuto Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/hokuto-labs/anirec

package recommend

import (
	"math"
	"testing"
)

func TestAlphaFromDensity(t *testing.T) {
	p := AlphaParams{Min: 0.3, Max: 0.8, Slope: 0.1}

	prev := 0.0
	for _, n := range []int{1, 5, 20, 100, 1000, 100000} {
		alpha := alphaFromDensity(p, n)
		if alpha < p.Min || alpha > p.Max {
			t.Errorf("alpha(%d) = %v outside [%v,%v]", n, alpha, p.Min, p.Max)
		}
		if alpha < prev {
			t.Errorf("alpha not monotone at n=%d: %v < %v", n, alpha, prev)
		}
		prev = alpha
	}

	if alpha := alphaFromDensity(p, 100000); alpha != p.Max {
		t.Errorf("alpha should saturate at Max, got %v", alpha)
	}
}

func TestAlphaForUserColdStart(t *testing.T) {
	cfg := testConfig()
	cfg.MinRatingsForPersonalization = 3

	sparse := map[int]float64{1: 8, 2: 7}
	if alpha := alphaForUser(&cfg, sparse); alpha != 0 {
		t.Errorf("below-threshold user alpha = %v, want 0", alpha)
	}

	dense := map[int]float64{1: 8, 2: 7, 3: 9}
	if alpha := alphaForUser(&cfg, dense); alpha <= 0 {
		t.Errorf("at-threshold user alpha = %v, want > 0", alpha)
	}
}

func TestAlphaFromVariance(t *testing.T) {
	tests := []struct {
		name string
		row  map[int]float64
		want float64
	}{
		{name: "uniform rater leans content", row: map[int]float64{1: 7, 2: 7, 3: 7}, want: 0.3},
		{name: "opinionated rater leans collaborative", row: map[int]float64{1: 1, 2: 10, 3: 1, 4: 10}, want: 0.8},
		{name: "moderate spread", row: map[int]float64{1: 5, 2: 7, 3: 8, 4: 9}, want: 0.6},
		{name: "empty", row: map[int]float64{}, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := alphaFromVariance(tt.row); got != tt.want {
				t.Errorf("alphaFromVariance() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBlendScores(t *testing.T) {
	collab := map[int]float64{1: 2, 2: 6, 3: 10}
	content := map[int]float64{2: 0.1, 3: 0.5, 4: 0.9}

	final, breakdown := blendScores(collab, content, 0.6)

	for id, v := range final {
		if v < 0 || v > 1+1e-9 {
			t.Errorf("final[%d] = %v outside [0,1]", id, v)
		}
	}
	// Item 3 tops both components.
	for id, v := range final {
		if id != 3 && v >= final[3] {
			t.Errorf("final[%d]=%v should be below final[3]=%v", id, v, final[3])
		}
	}
	// Item 1 only has a collaborative part, item 4 only content.
	if _, ok := breakdown[1]["content"]; ok {
		t.Error("item 1 should have no content component")
	}
	if _, ok := breakdown[4]["collaborative"]; ok {
		t.Error("item 4 should have no collaborative component")
	}
	if parts := breakdown[3]; len(parts) != 2 {
		t.Errorf("item 3 breakdown = %v, want both components", parts)
	}

	// Alpha 1 ignores content entirely.
	onlyCollab, _ := blendScores(collab, content, 1)
	if onlyCollab[4] != 0 {
		t.Errorf("alpha=1 should zero content-only items, got %v", onlyCollab[4])
	}
	if math.Abs(onlyCollab[3]-1) > 1e-9 {
		t.Errorf("alpha=1 top collaborative item = %v, want 1", onlyCollab[3])
	}
}
