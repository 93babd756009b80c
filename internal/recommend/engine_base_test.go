// Anirec - Hybrid Anime Recommendation Engine
// Copyright 2026 Hokuto Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/hokuto-labs/anirec

package recommend

import (
	"math"
	"testing"
)

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a    map[int]float64
		b    map[int]float64
		want float64
	}{
		{
			name: "self similarity is 1",
			a:    map[int]float64{1: 3, 2: 4},
			b:    map[int]float64{1: 3, 2: 4},
			want: 1,
		},
		{
			name: "orthogonal",
			a:    map[int]float64{1: 5},
			b:    map[int]float64{2: 5},
			want: 0,
		},
		{
			name: "empty",
			a:    map[int]float64{},
			b:    map[int]float64{1: 5},
			want: 0,
		},
		{
			name: "scaled vectors are identical",
			a:    map[int]float64{1: 1, 2: 2},
			b:    map[int]float64{1: 2, 2: 4},
			want: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cosineSimilarity(tt.a, tt.b)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("cosineSimilarity() = %v, want %v", got, tt.want)
			}
			// Symmetry must hold for any pair.
			if rev := cosineSimilarity(tt.b, tt.a); math.Abs(got-rev) > 1e-9 {
				t.Errorf("asymmetric: %v vs %v", got, rev)
			}
		})
	}
}

func TestCosineOverCommon(t *testing.T) {
	a := map[int]float64{1: 8, 2: 6, 3: 9}
	b := map[int]float64{2: 6, 3: 9, 4: 2}

	sim, common := cosineOverCommon(a, b)
	if common != 2 {
		t.Fatalf("common = %d, want 2", common)
	}
	// Restricted to items 2 and 3 both vectors are identical.
	if math.Abs(sim-1) > 1e-9 {
		t.Errorf("sim = %v, want 1", sim)
	}

	revSim, revCommon := cosineOverCommon(b, a)
	if revCommon != common || math.Abs(revSim-sim) > 1e-9 {
		t.Errorf("asymmetric: (%v,%d) vs (%v,%d)", sim, common, revSim, revCommon)
	}

	if sim, common := cosineOverCommon(a, map[int]float64{9: 5}); sim != 0 || common != 0 {
		t.Errorf("disjoint vectors: sim=%v common=%d", sim, common)
	}
}

func TestNormalizeScores(t *testing.T) {
	tests := []struct {
		name   string
		scores map[int]float64
		verify func(t *testing.T, out map[int]float64)
	}{
		{
			name:   "scales to unit interval",
			scores: map[int]float64{1: 2, 2: 6, 3: 10},
			verify: func(t *testing.T, out map[int]float64) {
				if out[1] != 0 || out[3] != 1 {
					t.Errorf("bounds = %v, %v, want 0 and 1", out[1], out[3])
				}
				if math.Abs(out[2]-0.5) > 1e-9 {
					t.Errorf("midpoint = %v, want 0.5", out[2])
				}
			},
		},
		{
			name:   "all equal maps to 0.5",
			scores: map[int]float64{1: 7, 2: 7},
			verify: func(t *testing.T, out map[int]float64) {
				for k, v := range out {
					if v != 0.5 {
						t.Errorf("out[%d] = %v, want 0.5", k, v)
					}
				}
			},
		},
		{
			name:   "empty stays empty",
			scores: map[int]float64{},
			verify: func(t *testing.T, out map[int]float64) {
				if len(out) != 0 {
					t.Errorf("len = %d, want 0", len(out))
				}
			},
		},
		{
			name:   "negative inputs still land in unit interval",
			scores: map[int]float64{1: -5, 2: 0, 3: 5},
			verify: func(t *testing.T, out map[int]float64) {
				for k, v := range out {
					if v < 0 || v > 1 {
						t.Errorf("out[%d] = %v outside [0,1]", k, v)
					}
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.verify(t, normalizeScores(tt.scores))
		})
	}
}

func TestTopKByScore(t *testing.T) {
	popularity := map[int]int{10: 500, 20: 900, 30: 900, 40: 100}
	popFn := func(id int) int { return popularity[id] }

	scores := map[int]float64{10: 0.9, 20: 0.5, 30: 0.5, 40: 0.5}

	got := topKByScore(scores, 3, popFn)
	// 10 wins on score; 20 and 30 tie on score and popularity, lower ID
	// first.
	want := []int{10, 20, 30}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got[%d] = %d, want %d", i, got[i], want[i])
		}
	}

	all := topKByScore(scores, 0, popFn)
	if len(all) != 4 {
		t.Errorf("k=0 should return all, got %d", len(all))
	}
	// Popularity breaks the 0.5 tie before ID does.
	if all[3] != 40 {
		t.Errorf("least popular tied item should rank last, got %v", all)
	}
}

func TestJaccardSimilarity(t *testing.T) {
	set := func(ss ...string) map[string]struct{} {
		m := make(map[string]struct{}, len(ss))
		for _, s := range ss {
			m[s] = struct{}{}
		}
		return m
	}

	tests := []struct {
		name string
		a, b map[string]struct{}
		want float64
	}{
		{name: "identical", a: set("action", "drama"), b: set("action", "drama"), want: 1},
		{name: "disjoint", a: set("action"), b: set("romance"), want: 0},
		{name: "partial", a: set("action", "drama"), b: set("drama", "comedy", "romance"), want: 0.25},
		{name: "both empty", a: set(), b: set(), want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := jaccardSimilarity(tt.a, tt.b); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("jaccardSimilarity() = %v, want %v", got, tt.want)
			}
		})
	}
}
