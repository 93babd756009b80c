// Anirec - Hybrid Anime Recommendation Engine
// Copyright 2026 Hokuto Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/hokuto-labs/anirec

package recommend

import (
	"math"
	"testing"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{name: "lowercases and splits", in: "Cowboy Bebop", want: []string{"cowboy", "bebop"}},
		{name: "punctuation", in: "Sci-Fi, Action!", want: []string{"sci", "fi", "action"}},
		{name: "digits kept", in: "Mobile Suit Gundam 0080", want: []string{"mobile", "suit", "gundam", "0080"}},
		{name: "empty", in: "", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tokenize(tt.in)
			if len(got) != len(tt.want) {
				t.Fatalf("tokenize(%q) = %v, want %v", tt.in, got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("token[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestTFIDFVectorize(t *testing.T) {
	docs := [][]string{
		{"action", "space", "bounty"},
		{"action", "school", "romance"},
		{"action", "space", "mecha"},
	}
	c := newTFIDFCorpus(docs, 0)

	vec := c.vectorize(docs[0])
	if len(vec) != 3 {
		t.Fatalf("vector size = %d, want 3", len(vec))
	}
	// "action" appears everywhere, "bounty" once; the rarer term must
	// weigh more.
	if vec["bounty"] <= vec["action"] {
		t.Errorf("idf ordering wrong: bounty=%v action=%v", vec["bounty"], vec["action"])
	}

	if got := c.vectorize(nil); len(got) != 0 {
		t.Errorf("empty doc should vectorize empty, got %v", got)
	}
}

func TestTFIDFMaxFeatures(t *testing.T) {
	docs := [][]string{
		{"a", "b", "c"},
		{"a", "b", "d"},
		{"a", "e"},
	}
	c := newTFIDFCorpus(docs, 2)

	// Vocabulary keeps the two highest-df terms: a (3) and b (2).
	vec := c.vectorize([]string{"a", "b", "c", "d", "e"})
	if _, ok := vec["a"]; !ok {
		t.Error("high-df term a missing from capped vocabulary")
	}
	if _, ok := vec["b"]; !ok {
		t.Error("high-df term b missing from capped vocabulary")
	}
	for _, term := range []string{"c", "d", "e"} {
		if _, ok := vec[term]; ok {
			t.Errorf("term %q should be outside the capped vocabulary", term)
		}
	}
}

func TestSparseCosine(t *testing.T) {
	a := map[string]float64{"action": 0.5, "space": 0.8}
	b := map[string]float64{"action": 0.5, "romance": 0.3}

	if got := sparseCosine(a, a); math.Abs(got-1) > 1e-9 {
		t.Errorf("self similarity = %v, want 1", got)
	}
	if ab, ba := sparseCosine(a, b), sparseCosine(b, a); math.Abs(ab-ba) > 1e-9 {
		t.Errorf("asymmetric: %v vs %v", ab, ba)
	}
	if got := sparseCosine(a, map[string]float64{"comedy": 1}); got != 0 {
		t.Errorf("disjoint similarity = %v, want 0", got)
	}
	if got := sparseCosine(nil, a); got != 0 {
		t.Errorf("nil vector similarity = %v, want 0", got)
	}
}
