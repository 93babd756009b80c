// Anirec - Hybrid Anime Recommendation Engine
// Copyright 2026 Hokuto Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/hokuto-labs/anirec

package recommend

import (
	"math"
	"sort"
	"strings"
	"unicode"
)

// tfidfCorpus builds sparse TF-IDF vectors over a fixed document set.
// Vocabulary and document frequencies are frozen at build time.
type tfidfCorpus struct {
	numDocs int
	df      map[string]int
	// vocab is nil when no feature cap is set; otherwise only tokens in
	// vocab are vectorized.
	vocab map[string]struct{}
}

// tokenize lowercases and splits on non-alphanumeric runes. Single-rune
// tokens are kept; synopsis text is noisy enough that aggressive
// filtering loses genre initials like "w" in abbreviated titles.
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}

// newTFIDFCorpus computes document frequencies for the given documents.
// maxFeatures > 0 caps the vocabulary to the highest-document-frequency
// tokens, ties broken alphabetically so the cut is deterministic.
func newTFIDFCorpus(docs [][]string, maxFeatures int) *tfidfCorpus {
	df := make(map[string]int)
	for _, tokens := range docs {
		seen := make(map[string]struct{}, len(tokens))
		for _, t := range tokens {
			if _, dup := seen[t]; dup {
				continue
			}
			seen[t] = struct{}{}
			df[t]++
		}
	}

	c := &tfidfCorpus{numDocs: len(docs), df: df}

	if maxFeatures > 0 && len(df) > maxFeatures {
		terms := make([]string, 0, len(df))
		for t := range df {
			terms = append(terms, t)
		}
		sort.Slice(terms, func(i, j int) bool {
			if df[terms[i]] != df[terms[j]] {
				return df[terms[i]] > df[terms[j]]
			}
			return terms[i] < terms[j]
		})
		c.vocab = make(map[string]struct{}, maxFeatures)
		for _, t := range terms[:maxFeatures] {
			c.vocab[t] = struct{}{}
		}
	}
	return c
}

// idf uses the smoothed form log(1 + N/(1+df)) so unseen terms stay
// finite and ubiquitous terms never go fully to zero.
func (c *tfidfCorpus) idf(term string) float64 {
	return math.Log(1 + float64(c.numDocs)/float64(1+c.df[term]))
}

// vectorize returns the sparse TF-IDF vector for a token stream.
func (c *tfidfCorpus) vectorize(tokens []string) map[string]float64 {
	if len(tokens) == 0 {
		return map[string]float64{}
	}

	counts := make(map[string]int, len(tokens))
	kept := 0
	for _, t := range tokens {
		if c.vocab != nil {
			if _, ok := c.vocab[t]; !ok {
				continue
			}
		}
		counts[t]++
		kept++
	}
	if kept == 0 {
		return map[string]float64{}
	}

	vec := make(map[string]float64, len(counts))
	for t, n := range counts {
		tf := float64(n) / float64(kept)
		vec[t] = tf * c.idf(t)
	}
	return vec
}

// sparseCosine computes cosine similarity between sparse string-keyed
// vectors. A non-zero vector has similarity 1 with itself.
func sparseCosine(a, b map[string]float64) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
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
