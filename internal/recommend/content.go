// Anirec - Hybrid Anime Recommendation Engine
// Copyright 2026 Hokuto Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/hokuto-labs/anirec

package recommend

import (
	"context"
	"errors"
	"strings"

	"github.com/hokuto-labs/anirec/internal/catalog"
	"github.com/hokuto-labs/anirec/internal/ratings"
)

// ContentEngine scores candidates by TF-IDF similarity to the anime a
// user rated highly. Each seed title contributes with weight rating/10,
// so a 9 pulls candidates toward it harder than a 7.
type ContentEngine struct {
	baseEngine

	cfg ContentConfig

	corpus  *tfidfCorpus
	vectors map[int]map[string]float64
	matrix  *ratings.Matrix
	cat     *catalog.Catalog
}

// NewContentEngine returns an untrained content engine.
func NewContentEngine(cfg ContentConfig) *ContentEngine {
	return &ContentEngine{
		baseEngine: newBaseEngine("content"),
		cfg:        cfg,
	}
}

// animeDocument concatenates the textual features describing a title:
// genres, type, name and synopsis.
func animeDocument(a *catalog.Anime) []string {
	var sb strings.Builder
	for _, g := range a.Genres {
		sb.WriteString(g)
		sb.WriteByte(' ')
	}
	sb.WriteString(a.Type)
	sb.WriteByte(' ')
	sb.WriteString(a.Name)
	sb.WriteByte(' ')
	sb.WriteString(a.Synopsis)
	return tokenize(sb.String())
}

// Train builds the TF-IDF corpus and one sparse vector per anime.
func (e *ContentEngine) Train(ctx context.Context, cat *catalog.Catalog, m *ratings.Matrix) error {
	if contextCancelled(ctx) {
		return ctxErr(ctx)
	}
	if cat.Len() == 0 {
		return &catalog.EmptyCatalogError{}
	}

	all := cat.All()
	docs := make([][]string, len(all))
	for i, a := range all {
		docs[i] = animeDocument(a)
	}

	corpus := newTFIDFCorpus(docs, e.cfg.MaxFeatures)
	vectors := make(map[int]map[string]float64, len(all))
	for i, a := range all {
		if contextCancelled(ctx) {
			return ctxErr(ctx)
		}
		vectors[a.ID] = corpus.vectorize(docs[i])
	}

	e.corpus = corpus
	e.vectors = vectors
	e.matrix = m
	e.cat = cat
	e.markTrained()
	return nil
}

// exportVectors exposes the trained vectors for snapshot persistence.
func (e *ContentEngine) exportVectors() map[int]map[string]float64 {
	return e.vectors
}

// restore primes the engine from previously persisted vectors, skipping
// vectorization. Vectors for titles no longer in the catalog are
// harmless; they are never offered as candidates.
func (e *ContentEngine) restore(cat *catalog.Catalog, m *ratings.Matrix, vectors map[int]map[string]float64) error {
	if len(vectors) == 0 {
		return errors.New("recommend: snapshot has no content vectors")
	}
	e.vectors = vectors
	e.matrix = m
	e.cat = cat
	e.markTrained()
	return nil
}

// seeds returns the user's taste profile: anime rated at or above the
// seed threshold, weighted rating/10.
func (e *ContentEngine) seeds(userID int) (map[int]float64, error) {
	row, err := e.matrix.UserRatings(userID)
	if err != nil {
		return nil, err
	}

	out := make(map[int]float64)
	for id, r := range row {
		if r < e.cfg.SeedThreshold {
			continue
		}
		if _, ok := e.vectors[id]; !ok {
			continue
		}
		out[id] = r / 10.0
	}
	if len(out) == 0 {
		return nil, &EmptySeedError{UserID: userID, Threshold: e.cfg.SeedThreshold}
	}
	return out, nil
}

// Score returns, for each candidate, the seed-weighted average cosine
// similarity: sum(w_s * cos(s, c)) / sum(w_s).
func (e *ContentEngine) Score(ctx context.Context, userID int, candidates []int) (map[int]float64, error) {
	if !e.IsTrained() {
		return nil, ErrNotTrained
	}

	seeds, err := e.seeds(userID)
	if err != nil {
		return nil, err
	}

	var weightSum float64
	for _, w := range seeds {
		weightSum += w
	}

	out := make(map[int]float64, len(candidates))
	for _, id := range candidates {
		if contextCancelled(ctx) {
			return nil, ctxErr(ctx)
		}
		vec, ok := e.vectors[id]
		if !ok {
			continue
		}
		var acc float64
		for seedID, w := range seeds {
			acc += w * sparseCosine(e.vectors[seedID], vec)
		}
		out[id] = acc / weightSum
	}
	return out, nil
}

// Similar returns the k anime most similar to the given title, most
// similar first. The title itself is excluded.
func (e *ContentEngine) Similar(ctx context.Context, animeID, k int) ([]ScoredItem, error) {
	if !e.IsTrained() {
		return nil, ErrNotTrained
	}
	src, ok := e.vectors[animeID]
	if !ok {
		return nil, &UnknownAnimeError{AnimeID: animeID}
	}

	scores := make(map[int]float64, len(e.vectors))
	for id, vec := range e.vectors {
		if id == animeID {
			continue
		}
		if contextCancelled(ctx) {
			return nil, ctxErr(ctx)
		}
		if _, ok := e.cat.Get(id); !ok {
			// Restored vector for a title that left the catalog.
			continue
		}
		if s := sparseCosine(src, vec); s > 0 {
			scores[id] = s
		}
	}

	ranked := topKByScore(scores, k, func(id int) int {
		a, _ := e.cat.Get(id)
		return a.Members
	})

	items := make([]ScoredItem, 0, len(ranked))
	for _, id := range ranked {
		a, _ := e.cat.Get(id)
		items = append(items, ScoredItem{
			Anime:  a,
			Score:  scores[id],
			Scores: map[string]float64{e.name: scores[id]},
		})
	}
	return items, nil
}
