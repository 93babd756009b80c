// Anirec - Hybrid Anime Recommendation Engine
// Copyright 2026 Hokuto Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/hokuto-labs/anirec

package recommend

import (
	"context"
	"fmt"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/hokuto-labs/anirec/internal/catalog"
	"github.com/hokuto-labs/anirec/internal/ratings"
)

// CollaborativeEngine implements user-user cosine collaborative
// filtering. Similarities are computed on demand against a deterministic
// sample of the user population; per-target rows are cached for the
// lifetime of the trained model.
type CollaborativeEngine struct {
	baseEngine

	cfg  CollaborativeConfig
	seed int64

	// Fixed at train time.
	pool      []int
	poolRows  map[int]map[int]float64
	truncated bool
	cat       *catalog.Catalog
	matrix    *ratings.Matrix
}

// NewCollaborativeEngine returns an untrained collaborative engine.
func NewCollaborativeEngine(cfg CollaborativeConfig, seed int64) *CollaborativeEngine {
	return &CollaborativeEngine{
		baseEngine: newBaseEngine("collaborative"),
		cfg:        cfg,
		seed:       seed,
	}
}

// Train snapshots the sampled neighbor pool. Rows are copied out of the
// live matrix so later AddRating calls cannot skew an already-trained
// model.
func (c *CollaborativeEngine) Train(ctx context.Context, cat *catalog.Catalog, m *ratings.Matrix) error {
	if contextCancelled(ctx) {
		return ctxErr(ctx)
	}
	if cat.Len() == 0 {
		return &catalog.EmptyCatalogError{}
	}

	sample := m.SampleUsers(c.cfg.UserSampleBudget, c.seed)

	rows := make(map[int]map[int]float64, len(sample.UserIDs))
	for _, uid := range sample.UserIDs {
		if contextCancelled(ctx) {
			return ctxErr(ctx)
		}
		row, err := m.UserRatings(uid)
		if err != nil {
			return fmt.Errorf("collaborative train: %w", err)
		}
		rows[uid] = row
	}

	c.pool = sample.UserIDs
	c.poolRows = rows
	c.truncated = sample.Truncated
	c.cat = cat
	c.matrix = m
	c.markTrained()
	return nil
}

// SampleTruncated reports whether the neighbor pool was capped by the
// user sample budget.
func (c *CollaborativeEngine) SampleTruncated() bool {
	return c.truncated
}

// neighbor is a scored pool member.
type neighbor struct {
	userID int
	sim    float64
	common int
}

// neighbors returns the target's top-K most similar pool users, highest
// similarity first, ties broken by higher overlap count then lower user
// ID. The target itself is excluded. Negative similarities are dropped;
// they carry no weight in the prediction.
func (c *CollaborativeEngine) neighbors(ctx context.Context, userID int, target map[int]float64) ([]neighbor, error) {
	workers := c.cfg.NumWorkers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > len(c.pool) {
		workers = len(c.pool)
	}
	if workers < 1 {
		workers = 1
	}

	chunk := (len(c.pool) + workers - 1) / workers
	results := make([][]neighbor, workers)

	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		start := w * chunk
		end := start + chunk
		if end > len(c.pool) {
			end = len(c.pool)
		}
		if start >= end {
			break
		}
		g.Go(func() error {
			local := make([]neighbor, 0, end-start)
			for _, uid := range c.pool[start:end] {
				if contextCancelled(gctx) {
					return ctxErr(gctx)
				}
				if uid == userID {
					continue
				}
				sim, common := cosineOverCommon(target, c.poolRows[uid])
				if common < c.cfg.MinCommonItems || sim <= 0 {
					continue
				}
				if c.cfg.Shrinkage > 0 {
					sim *= float64(common) / (float64(common) + c.cfg.Shrinkage)
				}
				local = append(local, neighbor{userID: uid, sim: sim, common: common})
			}
			results[w] = local
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []neighbor
	for _, r := range results {
		all = append(all, r...)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].sim != all[j].sim {
			return all[i].sim > all[j].sim
		}
		if all[i].common != all[j].common {
			return all[i].common > all[j].common
		}
		return all[i].userID < all[j].userID
	})
	if len(all) > c.cfg.NeighborK {
		all = all[:c.cfg.NeighborK]
	}
	return all, nil
}

// Score predicts ratings for the candidates as the similarity-weighted
// average of neighbor ratings. Candidates no neighbor has rated are
// omitted.
func (c *CollaborativeEngine) Score(ctx context.Context, userID int, candidates []int) (map[int]float64, error) {
	if !c.IsTrained() {
		return nil, ErrNotTrained
	}

	target, err := c.matrix.UserRatings(userID)
	if err != nil {
		return nil, err
	}

	neighbors, err := c.neighbors(ctx, userID, target)
	if err != nil {
		return nil, err
	}
	if len(neighbors) == 0 {
		return map[int]float64{}, nil
	}

	out := make(map[int]float64, len(candidates))
	for _, id := range candidates {
		var weighted, simSum float64
		for _, n := range neighbors {
			if r, ok := c.poolRows[n.userID][id]; ok {
				weighted += n.sim * r
				simSum += n.sim
			}
		}
		if simSum > 0 {
			out[id] = weighted / simSum
		}
	}
	return out, nil
}
