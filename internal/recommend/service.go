// Anirec - Hybrid Anime Recommendation Engine
// Copyright 2026 Hokuto Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/hokuto-labs/anirec

package recommend

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/hokuto-labs/anirec/internal/catalog"
	"github.com/hokuto-labs/anirec/internal/metrics"
	"github.com/hokuto-labs/anirec/internal/ratings"
	"github.com/hokuto-labs/anirec/internal/recommend/storage"
)

// model is one immutable generation of trained engines. Rebuild trains a
// fresh model and swaps the pointer; in-flight requests keep reading the
// generation they started with.
type model struct {
	collab     *CollaborativeEngine
	content    *ContentEngine
	popularity *PopularityEngine
	version    int64
	trainedAt  time.Time
}

// Service fronts the engines: mode dispatch, caching, rebuilds and the
// popularity listing.
type Service struct {
	cfg    Config
	logger zerolog.Logger

	cat        *catalog.Catalog
	matrix     *ratings.Matrix
	rerankerFn RerankerFactory

	current atomic.Pointer[model]
	version atomic.Int64

	trainMu  sync.Mutex
	statusMu sync.RWMutex
	status   TrainingStatus

	cache *responseCache
}

// ErrTrainingInProgress is returned when Rebuild is called while another
// rebuild is running.
var ErrTrainingInProgress = errors.New("recommend: rebuild already in progress")

// NewService validates the config and returns an untrained service.
// Call Rebuild before serving requests.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewService(cfg Config, cat *catalog.Catalog, m *ratings.Matrix, rerankerFn RerankerFactory, logger zerolog.Logger) (*Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Service{
		cfg:        cfg,
		logger:     logger,
		cat:        cat,
		matrix:     m,
		rerankerFn: rerankerFn,
		cache:      newResponseCache(cfg.Cache),
	}, nil
}

// Config returns a copy of the service configuration.
func (s *Service) Config() Config {
	return s.cfg.Clone()
}

// Rebuild trains a fresh model generation against the current matrix and
// swaps it in atomically. Only one rebuild runs at a time.
func (s *Service) Rebuild(ctx context.Context) error {
	if !s.trainMu.TryLock() {
		return ErrTrainingInProgress
	}
	defer s.trainMu.Unlock()

	start := time.Now()
	s.setStatus(func(st *TrainingStatus) {
		st.InProgress = true
		st.LastStarted = start
	})

	next := &model{
		collab:     NewCollaborativeEngine(s.cfg.Collaborative, s.cfg.Seed),
		content:    NewContentEngine(s.cfg.Content),
		popularity: NewPopularityEngine(),
		version:    s.version.Load() + 1,
	}

	err := s.train(ctx, next)
	duration := time.Since(start)

	s.setStatus(func(st *TrainingStatus) {
		st.InProgress = false
		st.LastFinished = time.Now()
		st.LastDuration = duration
		if err != nil {
			st.LastError = err.Error()
		} else {
			st.LastError = ""
			st.ModelVersion = next.version
		}
	})

	if err != nil {
		metrics.Rebuilds.WithLabelValues("error").Inc()
		return fmt.Errorf("rebuild: %w", err)
	}

	next.trainedAt = time.Now()
	s.current.Store(next)
	s.version.Store(next.version)
	if s.cfg.Cache.InvalidateOnTrain {
		s.cache.invalidate()
	}

	metrics.Rebuilds.WithLabelValues("success").Inc()
	metrics.RebuildDuration.Observe(duration.Seconds())
	metrics.ModelVersion.Set(float64(next.version))
	metrics.RatingsTotal.Set(float64(s.matrix.NumRatings()))

	s.logger.Info().
		Int64("model_version", next.version).
		Dur("duration", duration).
		Int("users", s.matrix.NumUsers()).
		Int("catalog", s.cat.Len()).
		Bool("sample_truncated", next.collab.SampleTruncated()).
		Msg("model rebuilt")
	return nil
}

func (s *Service) train(ctx context.Context, next *model) error {
	engines := []Engine{next.popularity, next.content, next.collab}
	for _, e := range engines {
		engineStart := time.Now()
		if err := e.Train(ctx, s.cat, s.matrix); err != nil {
			return fmt.Errorf("train %s: %w", e.Name(), err)
		}
		s.logger.Debug().
			Str("engine", e.Name()).
			Dur("duration", time.Since(engineStart)).
			Msg("engine trained")
	}
	return nil
}

// Snapshot exports the serializable state of the current model.
func (s *Service) Snapshot() (*storage.Snapshot, error) {
	mdl := s.current.Load()
	if mdl == nil {
		return nil, ErrNotTrained
	}
	return &storage.Snapshot{
		Version:        mdl.version,
		CreatedAt:      mdl.trainedAt,
		ContentVectors: mdl.content.exportVectors(),
	}, nil
}

// RestoreSnapshot builds a model reusing the snapshot's content vectors
// instead of revectorizing the catalog. The collaborative and popularity
// engines still train against the live matrix; only the TF-IDF pass is
// skipped.
func (s *Service) RestoreSnapshot(ctx context.Context, snap *storage.Snapshot) error {
	if !s.trainMu.TryLock() {
		return ErrTrainingInProgress
	}
	defer s.trainMu.Unlock()

	next := &model{
		collab:     NewCollaborativeEngine(s.cfg.Collaborative, s.cfg.Seed),
		content:    NewContentEngine(s.cfg.Content),
		popularity: NewPopularityEngine(),
		version:    snap.Version,
	}
	if err := next.popularity.Train(ctx, s.cat, s.matrix); err != nil {
		return fmt.Errorf("restore: %w", err)
	}
	if err := next.collab.Train(ctx, s.cat, s.matrix); err != nil {
		return fmt.Errorf("restore: %w", err)
	}
	if err := next.content.restore(s.cat, s.matrix, snap.ContentVectors); err != nil {
		return fmt.Errorf("restore: %w", err)
	}

	next.trainedAt = snap.CreatedAt
	s.current.Store(next)
	s.version.Store(snap.Version)
	s.setStatus(func(st *TrainingStatus) {
		st.ModelVersion = snap.Version
	})
	metrics.ModelVersion.Set(float64(snap.Version))

	s.logger.Info().
		Int64("model_version", snap.Version).
		Time("snapshot_created", snap.CreatedAt).
		Msg("model restored from snapshot")
	return nil
}

// Invalidate clears the response cache without retraining.
func (s *Service) Invalidate() {
	s.cache.invalidate()
}

// Status returns a snapshot of the training state.
func (s *Service) Status() TrainingStatus {
	s.statusMu.RLock()
	defer s.statusMu.RUnlock()
	return s.status
}

func (s *Service) setStatus(fn func(*TrainingStatus)) {
	s.statusMu.Lock()
	fn(&s.status)
	s.statusMu.Unlock()
}

// AddRating records a rating against the live matrix. The new rating is
// visible to predictions after the next rebuild; cached responses for
// the user are dropped immediately.
func (s *Service) AddRating(userID, animeID int, score float64) error {
	if _, ok := s.cat.Get(animeID); !ok {
		return &UnknownAnimeError{AnimeID: animeID}
	}
	if err := s.matrix.Add(userID, animeID, score); err != nil {
		return err
	}
	s.cache.invalidateUser(userID)
	metrics.RatingsTotal.Set(float64(s.matrix.NumRatings()))
	return nil
}

// Recommend serves a ranked list for the request. Unknown users get
// UnknownUserError; known users below the personalization threshold get
// the popularity fallback with ColdStart set in the metadata.
func (s *Service) Recommend(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()

	if req.Mode == "" {
		req.Mode = ModeHybrid
	}
	if !req.Mode.Valid() {
		return nil, &UnknownModeError{Mode: string(req.Mode)}
	}
	if req.K <= 0 {
		req.K = s.cfg.Limits.DefaultK
	}
	if req.K > s.cfg.Limits.MaxK {
		req.K = s.cfg.Limits.MaxK
	}

	mdl := s.current.Load()
	if mdl == nil {
		return nil, ErrNotTrained
	}

	diversity := s.cfg.Diversity.Strength
	if req.Diversity != nil {
		diversity = *req.Diversity
	}

	key := cacheKey(&req, mdl.version, diversity)
	if cached, ok := s.cache.get(key); ok {
		metrics.CacheHits.Inc()
		resp := *cached
		resp.Meta.CacheHit = true
		resp.Meta.RequestID = uuid.NewString()
		return &resp, nil
	}
	metrics.CacheMisses.Inc()

	ctx, cancel := context.WithTimeout(ctx, s.cfg.Limits.PredictionTimeout)
	defer cancel()

	resp, err := s.recommend(ctx, mdl, &req, diversity)
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	metrics.RecommendRequests.WithLabelValues(string(req.Mode), outcome).Inc()
	metrics.RecommendDuration.WithLabelValues(string(req.Mode)).Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, err
	}

	resp.Meta.RequestID = uuid.NewString()
	resp.Meta.Mode = req.Mode
	resp.Meta.ModelVersion = mdl.version
	resp.Meta.SampleTruncated = mdl.collab.SampleTruncated()
	resp.Meta.Duration = time.Since(start)

	s.cache.put(key, resp)
	return resp, nil
}

func (s *Service) recommend(ctx context.Context, mdl *model, req *Request, diversity float64) (*Response, error) {
	row, err := s.matrix.UserRatings(req.UserID)
	if err != nil {
		return nil, err
	}

	// Cold start: not enough history for personalization.
	if len(row) < s.cfg.MinRatingsForPersonalization {
		items := s.popularItems(mdl, req.K, row)
		return &Response{Items: items, Meta: ResponseMeta{ColdStart: true}}, nil
	}

	candidates := s.candidates(mdl, row)

	var (
		final     map[int]float64
		breakdown map[int]map[string]float64
		alpha     float64
	)

	switch req.Mode {
	case ModeCollaborative:
		scores, err := mdl.collab.Score(ctx, req.UserID, candidates)
		if err != nil {
			return nil, err
		}
		if len(scores) == 0 {
			// No usable neighbors; same remedy as cold start.
			items := s.popularItems(mdl, req.K, row)
			return &Response{Items: items, Meta: ResponseMeta{ColdStart: true}}, nil
		}
		final = scores
		breakdown = singleBreakdown(scores, "collaborative")
	case ModeContent:
		scores, err := mdl.content.Score(ctx, req.UserID, candidates)
		if err != nil {
			return nil, err
		}
		final = scores
		breakdown = singleBreakdown(scores, "content")
	case ModeHybrid:
		final, breakdown, alpha, err = s.hybridScores(ctx, mdl, req.UserID, row, candidates)
		if err != nil {
			return nil, err
		}
	}

	items := s.rank(ctx, final, breakdown, req.K, diversity)
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	return &Response{Items: items, Meta: ResponseMeta{Alpha: alpha}}, nil
}

// hybridScores blends both engines. When one side cannot produce scores
// the other carries the full weight rather than failing the request.
func (s *Service) hybridScores(ctx context.Context, mdl *model, userID int, row map[int]float64, candidates []int) (map[int]float64, map[int]map[string]float64, float64, error) {
	alpha := alphaForUser(&s.cfg, row)

	collab, collabErr := mdl.collab.Score(ctx, userID, candidates)
	if collabErr != nil {
		return nil, nil, 0, collabErr
	}

	content, contentErr := mdl.content.Score(ctx, userID, candidates)
	if contentErr != nil {
		var seedErr *EmptySeedError
		if !errors.As(contentErr, &seedErr) {
			return nil, nil, 0, contentErr
		}
		// No seeds above threshold: collaborative carries everything.
		s.logger.Debug().Int("user_id", userID).Msg("hybrid falling back to collaborative only")
		content = map[int]float64{}
		alpha = 1
	}

	if len(collab) == 0 && alpha > 0 {
		alpha = 0
	}

	final, breakdown := blendScores(collab, content, alpha)
	return final, breakdown, alpha, nil
}

// candidates returns the scoring pool: the most popular titles the user
// has not rated, capped by MaxCandidates.
func (s *Service) candidates(mdl *model, exclude map[int]float64) []int {
	limit := s.cfg.Limits.MaxCandidates
	if limit <= 0 {
		limit = s.cat.Len()
	}

	ranked := mdl.popularity.TopK(limit + len(exclude))
	out := make([]int, 0, limit)
	for _, id := range ranked {
		if _, rated := exclude[id]; rated {
			continue
		}
		out = append(out, id)
		if len(out) >= limit {
			break
		}
	}
	return out
}

func (s *Service) popularItems(mdl *model, k int, exclude map[int]float64) []ScoredItem {
	ranked := mdl.popularity.TopK(k + len(exclude))
	items := make([]ScoredItem, 0, k)
	for _, id := range ranked {
		if _, rated := exclude[id]; rated {
			continue
		}
		a, _ := s.cat.Get(id)
		score := a.PopularityScore()
		items = append(items, ScoredItem{
			Anime:  a,
			Score:  score,
			Scores: map[string]float64{"popularity": score},
			Reason: "popular with the community",
		})
		if len(items) >= k {
			break
		}
	}
	return items
}

// rank orders scored candidates, attaches breakdowns and optionally
// applies diversity reranking.
func (s *Service) rank(ctx context.Context, scores map[int]float64, breakdown map[int]map[string]float64, k int, diversity float64) []ScoredItem {
	// Rerankers need headroom beyond k to swap items in.
	poolK := k
	if diversity > 0 {
		poolK = k * 3
	}

	ranked := topKByScore(scores, poolK, func(id int) int {
		a, _ := s.cat.Get(id)
		return a.Members
	})

	items := make([]ScoredItem, 0, len(ranked))
	for _, id := range ranked {
		a, _ := s.cat.Get(id)
		items = append(items, ScoredItem{
			Anime:  a,
			Score:  scores[id],
			Scores: breakdown[id],
		})
	}

	if diversity > 0 && s.rerankerFn != nil && len(items) > 1 {
		reranker := s.rerankerFn(diversity)
		items = reranker.Rerank(ctx, items, k)
	}
	if len(items) > k {
		items = items[:k]
	}
	return items
}

// SimilarAnime returns the k titles most similar to the given one by
// content features.
func (s *Service) SimilarAnime(ctx context.Context, animeID, k int) ([]ScoredItem, error) {
	mdl := s.current.Load()
	if mdl == nil {
		return nil, ErrNotTrained
	}
	if k <= 0 {
		k = s.cfg.Limits.DefaultK
	}
	if k > s.cfg.Limits.MaxK {
		k = s.cfg.Limits.MaxK
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.Limits.PredictionTimeout)
	defer cancel()
	return mdl.content.Similar(ctx, animeID, k)
}

// PopularAnime returns the global popularity ranking.
func (s *Service) PopularAnime(k int) ([]ScoredItem, error) {
	mdl := s.current.Load()
	if mdl == nil {
		return nil, ErrNotTrained
	}
	if k <= 0 {
		k = s.cfg.Limits.DefaultK
	}
	if k > s.cfg.Limits.MaxK {
		k = s.cfg.Limits.MaxK
	}
	return s.popularItems(mdl, k, nil), nil
}

func singleBreakdown(scores map[int]float64, name string) map[int]map[string]float64 {
	out := make(map[int]map[string]float64, len(scores))
	for id, v := range scores {
		out[id] = map[string]float64{name: v}
	}
	return out
}
