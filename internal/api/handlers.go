// Anirec - Hybrid Anime Recommendation Engine
// Copyright 2026 Hokuto Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/hokuto-labs/anirec

// Package api exposes the recommendation service over HTTP.
package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/hokuto-labs/anirec/internal/dataset"
	"github.com/hokuto-labs/anirec/internal/ratings"
	"github.com/hokuto-labs/anirec/internal/recommend"
	"github.com/hokuto-labs/anirec/internal/validation"
)

// Recommender is the service surface the handlers need.
type Recommender interface {
	Recommend(ctx context.Context, req recommend.Request) (*recommend.Response, error)
	SimilarAnime(ctx context.Context, animeID, k int) ([]recommend.ScoredItem, error)
	PopularAnime(k int) ([]recommend.ScoredItem, error)
	AddRating(userID, animeID int, score float64) error
	Rebuild(ctx context.Context) error
	Status() recommend.TrainingStatus
}

var _ Recommender = (*recommend.Service)(nil)

// Handlers holds the HTTP handlers and their dependencies.
type Handlers struct {
	svc Recommender
	rd  responder
}

// NewHandlers wires handlers to the service.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewHandlers(svc Recommender, logger zerolog.Logger) *Handlers {
	return &Handlers{svc: svc, rd: responder{logger: logger}}
}

// Recommendations serves GET /recommendations/{userID}.
func (h *Handlers) Recommendations(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	userID, err := strconv.Atoi(chi.URLParam(r, "userID"))
	if err != nil || userID < 1 {
		h.rd.fail(w, http.StatusBadRequest, ErrCodeBadRequest, "userID must be a positive integer", "")
		return
	}

	req := recommend.Request{UserID: userID}
	q := r.URL.Query()
	if v := q.Get("k"); v != "" {
		k, err := strconv.Atoi(v)
		if err != nil || k < 1 {
			h.rd.fail(w, http.StatusBadRequest, ErrCodeBadRequest, "k must be a positive integer", "")
			return
		}
		req.K = k
	}
	if v := q.Get("mode"); v != "" {
		req.Mode = recommend.Mode(v)
	}
	if v := q.Get("diversity"); v != "" {
		d, err := strconv.ParseFloat(v, 64)
		if err != nil || d < 0 || d > 1 {
			h.rd.fail(w, http.StatusBadRequest, ErrCodeBadRequest, "diversity must be in [0,1]", "")
			return
		}
		req.Diversity = &d
	}

	resp, err := h.svc.Recommend(r.Context(), req)
	if err != nil {
		h.writeRecommendError(w, err)
		return
	}
	h.rd.ok(w, start, resp)
}

// SimilarAnime serves GET /anime/{animeID}/similar.
func (h *Handlers) SimilarAnime(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	animeID, err := strconv.Atoi(chi.URLParam(r, "animeID"))
	if err != nil || animeID < 1 {
		h.rd.fail(w, http.StatusBadRequest, ErrCodeBadRequest, "animeID must be a positive integer", "")
		return
	}
	k := 0
	if v := r.URL.Query().Get("k"); v != "" {
		if k, err = strconv.Atoi(v); err != nil || k < 1 {
			h.rd.fail(w, http.StatusBadRequest, ErrCodeBadRequest, "k must be a positive integer", "")
			return
		}
	}

	items, err := h.svc.SimilarAnime(r.Context(), animeID, k)
	if err != nil {
		h.writeRecommendError(w, err)
		return
	}
	h.rd.ok(w, start, items)
}

// PopularAnime serves GET /anime/popular.
func (h *Handlers) PopularAnime(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	k := 0
	if v := r.URL.Query().Get("k"); v != "" {
		var err error
		if k, err = strconv.Atoi(v); err != nil || k < 1 {
			h.rd.fail(w, http.StatusBadRequest, ErrCodeBadRequest, "k must be a positive integer", "")
			return
		}
	}

	items, err := h.svc.PopularAnime(k)
	if err != nil {
		h.writeRecommendError(w, err)
		return
	}
	h.rd.ok(w, start, items)
}

// ratingRequest is the POST /ratings payload.
type ratingRequest struct {
	UserID  int     `json:"user_id" validate:"required,min=1"`
	AnimeID int     `json:"anime_id" validate:"required,min=1"`
	Rating  float64 `json:"rating" validate:"required,min=1,max=10"`
}

// AddRating serves POST /ratings.
func (h *Handlers) AddRating(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var payload ratingRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.rd.fail(w, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body", "")
		return
	}
	if err := validation.Struct(&payload); err != nil {
		h.rd.fail(w, http.StatusBadRequest, ErrCodeBadRequest, err.Error(), "")
		return
	}

	if err := h.svc.AddRating(payload.UserID, payload.AnimeID, payload.Rating); err != nil {
		h.writeRecommendError(w, err)
		return
	}
	h.rd.ok(w, start, map[string]string{"status": "recorded"})
}

// Rebuild serves POST /admin/rebuild.
func (h *Handlers) Rebuild(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if err := h.svc.Rebuild(r.Context()); err != nil {
		if errors.Is(err, recommend.ErrTrainingInProgress) {
			h.rd.fail(w, http.StatusConflict, ErrCodeConflict, err.Error(), "")
			return
		}
		h.rd.fail(w, http.StatusInternalServerError, ErrCodeInternal, err.Error(), "")
		return
	}
	h.rd.ok(w, start, h.svc.Status())
}

// Status serves GET /admin/status.
func (h *Handlers) Status(w http.ResponseWriter, r *http.Request) {
	h.rd.ok(w, time.Now(), h.svc.Status())
}

// Healthz serves GET /healthz.
func (h *Handlers) Healthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

// writeRecommendError maps domain errors to HTTP statuses.
func (h *Handlers) writeRecommendError(w http.ResponseWriter, err error) {
	var (
		unknownUser  *ratings.UnknownUserError
		unknownAnime *recommend.UnknownAnimeError
		unknownMode  *recommend.UnknownModeError
		emptySeed    *recommend.EmptySeedError
		dataErr      *dataset.InconsistentDataError
	)

	switch {
	case errors.As(err, &unknownUser):
		h.rd.fail(w, http.StatusNotFound, ErrCodeNotFound, err.Error(), "the user has no ratings in the dataset")
	case errors.As(err, &unknownAnime):
		h.rd.fail(w, http.StatusNotFound, ErrCodeNotFound, err.Error(), "")
	case errors.As(err, &unknownMode):
		h.rd.fail(w, http.StatusBadRequest, ErrCodeBadRequest, err.Error(), "use collaborative, content or hybrid")
	case errors.As(err, &emptySeed):
		h.rd.fail(w, http.StatusUnprocessableEntity, ErrCodeUnprocessable, err.Error(), "try mode=collaborative or rate a few titles highly")
	case errors.As(err, &dataErr):
		h.rd.fail(w, http.StatusInternalServerError, ErrCodeInternal, err.Error(), "")
	case errors.Is(err, recommend.ErrNotTrained):
		h.rd.fail(w, http.StatusServiceUnavailable, ErrCodeUnavailable, err.Error(), "the model is still training; retry shortly")
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		h.rd.fail(w, http.StatusServiceUnavailable, ErrCodeUnavailable, "request timed out", "")
	default:
		h.rd.fail(w, http.StatusInternalServerError, ErrCodeInternal, err.Error(), "")
	}
}
