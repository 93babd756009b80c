// Anirec - Hybrid Anime Recommendation Engine
// Copyright 2026 Hokuto Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/hokuto-labs/anirec

package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/hokuto-labs/anirec/internal/config"
	"github.com/hokuto-labs/anirec/internal/metrics"
)

// NewRouter assembles the chi router: public API under /api/v1, health
// and Prometheus metrics at the root.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewRouter(cfg *config.ServerConfig, h *Handlers, logger zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(requestLogger(logger))

	if len(cfg.CORSOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: cfg.CORSOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type"},
			MaxAge:         300,
		}))
	}

	r.Get("/healthz", h.Healthz)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		if cfg.RateLimit > 0 {
			r.Use(httprate.LimitByIP(cfg.RateLimit, time.Minute))
		}
		r.Use(prometheusMetrics)

		r.Get("/recommendations/{userID}", h.Recommendations)
		r.Get("/anime/{animeID}/similar", h.SimilarAnime)
		r.Get("/anime/popular", h.PopularAnime)
		r.Post("/ratings", h.AddRating)

		r.Route("/admin", func(r chi.Router) {
			r.Post("/rebuild", h.Rebuild)
			r.Get("/status", h.Status)
		})
	})

	return r
}

// requestLogger emits one structured line per request.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func requestLogger(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			logger.Debug().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Dur("duration", time.Since(start)).
				Str("remote", r.RemoteAddr).
				Msg("request")
		})
	}
}

// prometheusMetrics records request latency by route pattern.
func prometheusMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = "unmatched"
		}
		metrics.HTTPRequestDuration.
			WithLabelValues(route, r.Method, strconv.Itoa(ww.Status())).
			Observe(time.Since(start).Seconds())
	})
}
