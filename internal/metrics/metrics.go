// Anirec - Hybrid Anime Recommendation Engine
// Copyright 2026 Hokuto Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/hokuto-labs/anirec

// Package metrics registers the Prometheus instruments exposed on
// /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestDuration observes request latency by route and status
	// class.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "anirec",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"route", "method", "status"},
	)

	// RecommendRequests counts recommendation requests by mode and
	// outcome.
	RecommendRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "anirec",
			Subsystem: "recommend",
			Name:      "requests_total",
			Help:      "Recommendation requests by mode and outcome.",
		},
		[]string{"mode", "outcome"},
	)

	// RecommendDuration observes end-to-end recommendation latency by
	// mode.
	RecommendDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "anirec",
			Subsystem: "recommend",
			Name:      "duration_seconds",
			Help:      "Recommendation latency by mode.",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"mode"},
	)

	// CacheHits counts response cache hits.
	CacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "anirec",
		Subsystem: "recommend",
		Name:      "cache_hits_total",
		Help:      "Response cache hits.",
	})

	// CacheMisses counts response cache misses.
	CacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "anirec",
		Subsystem: "recommend",
		Name:      "cache_misses_total",
		Help:      "Response cache misses.",
	})

	// RebuildDuration observes model rebuild wall time.
	RebuildDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "anirec",
		Subsystem: "recommend",
		Name:      "rebuild_duration_seconds",
		Help:      "Model rebuild wall time.",
		Buckets:   []float64{1, 5, 15, 30, 60, 120, 300, 600, 1800},
	})

	// Rebuilds counts rebuild attempts by outcome.
	Rebuilds = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "anirec",
			Subsystem: "recommend",
			Name:      "rebuilds_total",
			Help:      "Model rebuilds by outcome.",
		},
		[]string{"outcome"},
	)

	// ModelVersion exports the currently served model version.
	ModelVersion = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "anirec",
		Subsystem: "recommend",
		Name:      "model_version",
		Help:      "Version of the model currently serving requests.",
	})

	// RatingsTotal exports the number of ratings in the matrix.
	RatingsTotal = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "anirec",
		Subsystem: "data",
		Name:      "ratings_total",
		Help:      "Ratings currently held in the matrix.",
	})
)
