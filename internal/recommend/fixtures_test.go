// Anirec - Hybrid Anime Recommendation Engine
// Copyright 2026 Hokuto Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/hokuto-labs/anirec

package recommend

import (
	"testing"

	"github.com/hokuto-labs/anirec/internal/catalog"
	"github.com/hokuto-labs/anirec/internal/ratings"
)

// testCatalog returns a small catalog spanning a few genres with
// distinct popularity levels.
func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()

	cat, err := catalog.New([]catalog.Anime{
		{ID: 1, Name: "Cowboy Bebop", Type: "TV", Genres: []string{"Action", "Sci-Fi"}, Synopsis: "bounty hunters drift through space", MeanScore: 8.8, Members: 900000},
		{ID: 2, Name: "Trigun", Type: "TV", Genres: []string{"Action", "Sci-Fi"}, Synopsis: "gunman wanders a desert planet", MeanScore: 8.2, Members: 400000},
		{ID: 3, Name: "Clannad", Type: "TV", Genres: []string{"Drama", "Romance"}, Synopsis: "school life and family drama", MeanScore: 8.0, Members: 600000},
		{ID: 4, Name: "Toradora", Type: "TV", Genres: []string{"Comedy", "Romance"}, Synopsis: "school romance comedy", MeanScore: 8.1, Members: 700000},
		{ID: 5, Name: "Akira", Type: "Movie", Genres: []string{"Action", "Sci-Fi"}, Synopsis: "psychic destruction in neo tokyo", MeanScore: 8.1, Members: 500000},
		{ID: 6, Name: "Your Name", Type: "Movie", Genres: []string{"Drama", "Romance"}, Synopsis: "body swapping romance drama", MeanScore: 8.9, Members: 1200000},
	})
	if err != nil {
		t.Fatalf("catalog.New() error = %v", err)
	}
	return cat
}

// testMatrix returns ratings with two clear taste clusters: users 1-3
// favor sci-fi action, users 4-5 favor romance. User 6 has a single
// rating and sits below any personalization threshold above 1.
func testMatrix(t *testing.T) *ratings.Matrix {
	t.Helper()

	m := ratings.NewMatrix()
	add := func(u, a int, r float64) {
		t.Helper()
		if err := m.Add(u, a, r); err != nil {
			t.Fatalf("Add(%d,%d,%v) error = %v", u, a, r, err)
		}
	}

	// Sci-fi cluster.
	add(1, 1, 9)
	add(1, 2, 8)
	add(1, 5, 8)
	add(2, 1, 9)
	add(2, 2, 8)
	add(2, 5, 7)
	add(3, 1, 8)
	add(3, 2, 9)
	add(3, 3, 3)

	// Romance cluster.
	add(4, 3, 9)
	add(4, 4, 8)
	add(4, 6, 9)
	add(5, 3, 8)
	add(5, 4, 9)
	add(5, 6, 8)

	// Near-empty user.
	add(6, 1, 7)

	return m
}

// testConfig returns defaults tightened for the small fixtures.
func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Collaborative.NeighborK = 3
	cfg.Collaborative.MinCommonItems = 2
	cfg.Collaborative.Shrinkage = 0
	cfg.MinRatingsForPersonalization = 2
	cfg.Content.SeedThreshold = 7
	return cfg
}
