// Anirec - Hybrid Anime Recommendation Engine
// Copyright 2026 Hokuto Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/hokuto-labs/anirec

package catalog

import (
	"math"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		entries []Anime
		wantErr bool
		verify  func(t *testing.T, c *Catalog)
	}{
		{
			name: "basic",
			entries: []Anime{
				{ID: 20, Name: "Naruto", Genres: []string{"Action", "Shounen"}},
				{ID: 1, Name: "Cowboy Bebop", Genres: []string{"Action", "Sci-Fi"}},
			},
			verify: func(t *testing.T, c *Catalog) {
				if c.Len() != 2 {
					t.Fatalf("Len() = %d, want 2", c.Len())
				}
				all := c.All()
				if all[0].ID != 1 || all[1].ID != 20 {
					t.Errorf("All() not sorted by ID: %d, %d", all[0].ID, all[1].ID)
				}
				want := []string{"action", "sci-fi", "shounen"}
				got := c.Genres()
				if len(got) != len(want) {
					t.Fatalf("Genres() = %v, want %v", got, want)
				}
				for i := range want {
					if got[i] != want[i] {
						t.Errorf("Genres()[%d] = %q, want %q", i, got[i], want[i])
					}
				}
			},
		},
		{
			name: "duplicate id",
			entries: []Anime{
				{ID: 1, Name: "A"},
				{ID: 1, Name: "B"},
			},
			wantErr: true,
		},
		{
			name:    "invalid id",
			entries: []Anime{{ID: 0, Name: "C"}},
			wantErr: true,
		},
		{
			name:    "empty",
			entries: nil,
			verify: func(t *testing.T, c *Catalog) {
				if c.Len() != 0 {
					t.Errorf("Len() = %d, want 0", c.Len())
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := New(tt.entries)
			if (err != nil) != tt.wantErr {
				t.Fatalf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.verify != nil {
				tt.verify(t, c)
			}
		})
	}
}

func TestGet(t *testing.T) {
	c, err := New([]Anime{{ID: 5, Name: "Fullmetal Alchemist"}})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if a, ok := c.Get(5); !ok || a.Name != "Fullmetal Alchemist" {
		t.Errorf("Get(5) = %v, %v", a, ok)
	}
	if _, ok := c.Get(99); ok {
		t.Error("Get(99) should miss")
	}
}

func TestPopularityScore(t *testing.T) {
	a := Anime{ID: 1, MeanScore: 8.0, Members: 99}
	want := 8.0 * math.Log(100)
	if got := a.PopularityScore(); math.Abs(got-want) > 1e-9 {
		t.Errorf("PopularityScore() = %v, want %v", got, want)
	}

	zero := Anime{ID: 2, MeanScore: 9.0, Members: 0}
	if got := zero.PopularityScore(); got != 0 {
		t.Errorf("PopularityScore() with no members = %v, want 0", got)
	}
}
