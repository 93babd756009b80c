// Anirec - Hybrid Anime Recommendation Engine
// Copyright 2026 Hokuto Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/hokuto-labs/anirec

// Package catalog holds the immutable anime metadata the engines score
// against. A Catalog is built once from the dataset and shared read-only.
package catalog

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Anime is a single catalog entry.
type Anime struct {
	ID       int      `json:"anime_id"`
	Name     string   `json:"name"`
	Genres   []string `json:"genres"`
	Type     string   `json:"type"`
	Episodes int      `json:"episodes"`
	Synopsis string   `json:"synopsis,omitempty"`
	// MeanScore is the community average score on a 1-10 scale.
	MeanScore float64 `json:"mean_score"`
	// Members counts users who have the title on their list. Used as the
	// popularity signal.
	Members int `json:"members"`
}

// PopularityScore is mean score damped by audience size:
// mean_score * log(members+1). Small audiences cannot dominate on a
// handful of perfect scores.
func (a *Anime) PopularityScore() float64 {
	return a.MeanScore * math.Log(float64(a.Members)+1)
}

// GenreSet returns the lowercased genre set for overlap computations.
func (a *Anime) GenreSet() map[string]struct{} {
	set := make(map[string]struct{}, len(a.Genres))
	for _, g := range a.Genres {
		set[strings.ToLower(strings.TrimSpace(g))] = struct{}{}
	}
	return set
}

// EmptyCatalogError is returned when an operation needs catalog entries
// and none are loaded.
type EmptyCatalogError struct{}

func (e *EmptyCatalogError) Error() string {
	return "catalog: no anime loaded"
}

// Catalog is an immutable, ID-indexed collection of anime.
type Catalog struct {
	byID   map[int]*Anime
	sorted []*Anime
	genres []string
}

// New builds a catalog from the given entries. Duplicate IDs are rejected.
func New(entries []Anime) (*Catalog, error) {
	byID := make(map[int]*Anime, len(entries))
	sorted := make([]*Anime, 0, len(entries))
	genreSet := make(map[string]struct{})

	for i := range entries {
		a := &entries[i]
		if a.ID <= 0 {
			return nil, fmt.Errorf("catalog: invalid anime id %d (%q)", a.ID, a.Name)
		}
		if _, dup := byID[a.ID]; dup {
			return nil, fmt.Errorf("catalog: duplicate anime id %d", a.ID)
		}
		byID[a.ID] = a
		sorted = append(sorted, a)
		for g := range a.GenreSet() {
			genreSet[g] = struct{}{}
		}
	}

	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	genres := make([]string, 0, len(genreSet))
	for g := range genreSet {
		genres = append(genres, g)
	}
	sort.Strings(genres)

	return &Catalog{byID: byID, sorted: sorted, genres: genres}, nil
}

// Get returns the anime with the given ID, or false when absent.
func (c *Catalog) Get(id int) (*Anime, bool) {
	a, ok := c.byID[id]
	return a, ok
}

// All returns entries in ascending ID order. Callers must not mutate.
func (c *Catalog) All() []*Anime {
	return c.sorted
}

// Len returns the number of entries.
func (c *Catalog) Len() int {
	return len(c.sorted)
}

// Genres returns the sorted, lowercased genre vocabulary.
func (c *Catalog) Genres() []string {
	return c.genres
}
