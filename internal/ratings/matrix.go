// Anirec - Hybrid Anime Recommendation Engine
// Copyright 2026 Hokuto Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/hokuto-labs/anirec

// Package ratings stores the user-anime rating matrix in sparse form.
// With ~57M ratings over 310k users and 16k titles a dense matrix is
// wasteful; per-user maps keep lookups O(1) and memory proportional to
// observed ratings.
package ratings

import (
	"fmt"
	"math/rand"
	"sort"
	"sync"
)

// UnknownUserError is returned when a user has no ratings in the matrix.
type UnknownUserError struct {
	UserID int
}

func (e *UnknownUserError) Error() string {
	return fmt.Sprintf("ratings: unknown user %d", e.UserID)
}

// Matrix is a sparse user-by-anime rating matrix. Safe for concurrent use.
type Matrix struct {
	mu         sync.RWMutex
	byUser     map[int]map[int]float64
	itemCounts map[int]int
	total      int
}

// NewMatrix returns an empty matrix.
func NewMatrix() *Matrix {
	return &Matrix{
		byUser:     make(map[int]map[int]float64),
		itemCounts: make(map[int]int),
	}
}

// Add records a rating, overwriting any previous rating by the same user
// for the same anime. Scores outside [1,10] are rejected.
func (m *Matrix) Add(userID, animeID int, score float64) error {
	if score < 1 || score > 10 {
		return fmt.Errorf("ratings: score %.2f for user %d anime %d out of range [1,10]", score, userID, animeID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	row := m.byUser[userID]
	if row == nil {
		row = make(map[int]float64)
		m.byUser[userID] = row
	}
	if _, seen := row[animeID]; !seen {
		m.itemCounts[animeID]++
		m.total++
	}
	row[animeID] = score
	return nil
}

// UserRatings returns a copy of the user's ratings keyed by anime ID.
func (m *Matrix) UserRatings(userID int) (map[int]float64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	row, ok := m.byUser[userID]
	if !ok {
		return nil, &UnknownUserError{UserID: userID}
	}
	out := make(map[int]float64, len(row))
	for id, score := range row {
		out[id] = score
	}
	return out, nil
}

// HasUser reports whether the user has at least one rating.
func (m *Matrix) HasUser(userID int) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.byUser[userID]
	return ok
}

// UserRatingCount returns the number of ratings the user has. Zero for
// unknown users.
func (m *Matrix) UserRatingCount(userID int) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.byUser[userID])
}

// ItemCount returns how many users rated the given anime.
func (m *Matrix) ItemCount(animeID int) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.itemCounts[animeID]
}

// NumUsers returns the number of distinct users.
func (m *Matrix) NumUsers() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.byUser)
}

// NumRatings returns the total number of ratings.
func (m *Matrix) NumRatings() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.total
}

// Users returns all user IDs in ascending order.
func (m *Matrix) Users() []int {
	m.mu.RLock()
	ids := make([]int, 0, len(m.byUser))
	for id := range m.byUser {
		ids = append(ids, id)
	}
	m.mu.RUnlock()

	sort.Ints(ids)
	return ids
}

// Sample holds the result of a deterministic user sample.
type Sample struct {
	UserIDs []int
	// Truncated is set when the user population exceeded the budget.
	// It is reported as response metadata, never as an error.
	Truncated bool
}

// SampleUsers draws at most budget users, deterministically for a given
// seed and matrix population. The candidate list is sorted before the
// seeded shuffle so map iteration order cannot leak into the result.
// A budget <= 0 means no limit.
func (m *Matrix) SampleUsers(budget int, seed int64) Sample {
	ids := m.Users()
	if budget <= 0 || len(ids) <= budget {
		return Sample{UserIDs: ids, Truncated: false}
	}

	rng := rand.New(rand.NewSource(seed)) //nolint:gosec // deterministic sampling, not crypto
	rng.Shuffle(len(ids), func(i, j int) { ids[i], ids[j] = ids[j], ids[i] })

	picked := ids[:budget]
	sort.Ints(picked)
	return Sample{UserIDs: picked, Truncated: true}
}

// Ratings calls fn for each user row. The map passed to fn is live
// matrix state and must not be retained or mutated. The read lock is
// held for the whole iteration.
func (m *Matrix) Ratings(fn func(userID int, row map[int]float64)) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for id, row := range m.byUser {
		fn(id, row)
	}
}
