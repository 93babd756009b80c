// Anirec - Hybrid Anime Recommendation Engine
// Copyright 2026 Hokuto Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/hokuto-labs/anirec

package recommend

import (
	"errors"
	"fmt"
)

// ErrNotTrained is returned when an engine is asked to predict before a
// model has been built.
var ErrNotTrained = errors.New("recommend: model not trained")

// EmptySeedError is returned by the content engine when a user has no
// ratings at or above the seed threshold, so no taste profile exists.
type EmptySeedError struct {
	UserID    int
	Threshold float64
}

func (e *EmptySeedError) Error() string {
	return fmt.Sprintf("recommend: user %d has no ratings >= %.1f to seed content similarity", e.UserID, e.Threshold)
}

// UnknownAnimeError is returned when a requested anime ID is not in the
// catalog.
type UnknownAnimeError struct {
	AnimeID int
}

func (e *UnknownAnimeError) Error() string {
	return fmt.Sprintf("recommend: unknown anime %d", e.AnimeID)
}

// UnknownModeError is returned for a recommendation mode outside the
// supported set.
type UnknownModeError struct {
	Mode string
}

func (e *UnknownModeError) Error() string {
	return fmt.Sprintf("recommend: unknown mode %q", e.Mode)
}
