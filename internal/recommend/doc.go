// Anirec - Hybrid Anime Recommendation Engine
// Copyright 2026 Hokuto Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/hokuto-labs/anirec

// Package recommend implements the recommendation engines and the service
// that fronts them.
//
// Three engines produce candidate scores:
//
//   - Collaborative: user-user cosine similarity over jointly rated anime,
//     top-K neighbor prediction, popularity fallback for cold-start users.
//   - Content: TF-IDF vectors over genres, type, name and synopsis; a
//     user's highly rated titles seed an item-item similarity search.
//   - Popularity: mean score damped by log audience size.
//
// The hybrid path min-max normalizes each component and blends them with a
// per-user weight derived from rating density. Trained engines are
// immutable; Service.Rebuild trains a fresh model and swaps it in
// atomically so readers never observe partial state.
package recommend
