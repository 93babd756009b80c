// Anirec - Hybrid Anime Recommendation Engine
// Copyright 2026 Hokuto Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/hokuto-labs/anirec

// Package dataset loads the anime catalog and rating matrix from the
// MyAnimeList CSV exports.
//
// Two files are understood: the catalog file (anime.csv or
// anime_with_synopsis.csv, column MAL_ID) and the ratings file
// (rating_complete.csv with user_id, anime_id, rating). Column order is
// taken from the header row, so both export variants load with the same
// code.
package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/hokuto-labs/anirec/internal/catalog"
	"github.com/hokuto-labs/anirec/internal/ratings"
)

// InconsistentDataError reports ratings that reference anime missing
// from the catalog.
type InconsistentDataError struct {
	// Orphaned is the number of ratings without a catalog entry.
	Orphaned int
	// Total is the number of ratings read.
	Total int
	// Sample holds a few offending anime IDs for the error message.
	Sample []int
}

func (e *InconsistentDataError) Error() string {
	return fmt.Sprintf("dataset: %d of %d ratings reference anime missing from the catalog (e.g. %v)", e.Orphaned, e.Total, e.Sample)
}

// Loader reads the CSV exports.
type Loader struct {
	logger zerolog.Logger

	// SkipOrphans drops ratings that reference unknown anime instead of
	// failing the load. The drop count is logged.
	SkipOrphans bool
}

// NewLoader returns a loader that fails on referential integrity
// violations.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewLoader(logger zerolog.Logger) *Loader {
	return &Loader{logger: logger}
}

// LoadCatalog reads the catalog CSV from path.
func (l *Loader) LoadCatalog(path string) (*catalog.Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("dataset: open catalog: %w", err)
	}
	defer f.Close()

	return l.ReadCatalog(f)
}

// ReadCatalog parses catalog rows from r.
func (l *Loader) ReadCatalog(r io.Reader) (*catalog.Catalog, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("dataset: read catalog header: %w", err)
	}
	cols, err := parseCatalogColumns(header)
	if err != nil {
		return nil, err
	}

	var entries []catalog.Anime
	line := 1
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("dataset: read catalog line %d: %w", line, err)
		}
		line++

		a, err := cols.parse(rec)
		if err != nil {
			l.logger.Warn().Int("line", line).Err(err).Msg("skipping malformed catalog row")
			continue
		}
		entries = append(entries, a)
	}

	cat, err := catalog.New(entries)
	if err != nil {
		return nil, err
	}
	l.logger.Info().Int("anime", cat.Len()).Int("genres", len(cat.Genres())).Msg("catalog loaded")
	return cat, nil
}

// catalogColumns maps header names to field indexes. The synopsis
// column is spelled "sypnopsis" in the upstream export; both spellings
// are accepted.
type catalogColumns struct {
	id, name, genres, typ, episodes, score, members, synopsis int
}

func parseCatalogColumns(header []string) (*catalogColumns, error) {
	cols := &catalogColumns{id: -1, name: -1, genres: -1, typ: -1, episodes: -1, score: -1, members: -1, synopsis: -1}
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "mal_id", "anime_id":
			cols.id = i
		case "name":
			cols.name = i
		case "genres":
			cols.genres = i
		case "type":
			cols.typ = i
		case "episodes":
			cols.episodes = i
		case "score", "mean_score":
			cols.score = i
		case "members":
			cols.members = i
		case "synopsis", "sypnopsis":
			cols.synopsis = i
		}
	}
	if cols.id < 0 || cols.name < 0 {
		return nil, fmt.Errorf("dataset: catalog header missing MAL_ID or Name: %v", header)
	}
	return cols, nil
}

func (c *catalogColumns) parse(rec []string) (catalog.Anime, error) {
	get := func(idx int) string {
		if idx < 0 || idx >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[idx])
	}

	id, err := strconv.Atoi(get(c.id))
	if err != nil {
		return catalog.Anime{}, fmt.Errorf("bad anime id %q", get(c.id))
	}

	a := catalog.Anime{
		ID:       id,
		Name:     get(c.name),
		Type:     get(c.typ),
		Synopsis: get(c.synopsis),
	}
	if g := get(c.genres); g != "" && !strings.EqualFold(g, "unknown") {
		for _, part := range strings.Split(g, ",") {
			if part = strings.TrimSpace(part); part != "" {
				a.Genres = append(a.Genres, part)
			}
		}
	}
	// Score, episodes and members show up as "Unknown" for some
	// entries; treat those as zero.
	if v, err := strconv.ParseFloat(get(c.score), 64); err == nil {
		a.MeanScore = v
	}
	if v, err := strconv.Atoi(get(c.episodes)); err == nil {
		a.Episodes = v
	}
	if v, err := strconv.Atoi(get(c.members)); err == nil {
		a.Members = v
	}
	return a, nil
}

// LoadRatings reads the ratings CSV from path and validates it against
// the catalog.
func (l *Loader) LoadRatings(path string, cat *catalog.Catalog) (*ratings.Matrix, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("dataset: open ratings: %w", err)
	}
	defer f.Close()

	return l.ReadRatings(f, cat)
}

// ReadRatings parses rating rows from r. Ratings referencing anime
// absent from the catalog fail the load with InconsistentDataError
// unless SkipOrphans is set.
func (l *Loader) ReadRatings(r io.Reader, cat *catalog.Catalog) (*ratings.Matrix, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("dataset: read ratings header: %w", err)
	}
	userCol, animeCol, ratingCol := -1, -1, -1
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "user_id":
			userCol = i
		case "anime_id":
			animeCol = i
		case "rating":
			ratingCol = i
		}
	}
	if userCol < 0 || animeCol < 0 || ratingCol < 0 {
		return nil, fmt.Errorf("dataset: ratings header missing user_id, anime_id or rating: %v", header)
	}

	m := ratings.NewMatrix()
	total := 0
	orphaned := 0
	var sample []int
	line := 1
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("dataset: read ratings line %d: %w", line, err)
		}
		line++
		total++

		if userCol >= len(rec) || animeCol >= len(rec) || ratingCol >= len(rec) {
			l.logger.Warn().Int("line", line).Msg("skipping short rating row")
			continue
		}
		userID, err1 := strconv.Atoi(strings.TrimSpace(rec[userCol]))
		animeID, err2 := strconv.Atoi(strings.TrimSpace(rec[animeCol]))
		score, err3 := strconv.ParseFloat(strings.TrimSpace(rec[ratingCol]), 64)
		if err1 != nil || err2 != nil || err3 != nil {
			l.logger.Warn().Int("line", line).Msg("skipping malformed rating row")
			continue
		}

		if _, ok := cat.Get(animeID); !ok {
			orphaned++
			if len(sample) < 5 {
				sample = append(sample, animeID)
			}
			continue
		}
		if err := m.Add(userID, animeID, score); err != nil {
			l.logger.Warn().Int("line", line).Err(err).Msg("skipping out-of-range rating")
		}
	}

	if orphaned > 0 && !l.SkipOrphans {
		return nil, &InconsistentDataError{Orphaned: orphaned, Total: total, Sample: sample}
	}
	if orphaned > 0 {
		l.logger.Warn().Int("orphaned", orphaned).Int("total", total).Msg("dropped ratings referencing unknown anime")
	}

	l.logger.Info().
		Int("ratings", m.NumRatings()).
		Int("users", m.NumUsers()).
		Msg("ratings loaded")
	return m, nil
}
