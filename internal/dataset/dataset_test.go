// Anirec - Hybrid Anime Recommendation Engine
// Copyright 2026 Hokuto Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/hokuto-labs/anirec

package dataset

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/hokuto-labs/anirec/internal/logging"
)

const catalogCSV = `MAL_ID,Name,Score,Genres,sypnopsis,Type,Episodes,Members
1,Cowboy Bebop,8.78,"Action, Sci-Fi",bounty hunters in space,TV,26,900000
5,Trigun,8.24,"Action, Sci-Fi",gunman on a desert planet,TV,26,400000
9,Unknown Show,Unknown,Unknown,Unknown,TV,Unknown,Unknown
`

const ratingsCSV = `user_id,anime_id,rating
1,1,9
1,5,8
2,1,7
`

func testLoader() *Loader {
	return NewLoader(logging.NewTestLogger(io.Discard))
}

func TestReadCatalog(t *testing.T) {
	cat, err := testLoader().ReadCatalog(strings.NewReader(catalogCSV))
	if err != nil {
		t.Fatalf("ReadCatalog() error = %v", err)
	}

	if cat.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", cat.Len())
	}

	bebop, ok := cat.Get(1)
	if !ok {
		t.Fatal("anime 1 missing")
	}
	if bebop.Name != "Cowboy Bebop" || bebop.MeanScore != 8.78 || bebop.Members != 900000 {
		t.Errorf("unexpected entry: %+v", bebop)
	}
	if len(bebop.Genres) != 2 || bebop.Genres[0] != "Action" {
		t.Errorf("genres = %v", bebop.Genres)
	}
	if bebop.Synopsis == "" {
		t.Error("synopsis column not read")
	}

	// "Unknown" numeric fields parse as zero, genres as empty.
	unknown, _ := cat.Get(9)
	if unknown.MeanScore != 0 || unknown.Members != 0 || len(unknown.Genres) != 0 {
		t.Errorf("unknown fields not zeroed: %+v", unknown)
	}
}

func TestReadCatalogBadHeader(t *testing.T) {
	_, err := testLoader().ReadCatalog(strings.NewReader("foo,bar\n1,2\n"))
	if err == nil {
		t.Fatal("header without MAL_ID should fail")
	}
}

func TestReadRatings(t *testing.T) {
	l := testLoader()
	cat, err := l.ReadCatalog(strings.NewReader(catalogCSV))
	if err != nil {
		t.Fatalf("ReadCatalog() error = %v", err)
	}

	m, err := l.ReadRatings(strings.NewReader(ratingsCSV), cat)
	if err != nil {
		t.Fatalf("ReadRatings() error = %v", err)
	}

	if m.NumRatings() != 3 || m.NumUsers() != 2 {
		t.Errorf("ratings = %d users = %d, want 3 and 2", m.NumRatings(), m.NumUsers())
	}
	row, err := m.UserRatings(1)
	if err != nil {
		t.Fatalf("UserRatings() error = %v", err)
	}
	if row[1] != 9 || row[5] != 8 {
		t.Errorf("row = %v", row)
	}
}

func TestReadRatingsOrphans(t *testing.T) {
	l := testLoader()
	cat, err := l.ReadCatalog(strings.NewReader(catalogCSV))
	if err != nil {
		t.Fatalf("ReadCatalog() error = %v", err)
	}

	orphaned := ratingsCSV + "3,777,10\n"

	_, err = l.ReadRatings(strings.NewReader(orphaned), cat)
	var dataErr *InconsistentDataError
	if !errors.As(err, &dataErr) {
		t.Fatalf("ReadRatings() error = %v, want *InconsistentDataError", err)
	}
	if dataErr.Orphaned != 1 || dataErr.Total != 4 {
		t.Errorf("orphaned = %d total = %d, want 1 and 4", dataErr.Orphaned, dataErr.Total)
	}

	l.SkipOrphans = true
	m, err := l.ReadRatings(strings.NewReader(orphaned), cat)
	if err != nil {
		t.Fatalf("ReadRatings() with SkipOrphans error = %v", err)
	}
	if m.NumRatings() != 3 {
		t.Errorf("ratings = %d, want 3 after dropping the orphan", m.NumRatings())
	}
}
