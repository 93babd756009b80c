// Anirec - Hybrid Anime Recommendation Engine
// Copyright 2026 Hokuto Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/hokuto-labs/anirec

// Package storage persists trained model snapshots in Badger so a
// restarted process can serve content recommendations without
// revectorizing the catalog.
package storage

import (
	"bytes"
	"compress/gzip"
	"crypto/sha256"
	"encoding/binary"
	"encoding/gob"
	"errors"
	"fmt"
	"time"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"
)

// ErrNoSnapshot is returned when the store holds no snapshot.
var ErrNoSnapshot = errors.New("storage: no snapshot available")

// Snapshot is the serializable part of a trained model.
type Snapshot struct {
	Version        int64
	CreatedAt      time.Time
	ContentVectors map[int]map[string]float64
}

// Store is a Badger-backed snapshot store.
type Store struct {
	db     *badger.DB
	logger zerolog.Logger
}

const (
	snapshotKeyPrefix = "snapshot/"
	latestKey         = "snapshot-latest"
)

// Open opens (or creates) the store at dir.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func Open(dir string, logger zerolog.Logger) (*Store, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("storage: open badger: %w", err)
	}
	return &Store{db: db, logger: logger}, nil
}

// Close flushes and closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save writes the snapshot and marks it as latest.
func (s *Store) Save(snap *Snapshot) error {
	payload, err := encodeSnapshot(snap)
	if err != nil {
		return err
	}

	key := []byte(fmt.Sprintf("%s%016d", snapshotKeyPrefix, snap.Version))
	err = s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(key, payload); err != nil {
			return err
		}
		return txn.Set([]byte(latestKey), key)
	})
	if err != nil {
		return fmt.Errorf("storage: save snapshot v%d: %w", snap.Version, err)
	}

	s.logger.Info().
		Int64("model_version", snap.Version).
		Int("bytes", len(payload)).
		Msg("model snapshot saved")
	return nil
}

// LoadLatest returns the most recently saved snapshot.
func (s *Store) LoadLatest() (*Snapshot, error) {
	var payload []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(latestKey))
		if err != nil {
			return err
		}
		key, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		snapItem, err := txn.Get(key)
		if err != nil {
			return err
		}
		payload, err = snapItem.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, fmt.Errorf("storage: load snapshot: %w", err)
	}
	return decodeSnapshot(payload)
}

// encodeSnapshot frames the snapshot as:
//
//	sha256(compressed) | uint64 length | gzip(gob(snapshot))
//
// The checksum catches on-disk corruption before gob sees it.
func encodeSnapshot(snap *Snapshot) ([]byte, error) {
	var gobBuf bytes.Buffer
	gz := gzip.NewWriter(&gobBuf)
	if err := gob.NewEncoder(gz).Encode(snap); err != nil {
		return nil, fmt.Errorf("storage: encode snapshot: %w", err)
	}
	if err := gz.Close(); err != nil {
		return nil, fmt.Errorf("storage: compress snapshot: %w", err)
	}

	compressed := gobBuf.Bytes()
	sum := sha256.Sum256(compressed)

	out := make([]byte, 0, len(sum)+8+len(compressed))
	out = append(out, sum[:]...)
	out = binary.BigEndian.AppendUint64(out, uint64(len(compressed)))
	out = append(out, compressed...)
	return out, nil
}

func decodeSnapshot(payload []byte) (*Snapshot, error) {
	const headerLen = sha256.Size + 8
	if len(payload) < headerLen {
		return nil, fmt.Errorf("storage: snapshot payload truncated (%d bytes)", len(payload))
	}

	var want [sha256.Size]byte
	copy(want[:], payload[:sha256.Size])
	length := binary.BigEndian.Uint64(payload[sha256.Size:headerLen])
	compressed := payload[headerLen:]
	if uint64(len(compressed)) != length {
		return nil, fmt.Errorf("storage: snapshot length mismatch: header %d, actual %d", length, len(compressed))
	}
	if sha256.Sum256(compressed) != want {
		return nil, errors.New("storage: snapshot checksum mismatch")
	}

	gz, err := gzip.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, fmt.Errorf("storage: decompress snapshot: %w", err)
	}
	defer gz.Close()

	var snap Snapshot
	if err := gob.NewDecoder(gz).Decode(&snap); err != nil {
		return nil, fmt.Errorf("storage: decode snapshot: %w", err)
	}
	return &snap, nil
}
