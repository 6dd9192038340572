// Package store caches built chapters in BadgerDB so repeated runs over
// the same puzzle history skip re-encoding.
package store

import (
	"encoding/json"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/lgbarn/puzzle-study-go/internal/study"
)

const keyPrefix = "chapter/"

// Store wraps BadgerDB for chapter caching. It is safe for concurrent use.
type Store struct {
	db *badger.DB
}

// Open opens or creates a store in dir.
func Open(dir string) (*Store, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil // Disable logging

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("opening chapter cache %s: %w", dir, err)
	}
	return &Store{db: db}, nil
}

// OpenInMemory opens a store that lives only as long as the process.
func OpenInMemory() (*Store, error) {
	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("opening in-memory chapter cache: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func key(puzzleID string) []byte {
	return []byte(keyPrefix + puzzleID)
}

// Get returns the cached chapter for a puzzle. The bool is false when
// nothing is cached.
func (s *Store) Get(puzzleID string) (study.Chapter, bool, error) {
	var c study.Chapter
	found := false

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key(puzzleID))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &c)
		})
	})
	if err != nil {
		return study.Chapter{}, false, fmt.Errorf("reading cached chapter %s: %w", puzzleID, err)
	}
	return c, found, nil
}

// Put caches a chapter under its puzzle ID, replacing any earlier entry.
func (s *Store) Put(c study.Chapter) error {
	data, err := json.Marshal(c)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key(c.PuzzleID), data)
	})
}

// Delete removes a cached chapter. Deleting a missing entry is not an
// error.
func (s *Store) Delete(puzzleID string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(key(puzzleID))
	})
}

// Len returns the number of cached chapters.
func (s *Store) Len() (int, error) {
	n := 0
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(keyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			n++
		}
		return nil
	})
	return n, err
}
