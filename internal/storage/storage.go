package storage

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/hailam/attacktables/internal/attacks"
)

const reportPrefix = "report/"

// ErrNotFound is returned when no report exists for a fingerprint.
var ErrNotFound = errors.New("storage: report not found")

func reportKey(fingerprint uint64) []byte {
	return []byte(fmt.Sprintf("%s%016x", reportPrefix, fingerprint))
}

// Store wraps BadgerDB for persistent storage
type Store struct {
	db *badger.DB
}

// Open opens the store in dir, or in GetDatabaseDir() when dir is empty.
func Open(dir string) (*Store, error) {
	if dir == "" {
		var err error
		if dir, err = GetDatabaseDir(); err != nil {
			return nil, err
		}
	}
	return open(badger.DefaultOptions(dir))
}

// OpenInMemory opens a store that is discarded on Close.
func OpenInMemory() (*Store, error) {
	return open(badger.DefaultOptions("").WithInMemory(true))
}

func open(opts badger.Options) (*Store, error) {
	opts.Logger = nil // Disable logging

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("storage: open: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveReport stores r under its fingerprint, replacing any earlier report.
func (s *Store) SaveReport(r *attacks.Report) error {
	data, err := json.Marshal(r)
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(reportKey(r.Fingerprint), data)
	})
}

// LoadReport returns the report stored for fingerprint.
func (s *Store) LoadReport(fingerprint uint64) (*attacks.Report, error) {
	r := &attacks.Report{}

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(reportKey(fingerprint))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, r)
		})
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

// Validated reports whether a passing report exists for fingerprint.
func (s *Store) Validated(fingerprint uint64) (bool, error) {
	r, err := s.LoadReport(fingerprint)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return r.OK(), nil
}

// Reports returns every stored report, most recently checked first.
func (s *Store) Reports() ([]*attacks.Report, error) {
	byTime := make(map[int64][]*attacks.Report)

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(reportPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			r := &attacks.Report{}
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, r)
			}); err != nil {
				return err
			}
			at := r.CheckedAt.UnixNano()
			byTime[at] = append(byTime[at], r)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	times := maps.Keys(byTime)
	slices.Sort(times)

	reports := make([]*attacks.Report, 0, len(byTime))
	for i := len(times) - 1; i >= 0; i-- {
		reports = append(reports, byTime[times[i]]...)
	}
	return reports, nil
}

// DeleteReport removes the report for fingerprint, if any.
func (s *Store) DeleteReport(fingerprint uint64) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(reportKey(fingerprint))
	})
}
