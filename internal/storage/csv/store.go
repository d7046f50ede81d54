// Package csv implements the flat-file record store: one comma-delimited
// file per record kind, a header row followed by one row per record, with
// the whole file rewritten on every mutation.
package csv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Codec defines the flat-file schema for one record kind. Decode is
// permissive: malformed cells degrade to zero values so a damaged row stays
// loadable for inspection and deletion.
type Codec[T any] struct {
	Header []string
	Encode func(T) []string
	Decode func(row []string) T
}

// Store persists one ordered record collection to one file. A per-store
// mutex serializes writers so load-mutate-save cycles are race-free within
// the process; cross-process writes remain last-writer-wins.
type Store[T any] struct {
	path  string
	codec Codec[T]
	mu    sync.Mutex
}

func NewStore[T any](path string, codec Codec[T]) *Store[T] {
	return &Store[T]{path: path, codec: codec}
}

// Init creates a header-only file when none exists. Idempotent; existing
// data is never overwritten.
func (s *Store[T]) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := os.Stat(s.path); err == nil {
		return nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("stat %s: %w", s.path, err)
	}
	return atomicWriteCSV(s.path, [][]string{s.codec.Header})
}

// Load reads the full collection in storage order. A missing file yields an
// empty collection, not an error.
func (s *Store[T]) Load() ([]T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked()
}

// Save overwrites the whole file with the given ordered records. The write
// goes to a temp file first and is renamed into place, so a failed write
// never corrupts the collection.
func (s *Store[T]) Save(records []T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked(records)
}

// Mutate runs one load-mutate-save cycle under the store lock. When fn
// returns an error nothing is written.
func (s *Store[T]) Mutate(fn func(records []T) ([]T, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.loadLocked()
	if err != nil {
		return err
	}
	records, err = fn(records)
	if err != nil {
		return err
	}
	return s.saveLocked(records)
}

func (s *Store[T]) loadLocked() ([]T, error) {
	f, err := os.Open(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", s.path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}
	if len(rows) <= 1 {
		return nil, nil
	}

	records := make([]T, 0, len(rows)-1)
	width := len(s.codec.Header)
	for _, row := range rows[1:] {
		// Pad short rows so the codec can index every column.
		for len(row) < width {
			row = append(row, "")
		}
		records = append(records, s.codec.Decode(row))
	}
	return records, nil
}

func (s *Store[T]) saveLocked(records []T) error {
	rows := make([][]string, 0, len(records)+1)
	rows = append(rows, s.codec.Header)
	for _, rec := range records {
		rows = append(rows, s.codec.Encode(rec))
	}
	return atomicWriteCSV(s.path, rows)
}

func atomicWriteCSV(path string, rows [][]string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create storage directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	w := csv.NewWriter(tmp)
	if err := w.WriteAll(rows); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", path, err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("flush %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}
