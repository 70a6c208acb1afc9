// internal/catalog/store.go
package catalog

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// ErrEmptyDataset is returned when an upload produced no usable combos.
var ErrEmptyDataset = errors.New("no valid Beyblade combos found in file")

// SourceKind tells whether the active dataset is the embedded one or an upload.
type SourceKind string

const (
	SourceEmbedded SourceKind = "EMBEDDED_CORE_DB"
	SourceOverride SourceKind = "MANUAL_OVERRIDE"
)

// Source describes the active dataset.
type Source struct {
	Kind     SourceKind `json:"kind"`
	Name     string     `json:"name,omitempty"`
	Records  int        `json:"records"`
	LoadedAt time.Time  `json:"loadedAt"`
}

// Store owns the active dataset. Replace is the only writer; every search
// works on a Snapshot.
type Store struct {
	mu     sync.RWMutex
	combos []Combo
	source Source
}

// NewStore returns a store serving the given default combos.
func NewStore(defaults []Combo) *Store {
	combos := append([]Combo(nil), defaults...)
	return &Store{
		combos: combos,
		source: Source{Kind: SourceEmbedded, Records: len(combos), LoadedAt: time.Now()},
	}
}

// Snapshot returns a copy of the active combos.
func (s *Store) Snapshot() []Combo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Combo(nil), s.combos...)
}

// Source reports which dataset is active.
func (s *Store) Source() Source {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.source
}

// Len returns the number of active combos.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.combos)
}

// Replace swaps the whole dataset for combos. An empty slice is rejected and
// leaves the current dataset in place.
func (s *Store) Replace(name string, combos []Combo) error {
	if len(combos) == 0 {
		return ErrEmptyDataset
	}
	next := append([]Combo(nil), combos...)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.combos = next
	s.source = Source{Kind: SourceOverride, Name: name, Records: len(next), LoadedAt: time.Now()}
	return nil
}

// LoadCSV parses text and, when at least one combo results, makes it the
// active dataset. It returns the number of combos loaded.
func (s *Store) LoadCSV(name, text string) (int, error) {
	combos := ParseCSV(text)
	if err := s.Replace(name, combos); err != nil {
		return 0, err
	}
	return len(combos), nil
}

// LoadFile reads a CSV file from disk into the store.
func (s *Store) LoadFile(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read dataset %q: %w", path, err)
	}
	return s.LoadCSV(filepath.Base(path), string(data))
}
