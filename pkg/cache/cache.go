package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/everse/unified-api/pkg/graph"
	"github.com/everse/unified-api/pkg/logging"
	"github.com/everse/unified-api/pkg/model"
)

// Store is a flat-file JSON cache for validated collections and the
// relationship graph snapshot. One file per collection, indented JSON.
type Store struct {
	dir string
}

// NewStore creates a cache store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// collection is the on-disk envelope for a list of entities.
type collection[T any] struct {
	Type  string `json:"type"`
	Items []T    `json:"items"`
	Count int    `json:"count"`
}

// SaveIndicators writes the validated indicators to the cache.
func (s *Store) SaveIndicators(indicators []*model.Indicator) error {
	return saveCollection(s, "indicators.json", "IndicatorCollection", indicators)
}

// LoadIndicators reads the cached indicators. A missing or unreadable file
// returns an error the caller should treat as a cache miss.
func (s *Store) LoadIndicators() ([]*model.Indicator, error) {
	return loadCollection[*model.Indicator](s, "indicators.json")
}

// SaveTools writes the validated tools to the cache.
func (s *Store) SaveTools(tools []*model.Tool) error {
	return saveCollection(s, "tools.json", "ToolCollection", tools)
}

// LoadTools reads the cached tools.
func (s *Store) LoadTools() ([]*model.Tool, error) {
	return loadCollection[*model.Tool](s, "tools.json")
}

// SaveDimensions writes the validated dimensions to the cache.
func (s *Store) SaveDimensions(dimensions []*model.Dimension) error {
	return saveCollection(s, "dimensions.json", "DimensionCollection", dimensions)
}

// LoadDimensions reads the cached dimensions.
func (s *Store) LoadDimensions() ([]*model.Dimension, error) {
	return loadCollection[*model.Dimension](s, "dimensions.json")
}

// SaveRelationships writes the graph snapshot to the cache.
func (s *Store) SaveRelationships(snap *graph.Snapshot) error {
	return s.writeJSON("relationships.json", snap)
}

// LoadRelationships reads the cached graph snapshot.
func (s *Store) LoadRelationships() (*graph.Snapshot, error) {
	var snap graph.Snapshot
	if err := s.readJSON("relationships.json", &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

func saveCollection[T any](s *Store, name, docType string, items []T) error {
	doc := collection[T]{
		Type:  docType,
		Items: items,
		Count: len(items),
	}
	return s.writeJSON(name, doc)
}

func loadCollection[T any](s *Store, name string) ([]T, error) {
	var doc collection[T]
	if err := s.readJSON(name, &doc); err != nil {
		return nil, err
	}
	return doc.Items, nil
}

func (s *Store) writeJSON(name string, v any) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("creating cache dir: %w", err)
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", name, err)
	}

	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	logging.Info("saved cache file", "path", path)
	return nil
}

func (s *Store) readJSON(name string, v any) error {
	path := filepath.Join(s.dir, name)
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}
