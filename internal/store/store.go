package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/nutrinet/nutrition-network/backend/internal/models"
)

// foodLog is the on-disk shape of the shared log. The dashboard
// process reads the same file, so the shape is part of the contract.
type foodLog struct {
	Foods []models.ScannedFoodEntry `json:"foods"`
}

// FoodStore is the append-only scanned-food log backed by a single
// JSON file. All mutations from this process are serialized behind a
// mutex, and every rewrite goes to a temp file followed by a rename,
// so an external reader never observes a truncated file. Two separate
// writer processes would still race each other's read-modify-write;
// the backend is the only writer.
type FoodStore struct {
	mu   sync.Mutex
	path string
}

// NewFoodStore creates a store backed by the given file path. The
// file is created lazily on first append.
func NewFoodStore(path string) *FoodStore {
	return &FoodStore{path: path}
}

// Append adds one entry to the end of the log and persists it before
// returning. The entry's timestamp is assigned here, at write time.
func (s *FoodStore) Append(entry models.ScannedFoodEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	log := s.load()
	entry.Timestamp = time.Now().Format(time.RFC3339)
	log.Foods = append(log.Foods, entry)

	return s.write(log)
}

// LoadAll returns every entry in append order. An absent or
// unparseable file reads as an empty log rather than an error.
func (s *FoodStore) LoadAll() []models.ScannedFoodEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load().Foods
}

// Clear replaces the backing file with an empty log.
func (s *FoodStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(foodLog{Foods: []models.ScannedFoodEntry{}})
}

// load must be called with the mutex held.
func (s *FoodStore) load() foodLog {
	empty := foodLog{Foods: []models.ScannedFoodEntry{}}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return empty
	}

	var log foodLog
	if err := json.Unmarshal(data, &log); err != nil {
		return empty
	}
	if log.Foods == nil {
		log.Foods = []models.ScannedFoodEntry{}
	}
	return log
}

// write must be called with the mutex held. The temp file lives in
// the same directory as the target so the rename stays on one
// filesystem and is atomic.
func (s *FoodStore) write(log foodLog) error {
	data, err := json.MarshalIndent(log, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal food log: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write food log: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace food log: %w", err)
	}
	return nil
}
