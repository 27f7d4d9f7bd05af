// Package storage persists string key-value pairs per script, used for
// things like high scores.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"maps"
	"os"
	"path/filepath"
)

// Store is a JSON-file backed key-value store.
//
// The file is read lazily on first access and rewritten on every Set.
type Store struct {
	path   string
	data   map[string]string
	loaded bool
}

// Open returns the store of a script. Data lives in
// <dir>/<appName>/<scriptName>.json; an empty dir selects the user config
// directory.
func Open(dir, appName, scriptName string) (*Store, error) {
	if dir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("failed to locate config dir: %w", err)
		}
		dir = base
	}
	return NewStore(filepath.Join(dir, appName, scriptName+".json")), nil
}

// NewStore creates a store persisted at path
func NewStore(path string) *Store {
	return &Store{path: path}
}

// NewMemoryStore creates a store that is never persisted, holding a copy of
// seed.
func NewMemoryStore(seed map[string]string) *Store {
	s := &Store{loaded: true, data: make(map[string]string, len(seed))}
	maps.Copy(s.data, seed)
	return s
}

// Path returns the backing file path, "" for a memory store
func (s *Store) Path() string {
	return s.path
}

// Get returns the value of key or "" when absent
func (s *Store) Get(key string) string {
	s.load()
	return s.data[key]
}

// Set stores a value and writes the file. Write failures are logged; the
// value stays available for the rest of the session.
func (s *Store) Set(key, value string) {
	s.load()
	s.data[key] = value
	if err := s.save(); err != nil {
		log.Printf("[storage] %v", err)
	}
}

// Snapshot returns a copy of every stored item
func (s *Store) Snapshot() map[string]string {
	s.load()
	return maps.Clone(s.data)
}

// Len returns the number of stored items
func (s *Store) Len() int {
	s.load()
	return len(s.data)
}

func (s *Store) load() {
	if s.loaded {
		return
	}
	s.loaded = true
	s.data = make(map[string]string)
	if s.path == "" {
		return
	}

	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return
	}
	if err != nil {
		log.Printf("[storage] failed to read %s: %v", s.path, err)
		return
	}
	if err := json.Unmarshal(raw, &s.data); err != nil {
		log.Printf("[storage] ignoring corrupt %s: %v", s.path, err)
		s.data = make(map[string]string)
	}
}

func (s *Store) save() error {
	if s.path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create storage dir: %w", err)
	}
	raw, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode storage: %w", err)
	}
	if err := os.WriteFile(s.path, raw, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", s.path, err)
	}
	return nil
}
