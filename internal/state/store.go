// Package state implements the JSON-backed persistent container index
// (spec §4.7, §6): the state file is the sole source of truth for what
// containers exist across process invocations.
package state

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/containust/containust/internal/primitives"
)

// Entry is one persisted container record.
type Entry struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	State      string    `json:"state"`
	PID        *int      `json:"pid"`
	Image      string    `json:"image"`
	RootfsPath *string   `json:"rootfs_path"`
	LogPath    *string   `json:"log_path"`
	CreatedAt  time.Time `json:"created_at"`
}

// file is the on-disk JSON shape: a single array field.
type file struct {
	Containers []Entry `json:"containers"`
}

// Store is not concurrent-safe; the engine assumes a single-writer CLI
// process per spec §4.7.
type Store struct {
	path string
}

// New returns a Store backed by the JSON file at path.
func New(path string) *Store {
	return &Store{path: path}
}

// Load returns an empty state if the file is absent; otherwise it parses
// the entry array and propagates parse errors as Serialization errors.
func (s *Store) Load() ([]Entry, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, primitives.NewIo(s.path, "reading state file", err)
	}
	var f file
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, primitives.NewSerialization("decoding state file", err)
	}
	return f.Containers, nil
}

// Save creates the parent directory if needed and writes pretty-printed
// JSON.
func (s *Store) Save(entries []Entry) error {
	if err := primitives.EnsureDir(filepath.Dir(s.path)); err != nil {
		return err
	}
	data, err := json.MarshalIndent(file{Containers: entries}, "", "  ")
	if err != nil {
		return primitives.NewSerialization("encoding state file", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return primitives.NewIo(s.path, "writing state file", err)
	}
	return nil
}

// Upsert replaces the entry with the same ID as e, or appends e if no entry
// with that ID exists yet, then saves.
func (s *Store) Upsert(e Entry) error {
	entries, err := s.Load()
	if err != nil {
		return err
	}
	for i := range entries {
		if entries[i].ID == e.ID {
			entries[i] = e
			return s.Save(entries)
		}
	}
	entries = append(entries, e)
	return s.Save(entries)
}

// Remove deletes the entry with the given ID, if present, then saves.
func (s *Store) Remove(id string) error {
	entries, err := s.Load()
	if err != nil {
		return err
	}
	out := entries[:0]
	for _, e := range entries {
		if e.ID != id {
			out = append(out, e)
		}
	}
	return s.Save(out)
}

// Get returns the entry with the given ID, or nil if absent.
func (s *Store) Get(id string) (*Entry, error) {
	entries, err := s.Load()
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		if e.ID == id {
			return &e, nil
		}
	}
	return nil, nil
}
