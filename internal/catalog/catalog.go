// Package catalog implements the image catalog (spec §3, §6, §8 property
// 8): a JSON array at a fixed path under the data directory, plus remote
// manifest resolution backed by google/go-containerregistry for populating
// entries (spec SPEC_FULL §4.13).
package catalog

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/containust/containust/internal/primitives"
)

// Entry is one image catalog record.
type Entry struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Source    string    `json:"source"`
	Layers    []string  `json:"layers"` // ordered layer hashes, bottom->top
	Bytes     int64     `json:"bytes"`
	CreatedAt time.Time `json:"created_at"`
}

// Catalog is a JSON-file-backed registry of image entries.
type Catalog struct {
	path string
}

// New returns a Catalog backed by the JSON file at path
// (<data-dir>/images/catalog.json).
func New(path string) *Catalog {
	return &Catalog{path: path}
}

func (c *Catalog) load() ([]Entry, error) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, primitives.NewIo(c.path, "reading image catalog", err)
	}
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, primitives.NewSerialization("decoding image catalog", err)
	}
	return entries, nil
}

func (c *Catalog) save(entries []Entry) error {
	if err := primitives.EnsureDir(filepath.Dir(c.path)); err != nil {
		return err
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return primitives.NewSerialization("encoding image catalog", err)
	}
	if err := os.WriteFile(c.path, data, 0o644); err != nil {
		return primitives.NewIo(c.path, "writing image catalog", err)
	}
	return nil
}

// List returns every registered entry.
func (c *Catalog) List() ([]Entry, error) {
	return c.load()
}

// Register adds or replaces (by ID) an entry.
func (c *Catalog) Register(e Entry) error {
	entries, err := c.load()
	if err != nil {
		return err
	}
	for i := range entries {
		if entries[i].ID == e.ID {
			entries[i] = e
			return c.save(entries)
		}
	}
	entries = append(entries, e)
	return c.save(entries)
}

// Remove deletes the entry with the given id. Removing an absent id yields
// NotFound.
func (c *Catalog) Remove(id string) error {
	entries, err := c.load()
	if err != nil {
		return err
	}
	idx := -1
	for i, e := range entries {
		if e.ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return primitives.NewNotFound("image", id)
	}
	entries = append(entries[:idx], entries[idx+1:]...)
	return c.save(entries)
}

// Get returns the entry with the given id, or NotFound.
func (c *Catalog) Get(id string) (*Entry, error) {
	entries, err := c.load()
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		if e.ID == id {
			return &e, nil
		}
	}
	return nil, primitives.NewNotFound("image", id)
}
