// Package vmcache implements the VM backend's asset cache metadata store
// (SPEC_FULL §4.14): a small sqlite database tracking the provenance of
// downloaded VM assets (Alpine kernel/initramfs), schema-migrated with
// golang-migrate. This sits alongside the VM cache directory's mandated
// files (spec §6) but is never itself part of a spec-mandated wire format.
package vmcache

import (
	"database/sql"
	"embed"
	"io/fs"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "modernc.org/sqlite"

	"github.com/containust/containust/internal/primitives"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Asset is one cached VM asset's provenance record.
type Asset struct {
	Name         string
	Architecture string
	SHA256       string
	SourceURL    string
	DownloadedAt time.Time
}

// Cache wraps a sqlite database at <cache-root>/vm/assets.db.
type Cache struct {
	db *sql.DB
}

// Open opens (creating and migrating if necessary) the asset cache database
// at dbPath.
func Open(dbPath string) (*Cache, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, primitives.NewIo(dbPath, "opening asset cache database", err)
	}
	if err := migrateUp(db, dbPath); err != nil {
		db.Close()
		return nil, err
	}
	return &Cache{db: db}, nil
}

func migrateUp(db *sql.DB, dbPath string) error {
	sub, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		return primitives.NewIo(dbPath, "reading embedded migrations", err)
	}
	srcDriver, err := iofs.New(sub, ".")
	if err != nil {
		return primitives.NewIo(dbPath, "constructing migration source", err)
	}
	dbDriver, err := sqlite.WithInstance(db, &sqlite.Config{})
	if err != nil {
		return primitives.NewIo(dbPath, "constructing migration driver", err)
	}
	m, err := migrate.NewWithInstance("iofs", srcDriver, "sqlite", dbDriver)
	if err != nil {
		return primitives.NewIo(dbPath, "constructing migrator", err)
	}
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return primitives.NewIo(dbPath, "applying asset cache migrations", err)
	}
	return nil
}

// Close closes the underlying database.
func (c *Cache) Close() error { return c.db.Close() }

// Register records (or idempotently re-records) an asset's provenance.
func (c *Cache) Register(a Asset) error {
	_, err := c.db.Exec(
		`INSERT INTO assets (name, architecture, sha256, source_url, downloaded_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET
		   architecture=excluded.architecture,
		   sha256=excluded.sha256,
		   source_url=excluded.source_url,
		   downloaded_at=excluded.downloaded_at`,
		a.Name, a.Architecture, a.SHA256, a.SourceURL, a.DownloadedAt,
	)
	if err != nil {
		return primitives.NewIo("", "registering cached asset", err)
	}
	return nil
}

// Get returns the asset record for name, or nil if it is not cached.
func (c *Cache) Get(name string) (*Asset, error) {
	row := c.db.QueryRow(
		`SELECT name, architecture, sha256, source_url, downloaded_at FROM assets WHERE name = ?`, name,
	)
	var a Asset
	if err := row.Scan(&a.Name, &a.Architecture, &a.SHA256, &a.SourceURL, &a.DownloadedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, primitives.NewIo("", "reading cached asset", err)
	}
	return &a, nil
}

// RequireOffline returns a Config error naming the missing asset if name is
// not present in the cache; used to fail fast under --offline instead of
// letting a downstream QEMU launch fail on a missing file.
func (c *Cache) RequireOffline(name string) error {
	a, err := c.Get(name)
	if err != nil {
		return err
	}
	if a == nil {
		return primitives.NewConfig("asset %q is not cached and --offline was set", name)
	}
	return nil
}
