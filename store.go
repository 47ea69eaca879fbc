package main

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	_ "modernc.org/sqlite"
)

// storeSchemaVersion is recorded in the meta table. A store written by
// an incompatible schema is purged on open instead of being read back
// with guessed field shapes; the cache only ever holds one day of
// disposable data.
const storeSchemaVersion = 1

// Store is the durable per-day menu cache, one sqlite file keyed by
// source URL. It is opened once per run and guarded by an advisory
// file lock so overlapping scheduled runs cannot race on writes.
type Store struct {
	db   *sql.DB
	lock *flock.Flock
}

// OpenStore opens (or creates) the cache store at path and acquires
// the run lock. It fails without blocking if another run holds the
// lock.
func OpenStore(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating cache dir: %w", err)
	}

	lock := flock.New(path + ".lock")
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("locking cache store: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("cache store %s is in use by another run", path)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		lock.Unlock()
		return nil, fmt.Errorf("opening cache store: %w", err)
	}
	db.SetMaxOpenConns(1)

	s := &Store{db: db, lock: lock}
	if err := s.init(); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) init() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS menus (
			key    TEXT PRIMARY KEY,
			text   TEXT NOT NULL,
			as_of  TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS meta (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
	`)
	if err != nil {
		return fmt.Errorf("initializing cache schema: %w", err)
	}

	var version int
	err = s.db.QueryRow("SELECT value FROM meta WHERE key = 'schema_version'").Scan(&version)
	switch {
	case err == sql.ErrNoRows:
		version = 0
	case err != nil:
		return fmt.Errorf("reading cache schema version: %w", err)
	}

	if version != storeSchemaVersion {
		if _, err := s.db.Exec("DELETE FROM menus"); err != nil {
			return fmt.Errorf("purging incompatible cache: %w", err)
		}
		_, err := s.db.Exec(`
			INSERT INTO meta (key, value) VALUES ('schema_version', ?)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value
		`, storeSchemaVersion)
		if err != nil {
			return fmt.Errorf("writing cache schema version: %w", err)
		}
	}
	return nil
}

// Get looks up the cache entry for key. The second return value
// reports whether an entry exists.
func (s *Store) Get(key string) (CacheEntry, bool, error) {
	var e CacheEntry
	err := s.db.QueryRow("SELECT key, text, as_of FROM menus WHERE key = ?", key).
		Scan(&e.Key, &e.Text, &e.AsOfDate)
	if err == sql.ErrNoRows {
		return CacheEntry{}, false, nil
	}
	if err != nil {
		return CacheEntry{}, false, fmt.Errorf("reading cache entry %s: %w", key, err)
	}
	return e, true, nil
}

// Put writes or overwrites the cache entry for e.Key. Stale entries
// are superseded, never merged.
func (s *Store) Put(e CacheEntry) error {
	_, err := s.db.Exec(`
		INSERT INTO menus (key, text, as_of) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			text = excluded.text,
			as_of = excluded.as_of
	`, e.Key, e.Text, e.AsOfDate)
	if err != nil {
		return fmt.Errorf("writing cache entry %s: %w", e.Key, err)
	}
	return nil
}

// Close releases the database handle and the run lock.
func (s *Store) Close() error {
	var dbErr error
	if s.db != nil {
		dbErr = s.db.Close()
	}
	if s.lock != nil {
		if err := s.lock.Unlock(); err != nil && dbErr == nil {
			dbErr = err
		}
	}
	return dbErr
}
