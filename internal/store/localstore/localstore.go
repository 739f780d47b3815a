// Package localstore is the durable key-value collaborator backing both
// engines. Each logical key holds one serialized snapshot and is written
// independently; there is no cross-key transactionality.
package localstore

import (
	"context"
	"database/sql"
	"errors"
	"time"

	_ "modernc.org/sqlite"
)

// Well-known snapshot keys. Each key is an independent single-writer slot.
const (
	KeyBudgetSettings   = "budget-settings"
	KeyBudgetState      = "budget-state"
	KeyEngagementStats  = "engagement-stats"
	KeyBadgePreferences = "badge-preferences"
	KeyLastActiveDay    = "last-active-day"
)

// DB wraps a SQLite database used as a snapshot store.
type DB struct{ sql *sql.DB }

// Open opens (creating if needed) the snapshot store at path. Use
// ":memory:" for tests.
func Open(path string) (*DB, error) {
	d, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := d.Exec(`PRAGMA journal_mode=WAL; PRAGMA synchronous=NORMAL;`); err != nil {
		return nil, err
	}
	db := &DB{sql: d}
	if err := db.migrate(); err != nil {
		_ = d.Close()
		return nil, err
	}
	return db, nil
}

func (d *DB) Close() error { return d.sql.Close() }

func (d *DB) migrate() error {
	_, err := d.sql.Exec(`
	CREATE TABLE IF NOT EXISTS snapshots (
	  key TEXT PRIMARY KEY,
	  value TEXT NOT NULL,
	  updated_at INTEGER NOT NULL
	);
	`)
	return err
}

// Get returns the stored value for key. The second result is false when the
// key has never been written.
func (d *DB) Get(ctx context.Context, key string) (string, bool, error) {
	row := d.sql.QueryRowContext(ctx, `SELECT value FROM snapshots WHERE key=?`, key)
	var v string
	if err := row.Scan(&v); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, err
	}
	return v, true, nil
}

// Put overwrites the value for key.
func (d *DB) Put(ctx context.Context, key, value string) error {
	_, err := d.sql.ExecContext(ctx,
		`INSERT INTO snapshots(key, value, updated_at) VALUES(?,?,?)
		 ON CONFLICT(key) DO UPDATE SET value=excluded.value, updated_at=excluded.updated_at`,
		key, value, time.Now().UTC().Unix())
	return err
}

// Delete removes key. Deleting an absent key is not an error.
func (d *DB) Delete(ctx context.Context, key string) error {
	_, err := d.sql.ExecContext(ctx, `DELETE FROM snapshots WHERE key=?`, key)
	return err
}
