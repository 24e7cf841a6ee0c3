// Package sqlite implements the tracker key-value store on a SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"calories/internal/domain"
)

// DB wraps a *sql.DB holding the tracker_kv table.
type DB struct {
	sql *sql.DB
}

var _ domain.KeyValue = (*DB)(nil)

// Open opens (creating if needed) the SQLite database at path.
func Open(path string) (*DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("sqlite: create dir: %w", err)
		}
	}

	s, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("sqlite: open: %w", err)
	}
	// SQLite doesn't handle multiple writers well.
	s.SetMaxOpenConns(1)
	s.SetMaxIdleConns(1)
	s.SetConnMaxLifetime(time.Hour)

	if _, err := s.Exec(`CREATE TABLE IF NOT EXISTS tracker_kv (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("sqlite: create table: %w", err)
	}
	return &DB{sql: s}, nil
}

// Close closes the database.
func (d *DB) Close() error {
	return d.sql.Close()
}

// Get returns the value stored under key.
func (d *DB) Get(ctx context.Context, key string) (string, bool, error) {
	var v string
	err := d.sql.QueryRowContext(ctx, `SELECT value FROM tracker_kv WHERE key = ?`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

// Set upserts value under key.
func (d *DB) Set(ctx context.Context, key, value string) error {
	return d.Apply(ctx, domain.SetOp(key, value))
}

// Delete removes keys; missing keys are ignored.
func (d *DB) Delete(ctx context.Context, keys ...string) error {
	ops := make([]domain.Op, 0, len(keys))
	for _, k := range keys {
		ops = append(ops, domain.DeleteOp(k))
	}
	return d.Apply(ctx, ops...)
}

// Apply runs every op inside one transaction.
func (d *DB) Apply(ctx context.Context, ops ...domain.Op) error {
	tx, err := d.sql.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, op := range ops {
		if op.Key == "" {
			return errors.New("sqlite: empty key")
		}
		if op.Delete {
			_, err = tx.ExecContext(ctx, `DELETE FROM tracker_kv WHERE key = ?`, op.Key)
		} else {
			_, err = tx.ExecContext(ctx,
				`INSERT INTO tracker_kv(key, value) VALUES(?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
				op.Key, op.Value)
		}
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}
