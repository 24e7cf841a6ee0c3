// Package postgres implements the tracker key-value store on PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"calories/internal/domain"
)

// DB wraps a *sql.DB and implements domain.KeyValue.
type DB struct {
	sql *sql.DB
}

var _ domain.KeyValue = (*DB)(nil)

// Open connects to PostgreSQL, pings, and runs migrations.
func Open(connStr string) (*DB, error) {
	s, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}
	s.SetMaxOpenConns(10)
	s.SetMaxIdleConns(5)
	s.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.PingContext(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}

	d := &DB{sql: s}
	if err := d.migrate(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}
	return d, nil
}

// Close closes the underlying database connection.
func (d *DB) Close() error {
	return d.sql.Close()
}

func (d *DB) migrate(ctx context.Context) error {
	stmts := []string{
		"CREATE TABLE IF NOT EXISTS tracker_kv (key TEXT PRIMARY KEY, value TEXT NOT NULL, updated_at TIMESTAMPTZ NOT NULL DEFAULT now());",
	}

	for _, stmt := range stmts {
		if _, err := d.sql.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

// Get returns the value stored under key.
func (d *DB) Get(ctx context.Context, key string) (string, bool, error) {
	var v string
	err := d.sql.QueryRowContext(ctx, "SELECT value FROM tracker_kv WHERE key = $1;", key).Scan(&v)
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
			return errors.New("postgres: empty key")
		}
		if op.Delete {
			_, err = tx.ExecContext(ctx, "DELETE FROM tracker_kv WHERE key = $1;", op.Key)
		} else {
			_, err = tx.ExecContext(ctx,
				"INSERT INTO tracker_kv(key, value, updated_at) VALUES($1, $2, now()) ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now();",
				op.Key, op.Value)
		}
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}
