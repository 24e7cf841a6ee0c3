// Package memory implements an in-memory key-value store for development and testing.
package memory

import (
	"context"
	"errors"
	"maps"
	"sync"

	"calories/internal/domain"
)

// ErrClosed is returned by every operation after Close.
var ErrClosed = errors.New("memory: store closed")

// DB implements an in-memory key-value storage.
type DB struct {
	mu     sync.Mutex
	data   map[string]string
	closed bool
}

// New creates a new in-memory database.
func New() *DB {
	return &DB{data: make(map[string]string)}
}

// Ensure interfaces are met.
var _ domain.KeyValue = (*DB)(nil)

// Get returns the value stored under key.
func (db *DB) Get(ctx context.Context, key string) (string, bool, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if db.closed {
		return "", false, ErrClosed
	}
	v, ok := db.data[key]
	return v, ok, nil
}

// Set stores value under key.
func (db *DB) Set(ctx context.Context, key, value string) error {
	return db.Apply(ctx, domain.SetOp(key, value))
}

// Delete removes keys; missing keys are ignored.
func (db *DB) Delete(ctx context.Context, keys ...string) error {
	ops := make([]domain.Op, 0, len(keys))
	for _, k := range keys {
		ops = append(ops, domain.DeleteOp(k))
	}
	return db.Apply(ctx, ops...)
}

// Apply writes all ops under one lock.
func (db *DB) Apply(ctx context.Context, ops ...domain.Op) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	db.mu.Lock()
	defer db.mu.Unlock()

	if db.closed {
		return ErrClosed
	}
	for _, op := range ops {
		if op.Key == "" {
			return errors.New("memory: empty key")
		}
	}
	for _, op := range ops {
		if op.Delete {
			delete(db.data, op.Key)
			continue
		}
		db.data[op.Key] = op.Value
	}
	return nil
}

// Dump returns a copy of every stored entry.
func (db *DB) Dump() map[string]string {
	db.mu.Lock()
	defer db.mu.Unlock()
	return maps.Clone(db.data)
}

// Close marks the store closed. Stored data is discarded.
func (db *DB) Close() error {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.closed = true
	db.data = nil
	return nil
}
