// Package bolt implements the tracker key-value store on a bbolt file.
package bolt

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"

	"calories/internal/domain"
)

const bucketTracker = "tracker" // key: entry name -> textual value

// DB wraps a *bbolt.DB holding a single bucket.
type DB struct {
	storage *bbolt.DB
}

var _ domain.KeyValue = (*DB)(nil)

// Open opens (creating if needed) the bbolt file at path.
func Open(path string) (*DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("bolt: create dir: %w", err)
		}
	}

	instance, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("bolt: open %s: %w", path, err)
	}

	if err := instance.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketTracker))
		return err
	}); err != nil {
		_ = instance.Close()
		return nil, fmt.Errorf("bolt: create bucket: %w", err)
	}

	return &DB{storage: instance}, nil
}

// Close closes the database file.
func (d *DB) Close() error {
	return d.storage.Close()
}

// Get returns the value stored under key.
func (d *DB) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}

	var (
		value string
		found bool
	)
	err := d.storage.View(func(tx *bbolt.Tx) error {
		// bbolt values are only valid inside the transaction, so copy out.
		if v := tx.Bucket([]byte(bucketTracker)).Get([]byte(key)); v != nil {
			value, found = string(v), true
		}
		return nil
	})
	return value, found, err
}

// Set stores value under key.
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

// Apply writes every op inside one bbolt transaction.
func (d *DB) Apply(ctx context.Context, ops ...domain.Op) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return d.storage.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(bucketTracker))
		for _, op := range ops {
			if op.Key == "" {
				return errors.New("bolt: empty key")
			}
			if op.Delete {
				if err := b.Delete([]byte(op.Key)); err != nil {
					return err
				}
				continue
			}
			if err := b.Put([]byte(op.Key), []byte(op.Value)); err != nil {
				return err
			}
		}
		return nil
	})
}
