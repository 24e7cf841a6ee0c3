package domain

import "context"

// Op is a single write inside a KeyValue batch.
type Op struct {
	Key    string
	Value  string
	Delete bool
}

// SetOp returns an Op that stores value under key.
func SetOp(key, value string) Op { return Op{Key: key, Value: value} }

// DeleteOp returns an Op that removes key.
func DeleteOp(key string) Op { return Op{Key: key, Delete: true} }

// KeyValue is the port for the durable string store backing the tracker.
type KeyValue interface {
	// Get returns ok=false when key is absent.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	// Delete ignores keys that do not exist.
	Delete(ctx context.Context, keys ...string) error
	// Apply writes every op or none of them.
	Apply(ctx context.Context, ops ...Op) error
	Close() error
}
