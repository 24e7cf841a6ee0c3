// Package id generates record identifiers.
//
// TypeID identifiers look like "meal_01h2xcejqtf2nbrexx3vqjhp41": the record
// kind as prefix followed by a UUIDv7 suffix, so they are unique, K-sortable
// and URL-safe. Counter identifiers ("meal-1") are deterministic and meant for
// tests; they restart with every process.
package id

import (
	"fmt"
	"strconv"
	"sync/atomic"

	"go.jetify.com/typeid/v2"

	"calories/internal/domain"
)

// TypeID generates prefix-qualified TypeID strings.
type TypeID struct{}

// Default is the generator used when none is configured.
var Default domain.IDGenerator = TypeID{}

// NewID returns a new TypeID with kind as its prefix.
// It panics if kind is not a valid TypeID prefix (programming error).
func (TypeID) NewID(kind domain.Kind) string {
	tid, err := typeid.Generate(string(kind))
	if err != nil {
		panic(fmt.Sprintf("id: invalid prefix %q: %v", kind, err))
	}
	return tid.String()
}

// Counter generates "<kind>-<n>" identifiers from a monotonic counter shared
// by all kinds.
type Counter struct {
	n atomic.Int64
}

// NewCounter returns a Counter whose first id ends in start+1.
func NewCounter(start int64) *Counter {
	c := &Counter{}
	c.n.Store(start)
	return c
}

// NewID returns the next counter id for kind.
func (c *Counter) NewID(kind domain.Kind) string {
	return string(kind) + "-" + strconv.FormatInt(c.n.Add(1), 10)
}
