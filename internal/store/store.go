// Package store persists processor snapshots under numeric identifiers.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/retroenv/retroproc/internal/processor"
	"github.com/retroenv/retroproc/internal/translate"
)

var f = translate.From

// ErrNotFound is returned when no snapshot is stored for an identifier.
var ErrNotFound = errors.New(f("snapshot not found"))

// ID identifies a processor.
type ID uint64

// Key returns the name the snapshot of the processor is stored under.
func (id ID) Key() string {
	return fmt.Sprintf("processor_%d", uint64(id))
}

// Store loads and saves processor snapshots.
type Store interface {
	Load(ctx context.Context, id ID) (processor.Snapshot, error)
	Save(ctx context.Context, id ID, snap processor.Snapshot) error
}

// Allocator hands out identifiers for new processors.
type Allocator interface {
	Next() (ID, error)
}

// Counter is an Allocator counting up from a start value.
type Counter struct {
	next atomic.Uint64
}

// NewCounter returns a counter whose first identifier is start.
func NewCounter(start ID) *Counter {
	c := &Counter{}
	c.next.Store(uint64(start))
	return c
}

// Next returns the next free identifier.
func (c *Counter) Next() (ID, error) {
	return ID(c.next.Add(1) - 1), nil
}

func encode(snap processor.Snapshot) ([]byte, error) {
	data, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("encoding snapshot: %w", err)
	}
	return data, nil
}

func decode(id ID, data []byte) (processor.Snapshot, error) {
	var snap processor.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return processor.Snapshot{}, fmt.Errorf("decoding snapshot '%s': %w", id.Key(), err)
	}
	return snap, nil
}
