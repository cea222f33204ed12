package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/retroenv/retroproc/internal/processor"
)

// MemoryStore keeps encoded snapshots in process memory.
type MemoryStore struct {
	*Counter

	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemoryStore returns an empty store that allocates identifiers from 0.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		Counter: NewCounter(0),
		data:    make(map[string][]byte),
	}
}

// Load returns the snapshot stored for the identifier.
func (s *MemoryStore) Load(ctx context.Context, id ID) (processor.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return processor.Snapshot{}, err
	}

	s.mu.RLock()
	data, ok := s.data[id.Key()]
	s.mu.RUnlock()
	if !ok {
		return processor.Snapshot{}, fmt.Errorf("loading '%s': %w", id.Key(), ErrNotFound)
	}
	return decode(id, data)
}

// Save stores the snapshot for the identifier, replacing an existing one.
func (s *MemoryStore) Save(ctx context.Context, id ID, snap processor.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := encode(snap)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.data[id.Key()] = data
	s.mu.Unlock()
	return nil
}
