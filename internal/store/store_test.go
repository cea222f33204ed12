package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retroproc/internal/processor"
)

var testSnapshot = processor.Snapshot{
	Accumulator:     0x05,
	IndexX:          0xFE,
	IndexY:          0x80,
	StackPointer:    0xFF,
	ProcessorStatus: 0xE3,
	ProgramCounter:  0xFF00,
}

func testStores(t *testing.T) map[string]Store {
	t.Helper()

	dir, err := NewDirStore(filepath.Join(t.TempDir(), "state"))
	assert.NoError(t, err)

	return map[string]Store{
		"memory": NewMemoryStore(),
		"dir":    dir,
	}
}

func TestRoundTrip(t *testing.T) {
	ctx := context.Background()

	for name, s := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			assert.NoError(t, s.Save(ctx, 3, testSnapshot))

			snap, err := s.Load(ctx, 3)
			assert.NoError(t, err)
			assert.Equal(t, testSnapshot, snap)

			p, err := processor.Restore(nil, snap)
			assert.NoError(t, err)
			assert.Equal(t, testSnapshot, p.Snapshot())

			// overwrite
			updated := testSnapshot
			updated.ProgramCounter = 0x0200
			assert.NoError(t, s.Save(ctx, 3, updated))
			snap, err = s.Load(ctx, 3)
			assert.NoError(t, err)
			assert.Equal(t, 0x0200, snap.ProgramCounter)
		})
	}
}

func TestLoadNotFound(t *testing.T) {
	for name, s := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Load(context.Background(), 42)
			assert.True(t, errors.Is(err, ErrNotFound))
			assert.ErrorContains(t, err, "processor_42")
		})
	}
}

func TestCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for name, s := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			err := s.Save(ctx, 1, testSnapshot)
			assert.True(t, errors.Is(err, context.Canceled))
			_, err = s.Load(ctx, 1)
			assert.True(t, errors.Is(err, context.Canceled))
		})
	}
}

func TestDirStoreFileLayout(t *testing.T) {
	dir := t.TempDir()
	s, err := NewDirStore(dir)
	assert.NoError(t, err)

	assert.NoError(t, s.Save(context.Background(), 7, testSnapshot))

	data, err := os.ReadFile(filepath.Join(dir, "processor_7.json"))
	assert.NoError(t, err)
	assert.Contains(t, string(data), `"ProgramCounter":65280`)

	assert.NoError(t, os.WriteFile(filepath.Join(dir, "processor_9.json"), []byte("{"), 0o600))
	_, err = s.Load(context.Background(), 9)
	assert.ErrorContains(t, err, "decoding snapshot 'processor_9'")
}

func TestDirStoreNext(t *testing.T) {
	dir := t.TempDir()
	s, err := NewDirStore(dir)
	assert.NoError(t, err)

	id, err := s.Next()
	assert.NoError(t, err)
	assert.Equal(t, ID(0), id)

	assert.NoError(t, s.Save(context.Background(), 5, testSnapshot))
	assert.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), nil, 0o600))

	id, err = s.Next()
	assert.NoError(t, err)
	assert.Equal(t, ID(6), id)

	// not yet saved, still not handed out twice
	id, err = s.Next()
	assert.NoError(t, err)
	assert.Equal(t, ID(7), id)
}

func TestCounter(t *testing.T) {
	c := NewCounter(10)

	var (
		mu   sync.Mutex
		seen = map[ID]struct{}{}
		wg   sync.WaitGroup
	)
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id, err := c.Next()
			assert.NoError(t, err)
			mu.Lock()
			seen[id] = struct{}{}
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Len(t, seen, 16)
	for id := range seen {
		assert.True(t, id >= 10 && id < 26)
	}
}

func TestMemoryStoreAllocates(t *testing.T) {
	s := NewMemoryStore()

	first, err := s.Next()
	assert.NoError(t, err)
	second, err := s.Next()
	assert.NoError(t, err)
	assert.Equal(t, ID(0), first)
	assert.Equal(t, ID(1), second)
}

func TestParseFileName(t *testing.T) {
	id, ok := parseFileName("processor_12.json")
	assert.True(t, ok)
	assert.Equal(t, ID(12), id)

	_, ok = parseFileName("processor_x.json")
	assert.False(t, ok)
	_, ok = parseFileName("controller_1.json")
	assert.False(t, ok)
	_, ok = parseFileName("processor_1.json.tmp")
	assert.False(t, ok)
}
