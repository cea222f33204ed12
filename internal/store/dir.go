package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/retroenv/retroproc/internal/processor"
)

const fileExtension = ".json"

// DirStore keeps one JSON file per snapshot in a directory.
type DirStore struct {
	dir string

	mu        sync.Mutex
	allocated map[ID]struct{}
}

// NewDirStore returns a store for the directory, creating it if needed.
func NewDirStore(dir string) (*DirStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating state directory '%s': %w", dir, err)
	}
	return &DirStore{
		dir:       dir,
		allocated: make(map[ID]struct{}),
	}, nil
}

func (s *DirStore) path(id ID) string {
	return filepath.Join(s.dir, id.Key()+fileExtension)
}

// Load returns the snapshot stored for the identifier.
func (s *DirStore) Load(ctx context.Context, id ID) (processor.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return processor.Snapshot{}, err
	}

	data, err := os.ReadFile(s.path(id))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return processor.Snapshot{}, fmt.Errorf("loading '%s': %w", id.Key(), ErrNotFound)
		}
		return processor.Snapshot{}, fmt.Errorf("reading snapshot file: %w", err)
	}
	return decode(id, data)
}

// Save writes the snapshot for the identifier. The file is replaced
// atomically so that a reader never sees a partial snapshot.
func (s *DirStore) Save(ctx context.Context, id ID, snap processor.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := encode(snap)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.dir, id.Key()+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer func() {
		_ = os.Remove(tmp.Name())
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("writing snapshot file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing snapshot file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path(id)); err != nil {
		return fmt.Errorf("renaming snapshot file: %w", err)
	}
	return nil
}

// Next returns an identifier that has no snapshot in the directory and was
// not handed out before by this store.
func (s *DirStore) Next() (ID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, fmt.Errorf("reading state directory: %w", err)
	}

	var next ID
	for _, entry := range entries {
		id, ok := parseFileName(entry.Name())
		if ok && id >= next {
			next = id + 1
		}
	}
	for id := range s.allocated {
		if id >= next {
			next = id + 1
		}
	}

	s.allocated[next] = struct{}{}
	return next, nil
}

func parseFileName(name string) (ID, bool) {
	name, ok := strings.CutSuffix(name, fileExtension)
	if !ok {
		return 0, false
	}
	name, ok = strings.CutPrefix(name, "processor_")
	if !ok {
		return 0, false
	}
	id, err := strconv.ParseUint(name, 10, 64)
	if err != nil {
		return 0, false
	}
	return ID(id), true
}
