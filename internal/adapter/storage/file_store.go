package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/almazuulu/inventory-mgmt-tool/internal/core/domain"
)

var ErrCorruptStore = errors.New("corrupt store")

// FileStore persists the warehouse state as indented JSON in a single
// file: location id -> item id -> quantity.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) Load(ctx context.Context) (domain.Warehouse, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return domain.Warehouse{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read state file: %w", err)
	}
	// A zero-length file counts as an empty warehouse.
	if len(data) == 0 {
		return domain.Warehouse{}, nil
	}

	var state domain.Warehouse
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorruptStore, s.path, err)
	}
	// A bare `null` decodes into a nil map without error.
	if state == nil {
		return nil, fmt.Errorf("%w: %s: document is not a JSON object", ErrCorruptStore, s.path)
	}

	for loc, inv := range state {
		if inv == nil {
			state[loc] = domain.Inventory{}
			continue
		}
		for item, qty := range inv {
			if qty <= 0 {
				return nil, fmt.Errorf("%w: %s: item %s in %s has non-positive quantity %d",
					ErrCorruptStore, s.path, item, loc, qty)
			}
		}
	}

	return state, nil
}

// Save writes the state to a temp file in the same directory and
// renames it over the target, so readers only ever see a complete
// document.
func (s *FileStore) Save(ctx context.Context, state domain.Warehouse) error {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp state file: %w", err)
	}
	defer os.Remove(tmp.Name()) // no-op once the rename lands

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp state file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp state file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp state file: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace state file: %w", err)
	}
	return nil
}
