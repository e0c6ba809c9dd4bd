package layout

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/matzehuels/facetkit/pkg/tree"
)

const (
	layoutFile = "layout.json"
	stateFile  = "state.json"
)

// FileStore keeps the grid and state as JSON files in a directory.
// Interaction callbacks do not survive a round trip.
type FileStore struct {
	mu      sync.RWMutex
	baseDir string
}

// NewFileStore creates a file store. If baseDir is empty, defaults to
// ~/.config/facetkit/host/.
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home dir: %w", err)
		}
		baseDir = filepath.Join(home, ".config", "facetkit", "host")
	}
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("create layout dir: %w", err)
	}
	return &FileStore{baseDir: baseDir}, nil
}

func (s *FileStore) Read(ctx context.Context) (tree.Grid, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var grid tree.Grid
	if err := s.readJSON(layoutFile, &grid); err != nil {
		return nil, fmt.Errorf("read layout: %w", err)
	}
	return grid, nil
}

func (s *FileStore) Publish(ctx context.Context, grid tree.Grid) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.writeJSON(layoutFile, grid); err != nil {
		return fmt.Errorf("write layout: %w", err)
	}
	return nil
}

func (s *FileStore) State(ctx context.Context) (map[string]any, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var state map[string]any
	if err := s.readJSON(stateFile, &state); err != nil {
		return nil, fmt.Errorf("read state: %w", err)
	}
	return state, nil
}

func (s *FileStore) SetState(ctx context.Context, patch map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var state map[string]any
	if err := s.readJSON(stateFile, &state); err != nil {
		return fmt.Errorf("read state: %w", err)
	}
	if err := s.writeJSON(stateFile, mergeState(state, patch)); err != nil {
		return fmt.Errorf("write state: %w", err)
	}
	return nil
}

// Reset removes the published grid and state.
func (s *FileStore) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, name := range []string{layoutFile, stateFile} {
		if err := os.Remove(filepath.Join(s.baseDir, name)); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove %s: %w", name, err)
		}
	}
	return nil
}

// Path returns the base directory of the store.
func (s *FileStore) Path() string {
	return s.baseDir
}

// readJSON leaves v untouched when the file does not exist.
func (s *FileStore) readJSON(name string, v any) error {
	data, err := os.ReadFile(filepath.Join(s.baseDir, name))
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

func (s *FileStore) writeJSON(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(s.baseDir, name), data, 0644)
}

var _ HostStore = (*FileStore)(nil)
