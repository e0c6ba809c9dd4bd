package layout

import (
	"context"
	"sync"

	"github.com/matzehuels/facetkit/pkg/tree"
)

// Store reads and publishes the layout grid. Read returns a nil grid when
// nothing was published yet.
type Store interface {
	Read(ctx context.Context) (tree.Grid, error)
	Publish(ctx context.Context, grid tree.Grid) error
}

// StateStore reads and patches the host state slot. SetState merges the
// patch into the current state key by key.
type StateStore interface {
	State(ctx context.Context) (map[string]any, error)
	SetState(ctx context.Context, patch map[string]any) error
}

// HostStore is a backend holding both the grid and the state slot.
type HostStore interface {
	Store
	StateStore
}

// MemoryStore keeps the grid and state in process. Nodes are stored as
// published, callbacks included.
type MemoryStore struct {
	mu    sync.RWMutex
	grid  tree.Grid
	state map[string]any
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Read returns a copy of the grid rows. Nodes are shared.
func (s *MemoryStore) Read(ctx context.Context) (tree.Grid, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.grid.Clone(), nil
}

// Publish replaces the grid.
func (s *MemoryStore) Publish(ctx context.Context, grid tree.Grid) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.grid = grid.Clone()
	return nil
}

// State returns a copy of the state slot, or nil if it was never set.
func (s *MemoryStore) State(ctx context.Context) (map[string]any, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyState(s.state), nil
}

// SetState merges patch into the state slot.
func (s *MemoryStore) SetState(ctx context.Context, patch map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = mergeState(s.state, patch)
	return nil
}

func copyState(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func mergeState(cur, patch map[string]any) map[string]any {
	out := copyState(cur)
	if out == nil {
		out = make(map[string]any, len(patch))
	}
	for k, v := range patch {
		out[k] = v
	}
	return out
}

var _ HostStore = (*MemoryStore)(nil)
