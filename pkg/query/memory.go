package query

import (
	"context"
	"sync"

	"github.com/matzehuels/facetkit/pkg/record"
)

// MemorySearcher serves fixed collections. Queries are field filters (see
// [Match]). Every search returns fresh shallow copies.
type MemorySearcher struct {
	mu   sync.RWMutex
	data map[string][]record.Record
}

// NewMemorySearcher creates an empty searcher.
func NewMemorySearcher() *MemorySearcher {
	return &MemorySearcher{data: make(map[string][]record.Record)}
}

// Add appends records to a collection.
func (s *MemorySearcher) Add(typeTag string, rs ...record.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[typeTag] = append(s.data[typeTag], rs...)
}

func (s *MemorySearcher) Search(ctx context.Context, typeTag, q string) ([]record.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := filter(s.data[typeTag], q)
	for i, r := range matched {
		matched[i] = r.Clone()
	}
	return matched, nil
}

var _ Searcher = (*MemorySearcher)(nil)
