package query

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/matzehuels/facetkit/pkg/record"
)

// FileSearcher reads collections from <dir>/<type>.json, each a JSON array
// of objects. Queries are field filters (see [Match]). A missing file is an
// empty collection.
type FileSearcher struct {
	dir string
}

// NewFileSearcher creates a searcher over dir.
func NewFileSearcher(dir string) *FileSearcher {
	return &FileSearcher{dir: dir}
}

// Dir returns the collection directory.
func (s *FileSearcher) Dir() string { return s.dir }

func (s *FileSearcher) Search(ctx context.Context, typeTag, q string) ([]record.Record, error) {
	path := filepath.Join(s.dir, typeTag+".json")
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var raw []map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return filter(record.FromMaps(raw), q), nil
}

var _ Searcher = (*FileSearcher)(nil)
