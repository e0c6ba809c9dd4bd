package query

import (
	"strings"

	"github.com/matzehuels/facetkit/pkg/record"
)

// Match reports whether r satisfies a field filter: whitespace separated
// path=value terms that must all hold, comparing the string form of the
// value at path. An empty filter matches every record.
//
//	name=loss context.subset=train
func Match(filter string, r record.Record) bool {
	for _, term := range strings.Fields(filter) {
		path, want, ok := strings.Cut(term, "=")
		if !ok {
			return false
		}
		v, found := record.Find(r, path)
		if !found || record.String(v) != want {
			return false
		}
	}
	return true
}

func filter(data []record.Record, q string) []record.Record {
	out := make([]record.Record, 0, len(data))
	for _, r := range data {
		if Match(q, r) {
			out = append(out, r)
		}
	}
	return out
}
