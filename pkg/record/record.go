package record

import "strings"

// Field names with a fixed meaning across the pipeline.
const (
	FieldType = "type"
	FieldKey  = "key"
	FieldRun  = "run"
	FieldHash = "hash"
)

// Record is a single heterogeneous data item: a metric series, an image, a
// figure and so on.
type Record map[string]any

// Type returns the collection type tag attached by the query layer.
func (r Record) Type() string {
	s, _ := r[FieldType].(string)
	return s
}

// Clone returns a shallow copy of r. Nested values are shared.
func (r Record) Clone() Record {
	out := make(Record, len(r)+8)
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Find resolves a dotted path against r, walking nested mappings key by key.
// It reports false when the path is empty, any key is absent, or an
// intermediate value is not a mapping.
func Find(r Record, path string) (any, bool) {
	if path == "" {
		return nil, false
	}
	var cur any = r
	for _, key := range strings.Split(path, ".") {
		m, ok := asMap(cur)
		if !ok {
			return nil, false
		}
		v, ok := m[key]
		if !ok {
			return nil, false
		}
		cur = v
	}
	return cur, true
}

// Value is like Find but returns nil for a missing path.
func Value(r Record, path string) any {
	v, _ := Find(r, path)
	return v
}

func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case Record:
		return m, m != nil
	case map[string]any:
		return m, m != nil
	}
	return nil, false
}

// FromMaps converts decoded JSON objects into records without copying.
func FromMaps(ms []map[string]any) []Record {
	out := make([]Record, len(ms))
	for i, m := range ms {
		out[i] = Record(m)
	}
	return out
}

// AsRecords reports whether v is a record sequence and returns it.
// Sequences of plain mappings are accepted; anything else, including a
// sequence holding a non-mapping element, is not.
func AsRecords(v any) ([]Record, bool) {
	switch rs := v.(type) {
	case []Record:
		return rs, true
	case []map[string]any:
		return FromMaps(rs), true
	case []any:
		out := make([]Record, 0, len(rs))
		for _, e := range rs {
			m, ok := asMap(e)
			if !ok {
				return nil, false
			}
			out = append(out, Record(m))
		}
		return out, true
	}
	return nil, false
}
