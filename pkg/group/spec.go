package group

import (
	"encoding/json"
	"strings"

	"github.com/matzehuels/facetkit/pkg/record"
)

// metricPrefix is removed from field paths so callers can write
// "metric.name" against records that are metrics themselves.
const metricPrefix = "metric."

// DeriveFunc computes a composite grouping value for a record.
type DeriveFunc func(record.Record) any

// Spec describes one grouping dimension. The zero Spec has no fields and
// puts every record in a single group.
type Spec struct {
	fields []string
	derive DeriveFunc
}

// Fields returns a Spec that groups by the values at the given paths.
func Fields(paths ...string) Spec {
	return Spec{fields: append([]string(nil), paths...)}
}

// Derive returns a Spec that groups by the result of fn.
func Derive(fn DeriveFunc) Spec {
	return Spec{derive: fn}
}

// NoStack is the default stack dimension: a single absent value, so every
// record lands in one stack group.
var NoStack = Fields("")

// IsEmpty reports whether s has neither fields nor a derivation.
func (s Spec) IsEmpty() bool {
	return s.derive == nil && len(s.fields) == 0
}

// IsDerived reports whether s is a derivation function.
func (s Spec) IsDerived() bool {
	return s.derive != nil
}

// Paths returns the field paths of s as given by the caller.
func (s Spec) Paths() []string {
	return append([]string(nil), s.fields...)
}

// MarshalJSON encodes a field spec as its path list and a derived spec as
// the string "<derived>".
func (s Spec) MarshalJSON() ([]byte, error) {
	if s.derive != nil {
		return json.Marshal("<derived>")
	}
	if s.fields == nil {
		return []byte("[]"), nil
	}
	paths := make([]any, len(s.fields))
	for i, p := range s.fields {
		if p == "" {
			paths[i] = nil
		} else {
			paths[i] = p
		}
	}
	return json.Marshal(paths)
}

// UnmarshalJSON accepts a path list; null entries become absent dimensions.
func (s *Spec) UnmarshalJSON(data []byte) error {
	var paths []*string
	if err := json.Unmarshal(data, &paths); err != nil {
		return err
	}
	s.derive = nil
	s.fields = make([]string, len(paths))
	for i, p := range paths {
		if p != nil {
			s.fields[i] = *p
		}
	}
	return nil
}

// resolve returns the ordered dimension values of r.
func (s Spec) resolve(r record.Record) []any {
	if s.derive != nil {
		return []any{s.derive(r)}
	}
	vals := make([]any, len(s.fields))
	for i, path := range s.fields {
		vals[i] = record.Value(r, strings.ReplaceAll(path, metricPrefix, ""))
	}
	return vals
}
