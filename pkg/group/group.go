package group

import (
	"crypto/md5"
	"encoding/hex"
	"sort"
	"strings"

	"github.com/matzehuels/facetkit/pkg/record"
)

// Descriptor describes one distinct value combination within a dimension.
type Descriptor struct {
	Key     string `json:"key"`
	Options Spec   `json:"options"`
	Val     []any  `json:"val"`
	Order   int    `json:"order"`
}

// Groups maps group keys to their descriptors for one dimension.
type Groups struct {
	name   string
	byKey  map[string]*Descriptor
	sorted []*Descriptor
}

// Name returns the dimension name the groups were computed for.
func (g *Groups) Name() string { return g.name }

// Len returns the number of distinct groups.
func (g *Groups) Len() int { return len(g.sorted) }

// Get returns the descriptor for a group key.
func (g *Groups) Get(key string) (*Descriptor, bool) {
	d, ok := g.byKey[key]
	return d, ok
}

// Of returns the descriptor of the group r was assigned to.
func (g *Groups) Of(r record.Record) (*Descriptor, bool) {
	key, _ := r[g.name].(string)
	return g.Get(key)
}

// Sorted returns the descriptors in order.
func (g *Groups) Sorted() []*Descriptor {
	return append([]*Descriptor(nil), g.sorted...)
}

// Orders returns the group key → order mapping.
func (g *Groups) Orders() map[string]int {
	out := make(map[string]int, len(g.byKey))
	for k, d := range g.byKey {
		out[k] = d.Order
	}
	return out
}

// Key returns the group key for a resolved value sequence.
func Key(vals []any) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = record.String(v)
	}
	sum := md5.Sum([]byte(strings.Join(parts, " ")))
	return hex.EncodeToString(sum[:])
}

// Group assigns every record in data to a group of dimension name, storing
// the group key in record[name]. The returned slice holds the same records,
// not copies.
func Group(name string, data []record.Record, spec Spec) (*Groups, []record.Record) {
	g := &Groups{name: name, byKey: make(map[string]*Descriptor)}
	grouped := make([]record.Record, 0, len(data))

	for _, item := range data {
		vals := spec.resolve(item)
		key := Key(vals)
		if _, ok := g.byKey[key]; !ok {
			d := &Descriptor{Key: key, Options: spec, Val: vals, Order: -1}
			g.byKey[key] = d
			g.sorted = append(g.sorted, d)
		}
		item[name] = key
		grouped = append(grouped, item)
	}

	if spec.IsDerived() {
		sort.SliceStable(g.sorted, func(i, j int) bool {
			return record.String(g.sorted[i].Val) > record.String(g.sorted[j].Val)
		})
	} else {
		for dim := range spec.fields {
			sort.SliceStable(g.sorted, func(i, j int) bool {
				return less(g.sorted[i].Val[dim], g.sorted[j].Val[dim])
			})
		}
	}

	for i, d := range g.sorted {
		d.Order = i
	}
	return g, grouped
}
