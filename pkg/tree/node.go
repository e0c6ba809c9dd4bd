package tree

import (
	"context"
	"encoding/json"

	"github.com/matzehuels/facetkit/pkg/record"
)

// Node-level JSON keys.
const (
	keyID        = "id"
	keyType      = "type"
	keyTypes     = "types"
	keyData      = "data"
	keySize      = "size"
	keyNoFacet   = "no_facet"
	keyCallbacks = "callbacks"
)

// CallbackActivePointChange is the name under which the point-change callback
// is advertised to the host.
const CallbackActivePointChange = "on_active_point_change"

// PointEvent is the payload the host sends when a chart point becomes active
// or inactive. "key" holds the index of the line the point belongs to.
type PointEvent map[string]any

// PointChangeFunc handles a point becoming active (click) or inactive (hover).
type PointChangeFunc func(ctx context.Context, ev PointEvent, active bool) error

// Callbacks are the interaction handlers registered on a node. The host is
// their only caller.
type Callbacks struct {
	OnActivePointChange PointChangeFunc
}

// Node is one visualization panel.
type Node struct {
	// ID identifies the build that produced the node.
	ID string
	// Type selects the renderer. Empty for union nodes.
	Type string
	// Types maps record type tags to child node types for union nodes.
	Types map[string]string
	// Data is usually a record sequence but may be any value.
	Data any
	// Fields holds type-specific keys, flattened into the JSON form.
	Fields map[string]any
	Size   map[string]any
	// NoFacet is set when the data is not split into facet panels.
	NoFacet   bool
	Callbacks *Callbacks
}

// Records returns the node data as a record sequence, if it is one.
func (n *Node) Records() ([]record.Record, bool) {
	return record.AsRecords(n.Data)
}

// IsUnion reports whether n was merged from several nodes.
func (n *Node) IsUnion() bool {
	return n.Types != nil
}

// TypeFor returns the node type that renders records tagged recordType.
// For plain nodes it is the node's own type.
func (n *Node) TypeFor(recordType string) string {
	if n.Types == nil {
		return n.Type
	}
	return n.Types[recordType]
}

// Set stores a type-specific field.
func (n *Node) Set(key string, v any) {
	if n.Fields == nil {
		n.Fields = make(map[string]any)
	}
	n.Fields[key] = v
}

// Get returns a type-specific field.
func (n *Node) Get(key string) any {
	return n.Fields[key]
}

// Clone returns a shallow copy of n with its own Fields map.
func (n *Node) Clone() *Node {
	c := *n
	if n.Fields != nil {
		c.Fields = make(map[string]any, len(n.Fields))
		for k, v := range n.Fields {
			c.Fields[k] = v
		}
	}
	return &c
}

// Union merges nodes left to right: later fields win on key collision. The
// result has no type; its Types map sends each record type tag to the first
// child whose first record carries that tag. Data is left for the caller.
func Union(nodes []*Node) *Node {
	u := &Node{Types: make(map[string]string)}
	for _, n := range nodes {
		if n == nil {
			continue
		}
		for k, v := range n.Fields {
			u.Set(k, v)
		}
		if n.ID != "" {
			u.ID = n.ID
		}
		if n.Size != nil {
			u.Size = n.Size
		}
		if n.Callbacks != nil {
			u.Callbacks = n.Callbacks
		}
		u.NoFacet = n.NoFacet

		rs, ok := n.Records()
		if !ok || len(rs) == 0 || rs[0] == nil {
			continue
		}
		tag := rs[0].Type()
		if _, seen := u.Types[tag]; !seen {
			u.Types[tag] = n.Type
		}
	}
	return u
}

// MarshalJSON flattens Fields next to the node-level keys. Callbacks are
// advertised by name only.
func (n *Node) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(n.Fields)+6)
	for k, v := range n.Fields {
		out[k] = v
	}
	if n.ID != "" {
		out[keyID] = n.ID
	}
	out[keyType] = n.Type
	if n.Types != nil {
		out[keyTypes] = n.Types
	}
	out[keyData] = n.Data
	if n.Size != nil {
		out[keySize] = n.Size
	}
	out[keyNoFacet] = n.NoFacet
	if n.Callbacks != nil && n.Callbacks.OnActivePointChange != nil {
		out[keyCallbacks] = []string{CallbackActivePointChange}
	}
	return json.Marshal(out)
}

// UnmarshalJSON restores a node written by MarshalJSON. Callbacks cannot be
// restored; record sequences come back as []record.Record.
func (n *Node) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*n = Node{}
	for k, v := range raw {
		switch k {
		case keyID:
			n.ID, _ = v.(string)
		case keyType:
			n.Type, _ = v.(string)
		case keyTypes:
			if m, ok := v.(map[string]any); ok {
				n.Types = make(map[string]string, len(m))
				for tag, typ := range m {
					n.Types[tag], _ = typ.(string)
				}
			}
		case keyData:
			if rs, ok := record.AsRecords(v); ok {
				n.Data = rs
			} else {
				n.Data = v
			}
		case keySize:
			n.Size, _ = v.(map[string]any)
		case keyNoFacet:
			n.NoFacet, _ = v.(bool)
		case keyCallbacks:
		default:
			n.Set(k, v)
		}
	}
	return nil
}
