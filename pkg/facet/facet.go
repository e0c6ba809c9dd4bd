// Package facet splits visualization data into facet panels and stacks.
//
// [Group] runs the grouping engine over the records of one node for the row,
// column and stack dimensions plus any extra named dimensions, writes each
// record's group order, value and spec next to its fields, and publishes the
// node. [GroupAll] does the same for the union of several nodes.
//
// Facet metadata is only written when a row or column spec is set. Without
// one the records pass through unchanged and the node is marked no-facet.
package facet

import (
	"context"
	"sort"

	"github.com/matzehuels/facetkit/pkg/errors"
	"github.com/matzehuels/facetkit/pkg/group"
	"github.com/matzehuels/facetkit/pkg/record"
	"github.com/matzehuels/facetkit/pkg/tree"
)

// Built-in dimension names.
const (
	DimRow    = "row"
	DimColumn = "column"
	DimStack  = "stack"
)

const (
	suffixVal     = "_val"
	suffixOptions = "_options"
)

// Publisher receives the composed node.
type Publisher interface {
	AutoUpdate(ctx context.Context, node *tree.Node) error
}

// Options configures a facet composition.
type Options struct {
	Row    group.Spec
	Column group.Spec
	// Stack defaults to [group.NoStack] when zero.
	Stack group.Spec
	Size  map[string]any
	// Dims holds extra named dimensions. They are applied in name order.
	Dims map[string]group.Spec
}

// NoFacet reports whether neither a row nor a column spec is set.
func (o Options) NoFacet() bool {
	return o.Row.IsEmpty() && o.Column.IsEmpty()
}

func (o Options) stack() group.Spec {
	if o.Stack.IsEmpty() {
		return group.NoStack
	}
	return o.Stack
}

func (o Options) dimNames() []string {
	names := make([]string, 0, len(o.Dims))
	for name := range o.Dims {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate checks the extra dimension names.
func (o Options) Validate() error {
	for _, name := range o.dimNames() {
		if err := errors.ValidateDimensionName(name); err != nil {
			return err
		}
	}
	return nil
}

// Group composes a single node. The input node is not modified: the
// returned node is a copy holding shallow copies of the records.
func Group(ctx context.Context, pub Publisher, node *tree.Node, opts Options) (*tree.Node, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	out := node.Clone()

	data, ok := out.Records()
	if !ok {
		out.NoFacet = true
		out.Size = opts.Size
		return out, publish(ctx, pub, out)
	}

	out.Data = compose(data, opts)
	out.NoFacet = opts.NoFacet()
	out.Size = opts.Size
	return out, publish(ctx, pub, out)
}

// GroupAll composes the union of nodes: their records are concatenated and
// grouped together, and their fields merged left to right. The union node
// resolves a record type tag to the type of the child that produced it.
func GroupAll(ctx context.Context, pub Publisher, nodes []*tree.Node, opts Options) (*tree.Node, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	var data []record.Record
	for i, n := range nodes {
		rs, ok := n.Records()
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidInput,
				"node %d (%s) does not hold a record sequence", i, n.Type)
		}
		data = append(data, rs...)
	}

	out := tree.Union(nodes)
	out.Data = compose(data, opts)
	out.NoFacet = opts.NoFacet()
	return out, publish(ctx, pub, out)
}

// compose groups data on every dimension and returns shallow copies of the
// records, annotated when faceting is active. The input records are not
// modified.
func compose(data []record.Record, opts Options) []record.Record {
	scratch := make([]record.Record, len(data))
	for i, r := range data {
		scratch[i] = r.Clone()
	}

	type dimension struct {
		name   string
		spec   group.Spec
		groups *group.Groups
	}
	var dims []dimension
	add := func(name string, spec group.Spec) {
		g, _ := group.Group(name, scratch, spec)
		dims = append(dims, dimension{name: name, spec: spec, groups: g})
	}

	add(DimRow, opts.Row)
	add(DimColumn, opts.Column)
	for _, name := range opts.dimNames() {
		add(name, opts.Dims[name])
	}
	add(DimStack, opts.stack())

	noFacet := opts.NoFacet()
	items := make([]record.Record, len(data))
	for i, r := range data {
		item := r.Clone()
		if !noFacet {
			for _, d := range dims {
				desc, _ := d.groups.Of(scratch[i])
				item[d.name] = desc.Order
				item[d.name+suffixVal] = desc.Val
				item[d.name+suffixOptions] = d.spec
			}
		}
		items[i] = item
	}
	return items
}

func publish(ctx context.Context, pub Publisher, n *tree.Node) error {
	if pub == nil {
		return nil
	}
	return pub.AutoUpdate(ctx, n)
}
