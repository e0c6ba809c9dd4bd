package layout

import (
	"context"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/facetkit/pkg/errors"
	"github.com/matzehuels/facetkit/pkg/observability"
	"github.com/matzehuels/facetkit/pkg/tree"
)

// maxCallbacks bounds how many published nodes keep dispatchable callbacks.
const maxCallbacks = 256

// Publisher merges nodes into the host grid and relays state reads and writes.
//
// Callbacks of every published node are remembered by node ID, so a host
// that only sees the JSON form of the grid can still reach them through
// [Publisher.Dispatch]. Replaced nodes stay dispatchable until evicted.
type Publisher struct {
	store  Store
	state  StateStore
	logger *log.Logger

	mu        sync.Mutex
	callbacks map[string]*tree.Callbacks
	ids       []string
}

// NewPublisher creates a publisher over store. If store also implements
// [StateStore] it serves the state slot; otherwise State returns nil and
// SetState is a no-op. A nil logger discards output.
func NewPublisher(store Store, logger *log.Logger) *Publisher {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	p := &Publisher{
		store:     store,
		logger:    logger,
		callbacks: make(map[string]*tree.Callbacks),
	}
	if ss, ok := store.(StateStore); ok {
		p.state = ss
	}
	return p
}

// AutoUpdate merges node into the current grid and publishes the result.
// Every cell whose type equals the node's type is replaced by the node.
// Without a match the node becomes the only cell of an empty grid, or is
// appended as a new row. Union nodes have no type and are always appended.
func (p *Publisher) AutoUpdate(ctx context.Context, node *tree.Node) error {
	start := time.Now()
	grid, err := p.store.Read(ctx)
	if err != nil {
		err = errors.Wrap(errors.ErrCodeStoreFailed, err, "read layout")
		observability.Layout().OnPublish(ctx, node.Type, 0, false, err)
		return err
	}

	grid, replaced := Merge(grid, node)
	if err := p.publish(ctx, grid); err != nil {
		observability.Layout().OnPublish(ctx, node.Type, len(grid), replaced, err)
		return err
	}
	p.remember(node)

	p.logger.Debug("published layout",
		"type", displayType(node),
		"rows", len(grid),
		"cells", grid.Cells(),
		"replaced", replaced,
		"duration", time.Since(start))
	observability.Layout().OnPublish(ctx, node.Type, len(grid), replaced, nil)
	return nil
}

// Merge returns grid with node merged in and whether any cell was replaced.
// The input grid is not modified.
func Merge(grid tree.Grid, node *tree.Node) (tree.Grid, bool) {
	out := grid.Clone()
	replaced := false
	if node.Type != "" {
		for i, row := range out {
			for j, cell := range row {
				if cell != nil && cell.Type == node.Type {
					out[i][j] = node
					replaced = true
				}
			}
		}
	}
	if replaced {
		return out, true
	}
	if out.IsEmpty() {
		return tree.Grid{{node}}, false
	}
	return append(out, []*tree.Node{node}), false
}

// Layout publishes grid verbatim. The last writer wins.
func (p *Publisher) Layout(ctx context.Context, grid tree.Grid) error {
	if err := p.publish(ctx, grid); err != nil {
		observability.Layout().OnPublish(ctx, "", len(grid), false, err)
		return err
	}
	for _, row := range grid {
		for _, cell := range row {
			p.remember(cell)
		}
	}
	p.logger.Debug("published explicit layout", "rows", len(grid), "cells", grid.Cells())
	observability.Layout().OnPublish(ctx, "", len(grid), false, nil)
	return nil
}

// Grid returns the currently published grid.
func (p *Publisher) Grid(ctx context.Context) (tree.Grid, error) {
	grid, err := p.store.Read(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreFailed, err, "read layout")
	}
	return grid, nil
}

// State returns the host state slot. It is nil when nothing was set.
func (p *Publisher) State(ctx context.Context) (map[string]any, error) {
	if p.state == nil {
		return nil, nil
	}
	st, err := p.state.State(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreFailed, err, "read state")
	}
	return st, nil
}

// SetState merges patch into the host state slot.
func (p *Publisher) SetState(ctx context.Context, patch map[string]any) error {
	if p.state == nil {
		return nil
	}
	keys := make([]string, 0, len(patch))
	for k := range patch {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	err := p.state.SetState(ctx, patch)
	if err != nil {
		err = errors.Wrap(errors.ErrCodeStoreFailed, err, "write state")
	}
	observability.Layout().OnStateChange(ctx, keys, err)
	if err == nil {
		p.logger.Debug("state updated", "keys", keys)
	}
	return err
}

// Dispatch invokes the point-change callback of the node published under
// id. Errors returned by the callback are passed through unchanged.
func (p *Publisher) Dispatch(ctx context.Context, id string, ev tree.PointEvent, active bool) error {
	p.mu.Lock()
	cb := p.callbacks[id]
	p.mu.Unlock()

	if cb == nil || cb.OnActivePointChange == nil {
		return errors.New(errors.ErrCodeNotFound, "no point callback for node %q", id)
	}
	return cb.OnActivePointChange(ctx, ev, active)
}

func (p *Publisher) publish(ctx context.Context, grid tree.Grid) error {
	if err := p.store.Publish(ctx, grid); err != nil {
		return errors.Wrap(errors.ErrCodeStoreFailed, err, "publish layout")
	}
	return nil
}

func (p *Publisher) remember(n *tree.Node) {
	if n == nil || n.ID == "" || n.Callbacks == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.callbacks[n.ID]; !ok {
		p.ids = append(p.ids, n.ID)
	}
	p.callbacks[n.ID] = n.Callbacks
	for len(p.ids) > maxCallbacks {
		delete(p.callbacks, p.ids[0])
		p.ids = p.ids[1:]
	}
}

func displayType(n *tree.Node) string {
	if n.IsUnion() {
		return "union"
	}
	return n.Type
}
