package viz

import (
	"context"
	"encoding/json"
	"math"

	"github.com/matzehuels/facetkit/pkg/errors"
	"github.com/matzehuels/facetkit/pkg/group"
	"github.com/matzehuels/facetkit/pkg/record"
	"github.com/matzehuels/facetkit/pkg/tree"
)

// Interaction state keys shared with the host.
const (
	StateHoveredLine  = "hovered_line_data"
	StateFocusedLine  = "focused_line_data"
	StateHoveredPoint = "hovered_point_data"
	StateFocusedPoint = "focused_point_data"
)

var interactionKeys = []string{
	StateHoveredLine,
	StateFocusedLine,
	StateHoveredPoint,
	StateFocusedPoint,
}

// PointFunc is a user callback for chart interaction. line is the record
// the point belongs to.
type PointFunc func(ctx context.Context, line record.Record, point tree.PointEvent) error

// LineChartOptions configures [Builder.LineChart].
type LineChartOptions struct {
	// X and Y are the record paths holding the x and y value sequences.
	X string
	Y string
	// Color and StrokeStyle group lines for color and dash assignment.
	Color       group.Spec
	StrokeStyle group.Spec
	// Options is passed to the renderer untouched.
	Options map[string]any
	// OnPointClick runs after a point becomes active.
	OnPointClick PointFunc
	// OnChartHover runs after a point becomes inactive.
	OnChartHover PointFunc
}

// LineChart turns each record into a line. Lines get a color and a dash
// pattern from their color and stroke group orders. The node's point
// callback resolves events against the lines built here, even after the
// node has been replaced in the grid. Focus and hover state found in the
// host state is carried into the new node.
func (b *Builder) LineChart(ctx context.Context, data []record.Record, opts LineChartOptions) (*tree.Node, error) {
	lines := make([]record.Record, len(data))
	for i, r := range data {
		lines[i] = r.Clone()
	}

	colors, _ := group.Group(FieldColor, lines, opts.Color)
	strokes, _ := group.Group(FieldStroke, lines, opts.StrokeStyle)

	for i, line := range lines {
		c, _ := colors.Of(line)
		s, _ := strokes.Of(line)
		line[record.FieldKey] = i
		line[FieldData] = map[string]any{
			FieldXValues: record.Value(line, opts.X),
			FieldYValues: record.Value(line, opts.Y),
		}
		line[FieldColor] = ColorAt(c.Order)
		line[FieldDasharray] = StrokeAt(s.Order)
	}

	n := b.node(TypeLineChart, lines)
	n.Set(FieldOptions, opts.Options)
	n.Callbacks = &tree.Callbacks{
		OnActivePointChange: b.pointChange(lines, opts),
	}

	var state map[string]any
	if b.pub != nil {
		var err error
		if state, err = b.pub.State(ctx); err != nil {
			return nil, err
		}
	}
	for _, k := range interactionKeys {
		n.Set(k, state[k])
	}

	return b.publish(ctx, n)
}

func (b *Builder) pointChange(lines []record.Record, opts LineChartOptions) tree.PointChangeFunc {
	return func(ctx context.Context, ev tree.PointEvent, active bool) error {
		idx, ok := lineIndex(ev[record.FieldKey])
		if !ok || idx < 0 || idx >= len(lines) {
			return errors.New(errors.ErrCodeInvalidInput, "point event has no valid line key: %v", ev[record.FieldKey])
		}
		line := lines[idx]

		lineKey, pointKey, cb := StateHoveredLine, StateHoveredPoint, opts.OnChartHover
		if active {
			lineKey, pointKey, cb = StateFocusedLine, StateFocusedPoint, opts.OnPointClick
		}
		if b.pub != nil {
			if err := b.pub.SetState(ctx, map[string]any{lineKey: line, pointKey: ev}); err != nil {
				return err
			}
		}
		if cb != nil {
			return cb(ctx, line, ev)
		}
		return nil
	}
}

// lineIndex accepts the numeric forms a key can take after a JSON trip.
func lineIndex(v any) (int, bool) {
	switch k := v.(type) {
	case int:
		return k, true
	case int64:
		return int(k), true
	case float64:
		if k != math.Trunc(k) {
			return 0, false
		}
		return int(k), true
	case json.Number:
		i, err := k.Int64()
		return int(i), err == nil
	}
	return 0, false
}
