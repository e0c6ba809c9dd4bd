package viz

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	fkerrors "github.com/matzehuels/facetkit/pkg/errors"
	"github.com/matzehuels/facetkit/pkg/group"
	"github.com/matzehuels/facetkit/pkg/layout"
	"github.com/matzehuels/facetkit/pkg/record"
	"github.com/matzehuels/facetkit/pkg/tree"
)

func newBuilder() (*Builder, *layout.Publisher) {
	pub := layout.NewPublisher(layout.NewMemoryStore(), nil)
	return NewBuilder(pub, nil), pub
}

func series(n int) []record.Record {
	out := make([]record.Record, n)
	for i := range out {
		out[i] = record.Record{
			"type":   "metric",
			"name":   "loss",
			"run":    map[string]any{"hash": fmt.Sprintf("run%d", i)},
			"steps":  []any{0, 1, 2},
			"values": []any{0.5, 0.4, 0.3},
		}
	}
	return out
}

func TestPaletteWraparound(t *testing.T) {
	tests := []struct {
		order      int
		wantColor  string
		wantStroke string
	}{
		{0, "#3E72E7", "none"},
		{7, "#729B1B", "20 5 10 5 10 5 5 5"},
		{8, "#3E72E7", "20 5 10 5 5 5 5 5"},
		{9, "#18AB6D", "none"},
	}
	for _, tt := range tests {
		if got := ColorAt(tt.order); got != tt.wantColor {
			t.Errorf("ColorAt(%d) = %s, want %s", tt.order, got, tt.wantColor)
		}
		if got := StrokeAt(tt.order); got != tt.wantStroke {
			t.Errorf("StrokeAt(%d) = %s, want %s", tt.order, got, tt.wantStroke)
		}
	}
}

func TestLineChart(t *testing.T) {
	ctx := context.Background()
	b, pub := newBuilder()
	data := series(9)

	n, err := b.LineChart(ctx, data, LineChartOptions{
		X:       "steps",
		Y:       "values",
		Color:   group.Fields("run.hash"),
		Options: map[string]any{"title": "loss"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if n.Type != TypeLineChart || n.ID == "" {
		t.Errorf("node type/id = %q/%q", n.Type, n.ID)
	}

	lines, ok := n.Records()
	if !ok || len(lines) != 9 {
		t.Fatalf("lines = %d, %v", len(lines), ok)
	}
	// Nine distinct colors groups: the ninth wraps to the first color.
	if lines[8][FieldColor] != Colors[0] {
		t.Errorf("line 8 color = %v, want %s", lines[8][FieldColor], Colors[0])
	}
	if lines[1][FieldColor] != Colors[1] {
		t.Errorf("line 1 color = %v, want %s", lines[1][FieldColor], Colors[1])
	}
	for i, l := range lines {
		if l[record.FieldKey] != i {
			t.Errorf("line %d key = %v", i, l[record.FieldKey])
		}
		if l[FieldDasharray] != "none" {
			t.Errorf("line %d dasharray = %v, want none", i, l[FieldDasharray])
		}
	}
	want := map[string]any{FieldXValues: []any{0, 1, 2}, FieldYValues: []any{0.5, 0.4, 0.3}}
	if diff := cmp.Diff(want, lines[0][FieldData]); diff != "" {
		t.Errorf("line data mismatch (-want +got):\n%s", diff)
	}
	if _, ok := data[0][FieldColor]; ok {
		t.Error("input records should not be modified")
	}
	for _, k := range interactionKeys {
		if v, ok := n.Fields[k]; !ok || v != nil {
			t.Errorf("field %s = %v, %v; want nil present", k, v, ok)
		}
	}

	grid, _ := pub.Grid(ctx)
	if len(grid) != 1 || grid[0][0] != n {
		t.Error("chart should be published")
	}
}

func TestLineChartInteraction(t *testing.T) {
	ctx := context.Background()
	b, pub := newBuilder()

	var clicked, hovered record.Record
	n, err := b.LineChart(ctx, series(3), LineChartOptions{
		X: "steps",
		Y: "values",
		OnPointClick: func(_ context.Context, line record.Record, _ tree.PointEvent) error {
			clicked = line
			return nil
		},
		OnChartHover: func(_ context.Context, line record.Record, _ tree.PointEvent) error {
			hovered = line
			return nil
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	// Keys arrive as float64 after a JSON trip through the host.
	if err := pub.Dispatch(ctx, n.ID, tree.PointEvent{"key": float64(2), "xValue": 1}, true); err != nil {
		t.Fatal(err)
	}
	if clicked == nil || clicked[record.FieldKey] != 2 {
		t.Errorf("clicked line = %v", clicked)
	}
	if err := pub.Dispatch(ctx, n.ID, tree.PointEvent{"key": 1}, false); err != nil {
		t.Fatal(err)
	}
	if hovered == nil || hovered[record.FieldKey] != 1 {
		t.Errorf("hovered line = %v", hovered)
	}

	st, _ := pub.State(ctx)
	for _, k := range interactionKeys {
		if st[k] == nil {
			t.Errorf("state %s not set", k)
		}
	}

	// A rebuild picks the interaction state back up.
	rebuilt, err := b.LineChart(ctx, series(3), LineChartOptions{X: "steps", Y: "values"})
	if err != nil {
		t.Fatal(err)
	}
	focused, _ := rebuilt.Get(StateFocusedLine).(record.Record)
	if focused[record.FieldKey] != 2 {
		t.Errorf("rehydrated focused line = %v", rebuilt.Get(StateFocusedLine))
	}

	// The replaced chart still resolves against its own lines.
	if err := pub.Dispatch(ctx, n.ID, tree.PointEvent{"key": 0}, true); err != nil {
		t.Fatal(err)
	}
	if clicked[record.FieldKey] != 0 {
		t.Errorf("stale callback resolved %v", clicked)
	}
}

func TestLineChartCallbackErrors(t *testing.T) {
	ctx := context.Background()
	b, pub := newBuilder()
	boom := errors.New("boom")
	n, _ := b.LineChart(ctx, series(1), LineChartOptions{
		OnPointClick: func(context.Context, record.Record, tree.PointEvent) error { return boom },
	})

	if err := pub.Dispatch(ctx, n.ID, tree.PointEvent{"key": 0}, true); err != boom {
		t.Errorf("callback error = %v, want %v", err, boom)
	}
	err := pub.Dispatch(ctx, n.ID, tree.PointEvent{"key": 5}, true)
	if !fkerrors.Is(err, fkerrors.ErrCodeInvalidInput) {
		t.Errorf("out of range key = %v, want INVALID_INPUT", err)
	}
}

func TestLineChartStrokeStyles(t *testing.T) {
	b, _ := newBuilder()
	data := []record.Record{
		{"subset": "train"},
		{"subset": "val"},
		{"subset": "train"},
	}
	n, err := b.LineChart(context.Background(), data, LineChartOptions{StrokeStyle: group.Fields("subset")})
	if err != nil {
		t.Fatal(err)
	}
	lines, _ := n.Records()
	want := []string{"none", "5 5", "none"}
	for i, l := range lines {
		if l[FieldDasharray] != want[i] {
			t.Errorf("line %d dasharray = %v, want %s", i, l[FieldDasharray], want[i])
		}
	}
}

func TestListsAttachKeys(t *testing.T) {
	ctx := context.Background()
	b, pub := newBuilder()
	data := []record.Record{{"type": "images"}, {"type": "images"}}

	imgs, err := b.ImagesList(ctx, data)
	if err != nil {
		t.Fatal(err)
	}
	auds, err := b.AudiosList(ctx, data)
	if err != nil {
		t.Fatal(err)
	}
	for _, n := range []*tree.Node{imgs, auds} {
		rs, _ := n.Records()
		for i, r := range rs {
			if r[record.FieldKey] != i {
				t.Errorf("%s record %d key = %v", n.Type, i, r[record.FieldKey])
			}
		}
	}
	if imgs.Type != TypeImages || auds.Type != TypeAudios {
		t.Errorf("types = %s, %s", imgs.Type, auds.Type)
	}
	grid, _ := pub.Grid(ctx)
	if len(grid) != 2 {
		t.Errorf("grid rows = %d, want 2", len(grid))
	}
}

func TestTextsList(t *testing.T) {
	b, _ := newBuilder()
	data := []record.Record{{"name": "b"}, {"name": "a"}, {"name": "b"}}
	n, err := b.TextsList(context.Background(), data, group.Fields("name"))
	if err != nil {
		t.Fatal(err)
	}
	if n.Type != TypeText {
		t.Errorf("type = %s", n.Type)
	}
	rs, _ := n.Records()
	want := []string{Colors[1], Colors[0], Colors[1]}
	for i, r := range rs {
		if r[FieldColor] != want[i] {
			t.Errorf("text %d color = %v, want %s", i, r[FieldColor], want[i])
		}
	}
}

type badFigure struct{}

func (badFigure) ToJSON() ([]byte, error) { return []byte("{"), nil }

func TestFiguresList(t *testing.T) {
	b, _ := newBuilder()
	n, err := b.FiguresList(context.Background(), RawFigure(`{"data":[]}`), RawFigure(`{"layout":{}}`))
	if err != nil {
		t.Fatal(err)
	}
	if n.Type != TypePlotly {
		t.Errorf("type = %s", n.Type)
	}
	out, err := json.Marshal(n.Data)
	if err != nil {
		t.Fatal(err)
	}
	want := `[{"data":{"data":[]},"key":0},{"data":{"layout":{}},"key":1}]`
	if string(out) != want {
		t.Errorf("figures = %s, want %s", out, want)
	}

	if _, err := b.FiguresList(context.Background(), badFigure{}); !fkerrors.Is(err, fkerrors.ErrCodeInvalidInput) {
		t.Errorf("invalid figure error = %v", err)
	}
}

func TestPassThrough(t *testing.T) {
	ctx := context.Background()
	b, _ := newBuilder()

	j, _ := b.JSON(ctx, map[string]any{"a": 1})
	h, _ := b.HTML(ctx, "<b>x</b>")
	if j.Type != TypeJSON || h.Type != TypeHTML {
		t.Errorf("types = %s, %s", j.Type, h.Type)
	}
	if h.Data != "<b>x</b>" {
		t.Errorf("HTML data = %v", h.Data)
	}
}

func TestTable(t *testing.T) {
	b, _ := newBuilder()
	f := record.NewFrame("step", "value")
	_ = f.Append(0, 1.5)
	_ = f.Append(1, 1.0)

	n, err := b.Table(context.Background(), f)
	if err != nil {
		t.Fatal(err)
	}
	if n.Type != TypeDataFrame {
		t.Errorf("type = %s", n.Type)
	}
	want := []record.Record{{"step": 0, "value": 1.5}, {"step": 1, "value": 1.0}}
	if diff := cmp.Diff(want, n.Data); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}
}
