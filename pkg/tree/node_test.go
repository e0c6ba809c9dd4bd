package tree

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/facetkit/pkg/record"
)

func TestUnionMergesFieldsLaterWins(t *testing.T) {
	a := &Node{
		Type:   "LineChart",
		Data:   []record.Record{{"type": "metric"}},
		Fields: map[string]any{"options": "a", "only_a": 1},
	}
	b := &Node{
		Type:   "Images",
		Data:   []record.Record{{"type": "images"}},
		Fields: map[string]any{"options": "b"},
		Size:   map[string]any{"height": 300},
	}

	u := Union([]*Node{a, b})

	if u.Type != "" {
		t.Errorf("union Type = %q, want empty", u.Type)
	}
	if u.Get("options") != "b" {
		t.Errorf("options = %v, want b", u.Get("options"))
	}
	if u.Get("only_a") != 1 {
		t.Errorf("only_a = %v, want 1", u.Get("only_a"))
	}
	if u.TypeFor("metric") != "LineChart" || u.TypeFor("images") != "Images" {
		t.Errorf("TypeFor mismatch: %v", u.Types)
	}
	if u.TypeFor("texts") != "" {
		t.Error("unknown record type should resolve to empty")
	}
	if !u.IsUnion() {
		t.Error("IsUnion() = false")
	}
	if a.Get("options") != "a" {
		t.Error("Union must not modify its inputs")
	}
}

func TestUnionFirstMatchingChildWins(t *testing.T) {
	a := &Node{Type: "LineChart", Data: []record.Record{{"type": "metric"}}}
	b := &Node{Type: "Table", Data: []record.Record{{"type": "metric"}}}
	c := &Node{Type: "JSON", Data: "scalar"}

	u := Union([]*Node{a, b, c})
	if got := u.TypeFor("metric"); got != "LineChart" {
		t.Errorf("TypeFor(metric) = %q, want LineChart", got)
	}
}

func TestPlainNodeTypeFor(t *testing.T) {
	n := &Node{Type: "Text"}
	if n.TypeFor("anything") != "Text" {
		t.Error("plain node should resolve to its own type")
	}
}

func TestNodeJSONRoundTrip(t *testing.T) {
	n := &Node{
		ID:      "id-1",
		Type:    "LineChart",
		Data:    []record.Record{{"key": float64(0), "color": "#3E72E7"}},
		Fields:  map[string]any{"options": map[string]any{"x": "step"}},
		Size:    map[string]any{"width": float64(400)},
		NoFacet: true,
		Callbacks: &Callbacks{OnActivePointChange: func(context.Context, PointEvent, bool) error {
			return nil
		}},
	}

	data, err := json.Marshal(n)
	if err != nil {
		t.Fatal(err)
	}

	var flat map[string]any
	if err := json.Unmarshal(data, &flat); err != nil {
		t.Fatal(err)
	}
	if _, ok := flat["options"]; !ok {
		t.Error("fields should be flattened into the top level")
	}
	if diff := cmp.Diff([]any{CallbackActivePointChange}, flat["callbacks"]); diff != "" {
		t.Errorf("callbacks mismatch (-want +got):\n%s", diff)
	}

	var back Node
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatal(err)
	}
	if back.ID != n.ID || back.Type != n.Type || !back.NoFacet {
		t.Errorf("round trip lost node keys: %+v", back)
	}
	if back.Callbacks != nil {
		t.Error("callbacks should not survive serialization")
	}
	if diff := cmp.Diff(n.Data, back.Data); diff != "" {
		t.Errorf("data mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(n.Fields, back.Fields); diff != "" {
		t.Errorf("fields mismatch (-want +got):\n%s", diff)
	}
}

func TestGridIsEmpty(t *testing.T) {
	tests := []struct {
		name string
		g    Grid
		want bool
	}{
		{"nil", nil, true},
		{"no rows", Grid{}, true},
		{"one empty row", Grid{{}}, true},
		{"two empty rows", Grid{{}, {}}, false},
		{"one cell", Grid{{{Type: "JSON"}}}, false},
	}
	for _, tt := range tests {
		if got := tt.g.IsEmpty(); got != tt.want {
			t.Errorf("%s: IsEmpty() = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestGridCloneAndFind(t *testing.T) {
	line := &Node{Type: "LineChart"}
	g := Grid{{&Node{Type: "JSON"}}, {line}}
	c := g.Clone()
	c[0][0] = &Node{Type: "HTML"}
	if g[0][0].Type != "JSON" {
		t.Error("Clone should copy rows")
	}
	if got, ok := g.Find("LineChart"); !ok || got != line {
		t.Error("Find(LineChart) should return the line node")
	}
	if _, ok := g.Find(""); ok {
		t.Error("Find(\"\") should never match")
	}
	if g.Cells() != 2 {
		t.Errorf("Cells() = %d, want 2", g.Cells())
	}
}
