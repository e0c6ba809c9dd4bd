package layout

import (
	"context"
	"testing"

	"github.com/matzehuels/facetkit/pkg/record"
	"github.com/matzehuels/facetkit/pkg/tree"
)

func TestFileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	grid, err := s.Read(ctx)
	if err != nil || grid != nil {
		t.Fatalf("empty Read = %v, %v", grid, err)
	}

	node := &tree.Node{
		ID:   "abc",
		Type: "Images",
		Data: []record.Record{{"key": 0, "type": "images"}},
	}
	node.Set("options", map[string]any{"title": "x"})
	if err := s.Publish(ctx, tree.Grid{{node}}); err != nil {
		t.Fatal(err)
	}

	grid, err = s.Read(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(grid) != 1 || len(grid[0]) != 1 {
		t.Fatalf("grid shape = %v", shape(grid))
	}
	got := grid[0][0]
	if got.ID != "abc" || got.Type != "Images" {
		t.Errorf("node = %+v", got)
	}
	rs, ok := got.Records()
	if !ok || len(rs) != 1 || rs[0].Type() != "images" {
		t.Errorf("records = %v, %v", rs, ok)
	}
	if _, ok := got.Get("options").(map[string]any); !ok {
		t.Errorf("options field lost: %v", got.Fields)
	}
}

func TestFileStoreState(t *testing.T) {
	ctx := context.Background()
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if err := s.SetState(ctx, map[string]any{"a": "1"}); err != nil {
		t.Fatal(err)
	}
	if err := s.SetState(ctx, map[string]any{"b": "2"}); err != nil {
		t.Fatal(err)
	}
	st, err := s.State(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if st["a"] != "1" || st["b"] != "2" {
		t.Errorf("state = %v", st)
	}

	if err := s.Reset(); err != nil {
		t.Fatal(err)
	}
	if st, _ := s.State(ctx); st != nil {
		t.Errorf("state after Reset = %v", st)
	}
}

func TestMemoryStoreIsolation(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	grid := tree.Grid{{&tree.Node{Type: "JSON"}}}
	_ = s.Publish(ctx, grid)

	read, _ := s.Read(ctx)
	read[0] = append(read[0], &tree.Node{Type: "HTML"})

	again, _ := s.Read(ctx)
	if len(again[0]) != 1 {
		t.Error("modifying a read grid must not change the stored grid")
	}
}
