package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/facetkit/pkg/tree"
)

// harness is a project on disk with a file store, a file searcher and a
// cached search, isolated from the user's config and cache.
type harness struct {
	root   string
	xdg    string
	config string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	root := t.TempDir()
	h := &harness{root: root, xdg: filepath.Join(root, "xdg")}
	captureStdout(t)

	t.Setenv("XDG_CACHE_HOME", h.xdg)
	t.Setenv("XDG_CONFIG_HOME", h.xdg)
	for _, k := range []string{"FACETKIT_ROOT", "FACETKIT_STORE", "FACETKIT_REDIS_ADDR", "FACETKIT_MONGO_URI"} {
		t.Setenv(k, "")
	}

	export := filepath.Join(root, "export")
	if err := os.MkdirAll(export, 0755); err != nil {
		t.Fatal(err)
	}
	images := `[
		{"name": "samples", "context": {"subset": "train"}},
		{"name": "samples", "context": {"subset": "val"}}
	]`
	if err := os.WriteFile(filepath.Join(export, "images.json"), []byte(images), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := fmt.Sprintf(`[project]
root = %q
name = "demo"

[store]
backend = "file"
dir = %q

[search]
backend = "file"
dir = %q
cache = true
`, root, filepath.Join(root, "host"), export)
	h.config = filepath.Join(root, "config.toml")
	if err := os.WriteFile(h.config, []byte(cfg), 0644); err != nil {
		t.Fatal(err)
	}
	return h
}

// exec runs the CLI with args and returns what the command wrote to Out.
func (h *harness) exec(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	c := New(io.Discard, log.InfoLevel)
	c.Out = &out

	root := c.RootCommand()
	root.SetArgs(append([]string{"--config", h.config}, args...))
	root.SetOut(&out)
	root.SetErr(io.Discard)
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("facetkit %s: %v", strings.Join(args, " "), err)
	}
	return out.String()
}

func (h *harness) writeViews(t *testing.T, views string) string {
	t.Helper()
	path := filepath.Join(h.root, "views.toml")
	if err := os.WriteFile(path, []byte(views), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRootCommand(t *testing.T) {
	c := New(io.Discard, log.InfoLevel)
	root := c.RootCommand()

	var names []string
	for _, cmd := range root.Commands() {
		names = append(names, cmd.Name())
	}
	want := []string{"cache", "completion", "config", "layout", "project", "run", "search", "serve", "state"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Errorf("subcommands mismatch (-want +got):\n%s", diff)
	}
	for _, flag := range []string{"config", "verbose"} {
		if root.PersistentFlags().Lookup(flag) == nil {
			t.Errorf("root should have a --%s flag", flag)
		}
	}
}

func TestRunAndLayout(t *testing.T) {
	h := newHarness(t)
	views := h.writeViews(t, `
[[view]]
name = "samples"
type = "images"

[[view]]
name = "by-subset"
type = "images"

[view.facet]
row = ["context.subset"]
`)

	h.exec(t, "run", views)

	var grid [][]map[string]any
	if err := json.Unmarshal([]byte(h.exec(t, "layout", "show", "--json")), &grid); err != nil {
		t.Fatal(err)
	}
	// Both views publish an Images panel, the second replaces the first.
	if len(grid) != 1 || len(grid[0]) != 1 {
		t.Fatalf("grid shape = %v", grid)
	}
	if grid[0][0]["no_facet"] != false {
		t.Errorf("faceted panel no_facet = %v", grid[0][0]["no_facet"])
	}

	text := h.exec(t, "layout", "show")
	if !strings.Contains(text, "Images") {
		t.Errorf("layout show = %q", text)
	}
	if text := h.exec(t, "layout", "show", "--type", "Images"); !strings.Contains(text, "Images") {
		t.Errorf("layout show --type Images = %q", text)
	}

	h.exec(t, "layout", "reset")
	if got := strings.TrimSpace(h.exec(t, "layout", "show", "--json")); got != "[]" {
		t.Errorf("layout after reset = %s", got)
	}
}

func TestRunOnlySelectedViews(t *testing.T) {
	h := newHarness(t)
	views := h.writeViews(t, `
[[view]]
name = "a"
type = "images"

[[view]]
name = "b"
type = "texts"
`)
	h.exec(t, "run", "--view", "b", views)

	var grid [][]map[string]any
	if err := json.Unmarshal([]byte(h.exec(t, "layout", "show", "--json")), &grid); err != nil {
		t.Fatal(err)
	}
	if len(grid) != 1 || grid[0][0]["type"] != "Text" {
		t.Errorf("grid = %v, want only the text panel", grid)
	}
}

func TestState(t *testing.T) {
	h := newHarness(t)
	h.exec(t, "state", "set", "count=3", "theme=dark", `line={"key":1}`)

	var st map[string]any
	if err := json.Unmarshal([]byte(h.exec(t, "state", "show")), &st); err != nil {
		t.Fatal(err)
	}
	want := map[string]any{"count": float64(3), "theme": "dark", "line": map[string]any{"key": float64(1)}}
	if diff := cmp.Diff(want, st); diff != "" {
		t.Errorf("state mismatch (-want +got):\n%s", diff)
	}
}

func TestParseAssignments(t *testing.T) {
	tests := []struct {
		args    []string
		want    map[string]any
		wantErr bool
	}{
		{[]string{"a=1"}, map[string]any{"a": float64(1)}, false},
		{[]string{"a=null"}, map[string]any{"a": nil}, false},
		{[]string{"a=x=y"}, map[string]any{"a": "x=y"}, false},
		{[]string{"a="}, map[string]any{"a": ""}, false},
		{[]string{"a"}, nil, true},
		{[]string{"=1"}, nil, true},
	}
	for _, tt := range tests {
		got, err := parseAssignments(tt.args)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseAssignments(%v) error = %v, wantErr %v", tt.args, err, tt.wantErr)
			continue
		}
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("parseAssignments(%v) mismatch (-want +got):\n%s", tt.args, diff)
		}
	}
}

func TestSearch(t *testing.T) {
	h := newHarness(t)

	var rs []map[string]any
	if err := json.Unmarshal([]byte(h.exec(t, "search", "images", "context.subset=val")), &rs); err != nil {
		t.Fatal(err)
	}
	if len(rs) != 1 || rs[0]["type"] != "images" {
		t.Errorf("search = %v", rs)
	}
}

func TestConfigShow(t *testing.T) {
	h := newHarness(t)
	out := h.exec(t, "config", "show")
	if !strings.Contains(out, `name = "demo"`) {
		t.Errorf("config show = %q", out)
	}
	if got := strings.TrimSpace(h.exec(t, "config", "path")); got != h.config {
		t.Errorf("config path = %q, want %q", got, h.config)
	}
}

func TestPrintGridEmpty(t *testing.T) {
	var buf bytes.Buffer
	printGrid(&buf, tree.Grid{{}})
	if !strings.Contains(buf.String(), "empty layout") {
		t.Errorf("printGrid = %q", buf.String())
	}
}

func TestDescribeNode(t *testing.T) {
	union := tree.Union([]*tree.Node{
		{Type: "Images", Data: []any{map[string]any{"type": "images"}}},
		{Type: "Texts", Data: []any{map[string]any{"type": "texts"}}},
	})
	got := describeNode(union)
	if !strings.Contains(got, "union(Images,Texts)") {
		t.Errorf("describeNode(union) = %q", got)
	}
}
