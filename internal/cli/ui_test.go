package cli

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/facetkit/pkg/pipeline"
)

// captureStdout redirects status output into a buffer for the test.
func captureStdout(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := stdout
	stdout = &buf
	t.Cleanup(func() { stdout = prev })
	return &buf
}

func TestPrintStats(t *testing.T) {
	tests := []struct {
		name    string
		stats   pipeline.Stats
		want    []string
		notWant string
	}{
		{
			name:    "flat",
			stats:   pipeline.Stats{Records: 3, QueryTime: 1500 * time.Microsecond, BuildTime: time.Millisecond},
			want:    []string{"3 records", "query 2ms", "build 1ms", "flat"},
			notWant: "facet ",
		},
		{
			name:  "faceted",
			stats: pipeline.Stats{Records: 12, FacetTime: 4 * time.Millisecond, Faceted: true},
			want:  []string{"12 records", "facet 4ms", "faceted"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := captureStdout(t)
			printStats(tt.stats)
			got := out.String()
			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Errorf("printStats() = %q, missing %q", got, w)
				}
			}
			if tt.notWant != "" && strings.Contains(got, tt.notWant) {
				t.Errorf("printStats() = %q, should not contain %q", got, tt.notWant)
			}
		})
	}
}

func TestStatusLines(t *testing.T) {
	out := captureStdout(t)
	printInfo("found %d", 2)
	printKeyValue("name", "demo")
	printDetail("at %s", "/tmp")

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines: %q", len(lines), lines)
	}
	if lines[0] != "› found 2" {
		t.Errorf("info line = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "name") || !strings.HasSuffix(lines[1], "demo") {
		t.Errorf("key/value line = %q", lines[1])
	}
	if lines[2] != "  at /tmp" {
		t.Errorf("detail line = %q", lines[2])
	}
}
