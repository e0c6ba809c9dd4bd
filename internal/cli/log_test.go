package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/facetkit/pkg/observability"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name  string
		level log.Level
		debug bool
		want  bool
	}{
		{"info at info", log.InfoLevel, false, true},
		{"debug at info", log.InfoLevel, true, false},
		{"debug at debug", log.DebugLevel, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			l := newLogger(&buf, tt.level)
			if tt.debug {
				l.Debug("building panels")
			} else {
				l.Info("building panels")
			}
			if got := strings.Contains(buf.String(), "building panels"); got != tt.want {
				t.Errorf("logged = %v, want %v (output %q)", got, tt.want, buf.String())
			}
		})
	}
}

func TestTimed(t *testing.T) {
	var buf bytes.Buffer
	done := timed(newLogger(&buf, log.InfoLevel), "Published views")
	done("views", 3)

	got := buf.String()
	for _, want := range []string{"Published views", "views=3", "elapsed="} {
		if !strings.Contains(got, want) {
			t.Errorf("timed output %q missing %q", got, want)
		}
	}
}

func TestLoggerFromContext(t *testing.T) {
	if loggerFromContext(context.Background()) != log.Default() {
		t.Error("empty context should yield the default logger")
	}

	l := newLogger(&bytes.Buffer{}, log.InfoLevel)
	if loggerFromContext(withLogger(context.Background(), l)) != l {
		t.Error("loggerFromContext should return the attached logger")
	}
}

func TestVerboseFlag(t *testing.T) {
	defer observability.Reset()

	var buf bytes.Buffer
	c := New(&buf, log.InfoLevel)
	root := c.RootCommand()
	root.SetArgs([]string{"--verbose", "config", "path"})
	root.SetOut(&bytes.Buffer{})
	c.Out = &bytes.Buffer{}
	if err := root.Execute(); err != nil {
		t.Fatal(err)
	}
	if c.Logger.GetLevel() != log.DebugLevel {
		t.Errorf("level = %v, want debug", c.Logger.GetLevel())
	}
	if _, ok := observability.Query().(observability.LogHooks); !ok {
		t.Errorf("query hooks = %T, want LogHooks", observability.Query())
	}
}
