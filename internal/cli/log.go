// Package cli implements the facetkit command line.
//
// Commands run view files through the build, facet and publish pipeline,
// inspect the published layout and host state, query record collections
// and serve the host API a browser renders the grid from. Commands are
// cobra commands; logging goes through charmbracelet/log.
//
//   - run: run the views of a TOML file and publish their panels
//   - serve: serve the host API
//   - layout, state: inspect or reset the published grid and host state
//   - project, cache: show the project and manage its repository pools
//   - search: query one record collection
//
// Every command accepts --verbose for debug logging. The logger reaches
// commands through the command context.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
		Level:           level,
	})
}

// timed starts a clock and returns a func that logs msg at info level with
// the given key/values and the time elapsed since timed was called.
func timed(l *log.Logger, msg string) func(keyvals ...any) {
	start := time.Now()
	return func(keyvals ...any) {
		elapsed := time.Since(start).Round(time.Millisecond)
		l.Info(msg, append(keyvals, "elapsed", elapsed)...)
	}
}

type loggerKey struct{}

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// loggerFromContext falls back to log.Default when ctx carries no logger.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
