package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/facetkit/pkg/hostapi"
)

// shutdownTimeout bounds graceful shutdown of the host API.
const shutdownTimeout = 5 * time.Second

// serveCommand creates the serve command for running the host API.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the layout, host state and record search over HTTP",
		Long: `Serve the host API used by the browser renderer.

The server exposes the layout grid, the host state slot, record search per
collection type, the project description and view snapshots. Point events
posted to /api/nodes/<id>/point are delivered to the chart's callbacks.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.serve(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default: server.addr from config)")

	return cmd
}

// serve runs the host API until ctx is cancelled.
func (c *CLI) serve(ctx context.Context, addr string) error {
	e, err := c.openEnv(ctx)
	if err != nil {
		return fmt.Errorf("initialize: %w", err)
	}
	defer e.Close()

	if addr == "" {
		addr = e.cfg.Server.Addr
	}

	api := hostapi.New(hostapi.Options{
		Publisher: e.publisher,
		Searcher:  e.searcher,
		Project:   e.project,
		Runner:    e.runner(),
		Logger:    c.Logger,
	})
	srv := &http.Server{
		Addr:              addr,
		Handler:           api.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		errc <- srv.ListenAndServe()
	}()

	printSuccess("Serving %s", styleLink.Render("http://"+addr))
	printDetail("Project: %s", e.project.Path)
	printDetail("Store: %s, search: %s", e.cfg.Store.Backend, e.cfg.Search.Backend)
	if !e.project.Exists() {
		printWarning("No repository at %s", e.project.RepoPath)
	}

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve %s: %w", addr, err)
		}
		return nil
	case <-ctx.Done():
	}

	c.Logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
