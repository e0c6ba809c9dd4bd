package cli

import (
	"context"
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/matzehuels/facetkit/pkg/pipeline"
	"github.com/matzehuels/facetkit/pkg/tree"
)

// runCommand creates the run command for executing a view file.
func (c *CLI) runCommand() *cobra.Command {
	var (
		only  []string
		reset bool
	)

	cmd := &cobra.Command{
		Use:   "run [views.toml]",
		Short: "Run views and publish their panels to the layout",
		Long: `Run the views declared in a TOML file.

Each view queries one record collection, builds a panel with its builder and,
when any of facet, stack or dims is set, splits the panel into facets before
publishing it to the layout grid:

  [[view]]
  name = "loss"
  type = "metric"
  query = "name=loss"
  x = "steps"
  y = "values"
  color = ["context.subset"]

  [view.facet]
  row = ["run.hparams.lr"]

The last result of every view is kept and served by 'facetkit serve' under
/api/views/<name>.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runViews(cmd.Context(), args[0], only, reset)
		},
	}

	cmd.Flags().StringSliceVar(&only, "view", nil, "run only the named views")
	cmd.Flags().BoolVar(&reset, "reset", false, "clear the layout before running")

	return cmd
}

// runViews loads the views, runs them in order and reports their stats.
func (c *CLI) runViews(ctx context.Context, path string, only []string, reset bool) error {
	views, err := pipeline.LoadViews(path)
	if err != nil {
		return fmt.Errorf("load views %s: %w", path, err)
	}
	if len(only) > 0 {
		views = slices.DeleteFunc(views, func(v pipeline.View) bool {
			return !slices.Contains(only, v.Name)
		})
		if len(views) == 0 {
			return fmt.Errorf("no view named %v in %s", only, path)
		}
	}

	e, err := c.openEnv(ctx)
	if err != nil {
		return fmt.Errorf("initialize: %w", err)
	}
	defer e.Close()

	if reset {
		if err := e.publisher.Layout(ctx, tree.Grid{}); err != nil {
			return fmt.Errorf("reset layout: %w", err)
		}
	}

	runner := e.runner()

	done := timed(c.Logger, "Published views")
	spinner := newSpinner(ctx, fmt.Sprintf("Running %d views...", len(views)))
	spinner.Start()

	results, err := runner.RunAll(ctx, views)
	if err != nil {
		spinner.StopWithError("Run failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	for _, res := range results {
		printSuccess("%s %s", styleHighlight.Render(res.View), styleDim.Render(res.Node.Type))
		printStats(res.Stats)
	}
	done("views", len(results))
	printNewline()
	printNextStep("Serve the layout", appName+" serve")

	return nil
}
