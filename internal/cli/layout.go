package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/facetkit/pkg/tree"
)

// layoutCommand creates the layout command for inspecting the published grid.
func (c *CLI) layoutCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Inspect or reset the published layout grid",
	}

	cmd.AddCommand(c.layoutShowCommand())
	cmd.AddCommand(c.layoutResetCommand())

	return cmd
}

// layoutShowCommand creates the "layout show" subcommand.
func (c *CLI) layoutShowCommand() *cobra.Command {
	var (
		asJSON bool
		typ    string
	)

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the layout grid, or one panel with --type",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := c.openEnv(ctx)
			if err != nil {
				return err
			}
			defer e.Close()

			grid, err := e.publisher.Grid(ctx)
			if err != nil {
				return err
			}
			if typ != "" {
				node, ok := grid.Find(typ)
				if !ok {
					return fmt.Errorf("no %s panel in the layout", typ)
				}
				if asJSON {
					return writeJSON(c.Out, node)
				}
				fmt.Fprintln(c.Out, describeNode(node))
				return nil
			}
			if asJSON {
				if grid == nil {
					grid = tree.Grid{}
				}
				return writeJSON(c.Out, grid)
			}
			printGrid(c.Out, grid)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the grid as JSON")
	cmd.Flags().StringVar(&typ, "type", "", "print only the first panel of this type")

	return cmd
}

// layoutResetCommand creates the "layout reset" subcommand.
func (c *CLI) layoutResetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Publish an empty layout grid",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := c.openEnv(ctx)
			if err != nil {
				return err
			}
			defer e.Close()

			if err := e.publisher.Layout(ctx, tree.Grid{}); err != nil {
				return err
			}
			printSuccess("Layout cleared")
			return nil
		},
	}
}

// printGrid prints one line per row with the type and record count of each
// cell.
func printGrid(w io.Writer, grid tree.Grid) {
	if grid.IsEmpty() {
		fmt.Fprintln(w, styleDim.Render("(empty layout)"))
		return
	}
	for i, row := range grid {
		cells := make([]string, len(row))
		for j, n := range row {
			cells[j] = describeNode(n)
		}
		fmt.Fprintf(w, "%s %s\n", styleNumber.Render(fmt.Sprintf("%2d", i)), strings.Join(cells, styleDim.Render(" · ")))
	}
}

func describeNode(n *tree.Node) string {
	if n == nil {
		return styleDim.Render("-")
	}
	typ := n.Type
	if n.IsUnion() {
		types := make([]string, 0, len(n.Types))
		for _, t := range n.Types {
			types = append(types, t)
		}
		sort.Strings(types)
		typ = "union(" + strings.Join(types, ",") + ")"
	}
	if rs, ok := n.Records(); ok {
		return fmt.Sprintf("%s %s", styleValue.Render(typ), styleDim.Render(fmt.Sprintf("[%d]", len(rs))))
	}
	return styleValue.Render(typ)
}

// writeJSON writes v as indented JSON.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
