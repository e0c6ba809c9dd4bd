package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// stateCommand creates the state command for the host state slot.
func (c *CLI) stateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "state",
		Short: "Inspect or update the host state slot",
	}

	cmd.AddCommand(c.stateShowCommand())
	cmd.AddCommand(c.stateSetCommand())

	return cmd
}

// stateShowCommand creates the "state show" subcommand.
func (c *CLI) stateShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the host state as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := c.openEnv(ctx)
			if err != nil {
				return err
			}
			defer e.Close()

			st, err := e.publisher.State(ctx)
			if err != nil {
				return err
			}
			if st == nil {
				st = map[string]any{}
			}
			return writeJSON(c.Out, st)
		},
	}
}

// stateSetCommand creates the "state set" subcommand.
func (c *CLI) stateSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set key=value...",
		Short: "Merge keys into the host state",
		Long: `Merge keys into the host state. Values are parsed as JSON when they
are valid JSON and kept as strings otherwise:

  facetkit state set focused_line_data=null theme=dark`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			patch, err := parseAssignments(args)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			e, err := c.openEnv(ctx)
			if err != nil {
				return err
			}
			defer e.Close()

			if err := e.publisher.SetState(ctx, patch); err != nil {
				return err
			}
			printSuccess("Updated %d state keys", len(patch))
			return nil
		},
	}
}

// parseAssignments turns key=value arguments into a state patch.
func parseAssignments(args []string) (map[string]any, error) {
	patch := make(map[string]any, len(args))
	for _, arg := range args {
		key, raw, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid assignment %q (want key=value)", arg)
		}
		var v any
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			v = raw
		}
		patch[key] = v
	}
	return patch, nil
}
