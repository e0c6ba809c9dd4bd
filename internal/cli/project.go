package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// projectCommand creates the project command.
func (c *CLI) projectCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Show the project or clear its repository pools",
	}

	cmd.AddCommand(c.projectInfoCommand())
	cmd.AddCommand(c.projectCleanupCommand())

	return cmd
}

// projectInfoCommand creates the "project info" subcommand.
func (c *CLI) projectInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Print the project description",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := c.openEnv(cmd.Context())
			if err != nil {
				return err
			}
			defer e.Close()

			p := e.project
			fmt.Fprintln(stdout, styleTitle.Render(p.Name))
			printKeyValue("Path", p.Path)
			printKeyValue("Repository", p.RepoPath)
			if p.Description != "" {
				printKeyValue("Description", p.Description)
			}
			if p.Exists() {
				printKeyValue("Status", styleSuccess.Render("initialized"))
			} else {
				printKeyValue("Status", styleWarning.Render("no repository"))
			}
			return nil
		},
	}
}

// projectCleanupCommand creates the "project cleanup" subcommand.
func (c *CLI) projectCleanupCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "cleanup",
		Short: "Clear the container, container view and persistent pools",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := c.openEnv(ctx)
			if err != nil {
				return err
			}
			defer e.Close()

			if err := e.project.CleanupRepoPools(ctx); err != nil {
				return fmt.Errorf("cleanup pools: %w", err)
			}
			printSuccess("Repository pools cleared")
			printDetail("Project: %s", e.project.Path)
			return nil
		},
	}
}
