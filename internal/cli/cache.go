package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/facetkit/pkg/cache"
	"github.com/matzehuels/facetkit/pkg/project"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the on-disk repository pools",
		Long: `Manage the on-disk repository pools used by the file store backend.

Search results are cached in the container pool when search.cache is set and
view snapshots are kept in the container view pool. Both live under the
cache directory, one subdirectory per project.`,
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Clear the pools of the current project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := c.poolDir(all)
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}

			if _, err := os.Stat(dir); os.IsNotExist(err) {
				printInfo("Cache is empty")
				return nil
			}

			count, err := clearPools(cmd, dir)
			if err != nil {
				return err
			}
			printSuccess("Cleared %d cached entries", count)
			printDetail("Directory: %s", dir)
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "clear the pools of every project")

	return cmd
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "path",
		Short: "Print the pool directory of the current project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := c.poolDir(all)
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fmt.Fprintln(c.Out, dir)
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "print the cache root instead")

	return cmd
}

// poolDir returns the pool directory of the configured project, or the
// cache root when all is set.
func (c *CLI) poolDir(all bool) (string, error) {
	dir, err := cacheDir()
	if err != nil || all {
		return dir, err
	}
	cfg, err := c.loadConfig()
	if err != nil {
		return "", err
	}
	p, err := project.New(cfg.Project.Root, cfg.Project.Repo)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, projectKey(p)), nil
}

// clearPools clears every file pool below dir and returns the number of
// entries removed.
func clearPools(cmd *cobra.Command, dir string) (int, error) {
	var pools []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() && isPoolName(d.Name()) {
			pools = append(pools, path)
			return filepath.SkipDir
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	count := 0
	for _, path := range pools {
		fc, err := cache.NewFileCache(path)
		if err != nil {
			return count, err
		}
		n, err := fc.Len()
		if err != nil {
			return count, err
		}
		if err := fc.Clear(cmd.Context()); err != nil {
			return count, fmt.Errorf("clear %s: %w", path, err)
		}
		count += n
	}
	return count, nil
}

func isPoolName(name string) bool {
	switch name {
	case project.PoolContainer, project.PoolContainerView, project.PoolPersistent:
		return true
	}
	return false
}
