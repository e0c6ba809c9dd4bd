package cli

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/facetkit/pkg/buildinfo"
	"github.com/matzehuels/facetkit/pkg/config"
	"github.com/matzehuels/facetkit/pkg/observability"
)

const appName = "facetkit"

// CLI is the state shared by every subcommand.
type CLI struct {
	Logger *log.Logger

	// ConfigPath is the --config flag. Empty loads the default file.
	ConfigPath string

	// Verbose lowers the log level to debug.
	Verbose bool

	// Out receives command output. Defaults to os.Stdout.
	Out io.Writer
}

// New returns a CLI logging to w at the given level.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level), Out: os.Stdout}
}

// RootCommand builds the facetkit command tree.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Facetkit groups experiment records into faceted chart layouts",
		Long: `Facetkit queries experiment records (metrics, images, audios, texts,
figures, distributions), builds visualization panels from them, splits the
panels into facets by grouping specs and publishes them to a layout grid that
a browser host renders.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if c.Verbose {
				c.Logger.SetLevel(log.DebugLevel)
				observability.UseLogger(c.Logger)
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&c.Verbose, "verbose", "v", false, "enable debug logging")
	root.PersistentFlags().StringVarP(&c.ConfigPath, "config", "c", "", "config file (default: ~/.config/facetkit/config.toml)")

	root.AddCommand(c.runCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.stateCommand())
	root.AddCommand(c.projectCommand())
	root.AddCommand(c.searchCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the config selected by --config.
func (c *CLI) loadConfig() (*config.Config, error) {
	return config.Load(c.ConfigPath)
}

// cacheDir is $XDG_CACHE_HOME/facetkit, falling back to ~/.cache/facetkit.
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
