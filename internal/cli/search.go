package cli

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/facetkit/pkg/query"
)

// searchCommand creates the search command for querying one collection.
func (c *CLI) searchCommand() *cobra.Command {
	var count bool

	cmd := &cobra.Command{
		Use:   "search [type] [query]",
		Short: "Search one record collection and print the records as JSON",
		Long: `Search one record collection.

The type is one of ` + strings.Join(query.Types, ", ") + `. The query
syntax depends on the search backend: whitespace separated path=value terms
for the file and http backends, a MongoDB extended JSON filter for mongo.`,
		Args:      cobra.RangeArgs(1, 2),
		ValidArgs: query.Types,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			var q string
			if len(args) == 2 {
				q = args[1]
			}

			e, err := c.openEnv(ctx)
			if err != nil {
				return err
			}
			defer e.Close()

			obj, err := query.NewCatalog(e.searcher, c.Logger).Object(args[0])
			if err != nil {
				return err
			}
			items, err := obj.Query(ctx, q)
			if err != nil {
				return err
			}
			if count {
				printInfo("%s records", styleNumber.Render(strconv.Itoa(len(items))))
				return nil
			}
			return writeJSON(c.Out, items)
		},
	}

	cmd.Flags().BoolVar(&count, "count", false, "print only the number of records")

	return cmd
}
