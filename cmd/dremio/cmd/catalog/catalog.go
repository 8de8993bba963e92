// Package catalog provides the commands that browse and inspect catalog
// entities.
package catalog

import (
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/agentstation/dremio"
	"github.com/agentstation/dremio/internal/cmd/output"
	"github.com/agentstation/dremio/internal/cmd/table"
	"github.com/agentstation/dremio/pkg/catalog"
)

// AppContext defines what the catalog commands need from the app.
type AppContext interface {
	Client() (*dremio.Client, error)
	Logger() *zerolog.Logger
	OutputFormat() string
}

// NewCatalogCommand lists the top-level entities.
func NewCatalogCommand(app AppContext) *cobra.Command {
	return &cobra.Command{
		Use:     "catalog",
		GroupID: "catalog",
		Short:   "List spaces, sources and homes",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := app.Client()
			if err != nil {
				return err
			}
			items, err := c.Catalog(cmd.Context())
			if err != nil {
				return err
			}
			return output.Write(cmd.OutOrStdout(), output.DetectFormat(app.OutputFormat()), items,
				func(wide bool) table.Data { return table.ItemsToTableData(items, wide) })
		},
	}
}

// NewCatalogItemCommand fetches one entity by id or path.
func NewCatalogItemCommand(app AppContext) *cobra.Command {
	var id string

	cmd := &cobra.Command{
		Use:     "catalog-item [path]",
		GroupID: "catalog",
		Short:   "Show one entity by --id or dot-separated path",
		Example: `  dremio catalog-item --id 1f2e...
  dremio catalog-item adls.nyctaxi.trips`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := app.Client()
			if err != nil {
				return err
			}
			var path []string
			if len(args) == 1 {
				path = SplitPath(args[0])
			}
			item, err := c.CatalogItem(cmd.Context(), id, path)
			if err != nil {
				return err
			}
			return output.Write(cmd.OutOrStdout(), output.DetectFormat(app.OutputFormat()), item,
				func(wide bool) table.Data {
					if !wide || len(item.Children) == 0 {
						return table.ItemsToTableData([]catalog.Item{item}, true)
					}
					return table.ItemsToTableData(item.Children, true)
				})
		},
	}
	cmd.Flags().StringVar(&id, "id", "", "entity id")
	return cmd
}

// SplitPath splits a dot-separated path, keeping double-quoted segments
// whole: adls."nyc.taxi".trips has three segments.
func SplitPath(s string) []string {
	var (
		parts  []string
		cur    strings.Builder
		quoted bool
	)
	for _, r := range s {
		switch {
		case r == '"':
			quoted = !quoted
		case r == '.' && !quoted:
			parts = append(parts, cur.String())
			cur.Reset()
		default:
			cur.WriteRune(r)
		}
	}
	if cur.Len() > 0 || len(parts) > 0 {
		parts = append(parts, cur.String())
	}
	return parts
}
