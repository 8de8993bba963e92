package catalog

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/agentstation/dremio/internal/cmd/output"
	"github.com/agentstation/dremio/internal/cmd/table"
)

// NewWikiCommand prints an entity's wiki.
func NewWikiCommand(app AppContext) *cobra.Command {
	return &cobra.Command{
		Use:     "wiki <id>",
		GroupID: "catalog",
		Short:   "Show the wiki of an entity",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := app.Client()
			if err != nil {
				return err
			}
			wiki, err := c.Wiki(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			format := output.DetectFormat(app.OutputFormat())
			if format == output.FormatTable || format == output.FormatWide {
				_, err = cmd.OutOrStdout().Write([]byte(wiki.Text + "\n"))
				return err
			}
			return output.Write(cmd.OutOrStdout(), format, wiki, nil)
		},
	}
}

// NewTagsCommand prints a dataset's tags.
func NewTagsCommand(app AppContext) *cobra.Command {
	return &cobra.Command{
		Use:     "tags <id>",
		GroupID: "catalog",
		Short:   "Show the tags of a dataset",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := app.Client()
			if err != nil {
				return err
			}
			tags, err := c.Tags(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return output.Write(cmd.OutOrStdout(), output.DetectFormat(app.OutputFormat()), tags,
				func(bool) table.Data {
					return table.Data{
						Headers: []string{"Tags", "Version"},
						Rows:    [][]string{{strings.Join(tags.Tags, ", "), tags.Version}},
					}
				})
		},
	}
}

// NewRefreshCommand forces a metadata refresh of a physical dataset.
func NewRefreshCommand(app AppContext) *cobra.Command {
	return &cobra.Command{
		Use:     "refresh-metadata <path>",
		GroupID: "catalog",
		Short:   "Force a metadata refresh of a physical dataset",
		Example: `  dremio refresh-metadata adls.nyctaxi.trips`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := app.Client()
			if err != nil {
				return err
			}
			path := SplitPath(args[0])
			if err := c.RefreshMetadata(cmd.Context(), path); err != nil {
				return err
			}
			app.Logger().Info().Strs("path", path).Msg("metadata refreshed")
			return nil
		},
	}
}
