package catalog

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/dremio/internal/cmd/output"
	"github.com/agentstation/dremio/internal/cmd/table"
)

// NewLsCommand walks the catalog tree. Each path segment is a sanitized
// child name as shown by a previous ls.
func NewLsCommand(app AppContext) *cobra.Command {
	return &cobra.Command{
		Use:     "ls [name...]",
		GroupID: "catalog",
		Short:   "List the children of a catalog node",
		Example: `  dremio ls
  dremio ls adls nyctaxi`,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := app.Client()
			if err != nil {
				return err
			}
			root, err := c.Data(cmd.Context())
			if err != nil {
				return err
			}
			node, err := root.Get(cmd.Context(), args...)
			if err != nil {
				return err
			}
			names, err := node.List(cmd.Context())
			if err != nil {
				return err
			}

			entries := make([]entry, 0, len(names))
			for _, name := range names {
				child, err := node.Child(cmd.Context(), name)
				if err != nil {
					return err
				}
				meta := child.Meta()
				entries = append(entries, entry{Name: name, Kind: meta.Kind.String(), ID: meta.ID})
			}

			return output.Write(cmd.OutOrStdout(), output.DetectFormat(app.OutputFormat()), entries,
				func(bool) table.Data {
					rows := make([][]string, len(entries))
					for i, e := range entries {
						rows[i] = []string{e.Name, e.Kind, e.ID}
					}
					return table.Data{Headers: []string{"Name", "Kind", "ID"}, Rows: rows}
				})
		},
	}
}

type entry struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
	ID   string `json:"id"`
}
