// Package admin provides the reflection, workload management and user
// commands.
package admin

import (
	"strconv"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/agentstation/dremio"
	"github.com/agentstation/dremio/internal/cmd/output"
	"github.com/agentstation/dremio/internal/cmd/table"
	"github.com/agentstation/dremio/pkg/rest"
)

// AppContext defines what the admin commands need from the app.
type AppContext interface {
	Client() (*dremio.Client, error)
	Logger() *zerolog.Logger
	OutputFormat() string
}

// NewReflectionsCommand lists reflections, or shows one by id.
func NewReflectionsCommand(app AppContext) *cobra.Command {
	return &cobra.Command{
		Use:     "reflections [id]",
		GroupID: "admin",
		Aliases: []string{"reflection"},
		Short:   "List reflections or show one",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := app.Client()
			if err != nil {
				return err
			}
			var list []rest.Reflection
			if len(args) == 1 {
				r, err := c.Reflection(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				list = []rest.Reflection{r}
			} else if list, err = c.Reflections(cmd.Context()); err != nil {
				return err
			}
			return output.Write(cmd.OutOrStdout(), output.DetectFormat(app.OutputFormat()), list,
				func(wide bool) table.Data { return table.ReflectionsToTableData(list, wide) })
		},
	}
}

// NewWLMCommand lists workload management queues and rules.
func NewWLMCommand(app AppContext) *cobra.Command {
	return &cobra.Command{
		Use:     "wlm",
		GroupID: "admin",
		Short:   "List workload management queues and rules",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := app.Client()
			if err != nil {
				return err
			}
			queues, err := c.Queues(cmd.Context())
			if err != nil {
				return err
			}
			rules, err := c.Rules(cmd.Context())
			if err != nil {
				return err
			}
			data := struct {
				Queues []rest.Queue `json:"queues"`
				Rules  []rest.Rule  `json:"rules"`
			}{queues, rules}
			return output.Write(cmd.OutOrStdout(), output.DetectFormat(app.OutputFormat()), data,
				func(bool) table.Data {
					rows := make([][]string, 0, len(queues)+len(rules))
					for _, q := range queues {
						rows = append(rows, []string{"queue", q.Name, q.ID})
					}
					for _, r := range rules {
						rows = append(rows, []string{"rule", r.Name, r.AcceptName})
					}
					return table.Data{Headers: []string{"Kind", "Name", "Target"}, Rows: rows}
				})
		},
	}
}

// NewVotesCommand lists reflection recommendation votes.
func NewVotesCommand(app AppContext) *cobra.Command {
	return &cobra.Command{
		Use:     "votes",
		GroupID: "admin",
		Short:   "List reflection votes",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := app.Client()
			if err != nil {
				return err
			}
			votes, err := c.Votes(cmd.Context())
			if err != nil {
				return err
			}
			return output.Write(cmd.OutOrStdout(), output.DetectFormat(app.OutputFormat()), votes,
				func(bool) table.Data {
					rows := make([][]string, len(votes))
					for i, v := range votes {
						rows[i] = []string{v.ID, v.DatasetID, strconv.Itoa(v.Votes)}
					}
					return table.Data{
						Headers:         []string{"ID", "Dataset", "Votes"},
						Rows:            rows,
						ColumnAlignment: []table.Align{table.AlignLeft, table.AlignLeft, table.AlignRight},
					}
				})
		},
	}
}

// NewUserCommand looks a user up by name or --id.
func NewUserCommand(app AppContext) *cobra.Command {
	var id string
	cmd := &cobra.Command{
		Use:     "user [name]",
		GroupID: "admin",
		Short:   "Show a user by name or --id",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := app.Client()
			if err != nil {
				return err
			}
			var name string
			if len(args) == 1 {
				name = args[0]
			}
			u, err := c.User(cmd.Context(), id, name)
			if err != nil {
				return err
			}
			return output.Write(cmd.OutOrStdout(), output.DetectFormat(app.OutputFormat()), u, nil)
		},
	}
	cmd.Flags().StringVar(&id, "id", "", "user id")
	return cmd
}
