package query

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/dremio/internal/cmd/output"
	"github.com/agentstation/dremio/internal/cmd/table"
	"github.com/agentstation/dremio/pkg/constants"
)

// NewJobStatusCommand shows the status of a job.
func NewJobStatusCommand(app AppContext) *cobra.Command {
	return &cobra.Command{
		Use:     "job-status <job-id>",
		GroupID: "query",
		Short:   "Show the state of a job",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := app.Client()
			if err != nil {
				return err
			}
			st, err := c.JobStatus(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return output.Write(cmd.OutOrStdout(), output.DetectFormat(app.OutputFormat()), st,
				func(bool) table.Data {
					rows := [][]string{
						{"State", string(st.JobState)},
						{"Rows", table.FormatNumber(int64(st.RowCount))},
					}
					if st.QueueName != "" {
						rows = append(rows, []string{"Queue", st.QueueName})
					}
					if st.ErrorMessage != "" {
						rows = append(rows, []string{"Error", st.ErrorMessage})
					}
					return table.Data{Headers: []string{"Property", "Value"}, Rows: rows}
				})
		},
	}
}

// NewJobResultsCommand prints one page of a completed job.
func NewJobResultsCommand(app AppContext) *cobra.Command {
	var offset, limit int

	cmd := &cobra.Command{
		Use:     "job-results <job-id>",
		GroupID: "query",
		Short:   "Print one page of a completed job's rows",
		Example: `  dremio job-results 1f2e... --offset 100 --limit 100`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := app.Client()
			if err != nil {
				return err
			}
			page, err := c.JobResults(cmd.Context(), args[0], offset, limit)
			if err != nil {
				return err
			}
			return writeRows(cmd, app, page.Rows, page.Schema)
		},
	}
	cmd.Flags().IntVar(&offset, "offset", 0, "first row to return")
	cmd.Flags().IntVar(&limit, "limit", constants.DefaultPageSize, "rows to return (at most 500)")
	return cmd
}
