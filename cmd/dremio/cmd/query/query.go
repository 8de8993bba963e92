// Package query provides the SQL and job commands.
package query

import (
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/agentstation/dremio"
	"github.com/agentstation/dremio/internal/cmd/output"
	"github.com/agentstation/dremio/internal/cmd/table"
	"github.com/agentstation/dremio/pkg/catalog"
)

// AppContext defines what the query commands need from the app.
type AppContext interface {
	Client() (*dremio.Client, error)
	Logger() *zerolog.Logger
	OutputFormat() string
}

// NewQueryCommand runs SQL over Flight with a REST fallback.
func NewQueryCommand(app AppContext) *cobra.Command {
	return &cobra.Command{
		Use:     "query <sql>",
		GroupID: "query",
		Short:   "Run SQL, preferring Arrow Flight",
		Long: `Query runs a statement and prints every row. It uses the Arrow Flight
endpoint when one is configured and reachable, and the REST job API
otherwise.`,
		Example: `  dremio query "SELECT * FROM sys.options LIMIT 5"
  dremio query -o json "SELECT 1 AS one"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := app.Client()
			if err != nil {
				return err
			}
			rows, err := c.Query(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			return writeRows(cmd, app, rows, nil)
		},
	}
}

// NewSQLCommand runs SQL as a REST job.
func NewSQLCommand(app AppContext) *cobra.Command {
	var sqlContext string

	cmd := &cobra.Command{
		Use:     "sql <sql>",
		GroupID: "query",
		Short:   "Run SQL as a REST job and wait for its rows",
		Example: `  dremio sql "SELECT * FROM trips" --context adls.nyctaxi`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := app.Client()
			if err != nil {
				return err
			}
			var ctxPath []string
			if sqlContext != "" {
				ctxPath = strings.Split(sqlContext, ".")
			}
			res, err := c.SQL(cmd.Context(), strings.Join(args, " "), ctxPath...)
			if err != nil {
				return err
			}
			app.Logger().Info().Str("job_id", res.JobID).Int("rows", len(res.Rows)).Msg("job completed")
			return writeRows(cmd, app, res.Rows, res.Schema)
		},
	}
	cmd.Flags().StringVar(&sqlContext, "context", "", "dot-separated path the statement runs in")
	return cmd
}

func writeRows(cmd *cobra.Command, app AppContext, rows []map[string]any, schema []catalog.Field) error {
	if rows == nil {
		rows = []map[string]any{}
	}
	return output.Write(cmd.OutOrStdout(), output.DetectFormat(app.OutputFormat()), rows,
		func(bool) table.Data { return table.RowsToTableData(rows, schema) })
}
