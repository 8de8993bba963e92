package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentstation/dremio/cmd/dremio/cmd/admin"
	"github.com/agentstation/dremio/cmd/dremio/cmd/catalog"
	"github.com/agentstation/dremio/cmd/dremio/cmd/query"
)

// registerCommands registers all subcommands with the root command.
func (a *App) registerCommands(rootCmd *cobra.Command) {
	// Query commands
	rootCmd.AddCommand(query.NewQueryCommand(a))
	rootCmd.AddCommand(query.NewSQLCommand(a))
	rootCmd.AddCommand(query.NewJobStatusCommand(a))
	rootCmd.AddCommand(query.NewJobResultsCommand(a))

	// Catalog commands
	rootCmd.AddCommand(catalog.NewCatalogCommand(a))
	rootCmd.AddCommand(catalog.NewCatalogItemCommand(a))
	rootCmd.AddCommand(catalog.NewLsCommand(a))
	rootCmd.AddCommand(catalog.NewWikiCommand(a))
	rootCmd.AddCommand(catalog.NewTagsCommand(a))
	rootCmd.AddCommand(catalog.NewRefreshCommand(a))

	// Administration commands
	rootCmd.AddCommand(admin.NewReflectionsCommand(a))
	rootCmd.AddCommand(admin.NewWLMCommand(a))
	rootCmd.AddCommand(admin.NewVotesCommand(a))
	rootCmd.AddCommand(admin.NewUserCommand(a))

	// Utility commands
	rootCmd.AddCommand(a.newVersionCommand())
}

// newVersionCommand creates the version command.
func (a *App) newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "dremio %s\n", a.version)
			if a.config.Verbose {
				fmt.Fprintf(w, "  commit:   %s\n", a.commit)
				fmt.Fprintf(w, "  built:    %s\n", a.date)
				fmt.Fprintf(w, "  built by: %s\n", a.builtBy)
			}
		},
	}
}
