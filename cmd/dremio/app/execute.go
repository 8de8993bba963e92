package app

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/agentstation/dremio/internal/cmd/output"
	"github.com/agentstation/dremio/internal/config"
	"github.com/agentstation/dremio/pkg/errors"
)

// Execute runs the CLI with the given arguments.
func (a *App) Execute(ctx context.Context, args []string) error {
	rootCmd := a.createRootCommand()
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}

// createRootCommand creates the root cobra command with all subcommands.
func (a *App) createRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "dremio",
		Short:   "Query and browse an analytics coordinator",
		Version: a.version,
		Long: `dremio talks to a coordinator over its REST API and, when available,
Arrow Flight. It runs SQL, follows jobs, and browses the catalog of spaces,
sources, folders and datasets.

Connection settings come from $HOME/.dremio.yaml, .env files and DREMIO_*
environment variables (for example DREMIO_AUTH_USERNAME), in increasing
order of precedence, followed by command-line flags.`,
		PersistentPreRunE: a.setupCommand,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	rootCmd.AddGroup(&cobra.Group{ID: "query", Title: "Query Commands:"})
	rootCmd.AddGroup(&cobra.Group{ID: "catalog", Title: "Catalog Commands:"})
	rootCmd.AddGroup(&cobra.Group{ID: "admin", Title: "Administration Commands:"})

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (default is $HOME/.dremio.yaml)")
	flags.BoolP("verbose", "v", false, "verbose output (shortcut for --log-level=debug)")
	flags.BoolP("quiet", "q", false, "minimal output (shortcut for --log-level=error)")
	flags.Bool("no-color", false, "disable colored output")
	flags.StringP("format", "o", "", "output format: table, json, yaml, wide")
	flags.String("log-level", "", "log level: trace, debug, info, warn, error")
	flags.String("hostname", "", "coordinator host (overrides config)")
	flags.Int("port", 0, "coordinator REST port (overrides config)")
	flags.Int("flight-port", -1, "Arrow Flight port, 0 disables Flight (overrides config)")

	rootCmd.SetVersionTemplate("dremio {{.Version}}\n")

	a.registerCommands(rootCmd)
	return rootCmd
}

// setupCommand is called before any command runs.
func (a *App) setupCommand(cmd *cobra.Command, _ []string) error {
	flags := cmd.Flags()

	if path := mustGetString(cmd, "config"); path != "" {
		cfg, err := config.Load(path)
		if err != nil {
			return err
		}
		a.config = cfg
	}

	a.config.UpdateFromFlags(
		mustGetBool(cmd, "verbose"),
		mustGetBool(cmd, "quiet"),
		mustGetBool(cmd, "no-color"),
		mustGetString(cmd, "format"),
		mustGetString(cmd, "log-level"),
	)
	if flags.Changed("hostname") {
		a.config.Hostname = mustGetString(cmd, "hostname")
	}
	if flags.Changed("port") {
		a.config.Port = mustGetInt(cmd, "port")
	}
	if flags.Changed("flight-port") {
		a.config.FlightPort = mustGetInt(cmd, "flight-port")
	}
	if err := a.config.Validate(); err != nil {
		return err
	}

	format, err := output.ParseFormat(a.config.Format)
	if err != nil {
		return err
	}
	a.config.Format = string(format)

	logger := NewLogger(a.config)
	a.logger = &logger
	a.logger.Debug().Str("config", a.config.String()).Msg("configuration loaded")

	return nil
}

// ExitOnError prints err and exits with status 1.
func ExitOnError(err error) {
	if err != nil {
		//nolint:errcheck // Ignoring write error since we're exiting anyway
		_, _ = os.Stderr.WriteString("Error: " + err.Error() + "\n")
		if errors.IsUnauthorized(err) {
			_, _ = os.Stderr.WriteString("Hint: check auth.username/auth.password or DREMIO_AUTH_TOKEN\n")
		}
		os.Exit(1)
	}
}

// mustGetBool retrieves a boolean flag value or panics if the flag doesn't exist.
// This should only be used for flags defined in this package.
func mustGetBool(cmd *cobra.Command, name string) bool {
	val, err := cmd.Flags().GetBool(name)
	if err != nil {
		panic("programming error: failed to get flag " + name + ": " + err.Error())
	}
	return val
}

// mustGetString retrieves a string flag value or panics if the flag doesn't exist.
func mustGetString(cmd *cobra.Command, name string) string {
	val, err := cmd.Flags().GetString(name)
	if err != nil {
		panic("programming error: failed to get flag " + name + ": " + err.Error())
	}
	return val
}

// mustGetInt retrieves an int flag value or panics if the flag doesn't exist.
func mustGetInt(cmd *cobra.Command, name string) int {
	val, err := cmd.Flags().GetInt(name)
	if err != nil {
		panic("programming error: failed to get flag " + name + ": " + err.Error())
	}
	return val
}
