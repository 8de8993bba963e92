// Package appcontext provides the shared application context interface
// used by all commands, so command packages depend on this interface and
// not on the concrete App.
package appcontext

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/dremio"
)

// Interface defines what commands need from the application.
type Interface interface {
	// Client returns the coordinator client, creating it lazily if needed.
	Client() (*dremio.Client, error)

	// Logger returns the configured logger instance.
	Logger() *zerolog.Logger

	// OutputFormat returns the configured output format (json, yaml, table, wide).
	OutputFormat() string

	// Version returns the application version string.
	Version() string

	// Commit returns the git commit hash.
	Commit() string

	// Date returns the build date.
	Date() string

	// BuiltBy returns the build system identifier.
	BuiltBy() string
}
