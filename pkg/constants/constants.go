// Package constants provides shared constants used throughout the dremio
// client. This includes timeouts, ports, page sizes and the other defaults
// that must agree between the library, the CLI and the configuration layer.
package constants

import "time"

// Timeout constants
const (
	// DefaultHTTPTimeout is the standard timeout for requests to the coordinator
	DefaultHTTPTimeout = 30 * time.Second

	// DefaultTimeout is the configured per-request timeout when none is set
	DefaultTimeout = 10 * time.Second

	// LoginTimeout is the timeout for the basic-auth login round trip
	LoginTimeout = 10 * time.Second

	// DefaultPollInterval is the delay between job status checks
	DefaultPollInterval = 10 * time.Second

	// CommandTimeout is the default timeout for CLI commands
	CommandTimeout = 10 * time.Minute

	// ShutdownTimeout bounds graceful shutdown of the CLI
	ShutdownTimeout = 5 * time.Second
)

// File permission constants
const (
	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644

	// SecureFilePermissions is for sensitive files like tokens (rw-------)
	SecureFilePermissions = 0600
)

// Coordinator defaults
const (
	// DefaultHostname is the coordinator host when none is configured
	DefaultHostname = "localhost"

	// DefaultPort is the coordinator REST port
	DefaultPort = 9047

	// DefaultFlightPort is the Arrow Flight port
	DefaultFlightPort = 32010

	// DefaultAuthType is the login method
	DefaultAuthType = "basic"

	// DefaultUsername and DefaultPassword match a fresh local install
	DefaultUsername = "dremio"
	DefaultPassword = "dremio123"

	// TokenPrefix prefixes session tokens in the Authorization header
	TokenPrefix = "_dremio"
)

// Limit constants
const (
	// DefaultPageSize is the number of rows fetched per job results page
	DefaultPageSize = 100

	// MaxPageSize is the largest page the coordinator will return
	MaxPageSize = 500

	// MaxConcurrentPages bounds parallel result page fetches
	MaxConcurrentPages = 8

	// MaxAsyncJobs is the size of the async query worker pool
	MaxAsyncJobs = 8

	// DefaultRateLimit is the default requests per second against the coordinator
	DefaultRateLimit = 50

	// BurstSize is the token bucket burst size for rate limiting
	BurstSize = 10
)

// API path constants
const (
	// APIPrefix is the root of the v3 REST API
	APIPrefix = "/api/v3"

	// LoginPath is the legacy session login endpoint
	LoginPath = "/apiv2/login"
)
