// Package app provides the application context and dependency management
// for the dremio CLI: configuration, logging and the lazily created
// coordinator client.
package app

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/agentstation/dremio"
	"github.com/agentstation/dremio/internal/appcontext"
	"github.com/agentstation/dremio/internal/config"
	"github.com/agentstation/dremio/pkg/constants"
	"github.com/agentstation/dremio/pkg/errors"
)

// Ensure App implements appcontext.Interface at compile time.
var _ appcontext.Interface = (*App)(nil)

// App represents the dremio CLI with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	config *config.Config
	logger *zerolog.Logger

	// extra client options, e.g. a test server URL
	clientOpts []dremio.Option

	// Client instance (lazy-initialized, singleton)
	mu     sync.RWMutex
	client *dremio.Client
}

// New creates a new App instance with the given version information.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
	}

	// Apply options first so WithConfig can skip loading
	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	if app.config == nil {
		cfg, err := config.Load("")
		if err != nil {
			return nil, errors.WrapResource("load", "config", "", err)
		}
		app.config = cfg
	}

	if app.logger == nil {
		logger := NewLogger(app.config)
		app.logger = &logger
	}

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Commit returns the git commit hash.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build date.
func (a *App) Date() string {
	return a.date
}

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string {
	return a.builtBy
}

// Config returns the application configuration.
func (a *App) Config() *config.Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// OutputFormat returns the configured output format.
func (a *App) OutputFormat() string {
	return a.config.Format
}

// Client returns the coordinator client, creating it lazily if needed.
func (a *App) Client() (*dremio.Client, error) {
	a.mu.RLock()
	if a.client != nil {
		c := a.client
		a.mu.RUnlock()
		return c, nil
	}
	a.mu.RUnlock()

	a.mu.Lock()
	defer a.mu.Unlock()

	// Double-check after acquiring write lock
	if a.client != nil {
		return a.client, nil
	}

	c, err := dremio.New(append(a.buildClientOptions(), a.clientOpts...)...)
	if err != nil {
		return nil, errors.WrapResource("create", "client", "", err)
	}
	a.client = c
	return c, nil
}

// Shutdown releases the client.
func (a *App) Shutdown(_ context.Context) error {
	a.mu.RLock()
	c := a.client
	a.mu.RUnlock()

	if c != nil {
		if err := c.Close(); err != nil {
			a.logger.Error().Err(err).Msg("Failed to close client during shutdown")
			return err
		}
	}
	return nil
}

// buildClientOptions constructs client options from the configuration.
func (a *App) buildClientOptions() []dremio.Option {
	cfg := a.config
	opts := []dremio.Option{
		dremio.WithHost(cfg.Hostname, cfg.Port),
		dremio.WithPollInterval(cfg.PollInterval),
		dremio.WithLogger(a.logger),
	}
	if cfg.Timeout > 0 {
		opts = append(opts, dremio.WithTimeout(cfg.Timeout))
	}
	if cfg.RateLimit > 0 {
		opts = append(opts, dremio.WithRateLimit(cfg.RateLimit, constants.BurstSize))
	} else {
		opts = append(opts, dremio.WithRateLimit(0, 0))
	}
	if cfg.SSL {
		opts = append(opts, dremio.WithTLS(cfg.Verify))
	}

	switch cfg.Auth.Type {
	case "pat":
		opts = append(opts, dremio.WithToken(cfg.Auth.Token))
	case "none":
		opts = append(opts, dremio.WithoutAuth())
	default:
		opts = append(opts, dremio.WithBasicAuth(cfg.Auth.Username, cfg.Auth.Password))
	}

	if cfg.FlightPort > 0 {
		opts = append(opts, dremio.WithFlight(cfg.FlightPort))
	} else {
		opts = append(opts, dremio.WithoutFlight())
	}
	return opts
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(cfg *config.Config) Option {
	return func(a *App) error {
		if err := cfg.Validate(); err != nil {
			return err
		}
		a.config = cfg
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}

// WithClientOptions appends options used when the client is created.
func WithClientOptions(opts ...dremio.Option) Option {
	return func(a *App) error {
		a.clientOpts = append(a.clientOpts, opts...)
		return nil
	}
}
