package dremio

import (
	"context"
	"sync"

	"github.com/agentstation/dremio/internal/transport"
	"github.com/agentstation/dremio/pkg/catalog"
	"github.com/agentstation/dremio/pkg/errors"
	"github.com/agentstation/dremio/pkg/flight"
	"github.com/agentstation/dremio/pkg/jobs"
	"github.com/agentstation/dremio/pkg/logging"
	"github.com/agentstation/dremio/pkg/rest"
)

// Compile-time interface checks to ensure proper implementation.
var (
	_ catalog.Querier = (*Client)(nil)
	_ Querier         = (*Client)(nil)
	_ Admin           = (*Client)(nil)
)

// Client is a connection to one coordinator. It is safe for concurrent use.
type Client struct {
	options   *options
	transport *transport.Client
	rest      *rest.Client
	runner    *jobs.Runner

	// login state
	authMu sync.Mutex
	authed bool

	// lazily built catalog tree and flight connection
	mu         sync.Mutex
	root       *catalog.Root
	flight     *flight.Client
	flightDown error

	cache *adminCache
	hooks *hooks
	watch *watcher
}

// New creates a Client. No request is sent until the first call that
// needs the coordinator.
func New(opts ...Option) (*Client, error) {
	o, err := defaults().apply(opts...)
	if err != nil {
		return nil, err
	}

	topts := []transport.Option{
		transport.WithTimeout(o.timeout),
		transport.WithTLSVerify(o.verify),
		transport.WithRateLimit(o.rateLimit, o.burst),
	}
	if o.httpClient != nil {
		topts = append(topts, transport.WithHTTPClient(o.httpClient))
	}
	if o.authType == "pat" {
		topts = append(topts, transport.WithToken(o.token))
	}
	t := transport.New(o.restURL(), transport.AuthenticatorFor(o.authType), topts...)
	rc := rest.New(t)

	c := &Client{
		options:   o,
		transport: t,
		rest:      rc,
		runner: jobs.NewRunner(rc,
			jobs.WithPollInterval(o.pollInterval),
			jobs.WithMaxWait(o.maxWait),
		),
		cache: &adminCache{},
		hooks: newHooks(),
		watch: &watcher{},
	}
	return c, nil
}

// ctx attaches the configured logger when the caller did not.
func (c *Client) ctx(ctx context.Context) context.Context {
	if c.options.logger == nil {
		return ctx
	}
	if logging.FromContext(ctx) != logging.Default() {
		return ctx
	}
	return logging.WithLogger(ctx, c.options.logger)
}

// Login authenticates with the configured method. Basic auth exchanges
// the username and password for a session token; a personal access token
// or no auth needs no round trip. Calling Login again refreshes the
// session.
func (c *Client) Login(ctx context.Context) error {
	ctx = c.ctx(ctx)
	c.authMu.Lock()
	defer c.authMu.Unlock()

	if c.options.authType == "basic" {
		if _, err := rest.Login(ctx, c.transport, c.options.username, c.options.password); err != nil {
			return err
		}
	}
	c.authed = true
	return nil
}

// ensureLogin logs in once.
func (c *Client) ensureLogin(ctx context.Context) error {
	c.authMu.Lock()
	authed := c.authed
	c.authMu.Unlock()
	if authed {
		return nil
	}
	return c.Login(ctx)
}

// REST returns the underlying REST gateway. Callers must Login first when
// using basic auth.
func (c *Client) REST() *rest.Client {
	return c.rest
}

// Runner returns the REST job runner.
func (c *Client) Runner() *jobs.Runner {
	return c.runner
}

// Data returns the root of the catalog tree, building it on first use.
// The tree is populated lazily as it is walked.
func (c *Client) Data(ctx context.Context) (*catalog.Root, error) {
	if err := c.ensureLogin(ctx); err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.root == nil {
		c.root = catalog.NewRoot(catalog.NewFactory(c.rest, c))
	}
	return c.root, nil
}

// Reset drops the cached catalog tree and admin lists. The next Data call
// starts from an unexpanded root.
func (c *Client) Reset() {
	c.mu.Lock()
	c.root = nil
	c.mu.Unlock()
	c.cache.reset()
}

// Close stops the reflection watcher and releases the Flight connection.
func (c *Client) Close() error {
	c.ReflectionWatchOff()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.flight == nil {
		return nil
	}
	err := c.flight.Close()
	c.flight = nil
	if err != nil {
		return errors.WrapResource("close", "flight client", "", err)
	}
	return nil
}
