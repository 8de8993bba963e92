package dremio

import (
	"context"

	"github.com/agentstation/dremio/pkg/errors"
	"github.com/agentstation/dremio/pkg/flight"
	"github.com/agentstation/dremio/pkg/jobs"
	"github.com/agentstation/dremio/pkg/logging"
)

// Querier runs SQL against the coordinator.
type Querier interface {
	// Query runs sql and returns every row, preferring Arrow Flight.
	Query(ctx context.Context, sql string) ([]map[string]any, error)

	// SQL runs sql as a REST job and returns its rows with the job id and schema.
	SQL(ctx context.Context, sql string, sqlContext ...string) (*jobs.Result, error)

	// SQLAsync submits sql on the async worker pool.
	SQLAsync(ctx context.Context, sql string, sqlContext ...string) *jobs.Future
}

// Query runs sql over Flight when a Flight port is configured and
// reachable, and over the REST job API otherwise. Once Flight reports it
// is unavailable the client stops trying it.
func (c *Client) Query(ctx context.Context, sql string) ([]map[string]any, error) {
	ctx = c.ctx(ctx)
	if err := c.ensureLogin(ctx); err != nil {
		return nil, err
	}

	fc, err := c.flightClient(ctx)
	if err == nil {
		rows, qerr := fc.Query(ctx, sql)
		if qerr == nil {
			return rows, nil
		}
		if !errors.Is(qerr, errors.ErrNotImplemented) {
			return nil, qerr
		}
		c.disableFlight(qerr)
	} else if !errors.Is(err, errors.ErrNotImplemented) {
		return nil, err
	}

	logging.FromContext(ctx).Debug().Msg("running query over REST")
	return c.runner.Query(ctx, sql)
}

// SQL runs sql as a REST job.
func (c *Client) SQL(ctx context.Context, sql string, sqlContext ...string) (*jobs.Result, error) {
	ctx = c.ctx(ctx)
	if err := c.ensureLogin(ctx); err != nil {
		return nil, err
	}
	return c.runner.Run(ctx, sql, sqlContext...)
}

// SQLAsync runs sql as a REST job on the async worker pool. Cancelling
// ctx stops local polling only.
func (c *Client) SQLAsync(ctx context.Context, sql string, sqlContext ...string) *jobs.Future {
	ctx = c.ctx(ctx)
	if err := c.ensureLogin(ctx); err != nil {
		return jobs.Failed(err)
	}
	return c.runner.RunAsync(ctx, sql, sqlContext...)
}

// JobStatus returns the current status of a job.
func (c *Client) JobStatus(ctx context.Context, id string) (jobs.Status, error) {
	ctx = c.ctx(ctx)
	if err := c.ensureLogin(ctx); err != nil {
		return jobs.Status{}, err
	}
	return c.rest.JobStatus(ctx, id)
}

// JobResults returns one page of a completed job's rows.
func (c *Client) JobResults(ctx context.Context, id string, offset, limit int) (jobs.Page, error) {
	ctx = c.ctx(ctx)
	if err := c.ensureLogin(ctx); err != nil {
		return jobs.Page{}, err
	}
	return c.rest.JobResults(ctx, id, offset, limit)
}

// flightClient dials Flight on first use.
func (c *Client) flightClient(ctx context.Context) (*flight.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.options.flightPort == 0 {
		return nil, errors.ErrNotImplemented
	}
	if c.flightDown != nil {
		return nil, c.flightDown
	}
	if c.flight != nil {
		return c.flight, nil
	}

	cfg := flight.Config{
		Host:        c.options.hostname,
		Port:        c.options.flightPort,
		TLS:         c.options.ssl,
		Verify:      c.options.verify,
		DialOptions: c.options.flightDialOptions,
	}
	switch c.options.authType {
	case "pat":
		cfg.Token = c.options.token
	case "basic":
		cfg.Username = c.options.username
		cfg.Password = c.options.password
	}

	fc, err := flight.Dial(ctx, cfg)
	if err != nil {
		if errors.Is(err, errors.ErrNotImplemented) {
			c.flightDown = err
		}
		return nil, err
	}
	c.flight = fc
	return fc, nil
}

func (c *Client) disableFlight(cause error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.flightDown = cause
	if c.flight != nil {
		_ = c.flight.Close()
		c.flight = nil
	}
}
