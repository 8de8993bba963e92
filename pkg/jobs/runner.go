package jobs

import (
	"context"
	"time"

	"github.com/sethvargo/go-retry"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/agentstation/dremio/pkg/catalog"
	"github.com/agentstation/dremio/pkg/constants"
	"github.com/agentstation/dremio/pkg/errors"
	"github.com/agentstation/dremio/pkg/logging"
)

var errNotDone = errors.New("job not finished")

// Runner runs SQL as coordinator jobs.
type Runner struct {
	api      API
	interval time.Duration
	maxWait  time.Duration
	pageSize int
	parallel int
	pool     *semaphore.Weighted
}

// Option configures a Runner.
type Option func(*Runner)

// WithPollInterval sets the delay between status polls.
func WithPollInterval(d time.Duration) Option {
	return func(r *Runner) {
		if d > 0 {
			r.interval = d
		}
	}
}

// WithMaxWait bounds the total time spent polling one job. Zero waits
// until the context ends.
func WithMaxWait(d time.Duration) Option {
	return func(r *Runner) {
		r.maxWait = d
	}
}

// WithPageSize sets the number of rows fetched per results call.
func WithPageSize(n int) Option {
	return func(r *Runner) {
		if n > 0 && n <= constants.MaxPageSize {
			r.pageSize = n
		}
	}
}

// WithParallelPages sets how many result pages are fetched at once.
func WithParallelPages(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.parallel = n
		}
	}
}

// WithAsyncWorkers sets how many RunAsync jobs may be in flight.
func WithAsyncWorkers(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.pool = semaphore.NewWeighted(int64(n))
		}
	}
}

// NewRunner creates a runner over api.
func NewRunner(api API, opts ...Option) *Runner {
	r := &Runner{
		api:      api,
		interval: constants.DefaultPollInterval,
		pageSize: constants.DefaultPageSize,
		parallel: constants.MaxConcurrentPages,
		pool:     semaphore.NewWeighted(constants.MaxAsyncJobs),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Submit starts a job and returns its id without waiting.
func (r *Runner) Submit(ctx context.Context, sql string, sqlContext ...string) (string, error) {
	id, err := r.api.SubmitSQL(ctx, sql, sqlContext)
	if err != nil {
		return "", errors.WrapResource("submit", "job", "", err)
	}
	logging.FromContext(ctx).Debug().Str("job_id", id).Msg("submitted job")
	return id, nil
}

// Wait polls the job at a fixed interval until it reaches a terminal state.
// Only non-terminal states are retried; a status request that fails ends
// the wait. FAILED and CANCELED jobs return an error matching
// errors.ErrJobFailed.
func (r *Runner) Wait(ctx context.Context, id string) (Status, error) {
	ctx = logging.WithJob(ctx, id)
	log := logging.FromContext(ctx)

	var backoff retry.Backoff = retry.NewConstant(r.interval)
	if r.maxWait > 0 {
		backoff = retry.WithMaxDuration(r.maxWait, backoff)
	}

	var last State
	status, err := retry.DoValue(ctx, backoff, func(ctx context.Context) (Status, error) {
		st, err := r.api.JobStatus(ctx, id)
		if err != nil {
			return Status{}, errors.WrapResource("poll", "job", id, err)
		}
		if st.JobState != last {
			log.Debug().Str("state", string(st.JobState)).Int("rows", st.RowCount).Msg("job state")
			last = st.JobState
		}
		switch st.JobState {
		case StateCompleted:
			return st, nil
		case StateFailed, StateCanceled:
			msg := st.ErrorMessage
			if msg == "" {
				msg = st.CancellationReason
			}
			return st, &errors.JobError{JobID: id, State: string(st.JobState), Message: msg}
		default:
			return st, retry.RetryableError(errNotDone)
		}
	})
	if errors.Is(err, errNotDone) {
		return status, &errors.ResourceError{Operation: "wait for", Resource: "job", ID: id, Err: errors.ErrTimeout}
	}
	return status, err
}

// Results fetches rowCount rows in pages of the configured size, several
// pages at a time, and returns them in offset order.
func (r *Runner) Results(ctx context.Context, id string, rowCount int) ([]map[string]any, []catalog.Field, error) {
	if rowCount <= 0 {
		return nil, nil, nil
	}

	n := (rowCount + r.pageSize - 1) / r.pageSize
	pages := make([]Page, n)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.parallel)
	for i := range n {
		offset := i * r.pageSize
		g.Go(func() error {
			page, err := r.api.JobResults(gctx, id, offset, r.pageSize)
			if err != nil {
				return errors.WrapResource("fetch", "job results", id, err)
			}
			pages[i] = page
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	rows := make([]map[string]any, 0, rowCount)
	var schema []catalog.Field
	for _, p := range pages {
		if schema == nil && len(p.Schema) > 0 {
			schema = p.Schema
		}
		rows = append(rows, p.Rows...)
	}
	return rows, schema, nil
}

// Run submits sql, waits for it and collects every row.
func (r *Runner) Run(ctx context.Context, sql string, sqlContext ...string) (*Result, error) {
	id, err := r.Submit(ctx, sql, sqlContext...)
	if err != nil {
		return nil, err
	}
	status, err := r.Wait(ctx, id)
	if err != nil {
		return nil, err
	}
	rows, schema, err := r.Results(ctx, id, status.RowCount)
	if err != nil {
		return nil, err
	}
	return &Result{JobID: id, Status: status, Schema: schema, Rows: rows}, nil
}

// Query runs sql and returns only the rows.
func (r *Runner) Query(ctx context.Context, sql string) ([]map[string]any, error) {
	res, err := r.Run(ctx, sql)
	if err != nil {
		return nil, err
	}
	return res.Rows, nil
}

// RefreshMetadata forces a metadata refresh of the physical dataset at path.
func (r *Runner) RefreshMetadata(ctx context.Context, path []string) error {
	_, err := r.Run(ctx, catalog.RefreshMetadataSQL(path))
	return err
}

var _ catalog.Querier = (*Runner)(nil)
