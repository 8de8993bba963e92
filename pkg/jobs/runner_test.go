package jobs_test

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/dremio/pkg/catalog"
	"github.com/agentstation/dremio/pkg/errors"
	"github.com/agentstation/dremio/pkg/jobs"
)

// scriptedAPI answers status polls from a fixed script and serves rows
// numbered from zero.
type scriptedAPI struct {
	mu       sync.Mutex
	states   []jobs.Status
	polls    int
	submits  []string
	offsets  []int
	statusFn func() error
	release  chan struct{}
}

func (a *scriptedAPI) SubmitSQL(_ context.Context, sql string, _ []string) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.submits = append(a.submits, sql)
	return "J1", nil
}

func (a *scriptedAPI) JobStatus(ctx context.Context, _ string) (jobs.Status, error) {
	if a.release != nil {
		select {
		case <-a.release:
		case <-ctx.Done():
			return jobs.Status{}, ctx.Err()
		}
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.statusFn != nil {
		if err := a.statusFn(); err != nil {
			return jobs.Status{}, err
		}
	}
	i := min(a.polls, len(a.states)-1)
	a.polls++
	return a.states[i], nil
}

func (a *scriptedAPI) JobResults(_ context.Context, _ string, offset, limit int) (jobs.Page, error) {
	a.mu.Lock()
	total := a.states[len(a.states)-1].RowCount
	a.offsets = append(a.offsets, offset)
	a.mu.Unlock()

	page := jobs.Page{RowCount: total, Schema: []catalog.Field{{Name: "n", Type: catalog.FieldType{Name: "BIGINT"}}}}
	for i := offset; i < min(offset+limit, total); i++ {
		page.Rows = append(page.Rows, map[string]any{"n": float64(i)})
	}
	return page, nil
}

func completedAfterTwoPolls(rows int) *scriptedAPI {
	return &scriptedAPI{states: []jobs.Status{
		{JobState: jobs.StateRunning},
		{JobState: jobs.StateRunning},
		{JobState: jobs.StateCompleted, RowCount: rows},
	}}
}

func TestRunPollsThenPaginates(t *testing.T) {
	api := completedAfterTwoPolls(150)
	r := jobs.NewRunner(api, jobs.WithPollInterval(time.Millisecond))

	res, err := r.Run(t.Context(), "SELECT * FROM trips")
	require.NoError(t, err)

	assert.Equal(t, "J1", res.JobID)
	assert.Equal(t, 3, api.polls)
	assert.ElementsMatch(t, []int{0, 100}, api.offsets)
	require.Len(t, res.Rows, 150)
	for i, row := range res.Rows {
		assert.Equal(t, float64(i), row["n"])
	}
	assert.Equal(t, "n", res.Schema[0].Name)
}

func TestRunExactPageBoundary(t *testing.T) {
	api := completedAfterTwoPolls(200)
	r := jobs.NewRunner(api, jobs.WithPollInterval(time.Millisecond), jobs.WithPageSize(50), jobs.WithParallelPages(2))

	res, err := r.Run(t.Context(), "SELECT 1")
	require.NoError(t, err)
	assert.Len(t, res.Rows, 200)
	assert.ElementsMatch(t, []int{0, 50, 100, 150}, api.offsets)
}

func TestRunNoRows(t *testing.T) {
	api := completedAfterTwoPolls(0)
	r := jobs.NewRunner(api, jobs.WithPollInterval(time.Millisecond))

	res, err := r.Run(t.Context(), "CREATE SPACE x")
	require.NoError(t, err)
	assert.Empty(t, res.Rows)
	assert.Empty(t, api.offsets)
}

func TestWaitFailedStates(t *testing.T) {
	for _, state := range []jobs.State{jobs.StateFailed, jobs.StateCanceled} {
		t.Run(string(state), func(t *testing.T) {
			api := &scriptedAPI{states: []jobs.Status{
				{JobState: jobs.StateRunning},
				{JobState: state, ErrorMessage: "boom"},
			}}
			r := jobs.NewRunner(api, jobs.WithPollInterval(time.Millisecond))

			_, err := r.Run(t.Context(), "SELECT 1")
			require.Error(t, err)
			assert.ErrorIs(t, err, errors.ErrJobFailed)

			var jobErr *errors.JobError
			require.ErrorAs(t, err, &jobErr)
			assert.Equal(t, "J1", jobErr.JobID)
			assert.Equal(t, string(state), jobErr.State)
			assert.Empty(t, api.offsets)
		})
	}
}

func TestWaitDoesNotRetryTransportErrors(t *testing.T) {
	calls := 0
	api := completedAfterTwoPolls(1)
	api.statusFn = func() error {
		calls++
		return errors.NewAPIError(http.MethodGet, "/api/v3/job/J1", http.StatusUnauthorized, "expired")
	}
	r := jobs.NewRunner(api, jobs.WithPollInterval(time.Millisecond))

	_, err := r.Wait(t.Context(), "J1")
	assert.ErrorIs(t, err, errors.ErrUnauthorized)
	assert.Equal(t, 1, calls)
}

func TestWaitMaxWait(t *testing.T) {
	api := &scriptedAPI{states: []jobs.Status{{JobState: jobs.StateRunning}}}
	r := jobs.NewRunner(api, jobs.WithPollInterval(time.Millisecond), jobs.WithMaxWait(20*time.Millisecond))

	_, err := r.Wait(t.Context(), "J1")
	assert.ErrorIs(t, err, errors.ErrTimeout)
}

func TestTerminalStates(t *testing.T) {
	assert.True(t, jobs.StateCompleted.Terminal())
	assert.True(t, jobs.StateFailed.Terminal())
	assert.True(t, jobs.StateCanceled.Terminal())
	assert.False(t, jobs.StateRunning.Terminal())
	assert.False(t, jobs.StateCancellationReq.Terminal())
}

func TestRefreshMetadataAndQuery(t *testing.T) {
	api := completedAfterTwoPolls(2)
	r := jobs.NewRunner(api, jobs.WithPollInterval(time.Millisecond))

	require.NoError(t, r.RefreshMetadata(t.Context(), []string{"s3", "trips"}))
	rows, err := r.Query(t.Context(), "SELECT 1")
	require.NoError(t, err)
	assert.Len(t, rows, 2)
	assert.Equal(t, `ALTER PDS "s3"."trips" REFRESH METADATA FORCE UPDATE`, api.submits[0])
}

func TestRunAsync(t *testing.T) {
	api := completedAfterTwoPolls(3)
	r := jobs.NewRunner(api, jobs.WithPollInterval(time.Millisecond), jobs.WithAsyncWorkers(2))

	futures := make([]*jobs.Future, 4)
	for i := range futures {
		futures[i] = r.RunAsync(t.Context(), fmt.Sprintf("SELECT %d", i))
	}
	for _, f := range futures {
		res, err := f.Wait(t.Context())
		require.NoError(t, err)
		assert.Len(t, res.Rows, 3)
		<-f.Done()
	}
	assert.Len(t, api.submits, 4)
}

func TestFutureWaitAbandonsWithoutCancellingJob(t *testing.T) {
	api := completedAfterTwoPolls(1)
	api.release = make(chan struct{})
	r := jobs.NewRunner(api, jobs.WithPollInterval(time.Millisecond))

	f := r.RunAsync(t.Context(), "SELECT 1")

	waitCtx, cancel := context.WithTimeout(t.Context(), 10*time.Millisecond)
	defer cancel()
	_, err := f.Wait(waitCtx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	// the job keeps running and still completes
	close(api.release)
	res, err := f.Wait(t.Context())
	require.NoError(t, err)
	assert.Len(t, res.Rows, 1)
}

func TestFailedFuture(t *testing.T) {
	f := jobs.Failed(errors.ErrUnauthorized)
	select {
	case <-f.Done():
	default:
		t.Fatal("failed future should be done")
	}
	_, err := f.Wait(t.Context())
	assert.ErrorIs(t, err, errors.ErrUnauthorized)
}
