package jobs

import (
	"context"
)

// Future is the pending outcome of RunAsync.
type Future struct {
	done chan struct{}
	res  *Result
	err  error
}

// Done is closed once the job has a result or an error.
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Wait blocks until the job finishes or ctx ends. Giving up on the wait
// leaves the remote job running.
func (f *Future) Wait(ctx context.Context) (*Result, error) {
	select {
	case <-f.done:
		return f.res, f.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// RunAsync runs sql on the runner's worker pool. The job is bound to ctx:
// cancelling it stops polling locally but no cancel is sent to the
// coordinator.
func (r *Runner) RunAsync(ctx context.Context, sql string, sqlContext ...string) *Future {
	f := &Future{done: make(chan struct{})}
	go func() {
		defer close(f.done)
		if err := r.pool.Acquire(ctx, 1); err != nil {
			f.err = err
			return
		}
		defer r.pool.Release(1)
		f.res, f.err = r.Run(ctx, sql, sqlContext...)
	}()
	return f
}

// Failed returns a Future that is already done with err.
func Failed(err error) *Future {
	f := &Future{done: make(chan struct{}), err: err}
	close(f.done)
	return f
}
