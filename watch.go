package dremio

import (
	"context"
	"sync"
	"time"

	"github.com/agentstation/dremio/pkg/errors"
	"github.com/agentstation/dremio/pkg/logging"
)

// watcher polls the reflection list in the background.
type watcher struct {
	mu     sync.Mutex
	ticker *time.Ticker
	cancel context.CancelFunc
	done   chan struct{}
}

// ReflectionWatchOn polls the reflection list every interval and fires the
// reflection hooks on changes. When nothing is cached yet the first poll
// only seeds the list. It replaces any running watch.
func (c *Client) ReflectionWatchOn(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		return &errors.ValidationError{
			Field:   "interval",
			Value:   interval,
			Message: "watch interval must be positive",
		}
	}

	c.ReflectionWatchOff()

	ctx, cancel := context.WithCancel(c.ctx(ctx))
	w := c.watch
	w.mu.Lock()
	w.ticker = time.NewTicker(interval)
	w.cancel = cancel
	w.done = make(chan struct{})
	ticker, done := w.ticker, w.done
	w.mu.Unlock()

	go func() {
		defer close(done)
		for {
			select {
			case <-ticker.C:
				pollCtx, pollCancel := context.WithTimeout(ctx, interval)
				_, err := c.RefreshReflections(pollCtx)
				pollCancel()

				if err != nil {
					if errors.Is(err, context.Canceled) && ctx.Err() != nil {
						return
					}
					logging.FromContext(ctx).Warn().Err(err).Msg("Reflection poll failed")
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// ReflectionWatchOff stops the background watch and waits for it to exit.
func (c *Client) ReflectionWatchOff() {
	w := c.watch
	w.mu.Lock()
	if w.ticker != nil {
		w.ticker.Stop()
		w.ticker = nil
	}
	cancel, done := w.cancel, w.done
	w.cancel, w.done = nil, nil
	w.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
}
