package dremio

import (
	"context"
	"sync"

	"github.com/agentstation/dremio/pkg/rest"
)

// Admin exposes the coordinator's administrative listings. List results
// are cached after the first call; Reset or RefreshReflections reloads
// them.
type Admin interface {
	Reflections(ctx context.Context) ([]rest.Reflection, error)
	Reflection(ctx context.Context, id string) (rest.Reflection, error)
	Queues(ctx context.Context) ([]rest.Queue, error)
	Rules(ctx context.Context) ([]rest.Rule, error)
	Votes(ctx context.Context) ([]rest.Vote, error)
	User(ctx context.Context, id, name string) (rest.User, error)
	Group(ctx context.Context, id, name string) (rest.Group, error)
	AccessTokens(ctx context.Context, userID string) ([]rest.AccessToken, error)
}

// cached holds one lazily loaded value.
type cached[T any] struct {
	mu  sync.Mutex
	val T
	ok  bool
}

func (c *cached[T]) get(ctx context.Context, load func(context.Context) (T, error)) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.ok {
		return c.val, nil
	}
	v, err := load(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	c.val, c.ok = v, true
	return v, nil
}

// swap stores v and returns the previous value, if any.
func (c *cached[T]) swap(v T) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	old, had := c.val, c.ok
	c.val, c.ok = v, true
	return old, had
}

func (c *cached[T]) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	var zero T
	c.val, c.ok = zero, false
}

type adminCache struct {
	reflections cached[[]rest.Reflection]
	queues      cached[[]rest.Queue]
	rules       cached[[]rest.Rule]
	votes       cached[[]rest.Vote]
}

func (a *adminCache) reset() {
	a.reflections.reset()
	a.queues.reset()
	a.rules.reset()
	a.votes.reset()
}

// Reflections lists every reflection.
func (c *Client) Reflections(ctx context.Context) ([]rest.Reflection, error) {
	ctx = c.ctx(ctx)
	if err := c.ensureLogin(ctx); err != nil {
		return nil, err
	}
	return c.cache.reflections.get(ctx, c.loadReflections)
}

func (c *Client) loadReflections(ctx context.Context) ([]rest.Reflection, error) {
	return c.rest.Reflections(ctx, false)
}

// RefreshReflections reloads the reflection list and fires the reflection
// hooks for every difference from the previous list.
func (c *Client) RefreshReflections(ctx context.Context) ([]rest.Reflection, error) {
	ctx = c.ctx(ctx)
	if err := c.ensureLogin(ctx); err != nil {
		return nil, err
	}
	fresh, err := c.loadReflections(ctx)
	if err != nil {
		return nil, err
	}
	if old, had := c.cache.reflections.swap(fresh); had {
		c.hooks.triggerReflectionUpdate(old, fresh)
	}
	return fresh, nil
}

// Reflection fetches one reflection; it is never cached.
func (c *Client) Reflection(ctx context.Context, id string) (rest.Reflection, error) {
	ctx = c.ctx(ctx)
	if err := c.ensureLogin(ctx); err != nil {
		return rest.Reflection{}, err
	}
	return c.rest.Reflection(ctx, id)
}

// Queues lists the workload management queues.
func (c *Client) Queues(ctx context.Context) ([]rest.Queue, error) {
	ctx = c.ctx(ctx)
	if err := c.ensureLogin(ctx); err != nil {
		return nil, err
	}
	return c.cache.queues.get(ctx, c.rest.Queues)
}

// Rules lists the workload management rules.
func (c *Client) Rules(ctx context.Context) ([]rest.Rule, error) {
	ctx = c.ctx(ctx)
	if err := c.ensureLogin(ctx); err != nil {
		return nil, err
	}
	return c.cache.rules.get(ctx, c.rest.Rules)
}

// Votes lists reflection recommendation votes.
func (c *Client) Votes(ctx context.Context) ([]rest.Vote, error) {
	ctx = c.ctx(ctx)
	if err := c.ensureLogin(ctx); err != nil {
		return nil, err
	}
	return c.cache.votes.get(ctx, c.rest.Votes)
}

// User looks a user up by id, or by name when id is empty.
func (c *Client) User(ctx context.Context, id, name string) (rest.User, error) {
	ctx = c.ctx(ctx)
	if err := c.ensureLogin(ctx); err != nil {
		return rest.User{}, err
	}
	return c.rest.User(ctx, id, name)
}

// Group looks a group up by id, or by name when id is empty.
func (c *Client) Group(ctx context.Context, id, name string) (rest.Group, error) {
	ctx = c.ctx(ctx)
	if err := c.ensureLogin(ctx); err != nil {
		return rest.Group{}, err
	}
	return c.rest.Group(ctx, id, name)
}

// AccessTokens lists a user's personal access tokens.
func (c *Client) AccessTokens(ctx context.Context, userID string) ([]rest.AccessToken, error) {
	ctx = c.ctx(ctx)
	if err := c.ensureLogin(ctx); err != nil {
		return nil, err
	}
	return c.rest.AccessTokens(ctx, userID)
}
