package dremio

import (
	"reflect"
	"sync"

	"github.com/agentstation/dremio/pkg/rest"
)

// Hook function types for reflection events
type (
	// ReflectionAddedHook is called when a reflection appears
	ReflectionAddedHook func(r rest.Reflection)

	// ReflectionUpdatedHook is called when a reflection's definition or status changes
	ReflectionUpdatedHook func(old, new rest.Reflection)

	// ReflectionRemovedHook is called when a reflection disappears
	ReflectionRemovedHook func(r rest.Reflection)
)

// hooks manages event callbacks for reflection changes
type hooks struct {
	mu                  sync.RWMutex
	onReflectionAdded   []ReflectionAddedHook
	onReflectionUpdated []ReflectionUpdatedHook
	onReflectionRemoved []ReflectionRemovedHook
}

// newHooks creates a new hooks instance
func newHooks() *hooks {
	return &hooks{}
}

// OnReflectionAdded registers a callback for new reflections.
func (c *Client) OnReflectionAdded(fn ReflectionAddedHook) {
	c.hooks.mu.Lock()
	defer c.hooks.mu.Unlock()
	c.hooks.onReflectionAdded = append(c.hooks.onReflectionAdded, fn)
}

// OnReflectionUpdated registers a callback for changed reflections.
func (c *Client) OnReflectionUpdated(fn ReflectionUpdatedHook) {
	c.hooks.mu.Lock()
	defer c.hooks.mu.Unlock()
	c.hooks.onReflectionUpdated = append(c.hooks.onReflectionUpdated, fn)
}

// OnReflectionRemoved registers a callback for removed reflections.
func (c *Client) OnReflectionRemoved(fn ReflectionRemovedHook) {
	c.hooks.mu.Lock()
	defer c.hooks.mu.Unlock()
	c.hooks.onReflectionRemoved = append(c.hooks.onReflectionRemoved, fn)
}

// triggerReflectionUpdate compares two listings by id and fires the hooks.
func (h *hooks) triggerReflectionUpdate(oldList, newList []rest.Reflection) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	oldByID := make(map[string]rest.Reflection, len(oldList))
	for _, r := range oldList {
		oldByID[r.ID] = r
	}
	newByID := make(map[string]rest.Reflection, len(newList))
	for _, r := range newList {
		newByID[r.ID] = r
	}

	for _, r := range newList {
		if old, exists := oldByID[r.ID]; exists {
			if !reflect.DeepEqual(old, r) {
				for _, hook := range h.onReflectionUpdated {
					hook(old, r)
				}
			}
			continue
		}
		for _, hook := range h.onReflectionAdded {
			hook(r)
		}
	}

	for _, r := range oldList {
		if _, exists := newByID[r.ID]; !exists {
			for _, hook := range h.onReflectionRemoved {
				hook(r)
			}
		}
	}
}
