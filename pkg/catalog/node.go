package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/agentstation/dremio/pkg/errors"
	"github.com/agentstation/dremio/pkg/logging"
)

// Node is one entity of the catalog tree: a mapping from child name to
// child node plus the node's own metadata. Children are fetched from the
// gateway the first time they are needed and cached afterwards.
//
// A Node serializes its own operations with a mutex, and gateway calls are
// made while holding it, so concurrent lookups on one unexpanded node cause
// a single fetch.
type Node struct {
	mu       sync.Mutex
	meta     Meta
	children map[string]*Node
	factory  *Factory
	dirty    bool
	expanded bool
}

// NewNode creates an unbound node. It has no gateway and is treated as a
// placeholder by lookups until it is replaced.
func NewNode(meta Meta) *Node {
	return &Node{meta: meta, children: make(map[string]*Node)}
}

func (n *Node) placeholder() bool {
	return n == nil || n.factory == nil
}

func (n *Node) gateway() Gateway {
	if n.factory == nil {
		return nil
	}
	return n.factory.gateway
}

func (n *Node) querier() Querier {
	if n.factory == nil {
		return nil
	}
	return n.factory.querier
}

// Meta returns the node's metadata.
func (n *Node) Meta() Meta {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.meta
}

// SetMeta replaces the metadata and marks the node dirty.
func (n *Node) SetMeta(meta Meta) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.meta = meta
	n.dirty = true
}

// Edit applies fn to a copy of the metadata, stores it and marks the node dirty.
func (n *Node) Edit(fn func(*Meta)) {
	n.mu.Lock()
	defer n.mu.Unlock()
	m := n.meta
	m.Path = slices.Clone(m.Path)
	fn(&m)
	n.meta = m
	n.dirty = true
}

// Dirty reports whether the node has local edits not yet committed.
func (n *Node) Dirty() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.dirty
}

// Expanded reports whether the node has already been listed remotely.
func (n *Node) Expanded() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.expanded
}

// Keys returns the names of the known children, sorted. It never fetches.
func (n *Node) Keys() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.keysLocked()
}

func (n *Node) keysLocked() []string {
	keys := make([]string, 0, len(n.children))
	for k := range n.children {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Len returns the number of known children.
func (n *Node) Len() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.children)
}

// Set attaches child under name, replacing any previous entry.
func (n *Node) Set(name string, child *Node) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.children[name] = child
}

// Remove drops the entry for name. It does not touch the remote catalog.
func (n *Node) Remove(name string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	delete(n.children, name)
}

// List expands the node if needed and returns the child names.
func (n *Node) List(ctx context.Context) ([]string, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if err := n.expandLocked(ctx); err != nil {
		return nil, err
	}
	return n.keysLocked(), nil
}

// Child returns the child called name, expanding the node once on a miss.
// A nil entry or a placeholder counts as missing. When the name is still
// unknown after expansion the error matches errors.ErrNoSuchChild.
func (n *Node) Child(ctx context.Context, name string) (*Node, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if child := n.children[name]; !child.placeholder() {
		return child, nil
	}
	if err := n.expandLocked(ctx); err != nil {
		return nil, err
	}
	if child := n.children[name]; !child.placeholder() {
		return child, nil
	}
	return nil, errors.NewLookupError(n.describeLocked(), name)
}

// Get walks several levels of Child lookups.
func (n *Node) Get(ctx context.Context, names ...string) (*Node, error) {
	cur := n
	for _, name := range names {
		next, err := cur.Child(ctx, name)
		if err != nil {
			return nil, err
		}
		cur = next
	}
	return cur, nil
}

func (n *Node) hasLiveChildrenLocked() bool {
	for _, child := range n.children {
		if !child.placeholder() {
			return true
		}
	}
	return false
}

func (n *Node) describeLocked() string {
	if len(n.meta.Path) > 0 {
		return strings.Join(n.meta.Path, ".")
	}
	if n.meta.Name != "" {
		return n.meta.Name
	}
	return string(n.meta.Kind)
}

// expandLocked lists the node remotely unless it already has live
// children, was already expanded or is of a kind that is never listed.
func (n *Node) expandLocked(ctx context.Context) error {
	if n.expanded || !n.meta.Kind.Expandable() || n.hasLiveChildrenLocked() {
		return nil
	}
	gw := n.gateway()
	if gw == nil {
		return nil
	}

	ctx = logging.WithEntity(ctx, n.meta.ID, n.meta.Path)
	log := logging.FromContext(ctx)

	if n.meta.Kind == KindRoot {
		items, err := gw.Catalog(ctx)
		if err != nil {
			return errors.WrapResource("expand", "catalog", "", err)
		}
		built := make(map[string]*Node, len(items))
		for _, item := range items {
			name, child, err := n.factory.Create(item, 0, false)
			if err != nil {
				return err
			}
			built[name] = child
		}
		for name, child := range built {
			n.children[name] = child
		}
		n.expanded = true
		log.Debug().Int("children", len(items)).Msg("expanded catalog root")
		return nil
	}

	item, ok, err := n.fetchLocked(ctx, gw)
	if err != nil {
		return err
	}
	if ok {
		_, fresh, err := n.factory.Create(item, 0, false)
		if err != nil {
			return err
		}
		for name, child := range fresh.children {
			n.children[name] = child
		}
		n.meta = n.meta.Merge(fresh.meta)
	}
	n.expanded = true
	log.Debug().Int("children", len(n.children)).Msg("expanded catalog node")
	return nil
}

// fetchLocked fetches by id and falls back to the path only when the id is
// unknown remotely. Any other failure is returned as is.
func (n *Node) fetchLocked(ctx context.Context, gw Gateway) (Item, bool, error) {
	if n.meta.ID != "" {
		item, err := gw.ItemByID(ctx, n.meta.ID)
		if err == nil {
			return item, true, nil
		}
		if !errors.IsNotFound(err) || len(n.meta.Path) == 0 {
			return Item{}, false, errors.WrapResource("fetch", "catalog item", n.meta.ID, err)
		}
		logging.FromContext(ctx).Debug().Msg("id not found, retrying by path")
	}
	if len(n.meta.Path) == 0 {
		return Item{}, false, nil
	}
	item, err := gw.ItemByPath(ctx, n.meta.Path)
	if err != nil {
		return Item{}, false, errors.WrapResource("fetch", "catalog path", strings.Join(n.meta.Path, "/"), err)
	}
	return item, true, nil
}

// Commit pushes local edits: an update when the node has an id, otherwise
// a create without server-assigned fields. The node then adopts the
// metadata returned by the server and is no longer dirty.
func (n *Node) Commit(ctx context.Context) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if !n.dirty {
		return nil
	}
	gw := n.gateway()
	if gw == nil {
		return fmt.Errorf("commit %s: %w", n.describeLocked(), errors.ErrNotImplemented)
	}

	var (
		resp Item
		err  error
		op   = "update"
	)
	if n.meta.ID != "" {
		resp, err = gw.UpdateItem(ctx, n.meta.ID, n.meta.Payload())
	} else {
		op = "create"
		resp, err = gw.CreateItem(ctx, n.meta.CreatePayload())
	}
	if err != nil {
		return errors.WrapResource(op, "catalog item", n.describeLocked(), err)
	}

	_, fresh, err := n.factory.Create(resp, 0, false)
	if err != nil {
		return err
	}
	n.meta = fresh.meta
	for name, child := range fresh.children {
		n.children[name] = child
	}
	n.dirty = false

	logging.FromContext(ctx).Debug().
		Str("operation", op).
		Str("id", n.meta.ID).
		Str("tag", n.meta.Tag).
		Msg("committed catalog node")
	return nil
}

// Delete removes the entity remotely by id and tag. The parent still holds
// the entry; call Remove on it to forget the node locally.
func (n *Node) Delete(ctx context.Context) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.meta.ID == "" {
		return errors.NewValidationError("id", "", "cannot delete an entity that was never committed")
	}
	gw := n.gateway()
	if gw == nil {
		return fmt.Errorf("delete %s: %w", n.describeLocked(), errors.ErrNotImplemented)
	}
	if err := gw.DeleteItem(ctx, n.meta.ID, n.meta.Tag); err != nil {
		return errors.WrapResource("delete", "catalog item", n.meta.ID, err)
	}
	return nil
}

// ToJSON serializes the metadata and, when more than one child serializes,
// a children array. Children that cannot be serialized are skipped.
func (n *Node) ToJSON() ([]byte, error) {
	item, err := n.toItem()
	if err != nil {
		return nil, err
	}
	return json.Marshal(item)
}

func (n *Node) toItem() (Item, error) {
	if n == nil {
		return Item{}, errors.New("nil node")
	}
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.meta.Kind == "" {
		return Item{}, errors.New("node has no metadata")
	}
	item := n.meta.Payload()

	var children []Item
	for _, name := range n.keysLocked() {
		child, err := n.children[name].toItem()
		if err != nil {
			continue
		}
		children = append(children, child)
	}
	if len(children) > 1 {
		item.Children = children
	}
	return item, nil
}
