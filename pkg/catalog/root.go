package catalog

import (
	"context"
	"slices"

	"github.com/agentstation/dremio/pkg/errors"
	"github.com/agentstation/dremio/pkg/logging"
)

// Root is the top of a catalog tree. It lists itself with Gateway.Catalog
// and is where new top-level or nested entities are attached.
type Root struct {
	*Node
}

// NewRoot creates an empty, unexpanded root bound to factory.
func NewRoot(factory *Factory) *Root {
	return &Root{Node: factory.newNode(Meta{Kind: KindRoot})}
}

// Factory returns the factory the tree was built with.
func (r *Root) Factory() *Factory {
	return r.factory
}

// Add builds item without trimming and attaches it under its derived name.
func (r *Root) Add(item Item) (string, *Node, error) {
	name, node, err := r.factory.Create(item, 0, false)
	if err != nil {
		return "", nil, err
	}
	if name == "" {
		return "", nil, errors.NewValidationError("name", item.Name, "item has neither a path nor a name")
	}
	r.Set(name, node)
	return name, node, nil
}

// AddByPath inserts item at its full path, dirty and ready to Commit.
//
// With newEntity the id and tag of item are ignored so the node commits as
// a create. Every directory component of the path must already resolve
// unless the item is a physical dataset, in which case missing components
// become local folder nodes. For other kinds a missing component fails
// with an error matching errors.ErrPathNotFound.
func (r *Root) AddByPath(ctx context.Context, item Item, newEntity bool) (*Node, error) {
	if len(item.Path) == 0 {
		return nil, errors.NewValidationError("path", nil, "item has no path")
	}
	kind, err := Classify(item)
	if err != nil {
		return nil, err
	}

	build := item
	if newEntity {
		build.ID = ""
		build.Tag = ""
	}

	ctx = logging.WithOperation(ctx, "add_by_path")
	log := logging.FromContext(ctx)

	dirs := item.Path[:len(item.Path)-1]
	cur := r.Node
	for i, segment := range dirs {
		name := Sanitize(segment)
		next, err := cur.Child(ctx, name)
		switch {
		case err == nil:
			cur = next
			continue
		case !errors.IsNoSuchChild(err) && !errors.IsNotFound(err):
			return nil, err
		case kind != KindPhysicalDataset:
			return nil, &errors.PathNotFoundError{Path: slices.Clone(item.Path), Missing: segment}
		}

		folder := r.factory.newNode(Meta{Kind: KindFolder, Path: slices.Clone(item.Path[:i+1])})
		folder.expanded = true
		cur.Set(name, folder)
		cur = folder
		log.Debug().Strs("path", item.Path[:i+1]).Msg("created intermediate folder")
	}

	name, node, err := r.factory.Create(build, len(item.Path)-1, true)
	if err != nil {
		return nil, err
	}
	cur.Set(name, node)
	return node, nil
}
