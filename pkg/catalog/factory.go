package catalog

import (
	"context"

	"github.com/agentstation/dremio/pkg/errors"
)

// Gateway is the remote catalog API a tree is populated from.
type Gateway interface {
	// Catalog lists the top level entities.
	Catalog(ctx context.Context) ([]Item, error)
	ItemByID(ctx context.Context, id string) (Item, error)
	ItemByPath(ctx context.Context, path []string) (Item, error)
	CreateItem(ctx context.Context, item Item) (Item, error)
	UpdateItem(ctx context.Context, id string, item Item) (Item, error)
	DeleteItem(ctx context.Context, id, tag string) error
	Wiki(ctx context.Context, id string) (Wiki, error)
	Tags(ctx context.Context, id string) (Tags, error)
}

// Querier runs SQL and returns rows keyed by column name.
type Querier interface {
	Query(ctx context.Context, sql string) ([]map[string]any, error)
}

// Factory classifies raw items and builds nodes bound to one gateway and
// querier. Every node it builds, and every node those nodes later build,
// shares the same collaborators.
type Factory struct {
	gateway Gateway
	querier Querier
}

// NewFactory creates a factory. Either collaborator may be nil, in which
// case nodes never expand or cannot run SQL respectively.
func NewFactory(gateway Gateway, querier Querier) *Factory {
	return &Factory{gateway: gateway, querier: querier}
}

// Classify decides the entity kind of item.
func Classify(item Item) (Kind, error) {
	switch item.Type {
	case TypeContainer:
		switch item.ContainerType {
		case ContainerHome:
			return KindHome, nil
		case ContainerSpace:
			return KindSpace, nil
		case ContainerSource:
			return KindSource, nil
		case ContainerFolder:
			return KindFolder, nil
		}
	case TypeDataset:
		return datasetKind(item), nil
	case TypeFile:
		return KindFile, nil
	}

	switch item.EntityType {
	case "source":
		return KindSource, nil
	case "folder":
		return KindFolder, nil
	case "home":
		return KindHome, nil
	case "space":
		return KindSpace, nil
	case "dataset":
		return datasetKind(item), nil
	case "file":
		return KindFile, nil
	}

	return "", &errors.UnsupportedEntityError{
		Type:          item.Type,
		ContainerType: item.ContainerType,
		EntityType:    item.EntityType,
	}
}

func datasetKind(item Item) Kind {
	if item.SQL != nil {
		return KindVirtualDataset
	}
	return KindPhysicalDataset
}

// Create builds the node for item and returns it with its derived name.
// Children carried by item are built recursively and are never dirty.
func (f *Factory) Create(item Item, trimPath int, dirty bool) (string, *Node, error) {
	kind, err := Classify(item)
	if err != nil {
		return "", nil, err
	}

	node := f.newNode(metaFromItem(kind, item))
	node.dirty = dirty

	childTrim := len(item.Path)
	if childTrim == 0 {
		childTrim = 1
	}
	for _, raw := range item.Children {
		name, child, err := f.Create(raw, childTrim, false)
		if err != nil {
			return "", nil, err
		}
		node.children[name] = child
	}

	return DeriveName(item, trimPath), node, nil
}

func (f *Factory) newNode(meta Meta) *Node {
	return &Node{
		meta:     meta,
		children: make(map[string]*Node),
		factory:  f,
	}
}
