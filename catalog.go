package dremio

import (
	"context"

	"github.com/agentstation/dremio/pkg/catalog"
	"github.com/agentstation/dremio/pkg/errors"
)

// Catalog lists the top-level entities (spaces, sources and homes)
// without building the tree.
func (c *Client) Catalog(ctx context.Context) ([]catalog.Item, error) {
	ctx = c.ctx(ctx)
	if err := c.ensureLogin(ctx); err != nil {
		return nil, err
	}
	return c.rest.Catalog(ctx)
}

// CatalogItem fetches one entity by id, or by path when id is empty.
func (c *Client) CatalogItem(ctx context.Context, id string, path []string) (catalog.Item, error) {
	ctx = c.ctx(ctx)
	if id == "" && len(path) == 0 {
		return catalog.Item{}, errors.NewValidationError("id", "", "an id or a path is required")
	}
	if err := c.ensureLogin(ctx); err != nil {
		return catalog.Item{}, err
	}
	if id != "" {
		return c.rest.ItemByID(ctx, id)
	}
	return c.rest.ItemByPath(ctx, path)
}

// Wiki returns the wiki of the entity with the given id.
func (c *Client) Wiki(ctx context.Context, id string) (catalog.Wiki, error) {
	ctx = c.ctx(ctx)
	if err := c.ensureLogin(ctx); err != nil {
		return catalog.Wiki{}, err
	}
	return c.rest.Wiki(ctx, id)
}

// Tags returns the tags of the dataset with the given id.
func (c *Client) Tags(ctx context.Context, id string) (catalog.Tags, error) {
	ctx = c.ctx(ctx)
	if err := c.ensureLogin(ctx); err != nil {
		return catalog.Tags{}, err
	}
	return c.rest.Tags(ctx, id)
}

// RefreshMetadata forces a metadata refresh of the physical dataset at path.
func (c *Client) RefreshMetadata(ctx context.Context, path []string) error {
	ctx = c.ctx(ctx)
	if err := c.ensureLogin(ctx); err != nil {
		return err
	}
	return c.runner.RefreshMetadata(ctx, path)
}
