package catalog

import (
	"context"
	"fmt"

	"github.com/agentstation/dremio/pkg/errors"
	"github.com/agentstation/dremio/pkg/logging"
)

// SQL runs q through the node's querier.
func (n *Node) SQL(ctx context.Context, q string) ([]map[string]any, error) {
	qr := n.querier()
	if qr == nil {
		return nil, fmt.Errorf("run sql: %w", errors.ErrNotImplemented)
	}
	return qr.Query(ctx, q)
}

// Query selects every row of the dataset.
func (n *Node) Query(ctx context.Context) ([]map[string]any, error) {
	meta, err := n.datasetMeta()
	if err != nil {
		return nil, err
	}
	return n.SQL(ctx, "SELECT * FROM "+QuotePath(meta.Path))
}

// RefreshMetadata forces the coordinator to re-read the dataset's metadata.
func (n *Node) RefreshMetadata(ctx context.Context) error {
	meta, err := n.datasetMeta()
	if err != nil {
		return err
	}
	ctx = logging.WithEntity(ctx, meta.ID, meta.Path)
	_, err = n.SQL(ctx, RefreshMetadataSQL(meta.Path))
	if err != nil {
		return errors.WrapResource("refresh", "dataset metadata", meta.ID, err)
	}
	logging.FromContext(ctx).Debug().Msg("refreshed dataset metadata")
	return nil
}

// RefreshMetadataSQL is the statement that refreshes a physical dataset.
func RefreshMetadataSQL(path []string) string {
	return "ALTER PDS " + QuotePath(path) + " REFRESH METADATA FORCE UPDATE"
}

func (n *Node) datasetMeta() (Meta, error) {
	meta := n.Meta()
	if !meta.Kind.IsDataset() {
		return meta, errors.NewValidationError("kind", meta.Kind, "not a dataset")
	}
	if len(meta.Path) == 0 {
		return meta, errors.NewValidationError("path", nil, "dataset has no path")
	}
	return meta, nil
}

// Wiki fetches the collaboration wiki of the entity.
func (n *Node) Wiki(ctx context.Context) (Wiki, error) {
	meta := n.Meta()
	gw := n.gateway()
	if gw == nil || meta.ID == "" {
		return Wiki{}, errors.NewValidationError("id", meta.ID, "entity is not bound to a remote id")
	}
	return gw.Wiki(ctx, meta.ID)
}

// Tags fetches the collaboration tags of the entity.
func (n *Node) Tags(ctx context.Context) (Tags, error) {
	meta := n.Meta()
	gw := n.gateway()
	if gw == nil || meta.ID == "" {
		return Tags{}, errors.NewValidationError("id", meta.ID, "entity is not bound to a remote id")
	}
	return gw.Tags(ctx, meta.ID)
}
