// Package rest is the coordinator's REST API: catalog, SQL jobs,
// collaboration data and the read-only admin endpoints. *Client satisfies
// catalog.Gateway and jobs.API.
package rest

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/agentstation/dremio/internal/transport"
	"github.com/agentstation/dremio/pkg/catalog"
	"github.com/agentstation/dremio/pkg/constants"
	"github.com/agentstation/dremio/pkg/errors"
	"github.com/agentstation/dremio/pkg/jobs"
)

// Client calls the v3 REST API through an authenticated transport.
type Client struct {
	t *transport.Client
}

// New creates a REST client.
func New(t *transport.Client) *Client {
	return &Client{t: t}
}

// Transport returns the underlying transport.
func (c *Client) Transport() *transport.Client {
	return c.t
}

type listEnvelope[T any] struct {
	Data []T `json:"data"`
}

func (c *Client) get(ctx context.Context, endpoint string, query url.Values, target any) error {
	return c.t.Do(ctx, http.MethodGet, constants.APIPrefix+endpoint, query, nil, target)
}

func list[T any](ctx context.Context, c *Client, endpoint string) ([]T, error) {
	var env listEnvelope[T]
	if err := c.get(ctx, endpoint, nil, &env); err != nil {
		return nil, err
	}
	return env.Data, nil
}

// Catalog lists the top level of the catalog.
func (c *Client) Catalog(ctx context.Context) ([]catalog.Item, error) {
	return list[catalog.Item](ctx, c, "/catalog")
}

// ItemByID fetches one catalog entity with its children.
func (c *Client) ItemByID(ctx context.Context, id string) (catalog.Item, error) {
	if id == "" {
		return catalog.Item{}, errors.NewValidationError("id", id, "required")
	}
	var item catalog.Item
	err := c.get(ctx, "/catalog/"+url.PathEscape(id), nil, &item)
	return item, err
}

// ItemByPath fetches one catalog entity by its path segments.
func (c *Client) ItemByPath(ctx context.Context, path []string) (catalog.Item, error) {
	if len(path) == 0 {
		return catalog.Item{}, errors.NewValidationError("path", path, "required")
	}
	var item catalog.Item
	err := c.get(ctx, "/catalog/by-path/"+EscapePath(path), nil, &item)
	return item, err
}

// EscapePath renders path segments for the by-path endpoint. Double quotes
// are dropped; everything else is percent-encoded per segment.
func EscapePath(path []string) string {
	parts := make([]string, len(path))
	for i, p := range path {
		parts[i] = url.PathEscape(strings.ReplaceAll(p, `"`, ""))
	}
	return strings.Join(parts, "/")
}

// CreateItem creates a catalog entity.
func (c *Client) CreateItem(ctx context.Context, item catalog.Item) (catalog.Item, error) {
	var out catalog.Item
	err := c.t.Do(ctx, http.MethodPost, constants.APIPrefix+"/catalog", nil, item, &out)
	return out, err
}

// UpdateItem replaces a catalog entity. item.Tag must be the current version.
func (c *Client) UpdateItem(ctx context.Context, id string, item catalog.Item) (catalog.Item, error) {
	var out catalog.Item
	err := c.t.Do(ctx, http.MethodPut, constants.APIPrefix+"/catalog/"+url.PathEscape(id), nil, item, &out)
	return out, err
}

// DeleteItem deletes a catalog entity at version tag.
func (c *Client) DeleteItem(ctx context.Context, id, tag string) error {
	var q url.Values
	if tag != "" {
		q = url.Values{"tag": {tag}}
	}
	return c.t.Do(ctx, http.MethodDelete, constants.APIPrefix+"/catalog/"+url.PathEscape(id), q, nil, nil)
}

// Wiki fetches the wiki of a catalog entity.
func (c *Client) Wiki(ctx context.Context, id string) (catalog.Wiki, error) {
	var w catalog.Wiki
	err := c.get(ctx, "/catalog/"+url.PathEscape(id)+"/collaboration/wiki", nil, &w)
	return w, err
}

// Tags fetches the tags of a catalog entity.
func (c *Client) Tags(ctx context.Context, id string) (catalog.Tags, error) {
	var tags catalog.Tags
	err := c.get(ctx, "/catalog/"+url.PathEscape(id)+"/collaboration/tag", nil, &tags)
	return tags, err
}

type sqlRequest struct {
	SQL     string   `json:"sql"`
	Context []string `json:"context,omitempty"`
}

type jobID struct {
	ID string `json:"id"`
}

// SubmitSQL starts a job and returns its id.
func (c *Client) SubmitSQL(ctx context.Context, sql string, sqlContext []string) (string, error) {
	var out jobID
	err := c.t.Do(ctx, http.MethodPost, constants.APIPrefix+"/sql", nil, sqlRequest{SQL: sql, Context: sqlContext}, &out)
	if err != nil {
		return "", err
	}
	if out.ID == "" {
		return "", errors.WrapParse("json", "POST /sql", errors.New("response has no job id"))
	}
	return out.ID, nil
}

// JobStatus fetches the state of a job.
func (c *Client) JobStatus(ctx context.Context, id string) (jobs.Status, error) {
	var st jobs.Status
	err := c.get(ctx, "/job/"+url.PathEscape(id), nil, &st)
	return st, err
}

// JobResults fetches one page of job results. limit is capped at 500.
func (c *Client) JobResults(ctx context.Context, id string, offset, limit int) (jobs.Page, error) {
	if limit <= 0 || limit > constants.MaxPageSize {
		limit = constants.MaxPageSize
	}
	q := url.Values{
		"offset": {strconv.Itoa(offset)},
		"limit":  {strconv.Itoa(limit)},
	}
	var page jobs.Page
	err := c.get(ctx, "/job/"+url.PathEscape(id)+"/results", q, &page)
	return page, err
}

var (
	_ catalog.Gateway = (*Client)(nil)
	_ jobs.API        = (*Client)(nil)
)
