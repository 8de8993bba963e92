package catalog_test

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/agentstation/dremio/pkg/catalog"
	"github.com/agentstation/dremio/pkg/errors"
)

// fakeGateway is an in-memory Gateway that records every call.
type fakeGateway struct {
	mu sync.Mutex

	root   []catalog.Item
	byID   map[string]catalog.Item
	byPath map[string]catalog.Item
	idErr  map[string]error

	catalogCalls int
	idCalls      []string
	pathCalls    []string
	created      []catalog.Item
	updated      map[string]catalog.Item
	deleted      [][2]string
	nextID       int
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		byID:    map[string]catalog.Item{},
		byPath:  map[string]catalog.Item{},
		idErr:   map[string]error{},
		updated: map[string]catalog.Item{},
	}
}

func notFound(endpoint string) error {
	return errors.NewAPIError(http.MethodGet, endpoint, http.StatusNotFound, "not found")
}

func (g *fakeGateway) Catalog(context.Context) ([]catalog.Item, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.catalogCalls++
	return g.root, nil
}

func (g *fakeGateway) ItemByID(_ context.Context, id string) (catalog.Item, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.idCalls = append(g.idCalls, id)
	if err, ok := g.idErr[id]; ok {
		return catalog.Item{}, err
	}
	item, ok := g.byID[id]
	if !ok {
		return catalog.Item{}, notFound("/api/v3/catalog/" + id)
	}
	return item, nil
}

func (g *fakeGateway) ItemByPath(_ context.Context, path []string) (catalog.Item, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	key := strings.Join(path, "/")
	g.pathCalls = append(g.pathCalls, key)
	item, ok := g.byPath[key]
	if !ok {
		return catalog.Item{}, notFound("/api/v3/catalog/by-path/" + key)
	}
	return item, nil
}

func (g *fakeGateway) CreateItem(_ context.Context, item catalog.Item) (catalog.Item, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.created = append(g.created, item)
	g.nextID++
	item.ID = fmt.Sprintf("new-%d", g.nextID)
	item.Tag = "v1"
	return item, nil
}

func (g *fakeGateway) UpdateItem(_ context.Context, id string, item catalog.Item) (catalog.Item, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.updated[id] = item
	item.Tag = "v2"
	return item, nil
}

func (g *fakeGateway) DeleteItem(_ context.Context, id, tag string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.deleted = append(g.deleted, [2]string{id, tag})
	return nil
}

func (g *fakeGateway) Wiki(_ context.Context, id string) (catalog.Wiki, error) {
	return catalog.Wiki{Text: "# " + id, Version: 1}, nil
}

func (g *fakeGateway) Tags(_ context.Context, id string) (catalog.Tags, error) {
	return catalog.Tags{Tags: []string{"gold"}, Version: id}, nil
}

func (g *fakeGateway) idCallCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.idCalls)
}

// recordingQuerier returns canned rows and remembers the statements it ran.
type recordingQuerier struct {
	mu   sync.Mutex
	sqls []string
	rows []map[string]any
}

func (q *recordingQuerier) Query(_ context.Context, sql string) ([]map[string]any, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.sqls = append(q.sqls, sql)
	return q.rows, nil
}

func strPtr(s string) *string { return &s }
