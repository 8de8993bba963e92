package rest_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/dremio/internal/testserver"
	"github.com/agentstation/dremio/internal/transport"
	"github.com/agentstation/dremio/pkg/catalog"
	"github.com/agentstation/dremio/pkg/errors"
	"github.com/agentstation/dremio/pkg/jobs"
	"github.com/agentstation/dremio/pkg/rest"
)

func loggedIn(t *testing.T) (*testserver.Server, *rest.Client) {
	t.Helper()
	srv := testserver.New(t)
	tr := transport.New(srv.URL, &transport.SessionAuth{})
	_, err := rest.Login(t.Context(), tr, testserver.Username, testserver.Password)
	require.NoError(t, err)
	return srv, rest.New(tr)
}

func TestLogin(t *testing.T) {
	srv := testserver.New(t)
	tr := transport.New(srv.URL, &transport.SessionAuth{})

	token, err := rest.Login(t.Context(), tr, testserver.Username, testserver.Password)
	require.NoError(t, err)
	assert.Equal(t, srv.Token(), token)
	assert.Equal(t, token, tr.Token())

	_, err = rest.Login(t.Context(), tr, testserver.Username, "wrong")
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrUnauthorized)

	_, err = rest.Login(t.Context(), tr, "", "x")
	assert.True(t, errors.IsValidationError(err))
}

func TestUnauthenticatedRequests(t *testing.T) {
	srv := testserver.New(t)
	c := rest.New(transport.New(srv.URL, &transport.SessionAuth{}, transport.WithToken("bogus")))

	_, err := c.Catalog(t.Context())
	assert.ErrorIs(t, err, errors.ErrUnauthorized)
}

func TestPersonalAccessToken(t *testing.T) {
	srv := testserver.New(t)
	srv.AddItem(catalog.Item{EntityType: "space", Path: []string{"sales"}})
	c := rest.New(transport.New(srv.URL, &transport.BearerAuth{}, transport.WithToken(testserver.PAT)))

	items, err := c.Catalog(t.Context())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "CONTAINER", items[0].Type)
	assert.Equal(t, "SPACE", items[0].ContainerType)
}

func TestCatalogEndpoints(t *testing.T) {
	srv, c := loggedIn(t)
	srcID := srv.AddItem(catalog.Item{EntityType: "source", Type: "NAS", Path: []string{"nas"}})
	srv.AddItem(catalog.Item{EntityType: "folder", Path: []string{"nas", "nyc taxi"}})
	ctx := t.Context()

	byID, err := c.ItemByID(ctx, srcID)
	require.NoError(t, err)
	assert.Equal(t, "NAS", byID.Type)
	require.Len(t, byID.Children, 1)
	assert.Equal(t, []string{"nas", "nyc taxi"}, byID.Children[0].Path)

	byPath, err := c.ItemByPath(ctx, []string{"nas", `"nyc taxi"`})
	require.NoError(t, err)
	assert.Equal(t, "folder", byPath.EntityType)

	_, err = c.ItemByID(ctx, "missing")
	assert.ErrorIs(t, err, errors.ErrNotFound)
	_, err = c.ItemByPath(ctx, []string{"nas", "nope"})
	assert.ErrorIs(t, err, errors.ErrNotFound)
	_, err = c.ItemByPath(ctx, nil)
	assert.True(t, errors.IsValidationError(err))
}

func TestCreateUpdateDelete(t *testing.T) {
	srv, c := loggedIn(t)
	ctx := t.Context()

	sql := "SELECT 1"
	created, err := c.CreateItem(ctx, catalog.Item{
		EntityType: "dataset",
		Type:       catalog.VirtualDatasetType,
		Path:       []string{"space", "view"},
		SQL:        &sql,
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	assert.Equal(t, "1", created.Tag)

	newSQL := "SELECT 2"
	created.SQL = &newSQL
	updated, err := c.UpdateItem(ctx, created.ID, created)
	require.NoError(t, err)
	assert.Equal(t, "2", updated.Tag)

	// stale tag
	_, err = c.UpdateItem(ctx, created.ID, created)
	assert.ErrorIs(t, err, errors.ErrUnknown)

	require.NoError(t, c.DeleteItem(ctx, created.ID, updated.Tag))
	_, ok := srv.Item(created.ID)
	assert.False(t, ok)

	_, err = c.CreateItem(ctx, catalog.Item{ID: "x", EntityType: "space", Path: []string{"s"}})
	assert.ErrorIs(t, err, errors.ErrBadRequest)
}

func TestCollaboration(t *testing.T) {
	srv, c := loggedIn(t)
	dsID := srv.AddItem(catalog.Item{EntityType: "dataset", Type: catalog.PhysicalDatasetType, Path: []string{"s3", "t"}})
	spaceID := srv.AddItem(catalog.Item{EntityType: "space", Path: []string{"sp"}})

	wiki, err := c.Wiki(t.Context(), dsID)
	require.NoError(t, err)
	assert.Equal(t, "# "+dsID, wiki.Text)

	tags, err := c.Tags(t.Context(), dsID)
	require.NoError(t, err)
	assert.Equal(t, []string{"test"}, tags.Tags)

	_, err = c.Tags(t.Context(), spaceID)
	assert.ErrorIs(t, err, errors.ErrBadRequest)
}

func TestJobEndpoints(t *testing.T) {
	srv, c := loggedIn(t)
	srv.JobStates = []jobs.State{jobs.StateRunning, jobs.StateCompleted}
	srv.JobRows = []map[string]any{{"n": 1.0}, {"n": 2.0}, {"n": 3.0}}
	ctx := t.Context()

	id, err := c.SubmitSQL(ctx, "SELECT n FROM t", []string{"space"})
	require.NoError(t, err)

	st, err := c.JobStatus(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, jobs.StateRunning, st.JobState)
	st, err = c.JobStatus(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, jobs.StateCompleted, st.JobState)
	assert.Equal(t, 3, st.RowCount)

	page, err := c.JobResults(ctx, id, 1, 100)
	require.NoError(t, err)
	assert.Equal(t, []map[string]any{{"n": 2.0}, {"n": 3.0}}, page.Rows)

	// out of range limits are clamped
	page, err = c.JobResults(ctx, id, 0, 10_000)
	require.NoError(t, err)
	assert.Len(t, page.Rows, 3)

	_, err = c.SubmitSQL(ctx, "", nil)
	assert.ErrorIs(t, err, errors.ErrBadRequest)
}

func TestAdminEndpoints(t *testing.T) {
	srv, c := loggedIn(t)
	ctx := t.Context()
	srv.SetFixture("/reflection", map[string]any{"data": []rest.Reflection{{ID: "r1", Name: "raw", DatasetID: "d1", Enabled: true}}})
	srv.SetFixture("/reflection/summary", map[string]any{"data": []rest.Reflection{{ID: "r1"}, {ID: "r2"}}})
	srv.SetFixture("/reflection/r1", rest.Reflection{ID: "r1", Status: rest.ReflectionStatus{Availability: "AVAILABLE"}})
	srv.SetFixture("/wlm/queue", map[string]any{"data": []rest.Queue{{ID: "q1", Name: "High Cost"}}})
	srv.SetFixture("/wlm/rule", map[string]any{"rules": []rest.Rule{{Name: "ui", AcceptName: "UI Previews"}}})
	srv.SetFixture("/vote", map[string]any{"data": []rest.Vote{{ID: "v1", Votes: 3}}})
	srv.SetFixture("/user/u1", rest.User{ID: "u1", Name: "dremio"})
	srv.SetFixture("/user/by-name/dremio", rest.User{ID: "u1", Name: "dremio"})
	srv.SetFixture("/group/by-name/admins", rest.Group{ID: "g1", Name: "admins"})
	srv.SetFixture("/user/u1/token", map[string]any{"data": []rest.AccessToken{{ID: "t1", Label: "ci"}}})

	refl, err := c.Reflections(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, "raw", refl[0].Name)
	summary, err := c.Reflections(ctx, true)
	require.NoError(t, err)
	assert.Len(t, summary, 2)
	one, err := c.Reflection(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, "AVAILABLE", one.Status.Availability)

	queues, err := c.Queues(ctx)
	require.NoError(t, err)
	assert.Equal(t, "High Cost", queues[0].Name)
	rules, err := c.Rules(ctx)
	require.NoError(t, err)
	assert.Equal(t, "UI Previews", rules[0].AcceptName)
	votes, err := c.Votes(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, votes[0].Votes)

	u, err := c.User(ctx, "u1", "")
	require.NoError(t, err)
	assert.Equal(t, "dremio", u.Name)
	u, err = c.User(ctx, "", "dremio")
	require.NoError(t, err)
	assert.Equal(t, "u1", u.ID)
	g, err := c.Group(ctx, "", "admins")
	require.NoError(t, err)
	assert.Equal(t, "g1", g.ID)
	_, err = c.Group(ctx, "", "")
	assert.True(t, errors.IsValidationError(err))

	tokens, err := c.AccessTokens(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "ci", tokens[0].Label)
}

func TestEscapePath(t *testing.T) {
	assert.Equal(t, "a/nyc%20taxi/b%2Fc", rest.EscapePath([]string{"a", `"nyc taxi"`, "b/c"}))
}

func TestTreeOverREST(t *testing.T) {
	srv, c := loggedIn(t)
	srv.AddItem(catalog.Item{EntityType: "source", Type: "S3", Path: []string{"adls"}})
	srv.AddItem(catalog.Item{EntityType: "folder", Path: []string{"adls", "nyctaxi"}})
	srv.AddItem(catalog.Item{EntityType: "dataset", Type: catalog.PhysicalDatasetType, Path: []string{"adls", "nyctaxi", "trips"}})

	root := catalog.NewRoot(catalog.NewFactory(c, nil))
	trips, err := root.Get(t.Context(), "adls", "nyctaxi", "trips")
	require.NoError(t, err)
	assert.Equal(t, catalog.KindPhysicalDataset, trips.Meta().Kind)

	assert.Equal(t, 1, srv.Calls("GET /api/v3/catalog"))
	assert.Equal(t, 2, srv.Calls("GET /api/v3/catalog/{id}"))
	assert.Zero(t, srv.Calls("GET /api/v3/catalog/by-path/*"))

	space, err := root.AddByPath(t.Context(), catalog.Item{EntityType: "space", Path: []string{"scratch"}}, true)
	require.NoError(t, err)
	require.NoError(t, space.Commit(t.Context()))
	assert.NotEmpty(t, space.Meta().ID)
	assert.False(t, space.Dirty())
}
