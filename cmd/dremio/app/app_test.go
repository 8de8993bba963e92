package app

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/dremio"
	"github.com/agentstation/dremio/internal/config"
	"github.com/agentstation/dremio/internal/testserver"
	"github.com/agentstation/dremio/pkg/catalog"
	"github.com/agentstation/dremio/pkg/errors"
	"github.com/agentstation/dremio/pkg/rest"
)

func testConfig() *config.Config {
	return &config.Config{
		Hostname:     "127.0.0.1",
		Port:         9047,
		Verify:       true,
		Auth:         config.Auth{Type: "basic", Username: testserver.Username, Password: testserver.Password},
		PollInterval: time.Millisecond,
		LogOutput:    "discard",
	}
}

// run executes args against srv and returns stdout.
func run(t *testing.T, srv *testserver.Server, args ...string) (string, error) {
	t.Helper()
	a, err := New("1.2.3", "abc", "today", "test",
		WithConfig(testConfig()),
		WithClientOptions(dremio.WithBaseURL(srv.URL)),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Shutdown(t.Context()) })

	var out bytes.Buffer
	cmd := a.createRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err = cmd.ExecuteContext(t.Context())
	return out.String(), err
}

func seed(srv *testserver.Server) string {
	srv.AddItem(catalog.Item{EntityType: "source", Type: "S3", Path: []string{"adls"}})
	srv.AddItem(catalog.Item{EntityType: "folder", Path: []string{"adls", "nyctaxi"}})
	id := srv.AddItem(catalog.Item{EntityType: "dataset", Type: catalog.PhysicalDatasetType, Path: []string{"adls", "nyctaxi", "trips"}})
	srv.JobRows = []map[string]any{{"fare": 12.5, "vendor": "cmt"}}
	return id
}

func TestVersion(t *testing.T) {
	srv := testserver.New(t)
	out, err := run(t, srv, "version", "-v")
	require.NoError(t, err)
	assert.Contains(t, out, "dremio 1.2.3")
	assert.Contains(t, out, "commit:   abc")
}

func TestQueryCommandJSON(t *testing.T) {
	srv := testserver.New(t)
	seed(srv)

	out, err := run(t, srv, "query", "-o", "json", "SELECT", "*", "FROM", "trips")
	require.NoError(t, err)

	var rows []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "cmt", rows[0]["vendor"])
	assert.Equal(t, 1, srv.Calls("POST /api/v3/sql"))
}

func TestSQLCommandTable(t *testing.T) {
	srv := testserver.New(t)
	seed(srv)

	out, err := run(t, srv, "sql", "-o", "table", "--context", "adls.nyctaxi", "SELECT * FROM trips")
	require.NoError(t, err)
	assert.Contains(t, out, "12.5")
	assert.Contains(t, out, "cmt")
}

func TestCatalogCommands(t *testing.T) {
	srv := testserver.New(t)
	id := seed(srv)

	out, err := run(t, srv, "catalog", "-o", "json")
	require.NoError(t, err)
	var items []catalog.Item
	require.NoError(t, json.Unmarshal([]byte(out), &items))
	require.Len(t, items, 1)
	assert.Equal(t, []string{"adls"}, items[0].Path)

	out, err = run(t, srv, "catalog-item", "-o", "json", "adls.nyctaxi.trips")
	require.NoError(t, err)
	var item catalog.Item
	require.NoError(t, json.Unmarshal([]byte(out), &item))
	assert.Equal(t, id, item.ID)

	out, err = run(t, srv, "ls", "-o", "table", "adls", "nyctaxi")
	require.NoError(t, err)
	assert.Contains(t, out, "trips")
	assert.Contains(t, out, "physical_dataset")

	_, err = run(t, srv, "ls", "adls", "missing")
	assert.True(t, errors.IsNoSuchChild(err))

	_, err = run(t, srv, "catalog-item")
	assert.True(t, errors.IsValidationError(err))

	out, err = run(t, srv, "tags", "-o", "json", id)
	require.NoError(t, err)
	assert.Contains(t, out, "test")
}

func TestJobCommands(t *testing.T) {
	srv := testserver.New(t)
	seed(srv)

	out, err := run(t, srv, "sql", "-o", "json", "SELECT 1")
	require.NoError(t, err)
	require.NotEmpty(t, out)

	// the job id is only logged, so submit through the client directly
	c, err := dremio.New(dremio.WithBaseURL(srv.URL), dremio.WithoutFlight(), dremio.WithPollInterval(time.Millisecond))
	require.NoError(t, err)
	res, err := c.SQL(t.Context(), "SELECT 2")
	require.NoError(t, err)

	out, err = run(t, srv, "job-status", "-o", "json", res.JobID)
	require.NoError(t, err)
	assert.Contains(t, out, "COMPLETED")

	out, err = run(t, srv, "job-results", "-o", "json", "--limit", "1", res.JobID)
	require.NoError(t, err)
	assert.Contains(t, out, "cmt")
}

func TestReflectionsCommand(t *testing.T) {
	srv := testserver.New(t)
	srv.SetFixture("/reflection", map[string]any{"data": []rest.Reflection{{ID: "r1", Name: "raw", Enabled: true}}})

	out, err := run(t, srv, "reflections", "-o", "wide")
	require.NoError(t, err)
	assert.Contains(t, out, "raw")
	assert.Contains(t, out, "true")
}

func TestBadCredentials(t *testing.T) {
	srv := testserver.New(t)
	cfg := testConfig()
	cfg.Auth.Password = "wrong"
	a, err := New("dev", "", "", "", WithConfig(cfg), WithClientOptions(dremio.WithBaseURL(srv.URL)))
	require.NoError(t, err)

	err = a.Execute(t.Context(), []string{"catalog"})
	assert.True(t, errors.IsUnauthorized(err))
}

func TestInvalidFormatFlag(t *testing.T) {
	srv := testserver.New(t)
	_, err := run(t, srv, "catalog", "-o", "xml")
	assert.True(t, errors.IsValidationError(err))
}

func TestDetermineLogLevel(t *testing.T) {
	assert.Equal(t, "info", determineLogLevel(&config.Config{}))
	assert.Equal(t, "debug", determineLogLevel(&config.Config{Verbose: true}))
	assert.Equal(t, "error", determineLogLevel(&config.Config{Quiet: true}))
	assert.Equal(t, "warn", determineLogLevel(&config.Config{LogLevel: "warn", Verbose: true}))
	assert.Equal(t, "info", determineLogLevel(&config.Config{LogLevel: "loud"}))
}
