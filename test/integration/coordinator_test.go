// Package integration runs against a live coordinator. Set
// DREMIO_INTEGRATION=1 plus the usual DREMIO_* connection variables.
package integration

import (
	"os"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/dremio"
	"github.com/agentstation/dremio/pkg/catalog"
	"github.com/agentstation/dremio/pkg/errors"
)

func liveClient(t *testing.T) *dremio.Client {
	t.Helper()
	if os.Getenv("DREMIO_INTEGRATION") == "" {
		t.Skip("set DREMIO_INTEGRATION=1 to run against a live coordinator")
	}

	opts := []dremio.Option{}
	if host := os.Getenv("DREMIO_HOSTNAME"); host != "" {
		port, _ := strconv.Atoi(os.Getenv("DREMIO_PORT"))
		if port == 0 {
			port = 9047
		}
		opts = append(opts, dremio.WithHost(host, port))
	}
	if user := os.Getenv("DREMIO_AUTH_USERNAME"); user != "" {
		opts = append(opts, dremio.WithBasicAuth(user, os.Getenv("DREMIO_AUTH_PASSWORD")))
	}
	if token := os.Getenv("DREMIO_AUTH_TOKEN"); token != "" {
		opts = append(opts, dremio.WithToken(token))
	}

	c, err := dremio.New(opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestLiveCatalog(t *testing.T) {
	c := liveClient(t)
	ctx := t.Context()

	root, err := c.Data(ctx)
	require.NoError(t, err)
	names, err := root.List(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, names, "a fresh install still has a home space")

	_, err = root.Child(ctx, "definitely_not_a_space_name")
	assert.True(t, errors.IsNoSuchChild(err))
}

func TestLiveQuery(t *testing.T) {
	c := liveClient(t)

	rows, err := c.Query(t.Context(), "SELECT 1 AS one")
	require.NoError(t, err)
	require.Len(t, rows, 1)

	res, err := c.SQL(t.Context(), "SELECT 1 AS one")
	require.NoError(t, err)
	assert.Len(t, res.Rows, 1)
}

func TestLiveSpaceRoundTrip(t *testing.T) {
	c := liveClient(t)
	ctx := t.Context()

	root, err := c.Data(ctx)
	require.NoError(t, err)

	space, err := root.AddByPath(ctx, catalog.Item{EntityType: "space", Path: []string{"integration_scratch"}}, true)
	require.NoError(t, err)
	require.NoError(t, space.Commit(ctx))
	assert.NotEmpty(t, space.Meta().ID)
	require.NoError(t, space.Delete(ctx))
}
