package catalog_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/dremio/pkg/catalog"
)

func TestMetaMergeKeepsKnownFields(t *testing.T) {
	known := catalog.Meta{
		Kind:        catalog.KindSource,
		ID:          "s1",
		Tag:         "t1",
		Path:        []string{"adls"},
		Description: "lake",
		Config:      map[string]any{"root": "/data"},
	}
	fetched := catalog.Meta{
		Kind:       catalog.KindSource,
		Tag:        "t2",
		SourceType: "NAS",
		State:      &catalog.SourceState{Status: "good"},
	}

	merged := known.Merge(fetched)
	assert.Equal(t, "s1", merged.ID)
	assert.Equal(t, "t2", merged.Tag)
	assert.Equal(t, []string{"adls"}, merged.Path)
	assert.Equal(t, "lake", merged.Description)
	assert.Equal(t, "NAS", merged.SourceType)
	assert.Equal(t, "good", merged.State.Status)
	assert.Equal(t, "/data", merged.Config["root"])

	// the receiver is untouched
	assert.Equal(t, "t1", known.Tag)
	assert.Nil(t, known.State)
}

func TestMetaWithHelpersCopy(t *testing.T) {
	base := catalog.Meta{Kind: catalog.KindVirtualDataset, Path: []string{"space", "v"}}
	edited := base.WithID("d1", "t1").WithSQL("SELECT 1", "space").WithPath("space", "w")

	assert.Empty(t, base.ID)
	assert.Empty(t, base.SQL)
	assert.Equal(t, []string{"space", "v"}, base.Path)
	assert.Equal(t, "d1", edited.ID)
	assert.Equal(t, "SELECT 1", edited.SQL)
	assert.Equal(t, []string{"space"}, edited.SQLContext)
	assert.Equal(t, []string{"space", "w"}, edited.Path)
}

func TestMetaCreatePayloadStripsServerFields(t *testing.T) {
	m := catalog.Meta{
		Kind:       catalog.KindSource,
		ID:         "s1",
		Tag:        "t1",
		CreatedAt:  "2024-01-01T00:00:00Z",
		Path:       []string{"adls"},
		Name:       "adls",
		SourceType: "ADLS",
		State:      &catalog.SourceState{Status: "bad"},
	}

	full := m.Payload()
	assert.Equal(t, "s1", full.ID)
	assert.NotNil(t, full.State)

	data, err := json.Marshal(m.CreatePayload())
	require.NoError(t, err)
	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))

	for _, key := range []string{"id", "tag", "state", "createdAt"} {
		assert.NotContains(t, raw, key)
	}
	assert.Equal(t, "source", raw["entityType"])
	assert.Equal(t, "ADLS", raw["type"])
	assert.Equal(t, "adls", raw["name"])
}

func TestMetaPayloadRoundTripsThroughFactory(t *testing.T) {
	f := catalog.NewFactory(nil, nil)
	for _, m := range []catalog.Meta{
		{Kind: catalog.KindVirtualDataset, Path: []string{"s", "v"}, SQL: "SELECT 1"},
		{Kind: catalog.KindPhysicalDataset, Path: []string{"s", "p"}},
		{Kind: catalog.KindSpace, Path: []string{"s"}, Name: "s"},
		{Kind: catalog.KindFolder, Path: []string{"s", "f"}},
		{Kind: catalog.KindHome, Path: []string{"@me"}},
		{Kind: catalog.KindFile, Path: []string{"@me", "x.csv"}},
		{Kind: catalog.KindSource, Path: []string{"pg"}, SourceType: "POSTGRES"},
	} {
		_, node, err := f.Create(m.Payload(), 0, false)
		require.NoError(t, err, m.Kind)
		assert.Equal(t, m.Kind, node.Meta().Kind)
		assert.Equal(t, m.Path, node.Meta().Path)
	}
}
