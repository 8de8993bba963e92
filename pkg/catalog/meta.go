package catalog

import (
	"maps"
	"slices"
)

// Meta describes a single catalog node. It is a value: edits go through
// the With* helpers or Merge, which return modified copies.
type Meta struct {
	Kind      Kind
	ID        string
	Tag       string
	Path      []string
	Name      string
	CreatedAt string

	// dataset
	DatasetType                  string
	SQL                          string
	SQLContext                   []string
	Fields                       []Field
	Format                       map[string]any
	AccelerationRefreshPolicy    *RefreshPolicy
	ApproximateStatisticsAllowed *bool

	// source
	SourceType                  string
	Config                      map[string]any
	Description                 string
	MetadataPolicy              *MetadataPolicy
	State                       *SourceState
	AccelerationGracePeriodMs   int64
	AccelerationRefreshPeriodMs int64
	AccelerationNeverExpire     bool
	AccelerationNeverRefresh    bool
}

func metaFromItem(kind Kind, item Item) Meta {
	m := Meta{
		Kind:      kind,
		ID:        item.ID,
		Tag:       item.Tag,
		Path:      slices.Clone(item.Path),
		Name:      item.Name,
		CreatedAt: item.CreatedAt,
	}

	switch {
	case kind.IsDataset():
		m.DatasetType = item.DatasetType
		if m.DatasetType == "" && item.Type != TypeDataset {
			m.DatasetType = item.Type
		}
		if item.SQL != nil {
			m.SQL = *item.SQL
		}
		m.SQLContext = slices.Clone(item.SQLContext)
		m.Fields = slices.Clone(item.Fields)
		m.Format = maps.Clone(item.Format)
		m.AccelerationRefreshPolicy = item.AccelerationRefreshPolicy
		m.ApproximateStatisticsAllowed = item.ApproximateStatisticsAllowed
	case kind == KindSource:
		if item.Type != TypeContainer {
			m.SourceType = item.Type
		}
		m.Config = maps.Clone(item.Config)
		m.Description = item.Description
		m.MetadataPolicy = item.MetadataPolicy
		m.State = item.State
		m.AccelerationGracePeriodMs = item.AccelerationGracePeriodMs
		m.AccelerationRefreshPeriodMs = item.AccelerationRefreshPeriodMs
		m.AccelerationNeverExpire = item.AccelerationNeverExpire
		m.AccelerationNeverRefresh = item.AccelerationNeverRefresh
	}
	return m
}

// Payload renders the full wire form used for updates.
func (m Meta) Payload() Item {
	it := Item{
		ID:         m.ID,
		Tag:        m.Tag,
		EntityType: m.Kind.EntityType(),
		Path:       slices.Clone(m.Path),
		Name:       m.Name,
		CreatedAt:  m.CreatedAt,
	}

	switch {
	case m.Kind.IsDataset():
		it.Type = PhysicalDatasetType
		if m.Kind == KindVirtualDataset {
			it.Type = VirtualDatasetType
			sql := m.SQL
			it.SQL = &sql
		}
		it.SQLContext = slices.Clone(m.SQLContext)
		it.Fields = slices.Clone(m.Fields)
		it.Format = maps.Clone(m.Format)
		it.AccelerationRefreshPolicy = m.AccelerationRefreshPolicy
		it.ApproximateStatisticsAllowed = m.ApproximateStatisticsAllowed
	case m.Kind == KindSource:
		it.Type = m.SourceType
		it.Config = maps.Clone(m.Config)
		it.Description = m.Description
		it.MetadataPolicy = m.MetadataPolicy
		it.State = m.State
		it.AccelerationGracePeriodMs = m.AccelerationGracePeriodMs
		it.AccelerationRefreshPeriodMs = m.AccelerationRefreshPeriodMs
		it.AccelerationNeverExpire = m.AccelerationNeverExpire
		it.AccelerationNeverRefresh = m.AccelerationNeverRefresh
	}
	return it
}

// CreatePayload is Payload without the fields the server assigns.
func (m Meta) CreatePayload() Item {
	it := m.Payload()
	it.ID = ""
	it.Tag = ""
	it.CreatedAt = ""
	it.State = nil
	return it
}

// Merge returns a copy of m where every non-empty field of other wins.
// Empty fields of other never clobber known values.
func (m Meta) Merge(other Meta) Meta {
	out := m
	setString(&out.ID, other.ID)
	setString(&out.Tag, other.Tag)
	setString(&out.Name, other.Name)
	setString(&out.CreatedAt, other.CreatedAt)
	setString(&out.DatasetType, other.DatasetType)
	setString(&out.SQL, other.SQL)
	setString(&out.SourceType, other.SourceType)
	setString(&out.Description, other.Description)
	if other.Kind != "" {
		out.Kind = other.Kind
	}
	if len(other.Path) > 0 {
		out.Path = slices.Clone(other.Path)
	}
	if len(other.SQLContext) > 0 {
		out.SQLContext = slices.Clone(other.SQLContext)
	}
	if len(other.Fields) > 0 {
		out.Fields = slices.Clone(other.Fields)
	}
	if len(other.Format) > 0 {
		out.Format = maps.Clone(other.Format)
	}
	if len(other.Config) > 0 {
		out.Config = maps.Clone(other.Config)
	}
	if other.AccelerationRefreshPolicy != nil {
		out.AccelerationRefreshPolicy = other.AccelerationRefreshPolicy
	}
	if other.ApproximateStatisticsAllowed != nil {
		out.ApproximateStatisticsAllowed = other.ApproximateStatisticsAllowed
	}
	if other.MetadataPolicy != nil {
		out.MetadataPolicy = other.MetadataPolicy
	}
	if other.State != nil {
		out.State = other.State
	}
	if other.AccelerationGracePeriodMs != 0 {
		out.AccelerationGracePeriodMs = other.AccelerationGracePeriodMs
	}
	if other.AccelerationRefreshPeriodMs != 0 {
		out.AccelerationRefreshPeriodMs = other.AccelerationRefreshPeriodMs
	}
	out.AccelerationNeverExpire = out.AccelerationNeverExpire || other.AccelerationNeverExpire
	out.AccelerationNeverRefresh = out.AccelerationNeverRefresh || other.AccelerationNeverRefresh
	return out
}

// WithID returns a copy with the remote identifier and version tag replaced.
func (m Meta) WithID(id, tag string) Meta {
	m.ID = id
	m.Tag = tag
	return m
}

// WithPath returns a copy with a new path.
func (m Meta) WithPath(path ...string) Meta {
	m.Path = slices.Clone(path)
	return m
}

// WithSQL returns a copy with new view SQL and its context.
func (m Meta) WithSQL(sql string, sqlContext ...string) Meta {
	m.SQL = sql
	m.SQLContext = slices.Clone(sqlContext)
	return m
}

// WithDescription returns a copy with a new source description.
func (m Meta) WithDescription(description string) Meta {
	m.Description = description
	return m
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
