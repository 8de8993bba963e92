package catalog

// Item is the raw catalog entity description exchanged with the coordinator.
// Only the classification fields and path/name are common to every kind; the
// rest are populated for datasets or sources.
type Item struct {
	ID            string   `json:"id,omitempty"`
	Tag           string   `json:"tag,omitempty"`
	Type          string   `json:"type,omitempty"`
	ContainerType string   `json:"containerType,omitempty"`
	EntityType    string   `json:"entityType,omitempty"`
	DatasetType   string   `json:"datasetType,omitempty"`
	Path          []string `json:"path,omitempty"`
	Name          string   `json:"name,omitempty"`
	CreatedAt     string   `json:"createdAt,omitempty"`
	Children      []Item   `json:"children,omitempty"`

	// dataset
	SQL                          *string        `json:"sql,omitempty"`
	SQLContext                   []string       `json:"sqlContext,omitempty"`
	Fields                       []Field        `json:"fields,omitempty"`
	Format                       map[string]any `json:"format,omitempty"`
	AccelerationRefreshPolicy    *RefreshPolicy `json:"accelerationRefreshPolicy,omitempty"`
	ApproximateStatisticsAllowed *bool          `json:"approximateStatisticsAllowed,omitempty"`

	// source
	Config                      map[string]any  `json:"config,omitempty"`
	Description                 string          `json:"description,omitempty"`
	MetadataPolicy              *MetadataPolicy `json:"metadataPolicy,omitempty"`
	State                       *SourceState    `json:"state,omitempty"`
	AccelerationGracePeriodMs   int64           `json:"accelerationGracePeriodMs,omitempty"`
	AccelerationRefreshPeriodMs int64           `json:"accelerationRefreshPeriodMs,omitempty"`
	AccelerationNeverExpire     bool            `json:"accelerationNeverExpire,omitempty"`
	AccelerationNeverRefresh    bool            `json:"accelerationNeverRefresh,omitempty"`
}

// Field is one column of a dataset schema.
type Field struct {
	Name string    `json:"name"`
	Type FieldType `json:"type"`
}

// FieldType describes a column type; SubSchema is set for structs and lists.
type FieldType struct {
	Name      string  `json:"name"`
	Precision *int    `json:"precision,omitempty"`
	Scale     *int    `json:"scale,omitempty"`
	SubSchema []Field `json:"subSchema,omitempty"`
}

// RefreshPolicy is a dataset's reflection refresh configuration.
type RefreshPolicy struct {
	RefreshPeriodMs int64  `json:"refreshPeriodMs,omitempty"`
	GracePeriodMs   int64  `json:"gracePeriodMs,omitempty"`
	Method          string `json:"method,omitempty"`
	RefreshField    string `json:"refreshField,omitempty"`
	NeverExpire     bool   `json:"neverExpire,omitempty"`
	NeverRefresh    bool   `json:"neverRefresh,omitempty"`
}

// MetadataPolicy controls how often a source refreshes dataset metadata.
type MetadataPolicy struct {
	AuthTTLMs             int64  `json:"authTTLMs,omitempty"`
	DatasetRefreshAfterMs int64  `json:"datasetRefreshAfterMs,omitempty"`
	DatasetExpireAfterMs  int64  `json:"datasetExpireAfterMs,omitempty"`
	NamesRefreshMs        int64  `json:"namesRefreshMs,omitempty"`
	DatasetUpdateMode     string `json:"datasetUpdateMode,omitempty"`
}

// SourceState is the health reported for a source.
type SourceState struct {
	Status   string         `json:"status,omitempty"`
	Messages []StateMessage `json:"messages,omitempty"`
}

// StateMessage is one entry of a SourceState.
type StateMessage struct {
	Level   string `json:"level,omitempty"`
	Message string `json:"message,omitempty"`
}

// Wiki is the collaboration wiki attached to an entity.
type Wiki struct {
	Text    string `json:"text"`
	Version int    `json:"version"`
}

// Tags is the collaboration tag set attached to an entity.
type Tags struct {
	Tags    []string `json:"tags"`
	Version string   `json:"version"`
}
