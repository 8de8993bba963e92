// Package jobs submits SQL to the coordinator's job API, polls the job
// until it finishes and collects its paginated results.
package jobs

import (
	"context"

	"github.com/agentstation/dremio/pkg/catalog"
)

// State is the lifecycle state of a job.
type State string

// Job states reported by the coordinator.
const (
	StateNotSubmitted      State = "NOT_SUBMITTED"
	StateStarting          State = "STARTING"
	StateRunning           State = "RUNNING"
	StateCompleted         State = "COMPLETED"
	StateCanceled          State = "CANCELED"
	StateFailed            State = "FAILED"
	StateCancellationReq   State = "CANCELLATION_REQUESTED"
	StateEnqueued          State = "ENQUEUED"
	StatePlanning          State = "PLANNING"
	StatePending           State = "PENDING"
	StateMetadataRetrieval State = "METADATA_RETRIEVAL"
	StateQueued            State = "QUEUED"
	StateEngineStart       State = "ENGINE_START"
	StateExecutionPlanning State = "EXECUTION_PLANNING"
)

// Terminal reports whether no further transitions will happen.
func (s State) Terminal() bool {
	return s == StateCompleted || s == StateCanceled || s == StateFailed
}

// Status is the job description returned while polling.
type Status struct {
	JobState           State  `json:"jobState"`
	RowCount           int    `json:"rowCount"`
	ErrorMessage       string `json:"errorMessage,omitempty"`
	StartedAt          string `json:"startedAt,omitempty"`
	EndedAt            string `json:"endedAt,omitempty"`
	QueryType          string `json:"queryType,omitempty"`
	QueueName          string `json:"queueName,omitempty"`
	QueueID            string `json:"queueId,omitempty"`
	CancellationReason string `json:"cancellationReason,omitempty"`
}

// Page is one window of job results.
type Page struct {
	RowCount int              `json:"rowCount"`
	Schema   []catalog.Field  `json:"schema,omitempty"`
	Rows     []map[string]any `json:"rows"`
}

// Result is a finished job with all of its rows.
type Result struct {
	JobID  string
	Status Status
	Schema []catalog.Field
	Rows   []map[string]any
}

// API is the part of the coordinator the runner talks to.
type API interface {
	SubmitSQL(ctx context.Context, sql string, sqlContext []string) (string, error)
	JobStatus(ctx context.Context, id string) (Status, error)
	JobResults(ctx context.Context, id string, offset, limit int) (Page, error)
}
