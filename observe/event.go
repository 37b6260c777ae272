// Package observe emits run lifecycle events (backend selected, job
// submitted, job completed or failed) to pluggable sinks. The default
// sink is a noop; an OpenTelemetry bridge lives in observe/otel.
package observe

import "time"

type Kind string

type Status string

const (
	KindRun      Kind = "run"
	KindBackend  Kind = "backend"
	KindJob      Kind = "job"
	KindRetrieve Kind = "retrieve"
	KindCustom   Kind = "custom"
)

const (
	StatusStarted   Status = "started"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Event is one step of a run's lifecycle.
type Event struct {
	ID         string         `json:"id,omitempty"`
	Timestamp  time.Time      `json:"timestamp"`
	RunID      string         `json:"runId,omitempty"`
	Kind       Kind           `json:"kind"`
	Status     Status         `json:"status,omitempty"`
	Name       string         `json:"name,omitempty"`
	Backend    string         `json:"backend,omitempty"`
	JobID      string         `json:"jobId,omitempty"`
	Message    string         `json:"message,omitempty"`
	Error      string         `json:"error,omitempty"`
	DurationMs int64          `json:"durationMs,omitempty"`
	Attributes map[string]any `json:"attributes,omitempty"`
}

func (e *Event) Normalize() {
	if e == nil {
		return
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}
	if e.Kind == "" {
		e.Kind = KindCustom
	}
	if e.Attributes == nil {
		e.Attributes = map[string]any{}
	}
}
