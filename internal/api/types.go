package api

import (
	"context"
	"fmt"
	"time"

	"raccoon/pkg/logging"
)

// RunState is the lifecycle state of a workflow run as reported by the
// tracking service. The same enumeration is used for the state derived from
// cluster resources so that both views can be compared by equality.
type RunState string

const (
	RunStateUnknown       RunState = "UNKNOWN"
	RunStateQueued        RunState = "QUEUED"
	RunStateInitializing  RunState = "INITIALIZING"
	RunStateRunning       RunState = "RUNNING"
	RunStatePaused        RunState = "PAUSED"
	RunStateCanceling     RunState = "CANCELING"
	RunStateCanceled      RunState = "CANCELED"
	RunStateComplete      RunState = "COMPLETE"
	RunStateExecutorError RunState = "EXECUTOR_ERROR"
	RunStateSystemError   RunState = "SYSTEM_ERROR"
)

var knownRunStates = map[RunState]bool{
	RunStateUnknown:       true,
	RunStateQueued:        true,
	RunStateInitializing:  true,
	RunStateRunning:       true,
	RunStatePaused:        true,
	RunStateCanceling:     true,
	RunStateCanceled:      true,
	RunStateComplete:      true,
	RunStateExecutorError: true,
	RunStateSystemError:   true,
}

// ParseRunState converts a wire value into a RunState.
func ParseRunState(s string) (RunState, error) {
	state := RunState(s)
	if !knownRunStates[state] {
		return "", fmt.Errorf("unknown run state %q", s)
	}
	return state, nil
}

// WireValue returns the string sent to the notification endpoint.
func (s RunState) WireValue() string {
	return string(s)
}

// UnmarshalText implements encoding.TextUnmarshaler so run states can be
// decoded directly from registry responses.
func (s *RunState) UnmarshalText(text []byte) error {
	state, err := ParseRunState(string(text))
	if err != nil {
		return err
	}
	*s = state
	return nil
}

// ActiveRun is a run the tracking service believes is still live.
// It only exists for the duration of one reconciliation pass.
type ActiveRun struct {
	RunID       string
	SessionID   *string
	WorkflowURL string
	State       RunState
	StartTime   *time.Time
}

// ResourceKind identifies the class of cluster object that belongs to a run.
type ResourceKind string

const (
	// ResourceKindPod is the run execution pod.
	ResourceKindPod ResourceKind = "Pod"

	// ResourceKindConfigMap is the per-run configuration object.
	ResourceKindConfigMap ResourceKind = "ConfigMap"
)

// ResourceRef identifies a single cluster object.
type ResourceRef struct {
	Kind    ResourceKind `json:"kind"`
	Cluster string       `json:"cluster"`
	ID      string       `json:"id"`
}

// String returns kind/cluster/id.
func (r ResourceRef) String() string {
	if r.Cluster == "" {
		return string(r.Kind) + "/" + r.ID
	}
	return string(r.Kind) + "/" + r.Cluster + "/" + r.ID
}

// ResourceRecord is an immutable snapshot of one live cluster resource.
type ResourceRecord struct {
	ResourceRef

	// State is the run state derived from the resource's native phase.
	State RunState

	// Age is the timestamp retention decisions are based on.
	Age time.Time

	// LogSnippet holds already-fetched log output, if any.
	LogSnippet string

	// LogLoader fetches the log snippet on demand. Optional.
	LogLoader func(ctx context.Context) (string, error)
}

// Logs returns the resource's log snippet, loading it through LogLoader when
// one is set. A load failure falls back to LogSnippet.
func (r ResourceRecord) Logs(ctx context.Context) string {
	if r.LogLoader == nil {
		return r.LogSnippet
	}
	logs, err := r.LogLoader(ctx)
	if err != nil {
		logging.Warn("Inventory", "Failed to load logs for %s: %v", r.ResourceRef, err)
		return r.LogSnippet
	}
	return logs
}

// RunUpdate is one state divergence to be notified to the tracking service.
// It is never constructed for converged runs.
type RunUpdate struct {
	RunID        string    `json:"runId"`
	CurrentState RunState  `json:"currentState"`
	NewState     RunState  `json:"newState"`
	SessionID    *string   `json:"sessionId,omitempty"`
	WorkflowURL  string    `json:"workflowUrl"`
	StartTime    time.Time `json:"startTime"`
	CompleteTime time.Time `json:"completeTime"`
	Logs         string    `json:"logs,omitempty"`
}

// RetentionPolicy holds the rotation window per resource kind.
// A negative value disables cleanup for that kind.
type RetentionPolicy struct {
	PodRotationDays       int `json:"podRotationDays" yaml:"podRotationDays"`
	ConfigMapRotationDays int `json:"configMapRotationDays" yaml:"configMapRotationDays"`
}

// RotationDays returns the configured window for kind.
func (p RetentionPolicy) RotationDays(kind ResourceKind) int {
	switch kind {
	case ResourceKindPod:
		return p.PodRotationDays
	case ResourceKindConfigMap:
		return p.ConfigMapRotationDays
	default:
		return -1
	}
}
