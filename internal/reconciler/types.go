package reconciler

import (
	"time"
)

// Clock supplies the current time. It is injected so that retention and
// update timestamps can be tested against a fixed instant.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now().UTC() }

// RealClock returns a Clock backed by the system time, in UTC.
func RealClock() Clock { return realClock{} }

// Phase identifies one stage of plan application.
type Phase string

const (
	// PhaseNone is reported when no phase failed.
	PhaseNone Phase = ""

	// PhaseNotify publishes run updates.
	PhaseNotify Phase = "notify"

	// PhaseDeletePods deletes stale run pods.
	PhaseDeletePods Phase = "delete-pods"

	// PhaseDeleteConfigMaps deletes stale run ConfigMaps.
	PhaseDeleteConfigMaps Phase = "delete-configmaps"
)

// Result is the outcome of applying a Plan.
type Result struct {
	// Applied is the number of operations that completed.
	Applied int `json:"applied"`

	// Total is the plan's total operation count.
	Total int `json:"total"`

	// Success is true only when every operation was applied.
	Success bool `json:"success"`

	// FailedPhase is the phase that aborted the pipeline, if any.
	FailedPhase Phase `json:"failedPhase,omitempty"`

	// Err is the error that aborted the pipeline, if any.
	Err error `json:"-"`
}

// DryRunSummary reports what a pass would do without doing it.
type DryRunSummary struct {
	NumJobsStuck           int `json:"numJobsStuck"`
	NumPodsToCleanup       int `json:"numPodsToCleanup"`
	NumConfigMapsToCleanup int `json:"numConfigMapsToCleanup"`
}
