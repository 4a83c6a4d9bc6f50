package reconciler

import (
	"context"
	"encoding/json"
	"slices"
	"time"

	"raccoon/internal/api"
)

// Plan is the immutable set of actions computed by one pass.
//
// Its fields are unexported and every accessor returns a copy, so a Plan
// handed to a dry-run caller is the same Plan a full run would apply.
type Plan struct {
	runUpdates      []api.RunUpdate
	stalePods       []api.ResourceRef
	staleConfigMaps []api.ResourceRef
}

// NewPlan assembles a Plan from its parts. The inputs are copied.
func NewPlan(runUpdates []api.RunUpdate, stalePods, staleConfigMaps []api.ResourceRef) *Plan {
	return &Plan{
		runUpdates:      slices.Clone(runUpdates),
		stalePods:       slices.Clone(stalePods),
		staleConfigMaps: slices.Clone(staleConfigMaps),
	}
}

// RunUpdates returns the state divergences to notify.
func (p *Plan) RunUpdates() []api.RunUpdate { return slices.Clone(p.runUpdates) }

// StalePods returns the pods to delete.
func (p *Plan) StalePods() []api.ResourceRef { return slices.Clone(p.stalePods) }

// StaleConfigMaps returns the ConfigMaps to delete.
func (p *Plan) StaleConfigMaps() []api.ResourceRef { return slices.Clone(p.staleConfigMaps) }

// TotalOperationCount is the number of side effects a full application performs.
func (p *Plan) TotalOperationCount() int {
	return len(p.runUpdates) + len(p.stalePods) + len(p.staleConfigMaps)
}

// IsEmpty reports whether the plan has nothing to do.
func (p *Plan) IsEmpty() bool {
	return p.TotalOperationCount() == 0
}

// Summary returns the dry-run counts for the plan.
func (p *Plan) Summary() DryRunSummary {
	return DryRunSummary{
		NumJobsStuck:           len(p.runUpdates),
		NumPodsToCleanup:       len(p.stalePods),
		NumConfigMapsToCleanup: len(p.staleConfigMaps),
	}
}

// planView is the serialized form of a Plan.
type planView struct {
	RunUpdates      []api.RunUpdate   `json:"runUpdates"`
	StalePods       []api.ResourceRef `json:"stalePods"`
	StaleConfigMaps []api.ResourceRef `json:"staleConfigMaps"`
	TotalOperations int               `json:"totalOperations"`
}

// MarshalJSON renders the full plan, used by the plan endpoint and CLI.
func (p *Plan) MarshalJSON() ([]byte, error) {
	view := planView{
		RunUpdates:      p.runUpdates,
		StalePods:       p.stalePods,
		StaleConfigMaps: p.staleConfigMaps,
		TotalOperations: p.TotalOperationCount(),
	}
	if view.RunUpdates == nil {
		view.RunUpdates = []api.RunUpdate{}
	}
	if view.StalePods == nil {
		view.StalePods = []api.ResourceRef{}
	}
	if view.StaleConfigMaps == nil {
		view.StaleConfigMaps = []api.ResourceRef{}
	}
	return json.Marshal(view)
}

// UnmarshalJSON reads a plan rendered by MarshalJSON, as returned by a
// remote server.
func (p *Plan) UnmarshalJSON(data []byte) error {
	var view planView
	if err := json.Unmarshal(data, &view); err != nil {
		return err
	}
	*p = *NewPlan(view.RunUpdates, view.StalePods, view.StaleConfigMaps)
	return nil
}

// PlanInput is the state gathered for one pass.
type PlanInput struct {
	ActiveRuns []api.ActiveRun
	Pods       []api.ResourceRecord
	ConfigMaps []api.ResourceRecord
	Retention  api.RetentionPolicy
}

// BuildPlan composes the reconciler output and the retention selections
// into a Plan. It performs no side effects beyond lazily loading logs of
// diverged pods.
func BuildPlan(ctx context.Context, r *Reconciler, in PlanInput) (*Plan, error) {
	updates, err := r.Reconcile(ctx, in.ActiveRuns, in.Pods)
	if err != nil {
		return nil, err
	}

	// ConfigMap ids share the same uniqueness rule as pods.
	if _, err := indexByID(in.ConfigMaps); err != nil {
		return nil, err
	}

	now := r.clock.Now()
	stalePods := SelectStale(in.Pods, recordAge, in.Retention.RotationDays(api.ResourceKindPod), now)
	staleConfigMaps := SelectStale(in.ConfigMaps, recordAge, in.Retention.RotationDays(api.ResourceKindConfigMap), now)

	return NewPlan(updates, refs(stalePods), refs(staleConfigMaps)), nil
}

func recordAge(r api.ResourceRecord) time.Time { return r.Age }

func refs(records []api.ResourceRecord) []api.ResourceRef {
	if len(records) == 0 {
		return nil
	}
	out := make([]api.ResourceRef, 0, len(records))
	for _, r := range records {
		out = append(out, r.ResourceRef)
	}
	return out
}
