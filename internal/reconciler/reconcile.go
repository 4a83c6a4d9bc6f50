package reconciler

import (
	"context"
	"time"

	"raccoon/internal/api"
	"raccoon/pkg/logging"
)

// Reconciler diffs the registry's active runs against live run pods.
type Reconciler struct {
	clock Clock
}

// NewReconciler creates a Reconciler. A nil clock uses the system time.
func NewReconciler(clock Clock) *Reconciler {
	if clock == nil {
		clock = RealClock()
	}
	return &Reconciler{clock: clock}
}

// Reconcile returns one RunUpdate for every run that is orphaned (no pod)
// or diverged (pod state differs), in the order of runs. Converged runs
// produce nothing.
//
// Two pods reporting the same id is an invariant violation; no updates are
// returned in that case.
func (r *Reconciler) Reconcile(ctx context.Context, runs []api.ActiveRun, pods []api.ResourceRecord) ([]api.RunUpdate, error) {
	lookup, err := indexByID(pods)
	if err != nil {
		return nil, err
	}

	now := r.clock.Now()
	var updates []api.RunUpdate

	for _, run := range runs {
		pod, ok := lookup[run.RunID]
		if !ok {
			logging.Debug("Reconciler", "Run %s (%s) has no pod, marking %s", run.RunID, run.State, api.RunStateSystemError)
			updates = append(updates, api.RunUpdate{
				RunID:        run.RunID,
				CurrentState: run.State,
				NewState:     api.RunStateSystemError,
				SessionID:    run.SessionID,
				WorkflowURL:  run.WorkflowURL,
				StartTime:    timeOr(run.StartTime, now),
				CompleteTime: now,
				Logs:         "",
			})
		} else if pod.State != run.State {
			logging.Debug("Reconciler", "Run %s diverged: registry=%s cluster=%s", run.RunID, run.State, pod.State)
			updates = append(updates, api.RunUpdate{
				RunID:        run.RunID,
				CurrentState: run.State,
				NewState:     pod.State,
				SessionID:    run.SessionID,
				WorkflowURL:  run.WorkflowURL,
				StartTime:    timeOr(run.StartTime, pod.Age),
				CompleteTime: now,
				Logs:         pod.Logs(ctx),
			})
		}
	}

	return updates, nil
}

// indexByID builds the id lookup, rejecting duplicate ids.
func indexByID(records []api.ResourceRecord) (map[string]api.ResourceRecord, error) {
	lookup := make(map[string]api.ResourceRecord, len(records))
	for _, record := range records {
		if _, exists := lookup[record.ID]; exists {
			return nil, api.NewDuplicateResourceError(record.Kind, record.ID)
		}
		lookup[record.ID] = record
	}
	return lookup, nil
}

func timeOr(v *time.Time, fallback time.Time) time.Time {
	if v == nil {
		return fallback
	}
	return *v
}
