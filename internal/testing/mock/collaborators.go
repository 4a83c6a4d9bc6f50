package mock

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"raccoon/internal/api"
)

// CallLog records side-effecting calls across collaborators in the order
// they happened, so tests can assert the total order of a pass.
type CallLog struct {
	mu    sync.Mutex
	calls []string
}

func (l *CallLog) record(format string, args ...any) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, fmt.Sprintf(format, args...))
}

// Calls returns a copy of the recorded calls.
func (l *CallLog) Calls() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.calls)
}

// Registry is an in-memory api.RunRegistry.
type Registry struct {
	mu    sync.Mutex
	Runs  []api.ActiveRun
	Err   error
	calls int
}

// ListActiveRuns returns the configured runs or error.
func (r *Registry) ListActiveRuns(ctx context.Context) ([]api.ActiveRun, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.Err != nil {
		return nil, r.Err
	}
	return slices.Clone(r.Runs), nil
}

// CallCount returns how many times ListActiveRuns was called.
func (r *Registry) CallCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

// Inventory is an in-memory api.ResourceInventory.
type Inventory struct {
	mu sync.Mutex

	// Resources holds the listing per kind.
	Resources map[api.ResourceKind][]api.ResourceRecord

	// ListErr fails every listing when set.
	ListErr error

	// DeleteErrs fails the deletion of specific resources, keyed by id.
	DeleteErrs map[string]error

	// Absent makes Delete report the resource as already gone, keyed by id.
	Absent map[string]bool

	// Log receives one "delete <ref>" entry per call when set.
	Log *CallLog

	deleted []api.ResourceRef
}

// ListResources returns the configured records for kind.
func (i *Inventory) ListResources(ctx context.Context, kind api.ResourceKind) ([]api.ResourceRecord, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.ListErr != nil {
		return nil, i.ListErr
	}
	return slices.Clone(i.Resources[kind]), nil
}

// Delete records the call and returns the configured outcome.
func (i *Inventory) Delete(ctx context.Context, ref api.ResourceRef) (bool, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.Log.record("delete %s", ref)
	if err := i.DeleteErrs[ref.ID]; err != nil {
		return false, err
	}
	i.deleted = append(i.deleted, ref)
	return !i.Absent[ref.ID], nil
}

// Deleted returns the refs successfully passed to Delete.
func (i *Inventory) Deleted() []api.ResourceRef {
	i.mu.Lock()
	defer i.mu.Unlock()
	return slices.Clone(i.deleted)
}

// Publisher is a recording api.EventPublisher.
type Publisher struct {
	mu sync.Mutex

	// Errs fails the publication of specific runs, keyed by run id.
	Errs map[string]error

	// Log receives one "publish <runID>" entry per call when set.
	Log *CallLog

	published []api.RunUpdate
}

// Publish records the update and returns the configured outcome.
func (p *Publisher) Publish(ctx context.Context, update api.RunUpdate) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Log.record("publish %s", update.RunID)
	if err := p.Errs[update.RunID]; err != nil {
		return err
	}
	p.published = append(p.published, update)
	return nil
}

// Published returns the updates accepted so far.
func (p *Publisher) Published() []api.RunUpdate {
	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Clone(p.published)
}
