package api

import "context"

// RunRegistry is the tracking service's view of runs it considers active.
//
// Implementations must drain every page before returning; the reconciler
// treats the returned slice as complete.
type RunRegistry interface {
	ListActiveRuns(ctx context.Context) ([]ActiveRun, error)
}

// ResourceInventory is the live view of run resources in the cluster(s).
type ResourceInventory interface {
	// ListResources returns every run resource of the given kind.
	ListResources(ctx context.Context, kind ResourceKind) ([]ResourceRecord, error)

	// Delete removes a resource. It returns false without error when the
	// resource was already absent.
	Delete(ctx context.Context, ref ResourceRef) (bool, error)
}

// EventPublisher notifies the tracking service about a run state divergence.
type EventPublisher interface {
	Publish(ctx context.Context, update RunUpdate) error
}
