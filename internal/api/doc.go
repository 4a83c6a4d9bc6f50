// Package api holds the data model shared by raccoon's packages and the
// capability interfaces its collaborators implement.
//
// # Data Model
//
//   - RunState: the shared run lifecycle enumeration, compared by equality only
//   - ActiveRun: a run the tracking service believes is live
//   - ResourceRecord: a snapshot of a live cluster resource (pod or ConfigMap)
//   - RunUpdate: one state divergence to notify
//   - RetentionPolicy: rotation window per resource kind
//
// Optional upstream values (session id, start time) are pointers. Defaults
// such as a placeholder session id are applied where events are rendered,
// not here.
//
// # Capability Interfaces
//
// RunRegistry, ResourceInventory and EventPublisher describe the collaborators
// of a reconciliation pass. They are passed explicitly into the reconciler
// so that tests can substitute fakes and the same logic can be applied per
// cluster.
//
// # Errors
//
// InvariantViolationError marks corrupted input that aborts a pass,
// NotificationError marks a rejected event, NotFoundError marks a missing
// named entity such as an unknown cluster.
package api
