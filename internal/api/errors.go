package api

import (
	"errors"
	"fmt"
)

// InvariantViolationError reports corrupted upstream data that must never
// occur, such as two cluster resources claiming the same run id.
// A pass that hits one is aborted; the condition is not recoverable.
type InvariantViolationError struct {
	// Invariant names the violated rule.
	Invariant string

	// Subject is the identifier that violated it.
	Subject string
}

// Error implements the error interface.
func (e *InvariantViolationError) Error() string {
	return fmt.Sprintf("invariant violated: %s (%s)", e.Invariant, e.Subject)
}

// NewDuplicateResourceError creates the error raised when two resources
// of the same kind report the same id.
func NewDuplicateResourceError(kind ResourceKind, id string) *InvariantViolationError {
	return &InvariantViolationError{
		Invariant: fmt.Sprintf("resource ids are unique per kind, found two %s resources with the same id", kind),
		Subject:   id,
	}
}

// IsInvariantViolation checks whether err is or wraps an InvariantViolationError.
func IsInvariantViolation(err error) bool {
	var violation *InvariantViolationError
	return errors.As(err, &violation)
}

// NotificationError is returned when the notification endpoint does not
// acknowledge an event with a 2xx status and a boolean true body.
type NotificationError struct {
	// RunID is the run whose event was rejected.
	RunID string

	// StatusCode is the HTTP status returned, 0 when the request never completed.
	StatusCode int

	// Body is the (possibly truncated) response body.
	Body string

	// Err is the underlying transport or encoding error, if any.
	Err error
}

// Error implements the error interface.
func (e *NotificationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("failed to send event for run %s: %v", e.RunID, e.Err)
	}
	return fmt.Sprintf("failed to send event for run %s: status %d, body %q", e.RunID, e.StatusCode, e.Body)
}

// Unwrap returns the underlying error.
func (e *NotificationError) Unwrap() error {
	return e.Err
}

// IsNotificationError checks whether err is or wraps a NotificationError.
func IsNotificationError(err error) bool {
	var notificationErr *NotificationError
	return errors.As(err, &notificationErr)
}

// NotFoundError represents a resource not found error with contextual information.
//
// The error includes resource type and name for precise error reporting and
// supports custom error messages for specific use cases.
type NotFoundError struct {
	// ResourceType categorizes the type of resource that was not found
	// (e.g., "cluster", "run")
	ResourceType string

	// ResourceName is the specific identifier of the resource that was not found
	ResourceName string

	// Message provides a custom error message if the default format is insufficient
	Message string
}

// Error implements the error interface for NotFoundError.
func (e *NotFoundError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s %s not found", e.ResourceType, e.ResourceName)
}

// IsNotFound checks if an error is a NotFoundError using error unwrapping.
//
// Example:
//
//	_, err := clusters.Get("unknown")
//	if api.IsNotFound(err) {
//	    // Handle not found case
//	}
func IsNotFound(err error) bool {
	var notFoundErr *NotFoundError
	return errors.As(err, &notFoundErr)
}

// NewNotFoundError creates a new NotFoundError with the specified resource type and name.
func NewNotFoundError(resourceType, resourceName string) *NotFoundError {
	return &NotFoundError{
		ResourceType: resourceType,
		ResourceName: resourceName,
	}
}

// NewClusterNotFoundError creates a cluster not found error.
func NewClusterNotFoundError(name string) *NotFoundError {
	return NewNotFoundError("cluster", name)
}
