// Package events publishes run state changes to the tracking service's
// notification endpoint.
//
// A Publisher turns each api.RunUpdate into one of two wire events.
// Runs that failed in the executor are reported as an ExecutionErrorEvent
// carrying the pod's log tail. Every other transition is a ManagementEvent
// naming the new state. The HTTPSink posts the JSON and treats anything but
// a 2xx response with the body true as a rejection.
package events
