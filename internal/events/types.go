package events

// TimeLayout is the timestamp format expected by the notification endpoint.
// Values are always rendered in UTC.
const TimeLayout = "2006-01-02T15:04:05Z"

// NoSessionID stands in for a run that never reported a session id.
const NoSessionID = "NO-SESSION-ID"

// ErrorEventName is the event name of an execution error report.
const ErrorEventName = "ERROR"

// ExecutionErrorEvent reports a run that failed inside the executor. It
// mirrors the event a workflow engine emits itself when a run errors, so
// the tracking service handles both the same way.
type ExecutionErrorEvent struct {
	RunName  string   `json:"runName"`
	RunID    string   `json:"runId"`
	Event    string   `json:"event"`
	UTCTime  string   `json:"utcTime"`
	Metadata Metadata `json:"metadata"`
}

// Metadata carries the workflow section of an ExecutionErrorEvent.
type Metadata struct {
	Workflow   WorkflowMetadata `json:"workflow"`
	Parameters map[string]any   `json:"parameters"`
}

// WorkflowMetadata describes the failed workflow.
type WorkflowMetadata struct {
	ErrorReport string `json:"errorReport"`
	Success     bool   `json:"success"`
	Complete    string `json:"complete"`
	Repository  string `json:"repository"`
}

// ManagementEvent reports any other state transition.
type ManagementEvent struct {
	RunID       string `json:"runId"`
	Event       string `json:"event"`
	WorkflowURL string `json:"workflowUrl"`
	UTCTime     string `json:"utcTime"`
}
