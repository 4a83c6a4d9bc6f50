package events

import (
	"context"
	"time"

	"raccoon/internal/api"
	"raccoon/pkg/logging"
)

// Clock supplies the send time of management events.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// Sink delivers one encoded event.
type Sink interface {
	Send(ctx context.Context, runID string, event any) error
}

// Publisher converts run updates into wire events and hands them to a Sink.
// It implements api.EventPublisher.
type Publisher struct {
	sink  Sink
	clock Clock
}

// NewPublisher creates a Publisher. A nil clock uses the system time.
func NewPublisher(sink Sink, clock Clock) *Publisher {
	if clock == nil {
		clock = realClock{}
	}
	return &Publisher{sink: sink, clock: clock}
}

// BuildEvent returns the wire event for update: an ExecutionErrorEvent when
// the run failed in the executor, a ManagementEvent otherwise.
func (p *Publisher) BuildEvent(update api.RunUpdate) any {
	if update.NewState == api.RunStateExecutorError {
		sessionID := NoSessionID
		if update.SessionID != nil {
			sessionID = *update.SessionID
		}
		completed := formatTime(update.CompleteTime)

		return ExecutionErrorEvent{
			RunName: update.RunID,
			RunID:   sessionID,
			Event:   ErrorEventName,
			UTCTime: completed,
			Metadata: Metadata{
				Workflow: WorkflowMetadata{
					ErrorReport: update.Logs,
					Success:     false,
					Complete:    completed,
					Repository:  update.WorkflowURL,
				},
				Parameters: map[string]any{},
			},
		}
	}

	return ManagementEvent{
		RunID:       update.RunID,
		Event:       update.NewState.WireValue(),
		WorkflowURL: update.WorkflowURL,
		UTCTime:     formatTime(p.clock.Now()),
	}
}

// Publish sends the event for update. A rejected event is returned as an
// *api.NotificationError.
func (p *Publisher) Publish(ctx context.Context, update api.RunUpdate) error {
	event := p.BuildEvent(update)
	logging.Debug("Weblog", "Sending %T for run %s (%s)", event, update.RunID, update.NewState)
	return p.sink.Send(ctx, update.RunID, event)
}

func formatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}
