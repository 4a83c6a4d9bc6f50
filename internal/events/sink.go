package events

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"raccoon/internal/api"
	"raccoon/pkg/logging"
	"raccoon/pkg/strings"
)

const (
	// DefaultTimeout bounds a single POST to the notification endpoint.
	DefaultTimeout = 30 * time.Second

	maxResponseBytes = 64 * 1024
	bodyPreviewLen   = 200
)

// HTTPSink posts events as JSON to the notification endpoint. The endpoint
// acknowledges an event with a 2xx status and the JSON body true.
type HTTPSink struct {
	url    string
	client *http.Client
}

// NewHTTPSink creates a sink for url. A nil client gets DefaultTimeout.
func NewHTTPSink(url string, client *http.Client) *HTTPSink {
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}
	return &HTTPSink{url: url, client: client}
}

// Send posts event and checks the acknowledgement.
func (s *HTTPSink) Send(ctx context.Context, runID string, event any) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return &api.NotificationError{RunID: runID, Err: fmt.Errorf("failed to encode event: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(payload))
	if err != nil {
		return &api.NotificationError{RunID: runID, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return &api.NotificationError{RunID: runID, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return &api.NotificationError{RunID: runID, StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 || !acknowledged(body) {
		return &api.NotificationError{
			RunID:      runID,
			StatusCode: resp.StatusCode,
			Body:       strings.Summarize(string(body), bodyPreviewLen),
		}
	}

	logging.Debug("Weblog", "Event for run %s acknowledged", runID)
	return nil
}

func acknowledged(body []byte) bool {
	var ok bool
	if err := json.Unmarshal(body, &ok); err != nil {
		return false
	}
	return ok
}
