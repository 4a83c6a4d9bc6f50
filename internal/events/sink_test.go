package events

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"raccoon/internal/api"
)

func TestHTTPSink_Send(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantErr    bool
		wantStatus int
	}{
		{name: "acknowledged", status: http.StatusOK, body: "true"},
		{name: "acknowledged with whitespace", status: http.StatusCreated, body: " true\n"},
		{name: "body false", status: http.StatusOK, body: "false", wantErr: true, wantStatus: http.StatusOK},
		{name: "body not json", status: http.StatusOK, body: "ok", wantErr: true, wantStatus: http.StatusOK},
		{name: "server error", status: http.StatusInternalServerError, body: "true", wantErr: true, wantStatus: http.StatusInternalServerError},
		{name: "empty body", status: http.StatusNoContent, body: "", wantErr: true, wantStatus: http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}))
			defer server.Close()

			err := NewHTTPSink(server.URL, server.Client()).Send(context.Background(), "wes-1", ManagementEvent{RunID: "wes-1"})
			if !tt.wantErr {
				require.NoError(t, err)
				return
			}

			var notificationErr *api.NotificationError
			require.True(t, errors.As(err, &notificationErr), "expected NotificationError, got %v", err)
			assert.Equal(t, "wes-1", notificationErr.RunID)
			assert.Equal(t, tt.wantStatus, notificationErr.StatusCode)
		})
	}
}

func TestHTTPSink_PostsJSON(t *testing.T) {
	var (
		method      string
		contentType string
		received    ManagementEvent
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		contentType = r.Header.Get("Content-Type")
		_ = json.NewDecoder(r.Body).Decode(&received)
		_, _ = io.WriteString(w, "true")
	}))
	defer server.Close()

	event := ManagementEvent{RunID: "nf-1", Event: "SYSTEM_ERROR", WorkflowURL: "repo", UTCTime: "2024-05-20T12:00:00Z"}
	require.NoError(t, NewHTTPSink(server.URL, nil).Send(context.Background(), "nf-1", event))

	assert.Equal(t, http.MethodPost, method)
	assert.Equal(t, "application/json", contentType)
	assert.Equal(t, event, received)
}

func TestHTTPSink_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	err := NewHTTPSink(url, nil).Send(context.Background(), "wes-1", ManagementEvent{})

	var notificationErr *api.NotificationError
	require.True(t, errors.As(err, &notificationErr))
	assert.Equal(t, 0, notificationErr.StatusCode)
	assert.NotNil(t, notificationErr.Err)
}

func TestHTTPSink_TruncatesRejectedBody(t *testing.T) {
	long := make([]byte, 1000)
	for i := range long {
		long[i] = 'x'
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write(long)
	}))
	defer server.Close()

	err := NewHTTPSink(server.URL, nil).Send(context.Background(), "wes-1", ManagementEvent{})

	var notificationErr *api.NotificationError
	require.True(t, errors.As(err, &notificationErr))
	assert.Len(t, notificationErr.Body, bodyPreviewLen)
}
