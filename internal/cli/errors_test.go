package cli

import (
	"context"
	"crypto/x509"
	"errors"
	"fmt"
	"net"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyConnectionError(t *testing.T) {
	const endpoint = "http://raccoon:8080"

	tests := []struct {
		name string
		err  error
		want ConnectionErrorType
	}{
		{
			name: "unknown authority",
			err:  &url.Error{Op: "Post", URL: endpoint, Err: x509.UnknownAuthorityError{}},
			want: ConnectionErrorTLS,
		},
		{
			name: "handshake message",
			err:  errors.New("remote error: tls: handshake failure"),
			want: ConnectionErrorTLS,
		},
		{
			name: "dns",
			err:  &url.Error{Op: "Post", URL: endpoint, Err: &net.OpError{Op: "dial", Err: &net.DNSError{Name: "raccoon", Err: "no such host"}}},
			want: ConnectionErrorDNS,
		},
		{
			name: "deadline",
			err:  &url.Error{Op: "Post", URL: endpoint, Err: context.DeadlineExceeded},
			want: ConnectionErrorTimeout,
		},
		{
			name: "refused",
			err:  fmt.Errorf("Post %q: dial tcp 127.0.0.1:8080: connect: connection refused", endpoint),
			want: ConnectionErrorNetwork,
		},
		{
			name: "other",
			err:  errors.New("something odd"),
			want: ConnectionErrorUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyConnectionError(tt.err, endpoint)
			assert.Equal(t, tt.want, got.Type)
			assert.Equal(t, endpoint, got.Endpoint)
			assert.ErrorIs(t, got, tt.err)
		})
	}
}

func TestClassifyConnectionError_Nil(t *testing.T) {
	assert.Nil(t, ClassifyConnectionError(nil, "http://localhost:8080"))
}

func TestConnectionError_Error(t *testing.T) {
	err := &ConnectionError{
		Endpoint: "http://localhost:8080",
		Type:     ConnectionErrorNetwork,
		Reason:   errors.New("connection refused"),
	}
	assert.Equal(t,
		"http://localhost:8080: Connection failed; is 'raccoon serve' running at this address? (connection refused)",
		err.Error())
	assert.Equal(t, "Network error", err.Type.String())
}

func TestServerError_Error(t *testing.T) {
	err := &ServerError{Endpoint: "http://localhost:8080", StatusCode: 409, Message: "invariant violated"}
	assert.Equal(t, "http://localhost:8080 answered 409: invariant violated", err.Error())
}
