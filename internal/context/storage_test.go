package context

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorage_CRUD(t *testing.T) {
	s := NewStorageWithPath(t.TempDir())

	f, err := s.Load()
	require.NoError(t, err)
	assert.Empty(t, f.Contexts)

	require.NoError(t, s.Add(Context{Name: "local", Endpoint: "http://localhost:8080"}))
	require.NoError(t, s.Add(Context{Name: "prod", Endpoint: "https://raccoon.example.com", Output: "json"}))

	f, err = s.Load()
	require.NoError(t, err)
	assert.Len(t, f.Contexts, 2)
	assert.Equal(t, "local", f.CurrentContext, "first context becomes current")

	require.NoError(t, s.Use("prod"))
	f, err = s.Load()
	require.NoError(t, err)
	assert.Equal(t, "prod", f.CurrentContext)

	require.NoError(t, s.Delete("prod"))
	f, err = s.Load()
	require.NoError(t, err)
	assert.Empty(t, f.CurrentContext)
	assert.Nil(t, f.Get("prod"))
}

func TestStorage_Errors(t *testing.T) {
	s := NewStorageWithPath(t.TempDir())
	require.NoError(t, s.Add(Context{Name: "local", Endpoint: "http://localhost:8080"}))

	assert.ErrorContains(t, s.Add(Context{Name: "local", Endpoint: "http://localhost:9090"}), "already exists")
	assert.Error(t, s.Add(Context{Name: "Bad_Name", Endpoint: "http://localhost:8080"}))
	assert.Error(t, s.Add(Context{Name: "other", Endpoint: "localhost:8080"}))

	var notFound *NotFoundError
	assert.ErrorAs(t, s.Use("missing"), &notFound)
	assert.ErrorAs(t, s.Delete("missing"), &notFound)
}

func TestStorage_CorruptFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, contextsFileName), []byte("contexts: [:"), 0o644))

	_, err := NewStorageWithPath(dir).Load()
	assert.ErrorContains(t, err, "failed to parse")
}

func TestValidateName(t *testing.T) {
	tests := []struct {
		name    string
		wantErr bool
	}{
		{name: "a"},
		{name: "prod-eu-1"},
		{name: "", wantErr: true},
		{name: "-prod", wantErr: true},
		{name: "prod-", wantErr: true},
		{name: "Prod", wantErr: true},
		{name: string(make([]byte, 64)), wantErr: true},
	}

	for _, tt := range tests {
		err := ValidateName(tt.name)
		if tt.wantErr {
			assert.Error(t, err, "%q", tt.name)
		} else {
			assert.NoError(t, err, "%q", tt.name)
		}
	}
}
