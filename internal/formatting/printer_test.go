package formatting

import (
	"bytes"
	"errors"
	"os"
	"testing"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"raccoon/internal/api"
	rctx "raccoon/internal/context"
	"raccoon/internal/reconciler"
	"raccoon/internal/server"
)

func TestMain(m *testing.M) {
	text.DisableColors()
	os.Exit(m.Run())
}

func testPlan() *reconciler.Plan {
	return reconciler.NewPlan(
		[]api.RunUpdate{{RunID: "wes-1", CurrentState: api.RunStateRunning, NewState: api.RunStateExecutorError}},
		[]api.ResourceRef{{Kind: api.ResourceKindPod, Cluster: "east", ID: "wes-2"}},
		[]api.ResourceRef{{Kind: api.ResourceKindConfigMap, Cluster: "west", ID: "nf-config-wes-3"}},
	)
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    OutputFormat
		wantErr bool
	}{
		{in: "", want: FormatTable},
		{in: "table", want: FormatTable},
		{in: "JSON", want: FormatJSON},
		{in: " yaml ", want: FormatYAML},
		{in: "xml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPrintDryRun_Table(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewPrinter(&buf, FormatTable).PrintDryRun(testPlan().Summary()))

	out := buf.String()
	assert.Contains(t, out, "Dry run")
	assert.Contains(t, out, "Runs to notify")
	assert.Contains(t, out, "ConfigMaps to delete")
}

func TestPrintDryRun_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewPrinter(&buf, FormatJSON).PrintDryRun(testPlan().Summary()))

	assert.JSONEq(t, `{"numJobsStuck":1,"numPodsToCleanup":1,"numConfigMapsToCleanup":1}`, buf.String())
}

func TestPrintPlan_Table(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewPrinter(&buf, FormatTable).PrintPlan(testPlan()))

	out := buf.String()
	assert.Contains(t, out, "Plan (3 operations)")
	assert.Contains(t, out, "RUNNING → EXECUTOR_ERROR")
	assert.Contains(t, out, "wes-2")
	assert.Contains(t, out, "nf-config-wes-3")
	assert.Contains(t, out, "west")
}

func TestPrintPlan_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewPrinter(&buf, FormatTable).PrintPlan(reconciler.NewPlan(nil, nil, nil)))
	assert.Contains(t, buf.String(), "Nothing to clean up")
}

func TestPrintPlan_YAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewPrinter(&buf, FormatYAML).PrintPlan(testPlan()))

	out := buf.String()
	assert.Contains(t, out, "totalOperations: 3")
	assert.Contains(t, out, "newState: EXECUTOR_ERROR")
	assert.Contains(t, out, "id: nf-config-wes-3")
}

func TestPrintResult(t *testing.T) {
	result := reconciler.Result{
		Applied:     1,
		Total:       3,
		FailedPhase: reconciler.PhaseDeletePods,
		Err:         errors.New("cluster east unreachable"),
	}

	var table bytes.Buffer
	require.NoError(t, NewPrinter(&table, FormatTable).PrintResult(result))
	assert.Contains(t, table.String(), "failed")
	assert.Contains(t, table.String(), "1/3")
	assert.Contains(t, table.String(), "delete-pods")

	var js bytes.Buffer
	require.NoError(t, NewPrinter(&js, FormatJSON).PrintResult(result))
	assert.JSONEq(t,
		`{"applied":1,"total":3,"success":false,"failedPhase":"delete-pods","error":"cluster east unreachable"}`,
		js.String())
}

func TestPrintRunStarted(t *testing.T) {
	resp := server.RunResponse{Code: 200, Message: server.RunStartedMessage, PassID: "pass-7"}

	var buf bytes.Buffer
	require.NoError(t, NewPrinter(&buf, FormatTable).PrintRunStarted(resp))
	assert.Contains(t, buf.String(), server.RunStartedMessage)
	assert.Contains(t, buf.String(), "pass-7")

	buf.Reset()
	require.NoError(t, NewPrinter(&buf, FormatYAML).PrintRunStarted(resp))
	assert.Contains(t, buf.String(), "passId: pass-7")
}

func TestPrintContexts(t *testing.T) {
	contexts := []rctx.Context{
		{Name: "local", Endpoint: "http://localhost:8080"},
		{Name: "prod", Endpoint: "https://raccoon.example.com", Output: "json"},
	}

	var buf bytes.Buffer
	require.NoError(t, NewPrinter(&buf, FormatTable).PrintContexts(contexts, "prod"))
	assert.Contains(t, buf.String(), "https://raccoon.example.com")
	assert.Contains(t, buf.String(), "*")

	buf.Reset()
	require.NoError(t, NewPrinter(&buf, FormatJSON).PrintContexts(nil, ""))
	assert.JSONEq(t, `{"contexts":[]}`, buf.String())

	buf.Reset()
	require.NoError(t, NewPrinter(&buf, FormatTable).PrintContexts(nil, ""))
	assert.Contains(t, buf.String(), "No contexts defined")
}
