package formatting

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"sigs.k8s.io/yaml"

	"raccoon/internal/api"
	rctx "raccoon/internal/context"
	"raccoon/internal/reconciler"
	"raccoon/internal/server"
)

// OutputFormat selects how command results are rendered.
type OutputFormat string

const (
	FormatTable OutputFormat = "table" // Rich table output
	FormatJSON  OutputFormat = "json"  // Indented JSON
	FormatYAML  OutputFormat = "yaml"  // YAML
)

// Formats lists the accepted output formats.
var Formats = []OutputFormat{FormatTable, FormatJSON, FormatYAML}

// ParseFormat converts a flag value into an OutputFormat.
// An empty value selects the table format.
func ParseFormat(s string) (OutputFormat, error) {
	switch OutputFormat(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatTable:
		return FormatTable, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatYAML:
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unsupported output format %q (valid: table, json, yaml)", s)
}

// Printer renders pass results to a writer.
type Printer struct {
	out    io.Writer
	format OutputFormat
}

// NewPrinter creates a printer writing to out.
func NewPrinter(out io.Writer, format OutputFormat) *Printer {
	if format == "" {
		format = FormatTable
	}
	return &Printer{out: out, format: format}
}

// resultView is the serialized form of a reconciler.Result.
type resultView struct {
	Applied     int              `json:"applied"`
	Total       int              `json:"total"`
	Success     bool             `json:"success"`
	FailedPhase reconciler.Phase `json:"failedPhase,omitempty"`
	Error       string           `json:"error,omitempty"`
}

// PrintDryRun renders the counts of a dry run.
func (p *Printer) PrintDryRun(summary reconciler.DryRunSummary) error {
	if p.format != FormatTable {
		return p.encode(summary)
	}

	t := p.newTable()
	t.SetTitle("Dry run")
	t.AppendHeader(table.Row{header("ACTION"), header("COUNT")})
	t.AppendRow(table.Row{"Runs to notify", countCell(summary.NumJobsStuck)})
	t.AppendRow(table.Row{"Pods to delete", countCell(summary.NumPodsToCleanup)})
	t.AppendRow(table.Row{"ConfigMaps to delete", countCell(summary.NumConfigMapsToCleanup)})
	t.Render()
	return nil
}

// PrintPlan renders every action of a plan.
func (p *Printer) PrintPlan(plan *reconciler.Plan) error {
	if p.format != FormatTable {
		return p.encode(plan)
	}

	if plan.IsEmpty() {
		_, err := fmt.Fprintf(p.out, "%s %s\n", text.FgGreen.Sprint("✓"), "Nothing to clean up")
		return err
	}

	t := p.newTable()
	t.SetTitle(fmt.Sprintf("Plan (%d operations)", plan.TotalOperationCount()))
	t.AppendHeader(table.Row{header("ACTION"), header("CLUSTER"), header("TARGET"), header("DETAIL")})
	for _, u := range plan.RunUpdates() {
		t.AppendRow(table.Row{
			text.FgYellow.Sprint("notify"),
			"",
			u.RunID,
			fmt.Sprintf("%s → %s", u.CurrentState, stateCell(u.NewState)),
		})
	}
	for _, ref := range plan.StalePods() {
		t.AppendRow(deleteRow(ref))
	}
	for _, ref := range plan.StaleConfigMaps() {
		t.AppendRow(deleteRow(ref))
	}
	t.Render()
	return nil
}

// PrintResult renders the outcome of applying a plan.
func (p *Printer) PrintResult(result reconciler.Result) error {
	view := resultView{
		Applied:     result.Applied,
		Total:       result.Total,
		Success:     result.Success,
		FailedPhase: result.FailedPhase,
	}
	if result.Err != nil {
		view.Error = result.Err.Error()
	}
	if p.format != FormatTable {
		return p.encode(view)
	}

	status := text.FgGreen.Sprint("success")
	if !result.Success {
		status = text.FgRed.Sprint("failed")
	}

	t := p.newTable()
	t.SetTitle("Cleanup")
	t.AppendRow(table.Row{header("STATUS"), status})
	t.AppendRow(table.Row{header("APPLIED"), fmt.Sprintf("%d/%d", result.Applied, result.Total)})
	if view.FailedPhase != reconciler.PhaseNone {
		t.AppendRow(table.Row{header("FAILED PHASE"), string(view.FailedPhase)})
	}
	if view.Error != "" {
		t.AppendRow(table.Row{header("ERROR"), text.FgRed.Sprint(view.Error)})
	}
	t.Render()
	return nil
}

// PrintRunStarted renders the acknowledgement of a remote run.
func (p *Printer) PrintRunStarted(resp server.RunResponse) error {
	if p.format != FormatTable {
		return p.encode(resp)
	}
	_, err := fmt.Fprintf(p.out, "%s %s\n  %s %s\n",
		text.FgGreen.Sprint("✓"), resp.Message,
		text.FgHiBlue.Sprint("Pass:"), resp.PassID)
	return err
}

// PrintContexts renders the stored trigger contexts, marking the current one.
func (p *Printer) PrintContexts(contexts []rctx.Context, current string) error {
	if p.format != FormatTable {
		if contexts == nil {
			contexts = []rctx.Context{}
		}
		return p.encode(struct {
			CurrentContext string         `json:"currentContext,omitempty"`
			Contexts       []rctx.Context `json:"contexts"`
		}{current, contexts})
	}

	if len(contexts) == 0 {
		_, err := fmt.Fprintf(p.out, "%s\n", text.FgYellow.Sprint("No contexts defined; add one with 'raccoon context add NAME ENDPOINT'"))
		return err
	}

	t := p.newTable()
	t.AppendHeader(table.Row{header("CURRENT"), header("NAME"), header("ENDPOINT"), header("OUTPUT")})
	for _, c := range contexts {
		marker := ""
		if c.Name == current {
			marker = text.FgGreen.Sprint("*")
		}
		t.AppendRow(table.Row{marker, c.Name, c.Endpoint, c.Output})
	}
	t.Render()
	return nil
}

func (p *Printer) encode(v any) error {
	switch p.format {
	case FormatYAML:
		data, err := yaml.Marshal(v)
		if err != nil {
			return fmt.Errorf("failed to render yaml: %w", err)
		}
		_, err = p.out.Write(data)
		return err
	default:
		_, err := fmt.Fprintln(p.out, PrettyJSON(v))
		return err
	}
}

func (p *Printer) newTable() table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(p.out)
	t.SetStyle(table.StyleRounded)
	return t
}

func header(s string) string {
	return text.FgHiCyan.Sprint(s)
}

func countCell(n int) string {
	if n == 0 {
		return text.FgGreen.Sprint(n)
	}
	return text.FgYellow.Sprint(n)
}

func stateCell(s api.RunState) string {
	if s == api.RunStateComplete {
		return text.FgGreen.Sprint(s)
	}
	return text.FgRed.Sprint(s)
}

func deleteRow(ref api.ResourceRef) table.Row {
	return table.Row{
		text.FgRed.Sprint("delete"),
		ref.Cluster,
		ref.ID,
		string(ref.Kind),
	}
}
