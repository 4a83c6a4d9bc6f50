package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/jedib0t/go-pretty/v6/text"

	"raccoon/internal/reconciler"
	"raccoon/internal/server"
	"raccoon/pkg/logging"
	pkgstrings "raccoon/pkg/strings"
)

const (
	// DefaultEndpoint is the address of a local 'raccoon serve'.
	DefaultEndpoint = "http://localhost:8080"

	// DefaultTriggerTimeout bounds remote dry runs and plans.
	DefaultTriggerTimeout = 2 * time.Minute

	maxResponseBytes = 8 << 20
)

// TriggerOptions configures a TriggerClient.
type TriggerOptions struct {
	// Quiet disables the progress spinner.
	Quiet bool

	// Timeout bounds each request; 0 uses DefaultTriggerTimeout.
	Timeout time.Duration

	// HTTPClient overrides the default client.
	HTTPClient *http.Client

	// SpinnerOutput receives the spinner; defaults to os.Stderr.
	SpinnerOutput io.Writer
}

// TriggerClient drives a running raccoon server over HTTP.
type TriggerClient struct {
	endpoint   string
	httpClient *http.Client
	options    TriggerOptions
}

// NewTriggerClient creates a client for the server at endpoint.
func NewTriggerClient(endpoint string, options TriggerOptions) *TriggerClient {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if options.Timeout <= 0 {
		options.Timeout = DefaultTriggerTimeout
	}
	if options.SpinnerOutput == nil {
		options.SpinnerOutput = os.Stderr
	}
	httpClient := options.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: options.Timeout}
	}
	return &TriggerClient{
		endpoint:   strings.TrimRight(endpoint, "/"),
		httpClient: httpClient,
		options:    options,
	}
}

// Endpoint returns the server base URL.
func (c *TriggerClient) Endpoint() string {
	return c.endpoint
}

// Run asks the server to start a full pass.
func (c *TriggerClient) Run(ctx context.Context) (server.RunResponse, error) {
	var resp server.RunResponse
	err := c.call(ctx, http.MethodPost, "/run", "Starting cleanup...", &resp)
	return resp, err
}

// DryRun asks the server for the plan counts.
func (c *TriggerClient) DryRun(ctx context.Context) (reconciler.DryRunSummary, error) {
	var summary reconciler.DryRunSummary
	err := c.call(ctx, http.MethodPost, "/dry-run", "Computing dry run...", &summary)
	return summary, err
}

// Plan asks the server for the full plan.
func (c *TriggerClient) Plan(ctx context.Context) (*reconciler.Plan, error) {
	var plan reconciler.Plan
	if err := c.call(ctx, http.MethodGet, "/plan", "Computing plan...", &plan); err != nil {
		return nil, err
	}
	return &plan, nil
}

func (c *TriggerClient) call(ctx context.Context, method, path, progress string, out any) error {
	var s *spinner.Spinner
	if !c.options.Quiet {
		s = spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(c.options.SpinnerOutput))
		s.Suffix = " " + progress
		s.Start()
	}

	err := c.do(ctx, method, path, out)

	if s != nil {
		if err != nil {
			s.FinalMSG = text.FgRed.Sprint("Request failed") + "\n"
		}
		s.Stop()
	}
	return err
}

func (c *TriggerClient) do(ctx context.Context, method, path string, out any) error {
	url := c.endpoint + path
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return fmt.Errorf("failed to build request for %s: %w", url, err)
	}
	req.Header.Set("Accept", "application/json")

	logging.Debug("CLI", "%s %s", method, url)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return ClassifyConnectionError(err, c.endpoint)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("failed to read response from %s: %w", url, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var errResp server.ErrorResponse
		message := pkgstrings.Summarize(strings.TrimSpace(string(body)), 200)
		if json.Unmarshal(body, &errResp) == nil && errResp.Message != "" {
			message = errResp.Message
		}
		return &ServerError{Endpoint: c.endpoint, StatusCode: resp.StatusCode, Message: message}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", url, err)
	}
	return nil
}
