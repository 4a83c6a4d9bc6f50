package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"raccoon/internal/api"
	"raccoon/pkg/logging"
)

const (
	// DefaultPageSize is the number of runs requested per GraphQL page.
	DefaultPageSize = 20

	// DefaultRDPCTimeout bounds a single GraphQL request.
	DefaultRDPCTimeout = 30 * time.Second

	// ResourceIDHeader names the gateway resource the token is issued for.
	ResourceIDHeader = "X-Resource-ID"

	// DefaultResourceID is the value sent in ResourceIDHeader.
	DefaultResourceID = "rdpcOauth"
)

const runsQuery = `query ($from: Int!, $size: Int!, $state: String!) {
  runs(filter: {state: $state}, sorts: {fieldName: startTime, order: asc}, page: {from: $from, size: $size}) {
    info {
      hasNextFrom
    }
    content {
      runId
      sessionId
      repository
      state
      startTime
    }
  }
}`

// RDPCOptions configures an RDPCClient.
type RDPCOptions struct {
	// URL is the GraphQL endpoint.
	URL string

	// TokenURL, ClientID and ClientSecret are the OAuth2 client credentials.
	// An empty TokenURL sends requests unauthenticated.
	TokenURL     string
	ClientID     string
	ClientSecret string

	// ActiveStates are the registry states treated as active. Defaults to RUNNING.
	ActiveStates []api.RunState

	PageSize   int
	Timeout    time.Duration
	ResourceID string

	// HTTPClient is the base client used for both token and GraphQL requests.
	HTTPClient *http.Client
}

// RDPCClient lists active runs from the RDPC GraphQL gateway. It implements
// api.RunRegistry.
type RDPCClient struct {
	url          string
	httpClient   *http.Client
	activeStates []api.RunState
	pageSize     int
}

// NewRDPCClient creates a client. ctx only scopes the token source's HTTP
// client and is not retained for requests.
func NewRDPCClient(ctx context.Context, options RDPCOptions) *RDPCClient {
	if options.PageSize <= 0 {
		options.PageSize = DefaultPageSize
	}
	if options.Timeout <= 0 {
		options.Timeout = DefaultRDPCTimeout
	}
	if options.ResourceID == "" {
		options.ResourceID = DefaultResourceID
	}
	if len(options.ActiveStates) == 0 {
		options.ActiveStates = []api.RunState{api.RunStateRunning}
	}

	base := options.HTTPClient
	if base == nil {
		base = &http.Client{Timeout: options.Timeout}
	}

	clone := *base
	httpClient := &clone
	if options.TokenURL != "" {
		creds := clientcredentials.Config{
			ClientID:     options.ClientID,
			ClientSecret: options.ClientSecret,
			TokenURL:     options.TokenURL,
		}
		httpClient = creds.Client(context.WithValue(ctx, oauth2.HTTPClient, base))
		httpClient.Timeout = options.Timeout
	}

	transport := httpClient.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}
	httpClient.Transport = &headerTransport{
		base:   transport,
		header: ResourceIDHeader,
		value:  options.ResourceID,
	}

	return &RDPCClient{
		url:          options.URL,
		httpClient:   httpClient,
		activeStates: options.ActiveStates,
		pageSize:     options.PageSize,
	}
}

// headerTransport adds a fixed header to every request.
type headerTransport struct {
	base   http.RoundTripper
	header string
	value  string
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set(t.header, t.value)
	return t.base.RoundTrip(req)
}

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type graphQLError struct {
	Message string `json:"message"`
}

type runsResponse struct {
	Data struct {
		Runs struct {
			Info struct {
				HasNextFrom bool `json:"hasNextFrom"`
			} `json:"info"`
			Content []gqlRun `json:"content"`
		} `json:"runs"`
	} `json:"data"`
	Errors []graphQLError `json:"errors"`
}

type gqlRun struct {
	RunID      string  `json:"runId"`
	SessionID  *string `json:"sessionId"`
	Repository string  `json:"repository"`
	State      string  `json:"state"`
	StartTime  *int64  `json:"startTime"`
}

// ListActiveRuns drains every page for each active state.
func (c *RDPCClient) ListActiveRuns(ctx context.Context) ([]api.ActiveRun, error) {
	var runs []api.ActiveRun
	for _, state := range c.activeStates {
		stateRuns, err := c.listRunsWithState(ctx, state)
		if err != nil {
			return nil, err
		}
		runs = append(runs, stateRuns...)
	}
	logging.Debug("RDPC", "Registry reports %d active run(s)", len(runs))
	return runs, nil
}

func (c *RDPCClient) listRunsWithState(ctx context.Context, state api.RunState) ([]api.ActiveRun, error) {
	var runs []api.ActiveRun
	for from := 0; ; from += c.pageSize {
		page, err := c.fetchPage(ctx, state, from)
		if err != nil {
			return nil, err
		}

		for _, r := range page.Data.Runs.Content {
			run, err := r.toActiveRun()
			if err != nil {
				return nil, err
			}
			runs = append(runs, run)
		}

		if !page.Data.Runs.Info.HasNextFrom {
			return runs, nil
		}
	}
}

func (c *RDPCClient) fetchPage(ctx context.Context, state api.RunState, from int) (*runsResponse, error) {
	payload, err := json.Marshal(graphQLRequest{
		Query: runsQuery,
		Variables: map[string]any{
			"from":  from,
			"size":  c.pageSize,
			"state": state.WireValue(),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode runs query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create runs request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs (from=%d): %w", from, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("runs query returned status %d: %s", resp.StatusCode, bytes.TrimSpace(body))
	}

	var page runsResponse
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("failed to decode runs response: %w", err)
	}
	if len(page.Errors) > 0 {
		return nil, fmt.Errorf("runs query failed: %s", page.Errors[0].Message)
	}

	logging.Debug("RDPC", "Fetched %d %s run(s) from offset %d", len(page.Data.Runs.Content), state, from)
	return &page, nil
}

func (r gqlRun) toActiveRun() (api.ActiveRun, error) {
	state, err := api.ParseRunState(r.State)
	if err != nil {
		return api.ActiveRun{}, fmt.Errorf("run %s: %w", r.RunID, err)
	}

	run := api.ActiveRun{
		RunID:       r.RunID,
		SessionID:   r.SessionID,
		WorkflowURL: r.Repository,
		State:       state,
	}
	if r.StartTime != nil {
		t := time.UnixMilli(*r.StartTime).UTC()
		run.StartTime = &t
	}
	return run, nil
}
