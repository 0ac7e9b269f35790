package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/thucvanminh/mywallet/internal/common"
	"github.com/thucvanminh/mywallet/internal/service"
)

// relayClient implements the Client interface against a serverless relay
// function that owns the model key. The wire shape is the function's contract:
// {audio, categories, currentDate} in, {transactions} or {error} out.
type relayClient struct {
	httpClient *http.Client
	endpoint   string
	apiKey     string
}

// newRelayClient creates a client for a hosted extraction function.
func newRelayClient(cfg Config) (Client, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("%w: relay endpoint is required", common.ErrMissingConfig)
	}

	return &relayClient{
		endpoint: cfg.Endpoint,
		apiKey:   cfg.APIKey,
		httpClient: &http.Client{
			Timeout: cfg.timeout(),
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}, nil
}

type relayRequest struct {
	Audio       string   `json:"audio"`
	Categories  []string `json:"categories"`
	CurrentDate string   `json:"currentDate"`
}

type relayResponse struct {
	Transactions json.RawMessage `json:"transactions"`
	Error        string          `json:"error"`
}

// Extract performs the single round trip to the relay endpoint.
func (c *relayClient) Extract(ctx context.Context, req service.ExtractionRequest) ([]service.Candidate, error) {
	jsonBody, err := json.Marshal(relayRequest{
		Audio:       req.AudioBase64,
		Categories:  req.Categories,
		CurrentDate: req.CurrentDate.Format("2006-01-02"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(string(jsonBody)))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrTransportFailure, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %v", common.ErrTransportFailure, err)
	}

	var response relayResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("%w: malformed relay response (status %d): %v", common.ErrTransportFailure, resp.StatusCode, err)
	}

	if response.Error != "" {
		return nil, fmt.Errorf("%w: relay error: %s", common.ErrTransportFailure, response.Error)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: relay error (status %d): %s", common.ErrTransportFailure, resp.StatusCode, string(body))
	}
	if len(response.Transactions) == 0 {
		return nil, fmt.Errorf("%w: relay response has no transactions field", common.ErrTransportFailure)
	}

	return parseCandidates(string(response.Transactions))
}
