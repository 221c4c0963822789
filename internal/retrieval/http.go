package retrieval

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"revintel/internal/logging"
	"revintel/internal/types"
)

// HTTPClient talks to a hosted retrieval backend over JSON/HTTP.
// Endpoints:
//
//	POST {base}/v1/retrieve        {"query":..., "filter":...} -> Result
//	GET  {base}/v1/benchmarks/{icp}                            -> IndustryBenchmarks (404 = none)
//	GET  {base}/v1/market/{icp}                                -> MarketTrends
type HTTPClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewHTTPClient builds a client for the given backend. A zero timeout
// defaults to 30s per call.
func NewHTTPClient(baseURL, apiKey string, timeout time.Duration) *HTTPClient {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
	}
}

// Retrieve implements Client.
func (c *HTTPClient) Retrieve(ctx context.Context, query string, filter Filter) (*Result, error) {
	body, err := json.Marshal(map[string]any{"query": query, "filter": filter})
	if err != nil {
		return nil, fmt.Errorf("failed to encode retrieve request: %w", err)
	}

	var result Result
	if err := c.do(ctx, http.MethodPost, "/v1/retrieve", body, &result); err != nil {
		return nil, err
	}
	logging.RetrievalDebug("retrieve %q: %d tools, %d patterns", query, len(result.Tools), len(result.Patterns))
	return &result, nil
}

// Benchmarks implements Client. A 404 means the backend has no baseline for
// this segment and is reported as (nil, nil).
func (c *HTTPClient) Benchmarks(ctx context.Context, icp types.ICP) (*types.IndustryBenchmarks, error) {
	var bench types.IndustryBenchmarks
	err := c.do(ctx, http.MethodGet, "/v1/benchmarks/"+url.PathEscape(string(icp)), nil, &bench)
	if err != nil {
		if errors404(err) {
			return nil, nil
		}
		return nil, err
	}
	return &bench, nil
}

// MarketContext implements Client.
func (c *HTTPClient) MarketContext(ctx context.Context, icp types.ICP) (*types.MarketTrends, error) {
	var trends types.MarketTrends
	if err := c.do(ctx, http.MethodGet, "/v1/market/"+url.PathEscape(string(icp)), nil, &trends); err != nil {
		return nil, err
	}
	return &trends, nil
}

// statusError distinguishes HTTP status failures from transport failures.
type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("retrieval backend returned status %d", e.code)
}

func errors404(err error) bool {
	se, ok := err.(*statusError)
	return ok && se.code == http.StatusNotFound
}

func (c *HTTPClient) do(ctx context.Context, method, path string, body []byte, out any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &statusError{code: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode retrieval response: %w", err)
	}
	return nil
}
