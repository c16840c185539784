package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/XpoolX/vitalgym-sub000/internal/storage"
)

// HTTPClient implements DataSource by calling the VitalGym REST API.
// Used for remote MCP mode where the binary runs locally (stdio) but data
// lives on the remote server, which resolves the member's identity from the
// transport. The userID arguments are therefore not sent over the wire.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

// Compile-time check: HTTPClient satisfies DataSource.
var _ DataSource = (*HTTPClient)(nil)

// NewHTTPClient creates an HTTPClient targeting the given base URL.
func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *HTTPClient) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("httpclient: create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("httpclient: %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("httpclient: reading %s: %w", path, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("httpclient: %s returned %d: %s", path, resp.StatusCode, body)
	}
	return body, nil
}

func (c *HTTPClient) CurrentDay(ctx context.Context, _ int) (*CurrentDayInfo, error) {
	body, err := c.get(ctx, "/api/v1/training/day", nil)
	if err != nil {
		return nil, err
	}
	var info CurrentDayInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, fmt.Errorf("httpclient: decoding current day: %w", err)
	}
	return &info, nil
}

func (c *HTTPClient) DayPlan(ctx context.Context, _ int, day int) ([]DayExercise, error) {
	body, err := c.get(ctx, fmt.Sprintf("/api/v1/training/day/%d/exercises", day), nil)
	if err != nil {
		return nil, err
	}
	var plan []DayExercise
	if err := json.Unmarshal(body, &plan); err != nil {
		return nil, fmt.Errorf("httpclient: decoding day plan: %w", err)
	}
	return plan, nil
}

func (c *HTTPClient) LastPerformance(ctx context.Context, _ int, assignmentID int) (*storage.LastPerformance, error) {
	body, err := c.get(ctx, fmt.Sprintf("/api/v1/training/exercises/%d/last", assignmentID), nil)
	if err != nil {
		return nil, err
	}
	var last storage.LastPerformance
	if err := json.Unmarshal(body, &last); err != nil {
		return nil, fmt.Errorf("httpclient: decoding last performance: %w", err)
	}
	return &last, nil
}

func (c *HTTPClient) History(ctx context.Context, _ int, limit int) ([]storage.SessionSummary, error) {
	params := url.Values{"limit": []string{strconv.Itoa(limit)}}
	body, err := c.get(ctx, "/api/v1/training/history", params)
	if err != nil {
		return nil, err
	}
	var history []storage.SessionSummary
	if err := json.Unmarshal(body, &history); err != nil {
		return nil, fmt.Errorf("httpclient: decoding history: %w", err)
	}
	return history, nil
}
