package postgrest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// =============================================================================
// Client: PostgREST data-gateway client
// The gateway is the sole persistence path: every repository call goes through
// here as a single HTTP round trip, no retries.
// =============================================================================

// GatewayError carries the gateway's error body for a non-2xx response.
type GatewayError struct {
	StatusCode int
	Message    string `json:"message"`
	Code       string `json:"code"`
	Details    string `json:"details"`
}

func (e *GatewayError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("gateway error [%d]: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("gateway error [%d]", e.StatusCode)
}

// Client issues requests against a PostgREST instance.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a gateway client. baseURL is taken from configuration;
// a trailing slash is stripped so resource paths can be joined directly.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Get fetches a resource. The resource string carries PostgREST filter
// syntax, e.g. "noun?active=eq.true". result must be a pointer.
func (c *Client) Get(ctx context.Context, resource string, result interface{}) error {
	return c.do(ctx, http.MethodGet, resource, nil, result)
}

// Post inserts rows. The response representation (including server-assigned
// ids) is decoded into result when non-nil.
func (c *Client) Post(ctx context.Context, resource string, body, result interface{}) error {
	return c.do(ctx, http.MethodPost, resource, body, result)
}

// Patch partially updates the rows selected by the resource filter and
// decodes the updated representation into result.
func (c *Client) Patch(ctx context.Context, resource string, body, result interface{}) error {
	return c.do(ctx, http.MethodPatch, resource, body, result)
}

// Delete removes the rows selected by the resource filter. The deleted
// representation is decoded into result when non-nil; a 204 with no body is
// accepted as-is.
func (c *Client) Delete(ctx context.Context, resource string, result interface{}) error {
	return c.do(ctx, http.MethodDelete, resource, nil, result)
}

func (c *Client) do(ctx context.Context, method, resource string, body, result interface{}) error {
	var bodyReader io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(bodyBytes)
	}

	url := c.baseURL + "/" + strings.TrimPrefix(resource, "/")
	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return fmt.Errorf("create gateway request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	// Writes return the persisted rows so callers get server-assigned ids.
	req.Header.Set("Prefer", "return=representation")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("gateway request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		gwErr := &GatewayError{StatusCode: resp.StatusCode}
		respBody, _ := io.ReadAll(resp.Body)
		if len(respBody) > 0 {
			// Best effort: propagate the gateway's error body where present.
			json.Unmarshal(respBody, gwErr)
		}
		if gwErr.Message == "" {
			gwErr.Message = http.StatusText(resp.StatusCode)
		}
		return gwErr
	}

	if resp.StatusCode == http.StatusNoContent || result == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("decode gateway response: %w", err)
	}
	return nil
}
