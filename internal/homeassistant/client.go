package homeassistant

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

// defaultTimeout bounds a single controller round trip.
const defaultTimeout = 15 * time.Second

// maxErrorBody caps how much of an error response body is kept for messages.
const maxErrorBody = 512

// EntityState is a controller entity's current state.
type EntityState struct {
	EntityID    string         `json:"entity_id"`
	State       string         `json:"state"`
	Attributes  map[string]any `json:"attributes,omitempty"`
	LastChanged time.Time      `json:"last_changed"`
}

// Client talks to the remote control service over its REST API.
// All methods are safe for concurrent use.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient creates a controller client. A zero timeout uses the default.
func NewClient(baseURL, token string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// ReadState fetches the current state of an entity.
func (c *Client) ReadState(ctx context.Context, entityID string) (*EntityState, error) {
	body, err := c.do(ctx, http.MethodGet, "/api/states/"+entityID, nil)
	if err != nil {
		return nil, err
	}

	var state EntityState
	if err := json.Unmarshal(body, &state); err != nil {
		return nil, fmt.Errorf("decoding state for %s: %w", entityID, err)
	}
	return &state, nil
}

// Invoke calls a controller service against an entity, e.g.
// Invoke(ctx, "lock", "unlock", "lock.front_door", nil). Extra params are
// merged into the service payload alongside the entity ID.
func (c *Client) Invoke(ctx context.Context, domain, command, entityID string, params map[string]any) error {
	payload := map[string]any{"entity_id": entityID}
	for k, v := range params {
		payload[k] = v
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshalling service payload: %w", err)
	}

	_, err = c.do(ctx, http.MethodPost, fmt.Sprintf("/api/services/%s/%s", domain, command), body)
	return err
}

// do performs one authenticated round trip and maps the response status to
// the package error taxonomy.
func (c *Client) do(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Transport errors (DNS, refused connection, timeout) are
		// connectivity failures, not command failures.
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %w", ErrUnavailable, err)
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return respBody, nil
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrEntityNotFound
	case resp.StatusCode == http.StatusBadGateway,
		resp.StatusCode == http.StatusServiceUnavailable,
		resp.StatusCode == http.StatusGatewayTimeout:
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	default:
		return nil, &StatusError{Code: resp.StatusCode, Body: truncate(respBody)}
	}
}

func truncate(b []byte) string {
	if len(b) > maxErrorBody {
		return string(b[:maxErrorBody])
	}
	return string(b)
}
