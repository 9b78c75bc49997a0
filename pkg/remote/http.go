package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/edukit/assignflow/pkg/models"
)

const defaultRequestTimeout = 30 * time.Second

// HTTPClient implements Client against the assignflow HTTP API.
type HTTPClient struct {
	baseURL string
	client  *http.Client
}

// NewHTTPClient creates a client for the API at baseURL. A zero timeout
// falls back to the default request timeout.
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}

	return &HTTPClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

func (c *HTTPClient) Create(ctx context.Context, payload models.AssignmentPayload) (*MutationResult, error) {
	result := &MutationResult{}
	if err := c.do(ctx, http.MethodPost, "/assignments", payload, result); err != nil {
		return nil, err
	}

	return result, nil
}

func (c *HTTPClient) Update(ctx context.Context, id string, payload models.AssignmentPayload) (*MutationResult, error) {
	result := &MutationResult{}
	if err := c.do(ctx, http.MethodPatch, "/assignments/"+id, payload, result); err != nil {
		return nil, err
	}

	return result, nil
}

func (c *HTTPClient) Publish(ctx context.Context, id string, payload models.AssignmentPayload) (*MutationResult, error) {
	result := &MutationResult{}
	if err := c.do(ctx, http.MethodPost, "/assignments/"+id+"/publish", payload, result); err != nil {
		return nil, err
	}

	return result, nil
}

func (c *HTTPClient) Load(ctx context.Context, id string) (*models.Assignment, error) {
	assignment := &models.Assignment{}
	if err := c.do(ctx, http.MethodGet, "/assignments/"+id, nil, assignment); err != nil {
		return nil, err
	}

	return assignment, nil
}

// do issues one request and maps the outcome into the failure shapes the
// classifier understands: StatusError for non-2xx responses, ErrTimedOut or
// ErrNetworkUnreachable for transport failures.
func (c *HTTPClient) do(ctx context.Context, method, path string, payload any, out any) error {
	var body io.Reader

	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}

		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return transportError(err)
	}

	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return transportError(err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		errorBody := &ErrorBody{}
		// A malformed or empty error body still classifies by status code.
		_ = json.Unmarshal(raw, errorBody)

		return &StatusError{StatusCode: resp.StatusCode, Body: errorBody}
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

func transportError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", ErrTimedOut, err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %w", ErrTimedOut, err)
	}

	return fmt.Errorf("%w: %w", ErrNetworkUnreachable, err)
}
