package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/courseline-dev/courseline/internal/errors"
	"github.com/courseline-dev/courseline/internal/logger"
	"github.com/courseline-dev/courseline/internal/session"
)

// APIClient handles all communication with the remote discussion API. It
// holds no UI state and performs no retries; policy lives with the caller.
type APIClient struct {
	BaseURL     string
	HttpClient  *http.Client
	Credentials session.CredentialProvider
}

// New creates a client for the discussion backend.
func New(baseURL string, credentials session.CredentialProvider) *APIClient {
	return &APIClient{
		BaseURL:     strings.TrimRight(baseURL, "/"),
		HttpClient:  &http.Client{},
		Credentials: credentials,
	}
}

// do is the single, unified helper for making API requests. A bearer token
// is attached when the credential provider has one; an absent token sends
// the request unauthenticated rather than failing client-side.
func (c *APIClient) do(ctx context.Context, method, path, operation string, body any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create API request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	requestId := uuid.NewString()
	req.Header.Set("X-Request-Id", requestId)

	if token := c.Credentials.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.HttpClient.Do(req)
	apiRequestDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	if err != nil {
		apiRequestsTotal.WithLabelValues(operation, "transport_error").Inc()
		logger.Log.Error("api request failed", "operation", operation, "request_id", requestId, "error", err)
		return nil, err
	}

	apiRequestsTotal.WithLabelValues(operation, strconv.Itoa(resp.StatusCode)).Inc()
	return resp, nil
}

// fail drains the response and maps it to the fixed action message. The
// backend's own detail is logged, not surfaced.
func fail(resp *http.Response, action string) error {
	detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	logger.Log.Error("api returned non-success status",
		"action", action, "status", resp.StatusCode, "detail", string(detail))
	return errors.New("Failed to "+action, resp.StatusCode)
}

func success(statusCode int) bool {
	return statusCode >= 200 && statusCode < 300
}

func decode(body io.Reader, out any) error {
	if err := json.NewDecoder(body).Decode(out); err != nil {
		return fmt.Errorf("cannot decode API response: %w", err)
	}
	return nil
}
