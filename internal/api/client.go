// Package api also provides the HTTP client for the comparison API.
package api

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sudo-tiz/dns-compare-go/internal/models"
)

// Client wraps http.Client for API requests.
type Client struct {
	baseURL string
	hc      *http.Client
}

// NewClient configures HTTP client with optional TLS verification skip.
func NewClient(baseURL string, timeout time.Duration, insecure bool) *Client {
	tr := &http.Transport{}
	if insecure {
		//nolint:gosec
		tr.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		hc:      &http.Client{Timeout: timeout, Transport: tr},
	}
}

// EnqueueCompare posts a comparison request and returns the task ID.
func (c *Client) EnqueueCompare(ctx context.Context, req models.CompareRequest) (string, error) {
	b, err := json.Marshal(req)
	if err != nil {
		return "", err
	}
	url := c.baseURL + "/compare"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(string(b)))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	resp, err := c.hc.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("api error: %s", string(body))
	}
	var out models.TaskResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	return out.TaskID, nil
}

// GetTaskStatus polls task status from API.
func (c *Client) GetTaskStatus(ctx context.Context, taskID string) (*models.TaskStatusResponse, error) {
	url := c.baseURL + "/tasks/" + taskID
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.hc.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("api error: %s", string(body))
	}
	var out models.TaskStatusResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

// WaitForResult polls until the task completes or ctx expires.
func (c *Client) WaitForResult(ctx context.Context, taskID string, pollInterval time.Duration) (*models.CompareResults, error) {
	for {
		status, err := c.GetTaskStatus(ctx, taskID)
		if err != nil {
			return nil, err
		}

		switch status.Status {
		case "SUCCESS":
			return status.Result, nil
		case "FAILURE":
			if status.Error != nil {
				return nil, fmt.Errorf("task failed: %s", *status.Error)
			}
			return nil, fmt.Errorf("task failed")
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(pollInterval):
		}
	}
}
