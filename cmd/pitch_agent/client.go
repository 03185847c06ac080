package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jonathan/creator-pitch/internal/server"
	"github.com/jonathan/creator-pitch/internal/types"
)

const (
	defaultPollInterval = 3 * time.Second
	defaultPollAttempts = 60
)

// apiClient talks to a running pitch server.
type apiClient struct {
	baseURL    string
	httpClient *http.Client

	pollInterval time.Duration
	pollAttempts int
}

func newAPIClient(baseURL string) *apiClient {
	return &apiClient{
		baseURL:      strings.TrimRight(baseURL, "/"),
		httpClient:   &http.Client{Timeout: 5 * time.Minute},
		pollInterval: defaultPollInterval,
		pollAttempts: defaultPollAttempts,
	}
}

// apiError is a non-2xx answer from the server.
type apiError struct {
	StatusCode int
	Message    string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Message)
}

func (c *apiClient) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var e struct {
			Error string `json:"error"`
		}
		msg := strings.TrimSpace(string(data))
		if json.Unmarshal(data, &e) == nil && e.Error != "" {
			msg = e.Error
		}
		return &apiError{StatusCode: resp.StatusCode, Message: msg}
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func withSort(path, sort string) string {
	if sort == "" {
		return path
	}
	return path + "?sort=" + url.QueryEscape(sort)
}

// Enrich triggers enrichment. The answer is complete or pending.
func (c *apiClient) Enrich(ctx context.Context, req types.EnrichRequest, sort string) (*server.ResultResponse, error) {
	var out server.ResultResponse
	if err := c.do(ctx, http.MethodPost, withSort("/api/enrich", sort), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Status reads the state of an asynchronous job.
func (c *apiClient) Status(ctx context.Context, requestID, sort string) (*server.ResultResponse, error) {
	var out server.ResultResponse
	path := withSort("/api/enrich/"+url.PathEscape(requestID), sort)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Wait polls until the job completes or the attempts run out.
func (c *apiClient) Wait(ctx context.Context, requestID, sort string, progress func(attempt int)) (*server.ResultResponse, error) {
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for attempt := 1; attempt <= c.pollAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}

		resp, err := c.Status(ctx, requestID, sort)
		if err != nil {
			return nil, err
		}
		if resp.Status == string(types.JobComplete) {
			return resp, nil
		}
		if progress != nil {
			progress(attempt)
		}
	}
	return nil, fmt.Errorf("request %s still pending after %d attempts", requestID, c.pollAttempts)
}

// Strategy asks the server for pitch strategies.
func (c *apiClient) Strategy(ctx context.Context, req types.StrategyRequest) (*types.StrategyResult, error) {
	var out types.StrategyResult
	if err := c.do(ctx, http.MethodPost, "/api/agent", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Summarize asks the server for a creator summary.
func (c *apiClient) Summarize(ctx context.Context, creator *types.CreatorProfile) (*types.CreatorSummary, error) {
	var out types.CreatorSummary
	if err := c.do(ctx, http.MethodPost, "/api/summarize", types.SummarizeRequest{Creator: creator}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
