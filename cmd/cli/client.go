package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/codecritic/codecritic/internal/core"
)

// apiClient is a thin HTTP client for the review service.
type apiClient struct {
	baseURL string
	client  *http.Client
}

func newAPIClient() *apiClient {
	base := viper.GetString("SERVER")
	if base == "" {
		base = serverURL
	}
	return &apiClient{
		baseURL: strings.TrimRight(base, "/"),
		client:  &http.Client{Timeout: 2 * time.Minute},
	}
}

// Review submits code for review and returns the service's result.
func (c *apiClient) Review(ctx context.Context, req *core.ReviewRequest) (*core.ReviewResult, error) {
	var result core.ReviewResult
	if err := c.post(ctx, "/review", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// History fetches all stored reviews, newest first.
func (c *apiClient) History(ctx context.Context) ([]core.StoredReview, error) {
	var resp struct {
		History []core.StoredReview `json:"history"`
	}
	if err := c.get(ctx, "/history", &resp); err != nil {
		return nil, err
	}
	return resp.History, nil
}

// HistoryByID fetches one stored review.
func (c *apiClient) HistoryByID(ctx context.Context, id int64) (*core.StoredReview, error) {
	var stored core.StoredReview
	if err := c.get(ctx, fmt.Sprintf("/history/%d", id), &stored); err != nil {
		return nil, err
	}
	return &stored, nil
}

func (c *apiClient) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *apiClient) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *apiClient) do(req *http.Request, out any) error {
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("calling review service: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("%s (status %d)", apiErr.Error, resp.StatusCode)
		}
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	return json.Unmarshal(respBody, out)
}
