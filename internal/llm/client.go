package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/codecritic/codecritic/internal/config"
	"github.com/codecritic/codecritic/internal/core"
)

// Completer sends a prompt to a remote completion endpoint and returns the
// model's unparsed reply.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// GroqClient talks to Groq's OpenAI-compatible chat-completions endpoint.
// Model and temperature are fixed at construction time from configuration.
type GroqClient struct {
	apiKey      string
	baseURL     string
	model       string
	temperature float64
	client      *http.Client
}

// NewGroqClient creates a client for the configured model. The HTTP client's
// timeout bounds the whole completion call, so a hung provider surfaces as an
// UpstreamError instead of blocking the request forever.
func NewGroqClient(cfg *config.Config) *GroqClient {
	return &GroqClient{
		apiKey:      cfg.GroqAPIKey,
		baseURL:     cfg.GroqBaseURL,
		model:       cfg.ModelName,
		temperature: cfg.Temperature,
		client:      &http.Client{Timeout: cfg.LLMTimeout},
	}
}

// Complete sends one chat-completion request and returns the content of the
// first choice. Any transport, status, or decoding failure is reported as a
// *core.UpstreamError; no retry is attempted.
func (c *GroqClient) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	body := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		Temperature: c.temperature,
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("marshaling completion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("creating completion request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", &core.UpstreamError{Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &core.UpstreamError{Err: fmt.Errorf("reading response body: %w", err)}
	}

	if resp.StatusCode != http.StatusOK {
		return "", &core.UpstreamError{
			Status: resp.StatusCode,
			Err:    fmt.Errorf("%s", strings.TrimSpace(string(respBody))),
		}
	}

	var result chatResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", &core.UpstreamError{Err: fmt.Errorf("decoding completion response: %w", err)}
	}
	if len(result.Choices) == 0 {
		return "", &core.UpstreamError{Err: fmt.Errorf("no choices in completion response")}
	}

	return result.Choices[0].Message.Content, nil
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []chatChoice `json:"choices"`
}

type chatChoice struct {
	Message chatMessage `json:"message"`
}
