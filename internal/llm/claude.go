package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jonathan/docgen/internal/types"
)

const (
	// claudeAPIEndpoint is the Anthropic Messages API endpoint.
	claudeAPIEndpoint = "https://api.anthropic.com/v1/messages"
	// claudeAPIVersion is the API version header value.
	claudeAPIVersion = "2023-06-01"
	// DefaultClaudeModel is used when no model override is configured.
	DefaultClaudeModel = "claude-sonnet-4-20250514"
)

// ClaudeClient implements Client for the Anthropic Messages API.
type ClaudeClient struct {
	apiKey     string
	model      string
	endpoint   string
	httpClient *http.Client
}

// NewClaudeClient creates a new Claude client.
func NewClaudeClient(opts Options) (*ClaudeClient, error) {
	if opts.APIKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	model := opts.Model
	if model == "" {
		model = DefaultClaudeModel
	}

	return &ClaudeClient{
		apiKey:   opts.APIKey,
		model:    model,
		endpoint: claudeAPIEndpoint,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
	}, nil
}

type claudeRequest struct {
	Model     string          `json:"model"`
	MaxTokens int             `json:"max_tokens"`
	Messages  []claudeMessage `json:"messages"`
}

type claudeMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type claudeResponse struct {
	Content []struct {
		Text string `json:"text"`
	} `json:"content"`
	Usage struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

// GenerateJSON sends the prompt and returns the cleaned JSON response text.
func (c *ClaudeClient) GenerateJSON(ctx context.Context, prompt string) (string, types.TokenUsage, error) {
	var usage types.TokenUsage

	reqBody, err := json.Marshal(claudeRequest{
		Model:     c.model,
		MaxTokens: 4096,
		Messages:  []claudeMessage{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", usage, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(reqBody))
	if err != nil {
		return "", usage, fmt.Errorf("failed to create HTTP request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Api-Key", c.apiKey)
	httpReq.Header.Set("Anthropic-Version", claudeAPIVersion)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", usage, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", usage, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", usage, fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(respBody))
	}

	var parsed claudeResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", usage, fmt.Errorf("failed to parse Claude response: %w", err)
	}
	if len(parsed.Content) == 0 {
		return "", usage, fmt.Errorf("no content in Claude response")
	}

	usage.InputTokens = parsed.Usage.InputTokens
	usage.OutputTokens = parsed.Usage.OutputTokens

	return CleanJSONBlock(parsed.Content[0].Text), usage, nil
}

// Model returns the configured model name.
func (c *ClaudeClient) Model() string {
	return c.model
}

// Close is a no-op; the client holds no persistent resources.
func (c *ClaudeClient) Close() error {
	return nil
}
