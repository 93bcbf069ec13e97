package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

const (
	grokBaseURL    = "https://api.x.ai/v1"
	mistralBaseURL = "https://api.mistral.ai/v1"
)

// CompatAdapter implements the Adapter interface for providers exposing an
// OpenAI-compatible chat completions API.
type CompatAdapter struct {
	name       string
	apiKey     string
	baseURL    string
	models     []string
	httpClient *http.Client
}

// compatRequest represents the OpenAI-compatible request format.
type compatRequest struct {
	Model       string          `json:"model"`
	Messages    []compatMessage `json:"messages"`
	MaxTokens   int             `json:"max_tokens,omitempty"`
	Temperature float64         `json:"temperature,omitempty"`
}

// compatMessage represents a chat message.
type compatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// compatResponse represents the OpenAI-compatible response format.
type compatResponse struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	Created int64  `json:"created"`
	Model   string `json:"model"`
	Choices []struct {
		Index   int `json:"index"`
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error,omitempty"`
}

// NewGrokAdapter creates an adapter for xAI Grok models.
func NewGrokAdapter(apiKey string) (*CompatAdapter, error) {
	return newCompatAdapter("grok", apiKey, grokBaseURL, []string{"grok-3", "grok-3-mini"})
}

// NewMistralAdapter creates an adapter for Mistral models.
func NewMistralAdapter(apiKey string) (*CompatAdapter, error) {
	return newCompatAdapter("mistral", apiKey, mistralBaseURL, []string{"mistral-large-latest", "mistral-small-latest"})
}

// NewCompatAdapter creates an adapter for any OpenAI-compatible endpoint.
func NewCompatAdapter(name, apiKey, baseURL string, models []string) (*CompatAdapter, error) {
	return newCompatAdapter(name, apiKey, baseURL, models)
}

func newCompatAdapter(name, apiKey, baseURL string, models []string) (*CompatAdapter, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%s API key is required", name)
	}

	return &CompatAdapter{
		name:       name,
		apiKey:     apiKey,
		baseURL:    baseURL,
		models:     models,
		httpClient: &http.Client{},
	}, nil
}

// Name returns the adapter identifier.
func (a *CompatAdapter) Name() string {
	return a.name
}

// Models returns the list of supported models.
func (a *CompatAdapter) Models() []string {
	out := make([]string, len(a.models))
	copy(out, a.models)
	return out
}

// Generate sends a prompt through the chat completions endpoint.
func (a *CompatAdapter) Generate(ctx context.Context, model string, prompt string) (*Response, error) {
	reqBody := compatRequest{
		Model: model,
		Messages: []compatMessage{
			{Role: "user", Content: prompt},
		},
		MaxTokens: 4096,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", a.baseURL+"/chat/completions", bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+a.apiKey)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s API request failed: %w", a.name, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var compatResp compatResponse
	if err := json.Unmarshal(body, &compatResp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if compatResp.Error != nil {
		return nil, &AdapterError{
			Provider: a.name,
			Status:   resp.StatusCode,
			Err: fmt.Errorf("API error: %s (type: %s, code: %s)",
				compatResp.Error.Message, compatResp.Error.Type, compatResp.Error.Code),
		}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &AdapterError{
			Provider: a.name,
			Status:   resp.StatusCode,
			Err:      fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body)),
		}
	}

	if len(compatResp.Choices) == 0 {
		return nil, fmt.Errorf("%s returned no choices", a.name)
	}

	out := NewResponse(compatResp.Choices[0].Message.Content, a.name, model)
	out.Usage = &Usage{
		PromptTokens:     compatResp.Usage.PromptTokens,
		CompletionTokens: compatResp.Usage.CompletionTokens,
		TotalTokens:      compatResp.Usage.TotalTokens,
	}
	return out, nil
}
