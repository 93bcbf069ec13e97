package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const huggingfaceBaseURL = "https://api-inference.huggingface.co/models"

// HuggingFaceAdapter implements the Adapter interface against the Hugging
// Face inference API. Models are addressed by repo name.
type HuggingFaceAdapter struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

type huggingfaceRequest struct {
	Inputs     string                 `json:"inputs"`
	Parameters map[string]interface{} `json:"parameters,omitempty"`
}

// The inference API answers with a bare array of generated sequences.
type huggingfaceGeneration struct {
	GeneratedText string `json:"generated_text"`
	SummaryText   string `json:"summary_text"`
}

type huggingfaceError struct {
	Error string `json:"error"`
}

// NewHuggingFaceAdapter creates a new Hugging Face adapter.
func NewHuggingFaceAdapter(apiKey string) (*HuggingFaceAdapter, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("huggingface API key is required")
	}

	return &HuggingFaceAdapter{
		apiKey:     apiKey,
		baseURL:    huggingfaceBaseURL,
		httpClient: &http.Client{},
	}, nil
}

// Name returns the adapter identifier.
func (a *HuggingFaceAdapter) Name() string {
	return "huggingface"
}

// Models returns the list of supported model repos.
func (a *HuggingFaceAdapter) Models() []string {
	return []string{
		"facebook/bart-large-cnn",
		"ProsusAI/finbert",
		"mistralai/Mistral-7B-Instruct-v0.3",
	}
}

// Generate sends a prompt to the inference API and returns the response.
func (a *HuggingFaceAdapter) Generate(ctx context.Context, model string, prompt string) (*Response, error) {
	reqBody := huggingfaceRequest{Inputs: prompt}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := a.baseURL + "/" + strings.TrimPrefix(model, "/")
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+a.apiKey)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("huggingface API request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr huggingfaceError
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error != "" {
			return nil, &AdapterError{
				Provider:  a.Name(),
				Status:    resp.StatusCode,
				Temporary: resp.StatusCode == http.StatusServiceUnavailable, // model cold start
				Err:       fmt.Errorf("API error: %s", apiErr.Error),
			}
		}
		return nil, &AdapterError{
			Provider: a.Name(),
			Status:   resp.StatusCode,
			Err:      fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body)),
		}
	}

	var generations []huggingfaceGeneration
	if err := json.Unmarshal(body, &generations); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if len(generations) == 0 {
		return nil, fmt.Errorf("huggingface returned no generations")
	}

	content := generations[0].GeneratedText
	if content == "" {
		content = generations[0].SummaryText
	}

	return NewResponse(content, a.Name(), model), nil
}
