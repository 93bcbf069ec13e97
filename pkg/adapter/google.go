package adapter

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// GeminiAdapter implements the Adapter interface for Gemini models.
type GeminiAdapter struct {
	client *genai.Client
}

// NewGeminiAdapter creates a new Google Gemini adapter.
func NewGeminiAdapter(apiKey string) (*GeminiAdapter, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &GeminiAdapter{
		client: client,
	}, nil
}

// Name returns the adapter identifier.
func (a *GeminiAdapter) Name() string {
	return "gemini"
}

// Models returns the list of supported Gemini models.
func (a *GeminiAdapter) Models() []string {
	return []string{
		"gemini-2.0-pro",
		"gemini-2.0-flash",
	}
}

// Generate sends a prompt to Gemini and returns the response.
func (a *GeminiAdapter) Generate(ctx context.Context, model string, prompt string) (*Response, error) {
	resp, err := a.client.Models.GenerateContent(ctx, model, genai.Text(prompt), nil)
	if err != nil {
		return nil, fmt.Errorf("gemini API error: %w", err)
	}

	if resp == nil || len(resp.Candidates) == 0 {
		return nil, fmt.Errorf("gemini returned no candidates")
	}

	var content string
	if resp.Candidates[0].Content != nil {
		for _, part := range resp.Candidates[0].Content.Parts {
			if part.Text != "" {
				content += part.Text
			}
		}
	}

	return NewResponse(content, a.Name(), model), nil
}
