package adapter

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Adapter defines the interface for LLM provider backends.
type Adapter interface {
	// Generate sends a prompt to the model and returns a response.
	Generate(ctx context.Context, model string, prompt string) (*Response, error)

	// Name returns the adapter's identifier.
	Name() string

	// Models returns the list of supported models.
	Models() []string
}

// Usage captures normalized token usage.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Response is an immutable model output with a content hash for audit
// records.
type Response struct {
	Content   string    `json:"content"`
	Adapter   string    `json:"adapter"`
	Model     string    `json:"model"`
	Usage     *Usage    `json:"usage,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	Hash      string    `json:"hash"`
}

// NewResponse creates a response with a computed hash.
func NewResponse(content, adapterName, model string) *Response {
	r := &Response{
		Content:   content,
		Adapter:   adapterName,
		Model:     model,
		CreatedAt: time.Now().UTC(),
	}
	r.Hash = r.computeHash()
	return r
}

func (r *Response) computeHash() string {
	h := sha256.New()
	h.Write([]byte(r.Content))
	h.Write([]byte(r.Adapter))
	h.Write([]byte(r.Model))
	return hex.EncodeToString(h.Sum(nil))[:16]
}
