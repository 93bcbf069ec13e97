package classify

import (
	"context"
	"fmt"
	"strings"

	"github.com/zen-systems/taskgate/pkg/adapter"
)

// Describer produces a short human-readable audit label for a request.
// Description generation is best-effort enrichment; callers tolerate errors.
type Describer interface {
	Describe(ctx context.Context, text string) (string, error)
}

// StaticDescriber derives a label from the request text without I/O.
type StaticDescriber struct {
	MaxLen int
}

// Describe truncates the request to a single-line label. The limit counts
// runes, and anything below the ellipsis width is widened to it.
func (d *StaticDescriber) Describe(_ context.Context, text string) (string, error) {
	label := strings.Join(strings.Fields(text), " ")
	maxLen := d.MaxLen
	if maxLen <= 0 {
		maxLen = 80
	}
	if maxLen < 4 {
		maxLen = 4
	}
	if runes := []rune(label); len(runes) > maxLen {
		label = string(runes[:maxLen-3]) + "..."
	}
	return label, nil
}

// ModelDescriber asks an LLM adapter for a one-line task description.
type ModelDescriber struct {
	adapter adapter.Adapter
	model   string
}

// NewModelDescriber creates a model-backed describer.
func NewModelDescriber(a adapter.Adapter, model string) *ModelDescriber {
	return &ModelDescriber{adapter: a, model: model}
}

// Describe generates the label.
func (d *ModelDescriber) Describe(ctx context.Context, text string) (string, error) {
	if d.adapter == nil {
		return "", fmt.Errorf("no describer adapter configured")
	}
	prompt := "Describe the following request as a task in one short sentence. Reply with the sentence only.\n\n" + text
	resp, err := d.adapter.Generate(ctx, d.model, prompt)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(resp.Content), nil
}
