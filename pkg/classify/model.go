package classify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/zen-systems/taskgate/pkg/adapter"
	"github.com/zen-systems/taskgate/pkg/task"
)

// ModelClassifier delegates classification to an LLM adapter and validates
// the pick against the known task types.
type ModelClassifier struct {
	adapter adapter.Adapter
	model   string
}

// NewModelClassifier creates a model-backed classifier.
func NewModelClassifier(a adapter.Adapter, model string) *ModelClassifier {
	return &ModelClassifier{adapter: a, model: model}
}

// Classify asks the model for a task type.
func (c *ModelClassifier) Classify(ctx context.Context, text string) (task.Type, error) {
	if c.adapter == nil {
		return "", &ClassificationError{Text: text, Reason: "no classifier adapter configured"}
	}

	resp, err := c.adapter.Generate(ctx, c.model, buildClassifierPrompt(text))
	if err != nil {
		return "", &ClassificationError{Text: text, Reason: "classifier call failed", Err: err}
	}
	if resp == nil || strings.TrimSpace(resp.Content) == "" {
		return "", &ClassificationError{Text: text, Reason: "classifier returned empty response"}
	}

	pick, err := parseClassifierResponse(resp.Content)
	if err != nil {
		return "", &ClassificationError{Text: text, Reason: "classifier response invalid", Err: err}
	}

	taskType, err := task.ParseType(pick.TaskType)
	if err != nil {
		return "", &ClassificationError{Text: text, Reason: "classifier task_type not recognized", Err: err}
	}
	if pick.Confidence < 0 || pick.Confidence > 1 {
		return "", &ClassificationError{Text: text, Reason: "classifier confidence out of range"}
	}

	return taskType, nil
}

type classifierPick struct {
	TaskType   string  `json:"task_type"`
	Confidence float64 `json:"confidence"`
	Reason     string  `json:"reason"`
}

func parseClassifierResponse(content string) (*classifierPick, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	var pick classifierPick
	if err := json.Unmarshal([]byte(content), &pick); err != nil {
		return nil, err
	}
	if pick.TaskType == "" {
		return nil, fmt.Errorf("missing task_type")
	}
	return &pick, nil
}

func buildClassifierPrompt(text string) string {
	var sb strings.Builder
	sb.WriteString("You are an intent classifier. Choose the best task_type for the request.\n")
	sb.WriteString("Return ONLY JSON: {\"task_type\":\"...\",\"confidence\":0-1,\"reason\":\"...\"}.\n\n")
	sb.WriteString("Request:\n")
	sb.WriteString(text)
	sb.WriteString("\n\nTask types:\n")
	for _, t := range task.Types() {
		sb.WriteString("- ")
		sb.WriteString(string(t))
		sb.WriteString("\n")
	}
	return sb.String()
}
