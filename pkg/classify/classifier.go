// Package classify resolves free-text requests to registry task types.
package classify

import (
	"context"
	"fmt"

	"github.com/zen-systems/taskgate/pkg/task"
)

// Classifier determines the task type for a user request.
type Classifier interface {
	Classify(ctx context.Context, text string) (task.Type, error)
}

// ClassificationError reports that no usable task type could be derived.
type ClassificationError struct {
	Text   string
	Reason string
	Err    error
}

func (e *ClassificationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("classification failed: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("classification failed: %s", e.Reason)
}

func (e *ClassificationError) Unwrap() error {
	return e.Err
}

// Chain tries classifiers in order, returning the first successful result.
// A later classifier only runs when the earlier one fails.
type Chain []Classifier

// Classify runs the chain.
func (c Chain) Classify(ctx context.Context, text string) (task.Type, error) {
	var lastErr error
	for _, classifier := range c {
		taskType, err := classifier.Classify(ctx, text)
		if err == nil {
			return taskType, nil
		}
		lastErr = err
	}
	if lastErr != nil {
		return "", lastErr
	}
	return "", &ClassificationError{Text: text, Reason: "no classifiers configured"}
}
