package dispatch

import (
	"fmt"

	"github.com/zen-systems/taskgate/pkg/task"
)

// NoProviderAvailableError reports that the caller has no usable provider
// configured for a task. This is an onboarding condition, not a bug;
// callers should prompt for credentials.
type NoProviderAvailableError struct {
	TaskType task.Type
	UserID   string
}

func (e *NoProviderAvailableError) Error() string {
	return fmt.Sprintf("no provider available for task %s", e.TaskType)
}

// HandlerExecutionError wraps a failure inside a concrete task handler,
// preserving the underlying cause.
type HandlerExecutionError struct {
	TaskType task.Type
	Provider task.Provider
	Err      error
}

func (e *HandlerExecutionError) Error() string {
	return fmt.Sprintf("handler for task %s (provider %s) failed: %v", e.TaskType, e.Provider, e.Err)
}

func (e *HandlerExecutionError) Unwrap() error {
	return e.Err
}
