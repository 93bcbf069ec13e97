package payload

import (
	"fmt"

	"github.com/zen-systems/taskgate/pkg/task"
)

// MissingFieldError reports that a required field could not be derived
// from the request text.
type MissingFieldError struct {
	TaskType task.Type
	Field    string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("task %s: required field %q could not be derived", e.TaskType, e.Field)
}

// FileRequiredError reports that a task needs an uploaded file and none
// was provided. Distinct from MissingFieldError so callers can prompt for
// an upload rather than a rephrase.
type FileRequiredError struct {
	TaskType task.Type
}

func (e *FileRequiredError) Error() string {
	return fmt.Sprintf("task %s: an uploaded file is required", e.TaskType)
}
