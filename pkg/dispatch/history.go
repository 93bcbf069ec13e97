package dispatch

import (
	"context"
	"time"

	"github.com/zen-systems/taskgate/pkg/task"
)

// Status is the lifecycle state of a task history record.
type Status string

// History statuses.
const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// HistoryRecord is the persisted trace of one dispatched task. The
// dispatcher owns its lifecycle; handlers never touch it.
type HistoryRecord struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	TaskType    task.Type `json:"task_type"`
	Description string    `json:"description"`
	Prompt      string    `json:"prompt"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// HistoryStore persists task history records.
type HistoryStore interface {
	CreateTaskHistory(ctx context.Context, userID string, taskType task.Type, description, prompt string) (*HistoryRecord, error)
	UpdateTaskStatus(ctx context.Context, id string, status Status) error
}

// CredentialSource reports which providers a user has configured.
type CredentialSource interface {
	AvailableProviders(ctx context.Context, userID string) ([]task.Provider, error)
}

// StaticCredentials is a credential source backed by a fixed provider set,
// ignoring the user. Useful for single-tenant deployments and tests.
type StaticCredentials []task.Provider

// AvailableProviders returns the fixed set.
func (s StaticCredentials) AvailableProviders(context.Context, string) ([]task.Provider, error) {
	out := make([]task.Provider, len(s))
	copy(out, s)
	return out, nil
}
