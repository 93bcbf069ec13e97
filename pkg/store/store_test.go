package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/zen-systems/taskgate/pkg/audit"
	"github.com/zen-systems/taskgate/pkg/dispatch"
	"github.com/zen-systems/taskgate/pkg/task"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(Config{Path: filepath.Join(t.TempDir(), "taskgate.db")})
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestTaskHistoryLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	record, err := s.CreateTaskHistory(ctx, "user-1", task.QuickAnswers, "capital question", "what is the capital of France?")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if record.Status != dispatch.StatusPending {
		t.Fatalf("new record should be pending, got %s", record.Status)
	}

	// Pending records are not part of the completed view.
	completed, err := s.CompletedTaskHistory(ctx, "user-1")
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(completed) != 0 {
		t.Fatalf("expected no completed records, got %d", len(completed))
	}

	if err := s.UpdateTaskStatus(ctx, record.ID, dispatch.StatusCompleted); err != nil {
		t.Fatalf("update: %v", err)
	}

	completed, err = s.CompletedTaskHistory(ctx, "user-1")
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(completed) != 1 {
		t.Fatalf("expected 1 completed record, got %d", len(completed))
	}
	got := completed[0]
	if got.ID != record.ID || got.TaskType != task.QuickAnswers || got.Description != "capital question" {
		t.Fatalf("roundtrip mismatch: %+v", got)
	}
	if got.Status != dispatch.StatusCompleted {
		t.Fatalf("status: got %s", got.Status)
	}
}

func TestTaskHistoryScopedByUser(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	record, err := s.CreateTaskHistory(ctx, "user-1", task.QuickAnswers, "d", "p")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := s.UpdateTaskStatus(ctx, record.ID, dispatch.StatusCompleted); err != nil {
		t.Fatalf("update: %v", err)
	}

	other, err := s.CompletedTaskHistory(ctx, "user-2")
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(other) != 0 {
		t.Fatalf("records leaked across users: %+v", other)
	}
}

func TestUpdateTaskStatusMissing(t *testing.T) {
	s := newTestStore(t)
	if err := s.UpdateTaskStatus(context.Background(), uuid.NewString(), dispatch.StatusFailed); err == nil {
		t.Fatalf("expected error for unknown record")
	}
}

func TestDecisionLog(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		entry := audit.Entry{
			ID:              uuid.NewString(),
			TaskType:        task.QuickAnswers,
			ModelUsed:       "gemini",
			DecisionScore:   0.9,
			Reasoning:       "default provider for task was available",
			ExecutionTimeMs: int64(100 + i),
			Timestamp:       base.Add(time.Duration(i) * time.Minute),
		}
		if err := s.Record(ctx, entry); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	entries, err := s.RecentDecisions(ctx, 2)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("limit not applied, got %d", len(entries))
	}
	if entries[0].ExecutionTimeMs != 102 {
		t.Fatalf("expected newest first, got %+v", entries[0])
	}
	if entries[0].TaskType != task.QuickAnswers || entries[0].DecisionScore != 0.9 {
		t.Fatalf("roundtrip mismatch: %+v", entries[0])
	}
}

func TestProviderKeys(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	// Inserted out of registry order on purpose.
	if err := s.SetProviderKey(ctx, "user-1", task.Gemini, "key-g"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := s.SetProviderKey(ctx, "user-1", task.OpenAI, "key-o"); err != nil {
		t.Fatalf("set: %v", err)
	}

	providers, err := s.AvailableProviders(ctx, "user-1")
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(providers) != 2 || providers[0] != task.OpenAI || providers[1] != task.Gemini {
		t.Fatalf("expected registry order [openai gemini], got %v", providers)
	}

	// Upsert replaces, it does not duplicate.
	if err := s.SetProviderKey(ctx, "user-1", task.Gemini, "key-g2"); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	providers, err = s.AvailableProviders(ctx, "user-1")
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(providers) != 2 {
		t.Fatalf("upsert duplicated a key: %v", providers)
	}

	if err := s.SetProviderKey(ctx, "user-1", task.Provider("frontier"), "key"); err == nil {
		t.Fatalf("expected error for unknown provider")
	}

	other, err := s.AvailableProviders(ctx, "user-2")
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(other) != 0 {
		t.Fatalf("keys leaked across users: %v", other)
	}

	keys, err := s.ProviderKeys(ctx, "user-1")
	if err != nil {
		t.Fatalf("keys: %v", err)
	}
	if len(keys) != 2 || keys[task.Gemini] != "key-g2" || keys[task.OpenAI] != "key-o" {
		t.Fatalf("key values mismatch: %v", keys)
	}
}
