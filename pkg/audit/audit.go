// Package audit defines the append-only decision log contract.
package audit

import (
	"context"
	"log"
	"time"

	"github.com/zen-systems/taskgate/pkg/task"
)

// Entry is one routing decision. Entries are written once per successful
// dispatch and never updated; retention is an external concern.
type Entry struct {
	ID              string    `json:"id"`
	TaskType        task.Type `json:"task_type"`
	ModelUsed       string    `json:"model_used"`
	DecisionScore   float64   `json:"decision_score"`
	Reasoning       string    `json:"reasoning"`
	ExecutionTimeMs int64     `json:"execution_time_ms"`
	Timestamp       time.Time `json:"timestamp"`
}

// Sink records decision entries.
type Sink interface {
	Record(ctx context.Context, entry Entry) error
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(ctx context.Context, entry Entry) error

// Record calls the function.
func (f SinkFunc) Record(ctx context.Context, entry Entry) error {
	return f(ctx, entry)
}

// BestEffort wraps a sink so recording failures never propagate; they are
// reported on the process log instead of the response path.
type BestEffort struct {
	Sink Sink
}

// Record swallows sink errors.
func (b BestEffort) Record(ctx context.Context, entry Entry) error {
	if b.Sink == nil {
		return nil
	}
	if err := b.Sink.Record(ctx, entry); err != nil {
		log.Printf("[audit] decision log write failed: %v", err)
	}
	return nil
}

// Discard is a sink that drops every entry.
var Discard = SinkFunc(func(context.Context, Entry) error { return nil })
