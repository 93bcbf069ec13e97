package dispatch

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/zen-systems/taskgate/pkg/audit"
	"github.com/zen-systems/taskgate/pkg/classify"
	"github.com/zen-systems/taskgate/pkg/handler"
	"github.com/zen-systems/taskgate/pkg/payload"
	"github.com/zen-systems/taskgate/pkg/selector"
	"github.com/zen-systems/taskgate/pkg/task"
)

type fixedClassifier struct {
	taskType task.Type
	err      error
}

func (f fixedClassifier) Classify(context.Context, string) (task.Type, error) {
	return f.taskType, f.err
}

type memHistory struct {
	records   map[string]*HistoryRecord
	updateErr error
}

func newMemHistory() *memHistory {
	return &memHistory{records: make(map[string]*HistoryRecord)}
}

func (m *memHistory) CreateTaskHistory(_ context.Context, userID string, taskType task.Type, description, prompt string) (*HistoryRecord, error) {
	record := &HistoryRecord{
		ID:          uuid.NewString(),
		UserID:      userID,
		TaskType:    taskType,
		Description: description,
		Prompt:      prompt,
		Status:      StatusPending,
	}
	m.records[record.ID] = record
	return record, nil
}

func (m *memHistory) UpdateTaskStatus(_ context.Context, id string, status Status) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	record, ok := m.records[id]
	if !ok {
		return fmt.Errorf("record %s not found", id)
	}
	record.Status = status
	return nil
}

type recordingSink struct {
	entries []audit.Entry
	err     error
}

func (s *recordingSink) Record(_ context.Context, entry audit.Entry) error {
	if s.err != nil {
		return s.err
	}
	s.entries = append(s.entries, entry)
	return nil
}

func okHandler(response string) handler.Func {
	return func(context.Context, payload.Payload) (*handler.Result, error) {
		return &handler.Result{Response: response}, nil
	}
}

func newTestDispatcher(t *testing.T, taskType task.Type, h handler.Handler, available []task.Provider, opts ...Option) *Dispatcher {
	t.Helper()

	registry, err := task.NewRegistry(task.DefaultTables())
	if err != nil {
		t.Fatalf("new registry: %v", err)
	}

	handlers := handler.NewRegistry()
	if h != nil {
		for _, provider := range task.Providers() {
			handlers.Register(taskType, provider, h)
		}
	}

	return New(
		fixedClassifier{taskType: taskType},
		payload.NewBuilder(nil, nil),
		selector.New(registry),
		handlers,
		StaticCredentials(available),
		opts...,
	)
}

func TestProcessRequestSuccess(t *testing.T) {
	history := newMemHistory()
	sink := &recordingSink{}
	d := newTestDispatcher(t, task.QuickAnswers, okHandler("Paris"),
		[]task.Provider{task.Gemini},
		WithHistory(history), WithDecisionSink(sink))

	envelope, err := d.ProcessRequest(context.Background(), Request{
		UserID:  "user-1",
		RawText: "what is the capital of France?",
	})
	if err != nil {
		t.Fatalf("process: %v", err)
	}

	if envelope.Message != task.QuickAnswers {
		t.Fatalf("message: got %s", envelope.Message)
	}
	if envelope.Response != "Paris" {
		t.Fatalf("response: got %v", envelope.Response)
	}
	if envelope.Selection == nil || envelope.Selection.Selected != task.Gemini {
		t.Fatalf("selection: got %+v", envelope.Selection)
	}

	// Exactly one history record, flipped to completed.
	if len(history.records) != 1 {
		t.Fatalf("expected 1 history record, got %d", len(history.records))
	}
	for _, record := range history.records {
		if record.Status != StatusCompleted {
			t.Fatalf("history status: got %s", record.Status)
		}
		if record.Prompt != "what is the capital of France?" {
			t.Fatalf("history prompt: got %q", record.Prompt)
		}
		if record.Description == "" {
			t.Fatalf("expected a derived description")
		}
	}

	// Exactly one decision entry.
	if len(sink.entries) != 1 {
		t.Fatalf("expected 1 decision entry, got %d", len(sink.entries))
	}
	entry := sink.entries[0]
	if entry.TaskType != task.QuickAnswers {
		t.Fatalf("entry task: got %s", entry.TaskType)
	}
	if entry.ModelUsed != "gemini" {
		t.Fatalf("entry model: got %s", entry.ModelUsed)
	}
	if entry.DecisionScore != 0.9 {
		t.Fatalf("entry score: got %f", entry.DecisionScore)
	}
	if entry.Reasoning != "default provider for task was available" {
		t.Fatalf("entry reasoning: got %q", entry.Reasoning)
	}
	if entry.ID == "" {
		t.Fatalf("entry needs an id")
	}
}

func TestProcessRequestSinkFailureDoesNotFail(t *testing.T) {
	history := newMemHistory()
	sink := &recordingSink{err: errors.New("disk full")}
	d := newTestDispatcher(t, task.QuickAnswers, okHandler("ok"),
		[]task.Provider{task.Gemini},
		WithHistory(history), WithDecisionSink(sink))

	envelope, err := d.ProcessRequest(context.Background(), Request{UserID: "user-1", RawText: "what is dns"})
	if err != nil {
		t.Fatalf("decision logging must never fail the request: %v", err)
	}
	if envelope.Response != "ok" {
		t.Fatalf("response: got %v", envelope.Response)
	}
	for _, record := range history.records {
		if record.Status != StatusCompleted {
			t.Fatalf("history should still complete, got %s", record.Status)
		}
	}
}

func TestProcessRequestHistoryUpdateFailureDoesNotFail(t *testing.T) {
	history := newMemHistory()
	history.updateErr = errors.New("db locked")
	sink := &recordingSink{}
	d := newTestDispatcher(t, task.QuickAnswers, okHandler("ok"),
		[]task.Provider{task.Gemini},
		WithHistory(history), WithDecisionSink(sink))

	_, err := d.ProcessRequest(context.Background(), Request{UserID: "user-1", RawText: "what is dns"})
	if err != nil {
		t.Fatalf("history completion is post-terminal, must not fail the request: %v", err)
	}
	if len(sink.entries) != 1 {
		t.Fatalf("decision entry should still be recorded, got %d", len(sink.entries))
	}
}

func TestProcessRequestNoProviderAvailable(t *testing.T) {
	history := newMemHistory()
	sink := &recordingSink{}
	d := newTestDispatcher(t, task.QuickAnswers, okHandler("ok"), nil,
		WithHistory(history), WithDecisionSink(sink))

	_, err := d.ProcessRequest(context.Background(), Request{UserID: "user-1", RawText: "what is dns"})
	if err == nil {
		t.Fatalf("expected error")
	}
	var noProvider *NoProviderAvailableError
	if !errors.As(err, &noProvider) {
		t.Fatalf("expected NoProviderAvailableError, got %T", err)
	}

	// No decision entry for a failed dispatch; the history row stays
	// pending.
	if len(sink.entries) != 0 {
		t.Fatalf("expected no decision entries, got %d", len(sink.entries))
	}
	for _, record := range history.records {
		if record.Status != StatusPending {
			t.Fatalf("history status: got %s", record.Status)
		}
	}
}

func TestProcessRequestClassificationErrorPassesThrough(t *testing.T) {
	registry, err := task.NewRegistry(task.DefaultTables())
	if err != nil {
		t.Fatalf("new registry: %v", err)
	}
	clsErr := &classify.ClassificationError{Text: "zzzz", Reason: "no pattern matched"}
	d := New(
		fixedClassifier{err: clsErr},
		payload.NewBuilder(nil, nil),
		selector.New(registry),
		handler.NewRegistry(),
		StaticCredentials{task.OpenAI},
	)

	_, err = d.ProcessRequest(context.Background(), Request{UserID: "user-1", RawText: "zzzz"})
	var got *classify.ClassificationError
	if !errors.As(err, &got) {
		t.Fatalf("expected ClassificationError, got %v", err)
	}
}

func TestProcessRequestRejectsUnknownClassifierType(t *testing.T) {
	registry, err := task.NewRegistry(task.DefaultTables())
	if err != nil {
		t.Fatalf("new registry: %v", err)
	}
	history := newMemHistory()
	sink := &recordingSink{}
	d := New(
		fixedClassifier{taskType: task.Type("totally_bogus")},
		payload.NewBuilder(nil, nil),
		selector.New(registry),
		handler.NewRegistry(),
		StaticCredentials{task.OpenAI},
		WithHistory(history), WithDecisionSink(sink),
	)

	_, err = d.ProcessRequest(context.Background(), Request{UserID: "user-1", RawText: "do the thing"})
	var got *classify.ClassificationError
	if !errors.As(err, &got) {
		t.Fatalf("expected ClassificationError, got %v", err)
	}
	if !strings.Contains(got.Reason, "totally_bogus") {
		t.Fatalf("reason does not name the bad type: %q", got.Reason)
	}
	if len(history.records) != 0 {
		t.Fatalf("expected no history rows, got %d", len(history.records))
	}
	if len(sink.entries) != 0 {
		t.Fatalf("expected no decision entries, got %d", len(sink.entries))
	}
}

func TestProcessRequestPayloadFailureLeavesPendingRow(t *testing.T) {
	history := newMemHistory()
	sink := &recordingSink{}
	d := newTestDispatcher(t, task.SendEmail, okHandler("ok"),
		[]task.Provider{task.Anthropic},
		WithHistory(history), WithDecisionSink(sink))

	_, err := d.ProcessRequest(context.Background(), Request{
		UserID:  "user-1",
		RawText: "send something nice to my colleague",
	})
	var missing *payload.MissingFieldError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingFieldError, got %v", err)
	}

	if len(history.records) != 1 {
		t.Fatalf("history row should exist, got %d", len(history.records))
	}
	for _, record := range history.records {
		if record.Status != StatusPending {
			t.Fatalf("row should stay pending, got %s", record.Status)
		}
	}
	if len(sink.entries) != 0 {
		t.Fatalf("no decision entry for a failed dispatch")
	}
}

func TestProcessRequestProviderOverride(t *testing.T) {
	var seenProvider task.Provider
	h := handler.Func(func(_ context.Context, p payload.Payload) (*handler.Result, error) {
		seenProvider = p.Provider()
		return &handler.Result{Response: "ok"}, nil
	})
	d := newTestDispatcher(t, task.QuickAnswers, h, []task.Provider{task.Gemini})

	envelope, err := d.ProcessRequest(context.Background(), Request{
		UserID:           "user-1",
		RawText:          "what is dns",
		ProviderOverride: task.Cohere,
	})
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if envelope.Selection.Selected != task.Cohere {
		t.Fatalf("override not honored: %s", envelope.Selection.Selected)
	}
	if seenProvider != task.Cohere {
		t.Fatalf("payload should carry the override, got %s", seenProvider)
	}
}

func TestProcessRequestUnknownOverride(t *testing.T) {
	d := newTestDispatcher(t, task.QuickAnswers, okHandler("ok"), []task.Provider{task.Gemini})

	_, err := d.ProcessRequest(context.Background(), Request{
		UserID:           "user-1",
		RawText:          "what is dns",
		ProviderOverride: task.Provider("frontier"),
	})
	if err == nil {
		t.Fatalf("expected error for unknown override provider")
	}
}

func TestProcessRequestHandlerErrorWrapped(t *testing.T) {
	cause := errors.New("model overloaded")
	h := handler.Func(func(context.Context, payload.Payload) (*handler.Result, error) {
		return nil, cause
	})
	d := newTestDispatcher(t, task.QuickAnswers, h, []task.Provider{task.Gemini})

	_, err := d.ProcessRequest(context.Background(), Request{UserID: "user-1", RawText: "what is dns"})
	var execErr *HandlerExecutionError
	if !errors.As(err, &execErr) {
		t.Fatalf("expected HandlerExecutionError, got %v", err)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("cause should be preserved")
	}
	if execErr.Provider != task.Gemini || execErr.TaskType != task.QuickAnswers {
		t.Fatalf("error names wrong pair: %+v", execErr)
	}
}

func TestProcessRequestUnsupportedProviderPassesThrough(t *testing.T) {
	// No handler registered at all.
	d := newTestDispatcher(t, task.QuickAnswers, nil, []task.Provider{task.Gemini})

	_, err := d.ProcessRequest(context.Background(), Request{UserID: "user-1", RawText: "what is dns"})
	var unsupported *handler.UnsupportedProviderError
	if !errors.As(err, &unsupported) {
		t.Fatalf("expected UnsupportedProviderError, got %v", err)
	}
}

func TestProcessRequestContextAdjustments(t *testing.T) {
	history := newMemHistory()
	sink := &recordingSink{}
	h := okHandler("done")
	// finance_analysis defaults to huggingface; with openai and anthropic
	// configured and a high-complexity hint, anthropic wins.
	d := newTestDispatcher(t, task.FinanceAnalysis, h,
		[]task.Provider{task.OpenAI, task.Anthropic},
		WithHistory(history), WithDecisionSink(sink))

	envelope, err := d.ProcessRequest(context.Background(), Request{
		UserID:  "user-1",
		RawText: "crunch the numbers",
		File:    &payload.File{Path: "/tmp/q3.csv", Name: "q3.csv"},
		Context: &selector.Context{Complexity: "high"},
	})
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if envelope.Selection.Selected != task.Anthropic {
		t.Fatalf("expected anthropic, got %s", envelope.Selection.Selected)
	}
	if len(sink.entries) != 1 || sink.entries[0].DecisionScore != 0.8 {
		t.Fatalf("expected decision score 0.8, got %+v", sink.entries)
	}
}

func TestStaticCredentials(t *testing.T) {
	creds := StaticCredentials{task.OpenAI, task.Gemini}
	providers, err := creds.AvailableProviders(context.Background(), "anyone")
	if err != nil {
		t.Fatalf("available: %v", err)
	}
	if len(providers) != 2 || providers[0] != task.OpenAI || providers[1] != task.Gemini {
		t.Fatalf("got %v", providers)
	}
}
