// Package dispatch sequences classification, payload building, provider
// selection and handler invocation for one request at a time.
package dispatch

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/zen-systems/taskgate/pkg/audit"
	"github.com/zen-systems/taskgate/pkg/classify"
	"github.com/zen-systems/taskgate/pkg/handler"
	"github.com/zen-systems/taskgate/pkg/payload"
	"github.com/zen-systems/taskgate/pkg/selector"
	"github.com/zen-systems/taskgate/pkg/task"
)

// State names the dispatcher's per-request progress for logging.
type State string

// Pipeline states, in order.
const (
	StateReceived         State = "RECEIVED"
	StateClassified       State = "CLASSIFIED"
	StateDescribed        State = "DESCRIBED"
	StateHistoryCreated   State = "HISTORY_CREATED"
	StatePayloadBuilt     State = "PAYLOAD_BUILT"
	StateProviderSelected State = "PROVIDER_SELECTED"
	StateHandlerInvoked   State = "HANDLER_INVOKED"
	StateCompleted        State = "COMPLETED"
	StateFailed           State = "FAILED"
)

// Request is the per-call input. It is never persisted; its derivatives
// (history records, decision entries) are.
type Request struct {
	UserID           string
	RawText          string
	ProviderOverride task.Provider
	File             *payload.File
	Context          *selector.Context
}

// Envelope is the normalized dispatch result.
type Envelope struct {
	Message   task.Type                 `json:"message"`
	Response  any                       `json:"response"`
	Metadata  map[string]any            `json:"metadata,omitempty"`
	Selection *selector.SelectionResult `json:"selection,omitempty"`
	History   *HistoryRecord            `json:"history,omitempty"`
}

// Dispatcher runs the request pipeline. Each call is an independent,
// stateless pass; concurrent requests share only the read-only registry
// behind the selector.
type Dispatcher struct {
	classifier  classify.Classifier
	describer   classify.Describer
	builder     *payload.Builder
	selector    *selector.Selector
	handlers    *handler.Registry
	history     HistoryStore
	credentials CredentialSource
	decisions   audit.Sink
	debug       bool
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithDescriber sets the optional audit-label describer.
func WithDescriber(d classify.Describer) Option {
	return func(disp *Dispatcher) { disp.describer = d }
}

// WithHistory sets the task history store.
func WithHistory(store HistoryStore) Option {
	return func(disp *Dispatcher) { disp.history = store }
}

// WithDecisionSink sets the decision log sink. The sink is wrapped so a
// logging failure never fails the request.
func WithDecisionSink(sink audit.Sink) Option {
	return func(disp *Dispatcher) { disp.decisions = audit.BestEffort{Sink: sink} }
}

// WithDebug enables state transition logging.
func WithDebug(debug bool) Option {
	return func(disp *Dispatcher) { disp.debug = debug }
}

// New creates a dispatcher.
func New(
	classifier classify.Classifier,
	builder *payload.Builder,
	sel *selector.Selector,
	handlers *handler.Registry,
	credentials CredentialSource,
	opts ...Option,
) *Dispatcher {
	d := &Dispatcher{
		classifier:  classifier,
		builder:     builder,
		selector:    sel,
		handlers:    handlers,
		credentials: credentials,
		describer:   &classify.StaticDescriber{},
		decisions:   audit.BestEffort{Sink: audit.Discard},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// ProcessRequest runs the pipeline for one request. Terminal errors carry
// their type through unchanged so callers can distinguish configuration
// problems from request problems.
func (d *Dispatcher) ProcessRequest(ctx context.Context, req Request) (*Envelope, error) {
	d.transition(StateReceived, req.UserID)

	taskType, err := d.classifier.Classify(ctx, req.RawText)
	if err != nil {
		d.transition(StateFailed, req.UserID)
		return nil, err
	}
	// Classifiers are only trusted to return members of the known set.
	if !task.KnownType(taskType) {
		d.transition(StateFailed, req.UserID)
		return nil, &classify.ClassificationError{
			Text:   req.RawText,
			Reason: fmt.Sprintf("classifier returned unknown task type %q", taskType),
		}
	}
	d.transition(StateClassified, string(taskType))

	// Description is enrichment only; failure must not block the request.
	description := ""
	if d.describer != nil {
		if label, err := d.describer.Describe(ctx, req.RawText); err == nil {
			description = label
		} else if d.debug {
			log.Printf("[dispatch] describe failed: %v", err)
		}
	}
	d.transition(StateDescribed, description)

	// The history row is written before payload building so a crash
	// mid-flight leaves a traceable pending record.
	var record *HistoryRecord
	if d.history != nil {
		record, err = d.history.CreateTaskHistory(ctx, req.UserID, taskType, description, req.RawText)
		if err != nil {
			d.transition(StateFailed, req.UserID)
			return nil, err
		}
		d.transition(StateHistoryCreated, record.ID)
	}

	// A payload builder failure leaves the history row pending. Known
	// gap, kept deliberately: reconciliation of abandoned rows is a
	// policy question this core does not answer.
	p, err := d.builder.Build(ctx, taskType, req.RawText, req.UserID, req.ProviderOverride, req.File)
	if err != nil {
		d.transition(StateFailed, req.UserID)
		return nil, err
	}
	d.transition(StatePayloadBuilt, string(taskType))

	sel, err := d.selectProvider(ctx, taskType, req)
	if err != nil {
		d.transition(StateFailed, req.UserID)
		return nil, err
	}
	if sel.Selected == "" {
		d.transition(StateFailed, req.UserID)
		return nil, &NoProviderAvailableError{TaskType: taskType, UserID: req.UserID}
	}
	payload.SetProvider(p, sel.Selected)
	d.transition(StateProviderSelected, string(sel.Selected))

	start := time.Now()
	result, err := d.handlers.Invoke(ctx, taskType, sel.Selected, p)
	elapsed := time.Since(start)
	d.transition(StateHandlerInvoked, string(sel.Selected))
	if err != nil {
		d.transition(StateFailed, req.UserID)
		return nil, d.wrapHandlerError(taskType, sel.Selected, err)
	}

	d.transition(StateCompleted, string(taskType))
	d.afterCompleted(ctx, taskType, sel, record, elapsed)

	envelope := &Envelope{
		Message:   taskType,
		Response:  result.Response,
		Metadata:  result.Metadata,
		Selection: sel,
		History:   record,
	}
	return envelope, nil
}

// selectProvider honors an explicit override, otherwise scores the user's
// configured providers.
func (d *Dispatcher) selectProvider(ctx context.Context, taskType task.Type, req Request) (*selector.SelectionResult, error) {
	available, err := d.credentials.AvailableProviders(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	if req.ProviderOverride != "" {
		if _, err := task.ParseProvider(string(req.ProviderOverride)); err != nil {
			return nil, err
		}
		return d.selector.SelectOverride(taskType, req.ProviderOverride, available, req.Context)
	}
	return d.selector.Select(taskType, available, req.Context)
}

// wrapHandlerError keeps registry defects distinct from execution
// failures.
func (d *Dispatcher) wrapHandlerError(taskType task.Type, provider task.Provider, err error) error {
	if _, ok := err.(*handler.UnsupportedProviderError); ok {
		// Registry misconfiguration is a server-side fault.
		log.Printf("[dispatch] %v", err)
		return err
	}
	return &HandlerExecutionError{TaskType: taskType, Provider: provider, Err: err}
}

// afterCompleted runs the post-terminal hooks: decision logging and the
// history status flip. Neither failure can reach the caller once the
// handler has succeeded.
func (d *Dispatcher) afterCompleted(ctx context.Context, taskType task.Type, sel *selector.SelectionResult, record *HistoryRecord, elapsed time.Duration) {
	entry := audit.Entry{
		ID:              uuid.NewString(),
		TaskType:        taskType,
		ModelUsed:       string(sel.Selected),
		DecisionScore:   sel.Confidence(),
		Reasoning:       selectionReasoning(sel),
		ExecutionTimeMs: elapsed.Milliseconds(),
		Timestamp:       time.Now().UTC(),
	}
	_ = d.decisions.Record(ctx, entry)

	if d.history != nil && record != nil {
		if err := d.history.UpdateTaskStatus(ctx, record.ID, StatusCompleted); err != nil {
			log.Printf("[dispatch] history update failed for %s: %v", record.ID, err)
		} else {
			record.Status = StatusCompleted
		}
	}
}

func selectionReasoning(sel *selector.SelectionResult) string {
	switch {
	case sel.Reasoning.DefaultAvailable:
		return "default provider for task was available"
	case sel.Reasoning.FallbackConsidered:
		return "fallback chain of default provider was used"
	default:
		return "highest adjusted capability score among available providers"
	}
}

func (d *Dispatcher) transition(state State, detail string) {
	if d.debug {
		log.Printf("[dispatch] %s %s", state, detail)
	}
}
