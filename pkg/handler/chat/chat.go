// Package chat bridges query-style tasks to LLM provider adapters.
package chat

import (
	"context"
	"fmt"

	"github.com/zen-systems/taskgate/pkg/adapter"
	"github.com/zen-systems/taskgate/pkg/handler"
	"github.com/zen-systems/taskgate/pkg/payload"
	"github.com/zen-systems/taskgate/pkg/task"
)

// QueryTasks are the task types serviced by a plain model call on the
// selected provider.
var QueryTasks = []task.Type{
	task.ResearchAnalysis,
	task.MessageProcessing,
	task.FileRetrieval,
	task.MarketResearch,
	task.QuickAnswers,
	task.ReportGeneration,
	task.ProgressTracking,
	task.HealthReminders,
}

// Handler services QueryPayloads with one model call. Transient provider
// errors get a single retry; anything else propagates.
type Handler struct {
	adapter adapter.Adapter
	model   string
}

// New creates a chat handler for an adapter. An empty model uses the
// adapter's first listed model.
func New(a adapter.Adapter, model string) *Handler {
	if model == "" {
		models := a.Models()
		if len(models) > 0 {
			model = models[0]
		}
	}
	return &Handler{adapter: a, model: model}
}

// Handle runs the query against the model.
func (h *Handler) Handle(ctx context.Context, p payload.Payload) (*handler.Result, error) {
	query, ok := p.(*payload.QueryPayload)
	if !ok {
		return nil, fmt.Errorf("chat handler requires a query payload, got %T", p)
	}

	resp, err := h.adapter.Generate(ctx, h.model, query.Query)
	if err != nil && adapter.IsTransient(err) {
		resp, err = h.adapter.Generate(ctx, h.model, query.Query)
	}
	if err != nil {
		return nil, err
	}

	return &handler.Result{
		Response: resp.Content,
		Metadata: map[string]any{
			"adapter": resp.Adapter,
			"model":   resp.Model,
			"hash":    resp.Hash,
		},
	}, nil
}

// RegisterAll binds a chat handler for every query task type of every
// adapter, keyed by the adapter's provider name.
func RegisterAll(reg *handler.Registry, adapters map[task.Provider]adapter.Adapter) {
	for provider, a := range adapters {
		h := New(a, "")
		for _, taskType := range QueryTasks {
			reg.Register(taskType, provider, h)
		}
	}
}
