// Package handler maps (task type, provider) pairs to execution handlers.
package handler

import (
	"context"
	"fmt"
	"sync"

	"github.com/zen-systems/taskgate/pkg/payload"
	"github.com/zen-systems/taskgate/pkg/task"
)

// Result is the normalized output of a handler invocation.
type Result struct {
	Response any            `json:"response"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// Handler executes a task given its payload.
type Handler interface {
	Handle(ctx context.Context, p payload.Payload) (*Result, error)
}

// Func adapts a function to the Handler interface.
type Func func(ctx context.Context, p payload.Payload) (*Result, error)

// Handle calls the function.
func (f Func) Handle(ctx context.Context, p payload.Payload) (*Result, error) {
	return f(ctx, p)
}

// UnsupportedProviderError reports a missing (task type, provider)
// registration. This is a configuration defect, not a caller mistake.
type UnsupportedProviderError struct {
	TaskType task.Type
	Provider task.Provider
}

func (e *UnsupportedProviderError) Error() string {
	return fmt.Sprintf("no handler registered for task %s with provider %s", e.TaskType, e.Provider)
}

type key struct {
	taskType task.Type
	provider task.Provider
}

// Registry stores handlers keyed by task type and provider. Safe for
// concurrent use; registrations normally happen at startup.
type Registry struct {
	mu       sync.RWMutex
	handlers map[key]Handler
}

// NewRegistry creates an empty handler registry.
func NewRegistry() *Registry {
	return &Registry{handlers: make(map[key]Handler)}
}

// Register binds a handler for a (task type, provider) pair, replacing any
// previous binding.
func (r *Registry) Register(taskType task.Type, provider task.Provider, h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[key{taskType, provider}] = h
}

// Lookup returns the handler for a pair, if registered.
func (r *Registry) Lookup(taskType task.Type, provider task.Provider) (Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.handlers[key{taskType, provider}]
	return h, ok
}

// Invoke runs the handler registered for the pair.
func (r *Registry) Invoke(ctx context.Context, taskType task.Type, provider task.Provider, p payload.Payload) (*Result, error) {
	h, ok := r.Lookup(taskType, provider)
	if !ok {
		return nil, &UnsupportedProviderError{TaskType: taskType, Provider: provider}
	}
	return h.Handle(ctx, p)
}
