// Package payload builds task-specific handler payloads from raw requests.
package payload

import (
	"github.com/zen-systems/taskgate/pkg/task"
)

// Payload is the structured input handed to a task handler. The concrete
// variant depends on the task type; a payload only exists once every
// required field is present.
type Payload interface {
	TaskType() task.Type
	UserID() string
	Provider() task.Provider
}

// Base carries the fields every payload shares.
type Base struct {
	Task task.Type
	User string
	Prov task.Provider
}

func (b Base) TaskType() task.Type     { return b.Task }
func (b Base) UserID() string          { return b.User }
func (b Base) Provider() task.Provider { return b.Prov }

func (b *Base) setProvider(p task.Provider) { b.Prov = p }

// SetProvider stamps the selected provider onto a payload. Payloads are
// built before provider selection, so the dispatcher sets this once the
// selection is made.
func SetProvider(p Payload, provider task.Provider) {
	if s, ok := p.(interface{ setProvider(task.Provider) }); ok {
		s.setProvider(provider)
	}
}

// EmailPayload carries an outbound email derived from the request text.
type EmailPayload struct {
	Base
	To      string
	Subject string
	Message string
}

// EventDetails is the extractor's structured calendar output. Times are
// ISO-8601 strings as produced by the external extractor.
type EventDetails struct {
	Summary     string
	Description string
	StartTime   string
	EndTime     string
}

// EventPayload carries calendar event details.
type EventPayload struct {
	Base
	Event EventDetails
}

// QueryPayload carries a free-text query for model-backed tasks.
type QueryPayload struct {
	Base
	Query string
}

// File references an uploaded file by path and original name. The file
// itself is never read by this core.
type File struct {
	Path string
	Name string
}

// FilePayload carries an uploaded file reference.
type FilePayload struct {
	Base
	File File
}
