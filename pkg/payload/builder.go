package payload

import (
	"context"
	"fmt"

	"github.com/zen-systems/taskgate/pkg/task"
)

// Builder assembles task-specific payloads. It is pure apart from the
// extractor collaborators it invokes.
type Builder struct {
	emails EmailExtractor
	events EventExtractor
}

// NewBuilder creates a builder with the given extractors. Nil extractors
// fall back to the built-in pattern implementations.
func NewBuilder(emails EmailExtractor, events EventExtractor) *Builder {
	if emails == nil {
		emails = PatternEmailExtractor{}
	}
	if events == nil {
		events = PatternEventExtractor{}
	}
	return &Builder{emails: emails, events: events}
}

// Build derives the payload for a task type. It fails fast: a missing
// required field is terminal, never a partial payload.
func (b *Builder) Build(ctx context.Context, taskType task.Type, rawText, userID string, provider task.Provider, file *File) (Payload, error) {
	base := Base{Task: taskType, User: userID, Prov: provider}

	switch taskType {
	case task.SendEmail:
		details, err := b.emails.ExtractEmailDetails(ctx, rawText)
		if err != nil {
			return nil, fmt.Errorf("email extraction: %w", err)
		}
		if details == nil {
			return nil, &MissingFieldError{TaskType: taskType, Field: "to/subject/message"}
		}
		if details.To == "" {
			return nil, &MissingFieldError{TaskType: taskType, Field: "to"}
		}
		if details.Subject == "" {
			return nil, &MissingFieldError{TaskType: taskType, Field: "subject"}
		}
		if details.Message == "" {
			return nil, &MissingFieldError{TaskType: taskType, Field: "message"}
		}
		return &EmailPayload{Base: base, To: details.To, Subject: details.Subject, Message: details.Message}, nil

	case task.MeetingScheduling, task.FetchUpcomingEvents:
		details, err := b.events.ExtractEventDetails(ctx, rawText)
		if err != nil {
			return nil, fmt.Errorf("event extraction: %w", err)
		}
		if details == nil {
			return nil, &MissingFieldError{TaskType: taskType, Field: "eventDetails"}
		}
		if details.Summary == "" {
			return nil, &MissingFieldError{TaskType: taskType, Field: "summary"}
		}
		if details.StartTime == "" || details.EndTime == "" {
			return nil, &MissingFieldError{TaskType: taskType, Field: "startTime/endTime"}
		}
		return &EventPayload{Base: base, Event: *details}, nil

	case task.UploadFile, task.FinanceAnalysis:
		if file == nil || file.Path == "" || file.Name == "" {
			return nil, &FileRequiredError{TaskType: taskType}
		}
		return &FilePayload{Base: base, File: *file}, nil

	case task.ReportGeneration:
		return &QueryPayload{Base: base, Query: "Generate a report for " + rawText}, nil

	default:
		// quick_answers, file_retrieval, market_research, health_reminders
		// and every pass-through task type carry the raw text as query.
		return &QueryPayload{Base: base, Query: rawText}, nil
	}
}
