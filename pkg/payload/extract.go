package payload

import (
	"context"
	"regexp"
	"strings"
	"time"
)

// EmailDetails is the extractor's structured email output.
type EmailDetails struct {
	To      string
	Subject string
	Message string
}

// EmailExtractor derives email fields from request text. A nil result with
// a nil error means the text carried no recognizable email.
type EmailExtractor interface {
	ExtractEmailDetails(ctx context.Context, text string) (*EmailDetails, error)
}

// EventExtractor derives calendar event fields from request text.
type EventExtractor interface {
	ExtractEventDetails(ctx context.Context, text string) (*EventDetails, error)
}

var (
	emailToRe      = regexp.MustCompile(`to ([\w.-]+@[\w.-]+\.\w+)`)
	emailSubjectRe = regexp.MustCompile(`(?i)subject (.+?) message`)
	emailMessageRe = regexp.MustCompile(`(?i)message (.+)$`)
)

// PatternEmailExtractor recognizes the "to <addr> subject <s> message <m>"
// request shape.
type PatternEmailExtractor struct{}

// ExtractEmailDetails parses the text, returning nil when any field is
// absent.
func (PatternEmailExtractor) ExtractEmailDetails(_ context.Context, text string) (*EmailDetails, error) {
	to := emailToRe.FindStringSubmatch(text)
	subject := emailSubjectRe.FindStringSubmatch(text)
	message := emailMessageRe.FindStringSubmatch(text)

	if to == nil || subject == nil || message == nil {
		return nil, nil
	}
	return &EmailDetails{
		To:      to[1],
		Subject: strings.TrimSpace(subject[1]),
		Message: strings.TrimSpace(message[1]),
	}, nil
}

var eventSummaryRe = regexp.MustCompile(`(?i)(?:meeting|call|appointment|event) (?:about|for|with|titled) (.+?)(?: at | on | from |$)`)

// PatternEventExtractor recognizes simple scheduling phrasings. It is a
// stand-in for the external extractor service; times default to the next
// hour when the text carries none.
type PatternEventExtractor struct {
	Now func() time.Time
}

// ExtractEventDetails parses the text, returning nil when no event shape
// is present.
func (e PatternEventExtractor) ExtractEventDetails(_ context.Context, text string) (*EventDetails, error) {
	summary := eventSummaryRe.FindStringSubmatch(text)
	if summary == nil {
		return nil, nil
	}

	now := time.Now
	if e.Now != nil {
		now = e.Now
	}
	start := now().UTC().Truncate(time.Hour).Add(time.Hour)
	end := start.Add(time.Hour)

	return &EventDetails{
		Summary:     strings.TrimSpace(summary[1]),
		Description: strings.TrimSpace(text),
		StartTime:   start.Format(time.RFC3339),
		EndTime:     end.Format(time.RFC3339),
	}, nil
}
