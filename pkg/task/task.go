package task

import "fmt"

// Type identifies a category of user request.
type Type string

// Known task types.
const (
	ResearchAnalysis    Type = "research_analysis"
	MessageProcessing   Type = "message_processing"
	UploadFile          Type = "upload_file"
	FileRetrieval       Type = "file_retrieval"
	OrganizeFiles       Type = "organize_files"
	FinanceAnalysis     Type = "finance_analysis"
	SendEmail           Type = "send_email"
	FetchUnreadEmails   Type = "fetch_unread_emails"
	SummarizeEmails     Type = "summarize_emails"
	SearchEmails        Type = "search_emails"
	MeetingScheduling   Type = "meeting_scheduling"
	FetchUpcomingEvents Type = "fetch_upcoming_events"
	MarketResearch      Type = "market_research"
	QuickAnswers        Type = "quick_answers"
	ReportGeneration    Type = "report_generation"
	ProgressTracking    Type = "progress_tracking"
	HealthReminders     Type = "health_reminders"
)

// Provider identifies an AI model backend.
type Provider string

// Known providers.
const (
	OpenAI      Provider = "openai"
	Anthropic   Provider = "anthropic"
	Cohere      Provider = "cohere"
	HuggingFace Provider = "huggingface"
	Mistral     Provider = "mistral"
	Gemini      Provider = "gemini"
	Grok        Provider = "grok"
)

var taskTypes = []Type{
	ResearchAnalysis,
	MessageProcessing,
	UploadFile,
	FileRetrieval,
	OrganizeFiles,
	FinanceAnalysis,
	SendEmail,
	FetchUnreadEmails,
	SummarizeEmails,
	SearchEmails,
	MeetingScheduling,
	FetchUpcomingEvents,
	MarketResearch,
	QuickAnswers,
	ReportGeneration,
	ProgressTracking,
	HealthReminders,
}

var providers = []Provider{
	OpenAI,
	Anthropic,
	Cohere,
	HuggingFace,
	Mistral,
	Gemini,
	Grok,
}

// Types returns every known task type in registry order.
func Types() []Type {
	out := make([]Type, len(taskTypes))
	copy(out, taskTypes)
	return out
}

// Providers returns every known provider in registry order.
func Providers() []Provider {
	out := make([]Provider, len(providers))
	copy(out, providers)
	return out
}

// KnownType reports whether t is a recognized task type.
func KnownType(t Type) bool {
	for _, known := range taskTypes {
		if known == t {
			return true
		}
	}
	return false
}

// KnownProvider reports whether p is a recognized provider.
func KnownProvider(p Provider) bool {
	for _, known := range providers {
		if known == p {
			return true
		}
	}
	return false
}

// ParseType validates a classifier label against the known task types.
func ParseType(label string) (Type, error) {
	t := Type(label)
	if !KnownType(t) {
		return "", fmt.Errorf("unknown task type %q", label)
	}
	return t, nil
}

// ParseProvider validates a provider name.
func ParseProvider(name string) (Provider, error) {
	p := Provider(name)
	if !KnownProvider(p) {
		return "", fmt.Errorf("unknown provider %q", name)
	}
	return p, nil
}
