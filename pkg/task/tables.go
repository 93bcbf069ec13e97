package task

// DefaultTables returns the built-in capability, default and fallback
// tables. The scores come from observed suitability per task family; treat
// them as tuning data, not design constants.
func DefaultTables() Tables {
	return Tables{
		Capabilities: map[Provider]map[Type]int{
			OpenAI: {
				ResearchAnalysis:    7,
				MessageProcessing:   9,
				UploadFile:          5,
				FileRetrieval:       6,
				OrganizeFiles:       7,
				FinanceAnalysis:     6,
				SendEmail:           6,
				FetchUnreadEmails:   5,
				SummarizeEmails:     8,
				SearchEmails:        9,
				MeetingScheduling:   9,
				FetchUpcomingEvents: 7,
				MarketResearch:      6,
				QuickAnswers:        8,
				ReportGeneration:    7,
				ProgressTracking:    7,
				HealthReminders:     6,
			},
			Anthropic: {
				ResearchAnalysis:    8,
				MessageProcessing:   8,
				UploadFile:          6,
				FileRetrieval:       6,
				OrganizeFiles:       7,
				FinanceAnalysis:     7,
				SendEmail:           9,
				FetchUnreadEmails:   9,
				SummarizeEmails:     8,
				SearchEmails:        7,
				MeetingScheduling:   7,
				FetchUpcomingEvents: 6,
				MarketResearch:      7,
				QuickAnswers:        7,
				ReportGeneration:    8,
				ProgressTracking:    6,
				HealthReminders:     9,
			},
			Cohere: {
				ResearchAnalysis:    7,
				MessageProcessing:   7,
				UploadFile:          4,
				FileRetrieval:       5,
				OrganizeFiles:       6,
				FinanceAnalysis:     6,
				SendEmail:           5,
				FetchUnreadEmails:   4,
				SummarizeEmails:     7,
				SearchEmails:        6,
				MeetingScheduling:   5,
				FetchUpcomingEvents: 5,
				MarketResearch:      7,
				QuickAnswers:        7,
				ReportGeneration:    9,
				ProgressTracking:    6,
				HealthReminders:     5,
			},
			HuggingFace: {
				ResearchAnalysis:    9,
				MessageProcessing:   6,
				UploadFile:          5,
				FileRetrieval:       6,
				OrganizeFiles:       6,
				FinanceAnalysis:     9,
				SendEmail:           4,
				FetchUnreadEmails:   3,
				SummarizeEmails:     6,
				SearchEmails:        5,
				MeetingScheduling:   4,
				FetchUpcomingEvents: 4,
				MarketResearch:      9,
				QuickAnswers:        6,
				ReportGeneration:    7,
				ProgressTracking:    5,
				HealthReminders:     4,
			},
			Mistral: {
				ResearchAnalysis:    8,
				MessageProcessing:   7,
				UploadFile:          6,
				FileRetrieval:       7,
				OrganizeFiles:       9,
				FinanceAnalysis:     7,
				SendEmail:           6,
				FetchUnreadEmails:   5,
				SummarizeEmails:     7,
				SearchEmails:        6,
				MeetingScheduling:   6,
				FetchUpcomingEvents: 9,
				MarketResearch:      7,
				QuickAnswers:        7,
				ReportGeneration:    6,
				ProgressTracking:    7,
				HealthReminders:     6,
			},
			Gemini: {
				ResearchAnalysis:    8,
				MessageProcessing:   8,
				UploadFile:          6,
				FileRetrieval:       6,
				OrganizeFiles:       7,
				FinanceAnalysis:     7,
				SendEmail:           7,
				FetchUnreadEmails:   6,
				SummarizeEmails:     9,
				SearchEmails:        7,
				MeetingScheduling:   7,
				FetchUpcomingEvents: 7,
				MarketResearch:      8,
				QuickAnswers:        9,
				ReportGeneration:    8,
				ProgressTracking:    9,
				HealthReminders:     7,
			},
			Grok: {
				ResearchAnalysis:    7,
				MessageProcessing:   7,
				UploadFile:          9,
				FileRetrieval:       9,
				OrganizeFiles:       8,
				FinanceAnalysis:     7,
				SendEmail:           6,
				FetchUnreadEmails:   7,
				SummarizeEmails:     7,
				SearchEmails:        8,
				MeetingScheduling:   6,
				FetchUpcomingEvents: 7,
				MarketResearch:      7,
				QuickAnswers:        8,
				ReportGeneration:    7,
				ProgressTracking:    7,
				HealthReminders:     6,
			},
		},
		Defaults: map[Type]Provider{
			ResearchAnalysis:    HuggingFace,
			MessageProcessing:   OpenAI,
			UploadFile:          Grok,
			FileRetrieval:       Grok,
			OrganizeFiles:       Mistral,
			FinanceAnalysis:     HuggingFace,
			SendEmail:           Anthropic,
			FetchUnreadEmails:   Anthropic,
			SummarizeEmails:     Gemini,
			SearchEmails:        OpenAI,
			MeetingScheduling:   OpenAI,
			FetchUpcomingEvents: Mistral,
			MarketResearch:      HuggingFace,
			QuickAnswers:        Gemini,
			ReportGeneration:    Cohere,
			ProgressTracking:    Gemini,
			HealthReminders:     Anthropic,
		},
		Fallbacks: map[Provider][]Provider{
			OpenAI:      {Anthropic, Gemini, Mistral, Cohere, HuggingFace, Grok},
			Anthropic:   {OpenAI, Gemini, Mistral, Cohere, HuggingFace, Grok},
			Cohere:      {OpenAI, Anthropic, Gemini, HuggingFace, Mistral, Grok},
			HuggingFace: {OpenAI, Anthropic, Mistral, Gemini, Cohere, Grok},
			Mistral:     {OpenAI, Anthropic, Gemini, HuggingFace, Cohere, Grok},
			Gemini:      {OpenAI, Anthropic, Mistral, HuggingFace, Cohere, Grok},
			Grok:        {OpenAI, Gemini, Anthropic, Mistral, HuggingFace, Cohere},
		},
		Groups: map[Type][]string{
			ResearchAnalysis:    {"research", "analysis", "comprehension"},
			MessageProcessing:   {"textGeneration", "communication"},
			UploadFile:          {"fileHandling", "dataProcessing"},
			FileRetrieval:       {"fileHandling", "search"},
			OrganizeFiles:       {"organization", "categorization"},
			FinanceAnalysis:     {"analysis", "finance", "math"},
			SendEmail:           {"communication", "writing"},
			FetchUnreadEmails:   {"retrieval", "communication"},
			SummarizeEmails:     {"summarization", "communication"},
			SearchEmails:        {"search", "retrieval"},
			MeetingScheduling:   {"scheduling", "organization"},
			FetchUpcomingEvents: {"retrieval", "scheduling"},
			MarketResearch:      {"research", "analysis", "business"},
			QuickAnswers:        {"factRetrieval", "responseSpeed"},
			ReportGeneration:    {"writing", "structuring", "analysis"},
			ProgressTracking:    {"organization", "monitoring"},
			HealthReminders:     {"reminders", "health", "personalization"},
		},
		Strengths: map[Provider]map[string]int{
			OpenAI: {
				"textGeneration": 9,
				"search":         9,
				"scheduling":     8,
				"communication":  8,
				"summarization":  8,
				"responseSpeed":  9,
				"analysis":       7,
				"research":       7,
				"organization":   7,
			},
			Anthropic: {
				"communication":   9,
				"writing":         9,
				"research":        8,
				"analysis":        8,
				"summarization":   8,
				"health":          9,
				"personalization": 8,
				"textGeneration":  8,
			},
			Cohere: {
				"structuring":   9,
				"writing":       8,
				"research":      7,
				"summarization": 7,
				"analysis":      7,
				"responseSpeed": 7,
			},
			HuggingFace: {
				"research": 9,
				"analysis": 9,
				"finance":  9,
				"math":     8,
				"business": 8,
			},
			Mistral: {
				"organization":   9,
				"scheduling":     8,
				"fileHandling":   7,
				"categorization": 8,
				"analysis":       7,
			},
			Gemini: {
				"summarization": 9,
				"responseSpeed": 9,
				"monitoring":    9,
				"research":      8,
				"writing":       8,
				"analysis":      7,
			},
			Grok: {
				"fileHandling":   9,
				"dataProcessing": 8,
				"search":         8,
				"organization":   8,
				"responseSpeed":  8,
			},
		},
	}
}
