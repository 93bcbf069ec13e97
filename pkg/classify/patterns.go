package classify

import (
	"context"
	"regexp"
	"sort"
	"strings"

	"github.com/zen-systems/taskgate/pkg/task"
)

// PatternClassifier classifies requests with high-precision regular
// expressions first, then falls back to trigger-keyword scoring. It never
// performs I/O.
type PatternClassifier struct {
	rules    []patternRule
	triggers []triggerRule
}

type patternRule struct {
	taskType task.Type
	patterns []*regexp.Regexp
}

type triggerRule struct {
	taskType task.Type
	trigger  string
}

// NewPatternClassifier compiles the built-in rule set.
func NewPatternClassifier() *PatternClassifier {
	c := &PatternClassifier{}
	for _, def := range patternDefs {
		rule := patternRule{taskType: def.taskType}
		for _, expr := range def.patterns {
			rule.patterns = append(rule.patterns, regexp.MustCompile(expr))
		}
		c.rules = append(c.rules, rule)
	}
	for _, def := range triggerDefs {
		for _, trigger := range def.triggers {
			c.triggers = append(c.triggers, triggerRule{taskType: def.taskType, trigger: strings.ToLower(trigger)})
		}
	}
	// Longer triggers are more specific.
	sort.SliceStable(c.triggers, func(i, j int) bool {
		return len(c.triggers[i].trigger) > len(c.triggers[j].trigger)
	})
	return c
}

// Classify resolves text to a task type, or a ClassificationError when
// neither pass matches.
func (c *PatternClassifier) Classify(_ context.Context, text string) (task.Type, error) {
	clean := strings.ToLower(strings.TrimSpace(text))

	for _, rule := range c.rules {
		for _, pattern := range rule.patterns {
			if pattern.MatchString(clean) {
				return rule.taskType, nil
			}
		}
	}

	if best, ok := c.bestTriggerMatch(clean); ok {
		return best, nil
	}

	return "", &ClassificationError{Text: text, Reason: "no pattern or trigger matched"}
}

// bestTriggerMatch scores task types by matched trigger count, breaking
// ties by task type name for stability.
func (c *PatternClassifier) bestTriggerMatch(clean string) (task.Type, bool) {
	counts := make(map[task.Type]int)
	for _, rule := range c.triggers {
		if containsTrigger(clean, rule.trigger) {
			counts[rule.taskType]++
		}
	}
	if len(counts) == 0 {
		return "", false
	}

	var best task.Type
	bestCount := 0
	for taskType, count := range counts {
		if count > bestCount || (count == bestCount && taskType < best) {
			best = taskType
			bestCount = count
		}
	}
	return best, true
}

// containsTrigger checks if text contains the trigger phrase on word
// boundaries.
func containsTrigger(text, trigger string) bool {
	idx := strings.Index(text, trigger)
	if idx == -1 {
		return false
	}

	if idx > 0 && isWordChar(text[idx-1]) {
		return false
	}

	endIdx := idx + len(trigger)
	if endIdx < len(text) && isWordChar(text[endIdx]) {
		return false
	}

	return true
}

func isWordChar(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '_'
}

var patternDefs = []struct {
	taskType task.Type
	patterns []string
}{
	{task.SendEmail, []string{
		`(send|write|compose|draft|create|prepare) (an |a |)(email|message|note) (to|for) \w+`,
		`email (to|for) \w+ (about|regarding|concerning)`,
		`(send|shoot|fire off) (a |an |)email (to|for)`,
	}},
	{task.FetchUnreadEmails, []string{
		`(get|check|retrieve|show|fetch|read|display) (my |the |)(unread|new|latest|recent) (emails|messages|inbox)`,
		`(any|what|are there) (new|unread|recent) (emails|messages)`,
		`(what'?s|what is) (in|new in) my inbox`,
		`check (my |the |)inbox`,
	}},
	{task.SummarizeEmails, []string{
		`(summarize|condense|digest|give me a summary of) (my |the |)(emails|messages|inbox)`,
		`(make|create|generate) (a |an |)(summary|overview|digest) of (my |the |)(emails|messages)`,
	}},
	{task.SearchEmails, []string{
		`(find|search|locate|look for) (emails|messages|mail) (from|about|containing|related to|with|that mention)`,
		`(where is|can you locate) (the |that |)(email|message) (about|from|regarding)`,
	}},
	{task.MeetingScheduling, []string{
		`(schedule|set up|arrange|book|plan|organize|create) (a |an |)(meeting|call|appointment|session)`,
		`(add|put|create) (a |an |)(event|meeting|appointment) (on|in|to) (my |the |)calendar`,
		`(book|schedule|reserve) (a |an |)(time|slot|session) (with|for)`,
	}},
	{task.FetchUpcomingEvents, []string{
		`(what|which|any|are there) (meetings|events|appointments|calls) (scheduled|coming up|planned)`,
		`(show|check|list|display|get) (my |the |)(upcoming|scheduled|planned|future) (meetings|events|appointments)`,
		`(what'?s|what is) (on|in) (my |the |)calendar`,
	}},
	{task.UploadFile, []string{
		`(save|store|upload|backup|put) (this |the |a |an |)(file|document|spreadsheet|presentation)`,
	}},
	{task.OrganizeFiles, []string{
		`(arrange|organize|sort|tidy up|rearrange|clean up) (my |this |the |all |these )?(files?|documents?|folders?)`,
	}},
	{task.FileRetrieval, []string{
		`(find|get|retrieve|locate|download|open) (my |the |a |an |that |)(file|document|pdf|spreadsheet|presentation)`,
	}},
	{task.FinanceAnalysis, []string{
		`(analyze|review|examine) (my |the |this |)(finances|bank statement|spending|transactions|budget)`,
		`(calculate|compute|figure out) (my |the |)(roi|return|profit|loss|margins|taxes)`,
		`(track|monitor|follow) (my |the |)(spending|expenses|budget|investments)`,
	}},
	{task.MarketResearch, []string{
		`(research|analyze|investigate) (the |)(market|industry|sector|competition)`,
		`(what'?s|what is) (trending|popular|hot) (in|on) (the |)(market|industry)`,
	}},
	{task.ReportGeneration, []string{
		`(generate|create|make|prepare|produce) (a |an |)(report|overview)`,
		`(need|want) (a |an |)(report|analysis) (on|of|about)`,
	}},
	{task.ProgressTracking, []string{
		`(track|monitor|follow|check) (my |the |our |)(progress|status|advancement)`,
		`(how|what) (am i|are we) (doing|progressing) (on|with)`,
	}},
	{task.HealthReminders, []string{
		`(remind|alert|notify) me (to|about) (take|drink|exercise|meditate|stretch)`,
		`(set|create) (a |an |)(health|medication|hydration|exercise) reminder`,
		`(track|monitor|log) (my |)(health|fitness|weight|calories|steps|sleep)`,
	}},
	{task.MessageProcessing, []string{
		`(process|analyze|extract) (this |the |a |an |)(message|text|content)`,
		`(what are|extract) (the |)(key points|main ideas) (from|in) (this |the |)(message|text)`,
	}},
	{task.QuickAnswers, []string{
		`^(what|who|when|where|why|how) (is|are|was|were|do|does|did|can|could|should)`,
		`(tell|explain|define) (me |us |)(what|who|when|where|why|how)`,
		`(quick|short|brief) (question|query)`,
	}},
}

var triggerDefs = []struct {
	taskType task.Type
	triggers []string
}{
	{task.ResearchAnalysis, []string{"research", "analyze", "compare", "deep dive"}},
	{task.SendEmail, []string{"send", "compose", "draft", "email to"}},
	{task.FetchUnreadEmails, []string{"inbox", "unread"}},
	{task.SummarizeEmails, []string{"summarize", "digest"}},
	{task.SearchEmails, []string{"search emails"}},
	{task.MeetingScheduling, []string{"schedule", "meeting", "appointment"}},
	{task.FetchUpcomingEvents, []string{"calendar", "upcoming"}},
	{task.UploadFile, []string{"upload", "store"}},
	{task.FileRetrieval, []string{"file", "document", "download"}},
	{task.OrganizeFiles, []string{"organize", "sort", "tidy"}},
	{task.FinanceAnalysis, []string{"finance", "budget", "spending", "statement"}},
	{task.MarketResearch, []string{"market", "industry", "competitors"}},
	{task.QuickAnswers, []string{"what", "who", "when", "where", "why", "how"}},
	{task.ReportGeneration, []string{"report", "overview"}},
	{task.ProgressTracking, []string{"progress", "status", "tracking"}},
	{task.HealthReminders, []string{"health", "reminder", "medication"}},
	{task.MessageProcessing, []string{"process", "extract", "key points"}},
}
