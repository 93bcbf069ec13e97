package classify

import (
	"context"
	"errors"
	"testing"

	"github.com/zen-systems/taskgate/pkg/task"
)

func TestPatternClassifier(t *testing.T) {
	c := NewPatternClassifier()

	cases := []struct {
		text string
		want task.Type
	}{
		{"Send an email to jane@acme.com subject Hello message See you tomorrow", task.SendEmail},
		{"check my inbox", task.FetchUnreadEmails},
		{"summarize my emails", task.SummarizeEmails},
		{"find emails from the landlord", task.SearchEmails},
		{"schedule a meeting with the design team", task.MeetingScheduling},
		{"what's on my calendar", task.FetchUpcomingEvents},
		{"upload this file", task.UploadFile},
		{"organize my files", task.OrganizeFiles},
		{"analyze my bank statement", task.FinanceAnalysis},
		{"research the market for wearables", task.MarketResearch},
		{"generate a report on Q3 churn", task.ReportGeneration},
		{"track my progress on the launch", task.ProgressTracking},
		{"remind me to take my medication", task.HealthReminders},
		{"what is the capital of France?", task.QuickAnswers},
	}

	for _, tc := range cases {
		got, err := c.Classify(context.Background(), tc.text)
		if err != nil {
			t.Fatalf("classify %q: %v", tc.text, err)
		}
		if got != tc.want {
			t.Fatalf("classify %q: got %s, want %s", tc.text, got, tc.want)
		}
	}
}

func TestPatternClassifierTriggerFallback(t *testing.T) {
	c := NewPatternClassifier()

	// No regex covers this phrasing; the "deep dive" trigger does.
	got, err := c.Classify(context.Background(), "please do a deep dive into solid-state batteries")
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	if got != task.ResearchAnalysis {
		t.Fatalf("got %s, want %s", got, task.ResearchAnalysis)
	}
}

func TestPatternClassifierNoMatch(t *testing.T) {
	c := NewPatternClassifier()

	_, err := c.Classify(context.Background(), "zzzz qqqq")
	if err == nil {
		t.Fatalf("expected classification error")
	}
	var clsErr *ClassificationError
	if !errors.As(err, &clsErr) {
		t.Fatalf("expected ClassificationError, got %T", err)
	}
}

func TestTriggerWordBoundaries(t *testing.T) {
	// "file" inside "profile" must not count as a trigger.
	if containsTrigger("update my profile", "file") {
		t.Fatalf("substring inside a word should not match")
	}
	if !containsTrigger("open the file now", "file") {
		t.Fatalf("whole word should match")
	}
}

type fixedClassifier struct {
	taskType task.Type
	err      error
}

func (f fixedClassifier) Classify(context.Context, string) (task.Type, error) {
	return f.taskType, f.err
}

func TestChain(t *testing.T) {
	failing := fixedClassifier{err: &ClassificationError{Reason: "nope"}}
	succeeding := fixedClassifier{taskType: task.QuickAnswers}

	got, err := Chain{failing, succeeding}.Classify(context.Background(), "anything")
	if err != nil {
		t.Fatalf("chain: %v", err)
	}
	if got != task.QuickAnswers {
		t.Fatalf("got %s, want %s", got, task.QuickAnswers)
	}

	if _, err := (Chain{failing}).Classify(context.Background(), "anything"); err == nil {
		t.Fatalf("expected error from all-failing chain")
	}
	if _, err := (Chain{}).Classify(context.Background(), "anything"); err == nil {
		t.Fatalf("expected error from empty chain")
	}
}
