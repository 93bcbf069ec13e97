// Package selector picks the backend provider for a classified task using
// a greedy, stateless, single-pass scoring policy over the task registry.
package selector

import (
	"log"
	"sort"

	"github.com/zen-systems/taskgate/pkg/task"
)

// Context carries optional per-request hints that adjust provider scores.
type Context struct {
	Urgent     bool
	Complexity string
	Domain     string
	Creativity string
}

// AdjustmentRule adds points to specific providers when a context hint
// matches. Rules are additive; magnitudes are tuning data.
type AdjustmentRule struct {
	Reason     string          `yaml:"reason"`
	Providers  []task.Provider `yaml:"providers"`
	Points     int             `yaml:"points"`
	Urgent     bool            `yaml:"urgent,omitempty"`
	Complexity string          `yaml:"complexity,omitempty"`
	Domain     string          `yaml:"domain,omitempty"`
	Creativity string          `yaml:"creativity,omitempty"`
}

func (r AdjustmentRule) matches(ctx *Context) bool {
	if ctx == nil {
		return false
	}
	if r.Urgent && !ctx.Urgent {
		return false
	}
	if r.Complexity != "" && r.Complexity != ctx.Complexity {
		return false
	}
	if r.Domain != "" && r.Domain != ctx.Domain {
		return false
	}
	if r.Creativity != "" && r.Creativity != ctx.Creativity {
		return false
	}
	return true
}

func (r AdjustmentRule) applies(provider task.Provider) bool {
	for _, p := range r.Providers {
		if p == provider {
			return true
		}
	}
	return false
}

// DefaultAdjustmentRules returns the built-in context adjustment table.
func DefaultAdjustmentRules() []AdjustmentRule {
	return []AdjustmentRule{
		{Reason: "complexity", Providers: []task.Provider{task.Anthropic}, Points: 1, Complexity: "high"},
		{Reason: "urgent", Providers: []task.Provider{task.OpenAI, task.Gemini}, Points: 1, Urgent: true},
		{Reason: "domain:finance", Providers: []task.Provider{task.HuggingFace}, Points: 1, Domain: "finance"},
		{Reason: "creativity", Providers: []task.Provider{task.Anthropic}, Points: 1, Creativity: "high"},
	}
}

// Adjustment records one applied rule in a score breakdown.
type Adjustment struct {
	Reason string `json:"reason"`
	Points int    `json:"points"`
}

// Score is the per-provider entry of a selection breakdown.
type Score struct {
	Provider      task.Provider `json:"provider"`
	BaseScore     int           `json:"base_score"`
	AdjustedScore int           `json:"adjusted_score"`
	Adjustments   []Adjustment  `json:"adjustments,omitempty"`
}

// Alternative ranks a provider the caller did not get.
type Alternative struct {
	Provider    task.Provider `json:"provider"`
	Score       int           `json:"score"`
	Rank        int           `json:"rank"`
	Unavailable bool          `json:"unavailable,omitempty"`
}

// Reasoning explains how a selection was reached.
type Reasoning struct {
	DefaultProvider    task.Provider   `json:"default_provider"`
	DefaultAvailable   bool            `json:"default_available"`
	AvailableProviders []task.Provider `json:"available_providers"`
	FallbackConsidered bool            `json:"fallback_considered"`
}

// SelectionResult is the selector's full answer for one task. Selected is
// empty when the caller has no providers configured.
type SelectionResult struct {
	TaskType       task.Type      `json:"task_type"`
	Selected       task.Provider  `json:"selected_provider"`
	Reasoning      Reasoning      `json:"reasoning"`
	ScoreBreakdown []Score        `json:"score_breakdown,omitempty"`
	Alternatives   []Alternative  `json:"alternative_options,omitempty"`
	Capabilities   map[string]int `json:"capabilities,omitempty"`
}

// Confidence maps the winning adjusted score onto a 0-1 decision score.
func (r *SelectionResult) Confidence() float64 {
	if r == nil || r.Selected == "" {
		return 0
	}
	for _, score := range r.ScoreBreakdown {
		if score.Provider == r.Selected {
			adjusted := score.AdjustedScore
			if adjusted > 10 {
				adjusted = 10
			}
			if adjusted < 0 {
				adjusted = 0
			}
			return float64(adjusted) / 10
		}
	}
	// Fallback or last-resort picks have no breakdown entry.
	return 0.5
}

// Selector scores providers against the task registry.
type Selector struct {
	registry *task.Registry
	rules    []AdjustmentRule
	debug    bool
}

// Option configures a Selector.
type Option func(*Selector)

// WithAdjustmentRules replaces the default context adjustment table.
func WithAdjustmentRules(rules []AdjustmentRule) Option {
	return func(s *Selector) {
		s.rules = rules
	}
}

// WithDebug enables debug logging.
func WithDebug(debug bool) Option {
	return func(s *Selector) {
		s.debug = debug
	}
}

// New creates a selector over the given registry.
func New(registry *task.Registry, opts ...Option) *Selector {
	s := &Selector{
		registry: registry,
		rules:    DefaultAdjustmentRules(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Select picks a provider for taskType from the caller's available set.
// An empty available set returns a result with no selection; a non-empty
// set always yields one.
func (s *Selector) Select(taskType task.Type, available []task.Provider, ctx *Context) (*SelectionResult, error) {
	defaultProvider, err := s.registry.DefaultProviderFor(taskType)
	if err != nil {
		return nil, err
	}

	result := &SelectionResult{
		TaskType: taskType,
		Reasoning: Reasoning{
			DefaultProvider:    defaultProvider,
			AvailableProviders: append([]task.Provider(nil), available...),
		},
	}

	if len(available) == 0 {
		if s.debug {
			log.Printf("[selector] no providers available for %s", taskType)
		}
		return result, nil
	}

	scores, err := s.scoreProviders(taskType, available, ctx)
	if err != nil {
		return nil, err
	}
	result.ScoreBreakdown = scores

	if contains(available, defaultProvider) {
		result.Selected = defaultProvider
		result.Reasoning.DefaultAvailable = true
		result.Capabilities = s.registry.StrengthsFor(defaultProvider, taskType)
		result.Alternatives = s.alternatives(taskType, defaultProvider, available, scores)
		return result, nil
	}

	ranked := make([]Score, len(scores))
	copy(ranked, scores)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].AdjustedScore > ranked[j].AdjustedScore
	})

	if len(ranked) > 0 && ranked[0].AdjustedScore > 0 {
		result.Selected = ranked[0].Provider
		result.Capabilities = s.registry.StrengthsFor(result.Selected, taskType)
		result.Alternatives = s.alternatives(taskType, result.Selected, available, scores)
		return result, nil
	}

	// Degenerate scores: walk the default provider's fallback chain.
	result.Reasoning.FallbackConsidered = true
	chain, err := s.registry.FallbackChainFor(defaultProvider)
	if err != nil {
		return nil, err
	}
	for _, candidate := range chain {
		if contains(available, candidate) {
			result.Selected = candidate
			result.Capabilities = s.registry.StrengthsFor(candidate, taskType)
			if s.debug {
				log.Printf("[selector] fallback chain pick %s for %s", candidate, taskType)
			}
			return result, nil
		}
	}

	// Last resort: the available set is non-empty, so never fail.
	result.Selected = available[0]
	result.Capabilities = s.registry.StrengthsFor(available[0], taskType)
	return result, nil
}

// SelectOverride honors an explicit provider choice, still computing the
// breakdown over the available set for transparency.
func (s *Selector) SelectOverride(taskType task.Type, override task.Provider, available []task.Provider, ctx *Context) (*SelectionResult, error) {
	defaultProvider, err := s.registry.DefaultProviderFor(taskType)
	if err != nil {
		return nil, err
	}
	if _, err := s.registry.CapabilityOf(override, taskType); err != nil {
		return nil, err
	}

	scores, err := s.scoreProviders(taskType, available, ctx)
	if err != nil {
		return nil, err
	}

	result := &SelectionResult{
		TaskType: taskType,
		Selected: override,
		Reasoning: Reasoning{
			DefaultProvider:    defaultProvider,
			DefaultAvailable:   contains(available, defaultProvider),
			AvailableProviders: append([]task.Provider(nil), available...),
		},
		ScoreBreakdown: scores,
		Capabilities:   s.registry.StrengthsFor(override, taskType),
	}
	result.Alternatives = s.alternatives(taskType, override, available, scores)
	return result, nil
}

func (s *Selector) scoreProviders(taskType task.Type, available []task.Provider, ctx *Context) ([]Score, error) {
	scores := make([]Score, 0, len(available))
	for _, provider := range available {
		base, err := s.registry.CapabilityOf(provider, taskType)
		if err != nil {
			return nil, err
		}
		score := Score{Provider: provider, BaseScore: base, AdjustedScore: base}
		for _, rule := range s.rules {
			if rule.matches(ctx) && rule.applies(provider) {
				score.AdjustedScore += rule.Points
				score.Adjustments = append(score.Adjustments, Adjustment{Reason: rule.Reason, Points: rule.Points})
			}
		}
		scores = append(scores, score)
	}
	return scores, nil
}

// alternatives ranks the providers the caller did not get: the remaining
// available providers by adjusted score, then the top-2 unavailable ones by
// raw capability as upsell suggestions.
func (s *Selector) alternatives(taskType task.Type, selected task.Provider, available []task.Provider, scores []Score) []Alternative {
	ranked := make([]Score, 0, len(scores))
	for _, score := range scores {
		if score.Provider != selected {
			ranked = append(ranked, score)
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].AdjustedScore > ranked[j].AdjustedScore
	})

	alternatives := make([]Alternative, 0, len(ranked)+2)
	for i, score := range ranked {
		alternatives = append(alternatives, Alternative{
			Provider: score.Provider,
			Score:    score.AdjustedScore,
			Rank:     i + 2, // the selected provider is rank 1
		})
	}

	var unavailable []Alternative
	for _, provider := range task.Providers() {
		if contains(available, provider) {
			continue
		}
		capability, err := s.registry.CapabilityOf(provider, taskType)
		if err != nil {
			continue
		}
		unavailable = append(unavailable, Alternative{Provider: provider, Score: capability, Unavailable: true})
	}
	sort.SliceStable(unavailable, func(i, j int) bool {
		return unavailable[i].Score > unavailable[j].Score
	})
	if len(unavailable) > 2 {
		unavailable = unavailable[:2]
	}
	for i := range unavailable {
		unavailable[i].Rank = len(alternatives) + i + 2
	}

	return append(alternatives, unavailable...)
}

func contains(providers []task.Provider, target task.Provider) bool {
	for _, p := range providers {
		if p == target {
			return true
		}
	}
	return false
}
