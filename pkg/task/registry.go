package task

import "fmt"

// Tables holds the immutable data backing a Registry. Callers construct a
// Tables value (or start from DefaultTables) and hand it to NewRegistry;
// the registry never mutates it afterwards.
type Tables struct {
	// Capabilities scores each provider per task type on a 0-10 scale.
	// Missing entries read as 0.
	Capabilities map[Provider]map[Type]int

	// Defaults maps each task type to its preferred provider.
	Defaults map[Type]Provider

	// Fallbacks orders substitute providers per provider, best first.
	Fallbacks map[Provider][]Provider

	// Groups maps task types to capability group names.
	Groups map[Type][]string

	// Strengths scores each provider per capability group on a 0-10 scale.
	Strengths map[Provider]map[string]int
}

// Registry answers capability, default-provider and fallback questions for
// the known task types and providers. It is stateless and safe for
// concurrent readers.
type Registry struct {
	tables Tables
}

// NewRegistry validates tables and returns a registry over them.
func NewRegistry(tables Tables) (*Registry, error) {
	for provider, scores := range tables.Capabilities {
		if !KnownProvider(provider) {
			return nil, fmt.Errorf("capability table: unknown provider %q", provider)
		}
		for taskType, score := range scores {
			if !KnownType(taskType) {
				return nil, fmt.Errorf("capability table: unknown task type %q for %s", taskType, provider)
			}
			if score < 0 || score > 10 {
				return nil, fmt.Errorf("capability table: score %d for %s/%s out of range", score, provider, taskType)
			}
		}
	}

	for taskType, provider := range tables.Defaults {
		if !KnownType(taskType) {
			return nil, fmt.Errorf("default table: unknown task type %q", taskType)
		}
		if !KnownProvider(provider) {
			return nil, fmt.Errorf("default table: unknown provider %q for %s", provider, taskType)
		}
	}

	for provider, chain := range tables.Fallbacks {
		if !KnownProvider(provider) {
			return nil, fmt.Errorf("fallback table: unknown provider %q", provider)
		}
		seen := map[Provider]bool{provider: true}
		for _, candidate := range chain {
			if !KnownProvider(candidate) {
				return nil, fmt.Errorf("fallback table: unknown provider %q in chain for %s", candidate, provider)
			}
			if seen[candidate] {
				return nil, fmt.Errorf("fallback table: duplicate or self entry %q in chain for %s", candidate, provider)
			}
			seen[candidate] = true
		}
	}

	return &Registry{tables: tables}, nil
}

// CapabilityOf returns the 0-10 capability score for a provider on a task
// type. Unknown identifiers are an error; a missing table entry is a
// legitimate 0, not an error.
func (r *Registry) CapabilityOf(provider Provider, taskType Type) (int, error) {
	if !KnownProvider(provider) {
		return 0, fmt.Errorf("unknown provider %q", provider)
	}
	if !KnownType(taskType) {
		return 0, fmt.Errorf("unknown task type %q", taskType)
	}
	return r.tables.Capabilities[provider][taskType], nil
}

// DefaultProviderFor returns the preferred provider for a task type.
// Task types without an explicit default fall back to OpenAI.
func (r *Registry) DefaultProviderFor(taskType Type) (Provider, error) {
	if !KnownType(taskType) {
		return "", fmt.Errorf("unknown task type %q", taskType)
	}
	if provider, ok := r.tables.Defaults[taskType]; ok {
		return provider, nil
	}
	return OpenAI, nil
}

// FallbackChainFor returns the ordered fallback providers for a provider.
func (r *Registry) FallbackChainFor(provider Provider) ([]Provider, error) {
	if !KnownProvider(provider) {
		return nil, fmt.Errorf("unknown provider %q", provider)
	}
	chain := r.tables.Fallbacks[provider]
	out := make([]Provider, len(chain))
	copy(out, chain)
	return out, nil
}

// StrengthsFor returns the capability-group strengths a provider brings to
// a task type. Groups the provider has no score for are omitted.
func (r *Registry) StrengthsFor(provider Provider, taskType Type) map[string]int {
	strengths := make(map[string]int)
	for _, group := range r.tables.Groups[taskType] {
		if score, ok := r.tables.Strengths[provider][group]; ok {
			strengths[group] = score
		}
	}
	return strengths
}
