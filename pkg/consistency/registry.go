package consistency

import (
	"slices"
	"sort"
	"sync"

	"github.com/leapstack-labs/sketchlink/pkg/core"
)

// globalRegistry is the single global registry for consistency rules.
var globalRegistry = &Registry{
	rules: make(map[string]RuleDef),
}

// Registry stores registered consistency rules for discovery.
type Registry struct {
	mu    sync.RWMutex
	rules map[string]RuleDef // keyed by ID
}

// RuleDef is a consistency rule definition.
type RuleDef struct {
	ID          string           // Unique identifier, e.g., "NM01"
	Name        string           // Human-readable name, e.g., "same-name-for-linked-elements"
	Group       string           // Category: "naming", "linking", "structure"
	Description string           // Human-readable description
	Severity    core.Severity    // Default severity
	ModelTypes  []core.ModelType // Applicable model types; empty means all
	Rationale   string           // Why the rule matters, for documentation
	ConfigKeys  []string         // Option keys this rule accepts
	// New creates a fresh rule instance for one evaluation.
	New func(def RuleDef) Rule
}

// AppliesTo reports whether the rule runs against models of type t.
func (d RuleDef) AppliesTo(t core.ModelType) bool {
	return len(d.ModelTypes) == 0 || slices.Contains(d.ModelTypes, t)
}

// Info returns the documentation metadata of the rule.
func (d RuleDef) Info() core.RuleInfo {
	return core.RuleInfo{
		ID:              d.ID,
		Name:            d.Name,
		Group:           d.Group,
		Description:     d.Description,
		DefaultSeverity: d.Severity,
		ModelTypes:      d.ModelTypes,
		Rationale:       d.Rationale,
		ConfigKeys:      d.ConfigKeys,
	}
}

// Register adds a rule to the global registry.
// Call this from init() functions in rule packages.
func Register(rule RuleDef) {
	globalRegistry.mu.Lock()
	defer globalRegistry.mu.Unlock()
	globalRegistry.rules[rule.ID] = rule
}

// GetAll returns all registered rules sorted by ID.
func GetAll() []RuleDef {
	globalRegistry.mu.RLock()
	defer globalRegistry.mu.RUnlock()

	rules := make([]RuleDef, 0, len(globalRegistry.rules))
	for _, rule := range globalRegistry.rules {
		rules = append(rules, rule)
	}
	sort.Slice(rules, func(i, j int) bool { return rules[i].ID < rules[j].ID })
	return rules
}

// GetByID returns a rule by its ID.
func GetByID(id string) (RuleDef, bool) {
	globalRegistry.mu.RLock()
	defer globalRegistry.mu.RUnlock()
	rule, ok := globalRegistry.rules[id]
	return rule, ok
}

// RulesFor returns the rules applicable to model type t, sorted by ID.
func RulesFor(t core.ModelType) []RuleDef {
	var rules []RuleDef
	for _, rule := range GetAll() {
		if rule.AppliesTo(t) {
			rules = append(rules, rule)
		}
	}
	return rules
}

// Count returns the number of registered rules.
func Count() int {
	globalRegistry.mu.RLock()
	defer globalRegistry.mu.RUnlock()
	return len(globalRegistry.rules)
}

// Clear removes all registered rules. Used for testing.
func Clear() {
	globalRegistry.mu.Lock()
	defer globalRegistry.mu.Unlock()
	globalRegistry.rules = make(map[string]RuleDef)
}
