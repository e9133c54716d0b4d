// Package rules ships the built-in screening rule sets. Each rule is a
// declarative description of one strategy from the dragon-pullback family;
// the evaluation machinery lives in the pattern package.
package rules

import (
	"sort"

	"dragonback/internal/pattern"
)

// Registry holds a named collection of rules for lookup and enumeration.
type Registry struct {
	rules map[string]*pattern.Rule
}

// NewRegistry creates an empty rule Registry.
func NewRegistry() *Registry {
	return &Registry{rules: make(map[string]*pattern.Rule)}
}

// Register adds a rule to the registry, keyed by its Name.
func (r *Registry) Register(rule *pattern.Rule) {
	r.rules[rule.Name] = rule
}

// Get retrieves a rule by name. The second return value indicates whether the
// rule was found.
func (r *Registry) Get(name string) (*pattern.Rule, bool) {
	rule, ok := r.rules[name]
	return rule, ok
}

// List returns a sorted slice of all registered rule names.
func (r *Registry) List() []string {
	names := make([]string, 0, len(r.rules))
	for name := range r.rules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Builtin returns a registry with every built-in rule registered.
func Builtin() *Registry {
	r := NewRegistry()
	r.Register(Doji())
	r.Register(DragonBack20())
	r.Register(Shouban())
	r.Register(GoldenHarami())
	r.Register(StrongSignal())
	r.Register(Qiankun())
	r.Register(QinLong())
	r.Register(WeeklyResonance())
	return r
}
