package rules

import (
	"fmt"
	"sort"

	"github.com/Hannlytics/rams-generator/internal/domain"
)

// Registry is an immutable, ID-keyed rule table kept in evaluation order:
// regulation order first, then declaration order within a regulation.
type Registry struct {
	rules []Rule
	byID  map[string]int
}

// NewRegistry validates rules and builds a registry. IDs must be unique and
// every rule needs a known regulation, a known field and a predicate.
func NewRegistry(rules ...Rule) (*Registry, error) {
	order := make(map[domain.Regulation]int, len(domain.RegulationOrder))
	for i, r := range domain.RegulationOrder {
		order[r] = i
	}

	sorted := append([]Rule(nil), rules...)
	for _, r := range sorted {
		if r.ID == "" {
			return nil, fmt.Errorf("rule with empty ID for field %q", r.Field)
		}
		if _, ok := order[r.Regulation]; !ok {
			return nil, fmt.Errorf("rule %s: %w: %q", r.ID, domain.ErrUnknownRegulation, r.Regulation)
		}
		if _, ok := domain.LookupField(r.Field); !ok {
			return nil, fmt.Errorf("rule %s: %w: %q", r.ID, domain.ErrUnknownField, r.Field)
		}
		if r.Check == nil {
			return nil, fmt.Errorf("rule %s has no check", r.ID)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return order[sorted[i].Regulation] < order[sorted[j].Regulation]
	})

	reg := &Registry{rules: sorted, byID: make(map[string]int, len(sorted))}
	for i, r := range sorted {
		if _, dup := reg.byID[r.ID]; dup {
			return nil, fmt.Errorf("duplicate rule ID %s", r.ID)
		}
		reg.byID[r.ID] = i
	}
	return reg, nil
}

// MustRegistry is NewRegistry for static tables; it panics on error.
func MustRegistry(rules ...Rule) *Registry {
	reg, err := NewRegistry(rules...)
	if err != nil {
		panic(err)
	}
	return reg
}

var canonical = MustRegistry(concat(
	cdmRules(),
	coshhRules(),
	riddorRules(),
	workingAtHeightRules(),
	manualHandlingRules(),
	ppeRules(),
)...)

// Default returns the canonical rule registry.
func Default() *Registry { return canonical }

func concat(groups ...[]Rule) []Rule {
	var out []Rule
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

// All returns every rule in evaluation order.
func (r *Registry) All() []Rule { return append([]Rule(nil), r.rules...) }

func (r *Registry) Len() int { return len(r.rules) }

// Get looks a rule up by ID.
func (r *Registry) Get(id string) (Rule, bool) {
	i, ok := r.byID[id]
	if !ok {
		return Rule{}, false
	}
	return r.rules[i], true
}

// Enabled returns the rules owned by the given regulations, in evaluation
// order. An empty list enables every regulation.
func (r *Registry) Enabled(regs []domain.Regulation) []Rule {
	if len(regs) == 0 {
		return r.All()
	}
	on := make(map[domain.Regulation]bool, len(regs))
	for _, reg := range regs {
		on[reg] = true
	}
	var out []Rule
	for _, rule := range r.rules {
		if on[rule.Regulation] {
			out = append(out, rule)
		}
	}
	return out
}

// Infos lists the serializable view of every rule.
func (r *Registry) Infos() []Info {
	out := make([]Info, len(r.rules))
	for i, rule := range r.rules {
		out[i] = rule.Info()
	}
	return out
}
