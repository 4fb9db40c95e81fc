package rule

import (
	"fmt"
	"sort"
)

// Registry holds a set of rules indexed by ID. It is built once and read
// concurrently afterwards.
type Registry struct {
	rules []Rule
	byID  map[string]int // id -> index into rules
}

// NewRegistry validates and indexes rules. IDs must be unique and non-empty,
// and each description's Kind must agree with the rule's variant.
func NewRegistry(rules ...Rule) (*Registry, error) {
	r := &Registry{
		rules: make([]Rule, 0, len(rules)),
		byID:  make(map[string]int, len(rules)),
	}
	for _, rl := range rules {
		if err := r.add(rl); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *Registry) add(rl Rule) error {
	d := rl.Description()
	if d.ID == "" {
		return fmt.Errorf("rule %T has an empty id", rl)
	}
	if _, dup := r.byID[d.ID]; dup {
		return fmt.Errorf("duplicate rule id %q", d.ID)
	}
	if d.Kind != KindOf(rl) {
		return fmt.Errorf("rule %q: description kind %s does not match %s implementation", d.ID, d.Kind, KindOf(rl))
	}
	_, correctable := rl.(CorrectableRule)
	if d.Correctable != correctable {
		return fmt.Errorf("rule %q: correctable flag does not match implementation", d.ID)
	}
	switch rl.(type) {
	case StructuralRule, TextualRule:
	default:
		return fmt.Errorf("rule %q implements no evaluation method", d.ID)
	}
	r.byID[d.ID] = len(r.rules)
	r.rules = append(r.rules, rl)
	return nil
}

// All returns the rules in registration order.
func (r *Registry) All() []Rule {
	return append([]Rule(nil), r.rules...)
}

// Lookup finds a rule by ID.
func (r *Registry) Lookup(id string) (Rule, bool) {
	i, ok := r.byID[id]
	if !ok {
		return nil, false
	}
	return r.rules[i], true
}

// Len returns the number of rules.
func (r *Registry) Len() int {
	return len(r.rules)
}

// IDs returns the sorted rule IDs.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.rules))
	for _, rl := range r.rules {
		ids = append(ids, rl.Description().ID)
	}
	sort.Strings(ids)
	return ids
}

// Enabled returns the rules enabled by cfg in registration order.
func (r *Registry) Enabled(cfg Configs) []Rule {
	out := make([]Rule, 0, len(r.rules))
	for _, rl := range r.rules {
		if cfg.For(rl.Description()).Enabled {
			out = append(out, rl)
		}
	}
	return out
}
