package rules

import "ordercore/internal/record"

// ruleKey identifies the (table, mutation kind) pair a rule attaches to.
type ruleKey struct {
	table record.Table
	kind  MutationKind
}

// Registry holds the reactive rules keyed by (record kind, mutation kind).
//
// Registration order is significant: rules for a given key run in the
// exact order they were registered, and that order never changes after
// construction. A Registry is immutable once handed to a Dispatcher, so
// it is safe to share across concurrent operations.
type Registry struct {
	rules  map[ruleKey][]Rule
	sealed bool
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{rules: make(map[ruleKey][]Rule)}
}

// Register attaches a rule to mutations of the given kind on the given
// table. Panics if called after the registry has been sealed; a sealed
// registry changing under a live dispatcher would break determinism.
func (r *Registry) Register(table record.Table, kind MutationKind, rule Rule) {
	if r.sealed {
		panic("rules: Register called on sealed registry")
	}
	key := ruleKey{table: table, kind: kind}
	r.rules[key] = append(r.rules[key], rule)
}

// Seal freezes the registry. Further Register calls panic.
func (r *Registry) Seal() {
	r.sealed = true
}

// rulesFor returns the rules registered for a mutation, in registration
// order. Returns nil when nothing is registered, which is valid: the
// mutation is applied with no rule involvement.
func (r *Registry) rulesFor(m Mutation) []Rule {
	return r.rules[ruleKey{table: m.Table, kind: m.Kind}]
}

// Len returns the total number of registered rules. Used for
// introspection and tests.
func (r *Registry) Len() int {
	n := 0
	for _, rs := range r.rules {
		n += len(rs)
	}
	return n
}
