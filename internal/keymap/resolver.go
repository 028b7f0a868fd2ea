package keymap

import "slices"

// Resolver maps key strings to actions.
type Resolver struct {
	bindings map[string]Action   // key -> action
	byAction map[Action][]string // action -> keys (for help)
}

// NewResolver creates a resolver from bindings. When two bindings share a
// key, the first one wins.
func NewResolver(bindings []Binding) *Resolver {
	r := &Resolver{
		bindings: make(map[string]Action),
		byAction: make(map[Action][]string),
	}
	for _, b := range bindings {
		for _, k := range b.Keys {
			if _, taken := r.bindings[k]; !taken {
				r.bindings[k] = b.Action
			}
			if !slices.Contains(r.byAction[b.Action], k) {
				r.byAction[b.Action] = append(r.byAction[b.Action], k)
			}
		}
	}
	return r
}

// Resolve returns the action for a key, or empty string if not bound.
func (r *Resolver) Resolve(key string) Action {
	return r.bindings[key]
}

// KeysFor returns the keys bound to an action, in binding order.
func (r *Resolver) KeysFor(action Action) []string {
	return slices.Clone(r.byAction[action])
}
