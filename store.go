package vsolver

import "cmp"

// Store is an append-only arena of incompatibilities, indexed by the key of
// every term they mention. Entries are individually heap-allocated
// (*Incompatibility), so their addresses survive the Store's internal slice
// growing — this is what lets Cause.Left/Right cite prior entries safely
// without a linked-list representation.
type Store[K cmp.Ordered, R Requirement[K, R]] struct {
	all   []*Incompatibility[K, R]
	byKey map[K][]*Incompatibility[K, R]
}

// NewStore builds an empty incompatibility store.
func NewStore[K cmp.Ordered, R Requirement[K, R]]() *Store[K, R] {
	return &Store[K, R]{byKey: make(map[K][]*Incompatibility[K, R])}
}

// Emplace constructs an incompatibility in place, appends it, and returns a
// stable reference usable as a Conflict cause.
func (s *Store[K, R]) Emplace(terms []Term[K, R], cause Cause[K, R]) *Incompatibility[K, R] {
	ic := newIncompatibility(terms, cause)
	ic.id = len(s.all)
	s.all = append(s.all, ic)
	for _, t := range ic.terms {
		k := t.Key()
		s.byKey[k] = append(s.byKey[k], ic)
	}
	return ic
}

// ForKey returns the incompatibilities mentioning k, in insertion order.
func (s *Store[K, R]) ForKey(k K) []*Incompatibility[K, R] {
	return s.byKey[k]
}

// All returns every incompatibility ever emplaced, in insertion order.
func (s *Store[K, R]) All() []*Incompatibility[K, R] {
	return s.all
}

// BuildFailure walks the Conflict cause DAG reachable from root and returns
// it linearized in a traversal order sufficient to reconstruct the
// derivation (parents before the children they produced).
func (s *Store[K, R]) BuildFailure(root *Incompatibility[K, R]) *Unsolvable[K, R] {
	var order []*Incompatibility[K, R]
	seen := make(map[*Incompatibility[K, R]]bool)
	var visit func(ic *Incompatibility[K, R])
	visit = func(ic *Incompatibility[K, R]) {
		if seen[ic] {
			return
		}
		seen[ic] = true
		if ic.cause.Kind == CauseConflict {
			visit(ic.cause.Left)
			visit(ic.cause.Right)
		}
		order = append(order, ic)
	}
	visit(root)
	return &Unsolvable[K, R]{Root: root, Derivation: order}
}
