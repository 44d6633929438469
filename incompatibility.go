package vsolver

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
)

// CauseKind tags why an Incompatibility exists.
type CauseKind uint8

const (
	// CauseRoot marks an incompatibility seeded directly from a root requirement.
	CauseRoot CauseKind = iota
	// CauseUnavailable marks "no candidate satisfies this requirement".
	CauseUnavailable
	// CauseDependency marks "package X depends on Y".
	CauseDependency
	// CauseConflict marks an incompatibility learned from two prior ones.
	CauseConflict
)

// Cause is a tagged union over an Incompatibility's origin. Left/Right are
// populated only when Kind == CauseConflict.
type Cause[K cmp.Ordered, R Requirement[K, R]] struct {
	Kind        CauseKind
	Left, Right *Incompatibility[K, R]
}

// Incompatibility is a coalesced set of terms (no two share a key) tagged
// with a Cause. Semantically the conjunction of its terms is forbidden.
//
// Incompatibilities are heap-stable once built by the Store: callers must
// treat a *Incompatibility as a non-copyable, append-only record, since its
// address is used to thread Conflict causes.
type Incompatibility[K cmp.Ordered, R Requirement[K, R]] struct {
	terms []Term[K, R]
	cause Cause[K, R]
	id    int // insertion index in the owning Store
}

// newIncompatibility coalesces terms (sorting by key, intersecting any terms
// that share a key) and pairs them with cause. It panics if coalescing two
// same-key terms ever yields an empty intersection — by construction the
// solver never assembles term lists that do that.
func newIncompatibility[K cmp.Ordered, R Requirement[K, R]](terms []Term[K, R], cause Cause[K, R]) *Incompatibility[K, R] {
	byKey := make(map[K]Term[K, R], len(terms))
	order := make([]K, 0, len(terms))
	for _, t := range terms {
		k := t.Key()
		if existing, ok := byKey[k]; ok {
			merged, ok := existing.Intersection(t)
			if !ok {
				panic(fmt.Sprintf("vsolver: invariant violation: coalescing incompatibility terms for key %v produced an empty intersection", k))
			}
			byKey[k] = merged
			continue
		}
		byKey[k] = t
		order = append(order, k)
	}

	slices.SortFunc(order, func(a, b K) int { return cmp.Compare(a, b) })

	ic := &Incompatibility[K, R]{
		terms: make([]Term[K, R], len(order)),
		cause: cause,
	}
	for i, k := range order {
		ic.terms[i] = byKey[k]
	}
	return ic
}

// Terms returns the coalesced terms, in deterministic key order. Callers
// must not mutate the returned slice.
func (ic *Incompatibility[K, R]) Terms() []Term[K, R] { return ic.terms }

// Cause returns the incompatibility's cause.
func (ic *Incompatibility[K, R]) Cause() Cause[K, R] { return ic.cause }

// TermFor returns the term mentioning k, if any.
func (ic *Incompatibility[K, R]) TermFor(k K) (Term[K, R], bool) {
	for _, t := range ic.terms {
		if t.Key() == k {
			return t, true
		}
	}
	return Term[K, R]{}, false
}

func (ic *Incompatibility[K, R]) String() string {
	parts := make([]string, len(ic.terms))
	for i, t := range ic.terms {
		parts[i] = t.String()
	}
	return strings.Join(parts, ", ")
}
