package vsolver

import "cmp"

// EventKind classifies a linearized derivation step for the failure
// explainer, per the term-shape table in the spec's external-interfaces
// section.
type EventKind uint8

const (
	EventNoSolution EventKind = iota
	EventDependency
	EventConflict
	EventDisallowed
	EventUnavailable
	EventNeeded
	EventCompromise
)

// Event carries the requirement(s) relevant to an EventKind. Which fields
// are populated depends on Kind:
//
//	NoSolution:   none
//	Dependency:   A = dependent, B = dependency
//	Conflict:     A, B = the two mutually-exclusive requirements
//	Disallowed:   A = the ruled-out requirement
//	Unavailable:  A = the requirement with no candidate
//	Needed:       A = the absolutely-required requirement
//	Compromise:   A, B = the two positive requirements, C = the excluded one
type Event[K cmp.Ordered, R Requirement[K, R]] struct {
	Kind EventKind
	A, B, C R
}

// Handler receives the linearized derivation. Premise is called for
// incompatibilities that are themselves inputs (external causes), and once
// more for an already-explained derived parent after two interleaved
// subtrees; Conclusion for the incompatibility derived from them. Separator
// marks a boundary between two interleaved subtrees.
type Handler[K cmp.Ordered, R Requirement[K, R]] interface {
	Premise(Event[K, R])
	Conclusion(Event[K, R])
	Separator()
}

// classify maps an incompatibility's coalesced terms onto an Event, per the
// table in the spec's "Failure explanation surface" section. It panics on
// term shapes the algorithm never produces — these indicate a solver bug,
// not a user-facing condition.
func classify[K cmp.Ordered, R Requirement[K, R]](ic *Incompatibility[K, R]) Event[K, R] {
	terms := ic.Terms()
	switch len(terms) {
	case 0:
		return Event[K, R]{Kind: EventNoSolution}
	case 1:
		t := terms[0]
		if t.Positive {
			if ic.Cause().Kind == CauseUnavailable {
				return Event[K, R]{Kind: EventUnavailable, A: t.Req}
			}
			return Event[K, R]{Kind: EventDisallowed, A: t.Req}
		}
		return Event[K, R]{Kind: EventNeeded, A: t.Req}
	case 2:
		a, b := terms[0], terms[1]
		if a.Positive != b.Positive {
			pos, neg := a, b
			if b.Positive {
				pos, neg = b, a
			}
			return Event[K, R]{Kind: EventDependency, A: pos.Req, B: neg.Req}
		}
		if a.Positive {
			return Event[K, R]{Kind: EventConflict, A: a.Req, B: b.Req}
		}
		panic("vsolver: invariant violation: two-term incompatibility with both terms negative has no defined explanation shape")
	case 3:
		a, b, c := terms[0], terms[1], terms[2]
		if a.Positive && b.Positive && !c.Positive {
			return Event[K, R]{Kind: EventCompromise, A: a.Req, B: b.Req, C: c.Req}
		}
		panic("vsolver: invariant violation: three-term incompatibility shape is not +,+,-")
	default:
		panic("vsolver: invariant violation: incompatibility has an unexplainable number of terms")
	}
}

func isDerived[K cmp.Ordered, R Requirement[K, R]](ic *Incompatibility[K, R]) bool {
	return ic.Cause().Kind == CauseConflict
}

// Explain linearizes the derivation DAG rooted at fail.Root, depth-first,
// emitting premises for external causes before the conclusion that used
// them, and a separator when both parents of a conflict are themselves
// derived and each of those parents has at least one derived cause of its
// own.
func Explain[K cmp.Ordered, R Requirement[K, R]](fail *Unsolvable[K, R], h Handler[K, R]) {
	e := &explainer[K, R]{h: h}
	e.generateFor(fail.Root)
}

type explainer[K cmp.Ordered, R Requirement[K, R]] struct {
	h Handler[K, R]
}

func (e *explainer[K, R]) generateFor(ic *Incompatibility[K, R]) {
	if isDerived(ic) {
		e.generateForDerived(ic)
	}
}

func (e *explainer[K, R]) generateForDerived(ic *Incompatibility[K, R]) {
	left, right := ic.Cause().Left, ic.Cause().Right
	leftDerived, rightDerived := isDerived(left), isDerived(right)
	switch {
	case leftDerived && rightDerived:
		e.generateComplex(ic, left, right)
	case leftDerived:
		e.generatePartial(ic, left, right)
	case rightDerived:
		e.generatePartial(ic, right, left)
	default:
		e.h.Premise(classify(left))
		e.h.Premise(classify(right))
		e.h.Conclusion(classify(ic))
	}
}

func (e *explainer[K, R]) generatePartial(child, derived, external *Incompatibility[K, R]) {
	derLeft, derRight := derived.Cause().Left, derived.Cause().Right
	dLeftDerived, dRightDerived := isDerived(derLeft), isDerived(derRight)
	switch {
	case dLeftDerived && !dRightDerived:
		e.generateFor(derLeft)
		e.h.Premise(classify(derRight))
		e.h.Premise(classify(external))
		e.h.Conclusion(classify(child))
	case dRightDerived && !dLeftDerived:
		e.generateFor(derRight)
		e.h.Premise(classify(derLeft))
		e.h.Premise(classify(external))
		e.h.Conclusion(classify(child))
	default:
		e.generateFor(derived)
		e.h.Premise(classify(external))
		e.h.Conclusion(classify(child))
	}
}

func (e *explainer[K, R]) generateComplex(child, parentLeft, parentRight *Incompatibility[K, R]) {
	ll, lr := parentLeft.Cause().Left, parentLeft.Cause().Right
	rl, rr := parentRight.Cause().Left, parentRight.Cause().Right
	switch {
	case !isDerived(ll) && !isDerived(lr):
		e.generateFor(parentRight)
		e.generateFor(parentLeft)
		e.h.Conclusion(classify(child))
	case !isDerived(rl) && !isDerived(rr):
		e.generateFor(parentLeft)
		e.generateFor(parentRight)
		e.h.Conclusion(classify(child))
	default:
		e.generateFor(parentLeft)
		e.h.Separator()
		e.generateFor(parentRight)
		e.h.Separator()
		e.h.Premise(classify(parentLeft))
		e.h.Conclusion(classify(child))
	}
}
