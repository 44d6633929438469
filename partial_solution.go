package vsolver

import "cmp"

// Assignment is one entry in the partial solution's journal: either a
// decision (Cause == nil, a speculative positive pick of a provider
// candidate) or a derivation forced by unit propagation (Cause cites the
// incompatibility that forced it).
type Assignment[K cmp.Ordered, R Requirement[K, R]] struct {
	Term  Term[K, R]
	Level int
	Cause *Incompatibility[K, R]
}

// IsDecision reports whether a is a decision rather than a derivation.
func (a Assignment[K, R]) IsDecision() bool { return a.Cause == nil }

// PartialSolution is the ordered journal of decisions and derivations, with
// cached positive/negative summaries per key. Summaries are rebuilt from
// scratch on backtrack rather than incrementally undone, per the design
// notes: it is cheap, and it guarantees the caches never drift from the
// journal.
type PartialSolution[K cmp.Ordered, R Requirement[K, R]] struct {
	journal   []Assignment[K, R]
	positives map[K]Term[K, R]
	negatives map[K]Term[K, R]
	decided   map[K]bool
	posOrder  []K
	level     int
}

// NewPartialSolution builds an empty partial solution.
func NewPartialSolution[K cmp.Ordered, R Requirement[K, R]]() *PartialSolution[K, R] {
	return &PartialSolution[K, R]{
		positives: make(map[K]Term[K, R]),
		negatives: make(map[K]Term[K, R]),
		decided:   make(map[K]bool),
	}
}

func (ps *PartialSolution[K, R]) register(t Term[K, R]) {
	k := t.Key()
	if pos, ok := ps.positives[k]; ok {
		merged, ok := pos.Intersection(t)
		if !ok {
			panic(&InvariantError{Msg: "narrowing an existing positive summary produced an empty term"})
		}
		ps.positives[k] = merged
		return
	}

	term := t
	if neg, ok := ps.negatives[k]; ok {
		merged, ok := t.Intersection(neg)
		if !ok {
			panic(&InvariantError{Msg: "narrowing an existing negative summary produced an empty term"})
		}
		term = merged
	}

	if term.Positive {
		delete(ps.negatives, k)
		ps.positives[k] = term
		ps.posOrder = append(ps.posOrder, k)
	} else {
		ps.negatives[k] = term
	}
}

// RecordDecision appends a decision: term must be positive, and its key must
// not already have a decision recorded. Decision level increases by one.
func (ps *PartialSolution[K, R]) RecordDecision(term Term[K, R]) {
	if !term.Positive {
		panic(&InvariantError{Msg: "a decision must be a positive term"})
	}
	k := term.Key()
	if ps.decided[k] {
		panic(&InvariantError{Msg: "duplicate decision for an already-decided key"})
	}
	ps.level++
	ps.decided[k] = true
	ps.journal = append(ps.journal, Assignment[K, R]{Term: term, Level: ps.level, Cause: nil})
	ps.register(term)
}

// RecordDerivation appends a forced assignment at the current decision
// level, citing the incompatibility that forced it.
func (ps *PartialSolution[K, R]) RecordDerivation(term Term[K, R], cause *Incompatibility[K, R]) {
	ps.journal = append(ps.journal, Assignment[K, R]{Term: term, Level: ps.level, Cause: cause})
	ps.register(term)
}

// RelationTo classifies term against the summary recorded for its key: the
// positive summary if present, else the negative summary, else Overlap.
func (ps *PartialSolution[K, R]) RelationTo(term Term[K, R]) Relation {
	k := term.Key()
	if pos, ok := ps.positives[k]; ok {
		return pos.RelationTo(term)
	}
	if neg, ok := ps.negatives[k]; ok {
		return neg.RelationTo(term)
	}
	return Overlap
}

// Satisfies reports whether the current solution already implies term.
func (ps *PartialSolution[K, R]) Satisfies(term Term[K, R]) bool {
	return ps.RelationTo(term) == Subset
}

// Decided reports whether key k already has a decision recorded.
func (ps *PartialSolution[K, R]) Decided(k K) bool { return ps.decided[k] }

// NextUnsatisfiedPositive returns the requirement of the first key (in the
// order its positive summary first appeared) that has a positive summary
// but no decision yet, to drive the next speculative pick.
func (ps *PartialSolution[K, R]) NextUnsatisfiedPositive() (R, bool) {
	for _, k := range ps.posOrder {
		if ps.decided[k] {
			continue
		}
		if pos, ok := ps.positives[k]; ok {
			return pos.Req, true
		}
	}
	var zero R
	return zero, false
}

// SatisfierOf walks the journal in order, intersecting successive
// assignments for term's key into a running term, and returns the first
// assignment (and its journal index) at which that running term implies
// term. Callers must only call this for terms the whole solution in fact
// satisfies; otherwise this panics with an InvariantError.
func (ps *PartialSolution[K, R]) SatisfierOf(term Term[K, R]) (Assignment[K, R], int) {
	var running Term[K, R]
	have := false
	for i, a := range ps.journal {
		if a.Term.Key() != term.Key() {
			continue
		}
		if !have {
			running = a.Term
			have = true
		} else {
			merged, ok := running.Intersection(a.Term)
			if !ok {
				panic(&InvariantError{Msg: "intersecting journal entries for a satisfied key produced an empty term"})
			}
			running = merged
		}
		if running.Implies(term) {
			return a, i
		}
	}
	panic(&InvariantError{Msg: "no satisfier found for a term expected to be satisfied by the partial solution"})
}

// BacktrackInfo is the result of BuildBacktrackInfo: the incompatibility
// term whose satisfier is most recent, that satisfier, the backjump target
// level, and (if the satisfier over-satisfies the term) the excess term.
type BacktrackInfo[K cmp.Ordered, R Requirement[K, R]] struct {
	Term                   Term[K, R]
	Satisfier              Assignment[K, R]
	PreviousSatisfierLevel int
	Difference             Term[K, R]
	HasDifference          bool
}

// BuildBacktrackInfo determines, among terms (typically a learned
// incompatibility's terms), which has the most recent satisfier in journal
// order, and the highest decision level among the other terms' satisfiers.
// Returns ok == false iff terms is empty.
func (ps *PartialSolution[K, R]) BuildBacktrackInfo(terms []Term[K, R]) (BacktrackInfo[K, R], bool) {
	var (
		mostRecentTerm       Term[K, R]
		mostRecentAssignment Assignment[K, R]
		mostRecentIdx        = -1
		prevLevel            int
		diff                 Term[K, R]
		hasDiff              bool
	)

	for _, term := range terms {
		sat, idx := ps.SatisfierOf(term)

		becameMostRecent := false
		switch {
		case mostRecentIdx == -1:
			mostRecentTerm, mostRecentAssignment, mostRecentIdx = term, sat, idx
			becameMostRecent = true
		case mostRecentIdx < idx:
			if mostRecentAssignment.Level > prevLevel {
				prevLevel = mostRecentAssignment.Level
			}
			mostRecentTerm, mostRecentAssignment, mostRecentIdx = term, sat, idx
			hasDiff = false
			becameMostRecent = true
		default:
			if sat.Level > prevLevel {
				prevLevel = sat.Level
			}
		}

		if becameMostRecent {
			d, ok := mostRecentAssignment.Term.Difference(mostRecentTerm)
			if ok {
				diff, hasDiff = d, true
				dSat, _ := ps.SatisfierOf(d.Inverse())
				if dSat.Level > prevLevel {
					prevLevel = dSat.Level
				}
			} else {
				hasDiff = false
			}
		}
	}

	if mostRecentIdx == -1 {
		return BacktrackInfo[K, R]{}, false
	}
	return BacktrackInfo[K, R]{
		Term:                   mostRecentTerm,
		Satisfier:              mostRecentAssignment,
		PreviousSatisfierLevel: prevLevel,
		Difference:             diff,
		HasDifference:          hasDiff,
	}, true
}

// BacktrackTo drops trailing assignments with level > level, then rebuilds
// the positive/negative summaries and decided-key set from the remaining
// prefix — a full recompute, not an incremental undo.
func (ps *PartialSolution[K, R]) BacktrackTo(level int) {
	cut := len(ps.journal)
	for i, a := range ps.journal {
		if a.Level > level {
			cut = i
			break
		}
	}
	ps.journal = ps.journal[:cut]

	ps.positives = make(map[K]Term[K, R])
	ps.negatives = make(map[K]Term[K, R])
	ps.decided = make(map[K]bool)
	ps.posOrder = nil
	ps.level = level

	for _, a := range ps.journal {
		ps.register(a.Term)
		if a.IsDecision() {
			ps.decided[a.Term.Key()] = true
		}
	}
}

// CompletedSolution returns the requirements of every decision assignment,
// in decision order.
func (ps *PartialSolution[K, R]) CompletedSolution() []R {
	var out []R
	for _, a := range ps.journal {
		if a.IsDecision() {
			out = append(out, a.Term.Req)
		}
	}
	return out
}
