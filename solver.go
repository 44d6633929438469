package vsolver

import (
	"cmp"

	"github.com/sirupsen/logrus"
)

// Provider is the oracle the solver consults. It performs no I/O itself;
// BestCandidate and RequirementsOf are the only points at which the solver
// calls back into caller-supplied code, and it never calls back into the
// solver from within them (the solver is non-reentrant).
type Provider[K cmp.Ordered, R Requirement[K, R]] interface {
	// BestCandidate returns a "pinned" requirement that is a subset of req,
	// or ok == false if nothing satisfies req.
	BestCandidate(req R) (cand R, ok bool)
	// RequirementsOf returns the dependencies of cand. Only ever called with
	// a value previously returned by BestCandidate.
	RequirementsOf(cand R) []R
}

// NewSolver builds a Solver around the given provider. If l is nil, a
// default logrus.Logger is used, mirroring the teacher solver's
// NewSolver(sm, l) constructor.
func NewSolver[K cmp.Ordered, R Requirement[K, R]](p Provider[K, R], l *logrus.Logger) *Solver[K, R] {
	if l == nil {
		l = logrus.New()
	}
	return &Solver[K, R]{
		provider: p,
		log:      l,
		store:    NewStore[K, R](),
		sln:      NewPartialSolution[K, R](),
		changed:  newOrderedSet[K](),
	}
}

// Solver is the PubGrub-style backtracking loop (component E): it owns the
// incompatibility store and partial solution for the lifetime of one solve
// and drives unit propagation, conflict resolution, and decision-making
// against the Provider.
type Solver[K cmp.Ordered, R Requirement[K, R]] struct {
	provider Provider[K, R]
	log      *logrus.Logger
	store    *Store[K, R]
	sln      *PartialSolution[K, R]
	changed  *orderedSet[K]
	attempts int
}

// Solve seeds the store with one Root incompatibility per root requirement,
// then alternates unit propagation and speculative decisions until no
// unsatisfied positive requirement remains. It returns the decided
// requirements in decision order, or an *Unsolvable / *SelfDependencyError.
func Solve[K cmp.Ordered, R Requirement[K, R]](roots []R, p Provider[K, R]) ([]R, error) {
	return NewSolver[K, R](p, nil).Solve(roots)
}

// Solve runs the loop described in the spec's solver-loop algorithm.
func (s *Solver[K, R]) Solve(roots []R) ([]R, error) {
	for _, r := range roots {
		ic := s.store.Emplace([]Term[K, R]{Neg[K, R](r)}, Cause[K, R]{Kind: CauseRoot})
		if s.log.Level >= logrus.DebugLevel {
			s.log.WithFields(logrus.Fields{"requirement": r, "incompatibility": ic}).Debug("seeded root incompatibility")
		}
		s.changed.Add(r.Key())
	}

	for {
		if err := s.unitPropagate(); err != nil {
			return nil, err
		}
		next, ok := s.sln.NextUnsatisfiedPositive()
		if !ok {
			break
		}
		if err := s.decideOne(next); err != nil {
			return nil, err
		}
	}

	sol := s.sln.CompletedSolution()
	if s.log.Level >= logrus.InfoLevel {
		s.log.WithField("attempts", s.attempts).WithField("selected", len(sol)).Info("solve complete")
	}
	return sol, nil
}

// Attempts returns the number of decisions the solve recorded.
func (s *Solver[K, R]) Attempts() int { return s.attempts }

func (s *Solver[K, R]) unitPropagate() error {
	for s.changed.Len() > 0 {
		k, _ := s.changed.PopFront()
		if err := s.propagateForKey(k); err != nil {
			return err
		}
	}
	return nil
}

func (s *Solver[K, R]) propagateForKey(k K) error {
	for _, ic := range s.store.ForKey(k) {
		restart, err := s.propagateOne(ic)
		if err != nil {
			return err
		}
		if restart {
			// the conflict branch cleared and reseeded `changed`; stop
			// iterating this key's incompatibility list and let the outer
			// unitPropagate loop pick up the new changed key.
			return nil
		}
	}
	return nil
}

// propagateOne classifies ic against the partial solution and acts on it.
// It returns restart == true when a conflict was resolved and propagation
// for the current key must stop (the caller's for-loop over ForKey(k)).
func (s *Solver[K, R]) propagateOne(ic *Incompatibility[K, R]) (restart bool, err error) {
	unsat, conflict := s.checkConflict(ic)
	switch {
	case !conflict && unsat == nil:
		// some term disjoint or >1 overlapping: no information
		return false, nil
	case !conflict:
		// exactly one overlapping term: almost-conflict
		inv := unsat.Inverse()
		if s.log.Level >= logrus.DebugLevel {
			s.log.WithFields(logrus.Fields{"derived": inv, "cause": ic}).Debug("unit propagation derived a term")
		}
		s.sln.RecordDerivation(inv, ic)
		s.changed.Add(inv.Key())
		return false, nil
	default:
		if s.log.Level >= logrus.DebugLevel {
			s.log.WithField("incompatibility", ic).Debug("conflict detected, resolving")
		}
		root, err := s.resolveConflict(ic)
		if err != nil {
			return false, err
		}
		unsat2, conflict2 := s.checkConflict(root)
		if conflict2 || unsat2 == nil {
			return false, &InvariantError{Msg: "conflict-resolution root was not an almost-conflict after backtracking"}
		}
		inv := unsat2.Inverse()
		s.sln.RecordDerivation(inv, root)
		s.changed.Clear()
		s.changed.Add(inv.Key())
		return true, nil
	}
}

// checkConflict classifies ic's terms against the partial solution.
// unsat == nil && conflict == false: no conflict (some term disjoint, or
// more than one term overlaps).
// unsat != nil: exactly one overlapping term (almost-conflict); its address
// is returned.
// conflict == true: every term is a subset (a genuine conflict).
func (s *Solver[K, R]) checkConflict(ic *Incompatibility[K, R]) (unsat *Term[K, R], conflict bool) {
	for i, t := range ic.Terms() {
		switch s.sln.RelationTo(t) {
		case Disjoint:
			return nil, false
		case Overlap:
			if unsat != nil {
				return nil, false
			}
			term := ic.Terms()[i]
			unsat = &term
		}
	}
	if unsat == nil {
		return nil, true
	}
	return unsat, false
}

// decideOne asks the provider for a best candidate of req, synthesizes
// dependency incompatibilities, and records a decision unless doing so
// would immediately conflict with those incompatibilities.
func (s *Solver[K, R]) decideOne(req R) error {
	cand, ok := s.provider.BestCandidate(req)
	if !ok {
		if s.log.Level >= logrus.InfoLevel {
			s.log.WithField("requirement", req).Info("no candidate available")
		}
		s.store.Emplace([]Term[K, R]{Pos[K, R](req)}, Cause[K, R]{Kind: CauseUnavailable})
		s.changed.Add(req.Key())
		return nil
	}

	if s.log.Level >= logrus.DebugLevel {
		s.log.WithFields(logrus.Fields{"requirement": req, "candidate": cand}).Debug("evaluating candidate")
	}

	deps := s.provider.RequirementsOf(cand)
	foundConflict := false
	for _, dep := range deps {
		if dep.Key() == cand.Key() {
			return &SelfDependencyError[K, R]{Candidate: cand, Dep: dep}
		}
		ic := s.store.Emplace([]Term[K, R]{Pos[K, R](cand), Neg[K, R](dep)}, Cause[K, R]{Kind: CauseDependency})

		thisConflicts := true
		for _, t := range ic.Terms() {
			if t.Key() == cand.Key() {
				continue
			}
			if !s.sln.Satisfies(t) {
				thisConflicts = false
				break
			}
		}
		if thisConflicts && s.log.Level >= logrus.DebugLevel {
			s.log.WithFields(logrus.Fields{"candidate": cand, "dependency": dep}).Debug("candidate immediately conflicts with current solution")
		}
		foundConflict = foundConflict || thisConflicts
	}

	if !foundConflict {
		s.sln.RecordDecision(Pos[K, R](cand))
		s.attempts++
	}
	s.changed.Add(cand.Key())
	return nil
}

// resolveConflict iteratively substitutes satisfier causes into ic until it
// finds a backjump target, per the spec's conflict-resolution algorithm.
func (s *Solver[K, R]) resolveConflict(ic *Incompatibility[K, R]) (*Incompatibility[K, R], error) {
	current := ic
	for {
		info, ok := s.sln.BuildBacktrackInfo(current.Terms())
		if !ok {
			return nil, s.store.BuildFailure(current)
		}

		if info.Satisfier.IsDecision() || info.PreviousSatisfierLevel < info.Satisfier.Level {
			if s.log.Level >= logrus.DebugLevel {
				s.log.WithFields(logrus.Fields{"level": info.PreviousSatisfierLevel}).Debug("backtrack target found")
			}
			s.sln.BacktrackTo(info.PreviousSatisfierLevel)
			return current, nil
		}

		newTerms := make([]Term[K, R], 0, len(current.Terms())+len(info.Satisfier.Cause.Terms()))
		for _, t := range current.Terms() {
			if t.Key() != info.Term.Key() {
				newTerms = append(newTerms, t)
			}
		}
		for _, t := range info.Satisfier.Cause.Terms() {
			if t.Key() != info.Satisfier.Term.Key() {
				newTerms = append(newTerms, t)
			}
		}
		if info.HasDifference {
			newTerms = append(newTerms, info.Difference.Inverse())
		}

		current = s.store.Emplace(newTerms, Cause[K, R]{Kind: CauseConflict, Left: current, Right: info.Satisfier.Cause})
		if s.log.Level >= logrus.DebugLevel {
			s.log.WithField("incompatibility", current).Debug("derived intermediate incompatibility")
		}
	}
}
