package vsolver

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
)

// SetLog replaces the solver's logger, mirroring the teacher's pattern of a
// settable *logrus.Logger rather than a package-level global.
func (s *Solver[K, R]) SetLog(l *logrus.Logger) {
	if l != nil {
		s.log = l
	}
}

// DumpState writes a snapshot of the incompatibility store and partial
// solution journal to w, gated behind the caller's own debug-level check
// (the teacher never traces unconditionally; callers should guard this with
// `if s.log.Level >= logrus.DebugLevel` the same way solver.go does before
// each WithFields(...).Debug(...) call).
func (s *Solver[K, R]) DumpState(w io.Writer) {
	fmt.Fprintf(w, "incompatibilities (%d):\n", len(s.store.All()))
	for i, ic := range s.store.All() {
		fmt.Fprintf(w, "  [%d] %s  (cause: %s)\n", i, ic, ic.Cause().Kind)
	}
	fmt.Fprintf(w, "journal (%d assignments):\n", len(s.sln.journal))
	for i, a := range s.sln.journal {
		kind := "derivation"
		if a.IsDecision() {
			kind = "decision"
		}
		fmt.Fprintf(w, "  [%d] level=%d %s: %s\n", i, a.Level, kind, a.Term)
	}
}

func (k CauseKind) String() string {
	switch k {
	case CauseRoot:
		return "root"
	case CauseUnavailable:
		return "unavailable"
	case CauseDependency:
		return "dependency"
	case CauseConflict:
		return "conflict"
	default:
		return "unknown"
	}
}

