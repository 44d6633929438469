package vsolver

import (
	"bytes"
	"cmp"
	"fmt"
)

// Unsolvable is the user-visible failure returned by Solve when no
// selection satisfies every requirement. It carries the terminal
// incompatibility produced by conflict resolution and the linearized
// derivation reachable from it, so a caller can either print Error() or
// drive Explain directly for a custom report.
type Unsolvable[K cmp.Ordered, R Requirement[K, R]] struct {
	Root       *Incompatibility[K, R]
	Derivation []*Incompatibility[K, R]
}

func (e *Unsolvable[K, R]) Error() string {
	var buf bytes.Buffer
	h := &textHandler[K, R]{buf: &buf}
	Explain(e, h)
	if buf.Len() == 0 {
		fmt.Fprint(&buf, "there is no solution")
	}
	fmt.Fprint(&buf, "Thus: there is no solution.")
	return buf.String()
}

// textHandler is a minimal prose renderer used as Unsolvable's default
// Error() body; it is not the only way to consume a derivation — callers
// wanting structured output should call Explain with their own Handler.
type textHandler[K cmp.Ordered, R Requirement[K, R]] struct {
	buf    *bytes.Buffer
	indent string
}

func (h *textHandler[K, R]) line(prefix string, ev Event[K, R]) {
	fmt.Fprintf(h.buf, "%s%s: %s.\n", h.indent, prefix, describe(ev))
}

func (h *textHandler[K, R]) Premise(ev Event[K, R])    { h.line("And", ev) }
func (h *textHandler[K, R]) Conclusion(ev Event[K, R]) { h.line("So", ev) }
func (h *textHandler[K, R]) Separator()                { fmt.Fprintln(h.buf, "---") }

func describe[K cmp.Ordered, R Requirement[K, R]](ev Event[K, R]) string {
	switch ev.Kind {
	case EventNoSolution:
		return "there is no solution"
	case EventDependency:
		return fmt.Sprintf("%v depends on %v", ev.A, ev.B)
	case EventConflict:
		return fmt.Sprintf("%v is incompatible with %v", ev.A, ev.B)
	case EventDisallowed:
		return fmt.Sprintf("%v is forbidden", ev.A)
	case EventUnavailable:
		return fmt.Sprintf("no versions matching %v are available", ev.A)
	case EventNeeded:
		return fmt.Sprintf("%v is required", ev.A)
	case EventCompromise:
		return fmt.Sprintf("%v and %v together rule out %v", ev.A, ev.B, ev.C)
	default:
		return "unknown derivation step"
	}
}

// SelfDependencyError is raised immediately, without backtracking, when the
// provider returns a dependency whose key matches the pinned candidate's own
// key.
type SelfDependencyError[K cmp.Ordered, R Requirement[K, R]] struct {
	Candidate R
	Dep       R
}

func (e *SelfDependencyError[K, R]) Error() string {
	return fmt.Sprintf("vsolver: %v cannot depend on itself (got requirement %v with the same key)", e.Candidate, e.Dep)
}

// InvariantError indicates an impossible algebraic case or a broken solver
// invariant — a bug in this package, not a malformed input.
type InvariantError struct {
	Msg string
}

func (e *InvariantError) Error() string {
	return "vsolver: invariant violation: " + e.Msg
}
