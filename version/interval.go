// Package version supplies a concrete, optional Requirement domain: a
// half-open interval-set algebra over any ordered element type, and a
// semver-backed constraint parser built on top of it.
//
// Nothing in the core solver package depends on this package; it exists so a
// caller doesn't have to write their own Requirement implementation from
// scratch to get a working version resolver.
package version

import (
	"bytes"
	"cmp"
	"fmt"
	"sort"
)

// Interval is a half-open range [Low, High) over an ordered element type.
type Interval[E cmp.Ordered] struct {
	Low, High E
}

func (iv Interval[E]) String() string {
	return fmt.Sprintf("[%v, %v)", iv.Low, iv.High)
}

// Set is a union of disjoint, non-adjacent half-open intervals, represented
// as a sorted slice of alternating low/high boundary points. An even-indexed
// point opens an interval; the following odd-indexed point closes it.
type Set[E cmp.Ordered] struct {
	points []E
}

// Empty returns the empty set.
func Empty[E cmp.Ordered]() Set[E] { return Set[E]{} }

// Single returns the set containing exactly the one interval [low, high).
func Single[E cmp.Ordered](low, high E) Set[E] {
	if !cmp.Less(low, high) {
		panic("version: invalid interval, low must be < high")
	}
	return Set[E]{points: []E{low, high}}
}

// NumIntervals reports how many disjoint intervals s is composed of.
func (s Set[E]) NumIntervals() int { return len(s.points) / 2 }

// Empty reports whether s contains no points.
func (s Set[E]) Empty() bool { return len(s.points) == 0 }

// Intervals returns s's constituent intervals in increasing order.
func (s Set[E]) Intervals() []Interval[E] {
	out := make([]Interval[E], 0, s.NumIntervals())
	for i := 0; i < len(s.points); i += 2 {
		out = append(out, Interval[E]{Low: s.points[i], High: s.points[i+1]})
	}
	return out
}

// pointsBefore returns the count of boundary points <= p: the index of the
// first point > p.
func (s Set[E]) pointsBefore(p E) int {
	return sort.Search(len(s.points), func(i int) bool { return cmp.Less(p, s.points[i]) })
}

// pointsBeforeOrAt returns the count of boundary points strictly less than
// p: the index of the first point >= p.
func (s Set[E]) pointsBeforeOrAt(p E) int {
	return sort.Search(len(s.points), func(i int) bool { return !cmp.Less(s.points[i], p) })
}

// check implements both Contains(interval) (parity 1) and Disjoint(interval)
// (parity 0): iv lies entirely inside, or entirely outside, s's open
// regions, with the boundary-parity of low matching parity.
func (s Set[E]) check(iv Interval[E], parity int) bool {
	before := s.pointsBefore(iv.Low)
	return before%2 == parity && before == s.pointsBeforeOrAt(iv.High)
}

// Contains reports whether point lies in one of s's intervals.
func (s Set[E]) Contains(point E) bool { return s.pointsBefore(point)%2 == 1 }

// ContainsInterval reports whether iv lies entirely within s.
func (s Set[E]) ContainsInterval(iv Interval[E]) bool { return s.check(iv, 1) }

// DisjointInterval reports whether iv shares no point with s.
func (s Set[E]) DisjointInterval(iv Interval[E]) bool { return s.check(iv, 0) }

// ContainsSet reports whether every interval of other lies within s.
func (s Set[E]) ContainsSet(other Set[E]) bool {
	for _, iv := range other.Intervals() {
		if !s.ContainsInterval(iv) {
			return false
		}
	}
	return true
}

// Disjoint reports whether s and other share no point.
func (s Set[E]) Disjoint(other Set[E]) bool {
	for _, iv := range other.Intervals() {
		if !s.DisjointInterval(iv) {
			return false
		}
	}
	return true
}

// Union returns the set of points in s or other (or both).
func (s Set[E]) Union(other Set[E]) Set[E] {
	ret := Set[E]{points: append([]E(nil), s.points...)}
	for _, iv := range other.Intervals() {
		ret.unionInsert(iv)
	}
	return ret
}

func (s *Set[E]) unionInsert(iv Interval[E]) {
	left := s.pointsBeforeOrAt(iv.Low)
	startsWithin := left%2 == 1
	right := s.pointsBefore(iv.High)
	endsWithin := right%2 == 1

	switch {
	case startsWithin && endsWithin:
		s.points = append(s.points[:left], s.points[right:]...)
	case startsWithin && !endsWithin:
		tail := append([]E{iv.High}, s.points[right:]...)
		s.points = append(s.points[:left], tail...)
	case endsWithin && !startsWithin:
		mid := append([]E{iv.Low}, s.points[right:]...)
		s.points = append(s.points[:left], mid...)
	default:
		tail := append([]E{iv.Low, iv.High}, s.points[right:]...)
		s.points = append(s.points[:left], tail...)
	}
}

// Difference returns the set of points in s but not in other.
func (s Set[E]) Difference(other Set[E]) Set[E] {
	ret := Set[E]{points: append([]E(nil), s.points...)}
	for _, iv := range other.Intervals() {
		ret.diffSubtract(iv)
	}
	return ret
}

func (s *Set[E]) diffSubtract(iv Interval[E]) {
	left := s.pointsBeforeOrAt(iv.Low)
	startsWithin := left%2 == 1
	right := s.pointsBefore(iv.High)
	endsWithin := right%2 == 1

	var mid []E
	if startsWithin {
		mid = append(mid, iv.Low)
	}
	if endsWithin {
		mid = append(mid, iv.High)
	}
	s.points = append(s.points[:left:left], append(mid, s.points[right:]...)...)
}

// Intersection returns the set of points in both s and other.
func (s Set[E]) Intersection(other Set[E]) Set[E] {
	mine := s.Intervals()
	theirs := other.Intervals()
	var acc []E
	i, j := 0, 0
	for i < len(mine) && j < len(theirs) {
		a, b := mine[i], theirs[j]
		aIsMine := true
		if cmp.Less(b.Low, a.Low) {
			a, b, aIsMine = b, a, false
		}
		// invariant: a.Low <= b.Low
		switch {
		case !cmp.Less(b.Low, a.High):
			// a:  --%%%%------
			// b:  --------%%%%
			if aIsMine {
				i++
			} else {
				j++
			}
		case !cmp.Less(a.High, b.High):
			// b nests inside (or exactly matches the tail of) a
			acc = append(acc, b.Low, b.High)
			if aIsMine {
				j++
			} else {
				i++
			}
		default:
			// overlap, a ends first
			acc = append(acc, b.Low, a.High)
			if aIsMine {
				i++
			} else {
				j++
			}
		}
	}
	return Set[E]{points: acc}
}

// Equal reports whether s and other denote the same set of points.
func (s Set[E]) Equal(other Set[E]) bool {
	if len(s.points) != len(other.points) {
		return false
	}
	for i := range s.points {
		if cmp.Compare(s.points[i], other.points[i]) != 0 {
			return false
		}
	}
	return true
}

func (s Set[E]) String() string {
	var buf bytes.Buffer
	for i, iv := range s.Intervals() {
		if i > 0 {
			buf.WriteString(" or ")
		}
		fmt.Fprint(&buf, iv)
	}
	if buf.Len() == 0 {
		return "<empty>"
	}
	return buf.String()
}
