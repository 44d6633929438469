package main

import (
	"sort"

	"github.com/sdboyer/vsolver/version"
)

// registry is the demo command's Provider: a small in-memory index of
// available package versions and their dependencies, playing the role that
// a real package index (or golang-dep's SourceManager) plays for the solver.
type registry struct {
	versions map[string][]pkgVersion
}

type pkgVersion struct {
	num  version.Num
	deps []version.Range
}

func newRegistry() *registry {
	return &registry{versions: make(map[string][]pkgVersion)}
}

func (r *registry) addVersion(key, v string, deps ...version.Range) {
	r.versions[key] = append(r.versions[key], pkgVersion{num: version.MustParseVersion(v), deps: deps})
}

// BestCandidate returns the highest version of req's key that satisfies req,
// pinned as an exact-match Range so RequirementsOf can look its dependencies
// back up.
func (r *registry) BestCandidate(req version.Range) (version.Range, bool) {
	candidates := r.versions[req.Key()]
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].num > candidates[j].num })
	for _, c := range candidates {
		if req.Versions.Contains(c.num) {
			return version.Exactly(req.Key(), c.num), true
		}
	}
	return version.Range{}, false
}

// RequirementsOf returns the dependencies recorded for the exact version
// cand pins, looked up by key and packed version ordinal.
func (r *registry) RequirementsOf(cand version.Range) []version.Range {
	for _, c := range r.versions[cand.Key()] {
		if version.Exactly(cand.Key(), c.num).Versions.Equal(cand.Versions) {
			return c.deps
		}
	}
	return nil
}
