package vsolver

import (
	"cmp"
	"fmt"

	"github.com/sdboyer/vsolver/internal/memo"
)

// CachingProvider wraps another Provider with a memo.Cache keyed on the
// requirement's string form, so identical BestCandidate calls made during
// backjumping don't repeat whatever work the underlying Provider does.
type CachingProvider[K cmp.Ordered, R Requirement[K, R]] struct {
	Provider[K, R]
	cache *memo.Cache[R]
}

// NewCachingProvider wraps p. The wrapper itself satisfies Provider, so it
// can be passed to NewSolver in p's place.
func NewCachingProvider[K cmp.Ordered, R Requirement[K, R]](p Provider[K, R]) *CachingProvider[K, R] {
	return &CachingProvider[K, R]{Provider: p, cache: memo.New[R]()}
}

// BestCandidate consults the cache before falling through to the wrapped
// Provider, and records the answer (including a negative one) for next
// time.
func (c *CachingProvider[K, R]) BestCandidate(req R) (R, bool) {
	key := fmt.Sprintf("%v", req)
	if cand, ok := c.cache.Get(key); ok {
		return cand.Value, cand.OK
	}
	cand, ok := c.Provider.BestCandidate(req)
	c.cache.Put(key, memo.Candidate[R]{Value: cand, OK: ok})
	return cand, ok
}
