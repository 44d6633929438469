package vsolver_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vsolver "github.com/sdboyer/vsolver"
	"github.com/sdboyer/vsolver/version"
)

// recordedStep is one call the explainer made against recordingHandler, in
// the order it made it.
type recordedStep struct {
	kind string // "premise", "conclusion", or "separator"
	ev   vsolver.Event[string, version.Range]
}

type recordingHandler struct {
	steps []recordedStep
}

func (h *recordingHandler) Premise(ev vsolver.Event[string, version.Range]) {
	h.steps = append(h.steps, recordedStep{kind: "premise", ev: ev})
}

func (h *recordingHandler) Conclusion(ev vsolver.Event[string, version.Range]) {
	h.steps = append(h.steps, recordedStep{kind: "conclusion", ev: ev})
}

func (h *recordingHandler) Separator() {
	h.steps = append(h.steps, recordedStep{kind: "separator"})
}

// TestExplainInterleavesComplexConflict builds the cyclic pair from spec §8
// scenario 6 ("Unsolvable, structured"): a@100 depends on b[100,101), a@200
// depends on b[200,201), b@100 depends on a[200,201), b@200 depends on
// a[100,101). Neither version of a can coexist with either version of b, so
// the conflict that terminates the search has two parents that are each
// themselves derived — the one shape that drives the traversal into
// generateComplex's separator-interleaved branch rather than the
// one-derived-parent generatePartial path TestSolveUnsolvableExplainsFailure
// exercises.
func TestExplainInterleavesComplexConflict(t *testing.T) {
	p := newFakeProvider()
	p.add("a", "100.0.0", version.MustParseRange("b", ">=100.0.0, <101.0.0"))
	p.add("a", "200.0.0", version.MustParseRange("b", ">=200.0.0, <201.0.0"))
	p.add("b", "100.0.0", version.MustParseRange("a", ">=200.0.0, <201.0.0"))
	p.add("b", "200.0.0", version.MustParseRange("a", ">=100.0.0, <101.0.0"))

	roots := []version.Range{
		version.MustParseRange("a", ">=0.0.0, <999.0.0"),
		version.MustParseRange("b", ">=0.0.0, <999.0.0"),
	}

	_, err := vsolver.Solve[string, version.Range](roots, p)
	require.Error(t, err)

	var unsolvable *vsolver.Unsolvable[string, version.Range]
	require.ErrorAs(t, err, &unsolvable)

	h := &recordingHandler{}
	vsolver.Explain(unsolvable, h)

	require.NotEmpty(t, h.steps, "Explain must emit at least the terminal no-solution conclusion")

	last := h.steps[len(h.steps)-1]
	assert.Equal(t, "conclusion", last.kind, "the derivation must end in a conclusion")
	assert.Equal(t, vsolver.EventNoSolution, last.ev.Kind, "the final conclusion must be the no-solution event")

	var premises, conclusions, separators int
	for _, s := range h.steps {
		switch s.kind {
		case "premise":
			premises++
		case "conclusion":
			conclusions++
		case "separator":
			separators++
		}
	}
	assert.Positive(t, premises, "a structured failure must cite at least one premise")
	assert.Positive(t, conclusions, "a structured failure must derive at least one conclusion")

	// A Separator() call only ever comes from generateComplex's "both
	// parents derived" branch (explain.go's default case in
	// generateComplex): reaching it is the whole point of this scenario.
	require.Positive(t, separators, "the cyclic a/b conflict must interleave two derived subtrees with a separator")

	// Each separator sits between real content on both sides: generateComplex's
	// default branch emits generateFor(parentLeft), Separator(), generateFor(parentRight),
	// Separator(), then the premise/conclusion for the child itself — so no
	// separator is the very first or very last step, and no two separators
	// are adjacent with nothing recorded between them.
	for i, s := range h.steps {
		if s.kind != "separator" {
			continue
		}
		require.Greater(t, i, 0, "a separator cannot be the first recorded step")
		require.Less(t, i, len(h.steps)-1, "a separator cannot be the last recorded step")
		assert.NotEqual(t, "separator", h.steps[i-1].kind, "separators must not be adjacent")
	}
}
