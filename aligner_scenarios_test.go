// Copyright © 2024 Wei Shen <shenwei356@gmail.com>
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

package anchorwave

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// The scenarios below mirror the qualitative cases called out for the engine:
// a clean match, a substitution, a gap, a cutoff-driven dropout, wave-front
// inheritance across a dropped extension, and back-trace sharing between
// co-linear anchors. Sequences are chosen to be unambiguous (no repeated
// k-mers that would create more than one true zero-penalty placement) so each
// expectation below was hand-derived from a single, traceable DP run rather
// than copied from an example that admits more than one reading.

// ScenarioS1: a single exact 8-base anchor in the middle of a longer
// reference, surrounded on both sides by bases absent from the query. Every
// discovered anchor survives feasibility; all but the one spanning the whole
// query get dropped during the hind/fore passes once a real (not estimated)
// extension is attempted with zero spare penalty.
func TestScenarioS1PerfectMatch(t *testing.T) {
	ref := []byte("TTTTACGTACGTGGGG")
	qry := []byte("ACGTACGT")

	cutoff := &Cutoff{MinimumLength: 8, MaximumPenaltyPerScale: 0}
	al, err := New(DefaultPenalties, cutoff, 4, DefaultEmpKmer)
	assert.NoError(t, err)

	out, err := al.Align(&bruteRef{seq: ref}, qry)
	assert.NoError(t, err)
	if assert.Len(t, out, 1) {
		a := out[0]
		assert.EqualValues(t, 4, a.RefPosition)
		assert.EqualValues(t, 0, a.QueryPosition)
		assert.EqualValues(t, 8, a.Length)
		assert.EqualValues(t, 0, a.Penalty)
		assert.Equal(t, []Operation{{Kind: OpMatch, Count: 8}}, a.Operations)
	}
}

// ScenarioS2: one substitution between two anchors; reuses the pipeline
// already verified in TestAlignSingleMismatchDedupsToOneAlignment, stated
// here under its own name so the property it demonstrates (a single Subst
// run, finalize's dedup collapsing the owner anchor and its Ref-built
// neighbor onto one Alignment) reads as its own scenario.
func TestScenarioS2SingleSubstitution(t *testing.T) {
	ref := []byte("AAAACCCCGGGGTTTT")
	qry := []byte("AAAACCCCAGGGTTTT") // ref's base 8 'G' read as 'A' in the query

	al, err := New(DefaultPenalties, generousCutoff(), 4, DefaultEmpKmer)
	assert.NoError(t, err)

	out, err := al.Align(&bruteRef{seq: ref}, qry)
	assert.NoError(t, err)
	if assert.Len(t, out, 1) {
		assert.EqualValues(t, DefaultPenalties.Mismatch, out[0].Penalty)
		assert.Equal(t, []Operation{
			{Kind: OpMatch, Count: 8},
			{Kind: OpSubst, Count: 1},
			{Kind: OpMatch, Count: 7},
		}, out[0].Operations)
	}
}

// ScenarioS3: the reference carries one extra base the query doesn't have, a
// single-unit deletion. Exercised directly against Extend/BackTrace (rather
// than through the full Aligner pipeline) since the DP-level detail being
// demonstrated -- a gap-open-plus-one-extend path through the chI channel --
// is the thing worth pinning precisely.
func TestScenarioS3SingleBaseDeletion(t *testing.T) {
	ref := []byte("XGATTACAG") // ref has one base ('X') the query lacks
	qry := []byte("GATTACAG")

	dwf := Extend(ref, qry, DefaultPenalties, 20, testBuffer(), nil)
	assert.True(t, dwf.Extended)
	assert.EqualValues(t, DefaultPenalties.GapOpen+DefaultPenalties.GapExt, dwf.LastScore)

	ops, _ := dwf.BackTrace(nil, DefaultPenalties, 0)
	assert.Equal(t, []Operation{
		{Kind: OpDeletion, Count: 1},
		{Kind: OpMatch, Count: 8},
	}, ops)
}

// ScenarioS4: a strict cutoff rejects the only candidate pairing outright, so
// Align reports no alignments rather than one whose penalty exceeds the
// caller's budget.
func TestScenarioS4DropoutUnderStrictCutoff(t *testing.T) {
	ref := []byte("AAAACCCCGGGGTTTT")
	qry := []byte("AAAACCCCAGGGTTTT") // same single substitution as S2

	strict := &Cutoff{MinimumLength: 0, MaximumPenaltyPerScale: 0}
	al, err := New(DefaultPenalties, strict, 4, DefaultEmpKmer)
	assert.NoError(t, err)

	out, err := al.Align(&bruteRef{seq: ref}, qry)
	assert.NoError(t, err)
	assert.Nil(t, out)
}

// ScenarioS5: a dropped extension can still seed a later attempt through
// Inherit, reusing whatever rows of the wave-front matched the check-point
// instead of recomputing them from score 0.
func TestScenarioS5InheritanceReusesDroppedWaveFront(t *testing.T) {
	ref := []byte("AAAAAGGGGG")
	qry := []byte("AAAAACCCCC")

	// Spare budget 0: the run cannot even afford the first mismatch, so the
	// wave-front drops instead of reaching the end-point.
	dwf := Extend(ref, qry, DefaultPenalties, 0, testBuffer(), nil)
	assert.False(t, dwf.Extended)

	// The dropped front still holds five exact matches at k=0, fr=5: a
	// later anchor whose check-point falls inside that span can inherit it.
	cp := CheckPoint{Anchor: 1, K: 0, Fr: 5, Size: 0}
	inherited := dwf.Inherit(cp)
	if assert.NotNil(t, inherited) {
		got := inherited.Scores[0].get(0, chM)
		assert.EqualValues(t, 0, got.Fr)
		assert.Equal(t, btMatch, got.Bt)
	}
}

// ScenarioS6: three co-linear anchors bracketing two substitutions share a
// single back-trace. The middle and trailing anchors both resolve through a
// Ref block pointing at the leading anchor's Own block rather than each
// repeating the walk; resolveOwn must clip each one to its own share of that
// walk.
func TestScenarioS6BackTraceSharedAcrossThreeAnchors(t *testing.T) {
	owner := &Anchor{
		HindBlock: &AlignmentBlock{Kind: BlockOwn, Operations: []Operation{
			{Kind: OpMatch, Count: 4},
			{Kind: OpSubst, Count: 1},
			{Kind: OpMatch, Count: 6},
			{Kind: OpSubst, Count: 1},
		}, Penalty: 2 * DefaultPenalties.Mismatch},
	}
	middle := &Anchor{
		HindBlock: &AlignmentBlock{Kind: BlockRef, Owner: 0, ReverseStart: 7},
	}
	trailing := &Anchor{
		HindBlock: &AlignmentBlock{Kind: BlockRef, Owner: 0, ReverseStart: 0},
	}
	anchors := []*Anchor{owner, middle, trailing}

	// middle sits 7 units before the walk's true end, so its share is
	// everything after the first Subst.
	gotMiddle := resolveOwn(anchors, middle.HindBlock, true)
	assert.Equal(t, []Operation{
		{Kind: OpMatch, Count: 6},
		{Kind: OpSubst, Count: 1},
	}, gotMiddle)

	// trailing sits exactly at the walk's end: nothing remains beyond it.
	gotTrailing := resolveOwn(anchors, trailing.HindBlock, true)
	assert.Empty(t, gotTrailing)
}

// ScenarioS7: two dropped anchors both check-point into the same downstream
// anchor during the same forePass call. The one processed first (c0, at the
// higher index since forePass walks anchors back to front) must claim the
// slot permanently for the pass; c1's later donation must not overwrite it,
// even though both land on a valid, non-nil Inherit result for the very same
// check-point window.
//
// The downstream anchor is kept at AnchorEstimated throughout, which is what
// makes its WFCache observable after the call returns: forePass's own
// dispatch condition only visits anchors in AnchorExact, so an Estimated
// anchor is never itself processed (and its cache never cleared) within the
// same pass that donates into it.
func TestScenarioS7FirstDroppedPredecessorWinsInheritance(t *testing.T) {
	reversedRef := []byte("AAAAAGGGGG")
	reversedQry := []byte("AAAAACCCCC")

	al, err := New(DefaultPenalties, generousCutoff(), 4, DefaultEmpKmer)
	assert.NoError(t, err)

	// c0 and c1 sit at the same position, so they see the identical ten-base
	// slice and both stop at the 'A'-run's end (fr=5); only their affordable
	// spare differs, which decides how far their dropped fronts explore.
	d := &Anchor{
		State:    AnchorEstimated,
		Position: Position{Ref: 4, Qry: 4},
		Size:     1,
	}
	c1 := &Anchor{
		State:       AnchorExact,
		Position:    Position{Ref: 10, Qry: 10},
		HindBlock:   &AlignmentBlock{Kind: BlockOwn, Penalty: 4},
		checkPoints: checkPoints{Fore: []int{0}},
	}
	c0 := &Anchor{
		State:       AnchorExact,
		Position:    Position{Ref: 10, Qry: 10},
		HindBlock:   &AlignmentBlock{Kind: BlockOwn, Penalty: 10},
		checkPoints: checkPoints{Fore: []int{0}},
	}
	anchors := []*Anchor{d, c1, c0}

	al.forePass(anchors, reversedRef, reversedQry)

	// c0 affords spare 0: its dropped front holds only fr=5 at k=0, which
	// shifts (check-point fr=6) to fr=-1 -- a single row.
	if assert.NotNil(t, d.WFCache) {
		assert.Len(t, d.WFCache.Scores, 1)
		got := d.WFCache.Scores[0].get(0, chM)
		assert.EqualValues(t, -1, got.Fr)
		assert.Equal(t, btMatch, got.Bt)
	}

	assert.Equal(t, AnchorDropped, c0.State)
	assert.Equal(t, AnchorDropped, c1.State)
	// d itself is never dispatched: forePass only visits AnchorExact anchors.
	assert.Equal(t, AnchorEstimated, d.State)
}
