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

// AnchorState is the tagged-variant state of an Anchor's alignment progress
// (spec.md §3/§9): the four cases are mutually exclusive and transitions
// are one-directional (Empty -> Estimated -> Exact | Dropped).
type AnchorState uint8

const (
	AnchorEmpty AnchorState = iota
	AnchorEstimated
	AnchorExact
	AnchorDropped
)

// Position is the 0-based (ref, qry) offset pair an anchor starts at.
type Position struct {
	Ref uint64
	Qry uint64
}

// checkPoints holds the two ordered index lists an anchor participates in:
// Fore holds anchors earlier in query order that may connect into this one
// (consulted during the fore pass); Hind holds anchors later in query order
// this one may connect into (consulted during the hind pass).
type checkPoints struct {
	Fore []int
	Hind []int
}

// EmpBlock is the empirical (penalty, length) estimate for one uncovered
// side of an anchor (spec.md §4.E).
type EmpBlock struct {
	Penalty uint64
	Length  uint64
}

// Anchor is a candidate k-mer match, possibly fused with adjacent matches
// via impeccable extension, carrying its own alignment progress. Anchors
// refer to each other only by index into the orchestrator's slice
// (spec.md §9 "cyclic references"); there is no anchor-to-anchor pointer.
type Anchor struct {
	Position Position
	Size     int
	State    AnchorState

	ForeEmp EmpBlock
	HindEmp EmpBlock

	ForeBlock *AlignmentBlock
	HindBlock *AlignmentBlock

	checkPoints checkPoints
	WFCache     *DropoffWaveFront
	Connected   map[int]bool
}

// refEnd and qryEnd are the exclusive end offsets of the anchor's own span.
func (a *Anchor) refEnd() uint64 { return a.Position.Ref + uint64(a.Size) }
func (a *Anchor) qryEnd() uint64 { return a.Position.Qry + uint64(a.Size) }

// newAnchor builds a fresh size-k anchor at the given window.
func newAnchor(refPos, qryPos uint64, k int) *Anchor {
	return &Anchor{
		Position: Position{Ref: refPos, Qry: qryPos},
		Size:     k,
		State:    AnchorEmpty,
	}
}

// impeccableExtend fuses one more k-mer window onto an anchor that matched
// contiguously (spec.md §4.D): size grows, position is unchanged.
func (a *Anchor) impeccableExtend(k int) {
	a.Size += k
}

// DiscoverAnchors walks qry in non-overlapping k-mer windows, queries ref's
// substring index at each, and fuses contiguous hits into longer anchors
// (spec.md §4.D). It returns the anchors in the order they were flushed,
// which is not necessarily query order, and the
// anchorExistence vector EMP estimation consumes (one bool per window, plus
// a trailing element for the final flushed cache).
//
// There is no direct analogue of seeding in the teacher (a single-pair
// aligner has nothing to seed); this walk follows
// original_source/src/alignment/anchor.rs's AnchorGroup::new step 1
// literally, translated into the teacher's slice-and-loop idiom.
func DiscoverAnchors(ref ReferenceView, qry Sequence, k int) ([]*Anchor, []bool) {
	if k <= 0 {
		return nil, nil
	}
	searchCount := len(qry) / k
	anchors := make([]*Anchor, 0, searchCount)
	existence := make([]bool, 0, searchCount+1)

	var cache []*Anchor
	haveCache := false

	for i := 0; i < searchCount; i++ {
		qryPos := uint64(i * k)
		pattern := qry[qryPos : qryPos+uint64(k)]
		positions := ref.Locate(pattern)

		if !haveCache {
			if len(positions) != 0 {
				cache = make([]*Anchor, 0, len(positions))
				for _, p := range positions {
					cache = append(cache, newAnchor(p, qryPos, k))
				}
				haveCache = true
			}
			existence = append(existence, false)
			continue
		}

		if len(positions) == 0 {
			anchors = append(anchors, cache...)
			cache = nil
			haveCache = false
			existence = append(existence, true)
			continue
		}

		consumed := make(map[uint64]bool, len(positions))
		next := make([]*Anchor, 0, len(positions))
		for _, a := range cache {
			extendPos := a.refEnd()
			matched := false
			for _, p := range positions {
				if p == extendPos && !consumed[p] {
					consumed[p] = true
					matched = true
					break
				}
			}
			if matched {
				a.impeccableExtend(k)
				next = append(next, a)
			} else {
				anchors = append(anchors, a)
			}
		}
		for _, p := range positions {
			if !consumed[p] {
				next = append(next, newAnchor(p, qryPos, k))
			}
		}
		cache = next
		existence = append(existence, true)
	}

	if haveCache {
		anchors = append(anchors, cache...)
		existence = append(existence, true)
	} else {
		existence = append(existence, false)
	}

	any := false
	for _, e := range existence {
		if e {
			any = true
			break
		}
	}
	if !any {
		return nil, existence
	}
	return anchors, existence
}
