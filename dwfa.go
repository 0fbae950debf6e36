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
	"encoding/binary"
	"math/bits"
)

// DropoffWaveFront is the per-extension DWFA state: the wave-front rows
// computed so far, and whether the extension reached an endpoint of either
// sequence (Extended) or exhausted its spare penalty first (Dropped).
//
// Channel naming follows the teacher's wfa_backtrace_types.go literally
// ("insert" advances the reference-only offset, "delete" advances the
// query-only offset — see BackTrace's chI/chD cases below) rather than the
// conventional CIGAR reading of those words; the externally visible
// Operation kinds (operations.go) are what actually obey the ref/query
// length accounting, not these internal channel names.
type DropoffWaveFront struct {
	LastScore uint32
	LastK     int32
	Extended  bool
	Scores    []WaveFrontScore
}

// CheckPoint is a position on a wave-front diagonal through which a
// downstream anchor's own span would pass, registered by the orchestrator
// before extension begins (spec.md §4.E/§4.F). Anchor is the index of the
// anchor this check-point belongs to (the "owner" of the position, not of
// the wave-front currently being walked).
type CheckPoint struct {
	Anchor int
	K      int32
	Fr     int32
	Size   int32
}

// RefBlock is the back-trace-sharing record spec.md §4.C produces when a
// check-point is traversed: the downstream anchor's alignment is encoded by
// reference into Owner's Own operations, starting ReverseStart positions
// before Owner's own end.
type RefBlock struct {
	Owner        int
	ReverseStart int32
	Penalty      uint32
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}

func max32(a, b int32) int32 {
	if a > b {
		return a
	}
	return b
}

// matchRun returns the number of consecutive matching bytes starting at
// ref[h:], qry[v:], scanning 8 bytes at a time via XOR + leading-zero-count
// before falling back to a byte-wise scan for the remainder — the same
// two-phase technique as the teacher's extend() in wfa.go.
func matchRun(ref, qry []byte, h, v int) int {
	n := 0
	refLen, qryLen := len(ref), len(qry)
	for v+8 <= qryLen && h+8 <= refLen {
		q8 := binary.BigEndian.Uint64(qry[v : v+8])
		r8 := binary.BigEndian.Uint64(ref[h : h+8])
		d := bits.LeadingZeros64(q8^r8) >> 3
		n += d
		v += d
		h += d
		if d < 8 {
			return n
		}
	}
	for v < qryLen && h < refLen && qry[v] == ref[h] {
		n++
		v++
		h++
	}
	return n
}

func extendCell(ref, qry []byte, c *Component, k int32) {
	h := int(c.Fr)
	v := h - int(k)
	if v < 0 || v > len(qry) || h > len(ref) {
		return
	}
	c.Fr += int32(matchRun(ref, qry, h, v))
}

// checkEndpoint scans a row in ascending k (spec.md §4.C step 3: "the first
// k in scan order wins") and reports whether any M component reached the
// end of either sequence.
func checkEndpoint(row *WaveFrontScore, refLen, qryLen int) (int32, bool) {
	for k := -row.MaxK; k <= row.MaxK; k++ {
		c := row.get(k, chM)
		if c.isEmpty() {
			continue
		}
		h := int(c.Fr)
		v := h - int(k)
		if h >= refLen || v >= qryLen {
			return k, true
		}
	}
	return 0, false
}

// Extend runs the DWFA from score 0 (or from the end of cache, if supplied)
// up to spare, returning either Extended (reached an endpoint) or Dropped
// (exhausted spare). cache, when non-nil, is a wave-front already produced
// by Inherit: its rows are trusted verbatim and the loop resumes at
// len(cache.Scores) (spec.md §4.F step 2, the wave-front inheritance path).
func Extend(ref, qry Sequence, penalties *Penalties, spare uint32, buf *WaveFrontBuffer, cache *DropoffWaveFront) *DropoffWaveFront {
	refLen, qryLen := len(ref), len(qry)
	need := int(spare) + 1
	rows := buf.rowsFor(need)

	startScore := 0
	if cache != nil && len(cache.Scores) > 0 {
		startScore = len(cache.Scores)
		if startScore > need {
			startScore = need
		}
		copy(rows[:startScore], cache.Scores[:startScore])
		// An inherited prefix comes from a wave-front that was Dropped, so by
		// construction it never reached an endpoint; no need to re-check it.
	}

	if startScore == 0 {
		rows[0].reset(0)
		m := rows[0].at(0)
		m[chM] = Component{Fr: 0, Bt: btMatch}
		extendCell(ref, qry, &m[chM], 0)
		if k, ok := checkEndpoint(&rows[0], refLen, qryLen); ok {
			return &DropoffWaveFront{LastScore: 0, LastK: k, Extended: true, Scores: rows[:1]}
		}
		startScore = 1
	}

	x := int32(penalties.Mismatch)
	o := int32(penalties.GapOpen)
	e := int32(penalties.GapExt)

	for s := startScore; s <= int(spare); s++ {
		maxK := maxKForScore(uint32(s), penalties.GapOpen, penalties.GapExt)
		rows[s].reset(maxK)
		fillScore(rows, int32(s), maxK, x, o, e)
		for k := -maxK; k <= maxK; k++ {
			m := rows[s].at(k)
			if m[chM].isEmpty() {
				continue
			}
			extendCell(ref, qry, &m[chM], k)
		}
		if k, ok := checkEndpoint(&rows[s], refLen, qryLen); ok {
			return &DropoffWaveFront{LastScore: uint32(s), LastK: k, Extended: true, Scores: rows[:s+1]}
		}
	}

	return &DropoffWaveFront{LastScore: spare, Extended: false, Scores: rows[:spare+1]}
}

// getComponent fetches a previously computed component, reporting whether
// the (score, diagonal) pair is both in range and non-empty.
func getComponent(rows []WaveFrontScore, s int32, k int32, ch int) (Component, bool) {
	if s < 0 || int(s) >= len(rows) {
		return Component{}, false
	}
	row := &rows[s]
	if !row.inRange(k) {
		return Component{}, false
	}
	c := row.get(k, ch)
	if c.isEmpty() {
		return Component{}, false
	}
	return c, true
}

// fillScore computes the I, D and M channels at score s for every diagonal
// in [-maxK, maxK], following the recurrence in spec.md §4.C. The tie-break
// rules (which predecessor wins when two candidates tie on fr) are ported
// directly from the teacher's next() in wfa.go rather than the spec's own
// (looser) "smaller fr+1 wins" phrasing, which does not square with always
// taking the furthest reach.
func fillScore(rows []WaveFrontScore, s int32, maxK int32, x, o, e int32) {
	sMismatch := s - x
	sGapOpen := s - o - e
	sGapExt := s - e

	for k := -maxK; k <= maxK; k++ {
		// insertion channel (chI): ref-only advance, from k-1.
		mOpen, fromOpen := getComponent(rows, sGapOpen, k-1, chM)
		iExt, fromExt := getComponent(rows, sGapExt, k-1, chI)
		var insFr int32
		var insBt uint8
		haveIns := fromOpen || fromExt
		if haveIns {
			insFr = max32(valOr(fromOpen, mOpen.Fr), valOr(fromExt, iExt.Fr)) + 1
			switch {
			case fromOpen && fromExt:
				if mOpen.Fr >= iExt.Fr {
					insBt = btInsertOpen
				} else {
					insBt = btInsertExt
				}
			case fromOpen:
				insBt = btInsertOpen
			default:
				insBt = btInsertExt
			}
			rows[s].at(k)[chI] = Component{Fr: insFr, Bt: insBt}
		}

		// deletion channel (chD): query-only advance, from k+1.
		mOpen2, fromOpen2 := getComponent(rows, sGapOpen, k+1, chM)
		dExt, fromExt2 := getComponent(rows, sGapExt, k+1, chD)
		var delFr int32
		var delBt uint8
		haveDel := fromOpen2 || fromExt2
		if haveDel {
			delFr = max32(valOr(fromOpen2, mOpen2.Fr), valOr(fromExt2, dExt.Fr))
			switch {
			case fromOpen2 && fromExt2:
				if mOpen2.Fr >= dExt.Fr {
					delBt = btDeleteOpen
				} else {
					delBt = btDeleteExt
				}
			case fromOpen2:
				delBt = btDeleteOpen
			default:
				delBt = btDeleteExt
			}
			rows[s].at(k)[chD] = Component{Fr: delFr, Bt: delBt}
		}

		// mismatch candidate for M: from M(s-x)[k].
		mMis, fromMis := getComponent(rows, sMismatch, k, chM)
		var misFr int32
		if fromMis {
			misFr = mMis.Fr + 1
		}

		if !haveIns && !haveDel && !fromMis {
			continue
		}

		msk := misFr
		if haveIns && insFr > msk {
			msk = insFr
		}
		if haveDel && delFr > msk {
			msk = delFr
		}

		var bestBt uint8
		switch {
		case haveIns && haveDel && fromMis:
			switch {
			case msk == misFr:
				bestBt = btMismatch
			case msk == insFr:
				bestBt = insBt
			default:
				bestBt = delBt
			}
		case haveIns && haveDel:
			if msk == insFr {
				bestBt = insBt
			} else {
				bestBt = delBt
			}
		case haveIns && fromMis:
			if msk == misFr {
				bestBt = btMismatch
			} else {
				bestBt = insBt
			}
		case haveIns:
			bestBt = insBt
		case haveDel && fromMis:
			if msk == misFr {
				bestBt = btMismatch
			} else {
				bestBt = delBt
			}
		case haveDel:
			bestBt = delBt
		default:
			bestBt = btMismatch
		}
		rows[s].at(k)[chM] = Component{Fr: msk, Bt: bestBt}
	}
}

func valOr(ok bool, v int32) int32 {
	if ok {
		return v
	}
	return 0
}

// BackTrace walks back from (LastScore, LastK, M) following bt tags,
// coalescing match runs and emitting Ref-blocks for every check-point whose
// span is fully traversed by a single diagonal run (spec.md §4.C Back-trace).
// checkPoints is consumed non-destructively (the caller's slice is copied).
func (d *DropoffWaveFront) BackTrace(checkPoints []CheckPoint, penalties *Penalties, currentAnchor int) ([]Operation, map[int]RefBlock) {
	if !d.Extended {
		return nil, nil
	}
	o := int32(penalties.GapOpen)
	e := int32(penalties.GapExt)
	x := int32(penalties.Mismatch)

	remaining := append([]CheckPoint(nil), checkPoints...)
	refBlocks := make(map[int]RefBlock)
	var ops []Operation

	total := int32(d.LastScore)
	consume := func(k, fr, nextFr, s int32) {
		kept := remaining[:0]
		for _, cp := range remaining {
			if cp.K == k && nextFr <= cp.Fr-cp.Size && cp.Fr <= fr {
				// s is the score spent reaching fr from this extension's own
				// origin; total-s is what remains between the check-point and
				// the true end-point, which is the only part the successor
				// anchor's own Ref-block should be charged for. ops already
				// holds every unit walked after this run, so the distance
				// to the owner's end is that count plus fr-cp.Fr.
				walked := int32(operationsTotalLength(ops))
				refBlocks[cp.Anchor] = RefBlock{Owner: currentAnchor, ReverseStart: walked + fr - cp.Fr, Penalty: uint32(total - s)}
				continue
			}
			kept = append(kept, cp)
		}
		remaining = kept
	}

	s := int32(d.LastScore)
	k := d.LastK
	channel := chM
	first := d.Scores[s].get(k, chM)
	fr, bt := first.Fr, first.Bt

	for {
		switch channel {
		case chM:
			switch bt {
			case btMatch:
				consume(k, fr, 0, s)
				if fr > 0 {
					ops = appendOp(ops, OpMatch, uint32(fr))
				}
				return coalesceOperations(reverseOperations(ops)), refBlocks

			case btMismatch:
				pred, _ := getComponent(d.Scores, s-x, k, chM)
				consume(k, fr, pred.Fr+1, s)
				if run := fr - pred.Fr - 1; run > 0 {
					ops = appendOp(ops, OpMatch, uint32(run))
				}
				ops = appendOp(ops, OpSubst, 1)
				s, fr, bt = s-x, pred.Fr, pred.Bt

			case btInsertOpen, btInsertExt:
				raw, _ := getComponent(d.Scores, s, k, chI)
				consume(k, fr, raw.Fr, s)
				if run := fr - raw.Fr; run > 0 {
					ops = appendOp(ops, OpMatch, uint32(run))
				}
				fr, bt, channel = raw.Fr, raw.Bt, chI

			case btDeleteOpen, btDeleteExt:
				raw, _ := getComponent(d.Scores, s, k, chD)
				consume(k, fr, raw.Fr, s)
				if run := fr - raw.Fr; run > 0 {
					ops = appendOp(ops, OpMatch, uint32(run))
				}
				fr, bt, channel = raw.Fr, raw.Bt, chD

			default:
				return coalesceOperations(reverseOperations(ops)), refBlocks
			}

		case chI:
			// The teacher's "insert" channel advances the reference-only
			// offset (ref base consumed, no query base): this is what
			// spec.md §8 property 2 calls a Deletion run.
			ops = appendOp(ops, OpDeletion, 1)
			if bt == btInsertOpen {
				predS := s - o - e
				pred, _ := getComponent(d.Scores, predS, k-1, chM)
				s, k, channel, fr, bt = predS, k-1, chM, pred.Fr, pred.Bt
			} else {
				predS := s - e
				pred, _ := getComponent(d.Scores, predS, k-1, chI)
				s, k, channel, fr, bt = predS, k-1, chI, pred.Fr, pred.Bt
			}

		case chD:
			// The teacher's "delete" channel advances the query-only offset:
			// spec.md §8 property 2's Insertion.
			ops = appendOp(ops, OpInsertion, 1)
			if bt == btDeleteOpen {
				predS := s - o - e
				pred, _ := getComponent(d.Scores, predS, k+1, chM)
				s, k, channel, fr, bt = predS, k+1, chM, pred.Fr, pred.Bt
			} else {
				predS := s - e
				pred, _ := getComponent(d.Scores, predS, k+1, chD)
				s, k, channel, fr, bt = predS, k+1, chD, pred.Fr, pred.Bt
			}
		}
	}
}

// Inherit implements the Inheritance check from spec.md §4.C: find the
// largest score s* at which this (Dropped) wave-front holds a non-EMPTY M
// at cp.K with fr inside [cp.Fr-cp.Size, cp.Fr], and if found, return the
// wave-front truncated to rows[0:s*+1] (scores 0 through s*) and shifted so the new origin is
// (cp.Fr, cp.K). Returns nil if no such score exists.
func (d *DropoffWaveFront) Inherit(cp CheckPoint) *DropoffWaveFront {
	bestS := -1
	for s := 0; s < len(d.Scores); s++ {
		row := &d.Scores[s]
		if !row.inRange(cp.K) {
			continue
		}
		c := row.get(cp.K, chM)
		if c.isEmpty() {
			continue
		}
		if c.Fr >= cp.Fr-cp.Size && c.Fr <= cp.Fr {
			bestS = s
		}
	}
	if bestS < 0 {
		return nil
	}
	shifted := make([]WaveFrontScore, bestS+1)
	for s := 0; s <= bestS; s++ {
		shifted[s] = shiftRow(&d.Scores[s], cp.K, cp.Fr)
	}
	return &DropoffWaveFront{Scores: shifted}
}

// shiftRow re-indexes a row's diagonals by -kShift and its fr values by
// -frShift, so a row computed against one anchor's origin becomes valid
// against a downstream anchor's own origin at (frShift, kShift).
func shiftRow(src *WaveFrontScore, kShift, frShift int32) WaveFrontScore {
	if len(src.Components) == 0 {
		return WaveFrontScore{}
	}
	loNew := -src.MaxK - kShift
	hiNew := src.MaxK - kShift
	newMaxK := max32(abs32(loNew), abs32(hiNew))
	out := newWaveFrontScore(newMaxK)
	for k := -src.MaxK; k <= src.MaxK; k++ {
		for ch := 0; ch < 3; ch++ {
			c := src.get(k, ch)
			if c.isEmpty() {
				continue
			}
			out.at(k - kShift)[ch] = Component{Fr: c.Fr - frShift, Bt: c.Bt}
		}
	}
	return out
}
