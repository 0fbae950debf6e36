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
	"sort"
)

// Alignment is one reported hit: the aligned span's start in both
// sequences, its length and penalty, and the run-length operations
// covering it (spec.md §6).
type Alignment struct {
	RefPosition   uint64
	QueryPosition uint64
	Length        uint64
	Penalty       uint64
	Operations    []Operation
}

// Aligner owns the configuration and the reusable wave-front storage across
// queries, following the teacher's Aligner/New/RecycleAligner facade
// (wfa.go) generalized from a single pairwise alignment to the anchor-driven
// engine. Per spec.md §3 "Ownership & lifetime", only Penalties, Cutoff and
// the buffer persist across Align calls; anchors and DWFA state are
// per-query.
type Aligner struct {
	Penalties *Penalties
	Cutoff    *Cutoff
	K         int
	EmpKmer   *EmpKmer

	buf *WaveFrontBuffer
}

// New validates the configuration and constructs an Aligner, mirroring the
// teacher's validating constructor (wfa.go's New) — spec.md §6/§7: a
// configuration error is fatal and no Aligner is returned.
func New(penalties *Penalties, cutoff *Cutoff, k int, empKmer *EmpKmer) (*Aligner, error) {
	if k <= 0 {
		return nil, configError("k must be positive, got %d", k)
	}
	if penalties.GapExt < 1 {
		return nil, configError("gap-extend penalty must be >= 1, got %d", penalties.GapExt)
	}
	if sparePenaltyDenominator(penalties.GapExt, cutoff.MaximumPenaltyPerScale) <= 0 {
		return nil, configError("cutoff/penalty combination yields a non-positive spare-penalty denominator")
	}
	if empKmer == nil {
		empKmer = DefaultEmpKmer
	}
	return &Aligner{
		Penalties: penalties,
		Cutoff:    cutoff,
		K:         k,
		EmpKmer:   empKmer,
		buf:       NewWaveFrontBuffer(penalties, cutoff),
	}, nil
}

// Align runs the full anchor discovery / feasibility / two-pass DWFA
// pipeline against one query (spec.md §4). It never blocks and always
// returns (possibly an empty slice, never an error for "no alignment" —
// spec.md §7).
func (al *Aligner) Align(ref ReferenceView, qry Sequence) ([]Alignment, error) {
	if len(qry) == 0 {
		return nil, ErrEmptyQuery
	}
	if len(qry) < al.K {
		return nil, nil
	}
	refBytes := ref.Bytes()
	refLen := uint64(len(refBytes))
	qryLen := uint64(len(qry))

	if err := fitsPos(refLen); err != nil {
		return nil, err
	}
	if err := fitsPos(qryLen); err != nil {
		return nil, err
	}

	anchors, existence := DiscoverAnchors(ref, qry, al.K)
	if len(anchors) == 0 {
		return nil, nil
	}

	sort.SliceStable(anchors, func(i, j int) bool {
		if anchors[i].Position.Qry != anchors[j].Position.Qry {
			return anchors[i].Position.Qry < anchors[j].Position.Qry
		}
		return anchors[i].Position.Ref < anchors[j].Position.Ref
	})

	for _, a := range anchors {
		a.estimate(refLen, qryLen, al.K, existence)
		if !a.isValidRaw(al.Cutoff) {
			a.State = AnchorDropped
		}
	}
	buildCheckPoints(anchors, al.Penalties, al.Cutoff)

	if !al.buf.HaveEnoughCapacity(len(qry)) {
		al.buf.GrowTo(len(qry), al.Penalties, al.Cutoff)
	}

	al.hindPass(anchors, refBytes, qry)

	reversedRef := reverseBytes(refBytes)
	reversedQry := reverseBytes(qry)
	al.forePass(anchors, reversedRef, reversedQry)

	return al.finalize(anchors, refLen, qryLen), nil
}

// hindCheckPoint/foreCheckPoint translate an anchor-index relationship into
// the diagonal-local (K, Fr, Size) triple the DWFA consumes, following
// original_source/src/alignment/anchor.rs's wf_backtrace_check_points /
// wf_inheritance_check_points (both branches use the same formula; the
// distinction there is only which anchor-state anchors are filtered to).

func hindCheckPoint(current, successor *Anchor, successorIdx int) CheckPoint {
	refGap := int32(successor.refEnd() - current.refEnd())
	qryGap := int32(successor.qryEnd() - current.qryEnd())
	return CheckPoint{Anchor: successorIdx, K: refGap - qryGap, Fr: refGap, Size: int32(successor.Size)}
}

func foreCheckPoint(current, predecessor *Anchor, predecessorIdx int) CheckPoint {
	refGap := int32(current.Position.Ref - predecessor.Position.Ref)
	qryGap := int32(current.Position.Qry - predecessor.Position.Qry)
	return CheckPoint{Anchor: predecessorIdx, K: refGap - qryGap, Fr: refGap, Size: int32(predecessor.Size)}
}

// hindPass implements spec.md §4.F's hind (forward) pass.
func (al *Aligner) hindPass(anchors []*Anchor, refBytes, qry Sequence) {
	refLen, qryLen := uint64(len(refBytes)), uint64(len(qry))

	// Shared across every dropped anchor in this pass, not just one: once a
	// downstream anchor's cache is claimed by the first (lowest-index)
	// dropped predecessor that check-points into it, no later predecessor
	// may overwrite it (spec.md §4.F "first dropped predecessor wins").
	checked := make(map[int]bool)

	for i, c := range anchors {
		if c.State != AnchorEstimated {
			continue
		}

		refLeft := refLen - c.refEnd()
		qryLeft := qryLen - c.qryEnd()
		lMiddle := minU64(refLeft, qryLeft) + uint64(c.Size)
		spare := sparePenalty(al.Penalties, al.Cutoff, c.ForeEmp.Length, c.ForeEmp.Penalty, lMiddle)

		cache := c.WFCache
		c.WFCache = nil

		if spare < 0 {
			c.State = AnchorDropped
			continue
		}

		refSlice := refBytes[c.refEnd():]
		qrySlice := qry[c.qryEnd():]
		dwf := Extend(refSlice, qrySlice, al.Penalties, uint32(spare), al.buf, cache)

		if dwf.Extended {
			cps := make([]CheckPoint, 0, len(c.checkPoints.Hind))
			for _, j := range c.checkPoints.Hind {
				if anchors[j].State != AnchorEstimated {
					continue
				}
				cps = append(cps, hindCheckPoint(c, anchors[j], j))
			}
			ops, refBlocks := dwf.BackTrace(cps, al.Penalties, i)

			c.HindBlock = &AlignmentBlock{Kind: BlockOwn, Operations: ops, Penalty: dwf.LastScore}
			c.Connected = make(map[int]bool, len(refBlocks))
			c.State = AnchorExact

			for j, rb := range refBlocks {
				d := anchors[j]
				d.HindBlock = &AlignmentBlock{
					Kind:         BlockRef,
					Owner:        rb.Owner,
					ReverseStart: rb.ReverseStart,
					Penalty:      rb.Penalty,
				}
				d.State = AnchorExact
				d.WFCache = nil
				c.Connected[j] = true
			}
			continue
		}

		// Dropped: inheritance check against the same checkpoints.
		cps := make([]CheckPoint, 0, len(c.checkPoints.Hind))
		for _, j := range c.checkPoints.Hind {
			if anchors[j].State != AnchorEstimated {
				continue
			}
			cps = append(cps, hindCheckPoint(c, anchors[j], j))
		}
		for _, cp := range cps {
			if checked[cp.Anchor] {
				continue
			}
			d := anchors[cp.Anchor]
			if inherited := dwf.Inherit(cp); inherited != nil {
				d.WFCache = inherited
			}
			checked[cp.Anchor] = true
			for _, succ := range d.checkPoints.Hind {
				checked[succ] = true
			}
		}
		c.State = AnchorDropped
	}
}

// forePass implements spec.md §4.F's fore (reverse) pass: anchors are
// visited in reverse query order against reversed sequences; only anchors
// still in Exact(None, _) (our AnchorExact with ForeBlock == nil) are
// eligible.
func (al *Aligner) forePass(anchors []*Anchor, reversedRef, reversedQry Sequence) {
	refLen, qryLen := uint64(len(reversedRef)), uint64(len(reversedQry))

	// Shared across every dropped anchor in this pass; see hindPass's
	// identical guard for why this must not be re-created per predecessor.
	checked := make(map[int]bool)

	for i := len(anchors) - 1; i >= 0; i-- {
		c := anchors[i]
		if c.State != AnchorExact || c.ForeBlock != nil {
			continue
		}
		if c.HindBlock == nil {
			continue
		}

		pOther := uint64(c.HindBlock.Penalty)
		var lOther uint64
		if c.HindBlock.Kind == BlockOwn {
			lOther = operationsTotalLength(c.HindBlock.Operations)
		} else {
			lOther = uint64(c.HindBlock.ReverseStart)
		}

		lMiddle := minU64(c.Position.Ref, c.Position.Qry) + uint64(c.Size)
		spare := sparePenalty(al.Penalties, al.Cutoff, lOther, pOther, lMiddle)

		cache := c.WFCache
		c.WFCache = nil

		if spare < 0 {
			c.State = AnchorDropped
			continue
		}

		refSlice := reversedRef[refLen-c.Position.Ref:]
		qrySlice := reversedQry[qryLen-c.Position.Qry:]
		dwf := Extend(refSlice, qrySlice, al.Penalties, uint32(spare), al.buf, cache)

		if dwf.Extended {
			cps := make([]CheckPoint, 0, len(c.checkPoints.Fore))
			for _, j := range c.checkPoints.Fore {
				if anchors[j].State != AnchorEstimated {
					continue
				}
				cps = append(cps, foreCheckPoint(c, anchors[j], j))
			}
			rawOps, refBlocks := dwf.BackTrace(cps, al.Penalties, i)
			ops := reverseOperations(rawOps)

			c.ForeBlock = &AlignmentBlock{Kind: BlockOwn, Operations: ops, Penalty: dwf.LastScore}
			if c.Connected == nil {
				c.Connected = make(map[int]bool, len(refBlocks))
			}
			for j, rb := range refBlocks {
				d := anchors[j]
				d.ForeBlock = &AlignmentBlock{
					Kind:         BlockRef,
					Owner:        rb.Owner,
					ReverseStart: rb.ReverseStart,
					Penalty:      rb.Penalty,
				}
				d.WFCache = nil
				c.Connected[j] = true
			}
			continue
		}

		cps := make([]CheckPoint, 0, len(c.checkPoints.Fore))
		for _, j := range c.checkPoints.Fore {
			if anchors[j].State != AnchorEstimated {
				continue
			}
			cps = append(cps, foreCheckPoint(c, anchors[j], j))
		}
		for _, cp := range cps {
			if checked[cp.Anchor] {
				continue
			}
			d := anchors[cp.Anchor]
			if inherited := dwf.Inherit(cp); inherited != nil {
				d.WFCache = inherited
			}
			checked[cp.Anchor] = true
			for _, pred := range d.checkPoints.Fore {
				checked[pred] = true
			}
		}
		c.State = AnchorDropped
	}
}

// resolveOwn returns the real (possibly Ref-indirected) Own operations a
// block denotes, slicing the owner's Own run by the trailing ReverseStart
// edit-units a Ref block claims (spec.md §3 AlignmentBlock::Ref). hind
// selects which of the owner's two Own slots the Ref block was produced
// against — a hind-pass Ref block always points at the owner's HindBlock,
// a fore-pass one at its ForeBlock, since back-trace sharing never crosses
// passes.
func resolveOwn(anchors []*Anchor, block *AlignmentBlock, hind bool) []Operation {
	if block.Kind == BlockOwn {
		return block.Operations
	}
	owner := anchors[block.Owner]
	var ownerBlock *AlignmentBlock
	if hind {
		ownerBlock = owner.HindBlock
	} else {
		ownerBlock = owner.ForeBlock
	}
	if ownerBlock == nil || ownerBlock.Kind != BlockOwn {
		return nil
	}
	return suffixByLength(ownerBlock.Operations, uint64(block.ReverseStart))
}

// operationsTotalLength sums every run's Count, the edit-script length
// (independent of ref/query axis), matching the quantity the original's
// non-run-length Vec<Operation>::len() measured.
func operationsTotalLength(ops []Operation) uint64 {
	var n uint64
	for _, op := range ops {
		n += uint64(op.Count)
	}
	return n
}

// suffixByLength returns the trailing run-sequence whose total Count sums to
// length, splitting the first partially-included run if length doesn't fall
// on a run boundary.
func suffixByLength(ops []Operation, length uint64) []Operation {
	if length == 0 {
		return nil
	}
	var total uint64
	for _, op := range ops {
		total += uint64(op.Count)
	}
	if length >= total {
		return ops
	}
	remaining := length
	start := len(ops)
	for i := len(ops) - 1; i >= 0; i-- {
		if uint64(ops[i].Count) >= remaining {
			start = i
			break
		}
		remaining -= uint64(ops[i].Count)
		start = i
	}
	out := append([]Operation(nil), ops[start:]...)
	if head := ops[start]; uint64(head.Count) > remaining {
		out[0] = Operation{Kind: head.Kind, Count: uint32(remaining)}
	}
	return out
}

// finalize implements spec.md §4.F's Finalization step: every anchor still
// holding both a fore and hind Own-or-Ref block, re-checked against the
// cutoff with exact lengths/penalties, becomes one Alignment.
func (al *Aligner) finalize(anchors []*Anchor, refLen, qryLen uint64) []Alignment {
	seen := make(map[string]bool)
	var out []Alignment

	for _, c := range anchors {
		if c.State != AnchorExact || c.ForeBlock == nil || c.HindBlock == nil {
			continue
		}
		foreOps := resolveOwn(anchors, c.ForeBlock, false)
		hindOps := resolveOwn(anchors, c.HindBlock, true)

		ops := make([]Operation, 0, len(foreOps)+1+len(hindOps))
		ops = append(ops, foreOps...)
		ops = appendOp(ops, OpMatch, uint32(c.Size))
		ops = append(ops, hindOps...)
		ops = coalesceOperations(ops)

		length := operationsTotalLength(ops)
		penalty := uint64(c.ForeBlock.Penalty) + uint64(c.HindBlock.Penalty)

		if !al.Cutoff.IsValid(length, penalty) {
			continue
		}

		var foreRef, foreQry uint64
		for _, op := range foreOps {
			r, q := op.opLength()
			foreRef += r
			foreQry += q
		}
		refPos := c.Position.Ref - foreRef
		qryPos := c.Position.Qry - foreQry

		key := alignmentKey(refPos, qryPos, ops)
		if seen[key] {
			continue
		}
		seen[key] = true

		out = append(out, Alignment{
			RefPosition:   refPos,
			QueryPosition: qryPos,
			Length:        length,
			Penalty:       penalty,
			Operations:    ops,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].RefPosition != out[j].RefPosition {
			return out[i].RefPosition < out[j].RefPosition
		}
		return out[i].QueryPosition < out[j].QueryPosition
	})
	return out
}

func alignmentKey(refPos, qryPos uint64, ops []Operation) string {
	buf := make([]byte, 0, 24+len(ops)*6)
	buf = appendUvarint(buf, refPos)
	buf = appendUvarint(buf, qryPos)
	for _, op := range ops {
		buf = append(buf, byte(op.Kind))
		buf = appendUvarint(buf, uint64(op.Count))
	}
	return string(buf)
}

func appendUvarint(buf []byte, v uint64) []byte {
	for v >= 0x80 {
		buf = append(buf, byte(v)|0x80)
		v >>= 7
	}
	return append(buf, byte(v))
}

func reverseBytes(s []byte) []byte {
	out := make([]byte, len(s))
	for i, b := range s {
		out[len(s)-1-i] = b
	}
	return out
}
