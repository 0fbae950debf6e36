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

// OperationKind is the edit type of one run. Deletion always consumes
// reference bases only; Insertion always consumes query bases only — this
// is the externally visible contract (ref-aligned length = Match+Subst+
// Deletion, query-aligned length = Match+Subst+Insertion), independent of
// how the DWFA's internal I/D channels happen to be named.
type OperationKind uint8

const (
	OpMatch OperationKind = iota
	OpSubst
	OpInsertion
	OpDeletion
)

func (k OperationKind) String() string {
	switch k {
	case OpMatch:
		return "M"
	case OpSubst:
		return "X"
	case OpInsertion:
		return "I"
	case OpDeletion:
		return "D"
	default:
		return "?"
	}
}

// Operation is one run-length-encoded edit, the unit the teacher's
// AlignmentResult packs into a uint64 (wfa_cigar.go); we keep it unpacked
// since nothing here needs the bit-packing, only the run-length semantics.
type Operation struct {
	Kind  OperationKind
	Count uint32
}

// appendOp appends op to ops, coalescing with the last run if the kind
// matches (spec.md §8 property 3: no two adjacent runs share a kind).
func appendOp(ops []Operation, kind OperationKind, count uint32) []Operation {
	if count == 0 {
		return ops
	}
	if n := len(ops); n > 0 && ops[n-1].Kind == kind {
		ops[n-1].Count += count
		return ops
	}
	return append(ops, Operation{Kind: kind, Count: count})
}

// coalesceOperations merges adjacent same-kind runs from independently
// produced fragments (used when stitching a Ref block's shared run onto
// another block's operations).
func coalesceOperations(ops []Operation) []Operation {
	if len(ops) < 2 {
		return ops
	}
	out := ops[:1]
	for _, op := range ops[1:] {
		out = appendOp(out, op.Kind, op.Count)
	}
	return out
}

// reverseOperations returns a new slice with run order reversed, used by
// the fore pass (which walks reversed sequences and must flip its
// traceback back to forward orientation before storing it as Own).
func reverseOperations(ops []Operation) []Operation {
	out := make([]Operation, len(ops))
	for i, op := range ops {
		out[len(ops)-1-i] = op
	}
	return out
}

// opLength returns the (refLen, qryLen) bases consumed by a run of this kind.
func (o Operation) opLength() (ref, qry uint64) {
	switch o.Kind {
	case OpMatch, OpSubst:
		return uint64(o.Count), uint64(o.Count)
	case OpInsertion:
		return 0, uint64(o.Count)
	case OpDeletion:
		return uint64(o.Count), 0
	default:
		return 0, 0
	}
}

// penaltyOf sums penalties over ops per spec.md §8 property 5:
// Subst*x + (gap openings)*o + (gap bases)*e. Adjacent runs are assumed
// already coalesced, so every run boundary between two gap runs of the
// same kind is a genuine new opening.
func penaltyOf(ops []Operation, penalties *Penalties) uint64 {
	var total uint64
	for _, op := range ops {
		switch op.Kind {
		case OpSubst:
			total += uint64(op.Count) * uint64(penalties.Mismatch)
		case OpInsertion, OpDeletion:
			total += uint64(penalties.GapOpen) + uint64(op.Count)*uint64(penalties.GapExt)
		}
	}
	return total
}

// AlignmentBlockKind distinguishes an anchor's own extension from a shared
// reference into an upstream anchor's extension (spec.md §3 AlignmentBlock).
type AlignmentBlockKind uint8

const (
	BlockOwn AlignmentBlockKind = iota
	BlockRef
)

// AlignmentBlock is either Own (operations, penalty) or Ref (owner index,
// reverse_start, penalty) per spec.md §3.
type AlignmentBlock struct {
	Kind AlignmentBlockKind

	// valid iff Kind == BlockOwn
	Operations []Operation

	// valid iff Kind == BlockRef
	Owner        int
	ReverseStart int32

	Penalty uint32
}

// Length returns the ref and query lengths covered by the block's own
// Operations. A Ref block holds no operations, so its Length is (0, 0); its
// span lives in the owner's Own block, which only the orchestrator can
// resolve by index.
func (b *AlignmentBlock) Length() (ref, qry uint64) {
	for _, op := range b.Operations {
		r, q := op.opLength()
		ref += r
		qry += q
	}
	return
}
