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

// Penalties contains the gap-affine penalties. Match is always 0.
type Penalties struct {
	Mismatch uint32
	GapOpen  uint32
	GapExt   uint32
}

// DefaultPenalties mirrors the teacher package's defaults (from the WFA paper).
var DefaultPenalties = &Penalties{
	Mismatch: 4,
	GapOpen:  6,
	GapExt:   2,
}

// PrecisionScale is the fixed-point scale applied to MaximumPenaltyPerScale so
// the cutoff predicate can be evaluated with integer arithmetic.
const PrecisionScale = 100000

// Cutoff is the pair of acceptance thresholds an alignment must satisfy.
type Cutoff struct {
	MinimumLength          uint32
	MaximumPenaltyPerScale uint32 // scaled by PrecisionScale
}

// EmpKmer holds the two empirical per-window penalty constants used to
// estimate the penalty/length of an anchor's uncovered sides (spec.md §4.E).
type EmpKmer struct {
	Odd  uint32
	Even uint32
}

// DefaultEmpKmer is a reasonable starting point: a lone mismatch is cheaper
// to assume than an open-then-extend gap, so odd (single substitution)
// windows are charged less than even (indel-pattern) windows.
var DefaultEmpKmer = &EmpKmer{Odd: 4, Even: 6}

// IsValid reports whether an alignment of the given length and penalty
// clears both cutoffs (spec.md §3 Cutoff invariant).
func (c *Cutoff) IsValid(length, penalty uint64) bool {
	if length < uint64(c.MinimumLength) {
		return false
	}
	return penalty*PrecisionScale <= length*uint64(c.MaximumPenaltyPerScale)
}

// sparePenaltyDenominator returns PrecisionScale*e - maximumPenaltyPerScale,
// which spec.md §4.A requires to be strictly positive; a non-positive
// denominator means the cutoff permits an unbounded gap run and is rejected
// at Aligner construction (see errors.go, ErrInvalidConfiguration).
func sparePenaltyDenominator(gapExt uint32, maximumPenaltyPerScale uint32) int64 {
	return int64(PrecisionScale)*int64(gapExt) - int64(maximumPenaltyPerScale)
}

// sparePenalty computes the largest penalty the DWFA may spend extending one
// side before the combined alignment is guaranteed to fail the cutoff,
// per spec.md §4.A:
//
//	spare = floor( (maxPenaltyPerScale*(lenMiddle+lenOther) - PrecisionScale*penOther) / denominator )
//
// lenMiddle is the worst-case uncovered length on the side being extended
// (i.e. min(refLeft, qryLeft) for that side plus the anchor's own size).
func sparePenalty(penalties *Penalties, cutoff *Cutoff, lenOther, penOther, lenMiddle uint64) int64 {
	denom := sparePenaltyDenominator(penalties.GapExt, cutoff.MaximumPenaltyPerScale)
	numer := int64(cutoff.MaximumPenaltyPerScale)*int64(lenMiddle+lenOther) - int64(PrecisionScale)*int64(penOther)
	if denom <= 0 {
		return 0
	}
	if numer < 0 {
		return -1 // negative spare: no alignment through this side can pass
	}
	return numer / denom
}
