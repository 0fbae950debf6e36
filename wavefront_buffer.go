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

// queryLenIncUnit is the coarse growth step from spec.md §4.B: round the
// query length up to the next multiple of 100 before reallocating, so
// queries of similar length (the common case) never force a realloc.
const queryLenIncUnit = 100

// firstAllocatedQueryLength is the default capacity of a brand new buffer.
const firstAllocatedQueryLength = 100

// upperSpaciousQueryLength rounds queryLen up to the next multiple of
// queryLenIncUnit, exactly like the original's
// wave_front_cache.rs::upper_spacious_query_length.
func upperSpaciousQueryLength(queryLen int) int {
	return (queryLen/queryLenIncUnit + 1) * queryLenIncUnit
}

// safeMaxScore returns a safe upper bound on the number of WaveFrontScore
// rows a DWFA run against a query of this length could ever need, so a
// freshly grown buffer can be sized once instead of growing score-by-score.
// Ported from original_source/sigalign/src/aligner/wave_front_cache.rs
// (safe_max_score_from_length), the supplemented feature C.3 in SPEC_FULL.md.
func safeMaxScore(queryLen int, penalties *Penalties, cutoff *Cutoff) int {
	denom := sparePenaltyDenominator(penalties.GapExt, cutoff.MaximumPenaltyPerScale)
	if denom <= 0 {
		return queryLen + 1
	}
	numer := int64(cutoff.MaximumPenaltyPerScale) * (int64(penalties.GapExt)*int64(queryLen) - int64(penalties.GapOpen))
	if numer < 0 {
		numer = 0
	}
	return int(numer/denom) + 1
}

// WaveFrontBuffer is a single reusable DropoffWaveFront's backing storage,
// grown in coarse steps and never shrunk between queries (spec.md §4.B).
// It is a plain grow-and-keep slice rather than a sync.Pool like the
// teacher's poolComponent (wfa_component.go), and corresponds to the
// original's SingleWaveFrontCache.
type WaveFrontBuffer struct {
	allocatedQueryLength int
	rows                 []WaveFrontScore
}

// NewWaveFrontBuffer allocates a buffer sized for the default query length.
func NewWaveFrontBuffer(penalties *Penalties, cutoff *Cutoff) *WaveFrontBuffer {
	b := &WaveFrontBuffer{}
	b.GrowTo(firstAllocatedQueryLength, penalties, cutoff)
	return b
}

// HaveEnoughCapacity reports whether the buffer can serve a query of the
// given length without growing.
func (b *WaveFrontBuffer) HaveEnoughCapacity(queryLen int) bool {
	return b.allocatedQueryLength >= queryLen
}

// GrowTo reallocates the buffer from scratch so it can serve a query of the
// given length, rounding up per the coarse growth policy. It is a no-op if
// the buffer already has enough capacity — callers should still check
// HaveEnoughCapacity first to avoid the allocation-cost discussion entirely
// on the hot path.
func (b *WaveFrontBuffer) GrowTo(queryLen int, penalties *Penalties, cutoff *Cutoff) {
	if b.rows != nil && b.HaveEnoughCapacity(queryLen) {
		return
	}
	target := upperSpaciousQueryLength(queryLen)
	if queryLen == firstAllocatedQueryLength && b.rows == nil {
		target = firstAllocatedQueryLength
	}
	maxScore := safeMaxScore(target, penalties, cutoff)
	b.rows = make([]WaveFrontScore, maxScore+1)
	b.allocatedQueryLength = target
}

// rowsFor returns the first n rows of the backing storage, growing first if
// necessary. n is the number of scores (0..=spareP) the caller intends to use.
func (b *WaveFrontBuffer) rowsFor(n int) []WaveFrontScore {
	if n > len(b.rows) {
		grown := make([]WaveFrontScore, n)
		copy(grown, b.rows)
		b.rows = grown
	}
	return b.rows[:n]
}

// DoubleWaveFrontBuffer holds a primary and secondary WaveFrontBuffer, for
// callers that must keep both a forward ("hind") and reverse ("fore") wave
// front alive at once (spec.md §4.B: "double-buffer (primary + secondary
// when both directions must persist simultaneously)"), mirroring the
// original's DoubleWaveFrontCache.
type DoubleWaveFrontBuffer struct {
	Primary   *WaveFrontBuffer
	Secondary *WaveFrontBuffer
}

// NewDoubleWaveFrontBuffer allocates both buffers at the default size.
func NewDoubleWaveFrontBuffer(penalties *Penalties, cutoff *Cutoff) *DoubleWaveFrontBuffer {
	return &DoubleWaveFrontBuffer{
		Primary:   NewWaveFrontBuffer(penalties, cutoff),
		Secondary: NewWaveFrontBuffer(penalties, cutoff),
	}
}

// HaveEnoughCapacity reports whether both buffers can serve a query of the
// given length without growing.
func (d *DoubleWaveFrontBuffer) HaveEnoughCapacity(queryLen int) bool {
	return d.Primary.HaveEnoughCapacity(queryLen) && d.Secondary.HaveEnoughCapacity(queryLen)
}

// GrowTo grows both buffers to serve a query of the given length.
func (d *DoubleWaveFrontBuffer) GrowTo(queryLen int, penalties *Penalties, cutoff *Cutoff) {
	d.Primary.GrowTo(queryLen, penalties, cutoff)
	d.Secondary.GrowTo(queryLen, penalties, cutoff)
}
