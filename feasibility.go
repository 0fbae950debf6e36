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

// estimateSide scans a run of anchorExistence entries in the given
// direction, classifying streaks of `false` as alternating "odd"/"even"
// patterns and charging emp_kmer's constants for each (spec.md §4.E).
// window is the entries to scan, already ordered so that element 0 is the
// one nearest the anchor (i.e. reversed for the fore side).
func estimateSide(window []bool, k int, emp *EmpKmer) EmpBlock {
	var odd, even uint64
	previousOdd := false
	for _, exist := range window {
		if exist {
			previousOdd = false
			continue
		}
		if previousOdd {
			even++
			previousOdd = false
		} else {
			odd++
			previousOdd = true
		}
	}
	return EmpBlock{
		Penalty: odd*uint64(emp.Odd) + even*uint64(emp.Even),
		Length:  uint64(0) + odd + even,
	}
}

// estimate fills a.ForeEmp/a.HindEmp and transitions Empty -> Estimated,
// following original_source/src/alignment/anchor.rs's Anchor::estimate.
// k is the anchor-discovery k-mer size; existence is the vector
// DiscoverAnchors produced.
func (a *Anchor) estimate(refLen, qryLen uint64, k int, existence []bool) {
	blockIndex := int(a.Position.Qry) / k

	// fore side: scans existence[blockIndex-quot+1 .. blockIndex] in reverse.
	foreBlockLen := minU64(a.Position.Ref, a.Position.Qry)
	quot := int(foreBlockLen) / k
	lo := blockIndex - quot + 1
	if lo < 0 {
		lo = 0
	}
	foreWindow := reversedCopy(existence[lo : blockIndex+1])
	a.ForeEmp = estimateSide(foreWindow, k, DefaultEmpKmer)
	a.ForeEmp.Length += foreBlockLen

	// hind side: scans existence[hindBlockIndex+1 .. hindBlockIndex+quot] forward.
	hindBlockIndex := blockIndex + a.Size/k
	refBlockLen := refLen - a.refEnd()
	qryBlockLen := qryLen - a.qryEnd()
	hindBlockLen := minU64(refBlockLen, qryBlockLen)
	quot = int(hindBlockLen) / k
	hi := hindBlockIndex + quot + 1
	if hi > len(existence) {
		hi = len(existence)
	}
	lo2 := hindBlockIndex + 1
	if lo2 > hi {
		lo2 = hi
	}
	hindWindow := existence[lo2:hi]
	a.HindEmp = estimateSide(hindWindow, k, DefaultEmpKmer)
	a.HindEmp.Length += hindBlockLen

	a.State = AnchorEstimated
}

// isValidRaw reports whether the anchor's EMP-estimated total still clears
// the cutoff (spec.md §4.E "Raw validity"); callers drop the anchor when it
// does not.
func (a *Anchor) isValidRaw(cutoff *Cutoff) bool {
	length := a.ForeEmp.Length + a.HindEmp.Length + uint64(a.Size)
	penalty := a.ForeEmp.Penalty + a.HindEmp.Penalty
	return cutoff.IsValid(length, penalty)
}

// canBeConnected reports whether an earlier anchor `a` and a later anchor
// `b` (in query order) may be joined by a check-point (spec.md §4.E).
func canBeConnected(a, b *Anchor, penalties *Penalties, cutoff *Cutoff) bool {
	refGap := int64(b.Position.Ref) - int64(a.Position.Ref) - int64(a.Size)
	qryGap := int64(b.Position.Qry) - int64(a.Position.Qry) - int64(a.Size)
	if refGap < 0 || qryGap < 0 {
		return false
	}

	length := a.ForeEmp.Length + b.HindEmp.Length
	penalty := a.ForeEmp.Penalty + b.HindEmp.Penalty

	middle := refGap
	if qryGap > middle {
		middle = qryGap
	}
	length += uint64(middle) + uint64(a.Size) + uint64(b.Size)

	indel := refGap - qryGap
	if indel < 0 {
		indel = -indel
	}
	if indel > 0 {
		penalty += uint64(penalties.GapOpen) + uint64(indel)*uint64(penalties.GapExt)
	}

	return cutoff.IsValid(length, penalty)
}

// buildCheckPoints populates every Estimated anchor's checkPoints.Fore/Hind
// by testing each ordered pair in query order (spec.md §4.E); anchors not
// in AnchorEstimated are skipped entirely (already Dropped by isValidRaw).
func buildCheckPoints(anchors []*Anchor, penalties *Penalties, cutoff *Cutoff) {
	n := len(anchors)
	for i := 0; i < n; i++ {
		if anchors[i].State != AnchorEstimated {
			continue
		}
		for j := i + 1; j < n; j++ {
			if anchors[j].State != AnchorEstimated {
				continue
			}
			if canBeConnected(anchors[i], anchors[j], penalties, cutoff) {
				anchors[i].checkPoints.Hind = append(anchors[i].checkPoints.Hind, j)
				anchors[j].checkPoints.Fore = append(anchors[j].checkPoints.Fore, i)
			}
		}
	}
}

func minU64(a, b uint64) uint64 {
	if a < b {
		return a
	}
	return b
}

func reversedCopy(s []bool) []bool {
	out := make([]bool, len(s))
	for i, v := range s {
		out[len(s)-1-i] = v
	}
	return out
}
