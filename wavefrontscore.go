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

// WaveFrontScore is the dense per-k row of M/I/D components for a single
// cumulative penalty, per spec.md §3. Diagonals run symmetrically
// [-MaxK, +MaxK]; Components[MaxK+k] holds the M/I/D triplet for diagonal k.
type WaveFrontScore struct {
	MaxK       int32
	Components [][3]Component
}

// maxKForScore implements spec.md §4.C's band-growth law: max_k(0) = 0,
// and max_k increases by 1 every e additional penalty once s >= o+e. It is
// a pure function of (s, o, e), matching the teacher's and the original's
// requirement (spec.md §9) that wave-front sizing be a pure function so
// re-alignment is idempotent (property 9, spec.md §8).
func maxKForScore(s, gapOpen, gapExt uint32) int32 {
	threshold := gapOpen + gapExt
	if s < threshold {
		return 0
	}
	return 1 + int32((s-threshold)/gapExt)
}

// newWaveFrontScore allocates a zeroed row wide enough for diagonals
// [-maxK, +maxK].
func newWaveFrontScore(maxK int32) WaveFrontScore {
	return WaveFrontScore{
		MaxK:       maxK,
		Components: make([][3]Component, 2*maxK+1),
	}
}

// reset clears a previously allocated row in place (for buffer reuse) and
// resizes it if the required band has grown.
func (w *WaveFrontScore) reset(maxK int32) {
	n := 2*maxK + 1
	if cap(w.Components) >= int(n) {
		w.Components = w.Components[:n]
		for i := range w.Components {
			w.Components[i] = [3]Component{}
		}
	} else {
		w.Components = make([][3]Component, n)
	}
	w.MaxK = maxK
}

// inRange reports whether diagonal k is within this row's allocated band.
func (w *WaveFrontScore) inRange(k int32) bool {
	return k >= -w.MaxK && k <= w.MaxK
}

// at returns a pointer to the M/I/D triplet for diagonal k. The caller must
// have checked inRange first (mirrors the teacher's Get/Set pattern of
// trusting a pre-validated k range inside the hot loop).
func (w *WaveFrontScore) at(k int32) *[3]Component {
	return &w.Components[w.MaxK+k]
}

// get returns the component for diagonal k and channel ch, or the zero
// (empty) Component if k is out of this row's band.
func (w *WaveFrontScore) get(k int32, ch int) Component {
	if !w.inRange(k) {
		return emptyComponent
	}
	return w.at(k)[ch]
}
