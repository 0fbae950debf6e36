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

// Back-trace tags, mirroring the teacher's six-tag scheme in
// wfa_backtrace_types.go (wfaInsertOpen..wfaMatch) instead of a bare
// "came from M/I/D" triple: open and extend need to stay distinguishable
// so back-trace knows which predecessor score/channel to recurse into.
// btEmpty means the cell was never reached at this score; btMatch marks
// the (0,0) origin of an extension, same role as the teacher's wfaMatch.
const (
	btEmpty uint8 = iota
	btInsertOpen
	btInsertExt
	btDeleteOpen
	btDeleteExt
	btMismatch
	btMatch
)

// Channel indices into a WaveFrontScore's per-k triplet.
const (
	chM = 0
	chI = 1
	chD = 2
)

// Component is one (furthest-reached, back-trace) pair for a single
// diagonal at a single score and channel. Kept to 8 bytes (32-bit Fr +
// 8-bit Bt + padding) per spec.md §9 — this is the hottest-allocated value
// in the whole engine, so its layout matters the way the teacher flags for
// its own packed offset+tag word in wfa_backtrace_types.go.
type Component struct {
	Fr int32
	Bt uint8
	_  [3]byte // padding to 8 bytes
}

// emptyComponent is the zero value, reused to reset rows without an
// allocation.
var emptyComponent = Component{}

// isEmpty reports whether the component was never written at this score.
func (c Component) isEmpty() bool {
	return c.Bt == btEmpty
}
