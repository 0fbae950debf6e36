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

// Sequence is a read-only byte buffer: either a reference region or a query.
type Sequence = []byte

// Pos is the public, wire-stable index/length type. It is declared as
// uint64 so the same contract serves both 32-bit-range and 64-bit-range
// reference/query pairs (spec.md §3): callers working with short sequences
// simply never populate the high bits. Internal hot-path arithmetic (wave
// front offsets, scores) runs in native int/int32 for speed and is range
// checked against MaxPos before being surfaced, per spec.md §7's overflow
// design requirement.
type Pos = uint64

// MaxPos is the largest representable Pos before it would risk overflowing
// the int32 wave-front offset arithmetic used internally.
const MaxPos = 1<<31 - 1
