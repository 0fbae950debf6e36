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

// Locator is the external substring index (FM-index or equivalent) the core
// consumes but never builds. It may return positions in arbitrary order and
// with duplicates; callers of ReferenceView tolerate both (spec.md §6).
type Locator interface {
	// Locate returns every reference offset at which pattern occurs exactly.
	Locate(pattern []byte) []uint64
}

// ReferenceView supplies both the substring index and the raw reference
// bytes the DWFA extends against. It is the sole collaborator the core
// consumes for reference data; construction, persistence and alphabet
// handling of the backing index are out of scope (spec.md §1, §6).
type ReferenceView interface {
	Locator

	// Bytes returns the full reference sequence backing Locate's offsets.
	Bytes() Sequence
}
