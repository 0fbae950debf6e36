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
	"github.com/pkg/errors"
)

// ErrInvalidConfiguration is the sentinel wrapped by every configuration
// error returned from New. Check with errors.Is.
var ErrInvalidConfiguration = errors.New("anchorwave: invalid configuration")

// ErrOverflow is the sentinel wrapped by every numeric-overflow error
// returned from Align. Check with errors.Is.
var ErrOverflow = errors.New("anchorwave: numeric overflow")

// ErrEmptyQuery mirrors the teacher's ErrEmptySeq: returned from Align when
// handed a zero-length query, the one input shape Align rejects outright
// rather than reporting as a (valid, empty) no-alignment result. A query
// shorter than the anchor k-mer size is a different case — short but
// nonempty input — and still yields a nil slice with no error. Check with
// errors.Is.
var ErrEmptyQuery = errors.New("anchorwave: empty query sequence")

// configError wraps ErrInvalidConfiguration with the offending detail.
func configError(format string, args ...interface{}) error {
	return errors.Wrapf(ErrInvalidConfiguration, format, args...)
}

// overflowError wraps ErrOverflow with the offending quantity, per spec.md
// §7's requirement that overflow errors carry the offending quantity.
func overflowError(quantity string, value uint64) error {
	return errors.Wrapf(ErrOverflow, "%s overflowed representable range (value=%d)", quantity, value)
}

// fitsPos reports whether v is safely representable without overflowing the
// internal int32 wave-front arithmetic (spec.md §7: "internally use 64-bit
// when the public length type is 32-bit").
func fitsPos(v uint64) error {
	if v > MaxPos {
		return overflowError("position/length", v)
	}
	return nil
}
