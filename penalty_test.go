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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCutoffIsValid(t *testing.T) {
	cutoff := &Cutoff{MinimumLength: 10, MaximumPenaltyPerScale: 0.5 * PrecisionScale}

	assert.False(t, cutoff.IsValid(9, 0), "shorter than MinimumLength always fails")
	assert.True(t, cutoff.IsValid(10, 5))
	assert.True(t, cutoff.IsValid(100, 50))
	assert.False(t, cutoff.IsValid(100, 51))
}

func TestSparePenaltyDenominatorSign(t *testing.T) {
	assert.Greater(t, sparePenaltyDenominator(2, 1*PrecisionScale/2), int64(0))
	assert.LessOrEqual(t, sparePenaltyDenominator(1, 2*PrecisionScale), int64(0))
}

func TestSparePenaltyNegativeWhenImpossible(t *testing.T) {
	penalties := DefaultPenalties
	cutoff := &Cutoff{MinimumLength: 0, MaximumPenaltyPerScale: 1000}
	spare := sparePenalty(penalties, cutoff, 1000, 1_000_000, 10)
	assert.Equal(t, int64(-1), spare)
}

func TestSparePenaltyMonotonicInLenMiddle(t *testing.T) {
	penalties := DefaultPenalties
	cutoff := &Cutoff{MinimumLength: 0, MaximumPenaltyPerScale: 20000}
	small := sparePenalty(penalties, cutoff, 0, 0, 10)
	large := sparePenalty(penalties, cutoff, 0, 0, 1000)
	assert.Greater(t, large, small)
}
