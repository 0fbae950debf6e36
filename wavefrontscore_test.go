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

func TestMaxKForScore(t *testing.T) {
	var o, e uint32 = 6, 2
	assert.EqualValues(t, 0, maxKForScore(0, o, e))
	assert.EqualValues(t, 0, maxKForScore(o+e-1, o, e))
	assert.EqualValues(t, 1, maxKForScore(o+e, o, e))
	assert.EqualValues(t, 2, maxKForScore(o+2*e, o, e))
}

func TestWaveFrontScoreGetSet(t *testing.T) {
	row := newWaveFrontScore(3)
	assert.True(t, row.inRange(-3))
	assert.True(t, row.inRange(3))
	assert.False(t, row.inRange(4))

	assert.True(t, row.get(0, chM).isEmpty())

	row.at(0)[chM] = Component{Fr: 5, Bt: btMatch}
	got := row.get(0, chM)
	assert.EqualValues(t, 5, got.Fr)
	assert.Equal(t, btMatch, got.Bt)

	assert.True(t, row.get(4, chM).isEmpty())
}

func TestWaveFrontScoreReset(t *testing.T) {
	row := newWaveFrontScore(1)
	row.at(0)[chM] = Component{Fr: 9, Bt: btMatch}

	row.reset(1)
	assert.True(t, row.get(0, chM).isEmpty())

	row.reset(5)
	assert.EqualValues(t, 5, row.MaxK)
	assert.Len(t, row.Components, 11)
}
