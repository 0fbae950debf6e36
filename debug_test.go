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
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDumpWaveFrontWritesOneRowPerChannel(t *testing.T) {
	ref := []byte("GATTACA")
	qry := []byte("GATTACA")
	dwf := Extend(ref, qry, DefaultPenalties, 10, testBuffer(), nil)
	assert.True(t, dwf.Extended)

	var buf strings.Builder
	DumpWaveFront(&buf, 0, &dwf.Scores[0])

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "score 0 (maxK=0)\n"))
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	// header + M + I + D
	if assert.Len(t, lines, 4) {
		assert.True(t, strings.HasPrefix(lines[1], "M\t"))
		assert.True(t, strings.HasPrefix(lines[2], "I\t"))
		assert.True(t, strings.HasPrefix(lines[3], "D\t"))
	}
}

func TestDumpWaveFrontsWritesComputedScores(t *testing.T) {
	ref := []byte("GATTACA")
	qry := []byte("GATTTCA")
	dwf := Extend(ref, qry, DefaultPenalties, 10, testBuffer(), nil)
	assert.True(t, dwf.Extended)

	var buf strings.Builder
	DumpWaveFronts(&buf, dwf)

	out := buf.String()
	assert.Contains(t, out, "score 0 ")
	assert.Contains(t, out, "score 4 ") // DefaultPenalties.Mismatch
}
