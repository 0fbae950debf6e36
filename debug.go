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
	"fmt"
	"io"
)

// backtraceGlyph mirrors the teacher's Plot symbol table (visualization.go),
// one rune per back-trace tag instead of per wfaType bit pattern.
var backtraceGlyph = map[uint8]rune{
	btEmpty:      '⊕',
	btInsertOpen: '⟼',
	btInsertExt:  '🠦',
	btDeleteOpen: '↧',
	btDeleteExt:  '🠧',
	btMismatch:   '⬂',
	btMatch:      '⬊',
}

// DumpWaveFront writes a tab-delimited text table of one score's dense
// diagonal row, one column per diagonal from -MaxK to +MaxK and one row per
// channel (M, I, D), following the teacher's Plot (visualization.go,
// wfa_component_plot.go): each cell is the channel's furthest-reached offset
// and back-trace glyph. Unlike the teacher's Plot, which reconstructs a full
// query x reference matrix from every stored score, this dumps a single
// WaveFrontScore row — the unit DumpWaveFront's caller (a test or an
// operator inspecting a stuck alignment) actually wants to see at a time.
func DumpWaveFront(wtr io.Writer, s int, row *WaveFrontScore) {
	fmt.Fprintf(wtr, "score %d (maxK=%d)\n", s, row.MaxK)

	channels := []struct {
		name string
		ch   int
	}{{"M", chM}, {"I", chI}, {"D", chD}}

	for _, c := range channels {
		fmt.Fprintf(wtr, "%s", c.name)
		for k := -row.MaxK; k <= row.MaxK; k++ {
			comp := row.get(k, c.ch)
			glyph, ok := backtraceGlyph[comp.Bt]
			if !ok {
				glyph = '?'
			}
			fmt.Fprintf(wtr, "\t%c%d", glyph, comp.Fr)
		}
		fmt.Fprintln(wtr)
	}
}

// DumpWaveFronts writes every stored score's row in order, for following a
// whole DropoffWaveFront's growth across a dwf.Extend call.
func DumpWaveFronts(wtr io.Writer, dwf *DropoffWaveFront) {
	for s, row := range dwf.Scores {
		if row.Components == nil {
			continue
		}
		DumpWaveFront(wtr, s, &dwf.Scores[s])
		_ = row
	}
}
