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

package main

import (
	farm "github.com/dgryski/go-farm"

	"github.com/shenwei356/anchorwave"
)

// kmerIndex is a demo stand-in for the FM-index/backward-search substring
// index anchorwave.ReferenceView defers to (spec.md §6 treats the index as
// an external black box; only its Locate/Bytes contract is in scope for the
// core). It is a flat kmer -> positions map keyed by farmhash(kmer), in the
// spirit of grailbio-bio/fusion's sharded kmerIndex — but single-shard and
// map-based, since a benchmark driver has no need for that file's
// huge-page-backed linear-probing hashtable.
type kmerIndex struct {
	ref   []byte
	k     int
	table map[uint64][]uint64
}

// newKmerIndex builds an exact-match index of every k-mer in ref, storing
// every occurrence's start offset.
func newKmerIndex(ref []byte, k int) *kmerIndex {
	idx := &kmerIndex{ref: ref, k: k, table: make(map[uint64][]uint64)}
	if k <= 0 || len(ref) < k {
		return idx
	}
	for i := 0; i+k <= len(ref); i++ {
		h := farm.Hash64(ref[i : i+k])
		idx.table[h] = append(idx.table[h], uint64(i))
	}
	return idx
}

// Locate implements anchorwave.Locator. It returns every offset whose kmer
// hashes to the same bucket as pattern, filtering hash collisions by a
// direct byte comparison against the reference.
func (idx *kmerIndex) Locate(pattern []byte) []uint64 {
	candidates, ok := idx.table[farm.Hash64(pattern)]
	if !ok {
		return nil
	}
	out := make([]uint64, 0, len(candidates))
	for _, pos := range candidates {
		if bytesEqual(idx.ref[pos:pos+uint64(len(pattern))], pattern) {
			out = append(out, pos)
		}
	}
	return out
}

// Bytes implements anchorwave.ReferenceView.
func (idx *kmerIndex) Bytes() anchorwave.Sequence {
	return idx.ref
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
