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
	"bufio"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/profile"

	"github.com/shenwei356/anchorwave"
)

var version = "0.1.0"

func main() {
	app := filepath.Base(os.Args[0])
	usage := fmt.Sprintf(`
Anchor-and-wave-front alignment benchmark driver

 Author: Wei Shen <shenwei356@gmail.com>
   Code: https://github.com/shenwei356/anchorwave
Version: v%s

Input file format:
  same pair-of-lines format as WFA-paper's benchmark sets
  (see https://github.com/smarco/WFA-paper#41-introduction-to-benchmarking-wfa-simple-tests):
  >reference
  <query

Usage:
  1. Align one reference/query pair from the positional arguments.

        %s [options] <reference seq> <query seq>

  2. Align every pair in an input file (described above).

        %s [options] -i input.txt

Options/Flags:
`, version, app, app)

	flag.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		flag.PrintDefaults()
	}

	help := flag.Bool("h", false, "print help message")
	infile := flag.String("i", "", "input file")
	k := flag.Int("k", 12, "anchor discovery k-mer size")
	minLen := flag.Uint("min-len", 20, "cutoff: minimum alignment length")
	maxPenalty := flag.Float64("max-penalty", 0.2, "cutoff: maximum penalty per unit length")
	noOutput := flag.Bool("N", false, "do not print operations, only the summary line (for benchmark)")

	pprofCPU := flag.Bool("p", false, "cpu pprof. go tool pprof -http=:8080 cpu.pprof")
	pprofMem := flag.Bool("m", false, "mem pprof. go tool pprof -http=:8080 mem.pprof")

	flag.Parse()

	if *help {
		flag.Usage()
		return
	}

	if *pprofCPU {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
	} else if *pprofMem {
		defer profile.Start(profile.MemProfile, profile.ProfilePath(".")).Stop()
	}

	outfh := bufio.NewWriter(os.Stdout)
	defer outfh.Flush()

	cutoff := &anchorwave.Cutoff{
		MinimumLength:          uint32(*minLen),
		MaximumPenaltyPerScale: uint32(*maxPenalty * anchorwave.PrecisionScale),
	}
	al, err := anchorwave.New(anchorwave.DefaultPenalties, cutoff, *k, anchorwave.DefaultEmpKmer)
	checkError(err)

	runPair := func(ref, qry string) {
		refBytes := []byte(ref)
		qryBytes := []byte(qry)
		view := newKmerIndex(refBytes, *k)

		start := time.Now()
		alignments, err := al.Align(view, qryBytes)
		elapsed := time.Since(start)
		checkError(err)

		fmt.Fprintf(outfh, "ref_len: %d, qry_len: %d, hits: %d, time: %s\n",
			len(refBytes), len(qryBytes), len(alignments), elapsed)

		if *noOutput {
			return
		}
		for _, a := range alignments {
			fmt.Fprintf(outfh, "  ref[%d:] qry[%d:] length=%d penalty=%d  %s\n",
				a.RefPosition, a.QueryPosition, a.Length, a.Penalty, formatOps(a.Operations))
		}
	}

	if *infile == "" {
		if flag.NArg() != 2 {
			checkError(fmt.Errorf("if flag -i not given, please give me a reference and a query sequence"))
		}
		runPair(flag.Arg(0), flag.Arg(1))
		return
	}

	fh, err := os.Open(*infile)
	checkError(err)
	defer fh.Close()

	scanner := bufio.NewScanner(fh)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for scanner.Scan() {
		ref := scanner.Text()
		if !scanner.Scan() {
			break
		}
		qry := scanner.Text()
		runPair(trimMarker(ref), trimMarker(qry))
	}
	checkError(scanner.Err())
}

// trimMarker drops the leading '>' / '<' line marker the WFA-paper benchmark
// format uses to tell reference and query lines apart.
func trimMarker(line string) string {
	if len(line) > 0 && (line[0] == '>' || line[0] == '<') {
		return line[1:]
	}
	return line
}

func formatOps(ops []anchorwave.Operation) string {
	out := make([]byte, 0, len(ops)*4)
	for _, op := range ops {
		out = append(out, []byte(fmt.Sprintf("%d%s", op.Count, op.Kind))...)
	}
	return string(out)
}

func checkError(err error) {
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
