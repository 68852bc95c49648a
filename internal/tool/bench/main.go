// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

//go:build ignore

// Benchmark tool to compare the decode performance and compression ratio of
// this module's flate decoder ("ds") against compress/flate ("std") and
// klauspost/compress/flate ("kp").
//
// Example usage:
//	$ go build -o benchmark main.go
//	$ ./benchmark \
//		-tests   decRate,ratio \
//		-codecs  std,kp,ds     \
//		-corpus  text,repeats  \
//		-levels  1,6,9         \
//		-sizes   1e4,1e5,1e6
package main

import (
	"flag"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/dsnet/golib/strconv"

	"github.com/Jpn666/deflate/internal/tool/bench"
)

const (
	defaultLevels = "1,6,9"
	defaultSizes  = "1e4,1e5,1e6"
)

// The decompression speed benchmark works by decompressing some
// pre-compressed data. In order for the benchmarks to be consistent, the
// same encoder should be used to generate the pre-compressed data for all
// the trials.
//
// encRefs defines the priority order for which encoders to choose first as
// the reference compressor. If no compressor is found for any of the listed
// codecs, then a random encoder will be chosen.
var encRefs = []string{"std", "kp"}

var (
	testToEnum = map[string]int{
		"encRate": bench.TestEncodeRate,
		"decRate": bench.TestDecodeRate,
		"ratio":   bench.TestCompressRatio,
	}
	enumToTest = map[int]string{
		bench.TestEncodeRate:    "encRate",
		bench.TestDecodeRate:    "decRate",
		bench.TestCompressRatio: "ratio",
	}
)

func defaultTests() string {
	var d []int
	for k := range enumToTest {
		d = append(d, k)
	}
	sort.Ints(d)
	var s []string
	for _, v := range d {
		s = append(s, enumToTest[v])
	}
	return strings.Join(s, ",")
}

func defaultCorpus() string {
	return strings.Join(bench.CorpusNames(), ",")
}

func defaultCodecs() string {
	m := make(map[string]bool)
	for _, v := range bench.Encoders {
		for k := range v {
			m[k] = true
		}
	}
	for _, v := range bench.Decoders {
		for k := range v {
			m[k] = true
		}
	}
	hasStd := m["std"]
	delete(m, "std")
	var s []string
	for k := range m {
		s = append(s, k)
	}
	sort.Strings(s)
	if hasStd {
		s = append([]string{"std"}, s...) // Ensure "std" always appears first
	}
	return strings.Join(s, ",")
}

func main() {
	// Setup flag arguments.
	f1 := flag.String("tests", defaultTests(), "List of different benchmark tests")
	f2 := flag.String("codecs", defaultCodecs(), "List of codecs to benchmark")
	f3 := flag.String("corpus", defaultCorpus(), "List of synthetic corpora to benchmark")
	f4 := flag.String("levels", defaultLevels, "List of compression levels to benchmark")
	f5 := flag.String("sizes", defaultSizes, "List of input sizes to benchmark")
	flag.Parse()

	// Parse the flag arguments.
	var sep = regexp.MustCompile("[,:]")
	var codecs, corpora []string
	var tests, levels, sizes []int
	codecs = sep.Split(*f2, -1)
	corpora = sep.Split(*f3, -1)
	for _, s := range sep.Split(*f1, -1) {
		if _, ok := testToEnum[s]; !ok {
			panic("invalid test")
		}
		tests = append(tests, testToEnum[s])
	}
	for _, s := range sep.Split(*f4, -1) {
		lvl, err := strconv.ParsePrefix(s, strconv.AutoParse)
		if err != nil {
			panic("invalid level")
		}
		levels = append(levels, int(lvl))
	}
	for _, s := range sep.Split(*f5, -1) {
		var size int
		if nf, err := strconv.ParsePrefix(s, strconv.AutoParse); err == nil {
			size = int(nf)
		}
		sizes = append(sizes, size)
	}

	ts := time.Now()
	runBenchmarks(corpora, codecs, tests, levels, sizes)
	te := time.Now()
	fmt.Printf("RUNTIME: %v\n", te.Sub(ts))
}

func runBenchmarks(corpora, codecs []string, tests, levels, sizes []int) {
	const f = bench.FormatFlate

	// Get lists of encoders and decoders that exist.
	var encs, decs []string
	for _, c := range codecs {
		if _, ok := bench.Encoders[f][c]; ok {
			encs = append(encs, c)
		}
	}
	for _, c := range codecs {
		if _, ok := bench.Decoders[f][c]; ok {
			decs = append(decs, c)
		}
	}

	for _, t := range tests {
		var results [][]bench.Result
		var names, rowCodecs []string
		var title, suffix string

		fmt.Printf("BENCHMARK: fl:%s\n", enumToTest[t])
		if len(encs) == 0 {
			fmt.Println("\tSKIP: There are no encoders available.")
			continue
		}
		if len(decs) == 0 && t == bench.TestDecodeRate {
			fmt.Println("\tSKIP: There are no decoders available.")
			continue
		}

		// Progress ticker.
		var cnt int
		tick := func() {
			total := len(rowCodecs) * len(corpora) * len(levels) * len(sizes)
			pct := 100.0 * float64(cnt) / float64(total)
			fmt.Printf("\t[%6.2f%%] %d of %d\r", pct, cnt, total)
			cnt++
		}

		// Perform the bench. This may take some time.
		switch t {
		case bench.TestEncodeRate:
			rowCodecs, title, suffix = encs, "MB/s", ""
			results, names = bench.BenchmarkEncoderSuite(f, encs, corpora, levels, sizes, tick)
		case bench.TestDecodeRate:
			ref := getReferenceEncoder(f)
			rowCodecs, title, suffix = decs, "MB/s", ""
			results, names = bench.BenchmarkDecoderSuite(f, decs, corpora, levels, sizes, ref, tick)
		case bench.TestCompressRatio:
			rowCodecs, title, suffix = encs, "ratio", "x"
			results, names = bench.BenchmarkRatioSuite(f, encs, corpora, levels, sizes, tick)
		default:
			panic("unknown test")
		}

		// Print all of the results.
		printResults(results, names, rowCodecs, title, suffix)
		fmt.Println()
	}
}

func getReferenceEncoder(f int) bench.Encoder {
	for _, c := range encRefs {
		if enc, ok := bench.Encoders[f][c]; ok {
			return enc // Choose by priority
		}
	}
	for _, enc := range bench.Encoders[f] {
		return enc // Choose any random encoder
	}
	return nil // There are no encoders
}

func printResults(results [][]bench.Result, names, codecs []string, title, suffix string) {
	// Allocate result table.
	cells := make([][]string, 1+len(names))
	for i := range cells {
		cells[i] = make([]string, 1+2*len(codecs))
	}

	// Label the first row.
	cells[0][0] = "benchmark"
	for i, c := range codecs {
		cells[0][1+2*i] = c + " " + title
		cells[0][2+2*i] = "delta"
	}

	// Insert all rows.
	for j, row := range results {
		cells[1+j][0] = names[j]
		for i, r := range row {
			if r.R != 0 && !math.IsNaN(r.R) && !math.IsInf(r.R, 0) {
				cells[1+j][1+2*i] = fmt.Sprintf("%.2f", r.R) + suffix
			}
			if r.D != 0 && !math.IsNaN(r.D) && !math.IsInf(r.D, 0) {
				cells[1+j][2+2*i] = fmt.Sprintf("%.2f", r.D) + "x"
			}
		}
	}

	// Compute the maximum lengths.
	maxLens := make([]int, 1+2*len(codecs))
	for _, row := range cells {
		for i, s := range row {
			if maxLens[i] < len(s) {
				maxLens[i] = len(s)
			}
		}
	}

	// Print padded versions of all cells.
	for _, row := range cells {
		fmt.Print("\t")
		for i, s := range row {
			switch {
			case i == 0: // Column 0
				row[i] = s + strings.Repeat(" ", maxLens[i]-len(s))
			case i%2 == 1: // Column 1, 3, 5, 7, ...
				row[i] = strings.Repeat(" ", 6+maxLens[i]-len(s)) + s
			case i%2 == 0: // Column 2, 4, 6, 8, ...
				row[i] = strings.Repeat(" ", 2+maxLens[i]-len(s)) + s
			}
			fmt.Print(row[i])
		}
		fmt.Println()
	}
}
