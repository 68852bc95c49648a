// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package bench

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"io/ioutil"
	"math/rand"

	"github.com/ulikunitz/xz"
)

// textXZ is an excerpt of prose, repeated to give a Huffman-friendly symbol
// distribution, stored xz-compressed so the corpus doesn't carry a second
// raw copy of itself in the source tree. Decoded through
// github.com/ulikunitz/xz, the same module the teacher's tool benchmarks as
// a third codec alongside this module and klauspost/compress.
const textXZ = "fd377a585a000004e6d6b4460200210116000000742fe5a3e011a7007f5d0026984a46ca902346b998a8427c291d4f46e5408aafb9a09547f7a29a2a689bf39e7f45d72b1356415ac191eb73e3c21fe53ceb96d7d4d6a0d58456c7ef542c278ff93c388c174d99a7fe0c1576904f036fb62359a5382465e3da3774e7e5d8a158e7825da57efc8b877f071dfd00bddf1b323e8636ac2e8e676f6b7dcc2c000000e6af2497063b384b00019b01a8230000bed2403bb1c467fb020000000004595a"

var corpora = map[string]func() []byte{
	"text": loadText,
}

// CorpusNames lists the registered corpus generators, in a stable order
// suitable for a flag default.
func CorpusNames() []string {
	return []string{"text", "repeats", "random"}
}

func loadText() []byte {
	zr, err := xz.NewReader(bytes.NewReader(mustHexCorpus(textXZ)))
	if err != nil {
		panic(err)
	}
	b, err := ioutil.ReadAll(zr)
	if err != nil {
		panic(err)
	}
	return b
}

// genRepeats synthesizes data that heavily favors LZ77-style back
// references: most of its length is a copy from some earlier offset, with
// only the occasional run of fresh random bytes.
func genRepeats(n int) []byte {
	r := rand.New(rand.NewSource(0))
	b := make([]byte, 0, n)
	randLen := func() int { return 4 + r.Intn(252) }
	randDist := func() int {
		d := 0
		for d == 0 || d > len(b) {
			d = 1 + r.Intn(1 << 12)
		}
		return d
	}
	for len(b) < n {
		if len(b) == 0 || r.Float32() < 0.15 {
			for i, l := 0, randLen(); i < l; i++ {
				b = append(b, byte(r.Int()))
			}
			continue
		}
		d, l := randDist(), randLen()
		for i := 0; i < l; i++ {
			b = append(b, b[len(b)-d])
		}
	}
	return b[:n]
}

func genRandom(n int) []byte {
	r := rand.New(rand.NewSource(1))
	b := make([]byte, n)
	r.Read(b)
	return b
}

// LoadCorpus returns n bytes of the named synthetic corpus, tiling the
// corpus's natural content to reach the requested size.
func LoadCorpus(name string, n int) ([]byte, error) {
	switch name {
	case "repeats":
		return genRepeats(n), nil
	case "random":
		return genRandom(n), nil
	}
	gen, ok := corpora[name]
	if !ok {
		return nil, fmt.Errorf("bench: unknown corpus %q", name)
	}
	base := gen()
	if len(base) == 0 {
		return nil, fmt.Errorf("bench: corpus %q is empty", name)
	}
	out := make([]byte, n)
	for i := 0; i < n; i += len(base) {
		copy(out[i:], base)
	}
	return out, nil
}

func mustHexCorpus(s string) []byte {
	b, err := hex.DecodeString(s)
	if err != nil {
		panic(err)
	}
	return b
}
