package flate

import (
	"bytes"
	"testing"

	"github.com/Jpn666/deflate/internal/testutil"
)

// decodeAll drives z.Inflate to completion against a single in-memory
// source, feeding it through a dst buffer large enough that
// ResultTargetExhausted never fires, so tests can focus on the source
// side of the state machine.
func decodeAll(t *testing.T, z *Inflater, src []byte) []byte {
	t.Helper()
	var out []byte
	dst := make([]byte, 4096)
	pos := 0
	for i := 0; i < 1000; i++ {
		end := len(src)
		final := true
		nDst, nSrc, res, err := z.Inflate(dst, src[pos:end], final)
		out = append(out, dst[:nDst]...)
		pos += nSrc
		if err != nil {
			t.Fatalf("Inflate: %v", err)
		}
		if res == ResultOK {
			return out
		}
	}
	t.Fatalf("decodeAll: did not converge")
	return nil
}

// decodeChunked is like decodeAll but feeds src in fixed-size pieces,
// used to test spec.md §8's "incremental equivalence" property.
func decodeChunked(t *testing.T, src []byte, chunkSize int) []byte {
	t.Helper()
	z := NewInflater()
	var out []byte
	dst := make([]byte, 4096)
	pos := 0
	for i := 0; i < 100000; i++ {
		end := pos + chunkSize
		if end > len(src) {
			end = len(src)
		}
		final := end == len(src)
		nDst, nSrc, res, err := z.Inflate(dst, src[pos:end], final)
		out = append(out, dst[:nDst]...)
		pos += nSrc
		if err != nil {
			t.Fatalf("chunk size %d: Inflate: %v", chunkSize, err)
		}
		if res == ResultOK {
			return out
		}
	}
	t.Fatalf("chunk size %d: did not converge", chunkSize)
	return nil
}

// Scenario 1 of spec.md §8: empty stream, final stored block.
func TestScenarioEmptyStored(t *testing.T) {
	src := testutil.MustDecodeHex("0100" + "00ffff")
	out := decodeAll(t, NewInflater(), src)
	if len(out) != 0 {
		t.Fatalf("got %q, want empty", out)
	}
}

// Scenario 2: one-byte stored block.
func TestScenarioOneByteStored(t *testing.T) {
	src := testutil.MustDecodeHex("01" + "0100" + "feff" + "41")
	out := decodeAll(t, NewInflater(), src)
	if string(out) != "A" {
		t.Fatalf("got %q, want %q", out, "A")
	}
}

// Scenario 3: fixed-Huffman "Hello".
func TestScenarioFixedHello(t *testing.T) {
	src := testutil.MustDecodeHex("f348cdc9c90700")
	out := decodeAll(t, NewInflater(), src)
	if string(out) != "Hello" {
		t.Fatalf("got %q, want %q", out, "Hello")
	}
}

// Scenario 4: dynamic block "abracadabra" (literals only; one 1-bit
// distance code that is never used).
func TestScenarioDynamicAbracadabra(t *testing.T) {
	src := testutil.MustDecodeHex("05c0310100000c02a0acb825b0ff2152e7a506")
	out := decodeAll(t, NewInflater(), src)
	if string(out) != "abracadabra" {
		t.Fatalf("got %q, want %q", out, "abracadabra")
	}
}

// Scenario 4, repeated at chunk sizes 1, 7, 8192 and all-at-once: spec.md
// §8's incremental-equivalence property.
func TestScenarioDynamicIncremental(t *testing.T) {
	src := testutil.MustDecodeHex("05c0310100000c02a0acb825b0ff2152e7a506")
	want := "abracadabra"
	for _, chunk := range []int{1, 7, 8192, len(src)} {
		got := decodeChunked(t, src, chunk)
		if string(got) != want {
			t.Fatalf("chunk size %d: got %q, want %q", chunk, got, want)
		}
	}
}

// Scenario 6: block type 3 (0b11) is reserved and must be rejected.
func TestScenarioBadBlockType(t *testing.T) {
	src := testutil.MustDecodeHex("06")
	_, _, _, err := NewInflater().Inflate(make([]byte, 16), src, true)
	if err != ErrCorrupt {
		t.Fatalf("got err %v, want ErrCorrupt", err)
	}
}

// Scenario 7: a dynamic header truncated mid-field, with finalInput set,
// must report ErrInputEnd rather than suspending forever.
func TestScenarioTruncatedHeaderInputEnd(t *testing.T) {
	// BFINAL=1, BTYPE=10 (dynamic), then a single zero bit: nowhere near
	// enough to read HLIT/HDIST/HCLEN (14 bits).
	src := testutil.MustDecodeBitGen("<<< < 1 10 0")
	_, _, _, err := NewInflater().Inflate(make([]byte, 16), src, true)
	if err != ErrInputEnd {
		t.Fatalf("got err %v, want ErrInputEnd", err)
	}
}

// Scenario 7 variant: the same truncated header, but without finalInput,
// must suspend rather than error — more input might still arrive.
func TestScenarioTruncatedHeaderSuspends(t *testing.T) {
	src := testutil.MustDecodeBitGen("<<< < 1 10 0")
	_, _, res, err := NewInflater().Inflate(make([]byte, 16), src, false)
	if err != nil {
		t.Fatalf("got err %v, want nil", err)
	}
	if res != ResultSourceExhausted {
		t.Fatalf("got result %v, want ResultSourceExhausted", res)
	}
}

// Scenario 8: a fixed-Huffman block referencing a distance that reaches
// further back than the dictionary-seeded window plus current output.
// 'Z' (literal), then length 3 (symbol 257), then distance 4 (symbol 3):
// with a 1-byte dictionary and no other output, writePos(1)+histSize(1)=2
// is short of distance 4.
func TestScenarioFarOffset(t *testing.T) {
	z := NewInflater()
	if err := z.SetDictionary([]byte("X")); err != nil {
		t.Fatalf("SetDictionary: %v", err)
	}
	src := testutil.MustDecodeBitGen(`
		<<<
		< 1 01        # BFINAL=1, BTYPE=01 (fixed)
		> 10001010     # literal 'Z' (fixed 8-bit code 0x8a)
		> 0000001      # length symbol 257, base 3
		> 00011        # distance symbol 3, base 4
	`)
	_, _, _, err := z.Inflate(make([]byte, 16), src, true)
	if err != ErrFarOffset {
		t.Fatalf("got err %v, want ErrFarOffset", err)
	}
}

// Dictionary-seeded back-reference: the whole of the preset dictionary is
// reproduced purely from the window, matching spec.md §8's back-reference
// scenario. 'A' literal omitted: the entire 3-byte copy comes from
// distance 3 / length 3, matching the dictionary's length exactly.
func TestScenarioDictionaryBackReference(t *testing.T) {
	z := NewInflater()
	if err := z.SetDictionary([]byte("ABC")); err != nil {
		t.Fatalf("SetDictionary: %v", err)
	}
	src := testutil.MustDecodeBitGen(`
		<<<
		< 1 01        # BFINAL=1, BTYPE=01 (fixed)
		> 0000001      # length symbol 257, base 3
		> 00010        # distance symbol 2, base 3
		> 0000000      # end-of-block
	`)
	out := decodeAll(t, z, src)
	if string(out) != "ABC" {
		t.Fatalf("got %q, want %q", out, "ABC")
	}
}

// Boundary: a back-reference with distance=1, length=258 replicates the
// previous byte 258 times (spec.md §8's boundary behaviors).
func TestBoundaryMaxLengthRun(t *testing.T) {
	src := testutil.MustDecodeBitGen(`
		<<<
		< 1 01        # BFINAL=1, BTYPE=01 (fixed)
		> 10001010     # literal 'Z' (fixed 8-bit code 0x8a)
		> 11000101     # length symbol 285, base 258
		> 00000        # distance symbol 0, base 1
		> 0000000      # end-of-block
	`)
	out := decodeAll(t, NewInflater(), src)
	want := "Z" + string(bytes.Repeat([]byte("Z"), 258))
	if string(out) != want {
		t.Fatalf("got %d bytes, want %d, all 'Z'", len(out), len(want))
	}
	for i, b := range out {
		if b != 'Z' {
			t.Fatalf("byte %d = %q, want 'Z'", i, b)
		}
	}
}

// Boundary: an empty STORED block (LEN=0) that is not final produces no
// output and falls straight through to the following block.
func TestBoundaryEmptyStoredThenFixed(t *testing.T) {
	src := testutil.MustDecodeHex("00" + "0000" + "ffff")
	src = append(src, testutil.MustDecodeHex("f348cdc9c90700")...)
	out := decodeAll(t, NewInflater(), src)
	if string(out) != "Hello" {
		t.Fatalf("got %q, want %q", out, "Hello")
	}
}

// Boundary: a single final empty fixed block produces zero bytes and
// terminates.
func TestBoundaryEmptyFixedBlock(t *testing.T) {
	src := testutil.MustDecodeBitGen(`
		<<<
		< 1 01        # BFINAL=1, BTYPE=01 (fixed)
		> 0000000      # end-of-block only
	`)
	out := decodeAll(t, NewInflater(), src)
	if len(out) != 0 {
		t.Fatalf("got %q, want empty", out)
	}
}

// A stored block's LEN/NLEN mismatch is a protocol error.
func TestStoredLengthMismatch(t *testing.T) {
	src := testutil.MustDecodeHex("01" + "0100" + "0000" + "41")
	_, _, _, err := NewInflater().Inflate(make([]byte, 16), src, true)
	if err != ErrCorrupt {
		t.Fatalf("got err %v, want ErrCorrupt", err)
	}
}

// A stored block whose final byte is split across two Inflate calls must
// resume and emit that byte correctly.
func TestStoredSplitAcrossCalls(t *testing.T) {
	src := testutil.MustDecodeHex("01" + "0100" + "feff" + "41")
	z := NewInflater()
	dst := make([]byte, 16)
	nDst, nSrc, res, err := z.Inflate(dst, src[:len(src)-1], false)
	if err != nil {
		t.Fatalf("first call: %v", err)
	}
	if nDst != 0 || res != ResultSourceExhausted {
		t.Fatalf("first call: nDst=%d res=%v, want 0/SourceExhausted", nDst, res)
	}
	nDst2, _, res2, err := z.Inflate(dst[nDst:], src[nSrc:], true)
	if err != nil {
		t.Fatalf("second call: %v", err)
	}
	if res2 != ResultOK {
		t.Fatalf("second call: res=%v, want ResultOK", res2)
	}
	if string(dst[:nDst+nDst2]) != "A" {
		t.Fatalf("got %q, want %q", dst[:nDst+nDst2], "A")
	}
}

// Reset makes a reused Inflater behave identically to a freshly
// constructed one on a new stream, regardless of prior history.
func TestResetIdempotence(t *testing.T) {
	src := testutil.MustDecodeHex("f348cdc9c90700")

	z := NewInflater()
	want := decodeAll(t, z, src)

	z.Reset()
	got := decodeAll(t, z, src)
	if string(got) != string(want) {
		t.Fatalf("after reset: got %q, want %q", got, want)
	}

	// Reset after an error must also clear the error.
	z2 := NewInflater()
	_, _, _, err := z2.Inflate(make([]byte, 16), testutil.MustDecodeHex("06"), true)
	if err == nil {
		t.Fatalf("expected error before reset")
	}
	z2.Reset()
	got2 := decodeAll(t, z2, src)
	if string(got2) != string(want) {
		t.Fatalf("after reset-from-error: got %q, want %q", got2, want)
	}
}

// SetDictionary after input has been consumed is rejected.
func TestSetDictionaryAfterUse(t *testing.T) {
	z := NewInflater()
	if _, _, _, err := z.Inflate(make([]byte, 16), []byte{0x01}, false); err != nil {
		t.Fatalf("priming Inflate: %v", err)
	}
	if err := z.SetDictionary([]byte("late")); err != ErrDictionary {
		t.Fatalf("got err %v, want ErrDictionary", err)
	}
}

// Once the stream's final block is fully consumed, further calls are
// no-ops that return ResultOK with no output.
func TestInflateAfterFinalConsumedIsNoop(t *testing.T) {
	z := NewInflater()
	src := testutil.MustDecodeHex("0100" + "00ffff")
	decodeAll(t, z, src)
	nDst, nSrc, res, err := z.Inflate(make([]byte, 16), []byte{0x41, 0x42}, true)
	if nDst != 0 || nSrc != 0 || res != ResultOK || err != nil {
		t.Fatalf("got (%d, %d, %v, %v), want (0, 0, ResultOK, nil)", nDst, nSrc, res, err)
	}
}

// Once an error has been reported, every subsequent call returns the same
// error without touching src or dst.
func TestInflateAfterErrorIsSticky(t *testing.T) {
	z := NewInflater()
	_, _, _, err := z.Inflate(make([]byte, 16), testutil.MustDecodeHex("06"), true)
	if err != ErrCorrupt {
		t.Fatalf("got err %v, want ErrCorrupt", err)
	}
	nDst, nSrc, res, err2 := z.Inflate(make([]byte, 16), []byte{0x41}, true)
	if nDst != 0 || nSrc != 0 || res != ResultOK || err2 != ErrCorrupt {
		t.Fatalf("got (%d, %d, %v, %v), want (0, 0, ResultOK, ErrCorrupt)", nDst, nSrc, res, err2)
	}
}

// Over-subscribed trees (more codes of a given length than fit) are
// rejected for every table mode.
func TestBuildTableOverSubscribed(t *testing.T) {
	lengths := make([]uint8, maxNumLitSyms)
	lengths[0], lengths[1], lengths[2] = 1, 1, 1 // three length-1 codes: only 2 fit
	lengths[256] = 1
	table := make([]tableEntry, enoughLits)
	if err := buildTable(lengths, table, litTableMode, lengthInfo[:]); err != ErrCorrupt {
		t.Fatalf("got err %v, want ErrCorrupt", err)
	}
}

// Under-subscribed trees are rejected, except the single documented
// exception: a distance table with exactly one length-1 code.
func TestBuildTableUnderSubscribed(t *testing.T) {
	lengths := make([]uint8, maxNumLitSyms)
	lengths[256] = 1 // only the end-of-block symbol: one code, one unused leaf
	table := make([]tableEntry, enoughLits)
	if err := buildTable(lengths, table, litTableMode, lengthInfo[:]); err != ErrCorrupt {
		t.Fatalf("literal table: got err %v, want ErrCorrupt", err)
	}

	dlengths := make([]uint8, maxNumDistSyms)
	dlengths[0] = 1 // the documented exception
	dtable := make([]tableEntry, enoughDists)
	if err := buildTable(dlengths, dtable, distTableMode, distInfo[:]); err != nil {
		t.Fatalf("distance table: got err %v, want nil", err)
	}
}

// A distance table with no codes at all is valid (a literals-only block)
// and every index reports INVALID.
func TestBuildTableEmptyDistanceTable(t *testing.T) {
	dlengths := make([]uint8, maxNumDistSyms)
	dtable := make([]tableEntry, enoughDists)
	if err := buildTable(dlengths, dtable, distTableMode, distInfo[:]); err != nil {
		t.Fatalf("got err %v, want nil", err)
	}
	for i, e := range dtable[:1<<distRootBits] {
		if e.tag != tagInvalid {
			t.Fatalf("entry %d: tag %v, want tagInvalid", i, e.tag)
		}
	}
}

// A literal/length table missing the end-of-block symbol's code length is
// rejected (spec.md §4.4.2: "reject if length code for symbol 256 is
// zero"), enforced in decodeDynamicHeader rather than buildTable itself.
//
// HLIT=257, HDIST=1 (total 258 symbols needed). The code-length alphabet
// is built from two 1-bit codes, cl[17] and cl[18] (both repeat-zero
// symbols); canonical assignment in ascending symbol order gives cl[17]
// the code '0' and cl[18] the code '1'. Two repeats of symbol 18 (7 extra
// bits, base 11), with extra-bit values 127 and 109, request runs of 138
// and 120 zero-length codes — summing to exactly 258, so the decode loop
// ends with every symbol, including 256, still at its default length 0.
func TestDynamicHeaderMissingEndOfBlock(t *testing.T) {
	src := testutil.MustDecodeBitGen(`
		<<<
		< 1 10                 # BFINAL=1, BTYPE=10 (dynamic)
		< D5:0 D5:0 D4:0       # HLIT=257, HDIST=1, HCLEN=4
		< 000 001 001 000      # cl[16]=0, cl[17]=1, cl[18]=1, cl[0]=0
		< 1 D7:127             # symbol 18 (code '1'): run of 11+127=138
		< 1 D7:109             # symbol 18 again: run of 11+109=120 (total 258)
	`)
	_, _, _, err := NewInflater().Inflate(make([]byte, 16), src, true)
	if err != ErrCorrupt {
		t.Fatalf("got err %v, want ErrCorrupt", err)
	}
}

// A repeat-previous-length symbol (16) as the very first code-length
// symbol is rejected: there is no previous length to repeat.
//
// The code-length alphabet here is two 1-bit codes, cl[16] and cl[17];
// ascending symbol order gives cl[16] the code '0'.
func TestDynamicHeaderRepeatBeforeFirst(t *testing.T) {
	src := testutil.MustDecodeBitGen(`
		<<<
		< 1 10                 # BFINAL=1, BTYPE=10 (dynamic)
		< D5:0 D5:0 D4:0       # HLIT=257, HDIST=1, HCLEN=4
		< 001 001 000 000      # cl[16]=1, cl[17]=1, cl[18]=0, cl[0]=0
		< 0 D2:0               # symbol 16 (code '0'), repeat-previous, as the first symbol
	`)
	_, _, _, err := NewInflater().Inflate(make([]byte, 16), src, true)
	if err != ErrCorrupt {
		t.Fatalf("got err %v, want ErrCorrupt", err)
	}
}

// A repeat that would run past HLIT+HDIST total symbols is rejected.
// Same code-length alphabet as TestDynamicHeaderMissingEndOfBlock, but
// both symbol-18 repeats request the maximum run (138), for a total of
// 276 against a budget of 258.
func TestDynamicHeaderRepeatPastTotal(t *testing.T) {
	src := testutil.MustDecodeBitGen(`
		<<<
		< 1 10                 # BFINAL=1, BTYPE=10 (dynamic)
		< D5:0 D5:0 D4:0       # HLIT=257, HDIST=1, HCLEN=4
		< 000 001 001 000      # cl[16]=0, cl[17]=1, cl[18]=1, cl[0]=0
		< 1 D7:127             # symbol 18: run of 138
		< 1 D7:127             # symbol 18 again: another 138 (276 total, over budget)
	`)
	_, _, _, err := NewInflater().Inflate(make([]byte, 16), src, true)
	if err != ErrCorrupt {
		t.Fatalf("got err %v, want ErrCorrupt", err)
	}
}

// A dynamic header whose HCLEN code-length alphabet has no codes at all
// (every one of the HCLEN transmitted lengths is zero) is rejected by
// buildTable's "need at least one code" check before any literal/length
// decoding is attempted.
func TestDynamicHeaderEmptyClenTable(t *testing.T) {
	src := testutil.MustDecodeBitGen(`
		<<<
		< 1 10                 # BFINAL=1, BTYPE=10 (dynamic)
		< D5:0 D5:0 D4:0       # HLIT=257, HDIST=1, HCLEN=4
		< 000 000 000 000      # every HCLEN code length is zero
	`)
	_, _, _, err := NewInflater().Inflate(make([]byte, 16), src, true)
	if err != ErrCorrupt {
		t.Fatalf("got err %v, want ErrCorrupt", err)
	}
}
