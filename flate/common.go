package flate

import "github.com/Jpn666/deflate/internal"

const (
	maxHistSize = 1 << 15 // 32 KiB sliding window (RFC 1951 §2.2)
	endBlockSym = 256
)

// reverseBits reverses the lower n bits of v, used to convert a canonical
// Huffman code into the order the reservoir delivers bits in (LSB-first).
// Built on internal.ReverseUint32N's byte-reversal-table construction
// rather than a private copy of the same LUT.
func reverseBits(v uint32, n uint) uint32 {
	return internal.ReverseUint32N(v, n)
}

// reverseIncrement advances c, a bit-reversed code occupying the low bits
// bits of the word, to the next reversed code in sequence. It is the
// mirror image of ordinary increment: where incrementing from the LSB
// flips trailing 1s to 0 and then sets the first 0, this flips leading 1s
// (starting at bit bits-1, the code's most-significant bit) to 0 and then
// sets the first 0 below them. Grounded on original_source/inflator.c's
// reverseinc.
func reverseIncrement(c uint, bits uint) uint {
	m := uint(1) << (bits - 1)
	for c&m != 0 {
		c ^= m
		m >>= 1
	}
	c ^= m
	return c
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
