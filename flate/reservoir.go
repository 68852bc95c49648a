package flate

// reservoir is the bit accumulator described in spec.md §4.1. Bits enter
// LSB-first: byte b arriving when bitCnt == k contributes b<<k to bits,
// and bitCnt increases by 8. Reading n bits is bits&(1<<n-1); dropping n
// bits is bits>>=n; bitCnt-=n.
//
// The word is always 64 bits wide (see DESIGN.md's Open Question
// resolution #3). Both the fast path and the slow path refill it one byte
// at a time through tryEnsure.
//
// src/pos track the current input span as a fixed backing array plus a
// read cursor, rather than a shrinking slice that would need re-slicing on
// every byte consumed.
type reservoir struct {
	bits   uint64
	bitCnt uint

	src []byte
	pos int
}

// setSource installs a new input span, discarding any previous one. Any
// bits already buffered are unaffected.
func (r *reservoir) setSource(src []byte) {
	r.src = src
	r.pos = 0
}

// avail reports how many input bytes have not yet been pulled into bits.
func (r *reservoir) avail() int {
	return len(r.src) - r.pos
}

// consumed reports how many bytes of src have been pulled into the
// reservoir so far (including any still buffered, unread bits).
func (r *reservoir) consumed() int {
	return r.pos
}

// fetchByte pulls at most one byte from src into the reservoir. It
// reports false if src is exhausted.
func (r *reservoir) fetchByte() bool {
	if r.pos >= len(r.src) {
		return false
	}
	r.bits |= uint64(r.src[r.pos]) << r.bitCnt
	r.bitCnt += 8
	r.pos++
	return true
}

// tryEnsure pulls bytes from src until bitCnt >= n. It reports false if
// src runs out first, in which case whatever whole bytes could be pulled
// remain in the reservoir (§4.1's suspension contract).
func (r *reservoir) tryEnsure(n uint) bool {
	for r.bitCnt < n {
		if !r.fetchByte() {
			return false
		}
	}
	return true
}

// peek returns the low n bits of the reservoir without consuming them.
// The caller must have already ensured bitCnt >= n.
func (r *reservoir) peek(n uint) uint {
	return uint(r.bits & (1<<n - 1))
}

// drop discards the low n bits of the reservoir.
func (r *reservoir) drop(n uint) {
	r.bits >>= n
	r.bitCnt -= n
}

// readBits reads the low n bits and drops them. It does not pull input:
// the caller must already have ensured bitCnt >= n (i.e. after a
// successful tryEnsure).
func (r *reservoir) readBits(n uint) uint {
	v := r.peek(n)
	r.drop(n)
	return v
}

// alignToByte drops bitCnt%8 bits, per §4.1's align-to-byte operation,
// used before a STORED block.
func (r *reservoir) alignToByte() {
	r.drop(r.bitCnt % 8)
}
