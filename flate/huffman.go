package flate

// maxCodeLen is the maximum bit length of any DEFLATE Huffman code
// (RFC 1951 §3.2.2).
const maxCodeLen = 15

// Root table widths, per spec.md §4.2/§9. These are performance-tuned and
// not a runtime parameter — changing them requires recomputing enoughLits
// and enoughDists offline (see DESIGN.md Open Question #2).
const (
	litRootBits  = 9
	distRootBits = 7
	clenRootBits = 7
)

// enoughLits/enoughDists are the precomputed upper bounds on total table
// size (root + every subtable) for the literal/length and distance
// alphabets at the root widths above. These are the ENOUGH values
// original_source/inflator.c carries as ENOUGHL/ENOUGHD. The code-length
// alphabet has only 19 symbols at a 7-bit root, so it never needs a
// subtable and is sized to exactly the root table.
const (
	enoughLits  = 854
	enoughDists = 402
	enoughCLens = 1 << clenRootBits
)

// tableEntry is the three-field record of spec.md §3: info carries the
// decoded symbol, the length/distance base value, or (for a SUBTABLE
// entry) the subtable's base index; tag identifies which of those info
// is, or carries the extra-bit count for a length/distance base; length
// is the number of bits this entry consumes.
type tableEntry struct {
	info   uint16
	tag    uint8
	length uint8
}

// Special tag values. Values 0..13 are reserved to mean "this many extra
// bits follow the base value in info" (the literal/length and distance
// alphabets never need more than 13 extra bits — see tables.go).
const (
	tagLiteral     uint8 = 0xf0 + iota // info is a literal byte value
	tagEndOfBlock                      // no extra data; ends the block
	tagSubtable                        // info is a subtable base index
	tagInvalid                         // this code must never appear in a valid stream
)

// maxExtraBits is the largest tag value that means "extra bits", i.e. any
// tag <= maxExtraBits is a literal/length or distance extra-bit count.
const maxExtraBits = 13

// symInfo pairs a base value with the extra-bit count to add to it, used
// to translate symbols into (info, tag) pairs during table construction.
// For literal/length symbols < 257 and for the code-length alphabet this
// is unused — those symbols populate the table directly.
type symInfo struct {
	base  uint16
	extra uint8
}

// tableMode selects how buildTable interprets the symbol being encoded at
// population time (step 5 of spec.md §4.2).
type tableMode int

const (
	litTableMode tableMode = iota
	distTableMode
	clenTableMode
)

// buildTable implements the canonical-Huffman table builder of spec.md
// §4.2, grounded directly on original_source/inflator.c's buildtable.
//
// lengths[i] is the code length (0..maxCodeLen) of symbol i; a zero
// length means the symbol is unused. table must have capacity for at
// least enoughLits/enoughDists/enoughCLens entries, depending on mode.
// sinfo, when mode is litTableMode or distTableMode, maps a symbol to its
// (base, extraBits) pair (biased by -257 for the literal/length table,
// since symbols 0..255 and 256 never consult it).
func buildTable(lengths []uint8, table []tableEntry, mode tableMode, sinfo []symInfo) error {
	n := len(lengths)

	var rootBits uint
	switch mode {
	case litTableMode:
		rootBits = litRootBits
	case distTableMode:
		rootBits = distRootBits
	default:
		rootBits = clenRootBits
	}

	var counts [maxCodeLen + 1]int
	for _, l := range lengths {
		counts[l]++
	}

	if counts[0] == n {
		// RFC 1951: a distance table with zero codes means the block is
		// literals-only. Fill with INVALID so any consultation errors.
		if mode == distTableMode {
			fillInvalid(table[:1<<rootBits])
			return nil
		}
		return ErrCorrupt // need at least symbol 256
	}

	// Determine the longest used code length.
	maxLen := maxCodeLen
	for counts[maxLen] == 0 {
		maxLen--
	}

	// Validity check: code must not be over-subscribed.
	left := 1
	for l := 1; l <= maxCodeLen; l++ {
		left = (left << 1) - counts[l]
		if left < 0 {
			return ErrCorrupt
		}
	}
	if left > 0 {
		// Under-subscribed. Only tolerated for a distance table whose
		// single code has length 1 (spec.md §4.2 edge cases / DESIGN.md
		// Open Question #1).
		if maxLen != 1 || mode != distTableMode {
			return ErrCorrupt
		}
	}

	// Compute, for each length, the first (unreversed) canonical code,
	// then store its bit-reversal — the code that will actually be
	// issued, since the reservoir delivers bits LSB-first (§4.2's
	// bit-reversal rationale).
	var nextCode [maxCodeLen + 1]uint
	code := 0
	for l := 1; l <= maxLen; l++ {
		code = (code + counts[l-1]) << 1
		nextCode[l] = uint(reverseBits(uint32(code), uint(l)))
	}
	rootMask := uint(1)<<rootBits - 1

	if maxLen > int(rootBits) {
		for i := range table[:rootMask+1] {
			table[i].tag = 0
		}

		offset := rootMask + 1
		for r := maxLen - int(rootBits); r >= 1; r-- {
			l := int(rootBits) + r
			count := counts[l]
			if count == 0 {
				continue
			}

			c := nextCode[l] & rootMask
			j := count >> uint(r)
			if count&(1<<uint(r)-1) != 0 {
				j++
			}

			for ; j > 0; j-- {
				e := &table[c]
				if e.tag == tagSubtable {
					c = reverseIncrement(c, rootBits)
					continue
				}
				e.tag = tagSubtable
				e.info = uint16(offset)
				e.length = uint8(l)

				c = reverseIncrement(c, rootBits)
				offset += 1 << uint(r)
			}
		}

		limit := enoughLits
		if mode == distTableMode {
			limit = enoughDists
		} else if mode == clenTableMode {
			limit = enoughCLens
		}
		if int(offset) > limit {
			return ErrCorrupt
		}
	}

	// Population (step 5): write every symbol's entry, replicated over
	// every pattern of unused suffix bits.
	var lastCode uint
	for sym, l := range lengths {
		if l == 0 {
			continue
		}

		var e tableEntry
		switch {
		case mode == litTableMode && sym < 256:
			e = tableEntry{info: uint16(sym), tag: tagLiteral, length: l}
		case mode == litTableMode && sym == 256:
			e = tableEntry{info: 0, tag: tagEndOfBlock, length: l}
		case mode == litTableMode && sym-257 < len(sinfo):
			si := sinfo[sym-257]
			e = tableEntry{info: si.base, tag: si.extra, length: l}
		case mode == litTableMode:
			// Symbols 286 and 287: RFC 1951 §3.2.6 assigns them fixed
			// code lengths so the canonical fixed tree comes out exact,
			// but no length/distance code ever uses them.
			e = tableEntry{info: 0xffff, tag: tagInvalid, length: l}
		case mode == distTableMode && sym < len(sinfo):
			si := sinfo[sym]
			e = tableEntry{info: si.base, tag: si.extra, length: l}
		case mode == distTableMode:
			// Symbols 30 and 31: present only in the fixed distance tree,
			// where RFC 1951 §3.2.6 notes they "will never actually occur
			// in the compressed data" but are assigned codes anyway so
			// the tree comes out exactly complete.
			e = tableEntry{info: 0xffff, tag: tagInvalid, length: l}
		default: // clenTableMode: symbols 0..18 decode directly
			e = tableEntry{info: uint16(sym), tag: tagLiteral, length: l}
		}

		c := nextCode[l]
		nextCode[l] = reverseIncrement(c, uint(l))
		lastCode = c

		var base, fill int
		if int(l) > int(rootBits) {
			root := &table[c&rootMask]
			fill = int(root.length) - int(l)
			base = int(root.info)

			l -= uint8(rootBits)
			c >>= rootBits
		} else {
			fill = int(rootBits) - int(l)
			base = 0
		}

		// c < 1<<l by construction (either the full code, or the
		// subtable-local remainder after the shift above), so c and
		// j<<l never share a set bit: base+c+(j<<l) addresses exactly
		// the one slot for this fill pattern.
		for j := 1<<uint(fill) - 1; j >= 0; j-- {
			table[base+int(c)+(j<<l)] = e
		}
	}

	// RFC 1951: a single distance code is encoded with one bit, not zero,
	// leaving one unused code; fill its slots with INVALID.
	if maxLen == 1 && lastCode == 0 {
		for j := 0; j < 1<<(rootBits-1); j++ {
			idx := 1 + j<<1
			fillInvalid(table[idx : idx+1])
		}
	}

	return nil
}

func fillInvalid(entries []tableEntry) {
	for i := range entries {
		entries[i] = tableEntry{info: 0xffff, tag: tagInvalid, length: maxCodeLen}
	}
}
