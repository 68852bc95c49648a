package flate

// Alphabet sizes (RFC 1951 §3.2.6/§3.2.7).
const (
	maxNumCLenSyms = 19
	maxNumLitSyms  = 288
	maxNumDistSyms = 30
)

// clenOrder is the order in which code-length code lengths are transmitted
// in a dynamic block header (RFC 1951 §3.2.7). Grounded on the teacher's
// flate/prefix.go clenLens, renamed to reflect that this is a transmission
// order, not a length table.
var clenOrder = [maxNumCLenSyms]uint8{
	16, 17, 18, 0, 8, 7, 9, 6, 10, 5, 11, 4, 12, 3, 13, 2, 14, 1, 15,
}

// lengthInfo is the length-code base/extra-bits table for symbols 257..285
// (RFC 1951 §3.2.5), indexed by symbol-257. Unlike distInfo's regular
// doubling groups, the length groups are irregular (8, then 4, 4, 4, 4, 4,
// then a lone base-258 code), so this is spelled out explicitly rather
// than generated by a loop, cross-checked against the teacher's
// flate/prefix.go initPrefixLUTs (which builds the equivalent rangeCode
// table from the same RFC section).
var lengthInfo = [maxNumLitSyms - 257 - 2]symInfo{
	{base: 3, extra: 0}, {base: 4, extra: 0}, {base: 5, extra: 0}, {base: 6, extra: 0},
	{base: 7, extra: 0}, {base: 8, extra: 0}, {base: 9, extra: 0}, {base: 10, extra: 0},
	{base: 11, extra: 1}, {base: 13, extra: 1}, {base: 15, extra: 1}, {base: 17, extra: 1},
	{base: 19, extra: 2}, {base: 23, extra: 2}, {base: 27, extra: 2}, {base: 31, extra: 2},
	{base: 35, extra: 3}, {base: 43, extra: 3}, {base: 51, extra: 3}, {base: 59, extra: 3},
	{base: 67, extra: 4}, {base: 83, extra: 4}, {base: 99, extra: 4}, {base: 115, extra: 4},
	{base: 131, extra: 5}, {base: 163, extra: 5}, {base: 195, extra: 5}, {base: 227, extra: 5},
	{base: 258, extra: 0},
}

// distInfo is the distance-code base/extra-bits table for symbols 0..29
// (RFC 1951 §3.2.5): four base codes with no extra bits, then pairs of
// codes whose extra-bit count grows by one per pair. Grounded on the teacher's
// flate/prefix.go initPrefixLUTs distLUT loop (nb = i/2-1, clamped to 0
// for i<2); spelled out here as a literal table for the same reason as
// lengthInfo above.
var distInfo = [maxNumDistSyms]symInfo{
	{base: 1, extra: 0}, {base: 2, extra: 0}, {base: 3, extra: 0}, {base: 4, extra: 0},
	{base: 5, extra: 1}, {base: 7, extra: 1},
	{base: 9, extra: 2}, {base: 13, extra: 2},
	{base: 17, extra: 3}, {base: 25, extra: 3},
	{base: 33, extra: 4}, {base: 49, extra: 4},
	{base: 65, extra: 5}, {base: 97, extra: 5},
	{base: 129, extra: 6}, {base: 193, extra: 6},
	{base: 257, extra: 7}, {base: 385, extra: 7},
	{base: 513, extra: 8}, {base: 769, extra: 8},
	{base: 1025, extra: 9}, {base: 1537, extra: 9},
	{base: 2049, extra: 10}, {base: 3073, extra: 10},
	{base: 4097, extra: 11}, {base: 6145, extra: 11},
	{base: 8193, extra: 12}, {base: 12289, extra: 12},
	{base: 16385, extra: 13}, {base: 24577, extra: 13},
}

// fixedLitLengths/fixedDistLengths are the code lengths RFC 1951 §3.2.6
// assigns for the fixed Huffman block type. Symbols 286, 287 (literal
// table) and 30, 31 (distance table — "will never actually occur in the
// compressed data" per the RFC, but assigned codes anyway) are included
// purely so each canonical code assignment balances exactly; they can
// never legally be decoded (see huffman.go's population switch).
var fixedLitLengths [maxNumLitSyms]uint8
var fixedDistLengths [maxNumDistSyms + 2]uint8

// fixedLitTable/fixedDistTable are the precomputed tableEntry arrays for
// the fixed Huffman block type (RFC 1951 §3.2.6), built once in init so
// that decoding a fixed block costs nothing beyond a table lookup.
var fixedLitTable [enoughLits]tableEntry
var fixedDistTable [enoughDists]tableEntry

func init() {
	for i := 0; i < 144; i++ {
		fixedLitLengths[i] = 8
	}
	for i := 144; i < 256; i++ {
		fixedLitLengths[i] = 9
	}
	for i := 256; i < 280; i++ {
		fixedLitLengths[i] = 7
	}
	for i := 280; i < 288; i++ {
		fixedLitLengths[i] = 8
	}
	for i := range fixedDistLengths {
		fixedDistLengths[i] = 5
	}

	if err := buildTable(fixedLitLengths[:], fixedLitTable[:], litTableMode, lengthInfo[:]); err != nil {
		panic("flate: invalid fixed literal/length table: " + err.Error())
	}
	if err := buildTable(fixedDistLengths[:], fixedDistTable[:], distTableMode, distInfo[:]); err != nil {
		panic("flate: invalid fixed distance table: " + err.Error())
	}
}
