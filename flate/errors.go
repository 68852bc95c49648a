// Package flate implements a streaming decompressor for the DEFLATE
// compressed data format, described in RFC 1951.
package flate

// Error is the wrapper type for errors specific to this library.
type Error string

func (e Error) Error() string { return "flate: " + string(e) }

var (
	// ErrCorrupt is returned when the compressed stream is malformed in a
	// way that RFC 1951 does not permit (bad block type, over-subscribed or
	// under-subscribed Huffman tree, missing end-of-block symbol, a decoded
	// symbol whose table entry is invalid, a stored-block length/complement
	// mismatch, and similar).
	ErrCorrupt error = Error("stream is corrupted")

	// ErrFarOffset is returned when a back-reference distance exceeds the
	// number of bytes produced so far (including any preset dictionary).
	ErrFarOffset error = Error("back-reference distance too far")

	// ErrDictionary is returned by SetDictionary if called after the
	// decoder has already consumed input from a stream.
	ErrDictionary error = Error("dictionary set after decoding has started")

	// ErrInputEnd is returned by Inflate when more input is required to
	// make progress but the caller has declared (via the finalInput
	// parameter) that no more input will ever arrive.
	ErrInputEnd error = Error("unexpected end of input")
)

// Result reports why a call to Inflate returned.
type Result int

const (
	// ResultOK indicates the stream reached the end of its final block.
	// Subsequent calls to Inflate are no-ops that return ResultOK.
	ResultOK Result = iota

	// ResultSourceExhausted indicates src was fully consumed before a
	// stream boundary was reached; the caller should supply more input.
	ResultSourceExhausted

	// ResultTargetExhausted indicates dst was fully filled before a
	// stream boundary was reached; the caller should drain dst and call
	// Inflate again.
	ResultTargetExhausted
)

func (r Result) String() string {
	switch r {
	case ResultOK:
		return "OK"
	case ResultSourceExhausted:
		return "SourceExhausted"
	case ResultTargetExhausted:
		return "TargetExhausted"
	default:
		return "Result(?)"
	}
}
