// Package zlib implements reading of the zlib data format, as described in
// RFC 1950, on top of this module's flate decoder.
package zlib

import (
	"hash"
	"hash/adler32"
	"io"

	"github.com/dsnet/golib/errs"

	"github.com/Jpn666/deflate/flate"
)

const zlibDeflate = 8

// Error is the wrapper type for errors specific to this package.
type Error string

func (e Error) Error() string { return "zlib: " + string(e) }

var (
	// ErrHeader is returned when the two-byte CMF/FLG header fails RFC
	// 1950's check-value or compression-method constraints.
	ErrHeader error = Error("invalid header")

	// ErrChecksum is returned when the trailing Adler-32 checksum does not
	// match the decompressed output.
	ErrChecksum error = Error("checksum mismatch")

	// ErrDictionary is returned by NewReaderDict when the stream requires
	// a preset dictionary and either none was given or the one given does
	// not match the stream's recorded dictionary id.
	ErrDictionary error = Error("missing or incorrect dictionary")
)

const readerBufSize = 32 * 1024

// Reader decompresses a zlib stream and validates its Adler-32 trailer as
// it is consumed.
//
// Grounded on original_source/zstrm.c's parsezlibhead/checkzlibtail — the
// FDICT bit and the big-endian four-byte dictionary id it introduces, and
// the big-endian four-byte Adler-32 trailer (RFC 1950 records both
// multi-byte fields most-significant-byte first, unlike gzip's
// little-endian fields) — and on gzip.Reader's staging-buffer shape for
// drawing header, body, and trailer bytes through the one buffer.
type Reader struct {
	r io.Reader
	z *flate.Inflater

	buf    []byte
	pos, n int
	eof    bool

	needDict bool
	dictID   uint32

	digest hash.Hash32
	err    error
}

// NewReader creates a Reader reading and decompressing from r. It parses
// the header immediately, returning any error encountered doing so,
// including ErrDictionary if the stream requires a preset dictionary.
func NewReader(r io.Reader) (*Reader, error) {
	return NewReaderDict(r, nil)
}

// NewReaderDict is like NewReader but uses a preset dictionary if the
// stream's header declares one. The caller-supplied dict must match the
// dictionary id recorded in the header (RFC 1950 §2.2's Adler-32 of the
// dictionary), the same check zlib itself performs.
func NewReaderDict(r io.Reader, dict []byte) (*Reader, error) {
	zr := &Reader{
		r:      r,
		z:      flate.NewInflater(),
		buf:    make([]byte, readerBufSize),
		digest: adler32.New(),
	}
	if err := zr.readHeader(); err != nil {
		return nil, err
	}
	if zr.needDict {
		if dict == nil || adler32.Checksum(dict) != zr.dictID {
			return nil, ErrDictionary
		}
	}
	if dict != nil {
		if err := zr.z.SetDictionary(dict); err != nil {
			return nil, err
		}
	}
	return zr, nil
}

func (zr *Reader) fill() error {
	if zr.pos < zr.n {
		return nil
	}
	if zr.eof {
		return io.EOF
	}
	n, err := zr.r.Read(zr.buf)
	zr.pos, zr.n = 0, n
	if n == 0 {
		if err == nil {
			err = io.EOF
		}
		if err == io.EOF {
			zr.eof = true
		}
		return err
	}
	if err != nil && err != io.EOF {
		return err
	}
	if err == io.EOF {
		zr.eof = true
	}
	return nil
}

func (zr *Reader) readByte() (byte, error) {
	if err := zr.fill(); err != nil {
		return 0, err
	}
	b := zr.buf[zr.pos]
	zr.pos++
	return b, nil
}

func (zr *Reader) readFull(p []byte) error {
	for i := range p {
		b, err := zr.readByte()
		if err != nil {
			if err == io.EOF {
				err = io.ErrUnexpectedEOF
			}
			return err
		}
		p[i] = b
	}
	return nil
}

func be32(b []byte) uint32 {
	return uint32(b[3]) | uint32(b[2])<<8 | uint32(b[1])<<16 | uint32(b[0])<<24
}

func (zr *Reader) readHeader() (err error) {
	defer errs.Recover(&err)

	var hdr [2]byte
	errs.Assert(zr.readFull(hdr[:]) == nil, ErrHeader)
	cmf, flg := hdr[0], hdr[1]

	errs.Assert((uint16(cmf)<<8|uint16(flg))%31 == 0, ErrHeader)
	errs.Assert(cmf&0x0f == zlibDeflate, ErrHeader)

	zr.needDict = flg&0x20 != 0
	if zr.needDict {
		var dictBuf [4]byte
		errs.Assert(zr.readFull(dictBuf[:]) == nil, ErrHeader)
		zr.dictID = be32(dictBuf[:])
	}
	return nil
}

// Read implements io.Reader.
func (zr *Reader) Read(p []byte) (int, error) {
	if zr.err != nil {
		return 0, zr.err
	}
	for {
		if err := zr.fill(); err != nil && err != io.EOF {
			zr.err = err
			return 0, err
		}

		nDst, nSrc, res, err := zr.z.Inflate(p, zr.buf[zr.pos:zr.n], zr.eof)
		zr.pos += nSrc
		if err != nil {
			zr.err = err
			return nDst, err
		}
		if nDst > 0 {
			zr.digest.Write(p[:nDst])
			return nDst, nil
		}

		switch res {
		case flate.ResultTargetExhausted:
			return 0, nil
		case flate.ResultSourceExhausted:
			continue
		case flate.ResultOK:
			if err := zr.checkTrailer(); err != nil {
				zr.err = err
				return 0, err
			}
			zr.err = io.EOF
			return 0, io.EOF
		}
	}
}

func (zr *Reader) checkTrailer() error {
	var tail [4]byte
	if err := zr.readFull(tail[:]); err != nil {
		return err
	}
	if be32(tail[:]) != zr.digest.Sum32() {
		return ErrChecksum
	}
	return nil
}

// Close releases resources; it does not close the underlying io.Reader.
func (zr *Reader) Close() error {
	zr.err = io.EOF
	return nil
}
