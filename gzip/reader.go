// Package gzip implements reading of the gzip file format, as described in
// RFC 1952, on top of this module's flate decoder.
package gzip

import (
	"hash/crc32"
	"io"
	"time"

	"github.com/dsnet/golib/errs"

	"github.com/Jpn666/deflate/flate"
)

const (
	gzipID1     = 0x1f
	gzipID2     = 0x8b
	gzipDeflate = 8

	flagText    = 1 << 0
	flagHCRC    = 1 << 1
	flagExtra   = 1 << 2
	flagName    = 1 << 3
	flagComment = 1 << 4
)

// Error is the wrapper type for errors specific to this package.
type Error string

func (e Error) Error() string { return "gzip: " + string(e) }

var (
	// ErrHeader is returned when a member's ten-byte header, or any of its
	// optional fields, does not match RFC 1952.
	ErrHeader error = Error("invalid header")

	// ErrChecksum is returned when a member's trailing CRC-32 or size field
	// does not match the decompressed output.
	ErrChecksum error = Error("checksum mismatch")
)

// Header holds the metadata a gzip member may record about the data it
// carries (RFC 1952 §2.3).
type Header struct {
	Comment string
	Extra   []byte
	ModTime time.Time
	Name    string
	OS      byte
}

const readerBufSize = 32 * 1024

// Reader decompresses a gzip stream and validates each member's CRC-32 and
// size trailer as it is consumed.
//
// Grounded on original_source/zstrm.c's parsegziphead/checkgziptail, and on
// this module's flate.Reader for the single staging-buffer/persistent-error
// shape: header bytes, compressed bytes, and the trailing CRC-32+size all
// come from the one buffer fr.buf, refilled from r as it runs dry, the same
// way zstrm's fetchbyte draws every byte — header, body, or tail — through
// its one source/send cursor pair. Header field assertions use
// github.com/dsnet/golib/errs the way xflate/meta/reader.go's decodeBlock
// does for its own header, rather than a chain of manually-checked error
// returns.
type Reader struct {
	Header

	r           io.Reader
	z           *flate.Inflater
	multistream bool

	buf    []byte
	pos, n int
	eof    bool

	crc  uint32
	size uint32
	err  error
}

// NewReader creates a Reader reading and decompressing from r. It parses
// the first member's header immediately, returning any error encountered
// doing so.
func NewReader(r io.Reader) (*Reader, error) {
	gr := &Reader{
		r:           r,
		z:           flate.NewInflater(),
		multistream: true,
		buf:         make([]byte, readerBufSize),
	}
	if err := gr.readHeader(); err != nil {
		return nil, err
	}
	return gr, nil
}

// Multistream controls whether Reader attempts to read further gzip
// members concatenated after the current one (RFC 1952 §2.2), as
// compress/gzip's method of the same name does. The default is true.
func (gr *Reader) Multistream(ok bool) { gr.multistream = ok }

// fill ensures at least one unconsumed byte is available in gr.buf, short
// of the underlying reader being at EOF.
func (gr *Reader) fill() error {
	if gr.pos < gr.n {
		return nil
	}
	if gr.eof {
		return io.EOF
	}
	n, err := gr.r.Read(gr.buf)
	gr.pos, gr.n = 0, n
	if n == 0 {
		if err == nil {
			err = io.EOF
		}
		if err == io.EOF {
			gr.eof = true
		}
		return err
	}
	if err != nil && err != io.EOF {
		return err
	}
	if err == io.EOF {
		gr.eof = true
	}
	return nil
}

func (gr *Reader) readByte() (byte, error) {
	if err := gr.fill(); err != nil {
		return 0, err
	}
	b := gr.buf[gr.pos]
	gr.pos++
	return b, nil
}

func (gr *Reader) readFull(p []byte) error {
	for i := range p {
		b, err := gr.readByte()
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

func (gr *Reader) readHeader() (err error) {
	defer errs.Recover(&err)

	var hdr [10]byte
	errs.Assert(gr.readFull(hdr[:]) == nil, ErrHeader)
	errs.Assert(hdr[0] == gzipID1 && hdr[1] == gzipID2, ErrHeader)
	errs.Assert(hdr[2] == gzipDeflate, ErrHeader)

	flg := hdr[3]
	gr.ModTime = time.Unix(int64(le32(hdr[4:8])), 0)
	gr.OS = hdr[9]
	gr.Extra, gr.Name, gr.Comment = nil, "", ""

	if flg&flagExtra != 0 {
		var lenBuf [2]byte
		errs.Assert(gr.readFull(lenBuf[:]) == nil, ErrHeader)
		extra := make([]byte, le16(lenBuf[:]))
		errs.Assert(gr.readFull(extra) == nil, ErrHeader)
		gr.Extra = extra
	}
	if flg&flagName != 0 {
		s, e := gr.readCString()
		errs.Assert(e == nil, ErrHeader)
		gr.Name = s
	}
	if flg&flagComment != 0 {
		s, e := gr.readCString()
		errs.Assert(e == nil, ErrHeader)
		gr.Comment = s
	}
	if flg&flagHCRC != 0 {
		var crcBuf [2]byte
		errs.Assert(gr.readFull(crcBuf[:]) == nil, ErrHeader)
	}

	gr.crc, gr.size = 0, 0
	gr.z.Reset()
	return nil
}

func (gr *Reader) readCString() (string, error) {
	var s []byte
	for {
		b, err := gr.readByte()
		if err != nil {
			return "", err
		}
		if b == 0 {
			return string(s), nil
		}
		s = append(s, b)
	}
}

func le16(b []byte) uint16 { return uint16(b[0]) | uint16(b[1])<<8 }
func le32(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

// Read implements io.Reader, decompressing the current member into p and
// transparently advancing to the next concatenated member, if any and if
// Multistream has not been disabled, once the current one's trailer checks
// out.
func (gr *Reader) Read(p []byte) (int, error) {
	if gr.err != nil {
		return 0, gr.err
	}
	for {
		if err := gr.fill(); err != nil && err != io.EOF {
			gr.err = err
			return 0, err
		}

		nDst, nSrc, res, err := gr.z.Inflate(p, gr.buf[gr.pos:gr.n], gr.eof)
		gr.pos += nSrc
		if err != nil {
			gr.err = err
			return nDst, err
		}
		if nDst > 0 {
			gr.crc = crc32.Update(gr.crc, crc32.IEEETable, p[:nDst])
			gr.size += uint32(nDst)
			return nDst, nil
		}

		switch res {
		case flate.ResultTargetExhausted:
			return 0, nil
		case flate.ResultSourceExhausted:
			continue
		case flate.ResultOK:
			if err := gr.checkTrailer(); err != nil {
				gr.err = err
				return 0, err
			}
			if !gr.multistream {
				gr.err = io.EOF
				return 0, io.EOF
			}
			if ferr := gr.fill(); ferr != nil {
				if ferr != io.EOF {
					gr.err = ferr
					return 0, ferr
				}
				gr.err = io.EOF
				return 0, io.EOF
			}
			if err := gr.readHeader(); err != nil {
				gr.err = err
				return 0, err
			}
		}
	}
}

func (gr *Reader) checkTrailer() error {
	var tail [8]byte
	if err := gr.readFull(tail[:]); err != nil {
		return err
	}
	if le32(tail[0:4]) != gr.crc {
		return ErrChecksum
	}
	if le32(tail[4:8]) != gr.size {
		return ErrChecksum
	}
	return nil
}

// Close releases resources; it does not close the underlying io.Reader.
func (gr *Reader) Close() error {
	gr.err = io.EOF
	return nil
}
