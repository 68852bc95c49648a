// Command deflate decompresses a gzip, zlib, or raw DEFLATE stream from
// stdin to stdout.
//
// Example usage:
//	$ deflate -format gzip < archive.tar.gz > archive.tar
package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/Jpn666/deflate/flate"
	"github.com/Jpn666/deflate/gzip"
	"github.com/Jpn666/deflate/zlib"
)

func main() {
	format := flag.String("format", "auto", "input format: auto, gzip, zlib, or flate")
	flag.Parse()

	if err := run(*format, os.Stdin, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "deflate:", err)
		os.Exit(1)
	}
}

func run(format string, in io.Reader, out io.Writer) error {
	r, err := newReader(format, in)
	if err != nil {
		return err
	}
	if c, ok := r.(io.Closer); ok {
		defer c.Close()
	}
	_, err = io.Copy(out, r)
	return err
}

func newReader(format string, in io.Reader) (io.Reader, error) {
	switch format {
	case "gzip":
		return gzip.NewReader(in)
	case "zlib":
		return zlib.NewReader(in)
	case "flate":
		return flate.NewReader(in), nil
	case "auto":
		return autoReader(in)
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}
}

// autoReader sniffs the first two bytes to tell a gzip or zlib member from
// raw DEFLATE, the same magic bytes parsehead in
// original_source/zstrm.c switches on (0x1f for gzip; CM==8 in the low
// nibble of the first byte for zlib; anything else is treated as raw
// DEFLATE).
func autoReader(in io.Reader) (io.Reader, error) {
	var peek [2]byte
	n, err := io.ReadFull(in, peek[:])
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, err
	}
	src := io.MultiReader(bytes.NewReader(peek[:n]), in)

	switch {
	case n >= 1 && peek[0] == 0x1f:
		return gzip.NewReader(src)
	case n >= 2 && peek[0]&0x0f == 8 && (uint16(peek[0])<<8|uint16(peek[1]))%31 == 0:
		return zlib.NewReader(src)
	default:
		return flate.NewReader(src), nil
	}
}
