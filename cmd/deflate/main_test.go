package main

import (
	"bytes"
	"encoding/hex"
	"testing"
)

func mustHex(s string) []byte {
	b, err := hex.DecodeString(s)
	if err != nil {
		panic(err)
	}
	return b
}

// The fixed-Huffman "Hello" block shared with flate/decoder_test.go, and
// the same member/stream wrappers used in gzip/reader_test.go and
// zlib/reader_test.go.
const (
	rawHello  = "f348cdc9c90700"
	gzipHello = "1f8b08000000000000ff" + rawHello + "8289d1f7" + "05000000"
	zlibHello = "789c" + rawHello + "058c01f5"
)

func TestRunDetectsGzip(t *testing.T) {
	var out bytes.Buffer
	if err := run("auto", bytes.NewReader(mustHex(gzipHello)), &out); err != nil {
		t.Fatalf("run: %v", err)
	}
	if out.String() != "Hello" {
		t.Fatalf("got %q, want %q", out.String(), "Hello")
	}
}

func TestRunDetectsZlib(t *testing.T) {
	var out bytes.Buffer
	if err := run("auto", bytes.NewReader(mustHex(zlibHello)), &out); err != nil {
		t.Fatalf("run: %v", err)
	}
	if out.String() != "Hello" {
		t.Fatalf("got %q, want %q", out.String(), "Hello")
	}
}

func TestRunDetectsRawFlate(t *testing.T) {
	var out bytes.Buffer
	if err := run("auto", bytes.NewReader(mustHex(rawHello)), &out); err != nil {
		t.Fatalf("run: %v", err)
	}
	if out.String() != "Hello" {
		t.Fatalf("got %q, want %q", out.String(), "Hello")
	}
}

func TestRunExplicitFormat(t *testing.T) {
	for _, format := range []string{"gzip", "zlib", "flate"} {
		var src string
		switch format {
		case "gzip":
			src = gzipHello
		case "zlib":
			src = zlibHello
		case "flate":
			src = rawHello
		}
		var out bytes.Buffer
		if err := run(format, bytes.NewReader(mustHex(src)), &out); err != nil {
			t.Fatalf("run(%q): %v", format, err)
		}
		if out.String() != "Hello" {
			t.Fatalf("run(%q): got %q, want %q", format, out.String(), "Hello")
		}
	}
}

func TestRunUnknownFormat(t *testing.T) {
	var out bytes.Buffer
	if err := run("lz4", bytes.NewReader(nil), &out); err == nil {
		t.Fatal("expected an error for an unknown format")
	}
}

func TestRunRejectsTruncatedGzipMagicOnly(t *testing.T) {
	// A single byte, 0x1f, is enough for autoReader to commit to gzip.
	var out bytes.Buffer
	if err := run("auto", bytes.NewReader(mustHex("1f")), &out); err == nil {
		t.Fatal("expected an error decoding a truncated gzip header")
	}
}
