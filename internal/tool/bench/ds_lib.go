// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package bench

import (
	"io"

	"github.com/Jpn666/deflate/flate"
)

func init() {
	// This module implements only a decoder, so "ds" never appears in the
	// encoder or ratio suites — only in the decode-rate suite, where "std"
	// or "kp" supplies the reference-compressed input.
	RegisterDecoder(FormatFlate, "ds",
		func(r io.Reader) io.ReadCloser {
			return flate.NewReader(r)
		})
}
