package flate

// window is the 32 KiB circular history buffer of spec.md §4.3. It holds
// output produced by earlier Inflate calls (and any preset dictionary) so
// that a back-reference can reach before the start of the current dst
// span. It never aliases dst: everything in it is already-finalized
// output, appended by write at the end of each Inflate call with the
// bytes that call produced — see Inflater.Inflate.
//
// Grounded on original_source/inflator.c's updatewindow/copybytes, with
// the pointer-offset arithmetic those use translated into explicit
// modular indexing now that the buffer is a fixed-size Go array instead
// of a raw pointer.
type window struct {
	buf   [maxHistSize]byte
	end   int // next write position, 0 <= end < maxHistSize
	count int // valid history bytes, 0 <= count <= maxHistSize
}

// reset discards all history.
func (w *window) reset() {
	w.end = 0
	w.count = 0
}

// histSize reports how many bytes of history are available.
func (w *window) histSize() int {
	return w.count
}

// write appends produced — output written since the window was last
// synced — evicting the oldest bytes once the total exceeds maxHistSize.
func (w *window) write(produced []byte) {
	total := len(produced)
	if total == 0 {
		return
	}
	if total > maxHistSize {
		produced = produced[total-maxHistSize:]
		total = maxHistSize
	}

	w.count = minInt(w.count+total, maxHistSize)

	maxrun := maxHistSize - w.end
	if total < maxrun {
		maxrun = total
	}
	copy(w.buf[w.end:], produced[:maxrun])

	rem := total - maxrun
	if rem > 0 {
		copy(w.buf[:], produced[maxrun:])
		w.end = rem
	} else {
		w.end += maxrun
		if w.end == maxHistSize {
			w.end = 0
		}
	}
}

// installDictionary seeds the window with a preset dictionary (spec.md
// §3's Lifecycle invariant: "installation copies up to 32 KiB ... into
// the window"), as though it had just been produced as output.
func (w *window) installDictionary(dict []byte) {
	w.reset()
	w.write(dict)
}

// copyOut copies count bytes of history into dst, starting offset bytes
// before the current write cursor and reading forward from there. The
// caller must ensure offset <= histSize() and count <= offset: offset
// fixes *where in history* the reference starts, independent of how many
// of those bytes are actually wanted, so a copy truncated by dst room
// (count < offset) still reads from the correct position instead of
// sliding toward the most recent history.
func (w *window) copyOut(dst []byte, offset, count int) {
	srcPos := w.end - offset
	if srcPos < 0 {
		srcPos += maxHistSize
	}
	for done := 0; done < count; {
		run := maxHistSize - srcPos
		if run > count-done {
			run = count - done
		}
		copy(dst[done:done+run], w.buf[srcPos:srcPos+run])
		done += run
		srcPos = 0
	}
}

// resolveMatch copies a length-byte back-reference at distance into
// dst[writePos:], pulling from w whatever portion of the reference
// reaches before dst's start, and resolving the rest as a (possibly
// overlapping) copy within dst itself. It returns the new write cursor,
// or ErrFarOffset if distance reaches further back than any history this
// decoder has.
//
// The split mirrors original_source/inflator.c's copybytes: that
// function's outer loop re-evaluates "is the reference still partly in
// the window" on every iteration, which always resolves to "no" after at
// most one window-sourced chunk, because consuming that chunk advances
// the write cursor by exactly enough to make the reference look
// self-contained within dst from then on.
func resolveMatch(dst []byte, writePos, distance, length int, w *window) (int, error) {
	if distance > writePos {
		offset := distance - writePos
		if offset > w.histSize() {
			return writePos, ErrFarOffset
		}
		n := offset
		if n > length {
			n = length
		}
		w.copyOut(dst[writePos:writePos+n], offset, n)
		writePos += n
		length -= n
	}

	// Overlapping self-copy within dst; byte-at-a-time since distance may
	// be smaller than length (RFC 1951 references routinely overlap their
	// own source, e.g. run-length encoding a repeated byte).
	src := writePos - distance
	for i := 0; i < length; i++ {
		dst[writePos+i] = dst[src+i]
	}
	return writePos + length, nil
}
