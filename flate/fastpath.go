package flate

// fastTargetLeft/fastSourceLeft are the headroom guards of spec.md
// §4.4.3: decodeBlockFast only runs while dst has at least this many
// bytes of room and src has at least this many bytes buffered, so that it
// never needs a suspend check inside the hot loop. Grounded on
// original_source/inflator.c's FASTTGTLEFT/FASTSRCLEFT (the 64-bit-word
// values, since DESIGN.md's Open Question #3 resolved the reservoir to
// always 64-bit).
const (
	fastTargetLeft = 274
	fastSourceLeft = 14
)

// decodeBlockFast is the accelerated inner loop for sub 0 of decodeBlock:
// as long as both guards hold, it decodes literal/length/distance symbols
// back-to-back without re-checking dst/src room after every symbol,
// returning control to the caller's ordinary decodeBlock the moment
// either guard would be violated. It reuses decodeSymbol and resolveMatch
// rather than re-deriving their word-wide bit-buffer and copy tricks by
// hand — original_source/inflator.c's decodefast inlines those for speed,
// but this module's equivalent speedup comes from skipping the suspend
// bookkeeping every symbol needs in the slow path, not from bypassing the
// table lookup or copy routines themselves.
//
// Only called from decodeBlock's sub 0, so z.sub is always 0 on entry;
// it never needs to save progress mid-symbol because it never suspends
// mid-symbol — it only ever stops between symbols.
//
// done reports whether the block's end-of-block symbol was reached (the
// caller should treat this exactly like decodeBlock returning ok=true).
// If done is false and ok is true, a guard stopped the loop without an
// error and the caller should fall through to its normal per-symbol loop
// to make further progress (possibly suspending there).
func (z *Inflater) decodeBlockFast(dst []byte, dstPos *int) (done, ok bool, res Result, err error) {
	for len(dst)-*dstPos >= fastTargetLeft && z.r.avail() >= fastSourceLeft {
		e, symOK, symRes, symErr := z.decodeSymbol(z.litTable, litRootBits)
		if !symOK {
			return false, false, symRes, symErr
		}
		switch {
		case e.tag == tagLiteral:
			dst[*dstPos] = byte(e.info)
			*dstPos++
			continue
		case e.tag == tagEndOfBlock:
			return true, true, ResultOK, nil
		case e.tag == tagInvalid, e.tag > maxExtraBits:
			return false, false, ResultOK, ErrCorrupt
		}

		length := int(e.info)
		if e.tag > 0 {
			z.r.tryEnsure(uint(e.tag))
			length += int(z.r.readBits(uint(e.tag)))
		}

		e, symOK, symRes, symErr = z.decodeSymbol(z.distTable, distRootBits)
		if !symOK {
			return false, false, symRes, symErr
		}
		if e.tag == tagInvalid {
			return false, false, ResultOK, ErrCorrupt
		}
		distance := int(e.info)
		if e.tag > 0 {
			z.r.tryEnsure(uint(e.tag))
			distance += int(z.r.readBits(uint(e.tag)))
		}

		end, mErr := resolveMatch(dst, *dstPos, distance, length, &z.win)
		if mErr != nil {
			return false, false, ResultOK, mErr
		}
		*dstPos = end
	}
	return false, true, ResultOK, nil
}
