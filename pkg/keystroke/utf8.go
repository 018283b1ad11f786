// SPDX-License-Identifier: MPL-2.0

package keystroke

import "unicode/utf8"

// sequenceLength returns the encoded length announced by a UTF-8 lead byte,
// or 0 for bytes that can never start a valid sequence.
func sequenceLength(lead byte) int {
	switch {
	case lead < 0x80:
		return 1
	case lead < 0xC0:
		// bare continuation byte
		return 0
	case lead < 0xE0:
		return 2
	case lead < 0xF0:
		return 3
	case lead <= 0xF4:
		return 4
	default:
		return 0
	}
}

// ReadCharacter pulls one UTF-8 encoded character from next.
//
// It returns false when the source is empty, when it runs dry in the middle
// of a sequence, or when the assembled bytes are not valid UTF-8 (bad
// continuation bytes, overlong forms, surrogates, values above U+10FFFF).
// A byte that is not a continuation byte ends the sequence early and is
// consumed with it; Decoder reads such a byte again as the start of the
// next character.
func ReadCharacter(next ByteSource) (rune, bool) {
	r, _, _, ok := decodeCharacter(next)
	return r, ok
}

// decodeCharacter is ReadCharacter that also returns the byte that cut a
// multi-byte sequence short, if any.
func decodeCharacter(next ByteSource) (r rune, stray byte, hasStray, ok bool) {
	lead, ok := next()
	if !ok {
		return 0, 0, false, false
	}
	n := sequenceLength(lead)
	switch n {
	case 0:
		return 0, 0, false, false
	case 1:
		return rune(lead), 0, false, true
	}

	var buf [utf8.UTFMax]byte
	buf[0] = lead
	for i := 1; i < n; i++ {
		b, ok := next()
		if !ok {
			return 0, 0, false, false
		}
		if b&0xC0 != 0x80 {
			return 0, b, true, false
		}
		buf[i] = b
	}

	r, size := utf8.DecodeRune(buf[:n])
	if r == utf8.RuneError && size != n {
		return 0, 0, false, false
	}
	return r, 0, false, true
}
