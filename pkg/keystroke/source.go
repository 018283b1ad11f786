// SPDX-License-Identifier: MPL-2.0

package keystroke

import (
	"bufio"
	"io"
)

type (
	// ByteSource returns the next input byte, or false once input is exhausted.
	ByteSource func() (byte, bool)

	// CharSource returns the next decoded character, or false once input is
	// exhausted.
	CharSource func() (rune, bool)
)

// ReaderSource pulls bytes from r. Any read error, including io.EOF, ends
// the source.
func ReaderSource(r io.Reader) ByteSource {
	br, ok := r.(io.ByteReader)
	if !ok {
		br = bufio.NewReaderSize(r, 64)
	}
	return func() (byte, bool) {
		b, err := br.ReadByte()
		if err != nil {
			return 0, false
		}
		return b, true
	}
}

// BytesSource replays data and then reports exhaustion.
func BytesSource(data []byte) ByteSource {
	i := 0
	return func() (byte, bool) {
		if i >= len(data) {
			return 0, false
		}
		b := data[i]
		i++
		return b, true
	}
}

// StringSource replays the bytes of s.
func StringSource(s string) ByteSource {
	return BytesSource([]byte(s))
}

// RunesSource replays runes as a CharSource.
func RunesSource(runes []rune) CharSource {
	i := 0
	return func() (rune, bool) {
		if i >= len(runes) {
			return 0, false
		}
		r := runes[i]
		i++
		return r, true
	}
}
