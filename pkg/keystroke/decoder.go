// SPDX-License-Identifier: MPL-2.0

package keystroke

import "context"

const (
	esc = '\x1b'

	// maxCSILength bounds the characters collected after "ESC [" for key
	// sequences before the sequence is discarded.
	maxCSILength = 16
	// maxMouseLength bounds SGR mouse sequences ("ESC [ < b ; x ; y M").
	maxMouseLength = 32
	// maxMouseParam rejects absurd coordinates.
	maxMouseParam = 9999
)

const (
	// stateIdle has no pending escape sequence.
	stateIdle decoderState = iota
	// stateEscape has seen ESC and waits for '['.
	stateEscape
	// stateCSI collects the body of an "ESC [" sequence.
	stateCSI
)

type (
	decoderState int

	// Decoder turns a byte stream into keystrokes.
	//
	// A lone ESC is resolved with one character of lookahead: if the next
	// character is not '[' (or input ends), Escape is emitted and the
	// lookahead character is classified on the following call.
	Decoder struct {
		chars     CharSource
		exhausted bool
		state     decoderState
		seq       []rune

		pending    rune
		hasPending bool

		// stray is a byte that ended a malformed UTF-8 sequence; it is
		// decoded again as the start of the next character.
		stray    byte
		hasStray bool
	}
)

// NewDecoder creates a Decoder that assembles characters from raw bytes.
// Malformed UTF-8 is skipped; the stream ends when src is exhausted.
func NewDecoder(src ByteSource) *Decoder {
	d := &Decoder{seq: make([]rune, 0, maxMouseLength)}
	pull := func() (byte, bool) {
		if d.hasStray {
			d.hasStray = false
			return d.stray, true
		}
		if d.exhausted {
			return 0, false
		}
		b, ok := src()
		if !ok {
			d.exhausted = true
		}
		return b, ok
	}
	d.chars = func() (rune, bool) {
		r, stray, hasStray, ok := decodeCharacter(pull)
		if hasStray {
			d.stray, d.hasStray = stray, true
		}
		return r, ok
	}
	return d
}

// NewCharDecoder creates a Decoder over already decoded characters. The
// first absent character ends the stream, so src must not report decode
// failures as absence; use NewDecoder for raw input.
func NewCharDecoder(src CharSource) *Decoder {
	d := &Decoder{seq: make([]rune, 0, maxMouseLength)}
	d.chars = func() (rune, bool) {
		if d.exhausted {
			return 0, false
		}
		r, ok := src()
		if !ok {
			d.exhausted = true
		}
		return r, ok
	}
	return d
}

// Next returns the next keystroke, or false once the source is exhausted.
func (d *Decoder) Next() (KeyStroke, bool) {
	for {
		r, ok := d.readRune()
		if !ok {
			// End of input or malformed UTF-8: either way a pending ESC
			// stands alone and a partial sequence is dropped.
			if d.state == stateEscape {
				d.state = stateIdle
				return Key(Escape), true
			}
			d.reset()
			if d.exhausted {
				return KeyStroke{}, false
			}
			continue
		}

		switch d.state {
		case stateIdle:
			if r == esc {
				d.state = stateEscape
				continue
			}
			if ks, ok := classify(r); ok {
				return ks, true
			}
		case stateEscape:
			if r == '[' {
				d.state = stateCSI
				d.seq = d.seq[:0]
				continue
			}
			d.state = stateIdle
			d.unread(r)
			return Key(Escape), true
		case stateCSI:
			if ks, ok := d.collect(r); ok {
				return ks, true
			}
		}
	}
}

// collect appends r to the CSI body and reports a keystroke once a known
// sequence completes.
func (d *Decoder) collect(r rune) (KeyStroke, bool) {
	d.seq = append(d.seq, r)

	if d.seq[0] == '<' {
		switch {
		case len(d.seq) == 1:
			// "ESC [ <" opens an SGR mouse report
			return KeyStroke{}, false
		case r == 'M' || r == 'm':
			ks, ok := parseMouse(d.seq[1:len(d.seq)-1], r == 'm')
			d.reset()
			return ks, ok
		case (isDigit(r) || r == ';') && len(d.seq) < maxMouseLength:
			return KeyStroke{}, false
		default:
			d.abandon(r)
			return KeyStroke{}, false
		}
	}

	if len(d.seq) == 1 {
		if k, ok := arrowKinds[r]; ok {
			d.reset()
			return Key(k), true
		}
	}
	switch {
	case r >= 0x40 && r <= 0x7E:
		// well-formed but unknown sequence
		d.reset()
	case r >= 0x20 && r <= 0x3F && len(d.seq) < maxCSILength:
	default:
		d.abandon(r)
	}
	return KeyStroke{}, false
}

// abandon discards the sequence in progress. A fresh ESC that interrupted
// it is kept so the next sequence is not lost.
func (d *Decoder) abandon(r rune) {
	d.reset()
	if r == esc {
		d.unread(r)
	}
}

func (d *Decoder) reset() {
	d.state = stateIdle
	d.seq = d.seq[:0]
}

func (d *Decoder) unread(r rune) {
	d.pending = r
	d.hasPending = true
}

func (d *Decoder) readRune() (rune, bool) {
	if d.hasPending {
		d.hasPending = false
		return d.pending, true
	}
	return d.chars()
}

var arrowKinds = map[rune]Kind{
	'A': ArrowUp,
	'B': ArrowDown,
	'C': ArrowRight,
	'D': ArrowLeft,
}

// classify maps a character outside an escape sequence. Unmapped control
// characters are dropped.
func classify(r rune) (KeyStroke, bool) {
	switch r {
	case '\n', '\r':
		return Key(Return), true
	case 0x7F:
		return Key(Delete), true
	case 0x08:
		return Key(Backspace), true
	case '\t':
		return Key(Tab), true
	case 0x03:
		return Key(Interrupt), true
	}
	if r < 0x20 || (r >= 0x80 && r < 0xA0) {
		return KeyStroke{}, false
	}
	return Char(r), true
}

// parseMouse decodes the "b;x;y" body of an SGR mouse report. Modifier bits
// are ignored; wheel and middle-button reports are dropped.
func parseMouse(params []rune, release bool) (KeyStroke, bool) {
	var fields [3]int
	field, digits := 0, 0
	for _, r := range params {
		if r == ';' {
			if digits == 0 || field == 2 {
				return KeyStroke{}, false
			}
			field++
			digits = 0
			continue
		}
		fields[field] = fields[field]*10 + int(r-'0')
		digits++
		if fields[field] > maxMouseParam {
			return KeyStroke{}, false
		}
	}
	if field != 2 || digits == 0 {
		return KeyStroke{}, false
	}

	code, column, row := fields[0], fields[1], fields[2]
	if code&64 != 0 {
		return KeyStroke{}, false
	}
	code &^= 4 | 8 | 16
	button := code & 3
	motion := code&32 != 0

	var kind Kind
	switch {
	case release && button == 0:
		kind = LeftMouseUp
	case release && button == 2:
		kind = RightMouseUp
	case release:
		return KeyStroke{}, false
	case motion && button == 3:
		kind = MouseMoved
	case motion && button == 0:
		kind = LeftMouseDrag
	case motion && button == 2:
		kind = RightMouseDrag
	case button == 0:
		kind = LeftMouseDown
	case button == 2:
		kind = RightMouseDown
	default:
		return KeyStroke{}, false
	}
	return Mouse(kind, row, column), true
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

// Run hands each keystroke to onKeyPress until it returns Abort, the
// stream ends, or ctx is done. The context is checked between keystrokes; a
// blocked read is not interrupted.
func (d *Decoder) Run(ctx context.Context, onKeyPress func(KeyStroke) OnKeyPressResult) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		ks, ok := d.Next()
		if !ok {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if onKeyPress(ks) == Abort {
			return nil
		}
	}
}

// Listen decodes keystrokes from src and hands each to onKeyPress until it
// returns Abort or the source is exhausted.
func Listen(src ByteSource, onKeyPress func(KeyStroke) OnKeyPressResult) {
	_ = NewDecoder(src).Run(context.Background(), onKeyPress)
}

// ListenContext is Listen that also stops once ctx is done.
func ListenContext(ctx context.Context, src ByteSource, onKeyPress func(KeyStroke) OnKeyPressResult) error {
	return NewDecoder(src).Run(ctx, onKeyPress)
}
