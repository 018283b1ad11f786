// SPDX-License-Identifier: MPL-2.0

package keystroke

import "fmt"

const (
	// Printable is a printable character; KeyStroke.Char holds it.
	Printable Kind = iota
	// Return is the enter key (LF or CR).
	Return
	// Backspace is 0x08.
	Backspace
	// Delete is 0x7F, which most terminals send for the backspace key.
	Delete
	// Escape is a lone ESC.
	Escape
	// Tab is 0x09.
	Tab
	// Interrupt is Ctrl-C (0x03). Raw mode delivers it as input instead of a signal.
	Interrupt
	// ArrowUp is ESC [ A.
	ArrowUp
	// ArrowDown is ESC [ B.
	ArrowDown
	// ArrowRight is ESC [ C.
	ArrowRight
	// ArrowLeft is ESC [ D.
	ArrowLeft
	// MouseMoved is pointer motion with no button held.
	MouseMoved
	// LeftMouseDown is a left button press.
	LeftMouseDown
	// LeftMouseUp is a left button release.
	LeftMouseUp
	// LeftMouseDrag is motion with the left button held.
	LeftMouseDrag
	// RightMouseDown is a right button press.
	RightMouseDown
	// RightMouseUp is a right button release.
	RightMouseUp
	// RightMouseDrag is motion with the right button held.
	RightMouseDrag
)

const (
	// Continue keeps the listen loop running.
	Continue OnKeyPressResult = iota
	// Abort stops the listen loop after the current keystroke.
	Abort
)

type (
	// Kind identifies the variant of a KeyStroke.
	Kind int

	// TerminalPosition is a 1-based cell position reported by mouse events.
	TerminalPosition struct {
		Row    int
		Column int
	}

	// KeyStroke is one decoded input event. Char is set for Printable,
	// Position for mouse kinds.
	KeyStroke struct {
		Kind     Kind
		Char     rune
		Position TerminalPosition
	}

	// OnKeyPressResult tells the listen loop whether to keep going.
	OnKeyPressResult int
)

// Char returns a Printable keystroke for r.
func Char(r rune) KeyStroke {
	return KeyStroke{Kind: Printable, Char: r}
}

// Key returns a keystroke of a kind that carries no payload.
func Key(k Kind) KeyStroke {
	return KeyStroke{Kind: k}
}

// Mouse returns a mouse keystroke at row, column.
func Mouse(k Kind, row, column int) KeyStroke {
	return KeyStroke{Kind: k, Position: TerminalPosition{Row: row, Column: column}}
}

// IsMouse reports whether the kind is a mouse event.
func (k Kind) IsMouse() bool {
	return k >= MouseMoved && k <= RightMouseDrag
}

// String returns the name of the kind.
func (k Kind) String() string {
	switch k {
	case Printable:
		return "printable"
	case Return:
		return "return"
	case Backspace:
		return "backspace"
	case Delete:
		return "delete"
	case Escape:
		return "escape"
	case Tab:
		return "tab"
	case Interrupt:
		return "interrupt"
	case ArrowUp:
		return "up"
	case ArrowDown:
		return "down"
	case ArrowRight:
		return "right"
	case ArrowLeft:
		return "left"
	case MouseMoved:
		return "mouse-moved"
	case LeftMouseDown:
		return "left-mouse-down"
	case LeftMouseUp:
		return "left-mouse-up"
	case LeftMouseDrag:
		return "left-mouse-drag"
	case RightMouseDown:
		return "right-mouse-down"
	case RightMouseUp:
		return "right-mouse-up"
	case RightMouseDrag:
		return "right-mouse-drag"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// String renders the keystroke for logs and demos.
func (k KeyStroke) String() string {
	switch {
	case k.Kind == Printable:
		return fmt.Sprintf("printable(%q)", k.Char)
	case k.Kind.IsMouse():
		return fmt.Sprintf("%s(row:%d,column:%d)", k.Kind, k.Position.Row, k.Position.Column)
	default:
		return k.Kind.String()
	}
}
