// SPDX-License-Identifier: MPL-2.0

package terminal

import (
	"context"

	"github.com/invowk/liveterm/internal/config"
	"github.com/invowk/liveterm/pkg/keystroke"
)

const (
	// DefaultWidth is used when the terminal size cannot be queried.
	DefaultWidth = 80
	// DefaultHeight is used when the terminal size cannot be queried.
	DefaultHeight = 24
)

// Terminal is what widgets need from a terminal. Any Terminal is also a
// render.Sink.
type Terminal interface {
	// Write sends content verbatim.
	Write(content string) error
	// ReadCharacter blocks for the next input character and returns false
	// once input is closed.
	ReadCharacter() (rune, bool)
	// NextByte blocks for the next raw input byte and returns false once
	// input is closed.
	NextByte() (byte, bool)
	// InRawMode runs fn with echo and line buffering disabled. The previous
	// mode is restored on every exit path, panics included.
	InRawMode(fn func() error) error
	// Environment returns the settings the terminal was created with.
	Environment() config.Environment
}

// Sizer reports the terminal dimensions in cells.
type Sizer interface {
	Size() (width, height int)
}

// Listen runs the keystroke loop on t inside a raw-mode scope. It returns
// when onKeyPress aborts, input closes, or ctx is done between keystrokes.
// Malformed UTF-8 in the input is skipped.
func Listen(ctx context.Context, t Terminal, onKeyPress func(keystroke.KeyStroke) keystroke.OnKeyPressResult) error {
	return t.InRawMode(func() error {
		return keystroke.NewDecoder(t.NextByte).Run(ctx, onKeyPress)
	})
}
