// SPDX-License-Identifier: MPL-2.0

package terminal

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/invowk/liveterm/internal/config"
	"github.com/invowk/liveterm/internal/issue"
	"github.com/invowk/liveterm/pkg/keystroke"

	"golang.org/x/term"
)

// ErrNotTerminal is returned when raw mode is requested on a file that is
// not a terminal.
var ErrNotTerminal = errors.New("not a terminal")

// TTY is a Terminal backed by real file descriptors.
type TTY struct {
	in  *os.File
	out *os.File
	env config.Environment
	src keystroke.ByteSource

	writeMu sync.Mutex

	rawMu    sync.Mutex
	rawDepth int
	state    *term.State
}

// NewTTY wraps in and out. They may be the same file.
func NewTTY(in, out *os.File, env config.Environment) *TTY {
	return &TTY{
		in:  in,
		out: out,
		env: env,
		src: keystroke.ReaderSource(in),
	}
}

// IsTerminal reports whether f refers to a terminal.
func IsTerminal(f *os.File) bool {
	return f != nil && term.IsTerminal(int(f.Fd()))
}

func (t *TTY) Environment() config.Environment {
	return t.env
}

// Write sends content to the output file in one call. Inside raw mode,
// output post-processing is off, so "\n" is expanded to "\r\n" to keep
// lines starting at column 1.
func (t *TTY) Write(content string) error {
	if t.Raw() {
		content = strings.ReplaceAll(content, "\n", "\r\n")
	}
	t.writeMu.Lock()
	defer t.writeMu.Unlock()
	if _, err := io.WriteString(t.out, content); err != nil {
		return fmt.Errorf("terminal write: %w", err)
	}
	return nil
}

func (t *TTY) ReadCharacter() (rune, bool) {
	return keystroke.ReadCharacter(t.src)
}

func (t *TTY) NextByte() (byte, bool) {
	return t.src()
}

// Raw reports whether a raw-mode scope is active.
func (t *TTY) Raw() bool {
	t.rawMu.Lock()
	defer t.rawMu.Unlock()
	return t.rawDepth > 0
}

// InRawMode enables raw mode on the input file for the duration of fn.
// Nested calls share the outer scope; only the outermost one restores.
func (t *TTY) InRawMode(fn func() error) (err error) {
	t.rawMu.Lock()
	if t.rawDepth == 0 {
		fd := int(t.in.Fd())
		if !term.IsTerminal(fd) {
			t.rawMu.Unlock()
			return issue.NewErrorContext().
				WithOperation("enter raw mode").
				WithResource(t.in.Name()).
				WithIssue(issue.NotATerminalId).
				WithSuggestion("Run the command from an interactive terminal").
				Wrap(ErrNotTerminal).
				BuildError()
		}
		state, rawErr := term.MakeRaw(fd)
		if rawErr != nil {
			t.rawMu.Unlock()
			return fmt.Errorf("enter raw mode: %w", rawErr)
		}
		t.state = state
	}
	t.rawDepth++
	t.rawMu.Unlock()

	defer func() {
		t.rawMu.Lock()
		defer t.rawMu.Unlock()
		t.rawDepth--
		if t.rawDepth > 0 {
			return
		}
		if restoreErr := term.Restore(int(t.in.Fd()), t.state); restoreErr != nil && err == nil {
			err = fmt.Errorf("restore terminal mode: %w", restoreErr)
		}
		t.state = nil
	}()

	return fn()
}

// Size returns the output dimensions, or 80x24 when they are unknown.
func (t *TTY) Size() (width, height int) {
	w, h, err := term.GetSize(int(t.out.Fd()))
	if err != nil || w <= 0 || h <= 0 {
		return DefaultWidth, DefaultHeight
	}
	return w, h
}
