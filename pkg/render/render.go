// SPDX-License-Identifier: MPL-2.0

package render

import (
	"slices"
	"strings"
)

const (
	// CursorUp moves the cursor up one line.
	CursorUp = "\x1b[1A"
	// CursorToColumnOne moves the cursor to the beginning of the line.
	CursorToColumnOne = "\x1b[1G"
	// EraseLine erases the whole line under the cursor.
	EraseLine = "\x1b[2K"
)

type (
	// Renderer repaints one live region. It is not safe for concurrent use;
	// see SyncRenderer.
	Renderer struct {
		lineErase bool
		// lines is the block drawn by the last successful Render.
		lines []string
	}

	// Option configures a Renderer.
	Option func(*Renderer)
)

// WithLineErase makes the erase step clear every previously drawn line with
// EraseLine. Without it only the rows the new frame will not cover are
// cleared, so use it when a new frame can be narrower than the previous one.
func WithLineErase() Option {
	return func(r *Renderer) {
		r.lineErase = true
	}
}

// New creates a Renderer with nothing drawn yet.
func New(opts ...Option) *Renderer {
	r := &Renderer{}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render erases the previously drawn block and writes content in its place.
// A sink error aborts the render and is returned as-is; the remembered block
// is only replaced once every write succeeded.
func (r *Renderer) Render(content string, sink Sink) error {
	lines := SplitLines(content)
	if err := r.erase(sink, len(lines)); err != nil {
		return err
	}
	for _, line := range lines {
		if err := sink.Write(line + "\n"); err != nil {
			return err
		}
	}
	r.lines = lines
	return nil
}

// Lines returns a copy of the block drawn by the last render.
func (r *Renderer) Lines() []string {
	return slices.Clone(r.lines)
}

// Reset forgets the drawn block, leaving it on screen. The next Render draws
// below it instead of over it.
func (r *Renderer) Reset() {
	r.lines = nil
}

// erase walks the cursor back over the previous block. The loop runs one
// more time than there are lines so the cursor always ends above the first
// drawn line. At step i the cursor sits on row n-i of the old block, so the
// steps 1..n-keep land on rows a frame of keep lines leaves stale.
func (r *Renderer) erase(sink Sink, keep int) error {
	n := len(r.lines)
	for i := range n + 1 {
		if r.lineErase || (i >= 1 && i <= n-keep) {
			if err := sink.Write(EraseLine); err != nil {
				return err
			}
		}
		if i < n {
			if err := sink.Write(CursorUp); err != nil {
				return err
			}
		}
	}
	if n > 0 || r.lineErase {
		return sink.Write(CursorToColumnOne)
	}
	return nil
}

// SplitLines splits content on newlines. Only the empty fragment after a
// trailing newline is dropped, so "a\n" is one line and "" is none.
func SplitLines(content string) []string {
	if content == "" {
		return nil
	}
	lines := strings.Split(content, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
