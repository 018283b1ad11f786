// SPDX-License-Identifier: MPL-2.0

// Package liveregion shows the progress of several concurrent tasks as one
// live block: each task is a section with a status glyph, a title and the
// last few lines of its output. Finished sections collapse to their title.
package liveregion

import (
	"errors"
	"strings"
	"sync"

	"github.com/invowk/liveterm/internal/style"
	"github.com/invowk/liveterm/pkg/render"

	"github.com/mattn/go-runewidth"
)

const (
	// DefaultTail is the number of output lines shown per running section.
	DefaultTail = 3

	indent   = "  "
	ellipsis = "…"
)

// ErrRegionClosed is returned when a closed region is updated.
var ErrRegionClosed = errors.New("live region closed")

type (
	// Options configures a Region.
	Options struct {
		// Tail is the number of output lines kept per section (default 3).
		Tail int
		// Width truncates every line to this many cells; 0 disables it.
		Width int
		// Styles defaults to style.Plain().
		Styles *style.Styles
	}

	// Region owns a set of sections and repaints all of them on every
	// update. It is safe for concurrent use.
	Region struct {
		renderer *render.SyncRenderer
		styles   *style.Styles
		tail     int
		width    int

		mu       sync.Mutex
		sections []*Section
		closed   bool
	}

	// Section is one task inside a Region. Its methods may be called from
	// any goroutine.
	Section struct {
		region *Region
		title  string

		lines    []string
		finished bool
		err      error
	}
)

// New creates a Region drawing through r.
func New(r *render.SyncRenderer, opts Options) *Region {
	tail := opts.Tail
	if tail <= 0 {
		tail = DefaultTail
	}
	styles := opts.Styles
	if styles == nil {
		styles = style.Plain()
	}
	return &Region{
		renderer: r,
		styles:   styles,
		tail:     tail,
		width:    max(opts.Width, 0),
	}
}

// Add appends a running section and repaints.
func (r *Region) Add(title string) (*Section, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil, ErrRegionClosed
	}
	s := &Section{region: r, title: title}
	r.sections = append(r.sections, s)
	return s, r.repaintLocked()
}

// View returns the text the region currently draws.
func (r *Region) View() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.viewLocked()
}

// Close draws the final state and releases the screen area, so output
// written afterwards appears below the region. Further updates fail with
// ErrRegionClosed.
func (r *Region) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true
	err := r.repaintLocked()
	r.renderer.Reset()
	return err
}

// Failed reports how many sections finished with an error.
func (r *Region) Failed() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, s := range r.sections {
		if s.finished && s.err != nil {
			n++
		}
	}
	return n
}

// Append adds output to the section. Text containing newlines becomes
// several lines; only the last Tail lines are kept.
func (s *Section) Append(text string) error {
	r := s.region
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrRegionClosed
	}
	for line := range strings.SplitSeq(strings.TrimSuffix(text, "\n"), "\n") {
		s.lines = append(s.lines, strings.TrimSuffix(line, "\r"))
	}
	if extra := len(s.lines) - r.tail; extra > 0 {
		s.lines = append(s.lines[:0], s.lines[extra:]...)
	}
	return r.repaintLocked()
}

// Done marks the section finished, failed when err is non-nil, and
// collapses it. Only the first call has an effect.
func (s *Section) Done(err error) error {
	r := s.region
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrRegionClosed
	}
	if s.finished {
		return nil
	}
	s.finished = true
	s.err = err
	s.lines = nil
	return r.repaintLocked()
}

// Title returns the section title.
func (s *Section) Title() string {
	return s.title
}

// repaintLocked renders while r.mu is held so views reach the terminal in
// the order the updates happened.
func (r *Region) repaintLocked() error {
	return r.renderer.Render(r.viewLocked())
}

func (r *Region) viewLocked() string {
	var b strings.Builder
	for i, s := range r.sections {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(r.header(s))
		if s.finished {
			continue
		}
		for _, line := range s.lines {
			b.WriteByte('\n')
			b.WriteString(r.styles.Muted.Render(indent + r.truncate(line, runewidth.StringWidth(indent))))
		}
	}
	return b.String()
}

func (r *Region) header(s *Section) string {
	mark := r.styles.PendingMark()
	title := s.title
	switch {
	case s.finished && s.err != nil:
		mark = r.styles.FailureMark()
		title += ": " + s.err.Error()
	case s.finished:
		mark = r.styles.SuccessMark()
	}
	// The mark is one cell wide and followed by a space.
	return mark + " " + r.truncate(title, 2)
}

// truncate shortens line so that it fits after used cells.
func (r *Region) truncate(line string, used int) string {
	if r.width == 0 {
		return line
	}
	return runewidth.Truncate(line, max(r.width-used, 0), ellipsis)
}
