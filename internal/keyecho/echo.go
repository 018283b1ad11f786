// SPDX-License-Identifier: MPL-2.0

// Package keyecho renders the most recent keystrokes as a live block. It is
// the widget behind "liveterm keys" and every "liveterm serve" session.
package keyecho

import (
	"fmt"
	"strings"
	"sync"

	"github.com/invowk/liveterm/internal/style"
	"github.com/invowk/liveterm/pkg/keystroke"
	"github.com/invowk/liveterm/pkg/render"
)

// DefaultHistory is how many keystrokes are shown.
const DefaultHistory = 5

type (
	// Options configures an Echo.
	Options struct {
		// History is the number of keystrokes kept (default 5).
		History int
		// Styles defaults to style.Plain().
		Styles *style.Styles
	}

	// Echo keeps the last keystrokes and repaints them on every key press.
	// OnKeyPress and Resize may be called from different goroutines.
	Echo struct {
		renderer *render.SyncRenderer
		styles   *style.Styles
		history  int

		mu      sync.Mutex
		strokes []keystroke.KeyStroke
		total   int
		width   int
		height  int
		err     error
	}
)

// New creates an Echo drawing through r.
func New(r *render.SyncRenderer, opts Options) *Echo {
	history := opts.History
	if history <= 0 {
		history = DefaultHistory
	}
	styles := opts.Styles
	if styles == nil {
		styles = style.Plain()
	}
	return &Echo{renderer: r, styles: styles, history: history}
}

// Start draws the empty widget.
func (e *Echo) Start() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.repaintLocked()
}

// OnKeyPress records ks and repaints. It aborts on 'q', ctrl-c, or when the
// repaint fails; the failure is kept for Err.
func (e *Echo) OnKeyPress(ks keystroke.KeyStroke) keystroke.OnKeyPressResult {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.total++
	e.strokes = append(e.strokes, ks)
	if extra := len(e.strokes) - e.history; extra > 0 {
		e.strokes = append(e.strokes[:0], e.strokes[extra:]...)
	}
	if err := e.repaintLocked(); err != nil {
		e.err = err
		return keystroke.Abort
	}
	if IsQuit(ks) {
		return keystroke.Abort
	}
	return keystroke.Continue
}

// Resize records the window size shown in the header and repaints.
func (e *Echo) Resize(width, height int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.width, e.height = width, height
	return e.repaintLocked()
}

// Err returns the render error that stopped the widget, if any.
func (e *Echo) Err() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.err
}

// Total returns the number of keystrokes seen.
func (e *Echo) Total() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.total
}

// View returns the block the widget draws.
func (e *Echo) View() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.viewLocked()
}

// IsQuit reports whether ks ends an echo session.
func IsQuit(ks keystroke.KeyStroke) bool {
	return ks.Kind == keystroke.Interrupt || (ks.Kind == keystroke.Printable && ks.Char == 'q')
}

func (e *Echo) repaintLocked() error {
	return e.renderer.Render(e.viewLocked())
}

func (e *Echo) viewLocked() string {
	var b strings.Builder
	header := fmt.Sprintf("keystrokes: %d", e.total)
	if e.width > 0 {
		header += fmt.Sprintf("  window: %dx%d", e.width, e.height)
	}
	b.WriteString(e.styles.Title.Render(header))
	b.WriteString("\n")
	b.WriteString(e.styles.Muted.Render("press q or ctrl-c to quit"))

	for i := len(e.strokes) - 1; i >= 0; i-- {
		b.WriteString("\n")
		if i == len(e.strokes)-1 {
			b.WriteString(e.styles.Highlight.Render("> " + e.strokes[i].String()))
			continue
		}
		b.WriteString("  " + e.strokes[i].String())
	}
	return b.String()
}
