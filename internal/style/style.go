// SPDX-License-Identifier: MPL-2.0

// Package style holds the fixed lipgloss palette used by liveterm widgets.
// Styles are bound to a renderer whose color profile follows the resolved
// Environment, so disabling color yields plain text.
package style

import (
	"io"

	"github.com/invowk/liveterm/internal/config"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Palette, tuned for dark backgrounds.
const (
	ColorPrimary   = lipgloss.Color("#7C3AED")
	ColorMuted     = lipgloss.Color("#6B7280")
	ColorSuccess   = lipgloss.Color("#10B981")
	ColorError     = lipgloss.Color("#EF4444")
	ColorWarning   = lipgloss.Color("#F59E0B")
	ColorHighlight = lipgloss.Color("#3B82F6")
)

// Status glyphs.
const (
	GlyphSuccess = "✔"
	GlyphFailure = "✘"
	GlyphPending = "•"
)

// Styles is the set of styles a widget draws with.
type Styles struct {
	Title     lipgloss.Style
	Muted     lipgloss.Style
	Success   lipgloss.Style
	Error     lipgloss.Style
	Warning   lipgloss.Style
	Highlight lipgloss.Style
}

// Profile returns the color profile for env: 256 colors when color is
// enabled, plain ASCII otherwise.
func Profile(env config.Environment) termenv.Profile {
	if env.Colored {
		return termenv.ANSI256
	}
	return termenv.Ascii
}

// New builds Styles rendering for w under env.
func New(w io.Writer, env config.Environment) *Styles {
	r := lipgloss.NewRenderer(w)
	r.SetColorProfile(Profile(env))

	return &Styles{
		Title:     r.NewStyle().Bold(true).Foreground(ColorPrimary),
		Muted:     r.NewStyle().Foreground(ColorMuted),
		Success:   r.NewStyle().Foreground(ColorSuccess),
		Error:     r.NewStyle().Bold(true).Foreground(ColorError),
		Warning:   r.NewStyle().Foreground(ColorWarning),
		Highlight: r.NewStyle().Foreground(ColorHighlight),
	}
}

// Plain returns Styles that never emit escape codes.
func Plain() *Styles {
	return New(io.Discard, config.Environment{})
}

// SuccessMark renders the success glyph.
func (s *Styles) SuccessMark() string { return s.Success.Render(GlyphSuccess) }

// FailureMark renders the failure glyph.
func (s *Styles) FailureMark() string { return s.Error.Render(GlyphFailure) }

// PendingMark renders the in-progress glyph.
func (s *Styles) PendingMark() string { return s.Highlight.Render(GlyphPending) }
