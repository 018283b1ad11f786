// SPDX-License-Identifier: MPL-2.0

// Package spinner draws a one-line animated spinner through a shared
// render.SyncRenderer, so other producers can repaint the same region.
package spinner

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/invowk/liveterm/internal/core/lifecycle"
	"github.com/invowk/liveterm/internal/style"
	"github.com/invowk/liveterm/pkg/render"
)

type (
	// Options configures a Spinner.
	Options struct {
		// Title is the text displayed next to the spinner.
		Title string
		// Type specifies the spinner animation type.
		Type SpinnerType
		// Interval overrides the type's default pace when positive.
		Interval time.Duration
		// Static prints plain status lines instead of animating, for output
		// that is not an interactive terminal.
		Static bool
		// Styles defaults to style.Plain().
		Styles *style.Styles
	}

	// Spinner animates "frame title" until stopped. A Spinner is single
	// use: once stopped it cannot be started again.
	Spinner struct {
		base     *lifecycle.Base
		renderer *render.SyncRenderer
		styles   *style.Styles
		frames   []string
		interval time.Duration
		static   bool

		mu    sync.Mutex
		title string
		frame int
	}
)

// New creates a Spinner drawing into r.
func New(r *render.SyncRenderer, opts Options) (*Spinner, error) {
	if err := opts.Type.Validate(); err != nil {
		return nil, err
	}
	interval := opts.Interval
	if interval <= 0 {
		interval = opts.Type.Interval()
	}
	styles := opts.Styles
	if styles == nil {
		styles = style.Plain()
	}

	return &Spinner{
		base:     lifecycle.New(),
		renderer: r,
		styles:   styles,
		frames:   opts.Type.Frames(),
		interval: interval,
		static:   opts.Static,
		title:    opts.Title,
	}, nil
}

// Start draws the first frame and begins ticking.
func (s *Spinner) Start(ctx context.Context) error {
	wctx, err := s.base.Begin(ctx)
	if err != nil {
		return err
	}

	if s.static {
		err = s.printLine(s.styles.PendingMark(), s.Title())
	} else {
		err = s.renderer.Render(s.view())
	}
	if err != nil {
		s.base.Fail(err)
		s.base.Finish()
		return fmt.Errorf("draw spinner: %w", err)
	}

	s.base.MarkRunning()
	if !s.static && s.base.IsRunning() {
		s.base.Go(func(context.Context) { s.tick(wctx) })
	}
	return nil
}

// Stop halts the animation and leaves the last frame on screen. It is safe
// to call before Start, more than once, and from several goroutines. No
// frame is drawn after Stop returns.
func (s *Spinner) Stop() {
	s.base.Halt()
	s.base.Finish()
}

// Err returns the render error that ended the animation, if any.
func (s *Spinner) Err() error {
	return s.base.LastError()
}

// Title returns the current title.
func (s *Spinner) Title() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.title
}

// SetTitle changes the title shown from the next frame on.
func (s *Spinner) SetTitle(title string) {
	s.mu.Lock()
	s.title = title
	s.mu.Unlock()
}

// Success stops the spinner and replaces it with a success line.
func (s *Spinner) Success(msg string) error {
	s.Stop()
	return s.printLine(s.styles.SuccessMark(), msg)
}

// Fail stops the spinner and replaces it with a failure line.
func (s *Spinner) Fail(msg string) error {
	s.Stop()
	return s.printLine(s.styles.FailureMark(), msg)
}

func (s *Spinner) tick(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		if ctx.Err() != nil {
			return
		}

		s.mu.Lock()
		s.frame = (s.frame + 1) % len(s.frames)
		s.mu.Unlock()

		if err := s.renderer.Render(s.view()); err != nil {
			s.base.Fail(fmt.Errorf("draw spinner: %w", err))
			return
		}
	}
}

func (s *Spinner) view() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.styles.Highlight.Render(s.frames[s.frame]) + " " + s.title
}

// printLine draws a finished line and releases the region so later output
// starts below it.
func (s *Spinner) printLine(mark, msg string) error {
	if err := s.renderer.Render(mark + " " + msg); err != nil {
		return err
	}
	s.renderer.Reset()
	return nil
}

// Run spins while action runs and reports its outcome. The action error is
// returned unchanged, joined with any error drawing the spinner.
func Run(ctx context.Context, r *render.SyncRenderer, opts Options, action func(ctx context.Context) error) error {
	s, err := New(r, opts)
	if err != nil {
		return err
	}
	if err = s.Start(ctx); err != nil {
		return err
	}

	actionErr := action(ctx)
	if actionErr != nil {
		return errors.Join(actionErr, s.Fail(fmt.Sprintf("%s: %v", opts.Title, actionErr)))
	}
	return s.Success(opts.Title)
}
