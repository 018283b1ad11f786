// SPDX-License-Identifier: MPL-2.0

package terminal

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/invowk/liveterm/internal/config"
	"github.com/invowk/liveterm/pkg/keystroke"
	"github.com/invowk/liveterm/pkg/render"
)

var (
	_ Terminal    = (*TTY)(nil)
	_ Terminal    = (*Virtual)(nil)
	_ render.Sink = (*Virtual)(nil)
	_ Sizer       = (*TTY)(nil)
	_ Sizer       = (*Virtual)(nil)
)

func TestListen_Virtual(t *testing.T) {
	t.Parallel()

	v := NewVirtual("hi\x1b[A\x1b[<0;3;7Mq!", config.Environment{})

	var got []keystroke.KeyStroke
	err := Listen(context.Background(), v, func(ks keystroke.KeyStroke) keystroke.OnKeyPressResult {
		if !v.Raw() {
			t.Error("callback should run inside the raw-mode scope")
		}
		got = append(got, ks)
		if ks.Char == 'q' {
			return keystroke.Abort
		}
		return keystroke.Continue
	})
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}

	want := []keystroke.KeyStroke{
		keystroke.Char('h'),
		keystroke.Char('i'),
		keystroke.Key(keystroke.ArrowUp),
		keystroke.Mouse(keystroke.LeftMouseDown, 7, 3),
		keystroke.Char('q'),
	}
	if !slices.Equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
	if v.Raw() {
		t.Error("raw mode should be released after Listen")
	}
	if v.RawEntries() != 1 {
		t.Errorf("RawEntries = %d, want 1", v.RawEntries())
	}
	if r, ok := v.ReadCharacter(); !ok || r != '!' {
		t.Errorf("input after abort should stay unread, got %q %v", r, ok)
	}
}

func TestListen_SkipsMalformedUTF8(t *testing.T) {
	t.Parallel()

	v := NewVirtual("a\xffb\xc3\x1b[A", config.Environment{})

	var got []keystroke.KeyStroke
	err := Listen(t.Context(), v, func(ks keystroke.KeyStroke) keystroke.OnKeyPressResult {
		got = append(got, ks)
		return keystroke.Continue
	})
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}

	want := []keystroke.KeyStroke{
		keystroke.Char('a'),
		keystroke.Char('b'),
		keystroke.Key(keystroke.ArrowUp),
	}
	if !slices.Equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestListen_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	v := NewVirtual("abc", config.Environment{})
	err := Listen(ctx, v, func(keystroke.KeyStroke) keystroke.OnKeyPressResult {
		t.Error("no keystroke expected after cancellation")
		return keystroke.Continue
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestVirtual_RawModeRestoredOnPanic(t *testing.T) {
	t.Parallel()

	v := NewVirtual("", config.Environment{})
	func() {
		defer func() { _ = recover() }()
		_ = v.InRawMode(func() error { panic("boom") })
	}()
	if v.Raw() {
		t.Error("raw mode should be released after a panic")
	}
}

func TestVirtual_NestedRawMode(t *testing.T) {
	t.Parallel()

	v := NewVirtual("", config.Environment{})
	sentinel := errors.New("inner")
	err := v.InRawMode(func() error {
		return v.InRawMode(func() error { return sentinel })
	})
	if !errors.Is(err, sentinel) {
		t.Errorf("inner error should propagate, got %v", err)
	}
	if v.RawEntries() != 1 {
		t.Errorf("nested scope should not count as a new entry, got %d", v.RawEntries())
	}
}

func TestVirtual_AsRenderSink(t *testing.T) {
	t.Parallel()

	v := NewVirtual("", config.Environment{})
	r := render.NewSync(v)

	if err := r.Render("a\nb"); err != nil {
		t.Fatal(err)
	}
	if err := r.Render("c"); err != nil {
		t.Fatal(err)
	}
	want := "a\nb\n" + render.CursorUp + render.CursorUp + render.CursorToColumnOne + "c\n"
	if got := v.Output(); got != want {
		t.Errorf("output = %q, want %q", got, want)
	}

	failure := errors.New("closed")
	v.FailWrites(failure)
	if err := r.Render("d"); !errors.Is(err, failure) {
		t.Errorf("expected sink failure, got %v", err)
	}
	if len(v.Writes()) != 2 {
		t.Errorf("failed render must not be recorded, got %d writes", len(v.Writes()))
	}
}

func TestVirtual_Size(t *testing.T) {
	t.Parallel()

	v := NewVirtual("", config.Environment{})
	if w, h := v.Size(); w != DefaultWidth || h != DefaultHeight {
		t.Errorf("Size = %dx%d", w, h)
	}
	v.SetWidth(20)
	if w, _ := v.Size(); w != 20 {
		t.Errorf("width = %d, want 20", w)
	}
}
