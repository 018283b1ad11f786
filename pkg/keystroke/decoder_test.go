// SPDX-License-Identifier: MPL-2.0

package keystroke

import (
	"context"
	"errors"
	"slices"
	"testing"
)

// decodeAll collects every keystroke in input.
func decodeAll(input string) []KeyStroke {
	var got []KeyStroke
	Listen(StringSource(input), func(ks KeyStroke) OnKeyPressResult {
		got = append(got, ks)
		return Continue
	})
	return got
}

func TestDecode_PrintableCharacters(t *testing.T) {
	t.Parallel()

	input := "Hello, World!"
	got := decodeAll(input)

	if len(got) != len(input) {
		t.Fatalf("got %d keystrokes, want %d", len(got), len(input))
	}
	for i, r := range input {
		if got[i] != Char(r) {
			t.Errorf("keystroke %d = %v, want %v", i, got[i], Char(r))
		}
	}
}

func TestDecode_Keys(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  []KeyStroke
	}{
		{"arrow up", "\x1b[A", []KeyStroke{Key(ArrowUp)}},
		{"arrow down", "\x1b[B", []KeyStroke{Key(ArrowDown)}},
		{"arrow left", "\x1b[D", []KeyStroke{Key(ArrowLeft)}},
		{"arrow right", "\x1b[C", []KeyStroke{Key(ArrowRight)}},
		{"backspace", "\x08", []KeyStroke{Key(Backspace)}},
		{"delete", "\x7f", []KeyStroke{Key(Delete)}},
		{"lone escape", "\x1b", []KeyStroke{Key(Escape)}},
		{"line feed", "\n", []KeyStroke{Key(Return)}},
		{"carriage return", "\r", []KeyStroke{Key(Return)}},
		{"tab", "\t", []KeyStroke{Key(Tab)}},
		{"ctrl-c", "\x03", []KeyStroke{Key(Interrupt)}},
		{"unmapped control dropped", "\x01a", []KeyStroke{Char('a')}},
		{"multibyte", "é中", []KeyStroke{Char('é'), Char('中')}},
		{
			"escape then printable",
			"\x1bx",
			[]KeyStroke{Key(Escape), Char('x')},
		},
		{
			"double escape",
			"\x1b\x1b[A",
			[]KeyStroke{Key(Escape), Key(ArrowUp)},
		},
		{
			"arrows between characters",
			"a\x1b[Ab\x1b[Dc",
			[]KeyStroke{Char('a'), Key(ArrowUp), Char('b'), Key(ArrowLeft), Char('c')},
		},
		{
			"unknown sequence dropped",
			"\x1b[1;5Ax\x1b[3~y",
			[]KeyStroke{Char('x'), Char('y')},
		},
		{
			"overlong sequence dropped",
			"\x1b[" + "1111111111111111111" + "z",
			[]KeyStroke{Char('1'), Char('1'), Char('1'), Char('z')},
		},
		{
			"escape interrupts sequence",
			"\x1b[1\x1b[B",
			[]KeyStroke{Key(ArrowDown)},
		},
		{
			"truncated sequence at end",
			"a\x1b[",
			[]KeyStroke{Char('a')},
		},
		{
			"invalid utf8 skipped",
			"a\xffb",
			[]KeyStroke{Char('a'), Char('b')},
		},
		{
			"cut utf8 sequence keeps the next byte",
			"\xc3A",
			[]KeyStroke{Char('A')},
		},
		{
			"cut utf8 sequence keeps a following escape",
			"\xe4\xb8\x1b[A",
			[]KeyStroke{Key(ArrowUp)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := decodeAll(tt.input); !slices.Equal(got, tt.want) {
				t.Errorf("decode(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestDecode_Mouse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  []KeyStroke
	}{
		{"left down", "\x1b[<0;1;2M", []KeyStroke{Mouse(LeftMouseDown, 2, 1)}},
		{
			"left drag",
			"\x1b[<32;1;3M\x1b[<32;1;4M",
			[]KeyStroke{Mouse(LeftMouseDrag, 3, 1), Mouse(LeftMouseDrag, 4, 1)},
		},
		{"left up", "\x1b[<0;1;4m", []KeyStroke{Mouse(LeftMouseUp, 4, 1)}},
		{"right down", "\x1b[<2;5;6M", []KeyStroke{Mouse(RightMouseDown, 6, 5)}},
		{"right drag", "\x1b[<34;7;8M", []KeyStroke{Mouse(RightMouseDrag, 8, 7)}},
		{"right up", "\x1b[<2;9;10m", []KeyStroke{Mouse(RightMouseUp, 10, 9)}},
		{"moved", "\x1b[<35;120;40M", []KeyStroke{Mouse(MouseMoved, 40, 120)}},
		{"modifiers ignored", "\x1b[<4;3;3M", []KeyStroke{Mouse(LeftMouseDown, 3, 3)}},
		{"wheel dropped", "\x1b[<64;1;1Mq", []KeyStroke{Char('q')}},
		{"middle dropped", "\x1b[<1;1;1Mq", []KeyStroke{Char('q')}},
		{"missing field dropped", "\x1b[<0;1Mq", []KeyStroke{Char('q')}},
		{"empty field dropped", "\x1b[<0;;1Mq", []KeyStroke{Char('q')}},
		{"garbage dropped", "\x1b[<0;x;1Mq", []KeyStroke{Char(';'), Char('1'), Char('M'), Char('q')}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := decodeAll(tt.input); !slices.Equal(got, tt.want) {
				t.Errorf("decode(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestListen_Abort(t *testing.T) {
	t.Parallel()

	pulled := 0
	data := []byte("abcdef")
	src := func() (byte, bool) {
		if pulled >= len(data) {
			return 0, false
		}
		b := data[pulled]
		pulled++
		return b, true
	}

	var got []KeyStroke
	Listen(src, func(ks KeyStroke) OnKeyPressResult {
		got = append(got, ks)
		if ks.Char == 'c' {
			return Abort
		}
		return Continue
	})

	if want := []KeyStroke{Char('a'), Char('b'), Char('c')}; !slices.Equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
	if pulled != 3 {
		t.Errorf("pulled %d bytes, want 3 (no read after abort)", pulled)
	}
}

func TestListen_OneCallbackBeforeNextPull(t *testing.T) {
	t.Parallel()

	data := []byte("xy")
	pulled := 0
	src := func() (byte, bool) {
		if pulled >= len(data) {
			return 0, false
		}
		pulled++
		return data[pulled-1], true
	}

	var seen []int
	Listen(src, func(KeyStroke) OnKeyPressResult {
		seen = append(seen, pulled)
		return Continue
	})
	if !slices.Equal(seen, []int{1, 2}) {
		t.Errorf("bytes pulled at each callback = %v, want [1 2]", seen)
	}
}

func TestListenContext_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := ListenContext(ctx, StringSource("abc"), func(KeyStroke) OnKeyPressResult {
		calls++
		cancel()
		return Continue
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if calls != 1 {
		t.Errorf("callback ran %d times, want 1", calls)
	}

	if err := ListenContext(context.Background(), StringSource("abc"), func(KeyStroke) OnKeyPressResult {
		return Continue
	}); err != nil {
		t.Errorf("exhausted source should end without error, got %v", err)
	}
}

func TestKeyStroke_String(t *testing.T) {
	t.Parallel()

	tests := []struct {
		ks   KeyStroke
		want string
	}{
		{Char('a'), `printable('a')`},
		{Key(ArrowUp), "up"},
		{Mouse(LeftMouseDown, 2, 1), "left-mouse-down(row:2,column:1)"},
		{Key(Kind(99)), "kind(99)"},
	}
	for _, tt := range tests {
		if got := tt.ks.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestCharDecoder(t *testing.T) {
	t.Parallel()

	d := NewCharDecoder(RunesSource([]rune("a\x1b[Bé\x1b[<35;4;2M\x1b")))
	var got []KeyStroke
	if err := d.Run(context.Background(), func(ks KeyStroke) OnKeyPressResult {
		got = append(got, ks)
		return Continue
	}); err != nil {
		t.Fatalf("Run: %v", err)
	}

	want := []KeyStroke{Char('a'), Key(ArrowDown), Char('é'), Mouse(MouseMoved, 2, 4), Key(Escape)}
	if !slices.Equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
	if _, ok := d.Next(); ok {
		t.Error("exhausted decoder should stay exhausted")
	}
}
