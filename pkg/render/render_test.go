// SPDX-License-Identifier: MPL-2.0

package render

import (
	"errors"
	"slices"
	"strings"
	"testing"
)

// recordingSink keeps every write separately.
type recordingSink struct {
	writes []string
	failOn string
}

var errSinkClosed = errors.New("sink closed")

func (s *recordingSink) Write(content string) error {
	if s.failOn != "" && content == s.failOn {
		return errSinkClosed
	}
	s.writes = append(s.writes, content)
	return nil
}

func TestRender_TwoFrames(t *testing.T) {
	t.Parallel()

	sink := &recordingSink{}
	r := New()

	if err := r.Render("line1\nline2", sink); err != nil {
		t.Fatalf("first render: %v", err)
	}
	if err := r.Render("line3\nline4", sink); err != nil {
		t.Fatalf("second render: %v", err)
	}

	want := []string{"line1\n", "line2\n", "\x1b[1A", "\x1b[1A", "\x1b[1G", "line3\n", "line4\n"}
	if !slices.Equal(sink.writes, want) {
		t.Errorf("writes = %q, want %q", sink.writes, want)
	}
	if got := r.Lines(); !slices.Equal(got, []string{"line3", "line4"}) {
		t.Errorf("Lines() = %q", got)
	}
}

func TestRender_EraseThenDraw(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		first  string
		second string
		want   []string
	}{
		{
			name:   "grow",
			first:  "a",
			second: "b\nc\nd",
			want:   []string{"\x1b[1A", "\x1b[1G", "b\n", "c\n", "d\n"},
		},
		{
			name:   "shrink",
			first:  "a\nb\nc",
			second: "d",
			want:   []string{"\x1b[1A", "\x1b[2K", "\x1b[1A", "\x1b[2K", "\x1b[1A", "\x1b[1G", "d\n"},
		},
		{
			name:   "empty after content",
			first:  "a\nb",
			second: "",
			want:   []string{"\x1b[1A", "\x1b[2K", "\x1b[1A", "\x1b[2K", "\x1b[1G"},
		},
		{
			name:   "trailing newline is not a line",
			first:  "a\n",
			second: "b\n",
			want:   []string{"\x1b[1A", "\x1b[1G", "b\n"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := New()
			if err := r.Render(tt.first, &recordingSink{}); err != nil {
				t.Fatalf("first render: %v", err)
			}
			sink := &recordingSink{}
			if err := r.Render(tt.second, sink); err != nil {
				t.Fatalf("second render: %v", err)
			}
			if !slices.Equal(sink.writes, tt.want) {
				t.Errorf("writes = %q, want %q", sink.writes, tt.want)
			}
			if got, want := r.Lines(), SplitLines(tt.second); !slices.Equal(got, want) {
				t.Errorf("Lines() = %q, want %q", got, want)
			}
		})
	}
}

func TestRender_ShrinkLeavesNoStaleRows(t *testing.T) {
	t.Parallel()

	screen := &screenSink{}
	r := New()
	for _, frame := range []string{"one\ntwo\nthree", "four", "", "five\nsix"} {
		if err := r.Render(frame, screen); err != nil {
			t.Fatalf("render %q: %v", frame, err)
		}
		if got, want := screen.visible(), SplitLines(frame); !slices.Equal(got, want) {
			t.Errorf("after %q screen = %q, want %q", frame, got, want)
		}
	}
}

// screenSink replays the renderer's control codes onto a grid of rows.
type screenSink struct {
	rows []string
	row  int
}

func (s *screenSink) Write(content string) error {
	switch content {
	case CursorUp:
		if s.row > 0 {
			s.row--
		}
	case CursorToColumnOne:
	case EraseLine:
		if s.row < len(s.rows) {
			s.rows[s.row] = ""
		}
	default:
		for s.row >= len(s.rows) {
			s.rows = append(s.rows, "")
		}
		s.rows[s.row] = strings.TrimSuffix(content, "\n")
		s.row++
	}
	return nil
}

// visible returns the rows with trailing blank rows dropped.
func (s *screenSink) visible() []string {
	end := len(s.rows)
	for end > 0 && s.rows[end-1] == "" {
		end--
	}
	if end == 0 {
		return nil
	}
	return s.rows[:end]
}

func TestRender_FirstRenderEmitsNoControlCodes(t *testing.T) {
	t.Parallel()

	sink := &recordingSink{}
	if err := New().Render("hello", sink); err != nil {
		t.Fatalf("render: %v", err)
	}
	if !slices.Equal(sink.writes, []string{"hello\n"}) {
		t.Errorf("writes = %q", sink.writes)
	}
}

func TestRender_IdenticalContentRepaints(t *testing.T) {
	t.Parallel()

	r := New()
	if err := r.Render("x\ny", &recordingSink{}); err != nil {
		t.Fatalf("render: %v", err)
	}

	var frames [][]string
	for range 3 {
		sink := &recordingSink{}
		if err := r.Render("x\ny", sink); err != nil {
			t.Fatalf("render: %v", err)
		}
		frames = append(frames, sink.writes)
	}

	want := []string{"\x1b[1A", "\x1b[1A", "\x1b[1G", "x\n", "y\n"}
	for i, frame := range frames {
		if !slices.Equal(frame, want) {
			t.Errorf("frame %d = %q, want %q", i, frame, want)
		}
	}
}

func TestRender_WithLineErase(t *testing.T) {
	t.Parallel()

	r := New(WithLineErase())
	sink := &recordingSink{}
	if err := r.Render("a\nb", sink); err != nil {
		t.Fatalf("first render: %v", err)
	}
	wantFirst := []string{"\x1b[2K", "\x1b[1G", "a\n", "b\n"}
	if !slices.Equal(sink.writes, wantFirst) {
		t.Fatalf("first writes = %q, want %q", sink.writes, wantFirst)
	}

	sink = &recordingSink{}
	if err := r.Render("c", sink); err != nil {
		t.Fatalf("second render: %v", err)
	}
	wantSecond := []string{
		"\x1b[2K", "\x1b[1A",
		"\x1b[2K", "\x1b[1A",
		"\x1b[2K",
		"\x1b[1G",
		"c\n",
	}
	if !slices.Equal(sink.writes, wantSecond) {
		t.Errorf("second writes = %q, want %q", sink.writes, wantSecond)
	}
}

func TestRender_SinkErrorKeepsPreviousBlock(t *testing.T) {
	t.Parallel()

	r := New()
	if err := r.Render("a\nb", &recordingSink{}); err != nil {
		t.Fatalf("render: %v", err)
	}

	err := r.Render("c", &recordingSink{failOn: "c\n"})
	if !errors.Is(err, errSinkClosed) {
		t.Fatalf("expected errSinkClosed, got %v", err)
	}
	if got := r.Lines(); !slices.Equal(got, []string{"a", "b"}) {
		t.Errorf("Lines() after failure = %q", got)
	}
}

func TestRender_Reset(t *testing.T) {
	t.Parallel()

	r := New()
	if err := r.Render("done", &recordingSink{}); err != nil {
		t.Fatalf("render: %v", err)
	}
	r.Reset()

	sink := &recordingSink{}
	if err := r.Render("next", sink); err != nil {
		t.Fatalf("render: %v", err)
	}
	if !slices.Equal(sink.writes, []string{"next\n"}) {
		t.Errorf("writes after Reset = %q", sink.writes)
	}
}

func TestSplitLines(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"a", []string{"a"}},
		{"a\n", []string{"a"}},
		{"a\nb", []string{"a", "b"}},
		{"a\n\nb", []string{"a", "", "b"}},
		{"\n", []string{""}},
		{"a\n\n", []string{"a", ""}},
	}

	for _, tt := range tests {
		if got := SplitLines(tt.in); !slices.Equal(got, tt.want) {
			t.Errorf("SplitLines(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestWriterSink(t *testing.T) {
	t.Parallel()

	var b strings.Builder
	sink := NewWriterSink(&b)
	if err := sink.Write("abc"); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := sink.Write("\x1b[1A"); err != nil {
		t.Fatalf("write: %v", err)
	}
	if got := b.String(); got != "abc\x1b[1A" {
		t.Errorf("output = %q", got)
	}
	if Stdout() != Stdout() || Stderr() != Stderr() {
		t.Error("process sinks should be singletons")
	}
}
