// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"strings"
	"testing"
)

func TestStreamPlain(t *testing.T) {
	t.Parallel()

	h := newHarness(t, "", plainEnv())
	err := h.run(t.Context(), "stream", "echo one", "echo two; exit 2")

	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("stream error = %v, want *ExitError", err)
	}
	if exitErr.Code != 1 {
		t.Errorf("exit code = %d, want 1", exitErr.Code)
	}
	if !strings.Contains(exitErr.Error(), "1 of 2 scripts failed") {
		t.Errorf("error = %q", exitErr.Error())
	}

	out := h.stdout.String()
	for _, want := range []string{
		"echo one | one\n",
		"✔ echo one\n",
		"echo two; exit 2 | two\n",
		"✘ echo two; exit 2: exit status 2\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	// Output of a script comes before its status line.
	if strings.Index(out, "echo one | one") > strings.Index(out, "✔ echo one") {
		t.Errorf("status printed before output:\n%s", out)
	}
}

func TestStreamLive(t *testing.T) {
	t.Parallel()

	h := newHarness(t, "", liveEnv())
	if err := h.run(t.Context(), "stream", "--tail", "1", "echo a; echo b", "true"); err != nil {
		t.Fatalf("stream error = %v", err)
	}

	out := h.stdout.String()
	if !strings.HasSuffix(out, "✔ echo a; echo b\n✔ true\n") {
		t.Errorf("final frame is not two collapsed sections:\n%q", out)
	}
	if !strings.Contains(out, "  b\n") {
		t.Errorf("running section never showed its output:\n%q", out)
	}
}

func TestStreamSyntaxError(t *testing.T) {
	t.Parallel()

	h := newHarness(t, "", plainEnv())
	if err := h.run(t.Context(), "stream", "true", "if"); err == nil {
		t.Fatal("expected a syntax error")
	}
	if h.stdout.String() != "" {
		t.Errorf("stdout = %q, want nothing when a script does not parse", h.stdout.String())
	}
}
