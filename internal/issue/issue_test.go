// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"strings"
	"testing"
)

func TestValues_OrderedAndComplete(t *testing.T) {
	t.Parallel()

	values := Values()
	if len(values) != int(ServerStartFailedId) {
		t.Fatalf("expected %d issues, got %d", ServerStartFailedId, len(values))
	}
	for i, v := range values {
		if v.Id() != Id(i+1) {
			t.Errorf("Values()[%d].Id() = %d, want %d", i, v.Id(), i+1)
		}
		if v.Title() == "" || v.MarkdownMsg() == "" {
			t.Errorf("issue %d is missing title or message", v.Id())
		}
		if len(v.DocLinks()) == 0 {
			t.Errorf("issue %d has no documentation link", v.Id())
		}
	}
}

func TestGet(t *testing.T) {
	t.Parallel()

	if Get(NotATerminalId) == nil {
		t.Fatal("NotATerminalId should be registered")
	}
	if Get(Id(999)) != nil {
		t.Error("unknown id should return nil")
	}
	if got := Id(999).String(); got != "issue(999)" {
		t.Errorf("String() = %q", got)
	}
	if got := ConfigLoadFailedId.String(); got != "configuration could not be loaded" {
		t.Errorf("String() = %q", got)
	}
}

func TestIssue_DocLinksIsCopy(t *testing.T) {
	t.Parallel()

	i := Get(RenderFailedId)
	links := i.DocLinks()
	links[0] = "mutated"
	if i.DocLinks()[0] == "mutated" {
		t.Error("DocLinks must return a copy")
	}
}

func TestIssue_Markdown(t *testing.T) {
	t.Parallel()

	md := Get(NotATerminalId).Markdown()
	if !strings.Contains(md, "This command needs a terminal") {
		t.Error("markdown should contain the headline")
	}
	if !strings.Contains(md, "## See also:") || !strings.Contains(md, "https://github.com/invowk/liveterm#keys") {
		t.Errorf("markdown should list the documentation link:\n%s", md)
	}
}

func TestIssue_Render(t *testing.T) {
	t.Parallel()

	for _, i := range Values() {
		out, err := i.Render(StyleNoTTY)
		if err != nil {
			t.Fatalf("Render(%d): %v", i.Id(), err)
		}
		if strings.TrimSpace(out) == "" {
			t.Errorf("Render(%d) produced no output", i.Id())
		}
	}
}
