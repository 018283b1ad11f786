// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/slices"
)

const (
	NotATerminalId Id = iota + 1
	ConfigLoadFailedId
	InvalidConfigId
	EnvFileNotFoundId
	RenderFailedId
	ScriptFailedId
	ServerStartFailedId
)

const (
	// StyleDark is the glamour style used on color terminals.
	StyleDark = "dark"
	// StyleNoTTY is the glamour style used when color is disabled.
	StyleNoTTY = "notty"
)

type (
	Id int

	MarkdownMsg string

	HttpLink string

	// Issue is a catalog entry with longer Markdown guidance.
	Issue struct {
		id       Id
		title    string
		mdMsg    MarkdownMsg
		docLinks []HttpLink
	}
)

var (
	render = glamour.Render

	notATerminalIssue = &Issue{
		id:    NotATerminalId,
		title: "not a terminal",
		mdMsg: `
# This command needs a terminal

Keystroke decoding puts the terminal in raw mode, which only works when
standard input is a TTY.

## Things you can try:
- Run the command directly in a terminal instead of through a pipe
- When running over SSH, request a PTY:
~~~
$ ssh -t host liveterm keys
~~~`,
		docLinks: []HttpLink{"https://github.com/invowk/liveterm#keys"},
	}

	configLoadFailedIssue = &Issue{
		id:    ConfigLoadFailedId,
		title: "configuration could not be loaded",
		mdMsg: `
# Failed to load the configuration

The configuration file exists but could not be read or parsed as CUE.

## Things you can try:
- Print the effective configuration:
~~~
$ liveterm config show
~~~
- Regenerate a default file and re-apply your changes:
~~~
$ liveterm config init --force
~~~`,
		docLinks: []HttpLink{"https://github.com/invowk/liveterm#configuration"},
	}

	invalidConfigIssue = &Issue{
		id:    InvalidConfigId,
		title: "configuration is invalid",
		mdMsg: `
# Invalid configuration value

A value in the configuration file or in a LIVETERM_* variable is outside
the accepted set.

## Accepted values:
- ` + "`ui.color`" + `, ` + "`ui.interactive`" + `: auto, always, never
- ` + "`ui.output`" + `: stdout, stderr
- ` + "`spinner.interval`" + `: a positive Go duration such as 80ms
- ` + "`log.level`" + `: debug, info, warn, error`,
		docLinks: []HttpLink{"https://github.com/invowk/liveterm#configuration"},
	}

	envFileNotFoundIssue = &Issue{
		id:    EnvFileNotFoundId,
		title: "env file not found",
		mdMsg: `
# The --env-file could not be read

## Things you can try:
- Check the path passed to --env-file
- Variables already set in the process environment take precedence over the file`,
		docLinks: []HttpLink{"https://github.com/invowk/liveterm#environment"},
	}

	renderFailedIssue = &Issue{
		id:    RenderFailedId,
		title: "output could not be written",
		mdMsg: `
# Writing to the terminal failed

The output stream was closed while a live region was being repainted.

## Things you can try:
- Make sure the reading side of a pipe stays open
- Switch the output stream with ` + "`LIVETERM_UI_OUTPUT=stderr`",
		docLinks: []HttpLink{"https://github.com/invowk/liveterm#output"},
	}

	scriptFailedIssue = &Issue{
		id:    ScriptFailedId,
		title: "script failed",
		mdMsg: `
# The script could not be run

Scripts are parsed and interpreted in-process as POSIX shell.

## Things you can try:
- Check the script for syntax errors
- Run the script with ` + "`sh -n`" + ` to validate it`,
		docLinks: []HttpLink{"https://github.com/invowk/liveterm#scripts"},
	}

	serverStartFailedIssue = &Issue{
		id:    ServerStartFailedId,
		title: "SSH server failed to start",
		mdMsg: `
# The SSH demo server did not start

## Things you can try:
- Choose a free port with ` + "`--port`" + `
- Use ` + "`--port 0`" + ` to let the system pick one`,
		docLinks: []HttpLink{"https://github.com/invowk/liveterm#serve"},
	}

	issues = map[Id]*Issue{
		notATerminalIssue.id:      notATerminalIssue,
		configLoadFailedIssue.id:  configLoadFailedIssue,
		invalidConfigIssue.id:     invalidConfigIssue,
		envFileNotFoundIssue.id:   envFileNotFoundIssue,
		renderFailedIssue.id:      renderFailedIssue,
		scriptFailedIssue.id:      scriptFailedIssue,
		serverStartFailedIssue.id: serverStartFailedIssue,
	}
)

func (id Id) String() string {
	if i, ok := issues[id]; ok {
		return i.title
	}
	return fmt.Sprintf("issue(%d)", int(id))
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) Title() string {
	return i.title
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

// Markdown returns the message followed by a "See also" list of links.
func (i *Issue) Markdown() string {
	var sb strings.Builder
	sb.WriteString(string(i.mdMsg))
	if len(i.docLinks) > 0 {
		sb.WriteString("\n\n## See also:\n")
		for _, link := range i.docLinks {
			sb.WriteString("- <")
			sb.WriteString(string(link))
			sb.WriteString(">\n")
		}
	}
	return sb.String()
}

// Render renders the Markdown with the given glamour style.
func (i *Issue) Render(stylePath string) (string, error) {
	return render(i.Markdown(), stylePath)
}

// Values returns every catalog entry ordered by id.
func Values() []*Issue {
	out := make([]*Issue, 0, len(issues))
	for _, i := range issues {
		out = append(out, i)
	}
	slices.SortFunc(out, func(a, b *Issue) int { return int(a.id) - int(b.id) })
	return out
}

// Get returns the catalog entry for id, or nil.
func Get(id Id) *Issue {
	return issues[id]
}
