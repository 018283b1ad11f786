// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for liveterm.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/invowk/liveterm/internal/issue"
	"github.com/invowk/liveterm/internal/style"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// NewRootCommand builds the command tree for app.
func NewRootCommand(app *App) *cobra.Command {
	titles := style.Plain()
	rootCmd := &cobra.Command{
		Use:   "liveterm",
		Short: "Live terminal regions, keystrokes and spinners",
		Long: titles.Title.Render("liveterm") + titles.Muted.Render(" - live terminal regions, keystrokes and spinners") + `

liveterm repaints blocks of text in place, decodes raw keystrokes and
mouse reports, and shows progress for shell scripts while they run.

` + titles.Muted.Render("Examples:") + `
  liveterm keys                      Show decoded keystrokes live
  liveterm spin -t build -- make     Spin while a script runs
  liveterm stream 'make a' 'make b'  Run scripts side by side
  liveterm serve --port 2222         Serve the keystroke demo over SSH
  liveterm config show               Show current configuration`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().BoolVarP(&app.flags.verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&app.flags.configPath, "config", "", "config file (default is $XDG_CONFIG_HOME/liveterm/config.cue)")
	rootCmd.PersistentFlags().StringVar(&app.flags.envFile, "env-file", "", "dotenv file with LIVETERM_* overrides")

	rootCmd.AddCommand(
		newKeysCommand(app),
		newSpinCommand(app),
		newStreamCommand(app),
		newServeCommand(app),
		newConfigCommand(app),
	)
	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the CLI and exits with the command's status. It is called
// by main.main().
func Execute() {
	app := NewApp(Dependencies{})
	err := fang.Execute(
		context.Background(),
		NewRootCommand(app),
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	)
	if err == nil {
		return
	}

	renderIssue(os.Stderr, err)
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		os.Exit(exitErr.Code)
	}
	os.Exit(1)
}

// renderIssue prints the catalog entry attached to an ActionableError.
func renderIssue(w io.Writer, err error) {
	var ae *issue.ActionableError
	if !errors.As(err, &ae) || ae.Issue == 0 {
		return
	}
	entry := issue.Get(ae.Issue)
	if entry == nil {
		return
	}
	stylePath := issue.StyleNoTTY
	if isTerminal(w) {
		stylePath = issue.StyleDark
	}
	rendered, renderErr := entry.Render(stylePath)
	if renderErr != nil {
		return
	}
	_, _ = fmt.Fprint(w, rendered) //nolint:errcheck // best-effort diagnostics
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}
