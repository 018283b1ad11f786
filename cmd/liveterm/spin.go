// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"strings"

	"github.com/invowk/liveterm/internal/config"
	"github.com/invowk/liveterm/internal/issue"
	"github.com/invowk/liveterm/internal/runner"
	"github.com/invowk/liveterm/internal/spinner"

	"github.com/spf13/cobra"
)

type spinFlags struct {
	title    string
	typ      string
	interval string
}

func newSpinCommand(app *App) *cobra.Command {
	var flags spinFlags

	cmd := &cobra.Command{
		Use:   "spin [flags] -- <script>",
		Short: "Show a spinner while a shell script runs",
		Long: `Show a spinner while a shell script runs.

The script runs in an embedded POSIX shell. Its latest output line is
shown next to the spinner, and the spinner is replaced by a success or
failure line once the script ends. The exit code of the script becomes
the exit code of liveterm.

Available spinner types: ` + strings.Join(spinner.SpinnerTypeNames(), ", "),
		Example: `  liveterm spin --title "Building" -- make build
  liveterm spin --type dot -- 'sleep 2 && echo done'`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSpin(cmd.Context(), app, flags, strings.Join(args, " "))
		},
	}
	cmd.Flags().StringVarP(&flags.title, "title", "t", "", "text shown next to the spinner (default is the script)")
	cmd.Flags().StringVar(&flags.typ, "type", "", "spinner type (default from config)")
	cmd.Flags().StringVar(&flags.interval, "interval", "", "time between frames, e.g. 80ms (default from config)")
	return cmd
}

func runSpin(ctx context.Context, app *App, flags spinFlags, script string) error {
	sess, err := app.loadSession(ctx)
	if err != nil {
		return err
	}
	if err = runner.Validate(script); err != nil {
		return scriptError(script, err)
	}

	typeName := sess.cfg.Spinner.Type
	if flags.typ != "" {
		typeName = flags.typ
	}
	typ, err := spinner.ParseSpinnerType(typeName)
	if err != nil {
		return err
	}
	interval := sess.cfg.Spinner.Interval
	if flags.interval != "" {
		interval = config.Interval(flags.interval)
	}
	every, err := interval.Duration()
	if err != nil {
		return err
	}

	title := flags.title
	if title == "" {
		title = script
	}

	s, err := spinner.New(sess.renderer(), spinner.Options{
		Title:    title,
		Type:     typ,
		Interval: every,
		Static:   !sess.env.Interactive,
		Styles:   sess.styles,
	})
	if err != nil {
		return err
	}
	if err = s.Start(ctx); err != nil {
		return err
	}

	res := runner.Run(ctx, script, runner.Options{Stdin: app.stdin}, func(line runner.Line) {
		sess.logger.Debug("output", "stream", line.Stream, "line", line.Text)
		if text := strings.TrimSpace(line.Text); text != "" && sess.env.Interactive {
			s.SetTitle(title + ": " + text)
		}
	})

	if res.Error != nil {
		return errors.Join(scriptError(script, res.Error), s.Fail(title))
	}
	if res.ExitCode != 0 {
		if err := s.Fail(title + ": " + res.Err().Error()); err != nil {
			return err
		}
		return &ExitError{Code: res.ExitCode, Err: res.Err()}
	}
	return s.Success(title)
}

func scriptError(script string, err error) error {
	return issue.NewErrorContext().
		WithOperation("run script").
		WithResource(script).
		WithIssue(issue.ScriptFailedId).
		WithSuggestion("Check the script syntax; it runs in a POSIX shell").
		Wrap(err).
		BuildError()
}
