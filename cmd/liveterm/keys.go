// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"

	"github.com/invowk/liveterm/internal/keyecho"
	"github.com/invowk/liveterm/internal/terminal"
	"github.com/invowk/liveterm/pkg/keystroke"

	"github.com/spf13/cobra"
)

func newKeysCommand(app *App) *cobra.Command {
	var history int

	cmd := &cobra.Command{
		Use:   "keys",
		Short: "Show decoded keystrokes live",
		Long: `Show decoded keystrokes live.

The terminal is switched to raw mode and every key press, arrow key and
mouse report is decoded and shown in place. Press q or ctrl-c to quit.

Without an interactive terminal, input is read from stdin and each
keystroke is printed on its own line.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runKeys(cmd.Context(), app, history)
		},
	}
	cmd.Flags().IntVar(&history, "history", keyecho.DefaultHistory, "number of keystrokes to show")
	return cmd
}

func runKeys(ctx context.Context, app *App, history int) error {
	sess, err := app.loadSession(ctx)
	if err != nil {
		return err
	}

	if !sess.env.Interactive {
		return keystroke.ListenContext(ctx, keystroke.ReaderSource(app.stdin), func(ks keystroke.KeyStroke) keystroke.OnKeyPressResult {
			if _, err := fmt.Fprintln(sess.out, ks); err != nil {
				return keystroke.Abort
			}
			return keystroke.Continue
		})
	}

	term := app.newTerminal(sess.out, sess.env)
	echo := keyecho.New(sess.rendererFor(term), keyecho.Options{History: history, Styles: sess.styles})
	if sizer, ok := term.(terminal.Sizer); ok {
		w, h := sizer.Size()
		err = echo.Resize(w, h)
	} else {
		err = echo.Start()
	}
	if err != nil {
		return err
	}

	if err := terminal.Listen(ctx, term, echo.OnKeyPress); err != nil {
		return err
	}
	sess.logger.Debug("keys finished", "keystrokes", echo.Total())
	return echo.Err()
}
