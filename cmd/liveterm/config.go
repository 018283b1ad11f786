// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/invowk/liveterm/internal/config"
	"github.com/invowk/liveterm/internal/style"

	"github.com/spf13/cobra"
)

const (
	formatText = "text"
	formatCUE  = "cue"
	formatTOML = "toml"
)

// newConfigCommand creates the `liveterm config` command tree.
func newConfigCommand(app *App) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage liveterm configuration",
		Long: `Manage liveterm configuration.

Configuration is stored in:
  - Linux: ~/.config/liveterm/config.cue
  - macOS: ~/Library/Application Support/liveterm/config.cue
  - Windows: %APPDATA%\liveterm\config.cue

Every key can be overridden with a LIVETERM_* variable, for example
LIVETERM_UI_COLOR=never or LIVETERM_SPINNER_TYPE=dot.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	var format string
	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig(cmd.Context(), app, format)
		},
	}
	showCmd.Flags().StringVarP(&format, "format", "f", formatText, "output format: text, cue or toml")

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Create the default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(app, force)
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	cfgCmd.AddCommand(showCmd, initCmd, &cobra.Command{
		Use:   "path",
		Short: "Show the configuration file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.FilePath(app.configDir)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(app.stdout, path)
			return err
		},
	})

	return cfgCmd
}

func showConfig(ctx context.Context, app *App, format string) error {
	sess, err := app.loadSession(ctx)
	if err != nil {
		return err
	}

	switch format {
	case formatCUE:
		_, err = io.WriteString(app.stdout, config.GenerateCUE(sess.cfg))
		return err
	case formatTOML:
		out, err := config.MarshalTOML(sess.cfg)
		if err != nil {
			return err
		}
		_, err = app.stdout.Write(out)
		return err
	case formatText:
	default:
		return fmt.Errorf("unknown format %q (want %s, %s or %s)", format, formatText, formatCUE, formatTOML)
	}

	s := style.New(app.stdout, sess.env)
	w := app.stdout
	key := func(name string) string { return s.Title.Render(name) }
	val := func(v any) string { return s.Success.Render(fmt.Sprint(v)) }

	fmt.Fprintln(w, s.Title.Render("Current Configuration"))
	fmt.Fprintln(w)
	if sess.cfgPath != "" {
		fmt.Fprintf(w, "%s: %s\n", key("Config file"), sess.cfgPath)
	} else {
		fmt.Fprintf(w, "%s: %s\n", key("Config file"), s.Muted.Render("(using defaults)"))
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "%s:\n", key("ui"))
	fmt.Fprintf(w, "  color: %s\n", val(sess.cfg.UI.Color))
	fmt.Fprintf(w, "  interactive: %s\n", val(sess.cfg.UI.Interactive))
	fmt.Fprintf(w, "  output: %s\n", val(sess.cfg.UI.Output))
	fmt.Fprintf(w, "  line_erase: %s\n", val(sess.cfg.UI.LineErase))
	fmt.Fprintf(w, "  verbose: %s\n", val(sess.cfg.UI.Verbose))

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", key("spinner"))
	fmt.Fprintf(w, "  type: %s\n", val(sess.cfg.Spinner.Type))
	fmt.Fprintf(w, "  interval: %s\n", val(sess.cfg.Spinner.Interval))

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", key("log"))
	fmt.Fprintf(w, "  level: %s\n", val(sess.cfg.Log.Level))

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", key("resolved"))
	fmt.Fprintf(w, "  colored: %s\n", val(sess.env.Colored))
	fmt.Fprintf(w, "  interactive: %s\n", val(sess.env.Interactive))
	return nil
}

func initConfig(app *App, force bool) error {
	path, err := config.FilePath(app.configDir)
	if err != nil {
		return err
	}
	written, err := config.WriteDefault(path, force)
	if err != nil {
		return fmt.Errorf("failed to create config: %w", err)
	}

	s := style.Plain()
	if !written {
		_, err = fmt.Fprintf(app.stdout, "%s Configuration already exists at %s (use --force to overwrite)\n", s.PendingMark(), path)
		return err
	}
	_, err = fmt.Fprintf(app.stdout, "%s Created default configuration at %s\n", s.SuccessMark(), path)
	return err
}
