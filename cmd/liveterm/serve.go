// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/invowk/liveterm/internal/config"
	"github.com/invowk/liveterm/internal/issue"
	"github.com/invowk/liveterm/internal/sshserver"

	"github.com/spf13/cobra"
)

// passwordEnv keeps the session password out of the process arguments.
const passwordEnv = config.EnvPrefix + "_SSH_PASSWORD"

type serveFlags struct {
	host        string
	port        int
	hostKey     string
	password    string
	idleTimeout time.Duration
}

func newServeCommand(app *App) *cobra.Command {
	var flags serveFlags

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the keystroke demo over SSH",
		Long: `Serve the keystroke demo over SSH.

Every SSH session with a PTY gets its own live keystroke display, redrawn in
place as keys arrive. Press q or ctrl-c inside the session to leave.

Without --password any client is accepted; the password can also be set
with ` + passwordEnv + `.`,
		Example: `  liveterm serve --port 2222
  ssh -p 2222 -t localhost`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), app, flags)
		},
	}
	def := sshserver.DefaultConfig()
	cmd.Flags().StringVar(&flags.host, "host", def.Host.String(), "address to bind to")
	cmd.Flags().IntVarP(&flags.port, "port", "p", 2222, "port to listen on (0 picks a free port)")
	cmd.Flags().StringVar(&flags.hostKey, "host-key", "", "persistent ed25519 host key path (default is a key kept in memory)")
	cmd.Flags().StringVar(&flags.password, "password", "", "require this password from clients")
	cmd.Flags().DurationVar(&flags.idleTimeout, "idle-timeout", 0, "close sessions idle for this long (0 disables)")
	return cmd
}

func runServe(ctx context.Context, app *App, flags serveFlags) error {
	sess, err := app.loadSession(ctx)
	if err != nil {
		return err
	}

	cfg := sshserver.DefaultConfig()
	cfg.Host = sshserver.HostAddress(flags.host)
	cfg.Port = sshserver.ListenPort(flags.port)
	cfg.HostKeyPath = flags.hostKey
	cfg.Password = flags.password
	if cfg.Password == "" {
		if pw, ok := app.lookupEnv(passwordEnv); ok {
			cfg.Password = pw
		}
	}
	cfg.Colored = sess.env.Colored
	cfg.IdleTimeout = flags.idleTimeout

	srv := sshserver.New(cfg, sess.logger.WithPrefix("ssh"))
	if err = srv.Start(ctx); err != nil {
		return issue.NewErrorContext().
			WithOperation("start SSH server").
			WithResource(fmt.Sprintf("%s:%d", flags.host, flags.port)).
			WithIssue(issue.ServerStartFailedId).
			WithSuggestion("Pick another port with --port, or 0 for a free one").
			Wrap(err).
			BuildError()
	}

	_, _ = fmt.Fprintf(sess.out, "%s listening on %s\n", sess.styles.SuccessMark(), sess.styles.Highlight.Render(srv.Address()))
	_, _ = fmt.Fprintf(sess.out, "%s\n", sess.styles.Muted.Render(fmt.Sprintf("connect with: ssh -p %d -t %s", srv.Port(), srv.Host())))

	var serveErr error
	select {
	case <-ctx.Done():
		sess.logger.Info("shutting down")
	case serveErr = <-srv.Err():
		sess.logger.Error("server failed", "error", formatErrorForDisplay(serveErr, sess.env.Verbose))
	}

	stopErr := srv.Stop()
	if stopErr != nil {
		sess.logger.Error("shutdown failed", "error", stopErr)
	}
	sess.logger.Info("server stopped")
	return errors.Join(serveErr, stopErr)
}
