// SPDX-License-Identifier: MPL-2.0

package sshserver

import (
	"crypto/subtle"
	"sync"

	"github.com/invowk/liveterm/internal/config"
	"github.com/invowk/liveterm/internal/keyecho"
	"github.com/invowk/liveterm/internal/style"
	"github.com/invowk/liveterm/pkg/keystroke"
	"github.com/invowk/liveterm/pkg/render"

	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
)

// echoMiddleware serves the keystroke echo widget. It ends the session and
// does not call next.
func (s *Server) echoMiddleware() wish.Middleware {
	return func(next ssh.Handler) ssh.Handler {
		return func(sess ssh.Session) {
			s.sessions.Add(1)
			defer s.sessions.Add(-1)

			_ = sess.Exit(s.runEcho(sess)) //nolint:errcheck // Terminal operation; error non-critical
		}
	}
}

// runEcho drives one session and returns its exit code.
func (s *Server) runEcho(sess ssh.Session) int {
	env := config.Environment{
		Colored:     s.cfg.Colored,
		Interactive: true,
		LineErase:   true,
	}
	r := render.NewSync(render.NewWriterSink(sess), render.WithLineErase())
	echo := keyecho.New(r, keyecho.Options{Styles: style.New(sess, env)})

	if err := echo.Start(); err != nil {
		s.logger.Debug("session closed before first paint", "user", sess.User(), "error", err)
		return 1
	}

	ctx := sess.Context()
	_, winCh, _ := sess.Pty()
	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Go(func() {
		for {
			select {
			case <-done:
				return
			case <-ctx.Done():
				return
			case win, ok := <-winCh:
				if !ok {
					return
				}
				_ = echo.Resize(win.Width, win.Height) //nolint:errcheck // a failed paint surfaces on the next key press
			}
		}
	})

	err := keystroke.ListenContext(ctx, keystroke.ReaderSource(sess), echo.OnKeyPress)
	close(done)
	wg.Wait()

	if err == nil {
		err = echo.Err()
	}
	if err != nil {
		s.logger.Debug("session ended", "user", sess.User(), "error", err)
		return 1
	}
	s.logger.Debug("session finished", "user", sess.User(), "keystrokes", echo.Total())
	return 0
}

// passwordHandler accepts the configured password.
func (s *Server) passwordHandler(ctx ssh.Context, password string) bool {
	if subtle.ConstantTimeCompare([]byte(password), []byte(s.cfg.Password)) == 1 {
		return true
	}
	s.logger.Warn("Invalid password authentication attempt", "user", ctx.User())
	return false
}
