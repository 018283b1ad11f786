// SPDX-License-Identifier: MPL-2.0

package sshserver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/invowk/liveterm/internal/core/lifecycle"

	"github.com/charmbracelet/keygen"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/logging"
)

// Server serves echo sessions. A Server instance is single-use: once
// stopped or failed, create a new instance.
type Server struct {
	base *lifecycle.Base
	cfg  Config

	srvMu    sync.Mutex
	srv      *ssh.Server
	listener net.Listener
	addr     string

	sessions atomic.Int64
	logger   *log.Logger
}

// New creates a server. A nil logger logs to stderr.
func New(cfg Config, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			Prefix: "ssh-server",
		})
	}
	return &Server{
		base:   lifecycle.New(),
		cfg:    cfg.withDefaults(),
		logger: logger,
	}
}

// Start starts the SSH server and blocks until either:
//   - The server is ready to accept connections (returns nil)
//   - The server fails to start (returns error)
//   - The context is cancelled (returns context error)
//   - The startup timeout is exceeded (returns error)
//
// After Start() returns nil, use Err() to monitor for runtime errors.
func (s *Server) Start(ctx context.Context) error {
	if _, err := s.base.Begin(ctx); err != nil {
		return err
	}
	if err := s.cfg.Validate(); err != nil {
		return s.abort(err)
	}

	startupCtx, startupCancel := context.WithTimeout(ctx, s.cfg.StartupTimeout)
	defer startupCancel()

	addr := net.JoinHostPort(s.cfg.Host.String(), strconv.Itoa(int(s.cfg.Port)))
	var lc net.ListenConfig
	listener, err := lc.Listen(startupCtx, "tcp", addr)
	if err != nil {
		return s.abort(fmt.Errorf("failed to listen on %s: %w", addr, err))
	}

	s.srvMu.Lock()
	s.listener = listener
	s.addr = listener.Addr().String()
	s.srvMu.Unlock()

	srv, err := s.newSSHServer(addr)
	if err != nil {
		return s.abort(fmt.Errorf("failed to create SSH server: %w", err))
	}

	s.srvMu.Lock()
	s.srv = srv
	s.srvMu.Unlock()

	s.base.Go(func(context.Context) { s.serve(srv, listener) })

	select {
	case <-s.base.Ready():
		s.logger.Info("SSH server started", "address", s.Address())
		return nil
	case err := <-s.base.Err():
		return s.abort(err)
	case <-startupCtx.Done():
		return s.abort(fmt.Errorf("startup timeout: %w", startupCtx.Err()))
	}
}

// Stop gracefully stops the SSH server.
// It blocks until all connections are closed or the shutdown timeout is reached.
// Safe to call multiple times; subsequent calls are no-ops.
func (s *Server) Stop() error {
	if !s.base.Halt() {
		s.base.Finish()
		return nil
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer shutdownCancel()

	err := s.closeServer(shutdownCtx)
	if err != nil {
		s.logger.Error("shutdown error", "error", err)
	}
	s.base.Finish()
	s.logger.Info("SSH server stopped")
	return err
}

// Err returns a channel that receives fatal server errors. It is closed
// once the server stops.
func (s *Server) Err() <-chan error {
	return s.base.Err()
}

// State returns the current server state.
func (s *Server) State() lifecycle.State {
	return s.base.State()
}

// IsRunning returns whether the server is currently running and accepting connections.
func (s *Server) IsRunning() bool {
	return s.base.IsRunning()
}

// Wait blocks until the server stops (either gracefully or due to error).
// Returns the error if the server failed, nil otherwise.
func (s *Server) Wait() error {
	s.base.Wait()
	if s.State() == lifecycle.StateFailed {
		return s.base.LastError()
	}
	return nil
}

// Address returns the bound address (host:port), or "" before Start has
// opened the listener.
func (s *Server) Address() string {
	s.srvMu.Lock()
	defer s.srvMu.Unlock()
	return s.addr
}

// Port returns the listening port, or 0 when not listening.
func (s *Server) Port() int {
	_, portStr, err := net.SplitHostPort(s.Address())
	if err != nil {
		return 0
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return 0
	}
	return port
}

// Host returns the server's configured host address.
func (s *Server) Host() HostAddress {
	return s.cfg.Host
}

// Sessions returns the number of sessions currently being served.
func (s *Server) Sessions() int {
	return int(s.sessions.Load())
}

// newSSHServer builds the Wish server. Middlewares run bottom-up: logging,
// then the PTY check, then the echo session.
func (s *Server) newSSHServer(addr string) (*ssh.Server, error) {
	hostKey, err := s.hostKey()
	if err != nil {
		return nil, err
	}

	opts := []ssh.Option{
		wish.WithAddress(addr),
		wish.WithHostKeyPEM(hostKey),
		ssh.EmulatePty(),
		wish.WithMiddleware(
			s.echoMiddleware(),
			activeterm.Middleware(),
			logging.StructuredMiddlewareWithLogger(s.logger, log.DebugLevel),
		),
	}
	if s.cfg.Password != "" {
		opts = append(opts, wish.WithPasswordAuth(s.passwordHandler))
	}
	if s.cfg.IdleTimeout > 0 {
		opts = append(opts, wish.WithIdleTimeout(s.cfg.IdleTimeout))
	}
	return wish.NewServer(opts...)
}

// hostKey returns the PEM host key, loading or persisting it when a path is
// configured.
func (s *Server) hostKey() ([]byte, error) {
	opts := []keygen.Option{keygen.WithKeyType(keygen.Ed25519)}
	if s.cfg.HostKeyPath != "" {
		opts = append(opts, keygen.WithWrite())
	}
	kp, err := keygen.New(s.cfg.HostKeyPath, opts...)
	if err != nil {
		return nil, fmt.Errorf("host key: %w", err)
	}
	return kp.RawPrivateKey(), nil
}

// serve runs the SSH server and handles errors.
func (s *Server) serve(srv *ssh.Server, listener net.Listener) {
	s.base.MarkRunning()

	err := srv.Serve(listener)
	if err == nil || errors.Is(err, ssh.ErrServerClosed) || errors.Is(err, net.ErrClosed) {
		return
	}
	s.base.Report(fmt.Errorf("serve error: %w", err))
	s.logger.Error("SSH server error", "error", err)
}

// abort fails the server during Start and releases what was opened.
func (s *Server) abort(err error) error {
	s.base.Fail(err)
	_ = s.closeServer(context.Background()) //nolint:errcheck // best-effort cleanup after a failed start
	s.base.Finish()
	return err
}

func (s *Server) closeServer(ctx context.Context) error {
	s.srvMu.Lock()
	srv, listener := s.srv, s.listener
	s.srvMu.Unlock()

	var err error
	if srv != nil {
		err = srv.Shutdown(ctx)
		if isClosedConnError(err) {
			err = nil
		}
	}
	if listener != nil {
		_ = listener.Close() //nolint:errcheck // may already be closed by Shutdown
	}
	return err
}

// isClosedConnError checks if the error is a "use of closed network connection" error.
func isClosedConnError(err error) bool {
	return err != nil && errors.Is(err, net.ErrClosed)
}
