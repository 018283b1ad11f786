// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"io"
	"os"

	"github.com/invowk/liveterm/internal/config"
	"github.com/invowk/liveterm/internal/style"
	"github.com/invowk/liveterm/internal/terminal"
	"github.com/invowk/liveterm/pkg/render"

	"github.com/charmbracelet/log"
)

type (
	// App wires CLI services and shared dependencies. Every Cobra handler
	// receives the App and resolves its session through it.
	App struct {
		stdin       io.Reader
		stdout      io.Writer
		stderr      io.Writer
		lookupEnv   func(string) (string, bool)
		configDir   string
		newTerminal func(out io.Writer, env config.Environment) terminal.Terminal

		flags globalFlags
	}

	// Dependencies defines the injection points for building an App. Nil
	// fields are replaced with production defaults by NewApp.
	Dependencies struct {
		Stdin  io.Reader
		Stdout io.Writer
		Stderr io.Writer
		// LookupEnv reads the environment; os.LookupEnv when nil.
		LookupEnv func(string) (string, bool)
		// ConfigDir replaces the platform config directory.
		ConfigDir string
		// Terminal builds the terminal used by interactive commands.
		Terminal func(out io.Writer, env config.Environment) terminal.Terminal
	}

	globalFlags struct {
		configPath string
		envFile    string
		verbose    bool
	}

	// session is the per-invocation state every command starts from.
	session struct {
		cfg     *config.Config
		cfgPath string
		env     config.Environment
		out     io.Writer
		logger  *log.Logger
		styles  *style.Styles
	}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) *App {
	if deps.Stdin == nil {
		deps.Stdin = os.Stdin
	}
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.LookupEnv == nil {
		deps.LookupEnv = os.LookupEnv
	}
	if deps.Terminal == nil {
		deps.Terminal = newTTY
	}
	return &App{
		stdin:       deps.Stdin,
		stdout:      deps.Stdout,
		stderr:      deps.Stderr,
		lookupEnv:   deps.LookupEnv,
		configDir:   deps.ConfigDir,
		newTerminal: deps.Terminal,
	}
}

// loadSession loads configuration and resolves the terminal environment.
func (a *App) loadSession(ctx context.Context) (*session, error) {
	res, err := config.Load(ctx, config.LoadOptions{
		ConfigFilePath: a.flags.configPath,
		ConfigDirPath:  a.configDir,
		EnvFile:        a.flags.envFile,
		LookupEnv:      a.lookupEnv,
	})
	if err != nil {
		return nil, err
	}
	cfg := res.Config
	if a.flags.verbose {
		cfg.UI.Verbose = true
	}

	out := a.stdout
	if cfg.UI.Output == config.OutputStderr {
		out = a.stderr
	}
	env := config.Resolve(cfg, isTerminal(out))

	level, err := log.ParseLevel(cfg.Log.Level.String())
	if err != nil {
		level = log.InfoLevel
	}
	if env.Verbose {
		level = log.DebugLevel
	}
	logger := log.NewWithOptions(a.stderr, log.Options{
		Prefix: config.AppName,
		Level:  level,
	})
	logger.Debug("configuration loaded", "path", res.Path, "colored", env.Colored, "interactive", env.Interactive)

	return &session{
		cfg:     cfg,
		cfgPath: res.Path,
		env:     env,
		out:     out,
		logger:  logger,
		styles:  style.New(out, env),
	}, nil
}

// renderer returns a SyncRenderer for the session's output stream.
func (s *session) renderer() *render.SyncRenderer {
	return s.rendererFor(render.NewWriterSink(s.out))
}

func (s *session) rendererFor(sink render.Sink) *render.SyncRenderer {
	if s.env.LineErase {
		return render.NewSync(sink, render.WithLineErase())
	}
	return render.NewSync(sink)
}

// width returns the output width for truncation, or 0 when it is not a
// terminal.
func (s *session) width() int {
	f, ok := s.out.(*os.File)
	if !ok || !terminal.IsTerminal(f) {
		return 0
	}
	w, _ := terminal.NewTTY(f, f, s.env).Size()
	return w
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && terminal.IsTerminal(f)
}

func newTTY(out io.Writer, env config.Environment) terminal.Terminal {
	f, ok := out.(*os.File)
	if !ok {
		f = os.Stdout
	}
	return terminal.NewTTY(os.Stdin, f, env)
}
