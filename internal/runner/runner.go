// SPDX-License-Identifier: MPL-2.0

// Package runner executes shell scripts in-process with mvdan.cc/sh and
// streams their output line by line.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

const (
	// Stdout marks lines written to standard output.
	Stdout Stream = iota
	// Stderr marks lines written to standard error.
	Stderr
)

type (
	// Stream identifies the output stream a line came from.
	Stream int

	// Line is one line of script output without its newline.
	Line struct {
		Stream Stream
		Text   string
	}

	// Options configures a script run.
	Options struct {
		// Dir is the working directory; empty uses the current one.
		Dir string
		// Env replaces the process environment when non-nil.
		Env []string
		// Args are the positional parameters ($1, $2, ...).
		Args []string
		// Stdin feeds the script; nil reads nothing.
		Stdin io.Reader
	}

	// Result is the outcome of a run. Error is set when the script could not
	// be run at all, as opposed to exiting with a non-zero status.
	Result struct {
		ExitCode int
		Error    error
	}

	// lineWriter splits a byte stream into lines. Both streams of a run
	// share mu so onLine is never called concurrently.
	lineWriter struct {
		mu     *sync.Mutex
		stream Stream
		buf    bytes.Buffer
		onLine func(Line)
	}
)

// String returns "stdout" or "stderr".
func (s Stream) String() string {
	if s == Stderr {
		return "stderr"
	}
	return "stdout"
}

// Validate parses script and reports syntax errors.
func Validate(script string) error {
	if _, err := syntax.NewParser().Parse(strings.NewReader(script), "script"); err != nil {
		return fmt.Errorf("script syntax error: %w", err)
	}
	return nil
}

// Run executes script and hands every output line to onLine. A trailing
// line without a newline is delivered once the script ends.
func Run(ctx context.Context, script string, opts Options, onLine func(Line)) *Result {
	prog, err := syntax.NewParser().Parse(strings.NewReader(script), "script")
	if err != nil {
		return &Result{ExitCode: 1, Error: fmt.Errorf("failed to parse script: %w", err)}
	}

	env := opts.Env
	if env == nil {
		env = os.Environ()
	}

	var mu sync.Mutex
	stdout := &lineWriter{mu: &mu, stream: Stdout, onLine: onLine}
	stderr := &lineWriter{mu: &mu, stream: Stderr, onLine: onLine}

	runnerOpts := []interp.RunnerOption{
		interp.Env(expand.ListEnviron(env...)),
		interp.StdIO(opts.Stdin, stdout, stderr),
	}
	if opts.Dir != "" {
		runnerOpts = append(runnerOpts, interp.Dir(opts.Dir))
	}
	// "--" ends option parsing so arguments like "-v" stay positional.
	if len(opts.Args) > 0 {
		runnerOpts = append(runnerOpts, interp.Params(append([]string{"--"}, opts.Args...)...))
	}

	r, err := interp.New(runnerOpts...)
	if err != nil {
		return &Result{ExitCode: 1, Error: fmt.Errorf("failed to create interpreter: %w", err)}
	}

	err = r.Run(ctx, prog)
	stdout.flush()
	stderr.flush()

	if err != nil {
		var exitStatus interp.ExitStatus
		if errors.As(err, &exitStatus) {
			return &Result{ExitCode: int(exitStatus)}
		}
		return &Result{ExitCode: 1, Error: fmt.Errorf("script execution failed: %w", err)}
	}
	return &Result{ExitCode: 0}
}

// Err returns the failure as an error: the run error, or an exit status
// error for a non-zero exit code.
func (r *Result) Err() error {
	switch {
	case r.Error != nil:
		return r.Error
	case r.ExitCode != 0:
		return fmt.Errorf("exit status %d", r.ExitCode)
	default:
		return nil
	}
}

func (w *lineWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.buf.Write(p)
	for {
		i := bytes.IndexByte(w.buf.Bytes(), '\n')
		if i < 0 {
			break
		}
		line := string(w.buf.Next(i + 1))
		w.emit(strings.TrimSuffix(line[:i], "\r"))
	}
	return len(p), nil
}

func (w *lineWriter) flush() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.buf.Len() > 0 {
		w.emit(w.buf.String())
		w.buf.Reset()
	}
}

func (w *lineWriter) emit(text string) {
	if w.onLine != nil {
		w.onLine(Line{Stream: w.stream, Text: text})
	}
}
