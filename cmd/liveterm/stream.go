// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/invowk/liveterm/internal/liveregion"
	"github.com/invowk/liveterm/internal/runner"

	"github.com/spf13/cobra"
)

func newStreamCommand(app *App) *cobra.Command {
	var tail int

	cmd := &cobra.Command{
		Use:   "stream <script>...",
		Short: "Run shell scripts in parallel inside a live region",
		Long: `Run shell scripts in parallel inside a live region.

Every script gets a section showing its status and last output lines.
Finished sections collapse to a single line. liveterm exits with status 1
when any script fails.`,
		Example: `  liveterm stream 'make lint' 'make test' 'make docs'`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStream(cmd.Context(), app, args, tail)
		},
	}
	cmd.Flags().IntVar(&tail, "tail", liveregion.DefaultTail, "output lines shown per running script")
	return cmd
}

// lineSink receives the output of one script.
type lineSink interface {
	Append(text string) error
	Done(err error) error
}

// plainSection prints output lines prefixed with the script, for output
// that is not an interactive terminal.
type plainSection struct {
	mu    *sync.Mutex
	out   io.Writer
	title string
	sess  *session
}

func runStream(ctx context.Context, app *App, scripts []string, tail int) error {
	sess, err := app.loadSession(ctx)
	if err != nil {
		return err
	}
	for _, script := range scripts {
		if err := runner.Validate(script); err != nil {
			return scriptError(script, err)
		}
	}

	var region *liveregion.Region
	sinks := make([]lineSink, len(scripts))
	if sess.env.Interactive {
		region = liveregion.New(sess.renderer(), liveregion.Options{
			Tail:   tail,
			Width:  sess.width(),
			Styles: sess.styles,
		})
		for i, script := range scripts {
			section, err := region.Add(script)
			if err != nil {
				return err
			}
			sinks[i] = section
		}
	} else {
		var mu sync.Mutex
		for i, script := range scripts {
			sinks[i] = &plainSection{mu: &mu, out: sess.out, title: script, sess: sess}
		}
	}

	var (
		wg       sync.WaitGroup
		failedMu sync.Mutex
		failed   int
	)
	for i, script := range scripts {
		sink := sinks[i]
		wg.Go(func() {
			res := runner.Run(ctx, script, runner.Options{}, func(line runner.Line) {
				if err := sink.Append(line.Text); err != nil {
					sess.logger.Debug("dropped output", "script", script, "error", err)
				}
			})
			runErr := res.Err()
			if runErr != nil {
				failedMu.Lock()
				failed++
				failedMu.Unlock()
			}
			if err := sink.Done(runErr); err != nil {
				sess.logger.Debug("status not shown", "script", script, "error", err)
			}
		})
	}
	wg.Wait()

	if region != nil {
		if err := region.Close(); err != nil {
			return err
		}
	}
	if failed > 0 {
		return &ExitError{Code: 1, Err: fmt.Errorf("%d of %d scripts failed", failed, len(scripts))}
	}
	return nil
}

func (p *plainSection) Append(text string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, err := fmt.Fprintf(p.out, "%s | %s\n", p.title, text)
	return err
}

func (p *plainSection) Done(err error) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err != nil {
		_, werr := fmt.Fprintf(p.out, "%s %s: %s\n", p.sess.styles.FailureMark(), p.title, formatErrorForDisplay(err, p.sess.env.Verbose))
		return werr
	}
	_, werr := fmt.Fprintf(p.out, "%s %s\n", p.sess.styles.SuccessMark(), p.title)
	return werr
}
