// SPDX-License-Identifier: MPL-2.0

package render

import (
	"io"
	"os"
	"sync"
)

type (
	// Sink is the destination of rendered control sequences and lines.
	Sink interface {
		Write(content string) error
	}

	// WriterSink adapts an io.Writer into a Sink. Writes are serialized so a
	// single Write call never interleaves with another on the same sink.
	WriterSink struct {
		mu sync.Mutex
		w  io.Writer
	}
)

var (
	stdoutOnce sync.Once
	stdoutSink *WriterSink
	stderrOnce sync.Once
	stderrSink *WriterSink
)

// NewWriterSink wraps w.
func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: w}
}

// Stdout returns the process-wide standard output sink.
func Stdout() *WriterSink {
	stdoutOnce.Do(func() { stdoutSink = NewWriterSink(os.Stdout) })
	return stdoutSink
}

// Stderr returns the process-wide standard error sink.
func Stderr() *WriterSink {
	stderrOnce.Do(func() { stderrSink = NewWriterSink(os.Stderr) })
	return stderrSink
}

// Write implements Sink.
func (s *WriterSink) Write(content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := io.WriteString(s.w, content)
	return err
}
