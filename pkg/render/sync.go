// SPDX-License-Identifier: MPL-2.0

package render

import (
	"strings"
	"sync"
)

type (
	// SyncRenderer is a Renderer shared by concurrent producers, such as a
	// spinner ticking while progress streams push updates. Renders are
	// serialized and each one reaches the sink as a single write.
	SyncRenderer struct {
		mu       sync.Mutex
		renderer *Renderer
		sink     Sink
	}

	// bufferSink collects one render's output before it is flushed.
	bufferSink struct {
		b strings.Builder
	}
)

// NewSync creates a SyncRenderer that draws into sink.
func NewSync(sink Sink, opts ...Option) *SyncRenderer {
	return &SyncRenderer{
		renderer: New(opts...),
		sink:     sink,
	}
}

// Render repaints the region with content. It blocks while another render
// is in progress.
func (s *SyncRenderer) Render(content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Render into a scratch copy so a failed flush leaves the remembered
	// block untouched.
	scratch := &Renderer{lineErase: s.renderer.lineErase, lines: s.renderer.lines}
	var buf bufferSink
	if err := scratch.Render(content, &buf); err != nil {
		return err
	}
	if err := s.sink.Write(buf.b.String()); err != nil {
		return err
	}
	s.renderer.lines = scratch.lines
	return nil
}

// Lines returns a copy of the block drawn by the last render.
func (s *SyncRenderer) Lines() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.renderer.Lines()
}

// Reset forgets the drawn block, leaving it on screen.
func (s *SyncRenderer) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.renderer.Reset()
}

func (b *bufferSink) Write(content string) error {
	b.b.WriteString(content)
	return nil
}
