// SPDX-License-Identifier: MPL-2.0

package terminal

import (
	"slices"
	"strings"
	"sync"

	"github.com/invowk/liveterm/internal/config"
	"github.com/invowk/liveterm/pkg/keystroke"
)

// Virtual is an in-memory Terminal with scripted input and recorded
// output. It is safe for concurrent use.
type Virtual struct {
	mu         sync.Mutex
	env        config.Environment
	src        keystroke.ByteSource
	writes     []string
	writeErr   error
	rawDepth   int
	rawEntries int
	width      int
}

// NewVirtual returns a Virtual whose input replays the bytes of input.
func NewVirtual(input string, env config.Environment) *Virtual {
	return &Virtual{
		env:   env,
		src:   keystroke.StringSource(input),
		width: DefaultWidth,
	}
}

func (v *Virtual) Environment() config.Environment {
	return v.env
}

// Write records content, or fails with the error set by FailWrites.
func (v *Virtual) Write(content string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.writeErr != nil {
		return v.writeErr
	}
	v.writes = append(v.writes, content)
	return nil
}

func (v *Virtual) ReadCharacter() (rune, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return keystroke.ReadCharacter(v.src)
}

func (v *Virtual) NextByte() (byte, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.src()
}

func (v *Virtual) InRawMode(fn func() error) error {
	v.mu.Lock()
	v.rawDepth++
	if v.rawDepth == 1 {
		v.rawEntries++
	}
	v.mu.Unlock()

	defer func() {
		v.mu.Lock()
		v.rawDepth--
		v.mu.Unlock()
	}()
	return fn()
}

// FailWrites makes every following Write return err; nil restores success.
func (v *Virtual) FailWrites(err error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.writeErr = err
}

// SetWidth sets the width reported by Size.
func (v *Virtual) SetWidth(width int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.width = width
}

// Size returns the configured width and the default height.
func (v *Virtual) Size() (width, height int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.width, DefaultHeight
}

// Writes returns every recorded write in order.
func (v *Virtual) Writes() []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return slices.Clone(v.writes)
}

// Output returns the concatenation of all writes.
func (v *Virtual) Output() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return strings.Join(v.writes, "")
}

// Raw reports whether a raw-mode scope is active.
func (v *Virtual) Raw() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.rawDepth > 0
}

// RawEntries counts outermost raw-mode acquisitions.
func (v *Virtual) RawEntries() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.rawEntries
}
