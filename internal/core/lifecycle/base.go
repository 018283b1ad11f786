// SPDX-License-Identifier: MPL-2.0

package lifecycle

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
)

type (
	// Base is embedded by single-use workers. Once stopped or failed, a new
	// instance is needed.
	Base struct {
		state atomic.Int32

		mu      sync.Mutex
		lastErr error

		ctx    context.Context
		cancel context.CancelFunc
		wg     sync.WaitGroup

		ready     chan struct{}
		errCh     chan error
		closeOnce sync.Once
	}

	// Option configures a Base.
	Option func(*Base)
)

// WithErrorBuffer sets the capacity of the Err channel (default 1).
func WithErrorBuffer(size int) Option {
	return func(b *Base) {
		b.errCh = make(chan error, max(size, 0))
	}
}

// New returns a Base in StateCreated.
func New(opts ...Option) *Base {
	b := &Base{
		ready: make(chan struct{}),
		errCh: make(chan error, 1),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// State returns the current state without locking.
func (b *Base) State() State {
	return State(b.state.Load())
}

// IsRunning reports whether the worker is in StateRunning.
func (b *Base) IsRunning() bool {
	return b.State() == StateRunning
}

// Err delivers asynchronous failures. It is closed by Finish.
func (b *Base) Err() <-chan error {
	return b.errCh
}

// Ready is closed once the worker reaches StateRunning.
func (b *Base) Ready() <-chan struct{} {
	return b.ready
}

// LastError returns the error that moved the worker to StateFailed.
func (b *Base) LastError() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastErr
}

// Begin moves Created to Starting and returns the worker context. The worker
// context keeps the values of ctx but is only cancelled by Halt or Fail, so
// a short-lived startup context does not tear the worker down.
func (b *Base) Begin(ctx context.Context) (context.Context, error) {
	if err := ctx.Err(); err != nil {
		b.Fail(fmt.Errorf("context cancelled before start: %w", err))
		return nil, b.LastError()
	}
	if !b.state.CompareAndSwap(int32(StateCreated), int32(StateStarting)) {
		return nil, fmt.Errorf("cannot start in state %s", b.State())
	}

	b.mu.Lock()
	b.ctx, b.cancel = context.WithCancel(context.WithoutCancel(ctx))
	wctx := b.ctx
	b.mu.Unlock()
	return wctx, nil
}

// MarkRunning moves Starting to Running and closes the Ready channel.
func (b *Base) MarkRunning() {
	if b.state.CompareAndSwap(int32(StateStarting), int32(StateRunning)) {
		close(b.ready)
	}
}

// Fail records err, cancels the worker context and moves to StateFailed.
func (b *Base) Fail(err error) {
	b.mu.Lock()
	b.lastErr = err
	cancel := b.cancel
	b.mu.Unlock()

	b.state.Store(int32(StateFailed))
	if cancel != nil {
		cancel()
	}
	b.Report(err)
}

// Report forwards err to Err without blocking; it is dropped when the
// buffer is full.
func (b *Base) Report(err error) {
	select {
	case b.errCh <- err:
	default:
	}
}

// Go runs fn on a tracked goroutine with the worker context.
func (b *Base) Go(fn func(ctx context.Context)) {
	b.mu.Lock()
	ctx := b.ctx
	b.mu.Unlock()
	if ctx == nil {
		ctx = context.Background()
	}
	b.wg.Go(func() { fn(ctx) })
}

// Halt moves a Starting or Running worker to Stopping and cancels its
// context. It reports false when there is nothing to stop: the worker never
// started (it is marked Stopped), is already stopping, or has terminated.
func (b *Base) Halt() bool {
	for {
		current := b.State()
		switch current {
		case StateCreated:
			if b.state.CompareAndSwap(int32(StateCreated), int32(StateStopped)) {
				return false
			}
		case StateStarting, StateRunning:
			if !b.state.CompareAndSwap(int32(current), int32(StateStopping)) {
				continue
			}
			b.mu.Lock()
			cancel := b.cancel
			b.mu.Unlock()
			if cancel != nil {
				cancel()
			}
			return true
		default:
			return false
		}
	}
}

// Wait blocks until every goroutine started with Go has returned.
func (b *Base) Wait() {
	b.wg.Wait()
}

// Finish waits for the goroutines, marks the worker Stopped (unless it
// failed) and closes the Err channel. Calling it more than once is safe.
func (b *Base) Finish() {
	b.wg.Wait()
	b.state.CompareAndSwap(int32(StateStopping), int32(StateStopped))
	b.closeOnce.Do(func() { close(b.errCh) })
}

// WaitForReady blocks until the worker is running or ctx is done.
func (b *Base) WaitForReady(ctx context.Context) error {
	select {
	case <-b.ready:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("waiting for readiness: %w", ctx.Err())
	}
}
