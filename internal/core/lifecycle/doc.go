// SPDX-License-Identifier: MPL-2.0

// Package lifecycle tracks the start/stop state of background workers such
// as the spinner ticker and the SSH server, and owns the goroutines they run.
package lifecycle
