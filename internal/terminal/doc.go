// SPDX-License-Identifier: MPL-2.0

// Package terminal abstracts the terminal a live region is drawn on: text
// output, character input and the scoped raw-mode acquisition. TTY is the
// real implementation; Virtual is the deterministic double used in tests.
package terminal
