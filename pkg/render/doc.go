// SPDX-License-Identifier: MPL-2.0

// Package render keeps a single live block of text on an ANSI terminal.
//
// Each Render call erases the block drawn by the previous call and draws the
// new content below the cursor, so widgets can express their whole visual
// state as a string and let the renderer repaint it in place.
package render
