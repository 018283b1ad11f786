// SPDX-License-Identifier: MPL-2.0

// liveterm repaints terminal regions in place, decodes raw keystrokes and
// shows progress for shell scripts.
package main

import cmd "github.com/invowk/liveterm/cmd/liveterm"

func main() {
	cmd.Execute()
}
