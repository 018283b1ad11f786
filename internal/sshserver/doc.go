// SPDX-License-Identifier: MPL-2.0

// Package sshserver serves the keystroke echo widget over SSH using Wish.
//
// Each session must request a PTY. Session input is decoded into keystrokes
// and the widget repaints in place on the remote terminal, so the same
// incremental rendering used locally is exercised over the network.
package sshserver
