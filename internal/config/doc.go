// SPDX-License-Identifier: MPL-2.0

// Package config loads liveterm settings with Viper, using CUE as the file
// format.
//
// The file lives at $XDG_CONFIG_HOME/liveterm/config.cue (platform
// equivalents on macOS and Windows) and is validated against the embedded
// #Config schema. Defaults sit below the file; LIVETERM_* variables, NO_COLOR
// and NO_TTY sit above it. Resolve turns the loaded Config plus the terminal
// check into the immutable Environment that widgets receive.
package config
