// SPDX-License-Identifier: MPL-2.0

package config

// Environment is the resolved, immutable view of the terminal settings.
// It is computed once at startup and handed to every widget, so no widget
// inspects the process environment itself.
type Environment struct {
	// Colored enables ANSI styling.
	Colored bool
	// Interactive enables live repainting and raw-mode input. When false,
	// widgets print plain lines instead.
	Interactive bool
	// Output is the stream live regions are written to.
	Output OutputStream
	// LineErase selects the erase-every-line repaint strategy.
	LineErase bool
	// Verbose shows error chains and debug output.
	Verbose bool
}

// Resolve combines cfg with whether the output stream is a terminal.
//
// An explicit always or never wins. With auto, color requires a terminal
// and an unset NO_COLOR, and interactivity requires a terminal and an unset
// NO_TTY.
func Resolve(cfg *Config, isTerminal bool) Environment {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	output := cfg.UI.Output
	if output == "" {
		output = OutputStdout
	}
	return Environment{
		Colored:     resolveMode(cfg.UI.Color, isTerminal && !cfg.NoColor),
		Interactive: resolveMode(cfg.UI.Interactive, isTerminal && !cfg.NoTTY),
		Output:      output,
		LineErase:   cfg.UI.LineErase,
		Verbose:     cfg.UI.Verbose,
	}
}

func resolveMode(m Mode, auto bool) bool {
	switch m {
	case ModeAlways:
		return true
	case ModeNever:
		return false
	default:
		return auto
	}
}
