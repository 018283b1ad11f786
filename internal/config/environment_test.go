// SPDX-License-Identifier: MPL-2.0

package config

import "testing"

func TestResolve(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name            string
		mutate          func(*Config)
		isTerminal      bool
		wantColored     bool
		wantInteractive bool
	}{
		{"auto on terminal", nil, true, true, true},
		{"auto off terminal", nil, false, false, false},
		{"NO_COLOR on terminal", func(c *Config) { c.NoColor = true }, true, false, true},
		{"NO_TTY on terminal", func(c *Config) { c.NoTTY = true }, true, true, false},
		{
			"always beats NO_COLOR and pipes",
			func(c *Config) { c.NoColor = true; c.UI.Color = ModeAlways; c.UI.Interactive = ModeAlways },
			false, true, true,
		},
		{
			"never on terminal",
			func(c *Config) { c.UI.Color = ModeNever; c.UI.Interactive = ModeNever },
			true, false, false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := DefaultConfig()
			if tt.mutate != nil {
				tt.mutate(cfg)
			}
			env := Resolve(cfg, tt.isTerminal)
			if env.Colored != tt.wantColored {
				t.Errorf("Colored = %v, want %v", env.Colored, tt.wantColored)
			}
			if env.Interactive != tt.wantInteractive {
				t.Errorf("Interactive = %v, want %v", env.Interactive, tt.wantInteractive)
			}
		})
	}
}

func TestResolve_PassesThrough(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.UI.Output = OutputStderr
	cfg.UI.LineErase = true
	cfg.UI.Verbose = true

	env := Resolve(cfg, true)
	if env.Output != OutputStderr || !env.LineErase || !env.Verbose {
		t.Errorf("unexpected environment %+v", env)
	}

	if got := Resolve(nil, false); got.Output != OutputStdout || got.Colored {
		t.Errorf("nil config should resolve from defaults, got %+v", got)
	}
}
