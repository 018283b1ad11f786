// SPDX-License-Identifier: MPL-2.0

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// GenerateCUE renders cfg in the config.cue format.
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder

	sb.WriteString("// liveterm configuration\n")
	sb.WriteString("// Every field is optional. LIVETERM_* variables override these values.\n\n")

	sb.WriteString("ui: {\n")
	fmt.Fprintf(&sb, "\tcolor:       %q\n", cfg.UI.Color)
	fmt.Fprintf(&sb, "\tinteractive: %q\n", cfg.UI.Interactive)
	fmt.Fprintf(&sb, "\toutput:      %q\n", cfg.UI.Output)
	fmt.Fprintf(&sb, "\tline_erase:  %v\n", cfg.UI.LineErase)
	fmt.Fprintf(&sb, "\tverbose:     %v\n", cfg.UI.Verbose)
	sb.WriteString("}\n\n")

	sb.WriteString("spinner: {\n")
	fmt.Fprintf(&sb, "\ttype:     %q\n", cfg.Spinner.Type)
	fmt.Fprintf(&sb, "\tinterval: %q\n", cfg.Spinner.Interval)
	sb.WriteString("}\n\n")

	sb.WriteString("log: {\n")
	fmt.Fprintf(&sb, "\tlevel: %q\n", cfg.Log.Level)
	sb.WriteString("}\n")

	return sb.String()
}

// MarshalTOML renders cfg as TOML for 'config show --format toml'.
func MarshalTOML(cfg *Config) ([]byte, error) {
	out, err := toml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config as TOML: %w", err)
	}
	return out, nil
}

// WriteDefault writes the default config to path, creating parent
// directories. An existing file is left alone unless force is set; the
// returned bool reports whether a file was written.
func WriteDefault(path string, force bool) (bool, error) {
	if !force && fileExists(path) {
		return false, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(GenerateCUE(DefaultConfig())), 0o644); err != nil {
		return false, fmt.Errorf("failed to write config file: %w", err)
	}
	return true, nil
}
