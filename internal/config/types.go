// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	// ModeAuto decides from the terminal check and the environment.
	ModeAuto Mode = "auto"
	// ModeAlways forces the behavior on.
	ModeAlways Mode = "always"
	// ModeNever forces the behavior off.
	ModeNever Mode = "never"

	// OutputStdout renders live regions on standard output.
	OutputStdout OutputStream = "stdout"
	// OutputStderr renders live regions on standard error.
	OutputStderr OutputStream = "stderr"

	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

var (
	// ErrInvalidMode is returned when a Mode value is not recognized.
	ErrInvalidMode = errors.New("invalid mode")
	// ErrInvalidOutputStream is returned when an OutputStream value is not recognized.
	ErrInvalidOutputStream = errors.New("invalid output stream")
	// ErrInvalidLogLevel is returned when a LogLevel value is not recognized.
	ErrInvalidLogLevel = errors.New("invalid log level")
	// ErrInvalidInterval is returned when an Interval does not parse to a positive duration.
	ErrInvalidInterval = errors.New("invalid interval")
	// ErrInvalidSpinnerType is returned when the spinner type is empty.
	ErrInvalidSpinnerType = errors.New("invalid spinner type")
	// ErrInvalidConfig is the sentinel wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// Mode is a tri-state switch for color and interactivity.
	Mode string

	// InvalidModeError wraps ErrInvalidMode.
	InvalidModeError struct {
		Field string
		Value Mode
	}

	// OutputStream names the stream live output is written to.
	OutputStream string

	// InvalidOutputStreamError wraps ErrInvalidOutputStream.
	InvalidOutputStreamError struct {
		Value OutputStream
	}

	// LogLevel is the minimum level of the CLI logger.
	LogLevel string

	// InvalidLogLevelError wraps ErrInvalidLogLevel.
	InvalidLogLevelError struct {
		Value LogLevel
	}

	// Interval is a Go duration string such as "80ms".
	Interval string

	// InvalidIntervalError wraps ErrInvalidInterval.
	InvalidIntervalError struct {
		Value Interval
	}

	// InvalidSpinnerTypeError wraps ErrInvalidSpinnerType.
	InvalidSpinnerTypeError struct {
		Value string
	}

	// InvalidConfigError collects field errors and wraps ErrInvalidConfig.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the application configuration.
	Config struct {
		UI      UIConfig      `json:"ui" mapstructure:"ui" toml:"ui"`
		Spinner SpinnerConfig `json:"spinner" mapstructure:"spinner" toml:"spinner"`
		Log     LogConfig     `json:"log" mapstructure:"log" toml:"log"`

		// NoColor and NoTTY mirror NO_COLOR and NO_TTY. They come from the
		// environment only and are never written to the config file.
		NoColor bool `json:"-" mapstructure:"-" toml:"-"`
		NoTTY   bool `json:"-" mapstructure:"-" toml:"-"`
	}

	// UIConfig configures terminal output.
	UIConfig struct {
		Color       Mode         `json:"color" mapstructure:"color" toml:"color"`
		Interactive Mode         `json:"interactive" mapstructure:"interactive" toml:"interactive"`
		Output      OutputStream `json:"output" mapstructure:"output" toml:"output"`
		// LineErase clears every line of the previous block with ESC[2K
		// instead of relying on the new content to overwrite it.
		LineErase bool `json:"line_erase" mapstructure:"line_erase" toml:"line_erase"`
		Verbose   bool `json:"verbose" mapstructure:"verbose" toml:"verbose"`
	}

	// SpinnerConfig configures the default spinner.
	SpinnerConfig struct {
		Type     string   `json:"type" mapstructure:"type" toml:"type"`
		Interval Interval `json:"interval" mapstructure:"interval" toml:"interval"`
	}

	// LogConfig configures the CLI logger.
	LogConfig struct {
		Level LogLevel `json:"level" mapstructure:"level" toml:"level"`
	}
)

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		UI: UIConfig{
			Color:       ModeAuto,
			Interactive: ModeAuto,
			Output:      OutputStdout,
		},
		Spinner: SpinnerConfig{
			Type:     "line",
			Interval: "100ms",
		},
		Log: LogConfig{Level: LogLevelInfo},
	}
}

func (m Mode) String() string { return string(m) }

// IsValid reports whether m is auto, always or never.
func (m Mode) IsValid() (bool, []error) {
	switch m {
	case ModeAuto, ModeAlways, ModeNever:
		return true, nil
	default:
		return false, []error{&InvalidModeError{Value: m}}
	}
}

func (e *InvalidModeError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: invalid mode %q (valid: auto, always, never)", e.Field, e.Value)
	}
	return fmt.Sprintf("invalid mode %q (valid: auto, always, never)", e.Value)
}

func (e *InvalidModeError) Unwrap() error { return ErrInvalidMode }

func (o OutputStream) String() string { return string(o) }

// IsValid reports whether o is stdout or stderr.
func (o OutputStream) IsValid() (bool, []error) {
	switch o {
	case OutputStdout, OutputStderr:
		return true, nil
	default:
		return false, []error{&InvalidOutputStreamError{Value: o}}
	}
}

func (e *InvalidOutputStreamError) Error() string {
	return fmt.Sprintf("invalid output stream %q (valid: stdout, stderr)", e.Value)
}

func (e *InvalidOutputStreamError) Unwrap() error { return ErrInvalidOutputStream }

func (l LogLevel) String() string { return string(l) }

// IsValid reports whether l is a known level.
func (l LogLevel) IsValid() (bool, []error) {
	switch l {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
		return true, nil
	default:
		return false, []error{&InvalidLogLevelError{Value: l}}
	}
}

func (e *InvalidLogLevelError) Error() string {
	return fmt.Sprintf("invalid log level %q (valid: debug, info, warn, error)", e.Value)
}

func (e *InvalidLogLevelError) Unwrap() error { return ErrInvalidLogLevel }

func (i Interval) String() string { return string(i) }

// Duration parses the interval. Invalid values yield an *InvalidIntervalError.
func (i Interval) Duration() (time.Duration, error) {
	d, err := time.ParseDuration(strings.TrimSpace(string(i)))
	if err != nil || d <= 0 {
		return 0, &InvalidIntervalError{Value: i}
	}
	return d, nil
}

// IsValid reports whether the interval is a positive duration.
func (i Interval) IsValid() (bool, []error) {
	if _, err := i.Duration(); err != nil {
		return false, []error{err}
	}
	return true, nil
}

func (e *InvalidIntervalError) Error() string {
	return fmt.Sprintf("invalid interval %q: must be a positive duration such as 80ms", e.Value)
}

func (e *InvalidIntervalError) Unwrap() error { return ErrInvalidInterval }

func (e *InvalidSpinnerTypeError) Error() string {
	return fmt.Sprintf("invalid spinner type %q", e.Value)
}

func (e *InvalidSpinnerTypeError) Unwrap() error { return ErrInvalidSpinnerType }

// IsValid validates every field. Spinner names are checked by the schema
// and again by the spinner package; here only emptiness is rejected.
func (c Config) IsValid() (bool, []error) {
	var errs []error
	if ok, fieldErrs := c.UI.Color.IsValid(); !ok {
		errs = append(errs, withField("ui.color", fieldErrs)...)
	}
	if ok, fieldErrs := c.UI.Interactive.IsValid(); !ok {
		errs = append(errs, withField("ui.interactive", fieldErrs)...)
	}
	if ok, fieldErrs := c.UI.Output.IsValid(); !ok {
		errs = append(errs, fieldErrs...)
	}
	if strings.TrimSpace(c.Spinner.Type) == "" {
		errs = append(errs, &InvalidSpinnerTypeError{Value: c.Spinner.Type})
	}
	if ok, fieldErrs := c.Spinner.Interval.IsValid(); !ok {
		errs = append(errs, fieldErrs...)
	}
	if ok, fieldErrs := c.Log.Level.IsValid(); !ok {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

func withField(field string, errs []error) []error {
	for _, err := range errs {
		if me, ok := err.(*InvalidModeError); ok {
			me.Field = field
		}
	}
	return errs
}

func (e *InvalidConfigError) Error() string {
	msgs := make([]string, len(e.FieldErrors))
	for i, err := range e.FieldErrors {
		msgs[i] = err.Error()
	}
	return "invalid config: " + strings.Join(msgs, "; ")
}

// Unwrap exposes ErrInvalidConfig and every field error to errors.Is/As.
func (e *InvalidConfigError) Unwrap() []error {
	return append([]error{ErrInvalidConfig}, e.FieldErrors...)
}
