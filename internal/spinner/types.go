// SPDX-License-Identifier: MPL-2.0

package spinner

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	// SpinnerLine is a simple line spinner.
	SpinnerLine SpinnerType = iota
	// SpinnerDot is a dot spinner.
	SpinnerDot
	// SpinnerMiniDot is a mini dot spinner.
	SpinnerMiniDot
	// SpinnerJump is a jumping spinner.
	SpinnerJump
	// SpinnerPulse is a pulsing spinner.
	SpinnerPulse
	// SpinnerPoints is a points spinner.
	SpinnerPoints
	// SpinnerGlobe is a globe spinner.
	SpinnerGlobe
	// SpinnerMoon is a moon phases spinner.
	SpinnerMoon
	// SpinnerMonkey is a monkey spinner.
	SpinnerMonkey
	// SpinnerMeter is a meter spinner.
	SpinnerMeter
	// SpinnerHamburger is a hamburger spinner.
	SpinnerHamburger
	// SpinnerEllipsis is an ellipsis spinner.
	SpinnerEllipsis
)

// ErrInvalidSpinnerType is the sentinel error wrapped by InvalidSpinnerTypeError.
var ErrInvalidSpinnerType = errors.New("invalid spinner type")

type (
	// SpinnerType represents the type of spinner animation.
	SpinnerType int

	// InvalidSpinnerTypeError is returned when a SpinnerType value is not
	// one of the defined spinner types.
	InvalidSpinnerTypeError struct {
		Value SpinnerType
	}

	// UnknownSpinnerNameError is returned by ParseSpinnerType.
	UnknownSpinnerNameError struct {
		Name string
	}

	// animation is a frame set and its default pace.
	animation struct {
		frames   []string
		interval time.Duration
	}
)

var animations = [...]animation{
	SpinnerLine:      {frames: []string{"|", "/", "-", "\\"}, interval: 100 * time.Millisecond},
	SpinnerDot:       {frames: []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}, interval: 100 * time.Millisecond},
	SpinnerMiniDot:   {frames: []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}, interval: 83 * time.Millisecond},
	SpinnerJump:      {frames: []string{"⢄", "⢂", "⢁", "⡁", "⡈", "⡐", "⡠"}, interval: 100 * time.Millisecond},
	SpinnerPulse:     {frames: []string{"█", "▓", "▒", "░"}, interval: 125 * time.Millisecond},
	SpinnerPoints:    {frames: []string{"∙∙∙", "●∙∙", "∙●∙", "∙∙●"}, interval: 143 * time.Millisecond},
	SpinnerGlobe:     {frames: []string{"🌍", "🌎", "🌏"}, interval: 250 * time.Millisecond},
	SpinnerMoon:      {frames: []string{"🌑", "🌒", "🌓", "🌔", "🌕", "🌖", "🌗", "🌘"}, interval: 125 * time.Millisecond},
	SpinnerMonkey:    {frames: []string{"🙈", "🙉", "🙊"}, interval: 333 * time.Millisecond},
	SpinnerMeter:     {frames: []string{"▱▱▱", "▰▱▱", "▰▰▱", "▰▰▰", "▰▰▱", "▰▱▱", "▱▱▱"}, interval: 143 * time.Millisecond},
	SpinnerHamburger: {frames: []string{"☱", "☲", "☴", "☲"}, interval: 333 * time.Millisecond},
	SpinnerEllipsis:  {frames: []string{"", ".", "..", "..."}, interval: 333 * time.Millisecond},
}

// Error implements the error interface.
func (e *InvalidSpinnerTypeError) Error() string {
	return fmt.Sprintf("invalid spinner type %d (valid: %s)",
		int(e.Value), strings.Join(SpinnerTypeNames(), ", "))
}

// Unwrap returns ErrInvalidSpinnerType for errors.Is() compatibility.
func (e *InvalidSpinnerTypeError) Unwrap() error { return ErrInvalidSpinnerType }

// Error implements the error interface.
func (e *UnknownSpinnerNameError) Error() string {
	return fmt.Sprintf("unknown spinner type %q (valid: %s)", e.Name, strings.Join(SpinnerTypeNames(), ", "))
}

// Unwrap returns ErrInvalidSpinnerType for errors.Is() compatibility.
func (e *UnknownSpinnerNameError) Unwrap() error { return ErrInvalidSpinnerType }

// Validate returns nil if the SpinnerType is one of the defined types,
// or an error wrapping ErrInvalidSpinnerType if it is not.
func (t SpinnerType) Validate() error {
	if t < SpinnerLine || t > SpinnerEllipsis {
		return &InvalidSpinnerTypeError{Value: t}
	}
	return nil
}

// String returns the name of the SpinnerType (e.g., "line", "dot").
// Unknown values return "unknown(<N>)".
func (t SpinnerType) String() string {
	names := SpinnerTypeNames()
	if int(t) >= 0 && int(t) < len(names) {
		return names[t]
	}
	return fmt.Sprintf("unknown(%d)", t)
}

// Frames returns a copy of the animation frames. Invalid types fall back to
// the line spinner.
func (t SpinnerType) Frames() []string {
	return append([]string(nil), t.animation().frames...)
}

// Interval returns the default time between frames.
func (t SpinnerType) Interval() time.Duration {
	return t.animation().interval
}

func (t SpinnerType) animation() animation {
	if t.Validate() != nil {
		return animations[SpinnerLine]
	}
	return animations[t]
}

// ParseSpinnerType parses a name into a SpinnerType.
func ParseSpinnerType(s string) (SpinnerType, error) {
	for i, name := range SpinnerTypeNames() {
		if name == s {
			return SpinnerType(i), nil
		}
	}
	return 0, &UnknownSpinnerNameError{Name: s}
}

// SpinnerTypeNames returns the list of available spinner type names.
func SpinnerTypeNames() []string {
	return []string{
		"line", "dot", "minidot", "jump", "pulse", "points",
		"globe", "moon", "monkey", "meter", "hamburger", "ellipsis",
	}
}
