// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"testing"
)

func TestExitError(t *testing.T) {
	t.Parallel()

	cause := errors.New("exit status 3")
	tests := []struct {
		name   string
		err    *ExitError
		want   string
		wantIs error
	}{
		{name: "with cause", err: &ExitError{Code: 3, Err: cause}, want: "exit status 3", wantIs: cause},
		{name: "code only", err: &ExitError{Code: 4}, want: "exit status 4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
			if tt.wantIs != nil && !errors.Is(tt.err, tt.wantIs) {
				t.Errorf("errors.Is(%v, cause) = false", tt.err)
			}
			if tt.wantIs == nil && tt.err.Unwrap() != nil {
				t.Errorf("Unwrap() = %v, want nil", tt.err.Unwrap())
			}
		})
	}
}
