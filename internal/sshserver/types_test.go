// SPDX-License-Identifier: MPL-2.0

package sshserver

import (
	"errors"
	"testing"
	"time"
)

func TestHostAddress_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		value   HostAddress
		wantErr bool
	}{
		{"127.0.0.1", false},
		{"localhost", false},
		{"", true},
		{"   ", true},
	}

	for _, tt := range tests {
		err := tt.value.Validate()
		if (err != nil) != tt.wantErr {
			t.Errorf("HostAddress(%q).Validate() error = %v, wantErr %v", tt.value, err, tt.wantErr)
			continue
		}
		if err != nil && !errors.Is(err, ErrInvalidHostAddress) {
			t.Errorf("error should wrap ErrInvalidHostAddress, got %v", err)
		}
	}
}

func TestListenPort_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		value   ListenPort
		wantErr bool
	}{
		{0, false},
		{2222, false},
		{65535, false},
		{-1, true},
		{65536, true},
	}

	for _, tt := range tests {
		err := tt.value.Validate()
		if (err != nil) != tt.wantErr {
			t.Errorf("ListenPort(%d).Validate() error = %v, wantErr %v", tt.value, err, tt.wantErr)
			continue
		}
		var portErr *InvalidListenPortError
		if err != nil && (!errors.As(err, &portErr) || portErr.Value != tt.value) {
			t.Errorf("error = %#v, want *InvalidListenPortError", err)
		}
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("DefaultConfig().Validate() = %v", err)
	}

	cfg := Config{Host: " ", Port: 70000, IdleTimeout: -time.Second}
	err := cfg.Validate()
	if !errors.Is(err, ErrInvalidSSHConfig) {
		t.Fatalf("Validate() error = %v, want ErrInvalidSSHConfig", err)
	}
	if !errors.Is(err, ErrInvalidHostAddress) || !errors.Is(err, ErrInvalidListenPort) {
		t.Errorf("field errors should be reachable, got %v", err)
	}
	var cfgErr *InvalidSSHConfigError
	if !errors.As(err, &cfgErr) || len(cfgErr.FieldErrors) != 3 {
		t.Errorf("FieldErrors = %v, want 3", cfgErr)
	}
}

func TestConfig_WithDefaults(t *testing.T) {
	t.Parallel()

	cfg := Config{}.withDefaults()
	if cfg.Host != defaultHost || cfg.ShutdownTimeout != defaultShutdownTimeout || cfg.StartupTimeout != defaultStartupTimeout {
		t.Errorf("withDefaults() = %+v", cfg)
	}

	custom := Config{Host: "0.0.0.0", StartupTimeout: time.Second}.withDefaults()
	if custom.Host != "0.0.0.0" || custom.StartupTimeout != time.Second {
		t.Errorf("withDefaults() overrode explicit fields: %+v", custom)
	}
}
