// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Ryan Johnson

package rdpbridge

import (
	"errors"
	"strings"
	"testing"
)

func TestValidation_Required(t *testing.T) {
	iv := newInputValidator()

	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{"value present", "alice", false},
		{"empty", "", true},
		{"whitespace only", " \t ", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := iv.ValidateRequired("username", tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateRequired() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !strings.Contains(err.Error(), "username is required") {
				t.Errorf("ValidateRequired() error %q does not name the field", err)
			}
		})
	}
}

func TestValidation_Destination(t *testing.T) {
	iv := newInputValidator()

	tests := []struct {
		name        string
		destination string
		wantErr     bool
	}{
		{"ipv4 with port", "10.0.0.5:3389", false},
		{"hostname with port", "desktop.example.com:3389", false},
		{"ipv6 with port", "[::1]:3389", false},
		{"highest port", "host:65535", false},
		{"empty", "", true},
		{"missing port", "10.0.0.5", true},
		{"empty host", ":3389", true},
		{"port zero", "host:0", true},
		{"port too large", "host:65536", true},
		{"non-numeric port", "host:rdp", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := iv.ValidateDestination(tt.destination)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateDestination(%q) error = %v, wantErr %v", tt.destination, err, tt.wantErr)
			}
			if err != nil && !IsBridgeError(err, ErrValidation) {
				t.Errorf("ValidateDestination() returned %T, want validation BridgeError", err)
			}
		})
	}
}

func TestValidation_ProxyAddress(t *testing.T) {
	iv := newInputValidator()

	tests := []struct {
		name    string
		address string
		wantErr bool
	}{
		{"secure websocket", "wss://gateway.example.com/jet/rdp", false},
		{"plain websocket with port", "ws://127.0.0.1:7171/jet/rdp", false},
		{"https", "https://gateway.example.com", false},
		{"http", "http://localhost:8080", false},
		{"empty", "", true},
		{"unsupported scheme", "tcp://gateway.example.com:443", true},
		{"no scheme", "gateway.example.com:443", true},
		{"no host", "wss:///jet/rdp", true},
		{"malformed", "wss://[::1", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := iv.ValidateProxyAddress(tt.address)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateProxyAddress(%q) error = %v, wantErr %v", tt.address, err, tt.wantErr)
			}
		})
	}
}

func TestValidation_DesktopSize(t *testing.T) {
	iv := newInputValidator()

	tests := []struct {
		name          string
		width, height int
		wantErr       bool
	}{
		{"default size", 1280, 720, false},
		{"smallest", 1, 1, false},
		{"largest", MaxDesktopDimension, MaxDesktopDimension, false},
		{"zero width", 0, 720, true},
		{"negative height", 1280, -1, true},
		{"too wide", MaxDesktopDimension + 1, 720, true},
		{"too tall", 1280, MaxDesktopDimension + 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := iv.ValidateDesktopSize(tt.width, tt.height)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateDesktopSize(%d, %d) error = %v, wantErr %v", tt.width, tt.height, err, tt.wantErr)
			}
		})
	}
}

func TestValidation_TextData(t *testing.T) {
	iv := newInputValidator()

	tests := []struct {
		name      string
		text      string
		maxLength int
		wantErr   bool
	}{
		{"valid text", "Hello, World!", 100, false},
		{"text with newlines", "Line 1\nLine 2\r\nLine 3", 100, false},
		{"empty text", "", 100, false},
		{"text too long", strings.Repeat("a", 101), 100, true},
		{"invalid UTF-8", "Hello\xff\xfeWorld", 100, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := iv.ValidateTextData(tt.text, tt.maxLength)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateTextData() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidation_SanitizeText(t *testing.T) {
	iv := newInputValidator()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"clean text", "Hello, World!", "Hello, World!"},
		{"text with allowed whitespace", "Line 1\nLine 2\r\nTab\there", "Line 1\nLine 2\r\nTab\there"},
		{"text with control characters", "Hello\x01\x02World", "Hello  World"},
		{"empty string", "", ""},
		{"text with non-printable characters", "Hello\x7FWorld", "Hello\uFFFDWorld"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := iv.SanitizeText(tt.input); result != tt.expected {
				t.Errorf("SanitizeText() = %q, want %q", result, tt.expected)
			}
		})
	}
}

func TestValidation_DescribeError(t *testing.T) {
	iv := newInputValidator()

	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "engine error",
			err:      NewEngineError(EngineNegotiationFailure, "server refused TLS"),
			expected: "engine NegotiationFailure: server refused TLS",
		},
		{
			name:     "control characters in diagnostic",
			err:      NewEngineError(EngineGeneral, "bad\x1b[31m state"),
			expected: "engine General: bad [31m state",
		},
		{
			name:     "invalid UTF-8",
			err:      errors.New("oops\xff"),
			expected: "oops\uFFFD",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := iv.describeError(tt.err); got != tt.expected {
				t.Errorf("describeError() = %q, want %q", got, tt.expected)
			}
		})
	}

	long := iv.describeError(errors.New(strings.Repeat("x", MaxDiagnosticLength+10)))
	if len(long) != MaxDiagnosticLength {
		t.Errorf("describeError() length = %d, want %d", len(long), MaxDiagnosticLength)
	}
}
