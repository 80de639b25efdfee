// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Ryan Johnson

package rdpbridge

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Limits enforced by InputValidator.
const (
	MaxDesktopDimension = 8192
	MaxDiagnosticLength = 64 * 1024
)

// InputValidator validates connection parameters before they reach the engine.
type InputValidator struct{}

// newInputValidator creates a new input validator.
func newInputValidator() *InputValidator {
	return &InputValidator{}
}

// ValidateRequired fails when value is empty or only whitespace.
func (iv *InputValidator) ValidateRequired(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return validationError("InputValidator.ValidateRequired",
			fmt.Sprintf("%s is required", field), nil)
	}
	return nil
}

// ValidateDestination validates a "host:port" destination.
func (iv *InputValidator) ValidateDestination(destination string) error {
	if err := iv.ValidateRequired("destination", destination); err != nil {
		return err
	}

	host, port, err := net.SplitHostPort(destination)
	if err != nil {
		return validationError("InputValidator.ValidateDestination",
			fmt.Sprintf("destination %q must be host:port", destination), err)
	}

	if host == "" {
		return validationError("InputValidator.ValidateDestination",
			"destination host cannot be empty", nil)
	}

	n, err := strconv.Atoi(port)
	if err != nil || n < 1 || n > 65535 {
		return validationError("InputValidator.ValidateDestination",
			fmt.Sprintf("destination port %q out of range", port), err)
	}

	return nil
}

// ValidateProxyAddress validates the URL of the relay proxy.
func (iv *InputValidator) ValidateProxyAddress(address string) error {
	if err := iv.ValidateRequired("proxy address", address); err != nil {
		return err
	}

	u, err := url.Parse(address)
	if err != nil {
		return validationError("InputValidator.ValidateProxyAddress",
			"proxy address is not a valid URL", err)
	}

	switch u.Scheme {
	case "ws", "wss", "http", "https":
	default:
		return validationError("InputValidator.ValidateProxyAddress",
			fmt.Sprintf("unsupported proxy scheme %q", u.Scheme), nil)
	}

	if u.Host == "" {
		return validationError("InputValidator.ValidateProxyAddress",
			"proxy address must include a host", nil)
	}

	return nil
}

// ValidateDesktopSize validates requested desktop dimensions.
func (iv *InputValidator) ValidateDesktopSize(width, height int) error {
	if width <= 0 || height <= 0 {
		return validationError("InputValidator.ValidateDesktopSize",
			fmt.Sprintf("desktop dimensions must be positive, got %dx%d", width, height), nil)
	}

	if width > MaxDesktopDimension || height > MaxDesktopDimension {
		return validationError("InputValidator.ValidateDesktopSize",
			fmt.Sprintf("desktop dimensions %dx%d exceed maximum %d",
				width, height, MaxDesktopDimension), nil)
	}

	return nil
}

// ValidateTextData validates text for UTF-8 encoding and length limits.
func (iv *InputValidator) ValidateTextData(text string, maxLength int) error {
	if len(text) > maxLength {
		return validationError("InputValidator.ValidateTextData",
			fmt.Sprintf("text length %d exceeds maximum %d", len(text), maxLength), nil)
	}

	if !utf8.ValidString(text) {
		return validationError("InputValidator.ValidateTextData",
			"text contains invalid UTF-8 sequences", nil)
	}

	return nil
}

// SanitizeText replaces control characters with spaces and unprintable runes
// with U+FFFD. Tabs and line breaks are kept.
func (iv *InputValidator) SanitizeText(text string) string {
	if text == "" {
		return text
	}

	var b strings.Builder
	b.Grow(len(text))

	for _, r := range text {
		switch {
		case r == '\t' || r == '\n' || r == '\r':
			b.WriteRune(r)
		case r < 32:
			b.WriteRune(' ')
		case unicode.IsPrint(r):
			b.WriteRune(r)
		default:
			b.WriteRune('\uFFFD')
		}
	}

	return b.String()
}

// describeError renders err for the host's error callback.
func (iv *InputValidator) describeError(err error) string {
	text := err.Error()
	if len(text) > MaxDiagnosticLength {
		text = text[:MaxDiagnosticLength]
	}
	if iv.ValidateTextData(text, MaxDiagnosticLength) != nil {
		text = strings.ToValidUTF8(text, "\uFFFD")
	}
	return iv.SanitizeText(text)
}
