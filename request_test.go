// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Ryan Johnson

package rdpbridge_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	rdpbridge "github.com/tenthirtyam/go-rdpbridge"
	"github.com/tenthirtyam/go-rdpbridge/enginetest"
)

func validBuilder(surface rdpbridge.Surface) rdpbridge.RequestBuilder {
	return rdpbridge.NewRequestBuilder().
		Username("alice").
		Password("secret").
		Destination("10.0.0.5:3389").
		ProxyAddress("wss://gateway.example.com/jet/rdp").
		Surface(surface)
}

func TestRequestBuilder_Defaults(t *testing.T) {
	req, err := validBuilder(enginetest.NewSurface(1280, 720)).Build()
	require.NoError(t, err)

	assert.Equal(t, "alice", req.Username())
	assert.Equal(t, "10.0.0.5:3389", req.Destination())
	assert.Equal(t, "wss://gateway.example.com/jet/rdp", req.ProxyAddress())
	assert.Empty(t, req.Domain())
	assert.Equal(t, rdpbridge.DesktopSize{Width: 1280, Height: 720}, req.DesktopSize())
	assert.NotNil(t, req.Surface())
}

func TestRequestBuilder_MissingFields(t *testing.T) {
	surface := enginetest.NewSurface(1280, 720)
	base := validBuilder(surface)

	tests := []struct {
		name    string
		builder rdpbridge.RequestBuilder
	}{
		{"no username", base.Username("")},
		{"no password", base.Password("")},
		{"no destination", base.Destination("")},
		{"bad destination", base.Destination("10.0.0.5")},
		{"no proxy", base.ProxyAddress("")},
		{"bad proxy scheme", base.ProxyAddress("ftp://gateway")},
		{"no surface", base.Surface(nil)},
		{"zero desktop size", base.DesktopSize(0, 0)},
		{"oversized desktop", base.DesktopSize(rdpbridge.MaxDesktopDimension+1, 720)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := tt.builder.Build()
			require.Error(t, err)
			assert.Nil(t, req)
			assert.True(t, rdpbridge.IsBridgeError(err, rdpbridge.ErrValidation), "got %v", err)
		})
	}

	// Deriving the failing builders did not modify the template.
	_, err := base.Build()
	assert.NoError(t, err)
}

func TestRequestBuilder_FromOptions(t *testing.T) {
	surface := enginetest.NewSurface(1280, 720)

	req, err := rdpbridge.FromOptions(rdpbridge.ConnectOptions{
		Username:     "alice",
		Password:     "secret",
		Destination:  "10.0.0.5:3389",
		ProxyAddress: "wss://gateway.example.com/jet/rdp",
		Domain:       "CORP",
		Surface:      surface,
		Width:        1920,
	}).Build()
	require.NoError(t, err)

	assert.Equal(t, "CORP", req.Domain())
	assert.Equal(t, rdpbridge.DesktopSize{Width: 1920, Height: rdpbridge.DefaultDesktopHeight}, req.DesktopSize())
}
