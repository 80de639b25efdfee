// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Ryan Johnson

package enginetest

import (
	"context"

	rdpbridge "github.com/tenthirtyam/go-rdpbridge"
)

// Params is everything a Builder was given before Connect.
type Params struct {
	Username     string
	Password     string
	Destination  string
	ProxyAddress string
	Domain       string
	DomainSet    bool
	AuthToken    string
	DesktopSize  rdpbridge.DesktopSize
	Surface      rdpbridge.Surface

	CursorStyle          func(style string)
	ClipboardChanged     func(data rdpbridge.ClipboardData)
	ForceClipboardUpdate func() error
	CanvasResized        func()
}

// Builder is the engine's rdpbridge.SessionBuilder. Setters mutate and
// return the receiver.
type Builder struct {
	engine *Engine
	params Params
}

// Username records the username.
func (b *Builder) Username(username string) rdpbridge.SessionBuilder {
	b.params.Username = username
	return b
}

// Password records the password.
func (b *Builder) Password(password string) rdpbridge.SessionBuilder {
	b.params.Password = password
	return b
}

// Destination records the destination.
func (b *Builder) Destination(destination string) rdpbridge.SessionBuilder {
	b.params.Destination = destination
	return b
}

// ProxyAddress records the proxy address.
func (b *Builder) ProxyAddress(address string) rdpbridge.SessionBuilder {
	b.params.ProxyAddress = address
	return b
}

// ServerDomain records the domain and marks it as set.
func (b *Builder) ServerDomain(domain string) rdpbridge.SessionBuilder {
	b.params.Domain = domain
	b.params.DomainSet = true
	return b
}

// AuthToken records the auth token.
func (b *Builder) AuthToken(token string) rdpbridge.SessionBuilder {
	b.params.AuthToken = token
	return b
}

// DesktopSize records the requested desktop size.
func (b *Builder) DesktopSize(size rdpbridge.DesktopSize) rdpbridge.SessionBuilder {
	b.params.DesktopSize = size
	return b
}

// RenderSurface records the output surface.
func (b *Builder) RenderSurface(surface rdpbridge.Surface) rdpbridge.SessionBuilder {
	b.params.Surface = surface
	return b
}

// CursorStyleCallback records the cursor-style callback.
func (b *Builder) CursorStyleCallback(fn func(style string)) rdpbridge.SessionBuilder {
	b.params.CursorStyle = fn
	return b
}

// RemoteClipboardChangedCallback records the clipboard-changed callback.
func (b *Builder) RemoteClipboardChangedCallback(fn func(data rdpbridge.ClipboardData)) rdpbridge.SessionBuilder {
	b.params.ClipboardChanged = fn
	return b
}

// ForceClipboardUpdateCallback records the force-clipboard-update callback.
func (b *Builder) ForceClipboardUpdateCallback(fn func() error) rdpbridge.SessionBuilder {
	b.params.ForceClipboardUpdate = fn
	return b
}

// CanvasResizedCallback records the canvas-resized callback.
func (b *Builder) CanvasResizedCallback(fn func()) rdpbridge.SessionBuilder {
	b.params.CanvasResized = fn
	return b
}

// Connect negotiates according to the engine's configuration.
func (b *Builder) Connect(ctx context.Context) (rdpbridge.EngineSession, error) {
	s, err := b.engine.connect(ctx, b.params)
	if err != nil {
		return nil, err
	}
	return s, nil
}
