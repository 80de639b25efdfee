// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Ryan Johnson

package rdpbridge

import "context"

// Connection defaults.
const (
	DefaultDesktopWidth  = 1280
	DefaultDesktopHeight = 720
	DefaultAuthToken     = "koder"
)

// ConnectOptions are the host-facing connection options.
type ConnectOptions struct {
	Username     string
	Password     string
	Destination  string // host:port of the remote desktop
	ProxyAddress string // URL of the relay proxy
	Domain       string // optional
	Surface      Surface

	// Width and Height default to 1280x720 when zero.
	Width  int
	Height int
}

// Callbacks are the engine notification slots. Nil slots get defaults.
type Callbacks struct {
	// CursorStyle defaults to setting the style on the bound surface, or
	// DefaultCursorStyle when the engine reports an empty style.
	CursorStyle func(style string)

	// ClipboardChanged defaults to a no-op.
	ClipboardChanged func(data ClipboardData)

	// ForceClipboardUpdate defaults to a no-op that succeeds immediately.
	ForceClipboardUpdate func() error

	// CanvasResized defaults to a no-op.
	CanvasResized func()
}

// ConnectionRequest is a validated, immutable set of connection parameters.
// Obtain one from RequestBuilder.Build.
type ConnectionRequest struct {
	username     string
	password     string
	destination  string
	proxyAddress string
	domain       string
	authToken    string
	desktopSize  DesktopSize
	surface      Surface
	callbacks    Callbacks
}

// Username returns the account name.
func (r *ConnectionRequest) Username() string { return r.username }

// Destination returns the host:port of the remote desktop.
func (r *ConnectionRequest) Destination() string { return r.destination }

// ProxyAddress returns the relay proxy URL.
func (r *ConnectionRequest) ProxyAddress() string { return r.proxyAddress }

// Domain returns the optional domain, or "" when unset.
func (r *ConnectionRequest) Domain() string { return r.domain }

// DesktopSize returns the requested desktop size.
func (r *ConnectionRequest) DesktopSize() DesktopSize { return r.desktopSize }

// Surface returns the output surface.
func (r *ConnectionRequest) Surface() Surface { return r.surface }

// validate checks the mandatory fields. It is run by Build and again by the
// controller, so a zero ConnectionRequest never reaches the engine.
func (r *ConnectionRequest) validate(op string) error {
	validator := newInputValidator()

	if err := validator.ValidateRequired("username", r.username); err != nil {
		return validationError(op, "invalid username", err)
	}
	if r.password == "" {
		return validationError(op, "password is required", nil)
	}
	if err := validator.ValidateDestination(r.destination); err != nil {
		return validationError(op, "invalid destination", err)
	}
	if err := validator.ValidateProxyAddress(r.proxyAddress); err != nil {
		return validationError(op, "invalid proxy address", err)
	}
	if r.surface == nil {
		return validationError(op, "output surface is required", nil)
	}
	if err := validator.ValidateDesktopSize(r.desktopSize.Width, r.desktopSize.Height); err != nil {
		return validationError(op, "invalid desktop size", err)
	}
	return nil
}

// configure transfers the request onto the engine's builder, filling in
// default callbacks. An unset domain is not forwarded.
func (r *ConnectionRequest) configure(b SessionBuilder) SessionBuilder {
	b = b.Username(r.username)
	b = b.Password(r.password)
	b = b.Destination(r.destination)
	b = b.ProxyAddress(r.proxyAddress)
	b = b.AuthToken(r.authToken)
	b = b.DesktopSize(r.desktopSize)
	b = b.RenderSurface(r.surface)

	if r.domain != "" {
		b = b.ServerDomain(r.domain)
	}

	cb := r.callbacks
	if cb.CursorStyle == nil {
		surface := r.surface
		cb.CursorStyle = func(style string) {
			if style == "" {
				style = DefaultCursorStyle
			}
			surface.SetCursorStyle(style)
		}
	}
	if cb.ClipboardChanged == nil {
		cb.ClipboardChanged = func(ClipboardData) {}
	}
	if cb.ForceClipboardUpdate == nil {
		cb.ForceClipboardUpdate = func() error { return nil }
	}
	if cb.CanvasResized == nil {
		cb.CanvasResized = func() {}
	}

	b = b.CursorStyleCallback(cb.CursorStyle)
	b = b.RemoteClipboardChangedCallback(cb.ClipboardChanged)
	b = b.ForceClipboardUpdateCallback(cb.ForceClipboardUpdate)
	b = b.CanvasResizedCallback(cb.CanvasResized)
	return b
}

// connect configures a fresh engine builder from the request and negotiates.
func (r *ConnectionRequest) connect(ctx context.Context, engine Engine) (EngineSession, error) {
	return r.configure(engine.NewSessionBuilder()).Connect(ctx)
}

// RequestBuilder assembles a ConnectionRequest. It is a value type: every
// setter returns a modified copy and leaves the receiver untouched, so a
// partially configured builder can be reused as a template.
//
// Example usage:
//
//	req, err := rdpbridge.NewRequestBuilder().
//		Username("alice").
//		Password(secret).
//		Destination("10.0.0.5:3389").
//		ProxyAddress("wss://gateway.example.com/rdp-proxy").
//		Surface(canvas).
//		Build()
type RequestBuilder struct {
	req ConnectionRequest
}

// NewRequestBuilder returns a builder with the default desktop size and auth token.
func NewRequestBuilder() RequestBuilder {
	return RequestBuilder{req: ConnectionRequest{
		authToken:   DefaultAuthToken,
		desktopSize: DesktopSize{Width: DefaultDesktopWidth, Height: DefaultDesktopHeight},
	}}
}

// FromOptions returns a builder preloaded with opts. Zero width or height
// keeps the default.
func FromOptions(opts ConnectOptions) RequestBuilder {
	b := NewRequestBuilder().
		Username(opts.Username).
		Password(opts.Password).
		Destination(opts.Destination).
		ProxyAddress(opts.ProxyAddress).
		Domain(opts.Domain).
		Surface(opts.Surface)

	size := b.req.desktopSize
	if opts.Width != 0 {
		size.Width = opts.Width
	}
	if opts.Height != 0 {
		size.Height = opts.Height
	}
	return b.DesktopSize(size.Width, size.Height)
}

// Username sets the account name.
func (b RequestBuilder) Username(username string) RequestBuilder {
	b.req.username = username
	return b
}

// Password sets the account password.
func (b RequestBuilder) Password(password string) RequestBuilder {
	b.req.password = password
	return b
}

// Destination sets the "host:port" of the remote desktop.
func (b RequestBuilder) Destination(destination string) RequestBuilder {
	b.req.destination = destination
	return b
}

// ProxyAddress sets the relay endpoint the engine connects through.
func (b RequestBuilder) ProxyAddress(address string) RequestBuilder {
	b.req.proxyAddress = address
	return b
}

// Domain sets the optional domain. An empty domain clears it.
func (b RequestBuilder) Domain(domain string) RequestBuilder {
	b.req.domain = domain
	return b
}

// AuthToken sets the token presented to the relay.
func (b RequestBuilder) AuthToken(token string) RequestBuilder {
	b.req.authToken = token
	return b
}

// DesktopSize sets the requested desktop size in pixels.
func (b RequestBuilder) DesktopSize(width, height int) RequestBuilder {
	b.req.desktopSize = DesktopSize{Width: width, Height: height}
	return b
}

// Surface sets the output surface.
func (b RequestBuilder) Surface(surface Surface) RequestBuilder {
	b.req.surface = surface
	return b
}

// CursorStyleCallback replaces the default cursor-style handler.
func (b RequestBuilder) CursorStyleCallback(fn func(style string)) RequestBuilder {
	b.req.callbacks.CursorStyle = fn
	return b
}

// ClipboardChangedCallback sets the handler for remote clipboard changes.
func (b RequestBuilder) ClipboardChangedCallback(fn func(data ClipboardData)) RequestBuilder {
	b.req.callbacks.ClipboardChanged = fn
	return b
}

// ForceClipboardUpdateCallback sets the handler asked to resend the local clipboard.
func (b RequestBuilder) ForceClipboardUpdateCallback(fn func() error) RequestBuilder {
	b.req.callbacks.ForceClipboardUpdate = fn
	return b
}

// CanvasResizedCallback sets the handler called after the engine resizes the surface.
func (b RequestBuilder) CanvasResizedCallback(fn func()) RequestBuilder {
	b.req.callbacks.CanvasResized = fn
	return b
}

// Build validates the mandatory fields (username, password, destination,
// proxy address, surface) and the desktop size, and returns the request.
func (b RequestBuilder) Build() (*ConnectionRequest, error) {
	req := b.req
	if err := req.validate("RequestBuilder.Build"); err != nil {
		return nil, err
	}
	return &req, nil
}
