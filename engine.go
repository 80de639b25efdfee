// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Ryan Johnson

package rdpbridge

import "context"

// Engine is the external component implementing protocol negotiation, the
// codec and rendering. The bridge only orchestrates it.
type Engine interface {
	// Setup loads and starts the engine. logLevel is the engine's verbosity,
	// e.g. "INFO". The controller calls it at most once.
	Setup(ctx context.Context, logLevel string) error

	// NewSessionBuilder returns an empty connection builder.
	NewSessionBuilder() SessionBuilder
}

// SessionBuilder accumulates connection parameters for the engine. Every
// setter returns the builder to continue the chain with; implementations may
// return a new value or the receiver.
type SessionBuilder interface {
	Username(username string) SessionBuilder
	Password(password string) SessionBuilder
	Destination(destination string) SessionBuilder
	ProxyAddress(address string) SessionBuilder
	ServerDomain(domain string) SessionBuilder
	AuthToken(token string) SessionBuilder
	DesktopSize(size DesktopSize) SessionBuilder
	RenderSurface(surface Surface) SessionBuilder
	CursorStyleCallback(fn func(style string)) SessionBuilder
	RemoteClipboardChangedCallback(fn func(data ClipboardData)) SessionBuilder
	ForceClipboardUpdateCallback(fn func() error) SessionBuilder
	CanvasResizedCallback(fn func()) SessionBuilder

	// Connect negotiates the connection and returns a live session. Failures
	// are reported as *EngineError.
	Connect(ctx context.Context) (EngineSession, error)
}

// EngineSession is a live session handle returned by SessionBuilder.Connect.
type EngineSession interface {
	// ApplyInputs delivers a transaction's events in order.
	ApplyInputs(tx *InputTransaction) error

	// Resize requests a new desktop size.
	Resize(width, height int, opts ResizeOptions) error

	// Shutdown asks the session to end gracefully. It does not wait for Run
	// to return.
	Shutdown() error

	// Run drives the session until it ends and returns why it ended.
	Run(ctx context.Context) (TerminationInfo, error)

	DesktopSize() DesktopSize
	SupportsUnicodeKeyboardShortcuts() bool
	SynchronizeLockKeys(scrollLock, numLock, capsLock, kanaLock bool) error
	ReleaseAllInputs() error
	OnClipboardPaste(data ClipboardData) error
	InvokeExtension(ext Extension) (interface{}, error)
}

// DesktopSize is a remote desktop size in pixels.
type DesktopSize struct {
	Width  int
	Height int
}

// TerminationInfo describes why a session ended normally.
type TerminationInfo struct {
	Reason string
}

// ResizeOptions carries the optional parameters of a resize request. Zero
// values mean "not specified".
type ResizeOptions struct {
	ScaleFactor    int
	PhysicalWidth  int
	PhysicalHeight int
}

// ResizeOption configures a resize request.
type ResizeOption func(*ResizeOptions)

// WithScaleFactor sets the desktop scale factor in percent.
func WithScaleFactor(percent int) ResizeOption {
	return func(o *ResizeOptions) {
		o.ScaleFactor = percent
	}
}

// WithPhysicalSize sets the physical size of the display in millimetres.
func WithPhysicalSize(width, height int) ResizeOption {
	return func(o *ResizeOptions) {
		o.PhysicalWidth = width
		o.PhysicalHeight = height
	}
}

// ClipboardItem is one representation of clipboard content.
type ClipboardItem struct {
	MimeType string
	Value    interface{}
}

// ClipboardData is clipboard content offered in one or more formats.
type ClipboardData struct {
	Items []ClipboardItem
}

// AddText appends a text representation.
func (d *ClipboardData) AddText(mimeType, text string) {
	d.Items = append(d.Items, ClipboardItem{MimeType: mimeType, Value: text})
}

// AddBinary appends a binary representation.
func (d *ClipboardData) AddBinary(mimeType string, data []byte) {
	d.Items = append(d.Items, ClipboardItem{MimeType: mimeType, Value: data})
}

// IsEmpty reports whether no representation has been added.
func (d ClipboardData) IsEmpty() bool {
	return len(d.Items) == 0
}

// Extension is a named, engine-specific extension call.
type Extension struct {
	Ident string
	Value interface{}
}
