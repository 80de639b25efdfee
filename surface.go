// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Ryan Johnson

package rdpbridge

// DefaultCursorStyle is applied when the engine reports an empty cursor style.
const DefaultCursorStyle = "default"

// Rect is the on-screen placement of a surface in client coordinates.
type Rect struct {
	Left, Top     float64
	Width, Height float64
}

// Surface is the output surface the engine renders into and the source of
// local input. A browser canvas is the typical implementation.
type Surface interface {
	// Bounds returns the displayed placement and size of the surface.
	Bounds() Rect

	// Resolution returns the logical size of the surface backing store, which
	// tracks the remote desktop size.
	Resolution() (width, height int)

	// SetCursorStyle changes the pointer style shown over the surface.
	SetCursorStyle(style string)

	// Focus gives the surface keyboard focus.
	Focus()

	// Listen installs l as an input listener. It must not deliver input to l
	// before returning. The returned function removes l and must be safe to
	// call more than once.
	Listen(l InputListener) (detach func())
}

// Disposition tells the input source what to do with the native event after
// the listener has seen it.
type Disposition uint8

const (
	// PreventDefault suppresses the platform's default handling.
	PreventDefault Disposition = 1 << iota
	// StopPropagation stops the event from bubbling further.
	StopPropagation
)

// Has reports whether all bits of flag are set.
func (d Disposition) Has(flag Disposition) bool {
	return d&flag == flag
}

// RawInput is a native input event delivered by a Surface. The concrete types
// are KeyInput, PointerMoveInput, PointerButtonInput, WheelInput and
// ContextMenuInput.
type RawInput interface {
	rawInput()
}

// KeyInput is a physical key transition.
type KeyInput struct {
	// Code is the physical key identifier, e.g. "KeyA" or "ShiftLeft".
	Code string
	Down bool
}

// PointerMoveInput is a pointer position in client coordinates.
type PointerMoveInput struct {
	ClientX, ClientY float64
}

// PointerButtonInput is a pointer button transition.
type PointerButtonInput struct {
	Button int
	Down   bool
}

// WheelInput carries wheel deltas for both axes.
type WheelInput struct {
	DeltaX, DeltaY float64
}

// ContextMenuInput is a request for the platform context menu.
type ContextMenuInput struct{}

func (KeyInput) rawInput()           {}
func (PointerMoveInput) rawInput()   {}
func (PointerButtonInput) rawInput() {}
func (WheelInput) rawInput()         {}
func (ContextMenuInput) rawInput()   {}

// InputListener receives raw input from a Surface. Surfaces call it from a
// single goroutine per input source.
type InputListener interface {
	HandleInput(in RawInput) Disposition
}

// InputListenerFunc adapts a function to the InputListener interface.
type InputListenerFunc func(in RawInput) Disposition

// HandleInput calls f(in).
func (f InputListenerFunc) HandleInput(in RawInput) Disposition {
	return f(in)
}
