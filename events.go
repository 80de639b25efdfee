// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Ryan Johnson

package rdpbridge

import "fmt"

// EventKind identifies the variant of a DeviceEvent.
type EventKind uint8

const (
	KindKeyPressed EventKind = iota + 1
	KindKeyReleased
	KindMouseMove
	KindMouseButtonPressed
	KindMouseButtonReleased
	KindWheelRotation
)

// String returns the name of the event kind.
func (k EventKind) String() string {
	switch k {
	case KindKeyPressed:
		return "KeyPressed"
	case KindKeyReleased:
		return "KeyReleased"
	case KindMouseMove:
		return "MouseMove"
	case KindMouseButtonPressed:
		return "MouseButtonPressed"
	case KindMouseButtonReleased:
		return "MouseButtonReleased"
	case KindWheelRotation:
		return "WheelRotation"
	default:
		return "Unknown"
	}
}

// DeviceEvent is a normalized protocol input event. The concrete types are
// KeyPressed, KeyReleased, MouseMove, MouseButtonPressed, MouseButtonReleased
// and WheelRotation.
type DeviceEvent interface {
	// Kind returns the variant of the event.
	Kind() EventKind

	deviceEvent()
}

// RotationUnit is the unit a wheel rotation amount is expressed in.
type RotationUnit uint8

const (
	RotationPixel RotationUnit = iota
	RotationLine
	RotationPage
)

// String returns the name of the rotation unit.
func (u RotationUnit) String() string {
	switch u {
	case RotationPixel:
		return "Pixel"
	case RotationLine:
		return "Line"
	case RotationPage:
		return "Page"
	default:
		return "Unknown"
	}
}

// KeyPressed reports a key going down.
type KeyPressed struct {
	Scancode Scancode
}

// KeyReleased reports a key going up.
type KeyReleased struct {
	Scancode Scancode
}

// MouseMove reports an absolute pointer position in desktop coordinates.
type MouseMove struct {
	X, Y int
}

// MouseButtonPressed reports a pointer button going down. Button uses the
// platform numbering (0 primary, 1 auxiliary, 2 secondary, ...).
type MouseButtonPressed struct {
	Button int
}

// MouseButtonReleased reports a pointer button going up.
type MouseButtonReleased struct {
	Button int
}

// WheelRotation reports one wheel notch on an axis. Rotation is +1 (away
// from the user) or -1 (towards the user).
type WheelRotation struct {
	Vertical bool
	Rotation int16
	Unit     RotationUnit
}

func (KeyPressed) Kind() EventKind          { return KindKeyPressed }
func (KeyReleased) Kind() EventKind         { return KindKeyReleased }
func (MouseMove) Kind() EventKind           { return KindMouseMove }
func (MouseButtonPressed) Kind() EventKind  { return KindMouseButtonPressed }
func (MouseButtonReleased) Kind() EventKind { return KindMouseButtonReleased }
func (WheelRotation) Kind() EventKind       { return KindWheelRotation }

func (KeyPressed) deviceEvent()          {}
func (KeyReleased) deviceEvent()         {}
func (MouseMove) deviceEvent()           {}
func (MouseButtonPressed) deviceEvent()  {}
func (MouseButtonReleased) deviceEvent() {}
func (WheelRotation) deviceEvent()       {}

func (e KeyPressed) String() string  { return fmt.Sprintf("KeyPressed(%s)", e.Scancode) }
func (e KeyReleased) String() string { return fmt.Sprintf("KeyReleased(%s)", e.Scancode) }
func (e MouseMove) String() string   { return fmt.Sprintf("MouseMove(%d,%d)", e.X, e.Y) }
func (e MouseButtonPressed) String() string {
	return fmt.Sprintf("MouseButtonPressed(%d)", e.Button)
}
func (e MouseButtonReleased) String() string {
	return fmt.Sprintf("MouseButtonReleased(%d)", e.Button)
}
func (e WheelRotation) String() string {
	axis := "horizontal"
	if e.Vertical {
		axis = "vertical"
	}
	return fmt.Sprintf("WheelRotation(%s,%d,%s)", axis, e.Rotation, e.Unit)
}
