// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Ryan Johnson

package rdpbridge

import "math"

// WheelRotationUnit is the fixed unit used for every wheel event.
const WheelRotationUnit = RotationPixel

// MapKey translates a physical key identifier into a key event. Identifiers
// missing from the scancode table yield ok == false and no event.
func MapKey(code string, down bool) (ev DeviceEvent, ok bool) {
	sc, found := LookupScancode(code)
	if !found {
		return nil, false
	}
	if down {
		return KeyPressed{Scancode: sc}, true
	}
	return KeyReleased{Scancode: sc}, true
}

// MapPointerMove rescales a pointer position from the displayed bounds of the
// surface to its logical resolution. Each axis uses its own scale factor
// (resolution / displayed size). Results are rounded to the nearest integer
// with halves rounded up, and are not clamped to the desktop.
//
// A zero displayed dimension leaves that axis unscaled.
func MapPointerMove(clientX, clientY float64, bounds Rect, resWidth, resHeight int) MouseMove {
	scaleX, scaleY := 1.0, 1.0
	if bounds.Width != 0 {
		scaleX = float64(resWidth) / bounds.Width
	}
	if bounds.Height != 0 {
		scaleY = float64(resHeight) / bounds.Height
	}

	return MouseMove{
		X: roundHalfUp((clientX - bounds.Left) * scaleX),
		Y: roundHalfUp((clientY - bounds.Top) * scaleY),
	}
}

// MapMouseButton passes the platform button number through unchanged.
func MapMouseButton(button int, down bool) DeviceEvent {
	if down {
		return MouseButtonPressed{Button: button}
	}
	return MouseButtonReleased{Button: button}
}

// MapWheel converts wheel deltas into at most two rotation events, vertical
// first. A positive delta scrolls towards the user, so its sign is inverted.
// A zero delta on an axis produces nothing for that axis.
func MapWheel(deltaX, deltaY float64) []DeviceEvent {
	var events []DeviceEvent
	if deltaY != 0 {
		events = append(events, WheelRotation{
			Vertical: true,
			Rotation: wheelDirection(deltaY),
			Unit:     WheelRotationUnit,
		})
	}
	if deltaX != 0 {
		events = append(events, WheelRotation{
			Vertical: false,
			Rotation: wheelDirection(deltaX),
			Unit:     WheelRotationUnit,
		})
	}
	return events
}

func wheelDirection(delta float64) int16 {
	if delta > 0 {
		return -1
	}
	return 1
}

func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}
