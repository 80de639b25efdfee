// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Ryan Johnson

package rdpbridge

import (
	"reflect"
	"testing"
)

func TestMapper_MapKey(t *testing.T) {
	tests := []struct {
		name string
		code string
		down bool
		want DeviceEvent
	}{
		{"letter down", "KeyA", true, KeyPressed{Scancode: 0x001E}},
		{"letter up", "KeyA", false, KeyReleased{Scancode: 0x001E}},
		{"extended key", "ArrowLeft", true, KeyPressed{Scancode: 0xE04B}},
		{"delete", "Delete", false, KeyReleased{Scancode: ScancodeDelete}},
		{"control", "ControlLeft", true, KeyPressed{Scancode: ScancodeControlLeft}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := MapKey(tt.code, tt.down)
			if !ok {
				t.Fatalf("MapKey(%q) not mapped", tt.code)
			}
			if got != tt.want {
				t.Errorf("MapKey(%q, %v) = %v, want %v", tt.code, tt.down, got, tt.want)
			}
		})
	}
}

func TestMapper_MapKeyUnmapped(t *testing.T) {
	for _, code := range []string{"", "Unidentified", "keya", "Fn", "MediaPlayPause"} {
		t.Run(code, func(t *testing.T) {
			ev, ok := MapKey(code, true)
			if ok || ev != nil {
				t.Errorf("MapKey(%q) = %v, %v, want nil, false", code, ev, ok)
			}
		})
	}
}

func TestMapper_MapPointerMove(t *testing.T) {
	tests := []struct {
		name       string
		x, y       float64
		bounds     Rect
		resW, resH int
		want       MouseMove
	}{
		{"native size at origin", 100, 50, Rect{Width: 1280, Height: 720}, 1280, 720, MouseMove{X: 100, Y: 50}},
		{"offset subtracted", 110, 70, Rect{Left: 10, Top: 20, Width: 1280, Height: 720}, 1280, 720, MouseMove{X: 100, Y: 50}},
		{"displayed at half size", 320, 180, Rect{Width: 640, Height: 360}, 1280, 720, MouseMove{X: 640, Y: 360}},
		{"independent axis scales", 100, 100, Rect{Width: 1000, Height: 500}, 2000, 500, MouseMove{X: 200, Y: 100}},
		{"halves round up", 0.5, 1.5, Rect{Width: 100, Height: 100}, 100, 100, MouseMove{X: 1, Y: 2}},
		{"negative halves round towards positive", -0.5, -1.5, Rect{Width: 100, Height: 100}, 100, 100, MouseMove{X: 0, Y: -1}},
		{"outside the surface is not clamped", -20, 900, Rect{Width: 1280, Height: 720}, 1280, 720, MouseMove{X: -20, Y: 900}},
		{"zero displayed size leaves axis unscaled", 30, 40, Rect{}, 1280, 720, MouseMove{X: 30, Y: 40}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapPointerMove(tt.x, tt.y, tt.bounds, tt.resW, tt.resH)
			if got != tt.want {
				t.Errorf("MapPointerMove() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMapper_MapMouseButton(t *testing.T) {
	for button := 0; button <= 4; button++ {
		if got := MapMouseButton(button, true); got != (MouseButtonPressed{Button: button}) {
			t.Errorf("MapMouseButton(%d, true) = %v", button, got)
		}
		if got := MapMouseButton(button, false); got != (MouseButtonReleased{Button: button}) {
			t.Errorf("MapMouseButton(%d, false) = %v", button, got)
		}
	}
}

func TestMapper_MapWheel(t *testing.T) {
	vertical := func(r int16) DeviceEvent {
		return WheelRotation{Vertical: true, Rotation: r, Unit: RotationPixel}
	}
	horizontal := func(r int16) DeviceEvent {
		return WheelRotation{Vertical: false, Rotation: r, Unit: RotationPixel}
	}

	tests := []struct {
		name   string
		dx, dy float64
		want   []DeviceEvent
	}{
		{"scroll down", 0, 120, []DeviceEvent{vertical(-1)}},
		{"scroll up", 0, -120, []DeviceEvent{vertical(1)}},
		{"scroll right", 120, 0, []DeviceEvent{horizontal(-1)}},
		{"scroll left", -3, 0, []DeviceEvent{horizontal(1)}},
		{"magnitude is ignored", 0, 0.01, []DeviceEvent{vertical(-1)}},
		{"both axes, vertical first", 40, -40, []DeviceEvent{vertical(1), horizontal(-1)}},
		{"no movement", 0, 0, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapWheel(tt.dx, tt.dy)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("MapWheel(%v, %v) = %v, want %v", tt.dx, tt.dy, got, tt.want)
			}
		})
	}
}

func TestScancodes_Lookup(t *testing.T) {
	tests := []struct {
		code     string
		want     Scancode
		extended bool
	}{
		{"Escape", 0x0001, false},
		{"KeyA", 0x001E, false},
		{"Space", 0x0039, false},
		{"F12", 0x0058, false},
		{"ControlRight", 0xE01D, true},
		{"Delete", 0xE053, true},
		{"MetaLeft", 0xE05B, true},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			got, ok := LookupScancode(tt.code)
			if !ok || got != tt.want {
				t.Fatalf("LookupScancode(%q) = %v, %v, want %v", tt.code, got, ok, tt.want)
			}
			if got.Extended() != tt.extended {
				t.Errorf("%v.Extended() = %v, want %v", got, got.Extended(), tt.extended)
			}
		})
	}
}

func TestScancodes_Format(t *testing.T) {
	if got := ScancodeDelete.String(); got != "0xE053" {
		t.Errorf("ScancodeDelete.String() = %q", got)
	}
	if got := ScancodeDelete.Code(); got != 0x53 {
		t.Errorf("ScancodeDelete.Code() = %#x", got)
	}
	if got := (KeyPressed{Scancode: ScancodeAltLeft}).String(); got != "KeyPressed(0x0038)" {
		t.Errorf("KeyPressed.String() = %q", got)
	}
	if got := (WheelRotation{Vertical: true, Rotation: -1}).String(); got != "WheelRotation(vertical,-1,Pixel)" {
		t.Errorf("WheelRotation.String() = %q", got)
	}
}

func TestScancodes_KeyCodesAreUnique(t *testing.T) {
	seen := make(map[Scancode]string)
	for _, code := range KeyCodes() {
		sc, ok := LookupScancode(code)
		if !ok {
			t.Fatalf("KeyCodes() returned unknown code %q", code)
		}
		if other, dup := seen[sc]; dup {
			t.Errorf("%q and %q share scancode %v", code, other, sc)
		}
		seen[sc] = code
	}
}

func TestTransaction_Order(t *testing.T) {
	tx := NewInputTransaction(3)
	events := []DeviceEvent{
		KeyPressed{Scancode: 0x001E},
		MouseMove{X: 1, Y: 2},
		KeyReleased{Scancode: 0x001E},
	}
	for _, ev := range events {
		if err := tx.AddEvent(ev); err != nil {
			t.Fatalf("AddEvent() = %v", err)
		}
	}

	if !reflect.DeepEqual(tx.Events(), events) {
		t.Errorf("Events() = %v, want %v", tx.Events(), events)
	}
	if tx.Len() != 3 {
		t.Errorf("Len() = %d, want 3", tx.Len())
	}

	// Events returns a copy.
	got := tx.Events()
	got[0] = nil
	if tx.Events()[0] == nil {
		t.Error("Events() exposed internal storage")
	}
}

func TestTransaction_Seal(t *testing.T) {
	tx := newTransaction(KeyPressed{Scancode: 0x001E})

	if err := tx.AddEvent(nil); !IsBridgeError(err, ErrValidation) {
		t.Errorf("AddEvent(nil) = %v, want validation error", err)
	}

	if err := tx.seal(); err != nil {
		t.Fatalf("seal() = %v", err)
	}
	if !tx.Sealed() {
		t.Error("Sealed() = false after seal")
	}
	if err := tx.seal(); !IsBridgeError(err, ErrState) {
		t.Errorf("second seal() = %v, want state error", err)
	}
	if err := tx.AddEvent(KeyReleased{Scancode: 0x001E}); !IsBridgeError(err, ErrState) {
		t.Errorf("AddEvent() after seal = %v, want state error", err)
	}
	if tx.Len() != 1 {
		t.Errorf("Len() = %d, want 1", tx.Len())
	}
}
